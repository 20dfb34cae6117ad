package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var dealMovedTemplate = template.Must(template.New("deal_moved").Parse(`<p>O negócio <strong>{{.DealTitle}}</strong> foi movido para <strong>{{.StageTitle}}</strong>.</p>
<p>Status atual: {{.Status}}<br>Movido em: {{.MovedAt}}</p>`))

func NewEmailSender(host string, port int, user, password, from string, to []string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) NotifyDealMoved(event queue.DealMovedEvent) error {
	if len(s.To) == 0 {
		return nil
	}

	stage := event.ToStageTitle
	if stage == "" {
		stage = event.ToStageID
	}
	data := DealMovedEmailData{
		DealTitle:  event.DealTitle,
		StageTitle: stage,
		Status:     event.Status,
		MovedAt:    event.MovedAt.Format("02/01/2006 15:04"),
	}

	var body bytes.Buffer
	if err := dealMovedTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To...)
	m.SetHeader("Subject", fmt.Sprintf("%s → %s", event.DealTitle, stage))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
