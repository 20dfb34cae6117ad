package mail

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func newTestSender(to []string, d dialer) *EmailSender {
	s := NewEmailSender("smtp.example.com", 587, "user", "pass", "crm@example.com", to)
	s.dialer = d
	return s
}

func TestNotifyDealMoved(t *testing.T) {
	d := &fakeDialer{}
	s := newTestSender([]string{"vendas@example.com"}, d)

	err := s.NotifyDealMoved(queue.DealMovedEvent{
		DealTitle:    "Plano Acme",
		ToStageID:    "st-proposta",
		ToStageTitle: "Proposta",
		Status:       "open",
		MovedAt:      time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	msg := d.sent[0]
	assert.Equal(t, []string{"vendas@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Plano Acme → Proposta"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "01/05/2024 09:30")
}

func TestNotifyDealMovedWithoutRecipientsIsNoop(t *testing.T) {
	d := &fakeDialer{}

	require.NoError(t, newTestSender(nil, d).NotifyDealMoved(queue.DealMovedEvent{DealTitle: "X"}))
	assert.Empty(t, d.sent)
}

func TestNotifyDealMovedFallsBackToStageID(t *testing.T) {
	d := &fakeDialer{}

	require.NoError(t, newTestSender([]string{"a@example.com"}, d).NotifyDealMoved(queue.DealMovedEvent{DealTitle: "X", ToStageID: "st-9"}))
	assert.Equal(t, []string{"X → st-9"}, d.sent[0].GetHeader("Subject"))
}

func TestNotifyDealMovedSMTPError(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}

	err := newTestSender([]string{"a@example.com"}, d).NotifyDealMoved(queue.DealMovedEvent{DealTitle: "X"})

	assert.Error(t, err)
}
