package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

type DealMovedEvent struct {
	EventID          string    `json:"event_id"`
	DealID           string    `json:"deal_id"`
	DealTitle        string    `json:"deal_title"`
	FromStageID      string    `json:"from_stage_id"`
	ToStageID        string    `json:"to_stage_id"`
	ToStageTitle     string    `json:"to_stage_title"`
	ExternalID       int       `json:"external_id,omitempty"`        // lead no Kommo
	ExternalStatusID int       `json:"external_status_id,omitempty"` // status_id da etapa no Kommo
	Status           string    `json:"status"`
	MovedAt          time.Time `json:"moved_at"`
}

type TaskMovedEvent struct {
	EventID    string    `json:"event_id"`
	TaskID     string    `json:"task_id"`
	TaskTitle  string    `json:"task_title"`
	DealID     string    `json:"deal_id,omitempty"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	MovedAt    time.Time `json:"moved_at"`
}

// Publisher é o pedaço do *amqp.Channel que o produtor usa.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishDealMoved(ctx context.Context, event DealMovedEvent) error {
	return p.publish(ctx, DealMovedRoutingKey, event.EventID, event)
}

func (p *RabbitMQProducer) PublishTaskMoved(ctx context.Context, event TaskMovedEvent) error {
	return p.publish(ctx, TaskMovedRoutingKey, event.EventID, event)
}

func (p *RabbitMQProducer) publish(ctx context.Context, key, messageID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    messageID,
			Timestamp:    time.Now(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}

// LogProducer é usado quando não há RabbitMQ configurado: os eventos só vão para o log.
type LogProducer struct{}

func (LogProducer) PublishDealMoved(_ context.Context, event DealMovedEvent) error {
	log.WithFields(log.Fields{"deal_id": event.DealID, "to": event.ToStageID}).Info("📤 [EVENT] deal moved")
	return nil
}

func (LogProducer) PublishTaskMoved(_ context.Context, event TaskMovedEvent) error {
	log.WithFields(log.Fields{"task_id": event.TaskID, "to": event.ToStatus}).Info("📤 [EVENT] task moved")
	return nil
}
