package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// CRMSync leva a mudança de etapa para o CRM externo (Kommo).
type CRMSync interface {
	UpdateLeadStatus(ctx context.Context, leadID, statusID int) error
}

// Notifier avisa a equipe sobre movimentos no quadro.
type Notifier interface {
	NotifyDealMoved(event DealMovedEvent) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	CRM      CRMSync
	Notifier Notifier
}

func NewWorker(ch Consumer, crm CRMSync, notifier Notifier) *Worker {
	return &Worker{
		Channel:  ch,
		CRM:      crm,
		Notifier: notifier,
	}
}

// Start consome a fila até o contexto ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal de entregas fechado")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	if err := w.processMessage(ctx, d.RoutingKey, d.Body); err != nil {
		log.WithField("routing_key", d.RoutingKey).Errorf("❌ [WORKER] %v", err)
		// Sem requeue: a mensagem vai para a DLQ.
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case DealMovedRoutingKey:
		var event DealMovedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("JSON inválido: %w", err)
		}
		return w.handleDealMoved(ctx, event)

	case TaskMovedRoutingKey:
		var event TaskMovedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("JSON inválido: %w", err)
		}
		log.WithFields(log.Fields{
			"task_id": event.TaskID,
			"from":    event.FromStatus,
			"to":      event.ToStatus,
		}).Info("📥 [WORKER] Tarefa movida")
		return nil

	default:
		// Sem handler: ACK para não travar a fila.
		log.Printf("⚠️ Routing key desconhecida: %s. Apenas logando.", routingKey)
		return nil
	}
}

func (w *Worker) handleDealMoved(ctx context.Context, event DealMovedEvent) error {
	log.Printf("📥 [WORKER] Negócio %s movido para %s", event.DealID, event.ToStageTitle)

	if w.CRM != nil && event.ExternalID > 0 && event.ExternalStatusID > 0 {
		if err := w.CRM.UpdateLeadStatus(ctx, event.ExternalID, event.ExternalStatusID); err != nil {
			return fmt.Errorf("erro na sincronização com o CRM: %w", err)
		}
	}

	if w.Notifier != nil {
		if err := w.Notifier.NotifyDealMoved(event); err != nil {
			// E-mail não justifica DLQ.
			log.Printf("⚠️ Falha ao notificar movimento do negócio %s: %v", event.DealID, err)
		}
	}
	return nil
}
