package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/usecase"
)

// MetricsRecomputer recalcula os agregados de uma campanha.
type MetricsRecomputer interface {
	RecomputeMetrics(ctx context.Context, campaignID string) (*entity.Counters, error)
}

type Worker struct {
	Channel   *amqp.Channel
	Analytics MetricsRecomputer
}

func NewWorker(ch *amqp.Channel, analytics MetricsRecomputer) *Worker {
	return &Worker{
		Channel:   ch,
		Analytics: analytics,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName, // fila
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker de métricas aguardando na fila '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ [WORKER] Encerrando consumidor de métricas")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal do RabbitMQ fechado")
			}
			w.Handle(ctx, d)
		}
	}
}

// Handle processa uma entrega: ack no sucesso, nack sem requeue (vai para a
// DLQ) quando o payload é inválido ou o recálculo falha.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	var payload EventPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil || payload.CampaignID == "" {
		log.Printf("❌ [WORKER] Payload inválido: %s", string(d.Body))
		d.Nack(false, false)
		return
	}

	if _, err := w.Analytics.RecomputeMetrics(ctx, payload.CampaignID); err != nil {
		if usecase.IsNotFound(err) {
			log.Printf("⚠️ [WORKER] Campanha %s não existe mais, descartando evento %s", payload.CampaignID, payload.EventID)
			d.Ack(false)
			return
		}
		log.Printf("❌ [WORKER] Erro ao recalcular métricas da campanha %s: %v", payload.CampaignID, err)
		d.Nack(false, false)
		return
	}

	d.Ack(false)
}
