package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

// EventPayload é a mensagem publicada a cada evento gravado no log.
type EventPayload struct {
	EventID     string    `json:"event_id"`
	CampaignID  string    `json:"campaign_id"`
	RecipientID string    `json:"recipient_id"`
	EventType   string    `json:"event_type"`
	Channel     string    `json:"channel"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewEventPayload(e *entity.MessageEvent) EventPayload {
	return EventPayload{
		EventID:     e.ID,
		CampaignID:  e.CampaignID,
		RecipientID: e.RecipientID,
		EventType:   string(e.EventType),
		Channel:     string(e.Channel),
		OccurredAt:  e.CreatedAt,
	}
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch publisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishMessageEvent(ctx context.Context, e *entity.MessageEvent) error {
	body, err := json.Marshal(NewEventPayload(e))
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    e.ID,
			Timestamp:    e.CreatedAt,
			Type:         string(e.EventType),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
