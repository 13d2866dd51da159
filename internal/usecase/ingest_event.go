package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

// WebhookInput é o callback genérico dos provedores de mensagem.
type WebhookInput struct {
	Type              string `json:"type"`
	CampaignID        string `json:"campaign_id"`
	RecipientID       string `json:"recipient_id"`
	Channel           string `json:"channel"`
	Status            string `json:"status"`
	Timestamp         string `json:"timestamp"`
	ProviderMessageID string `json:"provider_message_id"`
	Error             string `json:"error"`
}

// TrackingHit carrega os dados da requisição que disparou o pixel ou o clique.
type TrackingHit struct {
	IP        string
	UserAgent string
}

type EventsUseCase struct {
	Recipients RecipientRepository
	Events     EventRepository
	Publisher  EventPublisher
	Clock      func() time.Time
}

func NewEventsUseCase(recipients RecipientRepository, events EventRepository, publisher EventPublisher) *EventsUseCase {
	return &EventsUseCase{
		Recipients: recipients,
		Events:     events,
		Publisher:  publisher,
		Clock:      time.Now,
	}
}

// IngestWebhook normaliza o callback, grava o evento, avança o funil do
// destinatário e publica o evento para o recálculo das métricas.
func (uc *EventsUseCase) IngestWebhook(ctx context.Context, input WebhookInput) (entity.EventType, error) {
	if errs := ValidateWebhookInput(input); len(errs) > 0 {
		return "", validationFailed(errs)
	}

	eventType, known := entity.MapProviderType(input.Type)
	if !known {
		log.Printf("⚠️ [WEBHOOK] Tipo de evento desconhecido '%s', gravando sem tradução", input.Type)
	}

	ev := entity.NewMessageEvent(input.CampaignID, input.RecipientID, eventType, entity.ParseChannel(input.Channel), uc.now())
	setIfPresent(ev.Metadata, "provider_type", input.Type)
	setIfPresent(ev.Metadata, "status", input.Status)
	setIfPresent(ev.Metadata, "provider_timestamp", input.Timestamp)
	setIfPresent(ev.Metadata, "provider_message_id", input.ProviderMessageID)
	setIfPresent(ev.Metadata, "error", input.Error)

	if err := uc.record(ctx, ev); err != nil {
		return "", err
	}
	return eventType, nil
}

func (uc *EventsUseCase) RecordOpen(ctx context.Context, campaignID, recipientID string, hit TrackingHit) error {
	ev, err := uc.trackingEvent(campaignID, recipientID, entity.EventOpened, hit)
	if err != nil {
		return err
	}
	return uc.record(ctx, ev)
}

func (uc *EventsUseCase) RecordClick(ctx context.Context, campaignID, recipientID, destination string, hit TrackingHit) error {
	ev, err := uc.trackingEvent(campaignID, recipientID, entity.EventClicked, hit)
	if err != nil {
		return err
	}
	ev.Metadata["url"] = destination
	return uc.record(ctx, ev)
}

func (uc *EventsUseCase) trackingEvent(campaignID, recipientID string, eventType entity.EventType, hit TrackingHit) (*entity.MessageEvent, error) {
	var errs []ValidationError
	if strings.TrimSpace(campaignID) == "" {
		errs = append(errs, ValidationError{"cid", "is required"})
	}
	if strings.TrimSpace(recipientID) == "" {
		errs = append(errs, ValidationError{"rid", "is required"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	ev := entity.NewMessageEvent(campaignID, recipientID, eventType, entity.ChannelEmail, uc.now())
	setIfPresent(ev.Metadata, "ip", hit.IP)
	setIfPresent(ev.Metadata, "user_agent", hit.UserAgent)
	return ev, nil
}

// record grava o evento (falha aqui é erro técnico) e depois aplica o efeito
// no funil, que só é logado se falhar.
func (uc *EventsUseCase) record(ctx context.Context, ev *entity.MessageEvent) error {
	if err := uc.Events.Append(ctx, ev); err != nil {
		return &TechnicalError{Code: "EVENT_PERSISTENCE", Message: "erro ao gravar evento", Err: err}
	}

	if next, ok := ev.EventType.RecipientStatusFor(); ok {
		changed, err := uc.Recipients.Advance(ctx, ev.RecipientID, next)
		switch {
		case err != nil:
			log.Printf("⚠️ [EVENTS] Evento %s gravado, mas erro ao atualizar destinatário %s: %v", ev.EventType, ev.RecipientID, err)
		case changed:
			log.Printf("📈 [EVENTS] Destinatário %s → %s", ev.RecipientID, next)
		}
	}

	publish(ctx, uc.Publisher, ev)
	return nil
}

func (uc *EventsUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now()
	}
	return uc.Clock()
}

func setIfPresent(m map[string]any, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		m[key] = value
	}
}
