package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSent         EventType = "sent"
	EventDelivered    EventType = "delivered"
	EventBounced      EventType = "bounced"
	EventFailed       EventType = "failed"
	EventOpened       EventType = "opened"
	EventClicked      EventType = "clicked"
	EventRead         EventType = "read"
	EventBooked       EventType = "booked"
	EventCompleted    EventType = "completed"
	EventCancelled    EventType = "cancelled"
	EventUnsubscribed EventType = "unsubscribed"
)

// Tipos de envio que o orquestrador grava em metadata["kind"] do evento sent.
// Eventos sent reportados por provedores não carregam kind.
const (
	SendKindInvite   = "invite"
	SendKindReminder = "reminder"
	SendKindResend   = "resend"
)

// SendKinds lista os envios contados em TotalSent.
func SendKinds() []string {
	return []string{SendKindInvite, SendKindReminder, SendKindResend}
}

// ReconcilableKinds lista os envios que podem promover um pending para sent.
func ReconcilableKinds() []string {
	return []string{SendKindInvite, SendKindResend}
}

// providerTypes traduz os tipos reportados pelos provedores para o evento canônico.
var providerTypes = map[string]EventType{
	"sent":         EventSent,
	"delivery":     EventDelivered,
	"delivered":    EventDelivered,
	"bounce":       EventBounced,
	"bounced":      EventBounced,
	"failed":       EventFailed,
	"failure":      EventFailed,
	"undelivered":  EventFailed,
	"open":         EventOpened,
	"opened":       EventOpened,
	"click":        EventClicked,
	"clicked":      EventClicked,
	"read":         EventRead,
	"booked":       EventBooked,
	"completed":    EventCompleted,
	"cancelled":    EventCancelled,
	"canceled":     EventCancelled,
	"unsubscribe":  EventUnsubscribed,
	"unsubscribed": EventUnsubscribed,
}

// MapProviderType devolve o evento canônico e se o tipo era conhecido.
// Tipos desconhecidos passam adiante sem tradução.
func MapProviderType(raw string) (EventType, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if t, ok := providerTypes[key]; ok {
		return t, true
	}
	return EventType(key), false
}

// RecipientStatusFor indica em qual status do funil o evento coloca o destinatário.
func (t EventType) RecipientStatusFor() (RecipientStatus, bool) {
	switch t {
	case EventOpened, EventRead:
		return RecipientOpened, true
	case EventClicked:
		return RecipientClicked, true
	case EventBooked:
		return RecipientBooked, true
	case EventFailed, EventBounced:
		return RecipientFailed, true
	}
	return "", false
}

// MessageEvent é uma entrada imutável do log de eventos.
type MessageEvent struct {
	ID          string         `json:"id"`
	CampaignID  string         `json:"campaign_id"`
	RecipientID string         `json:"recipient_id"`
	EventType   EventType      `json:"event_type"`
	Channel     Channel        `json:"channel"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func NewMessageEvent(campaignID, recipientID string, eventType EventType, channel Channel, at time.Time) *MessageEvent {
	return &MessageEvent{
		ID:          uuid.New().String(),
		CampaignID:  campaignID,
		RecipientID: recipientID,
		EventType:   eventType,
		Channel:     channel,
		Metadata:    map[string]any{},
		CreatedAt:   at,
	}
}

// Kind devolve o tipo de envio gravado pelo orquestrador, ou "" se ausente.
func (e *MessageEvent) Kind() string {
	if e.Metadata == nil {
		return ""
	}
	kind, _ := e.Metadata["kind"].(string)
	return kind
}

// CountsAsSend indica se o evento entra em TotalSent.
func (e *MessageEvent) CountsAsSend() bool {
	return e.EventType == EventSent && contains(SendKinds(), e.Kind())
}

// PromotesToSent indica se a reconciliação pode usar o evento.
func (e *MessageEvent) PromotesToSent() bool {
	return e.EventType == EventSent && contains(ReconcilableKinds(), e.Kind())
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
