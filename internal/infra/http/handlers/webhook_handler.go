package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-campaigns/internal/usecase"
)

const maxWebhookBody = 1 << 20

type EventIngester interface {
	IngestWebhook(ctx context.Context, input usecase.WebhookInput) (entity.EventType, error)
}

type WebhookHandler struct {
	Events   EventIngester
	Verifier *SignatureVerifier
}

func NewWebhookHandler(events EventIngester, verifier *SignatureVerifier) *WebhookHandler {
	return &WebhookHandler{
		Events:   events,
		Verifier: verifier,
	}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "corpo da requisição inválido")
		return
	}

	var input usecase.WebhookInput
	if err := json.Unmarshal(body, &input); err != nil {
		middleware.RecordWebhookEvent("unknown", "invalid")
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	channel := entity.ParseChannel(input.Channel)
	if err := h.Verifier.Verify(channel, body, r.Header.Get(SignatureHeader)); err != nil {
		log.Printf("🚫 [WEBHOOK] %v (canal=%s campanha=%s)", err, channel, input.CampaignID)
		middleware.RecordWebhookEvent(input.Type, "unauthorized")
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_SIGNATURE", err.Error())
		return
	}

	eventType, err := h.Events.IngestWebhook(r.Context(), input)
	if err != nil {
		middleware.RecordWebhookEvent(input.Type, "error")
		if usecase.IsDomainError(err) {
			writeError(w, err)
			return
		}
		log.Printf("❌ [WEBHOOK] Falha ao registrar evento: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "EVENT_PERSISTENCE", "erro ao registrar evento")
		return
	}

	middleware.RecordWebhookEvent(string(eventType), "accepted")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"event_type": eventType,
	})
}
