package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-campaigns/internal/usecase"
)

type CampaignDelivery interface {
	SendInvites(ctx context.Context, campaignID string) (*usecase.BatchResult, error)
	SendReminders(ctx context.Context, campaignID, recipientID string) (*usecase.BatchResult, error)
	Resend(ctx context.Context, recipientID string) error
	Preview(ctx context.Context, campaignID, kind, recipientID string) (*usecase.PreviewOutput, error)
}

type RecipientManager interface {
	Add(ctx context.Context, campaignID string, contactIDs []string) (*usecase.AddRecipientsOutput, error)
	Remove(ctx context.Context, ids []string) (int64, error)
	Reset(ctx context.Context, ids []string) (int64, error)
}

type AnalyticsReader interface {
	GetAnalytics(ctx context.Context, campaignID string) (*usecase.AnalyticsOutput, error)
}

type CampaignHandler struct {
	Delivery   CampaignDelivery
	Recipients RecipientManager
	Analytics  AnalyticsReader
}

func NewCampaignHandler(delivery CampaignDelivery, recipients RecipientManager, analytics AnalyticsReader) *CampaignHandler {
	return &CampaignHandler{
		Delivery:   delivery,
		Recipients: recipients,
		Analytics:  analytics,
	}
}

func (h *CampaignHandler) SendInvites(w http.ResponseWriter, r *http.Request) {
	result, err := h.Delivery.SendInvites(r.Context(), chi.URLParam(r, "id"))
	writeBatch(w, result, err)
}

func (h *CampaignHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RecipientID string `json:"recipient_id"`
	}
	if err := decodeOptional(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	result, err := h.Delivery.SendReminders(r.Context(), chi.URLParam(r, "id"), input.RecipientID)
	writeBatch(w, result, err)
}

// writeBatch responde 207 quando parte do lote falhou; os sucessos já estão gravados.
func writeBatch(w http.ResponseWriter, result *usecase.BatchResult, err error) {
	var batchErr *usecase.BatchError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.As(err, &batchErr) && result != nil:
		writeJSON(w, http.StatusMultiStatus, struct {
			*usecase.BatchResult
			Message string `json:"message"`
		}{result, batchErr.Error()})
	default:
		writeError(w, err)
	}
}

func (h *CampaignHandler) AddRecipients(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ContactIDs []string `json:"contact_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.Recipients.Add(r.Context(), chi.URLParam(r, "id"), input.ContactIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

type recipientIDsInput struct {
	RecipientIDs []string `json:"recipient_ids"`
}

func (h *CampaignHandler) RemoveRecipients(w http.ResponseWriter, r *http.Request) {
	var input recipientIDsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	n, err := h.Recipients.Remove(r.Context(), input.RecipientIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}

func (h *CampaignHandler) ResetRecipients(w http.ResponseWriter, r *http.Request) {
	var input recipientIDsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	n, err := h.Recipients.Reset(r.Context(), input.RecipientIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"reset": n})
}

func (h *CampaignHandler) Resend(w http.ResponseWriter, r *http.Request) {
	if err := h.Delivery.Resend(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CampaignHandler) ShowAnalytics(w http.ResponseWriter, r *http.Request) {
	out, err := h.Analytics.GetAnalytics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CampaignHandler) Preview(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = usecase.KindInvite
	}

	out, err := h.Delivery.Preview(r.Context(), chi.URLParam(r, "id"), kind, r.URL.Query().Get("recipient_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
