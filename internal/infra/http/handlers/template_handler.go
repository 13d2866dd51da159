package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

type TemplateManager interface {
	Duplicate(ctx context.Context, id string) (*entity.Template, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type TemplateHandler struct {
	Templates TemplateManager
}

func NewTemplateHandler(templates TemplateManager) *TemplateHandler {
	return &TemplateHandler{Templates: templates}
}

func (h *TemplateHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.Templates.Duplicate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Active == nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "informe {\"active\": true|false}")
		return
	}

	if err := h.Templates.SetActive(r.Context(), chi.URLParam(r, "id"), *input.Active); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": *input.Active})
}
