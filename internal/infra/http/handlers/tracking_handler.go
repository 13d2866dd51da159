package handlers

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"github.com/xavierca1/ligue-campaigns/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-campaigns/internal/usecase"
)

// GIF transparente de 1x1.
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

type TrackingRecorder interface {
	RecordOpen(ctx context.Context, campaignID, recipientID string, hit usecase.TrackingHit) error
	RecordClick(ctx context.Context, campaignID, recipientID, destination string, hit usecase.TrackingHit) error
}

type TrackingHandler struct {
	Events TrackingRecorder
}

func NewTrackingHandler(events TrackingRecorder) *TrackingHandler {
	return &TrackingHandler{Events: events}
}

// Open sempre devolve o pixel, mesmo quando o registro falha.
func (h *TrackingHandler) Open(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	middleware.RecordTrackingHit("open")

	if err := h.Events.RecordOpen(r.Context(), q.Get("cid"), q.Get("rid"), hitFrom(r)); err != nil {
		log.Printf("⚠️ [TRACK] Abertura não registrada (cid=%s rid=%s): %v", q.Get("cid"), q.Get("rid"), err)
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(pixelGIF)
}

// Click registra o clique e redireciona; só aceita destinos http(s).
func (h *TrackingHandler) Click(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	destination := q.Get("url")

	target, err := url.Parse(destination)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_URL", "url de destino inválida")
		return
	}
	middleware.RecordTrackingHit("click")

	if err := h.Events.RecordClick(r.Context(), q.Get("cid"), q.Get("rid"), destination, hitFrom(r)); err != nil {
		log.Printf("⚠️ [TRACK] Clique não registrado (cid=%s rid=%s): %v", q.Get("cid"), q.Get("rid"), err)
	}

	http.Redirect(w, r, target.String(), http.StatusFound)
}

func hitFrom(r *http.Request) usecase.TrackingHit {
	return usecase.TrackingHit{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}
