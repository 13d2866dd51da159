package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-campaigns/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-campaigns/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-campaigns/internal/tracking"
)

type routes struct {
	Campaigns      *handlers.CampaignHandler
	Templates      *handlers.TemplateHandler
	Webhook        *handlers.WebhookHandler
	Tracking       *handlers.TrackingHandler
	Health         *handlers.HealthHandler
	WebhookLimiter *middleware.RateLimiter
	AllowedOrigins []string
}

func newRouter(h routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", handlers.SignatureHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.With(h.WebhookLimiter.Handler).Post("/webhooks/messages", h.Webhook.Handle)

	r.Get(tracking.OpenPath, h.Tracking.Open)
	r.Get(tracking.ClickPath, h.Tracking.Click)

	r.Route("/campaigns/{id}", func(r chi.Router) {
		r.Post("/invites", h.Campaigns.SendInvites)
		r.Post("/reminders", h.Campaigns.SendReminders)
		r.Post("/recipients", h.Campaigns.AddRecipients)
		r.Post("/recipients/remove", h.Campaigns.RemoveRecipients)
		r.Post("/recipients/reset", h.Campaigns.ResetRecipients)
		r.Get("/analytics", h.Campaigns.ShowAnalytics)
		r.Get("/preview", h.Campaigns.Preview)
	})
	r.Post("/recipients/{id}/resend", h.Campaigns.Resend)

	r.Post("/templates/{id}/duplicate", h.Templates.Duplicate)
	r.Put("/templates/{id}/active", h.Templates.SetActive)

	return r
}
