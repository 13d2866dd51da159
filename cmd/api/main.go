package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/ligue-campaigns/internal/config"
	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/infra/database"
	"github.com/xavierca1/ligue-campaigns/internal/infra/delivery"
	"github.com/xavierca1/ligue-campaigns/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-campaigns/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-campaigns/internal/infra/integration/sms"
	"github.com/xavierca1/ligue-campaigns/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-campaigns/internal/infra/mail"
	"github.com/xavierca1/ligue-campaigns/internal/infra/queue"
	"github.com/xavierca1/ligue-campaigns/internal/infra/worker"
	"github.com/xavierca1/ligue-campaigns/internal/tracking"
	"github.com/xavierca1/ligue-campaigns/internal/usecase"
	"github.com/xavierca1/ligue-campaigns/internal/variables"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuração inválida: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Falha ao conectar no Postgres: %v", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer rabbitMQ.Close()

	// 1. Repositórios
	campaignRepo := database.NewCampaignRepository(db)
	recipientRepo := database.NewRecipientRepository(db)
	eventRepo := database.NewEventRepository(db)
	contactRepo := database.NewContactRepository(db)
	contextRepo := database.NewContextRepository(db)
	templateRepo := database.NewTemplateRepository(db)

	// 2. Transportes por canal
	emailSender := mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.FromName)
	whatsappClient := whatsapp.NewClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneID, cfg.WhatsApp.BaseURL)
	smsClient := sms.NewClient(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.Sender)

	dispatcher := delivery.NewDispatcher().
		Register(entity.ChannelEmail, emailSender).
		Register(entity.ChannelWhatsApp, whatsappClient).
		Register(entity.ChannelSMS, smsClient)

	producer := queue.NewProducer(rabbitMQ.Ch)

	// 3. UseCases
	deliveryUC := usecase.NewDelivery(
		campaignRepo, recipientRepo, eventRepo, contactRepo, contextRepo, templateRepo,
		dispatcher, producer,
		variables.NewBuilder(cfg.Location),
		tracking.NewInjector(cfg.PublicBaseURL),
		cfg.BookingBaseURL,
		cfg.SendTimeout,
	)
	recipientsUC := usecase.NewRecipientsUseCase(campaignRepo, recipientRepo, contactRepo)
	eventsUC := usecase.NewEventsUseCase(recipientRepo, eventRepo, producer)
	analyticsUC := usecase.NewAnalyticsUseCase(campaignRepo, recipientRepo, eventRepo)
	reconcileUC := usecase.NewReconcileUseCase(recipientRepo)
	templatesUC := usecase.NewTemplateUseCase(templateRepo)

	// 4. Workers: o consumidor é o único que grava os agregados da campanha
	metricsWorker := queue.NewWorker(rabbitMQ.Ch, analyticsUC)
	go func() {
		if err := metricsWorker.Start(ctx, queue.QueueName); err != nil {
			log.Printf("❌ Worker de métricas parou: %v", err)
		}
	}()
	go worker.NewReconciliationWorker(reconcileUC, cfg.ReconcileInterval).Start(ctx)

	// 5. Handlers
	router := newRouter(routes{
		Campaigns: handlers.NewCampaignHandler(deliveryUC, recipientsUC, analyticsUC),
		Templates: handlers.NewTemplateHandler(templatesUC),
		Webhook:   handlers.NewWebhookHandler(eventsUC, handlers.NewSignatureVerifier(cfg.Webhook.Secrets())),
		Tracking:  handlers.NewTrackingHandler(eventsUC),
		Health: handlers.NewHealthHandler(db, rabbitMQ.Conn, map[string]bool{
			"smtp":     cfg.SMTP.Host != "",
			"whatsapp": whatsappClient.Configured(),
			"sms":      smsClient.Configured(),
		}),
		WebhookLimiter: middleware.NewRateLimiter(cfg.Webhook.RateLimit, time.Minute),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🔥 Server de campanhas rodando na porta %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Servidor HTTP: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("⚠️ Encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown forçado: %v", err)
	}
}
