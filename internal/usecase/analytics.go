package usecase

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

type AnalyticsOutput struct {
	CampaignID      string                         `json:"campaign_id"`
	Counters        entity.Counters                `json:"counters"`
	StatusBreakdown map[entity.RecipientStatus]int `json:"status_breakdown"`
	TotalRecipients int                            `json:"total_recipients"`
	// Taxas em porcentagem sobre os destinatários já contatados.
	OpenRate    float64 `json:"open_rate"`
	ClickRate   float64 `json:"click_rate"`
	BookingRate float64 `json:"booking_rate"`
}

type AnalyticsUseCase struct {
	Campaigns  CampaignRepository
	Recipients RecipientRepository
	Events     EventRepository
	Clock      func() time.Time
}

func NewAnalyticsUseCase(campaigns CampaignRepository, recipients RecipientRepository, events EventRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		Campaigns:  campaigns,
		Recipients: recipients,
		Events:     events,
		Clock:      time.Now,
	}
}

// RecomputeMetrics recalcula os agregados da campanha a partir do log de
// eventos e grava na campanha. É o único escritor desses contadores.
func (uc *AnalyticsUseCase) RecomputeMetrics(ctx context.Context, campaignID string) (*entity.Counters, error) {
	counters, err := uc.Events.CountersFor(ctx, campaignID)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao agregar eventos", Err: err}
	}
	counters.UpdatedAt = uc.Clock()

	if err := uc.Campaigns.UpdateCounters(ctx, campaignID, counters); err != nil {
		if errors.Is(err, entity.ErrCampaignNotFound) {
			return nil, &NotFoundError{Resource: "campanha", ID: campaignID, Err: err}
		}
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao gravar métricas da campanha", Err: err}
	}

	log.Printf("📊 [ANALYTICS] Campanha %s: enviados=%d abertos=%d cliques=%d agendados=%d falhas=%d",
		campaignID, counters.TotalSent, counters.TotalOpened, counters.TotalClicked, counters.TotalBooked, counters.TotalFailed)
	return &counters, nil
}

// GetAnalytics lê os números direto do log de eventos, sem depender do último recálculo.
func (uc *AnalyticsUseCase) GetAnalytics(ctx context.Context, campaignID string) (*AnalyticsOutput, error) {
	if _, err := uc.Campaigns.FindByID(ctx, campaignID); err != nil {
		if errors.Is(err, entity.ErrCampaignNotFound) {
			return nil, &NotFoundError{Resource: "campanha", ID: campaignID, Err: err}
		}
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar campanha", Err: err}
	}

	counters, err := uc.Events.CountersFor(ctx, campaignID)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao agregar eventos", Err: err}
	}
	breakdown, err := uc.Recipients.CountByStatus(ctx, campaignID)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao contar destinatários", Err: err}
	}

	out := &AnalyticsOutput{
		CampaignID:      campaignID,
		Counters:        counters,
		StatusBreakdown: breakdown,
	}
	for _, n := range breakdown {
		out.TotalRecipients += n
	}

	// Numerador e denominador vêm das mesmas linhas de destinatário; o log
	// guarda também removidos e resetados, então não entra nas taxas.
	contacted := out.TotalRecipients - breakdown[entity.RecipientPending]
	booked := breakdown[entity.RecipientBooked]
	clicked := breakdown[entity.RecipientClicked] + booked
	opened := breakdown[entity.RecipientOpened] + clicked
	out.OpenRate = rate(opened, contacted)
	out.ClickRate = rate(clicked, contacted)
	out.BookingRate = rate(booked, contacted)

	return out, nil
}

func rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}
