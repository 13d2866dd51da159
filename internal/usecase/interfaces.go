package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

type CampaignRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Campaign, error)
	UpdateCounters(ctx context.Context, id string, counters entity.Counters) error
}

type RecipientRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Recipient, error)
	ListByStatus(ctx context.Context, campaignID string, statuses ...entity.RecipientStatus) ([]*entity.Recipient, error)
	ExistingContacts(ctx context.Context, campaignID string, contactIDs []string) (map[string]bool, error)
	CountByStatus(ctx context.Context, campaignID string) (map[entity.RecipientStatus]int, error)
	Create(ctx context.Context, r *entity.Recipient) error
	Delete(ctx context.Context, ids []string) (int64, error)

	// MarkSent só avança quem ainda está pending. Devolve false quando nada mudou.
	MarkSent(ctx context.Context, id string, at time.Time) (bool, error)
	// MarkResent força sent a partir de pending, failed ou sent e sempre soma o envio.
	MarkResent(ctx context.Context, id string, at time.Time) error
	MarkReminded(ctx context.Context, id string, at time.Time) error
	// Advance aplica uma transição do funil somente se o status atual a permitir.
	Advance(ctx context.Context, id string, next entity.RecipientStatus) (bool, error)
	Reset(ctx context.Context, ids []string) (int64, error)
	ReconcilePending(ctx context.Context) (int64, error)
}

type EventRepository interface {
	Append(ctx context.Context, e *entity.MessageEvent) error
	CountersFor(ctx context.Context, campaignID string) (entity.Counters, error)
}

type ContactRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Contact, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*entity.Contact, error)
}

// CampaignContextRepository lê os cadastros que alimentam as variáveis.
type CampaignContextRepository interface {
	FindClinic(ctx context.Context, id string) (*entity.Clinic, error)
	ListExams(ctx context.Context, campaignID string) ([]entity.Exam, error)
	FindBranding(ctx context.Context) (*entity.Branding, error)
}

type TemplateRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Template, error)
	Create(ctx context.Context, t *entity.Template) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
}

type Transport interface {
	Send(ctx context.Context, msg *entity.OutboundMessage) error
}

type EventPublisher interface {
	PublishMessageEvent(ctx context.Context, e *entity.MessageEvent) error
}
