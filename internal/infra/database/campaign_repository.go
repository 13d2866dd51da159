package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	query := `
		SELECT id, title, status, COALESCE(clinic_id::text, ''), deadline,
		       invite_message, reminder_message,
		       total_sent, total_delivered, total_opened, total_clicked,
		       total_booked, total_failed, total_unsubscribed,
		       COALESCE(counters_updated_at, created_at), created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	var c entity.Campaign
	var deadline sql.NullTime
	var invite, reminder []byte

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Status, &c.ClinicID, &deadline,
		&invite, &reminder,
		&c.Counters.TotalSent, &c.Counters.TotalDelivered, &c.Counters.TotalOpened, &c.Counters.TotalClicked,
		&c.Counters.TotalBooked, &c.Counters.TotalFailed, &c.Counters.TotalUnsubscribed,
		&c.Counters.UpdatedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar campanha %s: %w", id, err)
	}

	if deadline.Valid {
		c.Deadline = &deadline.Time
	}
	if c.InviteMessage, err = decodeMessage(invite); err != nil {
		return nil, fmt.Errorf("invite_message inválida na campanha %s: %w", id, err)
	}
	if c.ReminderMessage, err = decodeMessage(reminder); err != nil {
		return nil, fmt.Errorf("reminder_message inválida na campanha %s: %w", id, err)
	}

	return &c, nil
}

// UpdateCounters grava os agregados calculados a partir do log de eventos.
func (r *CampaignRepository) UpdateCounters(ctx context.Context, id string, c entity.Counters) error {
	query := `
		UPDATE campaigns SET
			total_sent = $2,
			total_delivered = $3,
			total_opened = $4,
			total_clicked = $5,
			total_booked = $6,
			total_failed = $7,
			total_unsubscribed = $8,
			counters_updated_at = $9
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query, id,
		c.TotalSent, c.TotalDelivered, c.TotalOpened, c.TotalClicked,
		c.TotalBooked, c.TotalFailed, c.TotalUnsubscribed, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar métricas da campanha %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCampaignNotFound
	}
	return nil
}

func decodeMessage(raw []byte) (*entity.MessageConfig, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var cfg entity.MessageConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	cfg.Channel = entity.ParseChannel(string(cfg.Channel))
	return &cfg, nil
}
