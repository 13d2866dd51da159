package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

// EventRepository é o log append-only de eventos de mensagem.
type EventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Append(ctx context.Context, e *entity.MessageEvent) error {
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("erro ao serializar metadata do evento: %w", err)
	}

	query := `
		INSERT INTO message_events (id, campaign_id, recipient_id, event_type, channel, metadata, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	`
	_, err = r.DB.ExecContext(ctx, query,
		e.ID, e.CampaignID, e.RecipientID, e.EventType, e.Channel, string(metadata), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao gravar evento %s: %w", e.EventType, err)
	}
	return nil
}

// countersQuery conta em TotalSent só os envios do orquestrador; o eco sent do
// provedor para a mesma mensagem não entra.
const countersQuery = `
	SELECT
		COUNT(*) FILTER (WHERE event_type = 'sent' AND metadata->>'kind' = ANY($2)),
		COUNT(DISTINCT recipient_id) FILTER (WHERE event_type = 'delivered'),
		COUNT(DISTINCT recipient_id) FILTER (WHERE event_type IN ('opened', 'read')),
		COUNT(DISTINCT recipient_id) FILTER (WHERE event_type = 'clicked'),
		COUNT(DISTINCT recipient_id) FILTER (WHERE event_type = 'booked'),
		COUNT(DISTINCT recipient_id) FILTER (WHERE event_type IN ('failed', 'bounced')),
		COUNT(DISTINCT recipient_id) FILTER (WHERE event_type = 'unsubscribed')
	FROM message_events
	WHERE campaign_id = $1
`

// CountersFor agrega o log da campanha. Envios contam cada mensagem; os demais
// números contam destinatários distintos.
func (r *EventRepository) CountersFor(ctx context.Context, campaignID string) (entity.Counters, error) {
	var c entity.Counters
	err := r.DB.QueryRowContext(ctx, countersQuery, campaignID, pq.Array(entity.SendKinds())).Scan(
		&c.TotalSent, &c.TotalDelivered, &c.TotalOpened, &c.TotalClicked,
		&c.TotalBooked, &c.TotalFailed, &c.TotalUnsubscribed,
	)
	if err != nil {
		return c, fmt.Errorf("erro ao agregar eventos da campanha %s: %w", campaignID, err)
	}
	return c, nil
}
