package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

const uniqueViolation = "23505"

const recipientColumns = `id, campaign_id, contact_id, status, invite_count, sent_at, last_reminder_sent_at, created_at, updated_at`

type RecipientRepository struct {
	DB *sql.DB
}

func NewRecipientRepository(db *sql.DB) *RecipientRepository {
	return &RecipientRepository{DB: db}
}

func (r *RecipientRepository) FindByID(ctx context.Context, id string) (*entity.Recipient, error) {
	query := `SELECT ` + recipientColumns + ` FROM campaign_recipients WHERE id = $1`

	rec, err := scanRecipient(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar destinatário %s: %w", id, err)
	}
	return rec, nil
}

func (r *RecipientRepository) ListByStatus(ctx context.Context, campaignID string, statuses ...entity.RecipientStatus) ([]*entity.Recipient, error) {
	query := `
		SELECT ` + recipientColumns + `
		FROM campaign_recipients
		WHERE campaign_id = $1 AND status = ANY($2)
		ORDER BY created_at, id
	`

	rows, err := r.DB.QueryContext(ctx, query, campaignID, pq.Array(statusStrings(statuses)))
	if err != nil {
		return nil, fmt.Errorf("erro ao listar destinatários da campanha %s: %w", campaignID, err)
	}
	defer rows.Close()

	var out []*entity.Recipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecipientRepository) ExistingContacts(ctx context.Context, campaignID string, contactIDs []string) (map[string]bool, error) {
	query := `SELECT contact_id FROM campaign_recipients WHERE campaign_id = $1 AND contact_id = ANY($2)`

	rows, err := r.DB.QueryContext(ctx, query, campaignID, pq.Array(contactIDs))
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar contatos da campanha %s: %w", campaignID, err)
	}
	defer rows.Close()

	existing := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

func (r *RecipientRepository) CountByStatus(ctx context.Context, campaignID string) (map[entity.RecipientStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM campaign_recipients WHERE campaign_id = $1 GROUP BY status`

	rows, err := r.DB.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("erro ao contar destinatários da campanha %s: %w", campaignID, err)
	}
	defer rows.Close()

	counts := map[entity.RecipientStatus]int{}
	for rows.Next() {
		var status entity.RecipientStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *RecipientRepository) Create(ctx context.Context, rec *entity.Recipient) error {
	query := `
		INSERT INTO campaign_recipients (id, campaign_id, contact_id, status, invite_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		rec.ID, rec.CampaignID, rec.ContactID, rec.Status, rec.InviteCount, rec.CreatedAt, rec.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("contato %s: %w", rec.ContactID, entity.ErrRecipientExists)
	}
	if err != nil {
		return fmt.Errorf("erro ao criar destinatário: %w", err)
	}
	return nil
}

func (r *RecipientRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaign_recipients WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("erro ao remover destinatários: %w", err)
	}
	return res.RowsAffected()
}

// MarkSent só afeta quem ainda está pending; dois lotes concorrentes não
// contam o mesmo envio duas vezes.
func (r *RecipientRepository) MarkSent(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE campaign_recipients
		SET status = 'sent', invite_count = invite_count + 1, sent_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'pending'
	`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("erro ao marcar destinatário %s como enviado: %w", id, err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *RecipientRepository) MarkResent(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE campaign_recipients
		SET status = CASE WHEN status = ANY($3) THEN 'sent' ELSE status END,
		    invite_count = invite_count + 1,
		    sent_at = $2,
		    updated_at = $2
		WHERE id = $1
	`
	from := append(statusStrings(entity.Predecessors(entity.RecipientSent)), string(entity.RecipientSent))

	res, err := r.DB.ExecContext(ctx, query, id, at, pq.Array(from))
	if err != nil {
		return fmt.Errorf("erro ao registrar reenvio para %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrRecipientNotFound
	}
	return nil
}

func (r *RecipientRepository) MarkReminded(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE campaign_recipients
		SET invite_count = invite_count + 1, last_reminder_sent_at = $2, updated_at = $2
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("erro ao registrar lembrete para %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrRecipientNotFound
	}
	return nil
}

// Advance aplica a transição apenas a partir dos status que a permitem, então
// eventos fora de ordem nunca fazem o funil voltar.
func (r *RecipientRepository) Advance(ctx context.Context, id string, next entity.RecipientStatus) (bool, error) {
	from := entity.Predecessors(next)
	if len(from) == 0 {
		return false, nil
	}

	query := `UPDATE campaign_recipients SET status = $2, updated_at = NOW() WHERE id = $1 AND status = ANY($3)`
	res, err := r.DB.ExecContext(ctx, query, id, next, pq.Array(statusStrings(from)))
	if err != nil {
		return false, fmt.Errorf("erro ao avançar destinatário %s para %s: %w", id, next, err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Reset volta para pending sem mexer em invite_count nem em sent_at. reset_at
// marca o corte: envios anteriores não promovem o destinatário de novo.
func (r *RecipientRepository) Reset(ctx context.Context, ids []string) (int64, error) {
	query := `UPDATE campaign_recipients SET status = 'pending', reset_at = NOW(), updated_at = NOW() WHERE id = ANY($1)`
	res, err := r.DB.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("erro ao resetar destinatários: %w", err)
	}
	return res.RowsAffected()
}

// reconcilePendingQuery só considera eventos sent gravados pelo orquestrador
// (convite ou reenvio). Eventos sent de provedores não têm kind e ficam de fora.
const reconcilePendingQuery = `
	UPDATE campaign_recipients AS r
	SET status = 'sent',
	    invite_count = r.invite_count + 1,
	    sent_at = e.last_sent,
	    updated_at = NOW()
	FROM (
		SELECT recipient_id, MAX(created_at) AS last_sent
		FROM message_events
		WHERE event_type = 'sent'
		  AND metadata->>'kind' = ANY($1)
		GROUP BY recipient_id
	) AS e
	WHERE r.id = e.recipient_id
	  AND r.status = 'pending'
	  AND (r.sent_at IS NULL OR e.last_sent > r.sent_at)
	  AND (r.reset_at IS NULL OR e.last_sent > r.reset_at)
`

// ReconcilePending promove quem ficou pending apesar de um envio mais novo
// que o sent_at gravado e que o último reset.
func (r *RecipientRepository) ReconcilePending(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, reconcilePendingQuery, pq.Array(entity.ReconcilableKinds()))
	if err != nil {
		return 0, fmt.Errorf("erro ao reconciliar destinatários: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipient(row rowScanner) (*entity.Recipient, error) {
	var rec entity.Recipient
	var sentAt, remindedAt sql.NullTime

	if err := row.Scan(
		&rec.ID, &rec.CampaignID, &rec.ContactID, &rec.Status, &rec.InviteCount,
		&sentAt, &remindedAt, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if sentAt.Valid {
		rec.SentAt = &sentAt.Time
	}
	if remindedAt.Valid {
		rec.LastReminderSentAt = &remindedAt.Time
	}
	return &rec, nil
}

func statusStrings(statuses []entity.RecipientStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
