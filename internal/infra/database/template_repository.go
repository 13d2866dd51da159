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

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.Template, error) {
	query := `
		SELECT id, name, channel, COALESCE(subject, ''), body, variables, is_active, created_at, updated_at
		FROM message_templates
		WHERE id = $1
	`

	var t entity.Template
	var vars pq.StringArray
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Channel, &t.Subject, &t.Body, &vars, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar template %s: %w", id, err)
	}
	t.Variables = vars
	return &t, nil
}

func (r *TemplateRepository) Create(ctx context.Context, t *entity.Template) error {
	query := `
		INSERT INTO message_templates (id, name, channel, subject, body, variables, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		t.ID, t.Name, t.Channel, t.Subject, t.Body, pq.Array(t.Variables), t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao criar template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE message_templates SET is_active = $2, updated_at = $3 WHERE id = $1`, id, active, at)
	if err != nil {
		return fmt.Errorf("erro ao atualizar template %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrTemplateNotFound
	}
	return nil
}
