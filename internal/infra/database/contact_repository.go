package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

var ErrContactNotFound = errors.New("contato não encontrado")

// ContactRepository lê a base de contatos mantida pelo CRM.
type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*entity.Contact, error) {
	query := `SELECT id, name, COALESCE(email, ''), COALESCE(phone, '') FROM contacts WHERE id = $1`

	var c entity.Contact
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar contato %s: %w", id, err)
	}
	return &c, nil
}

func (r *ContactRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.Contact, error) {
	query := `SELECT id, name, COALESCE(email, ''), COALESCE(phone, '') FROM contacts WHERE id = ANY($1)`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar contatos: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*entity.Contact, len(ids))
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		out[c.ID] = &c
	}
	return out, rows.Err()
}
