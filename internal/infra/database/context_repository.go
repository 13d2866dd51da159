package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

// ContextRepository lê clínica, exames e identidade visual usados nas variáveis.
type ContextRepository struct {
	DB *sql.DB
}

func NewContextRepository(db *sql.DB) *ContextRepository {
	return &ContextRepository{DB: db}
}

func (r *ContextRepository) FindClinic(ctx context.Context, id string) (*entity.Clinic, error) {
	query := `SELECT id, name, COALESCE(address, ''), COALESCE(phone, '') FROM clinics WHERE id = $1`

	var c entity.Clinic
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Address, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		// Clínica removida do cadastro: a mensagem sai sem os dados dela.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar clínica %s: %w", id, err)
	}
	return &c, nil
}

func (r *ContextRepository) ListExams(ctx context.Context, campaignID string) ([]entity.Exam, error) {
	query := `
		SELECT e.id, e.name, COALESCE(e.preparation, '')
		FROM exams e
		JOIN campaign_exams ce ON ce.exam_id = e.id
		WHERE ce.campaign_id = $1
		ORDER BY e.name
	`

	rows, err := r.DB.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar exames da campanha %s: %w", campaignID, err)
	}
	defer rows.Close()

	var exams []entity.Exam
	for rows.Next() {
		var e entity.Exam
		if err := rows.Scan(&e.ID, &e.Name, &e.Preparation); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func (r *ContextRepository) FindBranding(ctx context.Context) (*entity.Branding, error) {
	query := `SELECT company_name, COALESCE(logo_url, ''), COALESCE(primary_color, '') FROM branding LIMIT 1`

	var b entity.Branding
	err := r.DB.QueryRowContext(ctx, query).Scan(&b.CompanyName, &b.LogoURL, &b.PrimaryColor)
	if errors.Is(err, sql.ErrNoRows) {
		return &entity.Branding{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar identidade visual: %w", err)
	}
	return &b, nil
}
