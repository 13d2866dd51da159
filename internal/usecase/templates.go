package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/template"
)

type TemplateUseCase struct {
	Templates TemplateRepository
	Clock     func() time.Time
}

func NewTemplateUseCase(templates TemplateRepository) *TemplateUseCase {
	return &TemplateUseCase{Templates: templates, Clock: time.Now}
}

// Duplicate cria uma cópia inativa do template.
func (uc *TemplateUseCase) Duplicate(ctx context.Context, id string) (*entity.Template, error) {
	original, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := original.Duplicate(uc.Clock())
	dup.Variables = template.Placeholders(dup.Body + "\n" + dup.Subject)

	if err := uc.Templates.Create(ctx, dup); err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao duplicar template", Err: err}
	}
	log.Printf("📄 Template %s duplicado como %s", original.ID, dup.ID)
	return dup, nil
}

func (uc *TemplateUseCase) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	if err := uc.Templates.SetActive(ctx, id, active, uc.Clock()); err != nil {
		return &TechnicalError{Code: "DB_ERROR", Message: "erro ao atualizar template", Err: err}
	}
	return nil
}

func (uc *TemplateUseCase) find(ctx context.Context, id string) (*entity.Template, error) {
	t, err := uc.Templates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrTemplateNotFound) {
			return nil, &NotFoundError{Resource: "template", ID: id, Err: err}
		}
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar template", Err: err}
	}
	return t, nil
}
