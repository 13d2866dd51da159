package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

const CodeRecipientExists = "RECIPIENT_EXISTS"

type AddRecipientsOutput struct {
	Created []*entity.Recipient `json:"created"`
	Skipped int                 `json:"skipped"`
}

type RecipientsUseCase struct {
	Campaigns  CampaignRepository
	Recipients RecipientRepository
	Contacts   ContactRepository
}

func NewRecipientsUseCase(campaigns CampaignRepository, recipients RecipientRepository, contacts ContactRepository) *RecipientsUseCase {
	return &RecipientsUseCase{
		Campaigns:  campaigns,
		Recipients: recipients,
		Contacts:   contacts,
	}
}

// Add cria um destinatário para cada contato que ainda não está na campanha.
// Ou todos são criados ou nenhum.
func (uc *RecipientsUseCase) Add(ctx context.Context, campaignID string, contactIDs []string) (*AddRecipientsOutput, error) {
	if errs := ValidateIDs("contact_ids", contactIDs); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	if _, err := uc.Campaigns.FindByID(ctx, campaignID); err != nil {
		if errors.Is(err, entity.ErrCampaignNotFound) {
			return nil, &NotFoundError{Resource: "campanha", ID: campaignID, Err: err}
		}
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar campanha", Err: err}
	}

	ids := dedupe(contactIDs)

	contacts, err := uc.Contacts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar contatos", Err: err}
	}
	var unknown []ValidationError
	for _, id := range ids {
		if _, ok := contacts[id]; !ok {
			unknown = append(unknown, ValidationError{"contact_ids", "contato inexistente: " + id})
		}
	}
	if len(unknown) > 0 {
		return nil, validationFailed(unknown)
	}

	existing, err := uc.Recipients.ExistingContacts(ctx, campaignID, ids)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao verificar destinatários existentes", Err: err}
	}

	out := &AddRecipientsOutput{}
	tx := NewTransaction()
	for _, contactID := range ids {
		if existing[contactID] {
			out.Skipped++
			continue
		}
		r, err := entity.NewRecipient(campaignID, contactID)
		if err != nil {
			return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
		}
		out.Created = append(out.Created, r)
		tx.AddStep("criar destinatário "+contactID,
			func(ctx context.Context) error { return uc.Recipients.Create(ctx, r) },
			func(ctx context.Context) error {
				_, err := uc.Recipients.Delete(ctx, []string{r.ID})
				return err
			},
		)
	}

	if err := tx.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrRecipientExists) {
			return nil, &DomainError{Code: CodeRecipientExists, Message: "contato adicionado em paralelo, tente novamente"}
		}
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao adicionar destinatários", Err: err}
	}

	log.Printf("👥 Campanha %s: %d destinatários adicionados, %d já existiam", campaignID, len(out.Created), out.Skipped)
	return out, nil
}

// Remove apaga os destinatários definitivamente.
func (uc *RecipientsUseCase) Remove(ctx context.Context, ids []string) (int64, error) {
	if errs := ValidateIDs("recipient_ids", ids); len(errs) > 0 {
		return 0, validationFailed(errs)
	}
	n, err := uc.Recipients.Delete(ctx, dedupe(ids))
	if err != nil {
		return 0, &TechnicalError{Code: "DB_ERROR", Message: "erro ao remover destinatários", Err: err}
	}
	log.Printf("🗑️ %d destinatários removidos", n)
	return n, nil
}

// Reset volta os destinatários para pending. O contador de convites é mantido.
func (uc *RecipientsUseCase) Reset(ctx context.Context, ids []string) (int64, error) {
	if errs := ValidateIDs("recipient_ids", ids); len(errs) > 0 {
		return 0, validationFailed(errs)
	}
	n, err := uc.Recipients.Reset(ctx, dedupe(ids))
	if err != nil {
		return 0, &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("erro ao resetar %d destinatários", len(ids)), Err: err}
	}
	log.Printf("🔄 %d destinatários voltaram para pending", n)
	return n, nil
}
