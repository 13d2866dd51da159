package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/template"
)

const previewRecipientID = "preview"

// sampleContact preenche a pré-visualização quando nenhum destinatário é informado.
var sampleContact = entity.Contact{
	ID:    "preview",
	Name:  "Maria da Silva",
	Email: "maria.silva@exemplo.com.br",
	Phone: "+5511999999999",
}

type PreviewOutput struct {
	Channel entity.Channel `json:"channel"`
	To      string         `json:"to"`
	*template.Result
	// Missing lista placeholders que ficariam sem valor no envio.
	Missing []string `json:"missing,omitempty"`
}

// Preview renderiza o convite ou o lembrete sem enviar nada.
func (d *Delivery) Preview(ctx context.Context, campaignID, kind, recipientID string) (*PreviewOutput, error) {
	if kind == "" {
		kind = KindInvite
	}
	if kind != KindInvite && kind != KindReminder {
		return nil, validationFailed([]ValidationError{{"kind", "must be invite or reminder"}})
	}

	campaign, err := d.loadCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	mc, err := d.prepare(ctx, campaign, kind)
	if err != nil {
		return nil, err
	}

	contact := &sampleContact
	rid := previewRecipientID
	if recipientID != "" {
		r, err := d.loadRecipient(ctx, recipientID)
		if err != nil {
			return nil, err
		}
		if r.CampaignID != campaignID {
			return nil, &NotFoundError{Resource: "destinatário", ID: recipientID, Err: entity.ErrRecipientNotFound}
		}
		if contact, err = d.Contacts.FindByID(ctx, r.ContactID); err != nil {
			return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar contato", Err: err}
		}
		rid = r.ID
	}

	msg, res, err := d.compose(mc, rid, contact, false)
	if err != nil {
		if errors.Is(err, template.ErrMalformedTemplate) {
			return nil, validationFailed([]ValidationError{{"body", err.Error()}})
		}
		return nil, err
	}

	return &PreviewOutput{
		Channel: msg.Channel,
		To:      msg.To,
		Result:  res,
		Missing: missingPlaceholders(res),
	}, nil
}

// missingPlaceholders junta as chaves sem valor do corpo e do assunto.
func missingPlaceholders(res *template.Result) []string {
	keys := template.Placeholders(res.Body)
	if res.Subject == nil {
		return keys
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for _, k := range template.Placeholders(*res.Subject) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
