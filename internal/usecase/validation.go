package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

var nonDigits = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateMessageConfig confere a mensagem configurada na campanha antes de
// qualquer envio.
func ValidateMessageConfig(field string, cfg *entity.MessageConfig) []ValidationError {
	var errors []ValidationError

	if cfg == nil {
		return []ValidationError{{field, "is required"}}
	}
	if !cfg.Channel.Valid() {
		errors = append(errors, ValidationError{field + ".channel", "must be email, whatsapp or sms"})
	}
	if strings.TrimSpace(cfg.Body) == "" && strings.TrimSpace(cfg.TemplateID) == "" {
		errors = append(errors, ValidationError{field + ".body", "is required when no template is set"})
	}
	if cfg.Channel == entity.ChannelEmail && strings.TrimSpace(cfg.Subject) == "" && cfg.TemplateID == "" {
		errors = append(errors, ValidationError{field + ".subject", "is required for email"})
	}

	return errors
}

func ValidateWebhookInput(input WebhookInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Type) == "" {
		errors = append(errors, ValidationError{"type", "is required"})
	}
	if strings.TrimSpace(input.CampaignID) == "" {
		errors = append(errors, ValidationError{"campaign_id", "is required"})
	}
	if strings.TrimSpace(input.RecipientID) == "" {
		errors = append(errors, ValidationError{"recipient_id", "is required"})
	}
	if input.Channel != "" && !entity.ParseChannel(input.Channel).Valid() {
		errors = append(errors, ValidationError{"channel", "must be email, whatsapp or sms"})
	}

	return errors
}

func ValidateIDs(field string, ids []string) []ValidationError {
	if len(ids) == 0 {
		return []ValidationError{{field, "must not be empty"}}
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return []ValidationError{{field, "must not contain empty ids"}}
		}
	}
	return nil
}

// ValidateAddress confere se o contato tem destino utilizável no canal.
func ValidateAddress(ch entity.Channel, address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("contato sem destino para o canal %s", ch)
	}
	if ch == entity.ChannelEmail {
		if _, err := mail.ParseAddress(address); err != nil {
			return fmt.Errorf("e-mail inválido: %s", address)
		}
		return nil
	}
	if !isValidPhoneNumber(address) {
		return fmt.Errorf("telefone inválido: %s", address)
	}
	return nil
}

// Aceita DDD + número (10 ou 11 dígitos) com ou sem o código do país.
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 13
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
