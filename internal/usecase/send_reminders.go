package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

var errRecipientBooked = errors.New("destinatário já agendou")

// reminderTargets são todos os status que ainda podem receber lembrete.
var reminderTargets = []entity.RecipientStatus{
	entity.RecipientPending,
	entity.RecipientSent,
	entity.RecipientOpened,
	entity.RecipientClicked,
	entity.RecipientFailed,
}

// SendReminders envia a mensagem de lembrete para um destinatário (recipientID
// preenchido) ou para todos que ainda não agendaram. Lembrete não muda o status
// do funil.
func (d *Delivery) SendReminders(ctx context.Context, campaignID, recipientID string) (*BatchResult, error) {
	ctx = context.WithoutCancel(ctx)

	campaign, err := d.loadCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.Sendable() {
		return nil, &DomainError{Code: CodeCampaignClosed, Message: "campanha encerrada não aceita envios"}
	}

	mc, err := d.prepare(ctx, campaign, KindReminder)
	if err != nil {
		return nil, err
	}

	var targets []*entity.Recipient
	if recipientID != "" {
		r, err := d.loadRecipient(ctx, recipientID)
		if err != nil {
			return nil, err
		}
		if r.CampaignID != campaignID {
			return nil, &NotFoundError{Resource: "destinatário", ID: recipientID, Err: entity.ErrRecipientNotFound}
		}
		targets = []*entity.Recipient{r}
	}

	if !d.locks.tryLock(campaignID) {
		return nil, ErrBatchInProgress
	}
	defer d.locks.unlock(campaignID)

	if recipientID == "" {
		targets, err = d.Recipients.ListByStatus(ctx, campaignID, reminderTargets...)
		if err != nil {
			return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao listar destinatários", Err: err}
		}
		if len(targets) == 0 {
			return nil, ErrNoPendingRecipients
		}
	}

	log.Printf("🔔 [REMINDERS] Campanha %s: enviando lembrete para %d destinatários", campaignID, len(targets))

	result := &BatchResult{TotalCount: len(targets)}
	for _, r := range targets {
		if r.Status == entity.RecipientBooked {
			result.fail(r.ID, errRecipientBooked)
			continue
		}
		if err := d.deliver(ctx, mc, r); err != nil {
			log.Printf("❌ [REMINDERS] Destinatário %s: %v", r.ID, err)
			result.fail(r.ID, err)
			continue
		}
		result.SuccessCount++

		now := d.now()
		if err := d.Recipients.MarkReminded(ctx, r.ID, now); err != nil {
			log.Printf("⚠️ [REMINDERS] Enviado para %s, mas erro ao registrar lembrete: %v", r.ID, err)
			result.PersistenceErrors++
		}

		ev := entity.NewMessageEvent(campaignID, r.ID, entity.EventSent, mc.config.Channel, now)
		ev.Metadata["kind"] = KindReminder
		if err := d.recordEvent(ctx, ev); err != nil {
			result.PersistenceErrors++
		}
	}

	log.Printf("✅ [REMINDERS] Campanha %s: %d de %d enviados", campaignID, result.SuccessCount, result.TotalCount)
	return result, result.asError("envio de lembretes")
}
