package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

// SendInvites dispara o convite para todos os destinatários pending da campanha.
// O lote roda até o fim mesmo se a requisição for cancelada; cada destinatário
// tem seu próprio prazo de envio.
func (d *Delivery) SendInvites(ctx context.Context, campaignID string) (*BatchResult, error) {
	ctx = context.WithoutCancel(ctx)

	campaign, err := d.loadCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.Sendable() {
		return nil, &DomainError{Code: CodeCampaignClosed, Message: "campanha encerrada não aceita envios"}
	}

	mc, err := d.prepare(ctx, campaign, KindInvite)
	if err != nil {
		return nil, err
	}

	if !d.locks.tryLock(campaignID) {
		return nil, ErrBatchInProgress
	}
	defer d.locks.unlock(campaignID)

	pending, err := d.Recipients.ListByStatus(ctx, campaignID, entity.RecipientPending)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao listar destinatários pendentes", Err: err}
	}
	if len(pending) == 0 {
		return nil, ErrNoPendingRecipients
	}

	log.Printf("📨 [INVITES] Campanha %s: enviando para %d destinatários via %s", campaignID, len(pending), mc.config.Channel)

	result := &BatchResult{TotalCount: len(pending)}
	for _, r := range pending {
		if err := d.deliver(ctx, mc, r); err != nil {
			log.Printf("❌ [INVITES] Destinatário %s: %v", r.ID, err)
			result.fail(r.ID, err)
			continue
		}
		result.SuccessCount++

		now := d.now()
		changed, err := d.Recipients.MarkSent(ctx, r.ID, now)
		if err != nil {
			log.Printf("⚠️ [INVITES] Enviado para %s, mas erro ao atualizar status: %v", r.ID, err)
			result.PersistenceErrors++
		} else if !changed {
			log.Printf("⚠️ [INVITES] Destinatário %s já não estava pendente", r.ID)
		}

		ev := entity.NewMessageEvent(campaignID, r.ID, entity.EventSent, mc.config.Channel, now)
		ev.Metadata["kind"] = KindInvite
		if err := d.recordEvent(ctx, ev); err != nil {
			result.PersistenceErrors++
		}
	}

	log.Printf("✅ [INVITES] Campanha %s: %d de %d enviados", campaignID, result.SuccessCount, result.TotalCount)
	return result, result.asError("envio de convites")
}
