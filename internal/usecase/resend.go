package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

const CodeTransportFailed = "TRANSPORT_FAILED"

// Resend reenvia o convite a um destinatário, qualquer que seja o status atual.
// Em caso de falha o destinatário fica failed e um evento failed é gravado.
func (d *Delivery) Resend(ctx context.Context, recipientID string) error {
	r, err := d.loadRecipient(ctx, recipientID)
	if err != nil {
		return err
	}
	campaign, err := d.loadCampaign(ctx, r.CampaignID)
	if err != nil {
		return err
	}
	mc, err := d.prepare(ctx, campaign, KindInvite)
	if err != nil {
		return err
	}

	if sendErr := d.deliver(ctx, mc, r); sendErr != nil {
		log.Printf("❌ [RESEND] Destinatário %s: %v", r.ID, sendErr)

		if _, err := d.Recipients.Advance(ctx, r.ID, entity.RecipientFailed); err != nil {
			log.Printf("⚠️ [RESEND] erro ao marcar %s como failed: %v", r.ID, err)
		}
		ev := entity.NewMessageEvent(campaign.ID, r.ID, entity.EventFailed, mc.config.Channel, d.now())
		ev.Metadata["kind"] = KindResend
		ev.Metadata["error"] = sendErr.Error()
		_ = d.recordEvent(ctx, ev)

		return &TechnicalError{Code: CodeTransportFailed, Message: "falha no reenvio", Err: sendErr}
	}

	now := d.now()
	if err := d.Recipients.MarkResent(ctx, r.ID, now); err != nil {
		log.Printf("⚠️ [RESEND] Enviado para %s, mas erro ao atualizar status: %v", r.ID, err)
	}
	ev := entity.NewMessageEvent(campaign.ID, r.ID, entity.EventSent, mc.config.Channel, now)
	ev.Metadata["kind"] = KindResend
	_ = d.recordEvent(ctx, ev)

	log.Printf("✅ [RESEND] Convite reenviado para %s (status %s → %s)", r.ID, r.Status, r.ResendTarget())
	return nil
}
