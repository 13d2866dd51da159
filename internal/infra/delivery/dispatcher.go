package delivery

import (
	"context"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/infra/http/middleware"
)

// Sender é o contrato comum dos clientes de canal (SMTP, WhatsApp, SMS).
type Sender interface {
	Send(ctx context.Context, msg *entity.OutboundMessage) error
}

// Dispatcher escolhe o cliente pelo canal da mensagem.
type Dispatcher struct {
	senders map[entity.Channel]Sender
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{senders: map[entity.Channel]Sender{}}
}

func (d *Dispatcher) Register(ch entity.Channel, s Sender) *Dispatcher {
	d.senders[ch] = s
	return d
}

func (d *Dispatcher) Send(ctx context.Context, msg *entity.OutboundMessage) error {
	sender, ok := d.senders[msg.Channel]
	if !ok {
		middleware.RecordMessage(string(msg.Channel), "unsupported")
		return fmt.Errorf("canal sem transporte configurado: %q", msg.Channel)
	}

	if err := sender.Send(ctx, msg); err != nil {
		log.Printf("❌ [DISPATCH] Falha no canal %s para destinatário %s: %v", msg.Channel, msg.RecipientID, err)
		middleware.RecordMessage(string(msg.Channel), "failed")
		middleware.RecordIntegrationError(string(msg.Channel))
		return err
	}

	middleware.RecordMessage(string(msg.Channel), "sent")
	return nil
}
