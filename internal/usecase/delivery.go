package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/template"
	"github.com/xavierca1/ligue-campaigns/internal/tracking"
	"github.com/xavierca1/ligue-campaigns/internal/variables"
)

const DefaultSendTimeout = 30 * time.Second

// Tipos de envio gravados no metadata do evento sent.
const (
	KindInvite   = entity.SendKindInvite
	KindReminder = entity.SendKindReminder
	KindResend   = entity.SendKindResend
)

// BatchResult resume um disparo em lote.
type BatchResult struct {
	SuccessCount      int                `json:"success_count"`
	TotalCount        int                `json:"total_count"`
	Failures          []RecipientFailure `json:"failures,omitempty"`
	PersistenceErrors int                `json:"persistence_errors,omitempty"`
}

func (r *BatchResult) fail(recipientID string, err error) {
	r.Failures = append(r.Failures, RecipientFailure{RecipientID: recipientID, Error: err.Error()})
}

func (r *BatchResult) asError(operation string) error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &BatchError{
		Operation: operation,
		Succeeded: r.SuccessCount,
		Total:     r.TotalCount,
		Failures:  r.Failures,
	}
}

// Delivery reúne o que é comum a convites, lembretes, reenvios e pré-visualização:
// carregar a campanha, montar as variáveis, renderizar e entregar ao transporte.
type Delivery struct {
	Campaigns  CampaignRepository
	Recipients RecipientRepository
	Events     EventRepository
	Contacts   ContactRepository
	Context    CampaignContextRepository
	Templates  TemplateRepository
	Transport  Transport
	Publisher  EventPublisher
	Variables  *variables.Builder
	Tracking   *tracking.Injector

	BookingBaseURL string
	SendTimeout    time.Duration
	Clock          func() time.Time

	locks *campaignLocks
}

func NewDelivery(
	campaigns CampaignRepository,
	recipients RecipientRepository,
	events EventRepository,
	contacts ContactRepository,
	campaignContext CampaignContextRepository,
	templates TemplateRepository,
	transport Transport,
	publisher EventPublisher,
	builder *variables.Builder,
	injector *tracking.Injector,
	bookingBaseURL string,
	sendTimeout time.Duration,
) *Delivery {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Delivery{
		Campaigns:      campaigns,
		Recipients:     recipients,
		Events:         events,
		Contacts:       contacts,
		Context:        campaignContext,
		Templates:      templates,
		Transport:      transport,
		Publisher:      publisher,
		Variables:      builder,
		Tracking:       injector,
		BookingBaseURL: bookingBaseURL,
		SendTimeout:    sendTimeout,
		Clock:          time.Now,
		locks:          newCampaignLocks(),
	}
}

func (d *Delivery) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

// messageContext é carregado uma vez por lote e compartilhado entre os destinatários.
type messageContext struct {
	campaign *entity.Campaign
	config   entity.MessageConfig
	clinic   *entity.Clinic
	exams    []entity.Exam
	branding *entity.Branding
}

func (d *Delivery) loadCampaign(ctx context.Context, id string) (*entity.Campaign, error) {
	campaign, err := d.Campaigns.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrCampaignNotFound) {
			return nil, &NotFoundError{Resource: "campanha", ID: id, Err: err}
		}
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar campanha", Err: err}
	}
	return campaign, nil
}

func (d *Delivery) loadRecipient(ctx context.Context, id string) (*entity.Recipient, error) {
	r, err := d.Recipients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrRecipientNotFound) {
			return nil, &NotFoundError{Resource: "destinatário", ID: id, Err: err}
		}
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar destinatário", Err: err}
	}
	return r, nil
}

// prepare valida a mensagem escolhida (convite ou lembrete), resolve o template
// referenciado e carrega clínica, exames e marca.
func (d *Delivery) prepare(ctx context.Context, campaign *entity.Campaign, kind string) (*messageContext, error) {
	field := "invite_message"
	cfg := campaign.InviteMessage
	if kind == KindReminder {
		field = "reminder_message"
		cfg = campaign.ReminderMessage
	}

	if cfg == nil {
		return nil, &DomainError{
			Code:    CodeMissingMessageConfig,
			Message: fmt.Sprintf("campanha sem %s configurada", field),
		}
	}
	if errs := ValidateMessageConfig(field, cfg); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	resolved, err := d.resolveTemplate(ctx, field, *cfg)
	if err != nil {
		return nil, err
	}

	mc := &messageContext{campaign: campaign, config: resolved}

	if campaign.ClinicID != "" {
		clinic, err := d.Context.FindClinic(ctx, campaign.ClinicID)
		if err != nil {
			return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar clínica da campanha", Err: err}
		}
		mc.clinic = clinic
	}
	if mc.exams, err = d.Context.ListExams(ctx, campaign.ID); err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar exames da campanha", Err: err}
	}
	if mc.branding, err = d.Context.FindBranding(ctx); err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar identidade visual", Err: err}
	}

	return mc, nil
}

func (d *Delivery) resolveTemplate(ctx context.Context, field string, cfg entity.MessageConfig) (entity.MessageConfig, error) {
	if cfg.TemplateID == "" {
		return cfg, nil
	}

	tpl, err := d.Templates.FindByID(ctx, cfg.TemplateID)
	if err != nil {
		if errors.Is(err, entity.ErrTemplateNotFound) {
			return cfg, &NotFoundError{Resource: "template", ID: cfg.TemplateID, Err: err}
		}
		return cfg, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar template", Err: err}
	}
	if !tpl.IsActive {
		return cfg, &DomainError{Code: CodeTemplateInactive, Message: fmt.Sprintf("template %s está inativo", tpl.Name)}
	}
	if tpl.Channel != cfg.Channel {
		return cfg, &DomainError{
			Code:    CodeTemplateChannel,
			Message: fmt.Sprintf("template %s é do canal %s, mensagem é %s", tpl.Name, tpl.Channel, cfg.Channel),
		}
	}

	if cfg.Body == "" {
		cfg.Body = tpl.Body
	}
	if cfg.Subject == "" {
		cfg.Subject = tpl.Subject
	}
	if cfg.Channel == entity.ChannelEmail && cfg.Subject == "" {
		return cfg, validationFailed([]ValidationError{{field + ".subject", "is required for email"}})
	}
	return cfg, nil
}

// compose renderiza a mensagem de um destinatário. Com track=false o HTML sai
// sem pixel nem links rastreados, e placeholders sem valor ficam visíveis.
func (d *Delivery) compose(mc *messageContext, recipientID string, contact *entity.Contact, track bool) (*entity.OutboundMessage, *template.Result, error) {
	bindings := d.Variables.Build(variables.Input{
		Contact:     contact,
		Campaign:    mc.campaign,
		Clinic:      mc.clinic,
		Exams:       mc.exams,
		RecipientID: recipientID,
		Branding:    mc.branding,
		BaseURL:     d.BookingBaseURL,
	})

	var subject *string
	if mc.config.Channel == entity.ChannelEmail {
		s := mc.config.Subject
		subject = &s
	}

	res, err := template.Render(mc.config.Body, subject, bindings, template.Options{
		Channel:     mc.config.Channel,
		CleanUnused: track,
	})
	if err != nil {
		return nil, nil, err
	}

	if track && mc.config.Channel == entity.ChannelEmail && d.Tracking != nil {
		res.HTML = d.Tracking.Inject(res.HTML, mc.campaign.ID, recipientID)
	}

	msg := &entity.OutboundMessage{
		To:          contact.Address(mc.config.Channel),
		Channel:     mc.config.Channel,
		CampaignID:  mc.campaign.ID,
		RecipientID: recipientID,
		Contact:     contact,
		Body:        res.Body,
		HTML:        res.HTML,
	}
	if res.Subject != nil {
		msg.Subject = *res.Subject
	}
	if res.SMS != nil {
		msg.SMSSegments = res.SMS.Segments
	}
	return msg, res, nil
}

// deliver busca o contato, renderiza e entrega ao transporte com prazo próprio.
// Qualquer erro aqui afeta só este destinatário.
func (d *Delivery) deliver(ctx context.Context, mc *messageContext, r *entity.Recipient) error {
	contact, err := d.Contacts.FindByID(ctx, r.ContactID)
	if err != nil {
		return fmt.Errorf("erro ao buscar contato %s: %w", r.ContactID, err)
	}
	if err := ValidateAddress(mc.config.Channel, contact.Address(mc.config.Channel)); err != nil {
		return err
	}

	msg, _, err := d.compose(mc, r.ID, contact, true)
	if err != nil {
		return fmt.Errorf("erro ao renderizar mensagem: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.SendTimeout)
	defer cancel()

	if err := d.Transport.Send(sendCtx, msg); err != nil {
		return fmt.Errorf("falha no envio via %s: %w", msg.Channel, err)
	}
	return nil
}

// recordEvent grava o evento e publica no barramento. Devolve o erro de
// gravação; falha na publicação só é logada.
func (d *Delivery) recordEvent(ctx context.Context, ev *entity.MessageEvent) error {
	if err := d.Events.Append(ctx, ev); err != nil {
		log.Printf("❌ [DELIVERY] erro ao gravar evento %s do destinatário %s: %v", ev.EventType, ev.RecipientID, err)
		return err
	}
	publish(ctx, d.Publisher, ev)
	return nil
}

func publish(ctx context.Context, publisher EventPublisher, ev *entity.MessageEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishMessageEvent(ctx, ev); err != nil {
		log.Printf("⚠️ Evento %s gravado, mas falha ao publicar na fila: %v", ev.ID, err)
	}
}

// campaignLocks impede dois lotes simultâneos da mesma campanha neste processo.
type campaignLocks struct {
	mu     sync.Mutex
	active map[string]bool
}

func newCampaignLocks() *campaignLocks {
	return &campaignLocks{active: map[string]bool{}}
}

func (l *campaignLocks) tryLock(campaignID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active[campaignID] {
		return false
	}
	l.active[campaignID] = true
	return true
}

func (l *campaignLocks) unlock(campaignID string) {
	l.mu.Lock()
	delete(l.active, campaignID)
	l.mu.Unlock()
}
