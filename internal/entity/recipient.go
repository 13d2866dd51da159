package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRecipientNotFound = errors.New("destinatário não encontrado")
	ErrRecipientExists   = errors.New("contato já é destinatário desta campanha")
)

type RecipientStatus string

const (
	RecipientPending RecipientStatus = "pending"
	RecipientSent    RecipientStatus = "sent"
	RecipientOpened  RecipientStatus = "opened"
	RecipientClicked RecipientStatus = "clicked"
	RecipientBooked  RecipientStatus = "booked"
	RecipientFailed  RecipientStatus = "failed"
)

var recipientStatuses = []RecipientStatus{
	RecipientPending, RecipientSent, RecipientOpened, RecipientClicked, RecipientBooked, RecipientFailed,
}

// funnelRank ordena o funil pending → sent → opened → clicked → booked.
// failed fica no mesmo degrau de pending: é retentável.
var funnelRank = map[RecipientStatus]int{
	RecipientPending: 0,
	RecipientFailed:  0,
	RecipientSent:    1,
	RecipientOpened:  2,
	RecipientClicked: 3,
	RecipientBooked:  4,
}

func (s RecipientStatus) Valid() bool {
	_, ok := funnelRank[s]
	return ok
}

// CanTransitionTo reporta se a mudança s → next é um avanço válido do funil.
// O reset para pending é uma operação administrativa e não passa por aqui.
func (s RecipientStatus) CanTransitionTo(next RecipientStatus) bool {
	if !s.Valid() || !next.Valid() || s == next {
		return false
	}
	if next == RecipientFailed {
		return s == RecipientPending || s == RecipientSent
	}
	if s == RecipientBooked {
		return false
	}
	return funnelRank[next] > funnelRank[s]
}

// Predecessors devolve todos os status a partir dos quais next é alcançável.
// Usado para montar updates condicionais no banco.
func Predecessors(next RecipientStatus) []RecipientStatus {
	var from []RecipientStatus
	for _, s := range recipientStatuses {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

// Recipient é o par (campanha, contato) acompanhado pelo funil.
type Recipient struct {
	ID                 string          `json:"id"`
	CampaignID         string          `json:"campaign_id"`
	ContactID          string          `json:"contact_id"`
	Status             RecipientStatus `json:"status"`
	InviteCount        int             `json:"invite_count"`
	SentAt             *time.Time      `json:"sent_at,omitempty"`
	LastReminderSentAt *time.Time      `json:"last_reminder_sent_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func NewRecipient(campaignID, contactID string) (*Recipient, error) {
	if campaignID == "" {
		return nil, errors.New("campaign_id é obrigatório")
	}
	if contactID == "" {
		return nil, errors.New("contact_id é obrigatório")
	}
	now := time.Now()
	return &Recipient{
		ID:         uuid.New().String(),
		CampaignID: campaignID,
		ContactID:  contactID,
		Status:     RecipientPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ResendTarget é o status resultante de um reenvio manual. O reenvio força
// sent, mas quem já avançou no funil não volta.
func (r *Recipient) ResendTarget() RecipientStatus {
	if funnelRank[r.Status] > funnelRank[RecipientSent] {
		return r.Status
	}
	return RecipientSent
}
