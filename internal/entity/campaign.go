package entity

import (
	"errors"
	"strings"
	"time"
)

var ErrCampaignNotFound = errors.New("campanha não encontrada")

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignArchived  CampaignStatus = "archived"
)

// Channel identifica o canal de entrega de uma mensagem.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelWhatsApp, ChannelSMS:
		return true
	}
	return false
}

// ParseChannel normaliza o canal vindo de payloads externos ("WhatsApp", " SMS ").
func ParseChannel(raw string) Channel {
	return Channel(strings.ToLower(strings.TrimSpace(raw)))
}

// MessageConfig é a mensagem de convite ou lembrete configurada na campanha.
type MessageConfig struct {
	Channel    Channel `json:"channel"`
	Subject    string  `json:"subject,omitempty"`
	Body       string  `json:"body"`
	TemplateID string  `json:"template_id,omitempty"`
}

// Counters são os agregados persistidos na campanha. Só o recálculo a partir
// do log de eventos escreve aqui.
type Counters struct {
	TotalSent         int       `json:"total_sent"`
	TotalDelivered    int       `json:"total_delivered"`
	TotalOpened       int       `json:"total_opened"`
	TotalClicked      int       `json:"total_clicked"`
	TotalBooked       int       `json:"total_booked"`
	TotalFailed       int       `json:"total_failed"`
	TotalUnsubscribed int       `json:"total_unsubscribed"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Campaign struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Status          CampaignStatus `json:"status"`
	ClinicID        string         `json:"clinic_id,omitempty"`
	Deadline        *time.Time     `json:"deadline,omitempty"`
	InviteMessage   *MessageConfig `json:"invite_message,omitempty"`
	ReminderMessage *MessageConfig `json:"reminder_message,omitempty"`
	Counters        Counters       `json:"counters"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Sendable indica se a campanha ainda aceita disparos.
func (c *Campaign) Sendable() bool {
	return c.Status != CampaignCompleted && c.Status != CampaignArchived
}
