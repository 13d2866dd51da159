package mail

import (
	"context"
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

// dialer é a parte do gomail.Dialer usada aqui.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string

	dialer dialer
}

func NewEmailSender(host string, port int, user, password, from, fromName string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		FromName: fromName,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// Send entrega a mensagem renderizada por SMTP, com HTML e a versão em texto.
func (s *EmailSender) Send(ctx context.Context, msg *entity.OutboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("destinatário sem e-mail")
	}

	m := s.buildMessage(msg)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	log.Printf("📧 Email enviado para %s (campanha %s)", msg.To, msg.CampaignID)
	return nil
}

func (s *EmailSender) buildMessage(msg *entity.OutboundMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.From, s.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("X-Campaign-ID", msg.CampaignID)
	m.SetHeader("X-Recipient-ID", msg.RecipientID)

	if msg.HTML == "" {
		m.SetBody("text/plain", msg.Body)
		return m
	}

	text, err := PlainText(msg.HTML)
	if err != nil {
		log.Printf("⚠️ Email: falha ao gerar versão texto, usando corpo original: %v", err)
		text = msg.Body
	}
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", msg.HTML)
	return m
}
