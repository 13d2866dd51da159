package entity

// OutboundMessage é uma mensagem já renderizada, pronta para o transporte do canal.
type OutboundMessage struct {
	To          string
	Channel     Channel
	CampaignID  string
	RecipientID string
	Contact     *Contact
	Subject     string
	Body        string
	HTML        string
	// SMSSegments é preenchido só no canal SMS.
	SMSSegments int
}
