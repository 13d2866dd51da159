// Package variables monta o mapa de variáveis usado na renderização de cada
// mensagem a partir do contato, da campanha, da clínica e dos exames.
package variables

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

const (
	DateLayout          = "02/01/2006"
	DefaultPrimaryColor = "#2563eb"
	mapsSearchURL       = "https://www.google.com/maps/search/?api=1&query="
)

// Bindings é o mapa chave → valor de uma renderização. Nunca é persistido.
type Bindings map[string]string

// Chaves canônicas.
const (
	KeyContactName      = "contact.name"
	KeyContactFirstName = "contact.firstName"
	KeyContactEmail     = "contact.email"
	KeyContactPhone     = "contact.phone"
	KeyGreeting         = "greeting"
	KeyCampaignTitle    = "campaign.title"
	KeyCampaignDeadline = "campaign.deadline"
	KeyClinicName       = "clinic.name"
	KeyClinicAddress    = "clinic.address"
	KeyClinicPhone      = "clinic.phone"
	KeyExams            = "exams"
	KeyPreparation      = "preparation"
	KeyBookingURL       = "booking.url"
	KeyBookingButton    = "booking.button"
	KeyMapURL           = "map.url"
	KeyMapButton        = "map.button"
	KeyCompanyName      = "company.name"
	KeyCompanyLogo      = "company.logo"
	KeyPrimaryColor     = "company.color"
)

// aliases lista os nomes históricos de cada chave canônica. Todos recebem o
// mesmo valor.
var aliases = map[string][]string{
	KeyContactName:      {"nome", "name", "nome_completo", "paciente"},
	KeyContactFirstName: {"primeiro_nome", "first_name", "firstname"},
	KeyContactEmail:     {"email"},
	KeyContactPhone:     {"telefone", "phone"},
	KeyGreeting:         {"saudacao"},
	KeyCampaignTitle:    {"campanha", "campaign"},
	KeyCampaignDeadline: {"data_limite", "prazo", "deadline"},
	KeyClinicName:       {"clinica", "nome_clinica"},
	KeyClinicAddress:    {"endereco", "endereco_clinica"},
	KeyClinicPhone:      {"telefone_clinica"},
	KeyExams:            {"exames"},
	KeyPreparation:      {"preparo", "instrucoes_preparo"},
	KeyBookingURL:       {"link_agendamento", "booking_url"},
	KeyBookingButton:    {"botao_agendamento", "link_agendamento_html"},
	KeyMapURL:           {"link_mapa"},
	KeyMapButton:        {"botao_mapa"},
	KeyCompanyName:      {"empresa"},
	KeyCompanyLogo:      {"logo_url"},
	KeyPrimaryColor:     {"cor_primaria"},
}

// Aliases devolve os nomes alternativos de uma chave canônica.
func Aliases(key string) []string {
	return aliases[key]
}

type Input struct {
	Contact     *entity.Contact
	Campaign    *entity.Campaign
	Clinic      *entity.Clinic
	Exams       []entity.Exam
	RecipientID string
	Branding    *entity.Branding
	// BaseURL é a raiz da página pública de agendamento.
	BaseURL string
}

type Builder struct {
	Clock    func() time.Time
	Location *time.Location
}

func NewBuilder(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.Local
	}
	return &Builder{Clock: time.Now, Location: loc}
}

func (b *Builder) Build(in Input) Bindings {
	p := newPrinter()
	out := Bindings{}

	set := func(key, value string) {
		out[key] = value
		for _, alias := range aliases[key] {
			out[alias] = value
		}
	}

	set(KeyGreeting, b.greeting())

	if c := in.Contact; c != nil {
		set(KeyContactName, c.Name)
		set(KeyContactFirstName, FirstName(c.Name))
		set(KeyContactEmail, c.Email)
		set(KeyContactPhone, c.Phone)
	}

	if c := in.Campaign; c != nil {
		set(KeyCampaignTitle, c.Title)
		if c.Deadline != nil {
			set(KeyCampaignDeadline, c.Deadline.In(b.location()).Format(DateLayout))
		}
	}

	if c := in.Clinic; c != nil {
		set(KeyClinicName, c.Name)
		set(KeyClinicAddress, c.Address)
		set(KeyClinicPhone, c.Phone)
	}

	names := make([]string, 0, len(in.Exams))
	for _, e := range in.Exams {
		names = append(names, e.Name)
	}
	set(KeyExams, strings.Join(names, ", "))
	set(KeyPreparation, preparation(in.Exams, p.Sprintf(msgNoPreparation)))

	color := DefaultPrimaryColor
	if br := in.Branding; br != nil {
		set(KeyCompanyName, br.CompanyName)
		set(KeyCompanyLogo, br.LogoURL)
		if br.PrimaryColor != "" {
			color = br.PrimaryColor
		}
	}
	set(KeyPrimaryColor, color)

	if in.RecipientID != "" && in.BaseURL != "" {
		if link, err := url.JoinPath(in.BaseURL, in.RecipientID); err == nil {
			set(KeyBookingURL, link)
			set(KeyBookingButton, Button(link, p.Sprintf(msgBookButton), color))
		}
	}

	if in.Clinic != nil && strings.TrimSpace(in.Clinic.Address) != "" {
		link := MapURL(in.Clinic.Address)
		set(KeyMapURL, link)
		set(KeyMapButton, Button(link, p.Sprintf(msgMapButton), color))
	}

	return out
}

// Greeting devolve a saudação para o horário local: antes das 12h "Bom dia",
// antes das 18h "Boa tarde", depois "Boa noite".
func Greeting(t time.Time) string {
	p := newPrinter()
	switch h := t.Hour(); {
	case h < 12:
		return p.Sprintf(msgGoodMorning)
	case h < 18:
		return p.Sprintf(msgGoodAfternoon)
	default:
		return p.Sprintf(msgGoodEvening)
	}
}

func (b *Builder) greeting() string {
	clock := b.Clock
	if clock == nil {
		clock = time.Now
	}
	return Greeting(clock().In(b.location()))
}

func (b *Builder) location() *time.Location {
	if b.Location == nil {
		return time.Local
	}
	return b.Location
}

func FirstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func MapURL(address string) string {
	return mapsSearchURL + url.QueryEscape(address)
}

// Button gera um link HTML com estilo inline, já escapado.
func Button(link, label, color string) string {
	return fmt.Sprintf(
		`<a href="%s" style="display:inline-block;padding:12px 24px;background-color:%s;color:#ffffff;text-decoration:none;border-radius:6px;font-weight:bold">%s</a>`,
		html.EscapeString(link), html.EscapeString(color), html.EscapeString(label),
	)
}

func preparation(exams []entity.Exam, fallback string) string {
	var lines []string
	for _, e := range exams {
		text := strings.TrimSpace(e.Preparation)
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s: %s", e.Name, text))
	}
	if len(lines) == 0 {
		return fallback
	}
	return strings.Join(lines, "\n")
}
