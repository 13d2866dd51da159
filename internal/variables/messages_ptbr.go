package variables

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgGoodMorning   = "greeting.morning"
	msgGoodAfternoon = "greeting.afternoon"
	msgGoodEvening   = "greeting.evening"
	msgNoPreparation = "exam.no_preparation"
	msgBookButton    = "button.booking"
	msgMapButton     = "button.map"
)

var locale = language.BrazilianPortuguese

func init() {
	for key, text := range map[string]string{
		msgGoodMorning:   "Bom dia",
		msgGoodAfternoon: "Boa tarde",
		msgGoodEvening:   "Boa noite",
		msgNoPreparation: "Não é necessário preparo especial para este exame.",
		msgBookButton:    "Agendar meu exame",
		msgMapButton:     "Ver no mapa",
	} {
		if err := message.SetString(locale, key, text); err != nil {
			panic("variables: catálogo pt-BR inválido: " + err.Error())
		}
	}
}

func newPrinter() *message.Printer {
	return message.NewPrinter(locale)
}
