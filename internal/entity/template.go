package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrTemplateNotFound = errors.New("template não encontrado")

// Template é um conteúdo reutilizável com placeholders, restrito a um canal.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Channel   Channel   `json:"channel"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Variables []string  `json:"variables"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duplicate cria uma cópia inativa com novo ID.
func (t *Template) Duplicate(now time.Time) *Template {
	vars := make([]string, len(t.Variables))
	copy(vars, t.Variables)
	return &Template{
		ID:        uuid.New().String(),
		Name:      t.Name + " (cópia)",
		Channel:   t.Channel,
		Subject:   t.Subject,
		Body:      t.Body,
		Variables: vars,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
