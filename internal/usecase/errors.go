package usecase

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeMissingMessageConfig = "MISSING_MESSAGE_CONFIG"
	CodeNoPendingRecipients  = "NO_PENDING_RECIPIENTS"
	CodeTemplateInactive     = "TEMPLATE_INACTIVE"
	CodeTemplateChannel      = "TEMPLATE_CHANNEL_MISMATCH"
	CodeCampaignClosed       = "CAMPAIGN_CLOSED"
	CodeBatchInProgress      = "BATCH_IN_PROGRESS"
	CodeRecipientBooked      = "RECIPIENT_BOOKED"
)

var (
	ErrNoPendingRecipients = &DomainError{Code: CodeNoPendingRecipients, Message: "nenhum destinatário pendente para envio"}
	ErrBatchInProgress     = &DomainError{Code: CodeBatchInProgress, Message: "já existe um envio em andamento para esta campanha"}
)

// DomainError é um erro de entrada: nada foi enviado nem gravado.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is compara pelo código, para que errors.Is funcione com os sentinelas.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s não encontrado: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// RecipientFailure é a falha de um item do lote.
type RecipientFailure struct {
	RecipientID string `json:"recipient_id"`
	Error       string `json:"error"`
}

// BatchError indica falha parcial: os sucessos do lote continuam gravados.
type BatchError struct {
	Operation string
	Succeeded int
	Total     int
	Failures  []RecipientFailure
}

func (e *BatchError) Error() string {
	msg := fmt.Sprintf("%s: %d de %d enviados com sucesso", e.Operation, e.Succeeded, e.Total)
	if len(e.Failures) > 0 {
		reasons := make([]string, 0, len(e.Failures))
		for _, f := range e.Failures {
			reasons = append(reasons, f.RecipientID+" ("+f.Error+")")
		}
		msg += "; falhas: " + strings.Join(reasons, ", ")
	}
	return msg
}

func IsBatchError(err error) bool {
	var be *BatchError
	return errors.As(err, &be)
}

func validationFailed(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
