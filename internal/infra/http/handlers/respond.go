package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-campaigns/internal/usecase"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// conflictCodes são erros de entrada que dependem do estado atual, não do payload.
var conflictCodes = map[string]bool{
	usecase.CodeNoPendingRecipients: true,
	usecase.CodeBatchInProgress:     true,
	usecase.CodeCampaignClosed:      true,
	usecase.CodeRecipientBooked:     true,
	usecase.CodeRecipientExists:     true,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ Erro ao escrever resposta: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

// writeError traduz os erros dos casos de uso para status HTTP.
func writeError(w http.ResponseWriter, err error) {
	var domainErr *usecase.DomainError
	var notFound *usecase.NotFoundError
	var techErr *usecase.TechnicalError

	switch {
	case errors.As(err, &domainErr):
		status := http.StatusBadRequest
		if conflictCodes[domainErr.Code] {
			status = http.StatusConflict
		}
		writeErrorResponse(w, status, domainErr.Code, domainErr.Message)
	case errors.As(err, &notFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", notFound.Error())
	case errors.As(err, &techErr):
		log.Printf("❌ [HTTP] %v", techErr)
		status := http.StatusInternalServerError
		if techErr.Code == usecase.CodeTransportFailed {
			status = http.StatusBadGateway
		}
		writeErrorResponse(w, status, techErr.Code, techErr.Message)
	default:
		log.Printf("❌ [HTTP] Erro inesperado: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno")
	}
}

// decodeOptional aceita corpo vazio.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
