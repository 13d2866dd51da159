package handlers

import (
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/usecase"
)

const whatsappPayload = `{"type":"read","campaign_id":"c1","recipient_id":"r1","channel":"WhatsApp","provider_message_id":"wamid.1"}`

func postWebhook(h *WebhookHandler, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/messages", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestWebhookAcceptsSignedEvent(t *testing.T) {
	events := new(MockEvents)
	verifier := NewSignatureVerifier(map[entity.Channel]string{entity.ChannelWhatsApp: "s3cr3t"})
	h := NewWebhookHandler(events, verifier)

	events.On("IngestWebhook", mock.Anything, mock.MatchedBy(func(in usecase.WebhookInput) bool {
		return in.Type == "read" && in.RecipientID == "r1" && in.ProviderMessageID == "wamid.1"
	})).Return(entity.EventRead, nil)

	sig := hex.EncodeToString(Sign("s3cr3t", []byte(whatsappPayload)))
	rec := postWebhook(h, whatsappPayload, sig)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"event_type":"read"}`, rec.Body.String())

	rec = postWebhook(h, whatsappPayload, "sha256="+sig)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	events := new(MockEvents)
	verifier := NewSignatureVerifier(map[entity.Channel]string{entity.ChannelWhatsApp: "s3cr3t"})
	h := NewWebhookHandler(events, verifier)

	wrong := hex.EncodeToString(Sign("outro", []byte(whatsappPayload)))
	for _, sig := range []string{"", wrong, "zz-not-hex"} {
		rec := postWebhook(h, whatsappPayload, sig)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "assinatura %q", sig)
	}
	events.AssertNotCalled(t, "IngestWebhook", mock.Anything, mock.Anything)
}

func TestWebhookWithoutSecretSkipsVerification(t *testing.T) {
	events := new(MockEvents)
	h := NewWebhookHandler(events, NewSignatureVerifier(map[entity.Channel]string{entity.ChannelWhatsApp: "s3cr3t"}))
	events.On("IngestWebhook", mock.Anything, mock.Anything).Return(entity.EventDelivered, nil)

	rec := postWebhook(h, `{"type":"delivery","campaign_id":"c1","recipient_id":"r1","channel":"sms"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookErrors(t *testing.T) {
	events := new(MockEvents)
	h := NewWebhookHandler(events, NewSignatureVerifier(nil))

	assert.Equal(t, http.StatusBadRequest, postWebhook(h, `{"type":`, "").Code)

	events.On("IngestWebhook", mock.Anything, mock.MatchedBy(func(in usecase.WebhookInput) bool { return in.CampaignID == "" })).
		Return(entity.EventType(""), &usecase.DomainError{Code: usecase.CodeValidation, Message: "validation failed: campaign_id (obrigatório)"})
	events.On("IngestWebhook", mock.Anything, mock.MatchedBy(func(in usecase.WebhookInput) bool { return in.CampaignID == "c1" })).
		Return(entity.EventType(""), &usecase.TechnicalError{Code: "EVENT_PERSISTENCE", Message: "erro ao gravar evento", Err: errors.New("db fora")})

	assert.Equal(t, http.StatusBadRequest, postWebhook(h, `{"type":"open","recipient_id":"r1"}`, "").Code)

	rec := postWebhook(h, `{"type":"open","campaign_id":"c1","recipient_id":"r1"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db fora")
}

func TestWebhookRequiresKnownChannelWhenSecretsConfigured(t *testing.T) {
	events := new(MockEvents)
	verifier := NewSignatureVerifier(map[entity.Channel]string{
		entity.ChannelEmail:    "e-secret",
		entity.ChannelWhatsApp: "w-secret",
		entity.ChannelSMS:      "s-secret",
	})
	h := NewWebhookHandler(events, verifier)

	for _, body := range []string{
		`{"type":"booked","campaign_id":"c1","recipient_id":"r1"}`,
		`{"type":"booked","campaign_id":"c1","recipient_id":"r1","channel":""}`,
		`{"type":"booked","campaign_id":"c1","recipient_id":"r1","channel":"telegram"}`,
	} {
		rec := postWebhook(h, body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, body)

		signed := postWebhook(h, body, hex.EncodeToString(Sign("w-secret", []byte(body))))
		assert.Equal(t, http.StatusUnauthorized, signed.Code, body)
	}
	events.AssertNotCalled(t, "IngestWebhook", mock.Anything, mock.Anything)
}
