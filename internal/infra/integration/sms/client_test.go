package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

func TestSendPostsToGateway(t *testing.T) {
	var got sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer KEY", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"id":"sms-1","status":"queued","segments":2}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "KEY", "LIGUE")
	err := c.Send(context.Background(), &entity.OutboundMessage{
		To: "11 98888-7777", Body: "Olá Ana", CampaignID: "c1", RecipientID: "r1", SMSSegments: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "5511988887777", got.To)
	assert.Equal(t, "LIGUE", got.From)
	assert.Equal(t, "Olá Ana", got.Text)
	assert.Equal(t, "c1:r1", got.Reference)
}

func TestSendGatewayRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"saldo insuficiente"}`, http.StatusPaymentRequired)
	}))
	defer server.Close()

	err := NewClient(server.URL, "KEY", "").Send(context.Background(), &entity.OutboundMessage{To: "5511988887777"})
	assert.ErrorContains(t, err, "402")
}

func TestSendNotConfigured(t *testing.T) {
	err := NewClient("", "", "").Send(context.Background(), &entity.OutboundMessage{To: "1"})
	assert.Error(t, err)
}
