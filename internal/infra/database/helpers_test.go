package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

func TestDecodeMessage(t *testing.T) {
	cfg, err := decodeMessage(nil)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	cfg, err = decodeMessage([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, cfg)

	cfg, err = decodeMessage([]byte(`{"channel":"WhatsApp","body":"Olá {{nome}}","template_id":"t1"}`))
	require.NoError(t, err)
	assert.Equal(t, entity.ChannelWhatsApp, cfg.Channel)
	assert.Equal(t, "Olá {{nome}}", cfg.Body)
	assert.Equal(t, "t1", cfg.TemplateID)

	_, err = decodeMessage([]byte(`{"channel":`))
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestStatusStrings(t *testing.T) {
	got := statusStrings(entity.Predecessors(entity.RecipientFailed))
	assert.ElementsMatch(t, []string{"pending", "sent"}, got)
}

func TestReconcileIgnoresProviderSentAndResets(t *testing.T) {
	assert.Contains(t, reconcilePendingQuery, "metadata->>'kind' = ANY($1)")
	assert.Contains(t, reconcilePendingQuery, "e.last_sent > r.reset_at")
	assert.NotContains(t, reconcilePendingQuery, "COALESCE")
	assert.Equal(t, []string{"invite", "resend"}, entity.ReconcilableKinds())
}

func TestCountersCountOnlyOrchestratorSends(t *testing.T) {
	assert.Contains(t, countersQuery, "event_type = 'sent' AND metadata->>'kind' = ANY($2)")
	assert.ElementsMatch(t, []string{"invite", "reminder", "resend"}, entity.SendKinds())
}
