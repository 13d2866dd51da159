package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeBroker struct{ closed bool }

func (f fakeBroker) IsClosed() bool { return f.closed }

func checkHealth(h *HealthHandler) (int, HealthResponse) {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var resp HealthResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

func TestHealthy(t *testing.T) {
	h := NewHealthHandler(fakePinger{}, fakeBroker{}, map[string]bool{"smtp": true, "sms": false})

	code, resp := checkHealth(h)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "configured", resp.Dependencies["smtp"])
	assert.Equal(t, "not configured", resp.Dependencies["sms"])
}

func TestDegraded(t *testing.T) {
	code, resp := checkHealth(NewHealthHandler(fakePinger{err: errors.New("refused")}, fakeBroker{}, nil))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", resp.Status)

	code, resp = checkHealth(NewHealthHandler(fakePinger{}, fakeBroker{closed: true}, nil))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy: connection closed", resp.Dependencies["rabbitmq"])
}
