package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"customer-api/internal/api/handler/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("reports healthy database", func(t *testing.T) {
		pinger := new(MockPinger)
		pinger.On("Ping", mock.Anything).Return(nil)

		rec := httptest.NewRecorder()
		NewHealthHandler(pinger, logger).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, dto.HealthResponse{Status: "ok", Database: "up"}, resp)
		pinger.AssertExpectations(t)
	})

	t.Run("reports unavailable database", func(t *testing.T) {
		pinger := new(MockPinger)
		pinger.On("Ping", mock.Anything).Return(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		NewHealthHandler(pinger, logger).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unavailable","database":"down"}`, rec.Body.String())
	})

	t.Run("panics without dependencies", func(t *testing.T) {
		assert.Panics(t, func() { NewHealthHandler(nil, logger) })
		assert.Panics(t, func() { NewHealthHandler(new(MockPinger), nil) })
	})
}
