package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"customer-api/internal/api/handler/dto"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, l *slog.Logger) *HealthHandler {
	if db == nil {
		panic("database pinger cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &HealthHandler{
		db:     db,
		logger: l.With("component", "HealthHandler"),
	}
}

// Health reports 503 when the database cannot be pinged.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "Database health check failed", slog.Any("error", err))
		respondJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable", Database: "down"})
		return
	}

	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up"})
}
