package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/weddingplanner/internal/api/response"
)

// Pinger is a dependency the health check probes
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the server and its backends respond
type HealthHandler struct {
	pingers map[string]Pinger
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler probing the named pingers
func NewHealthHandler(pingers map[string]Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		pingers: pingers,
		logger:  logger,
	}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	for name, p := range h.pingers {
		if err := p.Ping(r.Context()); err != nil {
			h.logger.Error("health check failed",
				slog.String("backend", name),
				slog.String("error", err.Error()),
			)
			response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "unavailable"})
			return
		}
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
