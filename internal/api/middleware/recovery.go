package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/weddingplanner/internal/api/apierr"
	"github.com/mcoot/weddingplanner/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns JSON error responses on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	apierr.WriteError(w, r, apierr.NewInternalError())
}
