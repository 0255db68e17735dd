package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/weddingplanner/internal/api/apierr"
	"github.com/mcoot/weddingplanner/internal/middleware"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 64 << 10

// WriteError writes err as a localized error response. Internal failures
// are logged with detail; the client only sees the generic message.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if apierr.IsInternal(err) {
		logger.Error("request failed",
			slog.String("request_id", middleware.RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, r, err)
}

// decodeJSON reads a JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.NewInvalidRequestError()
	}
	return nil
}
