package response

import (
	"encoding/json"
	"net/http"
)

// ContentTypeJSON is the content type of every API body; messages may be
// Korean, so the charset is explicit
const ContentTypeJSON = "application/json; charset=utf-8"

// JSON writes a JSON response. Bodies carry session-bound data, so they
// are never cached.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", ContentTypeJSON)
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
