package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/weddingplanner/internal/api/request"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/testutil"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestWriteErrorLogsOnlyInternal(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		logged bool
	}{
		{"domain error", model.ErrCredentialMismatch, http.StatusUnauthorized, false},
		{"validation", &model.ValidationError{Field: "pin", Reason: "bad"}, http.StatusBadRequest, false},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := testutil.BufferLogger()
			w := httptest.NewRecorder()

			WriteError(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), logger, tt.err)

			assert.Equal(t, tt.status, w.Code)
			if tt.logged {
				assert.Contains(t, buf.String(), "disk on fire")
				assert.NotContains(t, w.Body.String(), "disk on fire")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"Min","pin":"1234"}`, false},
		{"malformed", `{"name":`, true},
		{"oversized", `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var req request.LoginRequest
			err := decodeJSON(w, r, &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "Min", req.Name)
		})
	}
}

func TestHealth(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name    string
		pingers map[string]Pinger
		status  int
		body    string
	}{
		{"no backends", nil, http.StatusOK, `{"status":"ok"}`},
		{"all up", map[string]Pinger{"sqlite": up}, http.StatusOK, `{"status":"ok"}`},
		{"one down", map[string]Pinger{"sqlite": up, "redis": down}, http.StatusServiceUnavailable, `{"status":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := testutil.BufferLogger()
			w := httptest.NewRecorder()

			NewHealthHandler(tt.pingers, logger).Health(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			if tt.status != http.StatusOK {
				assert.Contains(t, buf.String(), `"backend":"redis"`)
			}
		})
	}
}
