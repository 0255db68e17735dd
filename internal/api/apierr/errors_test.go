package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mcoot/weddingplanner/internal/api/response"
	"github.com/mcoot/weddingplanner/internal/i18n"
	"github.com/mcoot/weddingplanner/internal/model"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{model.NewValidationError("pin", "must be 4 digits"), http.StatusBadRequest},
		{model.ErrInvalidInviteCode, http.StatusBadRequest},
		{model.ErrCoupleAlreadyComplete, http.StatusBadRequest},
		{model.ErrDuplicateNameInCouple, http.StatusBadRequest},
		{model.ErrCredentialMismatch, http.StatusUnauthorized},
		{model.ErrAdminPasswordMismatch, http.StatusUnauthorized},
		{model.ErrUnauthorized, http.StatusUnauthorized},
		{model.ErrForbidden, http.StatusForbidden},
		{model.ErrChecklistItemNotFound, http.StatusNotFound},
		{fmt.Errorf("add member: %w", errors.New("disk full")), http.StatusInternalServerError},
		{model.ErrInviteCodeExhausted, http.StatusBadRequest},
		{NewInvalidRequestError(), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestIsInternal(t *testing.T) {
	assert.True(t, IsInternal(errors.New("boom")))
	assert.True(t, IsInternal(NewInternalError()))
	assert.False(t, IsInternal(model.ErrUnauthorized))
	assert.False(t, IsInternal(model.ErrInviteCodeExhausted))
	assert.False(t, IsInternal(model.NewValidationError("name", "required")))
}

func TestWriteErrorLocalizes(t *testing.T) {
	tr := i18n.New("ko")

	tests := []struct {
		name string
		tag  language.Tag
		err  error
		want ErrorResponse
	}{
		{
			name: "korean complete couple",
			tag:  language.Korean,
			err:  model.ErrCoupleAlreadyComplete,
			want: ErrorResponse{Error: "이미 커플이 완성되었습니다", Code: CodeCoupleAlreadyComplete},
		},
		{
			name: "english wrapped validation",
			tag:  language.English,
			err:  fmt.Errorf("register: %w", model.NewValidationError("pin", "must be 4 digits")),
			want: ErrorResponse{Error: "PIN must be exactly 4 digits", Code: CodeValidation},
		},
		{
			name: "unknown validation field",
			tag:  language.English,
			err:  model.NewValidationError("colour", "required"),
			want: ErrorResponse{Error: "Invalid input", Code: CodeValidation},
		},
		{
			name: "invite codes exhausted",
			tag:  language.English,
			err:  fmt.Errorf("register: %w", model.ErrInviteCodeExhausted),
			want: ErrorResponse{Error: "Could not create an invite code, please try again", Code: CodeInviteUnavailable},
		},
		{
			name: "internal detail is hidden",
			tag:  language.English,
			err:  errors.New("database is locked"),
			want: ErrorResponse{Error: "Something went wrong, please try again later", Code: CodeStorageFailure},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = r.WithContext(i18n.WithLocalizer(r.Context(), tr.Localizer(tt.tag)))
			w := httptest.NewRecorder()

			WriteError(w, r, tt.err)

			assert.Equal(t, response.ContentTypeJSON, w.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestMessage(t *testing.T) {
	tr := i18n.New("ko")

	assert.Equal(t, "유효하지 않은 초대 코드입니다", Message(tr.Localizer(language.Korean), model.ErrInvalidInviteCode))
	assert.Equal(t, "Invalid invite code", Message(tr.Localizer(language.English), model.ErrInvalidInviteCode))
}
