package apierr

import (
	"errors"
	"net/http"

	"github.com/mcoot/weddingplanner/internal/api/response"
	"github.com/mcoot/weddingplanner/internal/i18n"
	"github.com/mcoot/weddingplanner/internal/model"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidInviteCode     = "INVALID_INVITE_CODE"
	CodeCoupleAlreadyComplete = "COUPLE_ALREADY_COMPLETE"
	CodeInviteUnavailable     = "INVITE_CODE_UNAVAILABLE"
	CodeDuplicateName         = "DUPLICATE_NAME_IN_COUPLE"
	CodeCredentialMismatch    = "CREDENTIAL_MISMATCH"
	CodeAdminPassword         = "ADMIN_PASSWORD_MISMATCH"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeStorageFailure        = "STORAGE_FAILURE"
)

// httpError combines an HTTP status code, an error code and a message key
type httpError struct {
	status int
	code   string
	key    i18n.Key
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.code
}

// validationKeys maps ValidationError fields to their messages
var validationKeys = map[string]i18n.Key{
	"name":     i18n.KeyValidationName,
	"pin":      i18n.KeyValidationPIN,
	"role":     i18n.KeyValidationRole,
	"title":    i18n.KeyValidationTitle,
	"category": i18n.KeyValidationCategory,
	"dueDate":  i18n.KeyValidationDueDate,
}

// WriteError writes err as a localized JSON error response. The language
// comes from the request's i18n.Localizer.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	he := toHTTPError(err)
	localizer := i18n.FromContext(r.Context())

	response.JSON(w, he.status, ErrorResponse{
		Error: localizer.Message(he.key),
		Code:  he.code,
	})
}

// Message returns the localized user-facing message for err
func Message(l i18n.Localizer, err error) string {
	return l.Message(toHTTPError(err).key)
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// IsInternal reports whether err is a storage or unexpected failure, the
// only class logged with detail
func IsInternal(err error) bool {
	return toHTTPError(err).code == CodeStorageFailure
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		key, ok := validationKeys[ve.Field]
		if !ok {
			key = i18n.KeyValidation
		}
		return &httpError{http.StatusBadRequest, CodeValidation, key}
	}

	switch {
	// Pairing errors
	case errors.Is(err, model.ErrInvalidInviteCode):
		return &httpError{http.StatusBadRequest, CodeInvalidInviteCode, i18n.KeyInvalidInviteCode}
	case errors.Is(err, model.ErrCoupleAlreadyComplete):
		return &httpError{http.StatusBadRequest, CodeCoupleAlreadyComplete, i18n.KeyCoupleComplete}
	case errors.Is(err, model.ErrInviteCodeExhausted):
		return &httpError{http.StatusBadRequest, CodeInviteUnavailable, i18n.KeyInviteExhausted}
	case errors.Is(err, model.ErrDuplicateNameInCouple):
		return &httpError{http.StatusBadRequest, CodeDuplicateName, i18n.KeyDuplicateName}
	case errors.Is(err, model.ErrCredentialMismatch):
		return &httpError{http.StatusUnauthorized, CodeCredentialMismatch, i18n.KeyCredentialMismatch}

	// Session errors
	case errors.Is(err, model.ErrAdminPasswordMismatch):
		return &httpError{http.StatusUnauthorized, CodeAdminPassword, i18n.KeyAdminPassword}
	case errors.Is(err, model.ErrUnauthorized):
		return &httpError{http.StatusUnauthorized, CodeUnauthorized, i18n.KeyUnauthorized}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, CodeForbidden, i18n.KeyForbidden}

	// Lookups
	case errors.Is(err, model.ErrChecklistItemNotFound),
		errors.Is(err, model.ErrCoupleNotFound),
		errors.Is(err, model.ErrMemberNotFound):
		return &httpError{http.StatusNotFound, CodeNotFound, i18n.KeyNotFound}

	default:
		return &httpError{http.StatusInternalServerError, CodeStorageFailure, i18n.KeyInternal}
	}
}

// NewInvalidRequestError creates an error for an unreadable request body
func NewInvalidRequestError() error {
	return &httpError{http.StatusBadRequest, CodeInvalidRequest, i18n.KeyBadRequest}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, CodeStorageFailure, i18n.KeyInternal}
}
