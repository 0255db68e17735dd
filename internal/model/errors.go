package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Pairing errors
	ErrInvalidInviteCode     = errors.New("invalid invite code")
	ErrCoupleAlreadyComplete = errors.New("couple already has two members")
	ErrDuplicateNameInCouple = errors.New("name already used in this couple")
	ErrCredentialMismatch    = errors.New("name or pin does not match")
	ErrInviteCodeExhausted   = errors.New("could not allocate a unique invite code")

	// Session errors
	ErrUnauthorized          = errors.New("authentication required")
	ErrForbidden             = errors.New("admin access required")
	ErrAdminPasswordMismatch = errors.New("admin password does not match")

	// Storage errors
	ErrCoupleNotFound        = errors.New("couple not found")
	ErrMemberNotFound        = errors.New("member not found")
	ErrInviteCodeTaken       = errors.New("invite code already in use")
	ErrCoupleFull            = errors.New("couple is full")
	ErrDuplicateName         = errors.New("duplicate member name in couple")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
	ErrSessionNotFound       = errors.New("session not found")
)

// ValidationError reports malformed input for a single field
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
