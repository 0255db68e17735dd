package request

import (
	"strings"
	"time"

	"github.com/mcoot/weddingplanner/internal/model"
)

// RegisterRequest is the request body for registering a new couple
type RegisterRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
	Role string `json:"role"`
}

// JoinRequest is the request body for joining a couple
type JoinRequest struct {
	Name       string `json:"name"`
	PIN        string `json:"pin"`
	InviteCode string `json:"inviteCode"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// AdminLoginRequest is the request body for the admin login
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// CreateChecklistItemRequest is the request body for adding a checklist item.
// DueDate is YYYY-MM-DD.
type CreateChecklistItemRequest struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	DueDate  *string `json:"dueDate"`
}

// UpdateChecklistItemRequest is a partial update; omitted fields are left
// unchanged and an empty dueDate clears it
type UpdateChecklistItemRequest struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	DueDate  *string `json:"dueDate"`
	Done     *bool   `json:"done"`
}

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ParseDueDate parses a YYYY-MM-DD date as midnight UTC. An empty string
// yields nil.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return nil, model.NewValidationError("dueDate", "must be YYYY-MM-DD")
	}
	return &d, nil
}
