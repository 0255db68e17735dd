package storage

import (
	"context"
	"time"

	"github.com/mcoot/weddingplanner/internal/model"
)

// Storage defines the interface for durable domain persistence.
//
// Implementations enforce the pairing invariants themselves: invite codes
// are unique, a couple never holds more than model.MaxMembersPerCouple
// members, and names and roles are unique within a couple. Application
// level checks are advisory only.
type Storage interface {
	// Couple operations

	// CreateCouple stores a new couple together with its founding member.
	// Returns model.ErrInviteCodeTaken if the code is already in use.
	CreateCouple(ctx context.Context, couple *model.Couple, founder *model.Member) error
	GetCouple(ctx context.Context, id model.CoupleID) (*model.Couple, error)
	GetCoupleByInviteCode(ctx context.Context, code model.InviteCode) (*model.Couple, error)
	// UpdateInviteCode rotates a couple's code; model.ErrInviteCodeTaken on collision
	UpdateInviteCode(ctx context.Context, id model.CoupleID, code model.InviteCode) error
	// ListCouples returns every couple with its members, oldest first
	ListCouples(ctx context.Context) ([]model.CoupleWithMembers, error)
	// DeleteCouple removes a couple and cascades to its members and resources.
	// Deleting an unknown couple is not an error.
	DeleteCouple(ctx context.Context, id model.CoupleID) error

	// Member operations

	// AddMember binds a new member to an existing couple in a single atomic
	// step. Returns model.ErrCoupleFull when the couple already has the
	// maximum number of members or the role is taken, model.ErrDuplicateName
	// when the name is taken, and model.ErrCoupleNotFound for unknown couples.
	AddMember(ctx context.Context, member *model.Member) error
	GetMember(ctx context.Context, id model.MemberID) (*model.Member, error)
	// ListMembers returns a couple's members in insertion order
	ListMembers(ctx context.Context, coupleID model.CoupleID) ([]model.Member, error)
	// FindMemberByCredentials returns the earliest-created member (ties broken
	// by insertion order) whose name and PIN digest both match exactly
	FindMemberByCredentials(ctx context.Context, name, pinHash string) (*model.Member, error)
	// DeleteMember removes a single member. Unknown IDs are not an error.
	DeleteMember(ctx context.Context, id model.MemberID) error

	// Checklist operations (always scoped to the owning couple)

	ListChecklistItems(ctx context.Context, coupleID model.CoupleID) ([]model.ChecklistItem, error)
	CreateChecklistItem(ctx context.Context, item *model.ChecklistItem) error
	GetChecklistItem(ctx context.Context, coupleID model.CoupleID, id model.ChecklistItemID) (*model.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, item *model.ChecklistItem) error
	DeleteChecklistItem(ctx context.Context, coupleID model.CoupleID, id model.ChecklistItemID) error
}

// SessionStore persists server-side session data keyed by session ID.
// Expiry is owned by the store: a record saved with ttl is gone after ttl.
type SessionStore interface {
	SaveSession(ctx context.Context, id string, data *model.SessionData, ttl time.Duration) error
	// GetSession returns model.ErrSessionNotFound for unknown or expired IDs
	GetSession(ctx context.Context, id string) (*model.SessionData, error)
	DeleteSession(ctx context.Context, id string) error
}
