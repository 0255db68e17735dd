package model

import "time"

// MemberID uniquely identifies a member across the system
type MemberID string

// Role is one of the two complementary sides of a couple
type Role string

const (
	RoleBride Role = "bride"
	RoleGroom Role = "groom"
)

// ParseRole converts a raw string into a Role
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBride, RoleGroom:
		return Role(s), true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the two known roles
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Complement returns the opposite side of the pairing
func (r Role) Complement() Role {
	if r == RoleBride {
		return RoleGroom
	}
	return RoleBride
}

// Member is one authenticated person bound to a couple
type Member struct {
	ID       MemberID
	CoupleID CoupleID
	Name     string
	PINHash  string // hex digest, never the PIN itself
	Role     Role
	// CreatedAt orders members inside a couple and breaks login ties
	CreatedAt time.Time
}
