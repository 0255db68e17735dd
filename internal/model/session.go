package model

import "time"

// SessionData is the server-held state behind a session cookie.
// Member and couple IDs are only pointers: handlers always re-read the
// current records from storage.
type SessionData struct {
	MemberID MemberID  `json:"member_id,omitempty"`
	CoupleID CoupleID  `json:"couple_id,omitempty"`
	IsAdmin  bool      `json:"is_admin,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
}

// HasMember reports whether the session is bound to a member
func (d *SessionData) HasMember() bool {
	return d != nil && d.MemberID != ""
}

// Identity is a session resolved against current storage state
type Identity struct {
	Member  *Member
	Couple  *Couple
	Partner *Member // nil until the couple is paired
}
