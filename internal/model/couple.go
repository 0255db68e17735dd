package model

import "time"

// CoupleID uniquely identifies a couple
type CoupleID string

// InviteCode is the short public token a partner uses to join a couple
type InviteCode string

// MaxMembersPerCouple caps how many members a couple can hold
const MaxMembersPerCouple = 2

// Couple is the pairing aggregate that owns every planning resource
type Couple struct {
	ID         CoupleID
	InviteCode InviteCode
	CreatedAt  time.Time
}

// CoupleWithMembers is a couple together with its current members,
// ordered by join time
type CoupleWithMembers struct {
	Couple  Couple
	Members []Member
}

// PairingState describes how far a couple has progressed through pairing
type PairingState string

const (
	PairingStateEmpty      PairingState = "empty"       // No members
	PairingStateHalfPaired PairingState = "half_paired" // Founder only
	PairingStatePaired     PairingState = "paired"      // Both members present
)

// PairingStateFor returns the pairing state for a couple with the given member count
func PairingStateFor(memberCount int) PairingState {
	switch {
	case memberCount <= 0:
		return PairingStateEmpty
	case memberCount < MaxMembersPerCouple:
		return PairingStateHalfPaired
	default:
		return PairingStatePaired
	}
}

// State returns the pairing state of the couple
func (c *CoupleWithMembers) State() PairingState {
	return PairingStateFor(len(c.Members))
}

// Partner returns the member of the couple other than memberID, or nil
func (c *CoupleWithMembers) Partner(memberID MemberID) *Member {
	for i := range c.Members {
		if c.Members[i].ID != memberID {
			return &c.Members[i]
		}
	}
	return nil
}

// MemberNamed returns the member with exactly the given name, or nil
func (c *CoupleWithMembers) MemberNamed(name string) *Member {
	for i := range c.Members {
		if c.Members[i].Name == name {
			return &c.Members[i]
		}
	}
	return nil
}
