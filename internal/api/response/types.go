package response

import (
	"time"

	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/services/pairing"
)

// dateLayout matches request.DateLayout
const dateLayout = "2006-01-02"

// Member represents a member in API responses. The PIN hash never leaves
// the server.
type Member struct {
	ID        string    `json:"id"`
	CoupleID  string    `json:"coupleId"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemberFromModel converts a model.Member to a response Member
func MemberFromModel(m *model.Member) Member {
	return Member{
		ID:        string(m.ID),
		CoupleID:  string(m.CoupleID),
		Name:      m.Name,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

// Couple represents a couple in API responses
type Couple struct {
	ID         string    `json:"id"`
	InviteCode string    `json:"inviteCode"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CoupleFromModel converts a model.Couple
func CoupleFromModel(c *model.Couple) Couple {
	return Couple{
		ID:         string(c.ID),
		InviteCode: string(c.InviteCode),
		CreatedAt:  c.CreatedAt,
	}
}

// AuthResponse is the response for register, join and login
type AuthResponse struct {
	Member Member `json:"member"`
	Couple Couple `json:"couple"`
}

// AuthResponseFromPairing creates an AuthResponse from a pairing result
func AuthResponseFromPairing(p *pairing.Pairing) AuthResponse {
	return AuthResponse{
		Member: MemberFromModel(&p.Member),
		Couple: CoupleFromModel(&p.Couple),
	}
}

// MeResponse describes the current session; every field is null when the
// request is anonymous
type MeResponse struct {
	Member  *Member `json:"member"`
	Couple  *Couple `json:"couple"`
	Partner *Member `json:"partner"`
	IsAdmin bool    `json:"isAdmin"`
}

// MeResponseFromIdentity converts a resolved identity, which may be nil
func MeResponseFromIdentity(id *model.Identity, isAdmin bool) MeResponse {
	resp := MeResponse{IsAdmin: isAdmin}
	if id == nil {
		return resp
	}
	if id.Member != nil {
		m := MemberFromModel(id.Member)
		resp.Member = &m
	}
	if id.Couple != nil {
		c := CoupleFromModel(id.Couple)
		resp.Couple = &c
	}
	if id.Partner != nil {
		p := MemberFromModel(id.Partner)
		resp.Partner = &p
	}
	return resp
}

// InvitePreview is the response of the invite lookup. Failures are data:
// Valid is false and Error carries the localized reason.
type InvitePreview struct {
	Valid        bool   `json:"valid"`
	AssignedRole string `json:"assignedRole,omitempty"`
	PartnerName  string `json:"partnerName,omitempty"`
	Error        string `json:"error,omitempty"`
}

// InviteResponse carries the couple after its invite code was rotated
type InviteResponse struct {
	Couple Couple `json:"couple"`
}

// Success is the body of operations with nothing else to report
type Success struct {
	Success bool `json:"success"`
}

// CoupleWithMembers is one entry of the admin couple listing
type CoupleWithMembers struct {
	Couple  Couple   `json:"couple"`
	Members []Member `json:"members"`
	State   string   `json:"state"`
}

// CouplesFromModel converts the admin listing
func CouplesFromModel(cs []model.CoupleWithMembers) []CoupleWithMembers {
	out := make([]CoupleWithMembers, len(cs))
	for i := range cs {
		members := make([]Member, len(cs[i].Members))
		for j := range cs[i].Members {
			members[j] = MemberFromModel(&cs[i].Members[j])
		}
		out[i] = CoupleWithMembers{
			Couple:  CoupleFromModel(&cs[i].Couple),
			Members: members,
			State:   string(cs[i].State()),
		}
	}
	return out
}

// ChecklistItem represents a checklist item in API responses
type ChecklistItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	DueDate   *string   `json:"dueDate"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChecklistItemFromModel converts a model.ChecklistItem
func ChecklistItemFromModel(item *model.ChecklistItem) ChecklistItem {
	var due *string
	if item.DueDate != nil {
		d := item.DueDate.Format(dateLayout)
		due = &d
	}
	return ChecklistItem{
		ID:        string(item.ID),
		Title:     item.Title,
		Category:  item.Category,
		DueDate:   due,
		Done:      item.Done,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// ChecklistItemsFromModel converts a list, never returning nil
func ChecklistItemsFromModel(items []model.ChecklistItem) []ChecklistItem {
	out := make([]ChecklistItem, len(items))
	for i := range items {
		out[i] = ChecklistItemFromModel(&items[i])
	}
	return out
}

// Health is the health check body
type Health struct {
	Status string `json:"status"`
}
