package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/weddingplanner/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		var errData any = map[string]string{"error": err.Error()}
		if apiErr, ok := err.(*APIError); ok {
			errData = apiErr
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.AuthResponse:
		o.printAuth(v)
	case response.MeResponse:
		o.printMe(v)
	case response.InvitePreview:
		o.printInvitePreview(v)
	case response.InviteResponse:
		o.printf("Invite Code: %s\n", v.Couple.InviteCode)
	case []response.CoupleWithMembers:
		o.printCouples(v)
	case []response.ChecklistItem:
		o.printChecklist(v)
	case response.ChecklistItem:
		o.printf("%s\n", formatItem(v))
	case response.Health:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printMember(m response.Member) {
	o.printf("Member: %s (%s)\n", m.Name, m.ID)
	o.printf("Role: %s\n", m.Role)
}

func (o *Output) printCouple(c response.Couple) {
	o.printf("Couple: %s\n", c.ID)
	o.printf("Invite Code: %s\n", c.InviteCode)
}

func (o *Output) printAuth(a response.AuthResponse) {
	o.printMember(a.Member)
	o.printCouple(a.Couple)
}

func (o *Output) printMe(m response.MeResponse) {
	if m.Member == nil {
		o.printf("Not logged in\n")
	} else {
		o.printMember(*m.Member)
		if m.Couple != nil {
			o.printCouple(*m.Couple)
		}
		if m.Partner != nil {
			o.printf("Partner: %s (%s)\n", m.Partner.Name, m.Partner.Role)
		} else {
			o.printf("Partner: waiting for partner\n")
		}
	}
	if m.IsAdmin {
		o.printf("Admin: yes\n")
	}
}

func (o *Output) printInvitePreview(p response.InvitePreview) {
	if !p.Valid {
		o.printf("Invite: invalid\n")
		o.printf("Reason: %s\n", p.Error)
		return
	}
	o.printf("Invite: valid\n")
	o.printf("Role: %s\n", p.AssignedRole)
	o.printf("Partner: %s\n", p.PartnerName)
}

func (o *Output) printCouples(cs []response.CoupleWithMembers) {
	o.printf("Couples (%d):\n", len(cs))
	for _, c := range cs {
		o.printf("  - %s [%s] invite %s\n", c.Couple.ID, c.State, c.Couple.InviteCode)
		for _, m := range c.Members {
			o.printf("      %s (%s) - %s\n", m.Name, m.ID, m.Role)
		}
	}
}

func (o *Output) printChecklist(items []response.ChecklistItem) {
	if len(items) == 0 {
		o.printf("Checklist is empty\n")
		return
	}
	o.printf("Checklist (%d):\n", len(items))
	for _, item := range items {
		o.printf("  %s\n", formatItem(item))
	}
}

// formatItem renders one checklist line: "[x] Title (id) category, due date"
func formatItem(item response.ChecklistItem) string {
	var b strings.Builder
	if item.Done {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	fmt.Fprintf(&b, "%s (%s)", item.Title, item.ID)

	var extra []string
	if item.Category != "" {
		extra = append(extra, item.Category)
	}
	if item.DueDate != nil {
		extra = append(extra, "due "+*item.DueDate)
	}
	if len(extra) > 0 {
		b.WriteString(" " + strings.Join(extra, ", "))
	}
	return b.String()
}
