package model

import "time"

// ChecklistItemID uniquely identifies a checklist item
type ChecklistItemID string

// ChecklistItem is a single wedding-preparation task owned by a couple
type ChecklistItem struct {
	ID        ChecklistItemID
	CoupleID  CoupleID
	Title     string
	Category  string
	DueDate   *time.Time
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
