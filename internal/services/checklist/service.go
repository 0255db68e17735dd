// Package checklist manages a couple's wedding-preparation checklist.
// Every operation is scoped to the caller's couple: items owned by another
// couple are indistinguishable from missing ones.
package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/weddingplanner/internal/dependencies/clock"
	"github.com/mcoot/weddingplanner/internal/dependencies/random"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/services/textcheck"
	"github.com/mcoot/weddingplanner/internal/storage"
)

const (
	// MaxTitleLength is the longest accepted item title, in runes
	MaxTitleLength = 100
	// MaxCategoryLength is the longest accepted category, in runes
	MaxCategoryLength = 30
)

// CreateInput holds the fields for a new item
type CreateInput struct {
	Title    string
	Category string
	DueDate  *time.Time
}

// UpdateInput is a partial update; nil fields are left unchanged
type UpdateInput struct {
	Title        *string
	Category     *string
	DueDate      *time.Time
	ClearDueDate bool
	Done         *bool
}

// Service provides couple-scoped checklist operations
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new checklist Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "checklist")),
	}
}

// List returns the couple's items in creation order
func (s *Service) List(ctx context.Context, coupleID model.CoupleID) ([]model.ChecklistItem, error) {
	items, err := s.storage.ListChecklistItems(ctx, coupleID)
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	return items, nil
}

// Create adds an item to the couple's checklist
func (s *Service) Create(ctx context.Context, coupleID model.CoupleID, in CreateInput) (*model.ChecklistItem, error) {
	title, err := textcheck.Field("title", in.Title, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	category, err := optionalField("category", in.Category, MaxCategoryLength)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	item := &model.ChecklistItem{
		ID:        model.ChecklistItemID(s.random.ID()),
		CoupleID:  coupleID,
		Title:     title,
		Category:  category,
		DueDate:   in.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.CreateChecklistItem(ctx, item); err != nil {
		if errors.Is(err, model.ErrCoupleNotFound) {
			return nil, model.ErrUnauthorized
		}
		return nil, fmt.Errorf("create checklist item: %w", err)
	}

	s.logger.Debug("checklist item created",
		slog.String("couple_id", string(coupleID)),
		slog.String("item_id", string(item.ID)),
	)
	return item, nil
}

// Update applies a partial update to one of the couple's items
func (s *Service) Update(ctx context.Context, coupleID model.CoupleID, id model.ChecklistItemID, in UpdateInput) (*model.ChecklistItem, error) {
	item, err := s.storage.GetChecklistItem(ctx, coupleID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title, err := textcheck.Field("title", *in.Title, MaxTitleLength)
		if err != nil {
			return nil, err
		}
		item.Title = title
	}
	if in.Category != nil {
		category, err := optionalField("category", *in.Category, MaxCategoryLength)
		if err != nil {
			return nil, err
		}
		item.Category = category
	}
	switch {
	case in.ClearDueDate:
		item.DueDate = nil
	case in.DueDate != nil:
		item.DueDate = in.DueDate
	}
	if in.Done != nil {
		item.Done = *in.Done
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.storage.UpdateChecklistItem(ctx, item); err != nil {
		if errors.Is(err, model.ErrChecklistItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update checklist item: %w", err)
	}
	return item, nil
}

// Delete removes one of the couple's items
func (s *Service) Delete(ctx context.Context, coupleID model.CoupleID, id model.ChecklistItemID) error {
	if err := s.storage.DeleteChecklistItem(ctx, coupleID, id); err != nil {
		if errors.Is(err, model.ErrChecklistItemNotFound) {
			return err
		}
		return fmt.Errorf("delete checklist item: %w", err)
	}
	return nil
}

// optionalField is Field for values that may be left blank
func optionalField(field, raw string, maxRunes int) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return textcheck.Field(field, raw, maxRunes)
}
