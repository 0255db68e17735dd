// Package admin implements the shared-password admin capability and the
// couple management operations it unlocks.
package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage"
)

// Service checks the admin password and manages couples
type Service struct {
	storage  storage.Storage
	password string
	logger   *slog.Logger
}

// New creates a new admin Service. An empty password disables admin login.
func New(storage storage.Storage, password string, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		password: password,
		logger:   logger.With(slog.String("component", "admin")),
	}
}

// Enabled reports whether an admin password is configured
func (s *Service) Enabled() bool {
	return s.password != ""
}

// Authenticate compares candidate against the configured password.
// Returns model.ErrAdminPasswordMismatch on mismatch or when admin is
// disabled.
func (s *Service) Authenticate(candidate string) error {
	if !s.Enabled() {
		return model.ErrAdminPasswordMismatch
	}
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(s.password)) != 1 {
		s.logger.Warn("admin login rejected")
		return model.ErrAdminPasswordMismatch
	}
	s.logger.Info("admin login")
	return nil
}

// ListCouples returns every couple with its members, oldest first
func (s *Service) ListCouples(ctx context.Context) ([]model.CoupleWithMembers, error) {
	couples, err := s.storage.ListCouples(ctx)
	if err != nil {
		return nil, fmt.Errorf("list couples: %w", err)
	}
	return couples, nil
}

// DeleteCouple removes a couple and everything it owns. Unknown IDs succeed.
func (s *Service) DeleteCouple(ctx context.Context, id model.CoupleID) error {
	if err := s.storage.DeleteCouple(ctx, id); err != nil {
		return fmt.Errorf("delete couple: %w", err)
	}
	s.logger.Info("couple deleted", slog.String("couple_id", string(id)))
	return nil
}

// DeleteMember removes one member, reopening their couple's slot.
// Unknown IDs succeed.
func (s *Service) DeleteMember(ctx context.Context, id model.MemberID) error {
	if err := s.storage.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	s.logger.Info("member deleted", slog.String("member_id", string(id)))
	return nil
}
