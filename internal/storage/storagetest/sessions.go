package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage"
)

// SessionStoreSuite exercises a storage.SessionStore implementation.
// Expire must move the backend's notion of time forward by d.
type SessionStoreSuite struct {
	suite.Suite
	NewStore func() storage.SessionStore
	Expire   func(d time.Duration)

	store storage.SessionStore
	ctx   context.Context
}

func (s *SessionStoreSuite) SetupTest() {
	s.Require().NotNil(s.NewStore, "NewStore must be set")
	s.store = s.NewStore()
	s.ctx = context.Background()
}

func (s *SessionStoreSuite) TestSaveAndGet() {
	issued := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	data := &model.SessionData{MemberID: "m1", CoupleID: "c1", IssuedAt: issued}

	s.Require().NoError(s.store.SaveSession(s.ctx, "sess-1", data, time.Hour))

	got, err := s.store.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(model.MemberID("m1"), got.MemberID)
	s.Equal(model.CoupleID("c1"), got.CoupleID)
	s.False(got.IsAdmin)
	s.True(issued.Equal(got.IssuedAt))
}

func (s *SessionStoreSuite) TestAdminOnlySession() {
	data := &model.SessionData{IsAdmin: true}
	s.Require().NoError(s.store.SaveSession(s.ctx, "sess-1", data, time.Hour))

	got, err := s.store.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.True(got.IsAdmin)
	s.False(got.HasMember())
}

func (s *SessionStoreSuite) TestGetUnknown() {
	_, err := s.store.GetSession(s.ctx, "missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *SessionStoreSuite) TestSaveOverwrites() {
	s.Require().NoError(s.store.SaveSession(s.ctx, "sess-1", &model.SessionData{MemberID: "m1"}, time.Hour))
	s.Require().NoError(s.store.SaveSession(s.ctx, "sess-1", &model.SessionData{MemberID: "m2"}, time.Hour))

	got, err := s.store.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(model.MemberID("m2"), got.MemberID)
}

func (s *SessionStoreSuite) TestDelete() {
	s.Require().NoError(s.store.SaveSession(s.ctx, "sess-1", &model.SessionData{MemberID: "m1"}, time.Hour))
	s.Require().NoError(s.store.DeleteSession(s.ctx, "sess-1"))

	_, err := s.store.GetSession(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrSessionNotFound)

	s.NoError(s.store.DeleteSession(s.ctx, "missing"))
}

func (s *SessionStoreSuite) TestExpiry() {
	if s.Expire == nil {
		s.T().Skip("backend cannot move time")
	}
	s.Require().NoError(s.store.SaveSession(s.ctx, "sess-1", &model.SessionData{MemberID: "m1"}, time.Hour))

	s.Expire(59 * time.Minute)
	_, err := s.store.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)

	s.Expire(2 * time.Minute)
	_, err = s.store.GetSession(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *SessionStoreSuite) TestResaveExtendsExpiry() {
	if s.Expire == nil {
		s.T().Skip("backend cannot move time")
	}
	data := &model.SessionData{MemberID: "m1"}
	s.Require().NoError(s.store.SaveSession(s.ctx, "sess-1", data, time.Hour))

	s.Expire(50 * time.Minute)
	s.Require().NoError(s.store.SaveSession(s.ctx, "sess-1", data, time.Hour))

	s.Expire(50 * time.Minute)
	_, err := s.store.GetSession(s.ctx, "sess-1")
	s.NoError(err)
}
