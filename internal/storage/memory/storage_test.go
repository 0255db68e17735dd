package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/weddingplanner/internal/dependencies/mocks"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage"
	"github.com/mcoot/weddingplanner/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.StorageSuite{
		NewStorage: func() storage.Storage { return New() },
	})
}

func TestSessionStoreSuite(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	suite.Run(t, &storagetest.SessionStoreSuite{
		NewStore: func() storage.SessionStore { return NewWithClock(clk) },
		Expire:   clk.Advance,
	})
}

type JanitorSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	storage *Storage
}

func TestJanitorSuite(t *testing.T) {
	suite.Run(t, new(JanitorSuite))
}

func (s *JanitorSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	s.storage = NewWithClock(s.clock)
}

func (s *JanitorSuite) TestCleanExpiredSessions() {
	ctx := s.T().Context()
	s.Require().NoError(s.storage.SaveSession(ctx, "short", &model.SessionData{MemberID: "m1"}, time.Minute))
	s.Require().NoError(s.storage.SaveSession(ctx, "long", &model.SessionData{MemberID: "m2"}, time.Hour))

	s.Equal(0, s.storage.CleanExpiredSessions())
	s.Equal(2, s.storage.SessionCount())

	s.clock.Advance(2 * time.Minute)
	s.Equal(1, s.storage.CleanExpiredSessions())
	s.Equal(1, s.storage.SessionCount())

	_, err := s.storage.GetSession(ctx, "long")
	s.NoError(err)
	_, err = s.storage.GetSession(ctx, "short")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *JanitorSuite) TestExpiredReadKeepsConcurrentResave() {
	ctx := s.T().Context()

	for i := 0; i < 200; i++ {
		s.Require().NoError(s.storage.SaveSession(ctx, "sid", &model.SessionData{MemberID: "old"}, time.Minute))
		s.clock.Advance(time.Minute)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.storage.GetSession(ctx, "sid")
		}()
		go func() {
			defer wg.Done()
			_ = s.storage.SaveSession(ctx, "sid", &model.SessionData{MemberID: "new"}, time.Hour)
		}()
		wg.Wait()

		data, err := s.storage.GetSession(ctx, "sid")
		s.Require().NoError(err, "iteration %d", i)
		s.Require().Equal(model.MemberID("new"), data.MemberID)
	}
}
