package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage"
	"github.com/mcoot/weddingplanner/internal/storage/storagetest"
)

func TestSessionStoreContract(t *testing.T) {
	mini := miniredis.RunT(t)
	suite.Run(t, &storagetest.SessionStoreSuite{
		NewStore: func() storage.SessionStore {
			mini.FlushAll()
			return NewWithClient(redis.NewClient(&redis.Options{Addr: mini.Addr()}))
		},
		Expire: mini.FastForward,
	})
}

type SessionStoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *SessionStore
	ctx   context.Context
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.store = NewWithClient(client)
	s.ctx = context.Background()
}

func (s *SessionStoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *SessionStoreSuite) TestKeyLayoutAndTTL() {
	err := s.store.SaveSession(s.ctx, "abc", &model.SessionData{MemberID: "m1"}, 30*time.Minute)
	s.Require().NoError(err)

	s.True(s.mini.Exists("wedplan:session:abc"))
	s.Equal(30*time.Minute, s.mini.TTL("wedplan:session:abc"))
}

func (s *SessionStoreSuite) TestCorruptRecord() {
	s.Require().NoError(s.mini.Set(sessionKey("bad"), "not-json"))

	_, err := s.store.GetSession(s.ctx, "bad")
	s.Require().Error(err)
	s.NotErrorIs(err, model.ErrSessionNotFound)
}

func (s *SessionStoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))

	s.mini.Close()
	s.Error(s.store.Ping(s.ctx))
	s.mini = nil
}

func (s *SessionStoreSuite) TestNewRejectsBadURL() {
	_, err := New(Config{URL: "://nope"})
	s.Error(err)
}

func (s *SessionStoreSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	store, err := New(cfg)
	s.Require().NoError(err)
	s.NoError(store.Close())
}
