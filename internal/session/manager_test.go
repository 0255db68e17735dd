package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/weddingplanner/internal/dependencies/mocks"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage/memory"
	"github.com/mcoot/weddingplanner/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	backend *memory.Storage
	manager *Manager
	cookie  *http.Cookie
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	s.backend = memory.NewWithClock(s.clock)
	s.manager = NewManager(s.backend, Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		TTL:    time.Hour,
	}, s.clock, testutil.NopLogger())
	s.cookie = nil
}

// do runs fn against a request carrying the current cookie and keeps
// whatever cookie the response sets
func (s *ManagerSuite) do(fn func(w http.ResponseWriter, r *http.Request)) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if s.cookie != nil {
		r.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	fn(w, r)

	for _, c := range w.Result().Cookies() {
		if c.Name != CookieName {
			continue
		}
		if c.MaxAge < 0 {
			s.cookie = nil
		} else {
			s.cookie = c
		}
	}
	return w
}

func (s *ManagerSuite) load() *model.SessionData {
	var data *model.SessionData
	s.do(func(w http.ResponseWriter, r *http.Request) {
		var err error
		data, err = s.manager.Load(r)
		s.Require().NoError(err)
	})
	return data
}

func (s *ManagerSuite) issue(memberID model.MemberID, coupleID model.CoupleID) {
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.Issue(w, r, memberID, coupleID))
	})
}

func (s *ManagerSuite) TestLoadWithoutCookie() {
	s.Nil(s.load())
}

func (s *ManagerSuite) TestIssueThenLoad() {
	s.issue("m1", "c1")
	s.Require().NotNil(s.cookie)

	s.True(s.cookie.HttpOnly)
	s.Equal(http.SameSiteLaxMode, s.cookie.SameSite)
	s.False(s.cookie.Secure)
	s.Equal("/", s.cookie.Path)
	s.Equal(3600, s.cookie.MaxAge)

	data := s.load()
	s.Require().NotNil(data)
	s.Equal(model.MemberID("m1"), data.MemberID)
	s.Equal(model.CoupleID("c1"), data.CoupleID)
	s.False(data.IsAdmin)
}

func (s *ManagerSuite) TestSecureCookieInProduction() {
	s.manager = NewManager(s.backend, Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Secure: true,
	}, s.clock, testutil.NopLogger())

	s.issue("m1", "c1")
	s.Require().NotNil(s.cookie)
	s.True(s.cookie.Secure)
	s.Equal(int((30 * 24 * time.Hour).Seconds()), s.cookie.MaxAge)
}

func (s *ManagerSuite) TestTamperedCookieIsIgnored() {
	s.issue("m1", "c1")
	s.cookie.Value = s.cookie.Value[:len(s.cookie.Value)-4] + "AAAA"

	s.Nil(s.load())
}

func (s *ManagerSuite) TestCookieFromOtherSecretIsIgnored() {
	s.issue("m1", "c1")

	s.manager = NewManager(s.backend, Config{
		Secret: []byte("ffffffffffffffffffffffffffffffff"),
		TTL:    time.Hour,
	}, s.clock, testutil.NopLogger())
	s.Nil(s.load())
}

func (s *ManagerSuite) TestIssueRotatesSessionID() {
	s.issue("m1", "c1")
	first := s.cookie.Value

	s.issue("m2", "c2")
	s.NotEqual(first, s.cookie.Value)

	// The old cookie no longer resolves
	s.cookie.Value = first
	s.Nil(s.load())
}

func (s *ManagerSuite) TestIssuePreservesAdmin() {
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.GrantAdmin(w, r))
	})
	s.issue("m1", "c1")

	data := s.load()
	s.Require().NotNil(data)
	s.True(data.IsAdmin)
	s.Equal(model.MemberID("m1"), data.MemberID)
}

func (s *ManagerSuite) TestGrantAdminKeepsMember() {
	s.issue("m1", "c1")
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.GrantAdmin(w, r))
	})

	data := s.load()
	s.Require().NotNil(data)
	s.True(data.IsAdmin)
	s.Equal(model.MemberID("m1"), data.MemberID)
}

func (s *ManagerSuite) TestRevokeAdmin() {
	s.issue("m1", "c1")
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.GrantAdmin(w, r))
	})
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.RevokeAdmin(w, r))
	})

	data := s.load()
	s.Require().NotNil(data)
	s.False(data.IsAdmin)
	s.Equal(model.MemberID("m1"), data.MemberID)
}

func (s *ManagerSuite) TestRevokeAdminOnlySessionDestroysIt() {
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.GrantAdmin(w, r))
	})
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.RevokeAdmin(w, r))
	})

	s.Nil(s.cookie)
	s.Nil(s.load())
}

func (s *ManagerSuite) TestDestroy() {
	s.issue("m1", "c1")
	stale := *s.cookie

	w := s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.Destroy(w, r))
		data, err := s.manager.Load(r)
		s.Require().NoError(err)
		s.Nil(data)
	})
	s.Require().Len(w.Result().Cookies(), 1)
	s.Nil(s.cookie)

	// Replaying the old cookie finds nothing server-side
	s.cookie = &stale
	s.Nil(s.load())
}

func (s *ManagerSuite) TestSessionExpiresWithoutActivity() {
	s.issue("m1", "c1")

	s.clock.Advance(61 * time.Minute)
	s.Nil(s.load())
}

func (s *ManagerSuite) TestTouchSlidesExpiry() {
	s.issue("m1", "c1")

	for i := 0; i < 3; i++ {
		s.clock.Advance(45 * time.Minute)
		s.do(func(w http.ResponseWriter, r *http.Request) {
			s.Require().NoError(s.manager.Touch(w, r))
		})
	}

	s.NotNil(s.load())
}

func (s *ManagerSuite) TestTouchWithoutSessionIsNoop() {
	w := s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.Touch(w, r))
	})
	s.Empty(w.Result().Cookies())
}

func (s *ManagerSuite) TestTouchEnforcesMaxLifetime() {
	s.manager = NewManager(s.backend, Config{
		Secret:      []byte("0123456789abcdef0123456789abcdef"),
		TTL:         time.Hour,
		MaxLifetime: 2 * time.Hour,
	}, s.clock, testutil.NopLogger())
	s.issue("m1", "c1")

	s.clock.Advance(50 * time.Minute)
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.Touch(w, r))
	})
	s.clock.Advance(50 * time.Minute)
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(s.manager.Touch(w, r))
	})
	s.clock.Advance(50 * time.Minute)
	s.do(func(w http.ResponseWriter, r *http.Request) {
		s.ErrorIs(s.manager.Touch(w, r), ErrLifetimeExceeded)
	})

	s.Nil(s.cookie)
	s.Nil(s.load())
}
