package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/mcoot/weddingplanner/internal/dependencies/clock"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage"
)

// CookieName is the name of the session cookie
const CookieName = "wedplan_session"

// ErrLifetimeExceeded is returned by Touch when a session has outlived the
// configured absolute lifetime; the session is destroyed
var ErrLifetimeExceeded = errors.New("session lifetime exceeded")

// Config holds session settings
type Config struct {
	// Secret signs the session ID cookie
	Secret []byte
	// TTL is the sliding expiry window
	TTL time.Duration
	// MaxLifetime caps a session's total age; zero means unbounded
	MaxLifetime time.Duration
	// Secure marks the cookie Secure (production)
	Secure bool
}

// DefaultConfig returns the default session configuration (Secret unset)
func DefaultConfig() Config {
	return Config{
		TTL:         30 * 24 * time.Hour,
		MaxLifetime: 30 * 24 * time.Hour,
	}
}

// Manager issues, loads, slides and destroys request sessions
type Manager struct {
	store       *Store
	clock       clock.Clock
	maxLifetime time.Duration
	logger      *slog.Logger
}

// NewManager creates a Manager over backend
func NewManager(backend storage.SessionStore, cfg Config, clock clock.Clock, logger *slog.Logger) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	store := NewStore(backend, sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL / time.Second),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, cfg.Secret)

	return &Manager{
		store:       store,
		clock:       clock,
		maxLifetime: cfg.MaxLifetime,
		logger:      logger.With(slog.String("component", "session")),
	}
}

// Load returns the request's session data, or nil when there is none
func (m *Manager) Load(r *http.Request) (*model.SessionData, error) {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		return nil, err
	}
	if sess.IsNew {
		return nil, nil
	}
	data := dataOf(sess)
	if data == nil {
		return nil, nil
	}
	out := *data
	return &out, nil
}

// Issue binds the request to a member under a fresh session ID. The admin
// capability of any existing session carries over.
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request, memberID model.MemberID, coupleID model.CoupleID) error {
	sess, err := m.rotate(r)
	if err != nil {
		return err
	}

	prev := dataOf(sess)
	sess.Values[dataKey] = &model.SessionData{
		MemberID: memberID,
		CoupleID: coupleID,
		IsAdmin:  prev != nil && prev.IsAdmin,
		IssuedAt: m.clock.Now(),
	}
	return m.save(w, r, sess)
}

// GrantAdmin sets the admin capability under a fresh session ID, keeping
// any member binding
func (m *Manager) GrantAdmin(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.rotate(r)
	if err != nil {
		return err
	}

	data := &model.SessionData{IssuedAt: m.clock.Now()}
	if prev := dataOf(sess); prev != nil {
		*data = *prev
	}
	data.IsAdmin = true
	sess.Values[dataKey] = data
	return m.save(w, r, sess)
}

// RevokeAdmin clears the admin capability. A session left with neither a
// member nor admin is destroyed.
func (m *Manager) RevokeAdmin(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		return err
	}
	data := dataOf(sess)
	if sess.IsNew || data == nil {
		return nil
	}
	if !data.HasMember() {
		return m.Destroy(w, r)
	}

	data.IsAdmin = false
	return m.save(w, r, sess)
}

// Touch re-saves an existing session, sliding its expiry window
func (m *Manager) Touch(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		return err
	}
	data := dataOf(sess)
	if sess.IsNew || data == nil {
		return nil
	}

	if m.maxLifetime > 0 && !data.IssuedAt.IsZero() && m.clock.Now().Sub(data.IssuedAt) >= m.maxLifetime {
		if err := m.Destroy(w, r); err != nil {
			return err
		}
		return ErrLifetimeExceeded
	}

	return m.save(w, r, sess)
}

// Destroy deletes the server-side record and expires the cookie
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		return err
	}

	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		m.logger.Error("failed to destroy session", slog.String("error", err.Error()))
		return err
	}

	delete(sess.Values, dataKey)
	sess.ID = ""
	sess.IsNew = true
	sess.Options.MaxAge = m.store.Options.MaxAge
	return nil
}

// rotate drops the current record, if any, so the next save allocates a
// new session ID
func (m *Manager) rotate(r *http.Request) (*sessions.Session, error) {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		return nil, err
	}
	if sess.ID != "" {
		if err := m.store.backend.DeleteSession(r.Context(), sess.ID); err != nil {
			return nil, fmt.Errorf("rotate session: %w", err)
		}
		sess.ID = ""
	}
	return sess, nil
}

func (m *Manager) save(w http.ResponseWriter, r *http.Request, sess *sessions.Session) error {
	if err := sess.Save(r, w); err != nil {
		m.logger.Error("failed to save session", slog.String("error", err.Error()))
		return err
	}
	sess.IsNew = false
	return nil
}
