// Package session binds HTTP requests to server-side session records.
//
// The cookie carries only a signed random session ID; the record itself
// lives in a storage.SessionStore (memory or Redis).
package session

import (
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage"
)

// dataKey is the Values key holding the *model.SessionData
const dataKey = "data"

// Store implements sessions.Store on top of a storage.SessionStore
type Store struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	backend storage.SessionStore
}

// Ensure Store implements the interface
var _ sessions.Store = (*Store)(nil)

// NewStore creates a Store. keyPairs are securecookie hash/block key pairs
// used to sign the session ID cookie.
func NewStore(backend storage.SessionStore, options sessions.Options, keyPairs ...[]byte) *Store {
	s := &Store{
		Codecs:  securecookie.CodecsFromPairs(keyPairs...),
		Options: &options,
		backend: backend,
	}
	s.MaxAge(options.MaxAge)
	return s
}

// MaxAge sets the cookie and codec lifetime in seconds
func (s *Store) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, codec := range s.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

// Get returns the session for name, cached per request
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the request cookie. A missing,
// tampered or expired cookie yields a fresh empty session and no error.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.Codecs...); err != nil {
		return session, nil
	}

	data, err := s.backend.GetSession(r.Context(), id)
	if errors.Is(err, model.ErrSessionNotFound) {
		return session, nil
	}
	if err != nil {
		return session, fmt.Errorf("load session: %w", err)
	}

	session.ID = id
	session.Values[dataKey] = data
	session.IsNew = false
	return session, nil
}

// Save writes the record and refreshes the cookie. A negative MaxAge
// deletes the record and expires the cookie.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.DeleteSession(r.Context(), session.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		id, err := newSessionID()
		if err != nil {
			return err
		}
		session.ID = id
	}

	data := dataOf(session)
	if data == nil {
		data = &model.SessionData{}
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.backend.SaveSession(r.Context(), session.ID, data, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func dataOf(session *sessions.Session) *model.SessionData {
	data, _ := session.Values[dataKey].(*model.SessionData)
	return data
}

func newSessionID() (string, error) {
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return "", errors.New("generate session id: entropy unavailable")
	}
	return strings.TrimRight(base32.StdEncoding.EncodeToString(key), "="), nil
}
