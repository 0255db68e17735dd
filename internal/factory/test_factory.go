package factory

import (
	"io"
	"time"

	"github.com/mcoot/weddingplanner/internal/dependencies/mocks"
	"github.com/mcoot/weddingplanner/internal/i18n"
	"github.com/mcoot/weddingplanner/internal/services/credential"
	"github.com/mcoot/weddingplanner/internal/session"
	"github.com/mcoot/weddingplanner/internal/storage"
	"github.com/mcoot/weddingplanner/internal/storage/memory"
	"github.com/mcoot/weddingplanner/internal/testutil"
)

// TestAdminPassword is the admin password of every TestApp
const TestAdminPassword = "correct horse battery staple"

// TestSessionSecret signs TestApp session cookies
const TestSessionSecret = "test-session-secret-0123456789abcdef"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App over in-memory storage with mocked dependencies
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewWithClock(mockClock)
	return newTestApp(store, store, mockClock)
}

// NewTestAppWithStorage creates a TestApp over the given domain storage.
// Sessions still live in memory.
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	return newTestApp(store, memory.NewWithClock(mockClock), mockClock)
}

func newTestApp(store storage.Storage, sessions storage.SessionStore, mockClock *mocks.MockClock) *TestApp {
	mockRandom := mocks.NewMockRandom()

	app := &App{
		Storage:      store,
		SessionStore: sessions,
	}
	if closer, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, closer)
	}
	sessionCfg := session.DefaultConfig()
	sessionCfg.Secret = []byte(TestSessionSecret)
	wire(app, mockClock, mockRandom, credential.SHA256Hasher{}, sessionCfg, TestAdminPassword, i18n.New("ko"), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
