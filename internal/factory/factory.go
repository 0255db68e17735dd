package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/weddingplanner/internal/api"
	"github.com/mcoot/weddingplanner/internal/api/handler"
	"github.com/mcoot/weddingplanner/internal/config"
	"github.com/mcoot/weddingplanner/internal/dependencies/clock"
	"github.com/mcoot/weddingplanner/internal/dependencies/random"
	"github.com/mcoot/weddingplanner/internal/i18n"
	"github.com/mcoot/weddingplanner/internal/services/admin"
	"github.com/mcoot/weddingplanner/internal/services/checklist"
	"github.com/mcoot/weddingplanner/internal/services/credential"
	"github.com/mcoot/weddingplanner/internal/services/pairing"
	"github.com/mcoot/weddingplanner/internal/session"
	"github.com/mcoot/weddingplanner/internal/storage"
	"github.com/mcoot/weddingplanner/internal/storage/memory"
	redisstorage "github.com/mcoot/weddingplanner/internal/storage/redis"
	"github.com/mcoot/weddingplanner/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage      storage.Storage
	SessionStore storage.SessionStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	Hasher           credential.Hasher
	Translator       *i18n.Translator
	Sessions         *session.Manager
	PairingService   *pairing.Service
	AdminService     *admin.Service
	ChecklistService *checklist.Service

	healthChecks map[string]handler.Pinger
	closers      []io.Closer
}

// New creates a new application with all dependencies wired from cfg.
// cfg is expected to have passed Validate.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	app := &App{healthChecks: map[string]handler.Pinger{}}

	// Create storage based on type
	switch cfg.Storage {
	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		app.Storage = store
		app.healthChecks["sqlite"] = store
		app.closers = append(app.closers, store)
	case config.StorageMemory:
		app.Storage = memory.NewWithClock(clk)
	default:
		return nil, fmt.Errorf("invalid storage %q: must be 'sqlite' or 'memory'", cfg.Storage)
	}

	// Create the session store
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		if mem, ok := app.Storage.(*memory.Storage); ok {
			app.SessionStore = mem
		} else {
			app.SessionStore = memory.NewWithClock(clk)
		}
	case config.SessionStoreRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		sessions, err := redisstorage.New(redisCfg)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("connect redis session store: %w", err)
		}
		app.SessionStore = sessions
		app.healthChecks["redis"] = sessions
		app.closers = append(app.closers, sessions)
	default:
		_ = app.Close()
		return nil, fmt.Errorf("invalid session store %q: must be 'memory' or 'redis'", cfg.SessionStore)
	}

	sessionCfg := session.Config{
		Secret:      []byte(cfg.SessionSecret),
		TTL:         cfg.SessionTTL,
		MaxLifetime: cfg.SessionMaxLifetime,
		Secure:      cfg.IsProduction(),
	}
	hasher := credential.New(cfg.PINHasher, cfg.PINPepper)

	wire(app, clk, random.New(), hasher, sessionCfg, cfg.AdminPassword, i18n.New(cfg.DefaultLanguage), logger)
	return app, nil
}

// wire creates the services over the App's storage (useful for testing)
func wire(
	app *App,
	clk clock.Clock,
	rnd random.Random,
	hasher credential.Hasher,
	sessionCfg session.Config,
	adminPassword string,
	translator *i18n.Translator,
	logger *slog.Logger,
) {
	app.Clock = clk
	app.Random = rnd
	app.Logger = logger
	app.Hasher = hasher
	app.Translator = translator
	app.Sessions = session.NewManager(app.SessionStore, sessionCfg, clk, logger)
	app.PairingService = pairing.New(app.Storage, hasher, clk, rnd, logger)
	app.AdminService = admin.New(app.Storage, adminPassword, logger)
	app.ChecklistService = checklist.New(app.Storage, clk, rnd, logger)
}

// Handler returns the HTTP API router
func (a *App) Handler() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:           a.Logger,
		Translator:       a.Translator,
		Sessions:         a.Sessions,
		PairingService:   a.PairingService,
		AdminService:     a.AdminService,
		ChecklistService: a.ChecklistService,
		HealthChecks:     a.healthChecks,
	})
}

// RunSessionJanitor purges expired sessions from an in-memory session
// store every interval until ctx is done. Other stores expire records
// themselves, so it returns immediately for them.
func (a *App) RunSessionJanitor(ctx context.Context, interval time.Duration) {
	mem, ok := a.SessionStore.(*memory.Storage)
	if !ok {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.CleanExpiredSessions(); n > 0 {
				a.Logger.Debug("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}

// Close releases storage connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
