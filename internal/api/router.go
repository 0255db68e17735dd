package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/weddingplanner/internal/api/handler"
	"github.com/mcoot/weddingplanner/internal/api/middleware"
	"github.com/mcoot/weddingplanner/internal/i18n"
	sharedmw "github.com/mcoot/weddingplanner/internal/middleware"
	"github.com/mcoot/weddingplanner/internal/services/admin"
	"github.com/mcoot/weddingplanner/internal/services/checklist"
	"github.com/mcoot/weddingplanner/internal/services/pairing"
	"github.com/mcoot/weddingplanner/internal/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	Translator       *i18n.Translator
	Sessions         *session.Manager
	PairingService   *pairing.Service
	AdminService     *admin.Service
	ChecklistService *checklist.Service
	// HealthChecks are probed by /api/health, keyed by backend name
	HealthChecks map[string]handler.Pinger
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.PairingService, cfg.Sessions, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.Sessions, cfg.Logger)
	checklistHandler := handler.NewChecklistHandler(cfg.ChecklistService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.HealthChecks, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(sharedmw.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Language(cfg.Translator))
	api.Use(middleware.Session(cfg.Sessions, cfg.PairingService, cfg.Logger))

	// Auth routes (anonymous)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/join", authHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/auth/invite/{code}", authHandler.PreviewInvite).Methods(http.MethodGet)

	// Auth routes requiring a member
	api.Handle("/auth/invite/regenerate",
		middleware.RequireMember(http.HandlerFunc(authHandler.RegenerateInvite)),
	).Methods(http.MethodPost)

	// Admin routes
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/admin/logout", adminHandler.Logout).Methods(http.MethodPost)

	adminRoutes := api.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.RequireAdmin)
	adminRoutes.HandleFunc("/couples", adminHandler.ListCouples).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/couples/{id}", adminHandler.DeleteCouple).Methods(http.MethodDelete)
	adminRoutes.HandleFunc("/members/{id}", adminHandler.DeleteMember).Methods(http.MethodDelete)

	// Checklist routes (all require a member)
	checklistRoutes := api.PathPrefix("/checklist").Subrouter()
	checklistRoutes.Use(middleware.RequireMember)
	checklistRoutes.HandleFunc("", checklistHandler.List).Methods(http.MethodGet)
	checklistRoutes.HandleFunc("", checklistHandler.Create).Methods(http.MethodPost)
	checklistRoutes.HandleFunc("/{id}", checklistHandler.Update).Methods(http.MethodPatch)
	checklistRoutes.HandleFunc("/{id}", checklistHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	return r
}
