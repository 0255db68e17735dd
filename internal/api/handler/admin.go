package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/weddingplanner/internal/api/request"
	"github.com/mcoot/weddingplanner/internal/api/response"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/services/admin"
	"github.com/mcoot/weddingplanner/internal/session"
)

// AdminHandler handles the admin login and couple management endpoints
type AdminHandler struct {
	admin    *admin.Service
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service, sessions *session.Manager, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:    adminService,
		sessions: sessions,
		logger:   logger,
	}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if err := h.admin.Authenticate(req.Password); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if err := h.sessions.GrantAdmin(w, r); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Success{Success: true})
}

// Logout handles POST /api/admin/logout. A member binding survives.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.RevokeAdmin(w, r); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Success{Success: true})
}

// ListCouples handles GET /api/admin/couples
func (h *AdminHandler) ListCouples(w http.ResponseWriter, r *http.Request) {
	couples, err := h.admin.ListCouples(r.Context())
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CouplesFromModel(couples))
}

// DeleteCouple handles DELETE /api/admin/couples/{id}
func (h *AdminHandler) DeleteCouple(w http.ResponseWriter, r *http.Request) {
	id := model.CoupleID(mux.Vars(r)["id"])

	if err := h.admin.DeleteCouple(r.Context(), id); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.NoContent(w)
}

// DeleteMember handles DELETE /api/admin/members/{id}
func (h *AdminHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := model.MemberID(mux.Vars(r)["id"])

	if err := h.admin.DeleteMember(r.Context(), id); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.NoContent(w)
}
