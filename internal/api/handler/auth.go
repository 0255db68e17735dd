package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/weddingplanner/internal/api/apierr"
	"github.com/mcoot/weddingplanner/internal/api/middleware"
	"github.com/mcoot/weddingplanner/internal/api/request"
	"github.com/mcoot/weddingplanner/internal/api/response"
	"github.com/mcoot/weddingplanner/internal/i18n"
	"github.com/mcoot/weddingplanner/internal/services/pairing"
	"github.com/mcoot/weddingplanner/internal/session"
)

// AuthHandler handles couple pairing and member session endpoints
type AuthHandler struct {
	pairing  *pairing.Service
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(pairingService *pairing.Service, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		pairing:  pairingService,
		sessions: sessions,
		logger:   logger,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	p, err := h.pairing.Register(r.Context(), pairing.RegisterInput{
		Name: req.Name,
		PIN:  req.PIN,
		Role: req.Role,
	})
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	h.bind(w, r, http.StatusCreated, p)
}

// Join handles POST /api/auth/join
func (h *AuthHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	p, err := h.pairing.Join(r.Context(), pairing.JoinInput{
		Name:       req.Name,
		PIN:        req.PIN,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	h.bind(w, r, http.StatusCreated, p)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	p, err := h.pairing.Login(r.Context(), req.Name, req.PIN)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	h.bind(w, r, http.StatusOK, p)
}

// bind issues a fresh session for the pairing's member and writes it
func (h *AuthHandler) bind(w http.ResponseWriter, r *http.Request, status int, p *pairing.Pairing) {
	if err := h.sessions.Issue(w, r, p.Member.ID, p.Couple.ID); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, status, response.AuthResponseFromPairing(p))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Success{Success: true})
}

// Me handles GET /api/auth/me. Anonymous requests get nulls, not an error.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	response.JSON(w, http.StatusOK, response.MeResponseFromIdentity(middleware.GetIdentity(ctx), middleware.IsAdmin(ctx)))
}

// PreviewInvite handles GET /api/auth/invite/{code}. An unusable code is
// reported in the body with status 200.
func (h *AuthHandler) PreviewInvite(w http.ResponseWriter, r *http.Request) {
	preview := h.pairing.Preview(r.Context(), mux.Vars(r)["code"])
	if !preview.Valid {
		if apierr.IsInternal(preview.Reason) {
			h.logger.Error("invite preview failed",
				slog.String("error", preview.Reason.Error()),
			)
		}
		response.JSON(w, http.StatusOK, response.InvitePreview{
			Valid: false,
			Error: apierr.Message(i18n.FromContext(r.Context()), preview.Reason),
		})
		return
	}

	response.JSON(w, http.StatusOK, response.InvitePreview{
		Valid:        true,
		AssignedRole: string(preview.AssignedRole),
		PartnerName:  preview.PartnerName,
	})
}

// RegenerateInvite handles POST /api/auth/invite/regenerate
func (h *AuthHandler) RegenerateInvite(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	couple, err := h.pairing.RegenerateInviteCode(r.Context(), identity.Couple.ID)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.InviteResponse{Couple: response.CoupleFromModel(couple)})
}
