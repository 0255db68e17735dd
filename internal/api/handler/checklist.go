package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/weddingplanner/internal/api/middleware"
	"github.com/mcoot/weddingplanner/internal/api/request"
	"github.com/mcoot/weddingplanner/internal/api/response"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/services/checklist"
)

// ChecklistHandler handles the couple-scoped checklist endpoints. Every
// route runs behind RequireMember.
type ChecklistHandler struct {
	checklist *checklist.Service
	logger    *slog.Logger
}

// NewChecklistHandler creates a new checklist handler
func NewChecklistHandler(checklistService *checklist.Service, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		checklist: checklistService,
		logger:    logger,
	}
}

// List handles GET /api/checklist
func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	items, err := h.checklist.List(r.Context(), identity.Couple.ID)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ChecklistItemsFromModel(items))
}

// Create handles POST /api/checklist
func (h *ChecklistHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.CreateChecklistItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	in := checklist.CreateInput{
		Title:    req.Title,
		Category: req.Category,
	}
	if req.DueDate != nil {
		due, err := request.ParseDueDate(*req.DueDate)
		if err != nil {
			WriteError(w, r, h.logger, err)
			return
		}
		in.DueDate = due
	}

	item, err := h.checklist.Create(r.Context(), identity.Couple.ID, in)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.ChecklistItemFromModel(item))
}

// Update handles PATCH /api/checklist/{id}
func (h *ChecklistHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id := model.ChecklistItemID(mux.Vars(r)["id"])

	var req request.UpdateChecklistItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	in := checklist.UpdateInput{
		Title:    req.Title,
		Category: req.Category,
		Done:     req.Done,
	}
	if req.DueDate != nil {
		if strings.TrimSpace(*req.DueDate) == "" {
			in.ClearDueDate = true
		} else {
			due, err := request.ParseDueDate(*req.DueDate)
			if err != nil {
				WriteError(w, r, h.logger, err)
				return
			}
			in.DueDate = due
		}
	}

	item, err := h.checklist.Update(r.Context(), identity.Couple.ID, id, in)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ChecklistItemFromModel(item))
}

// Delete handles DELETE /api/checklist/{id}
func (h *ChecklistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id := model.ChecklistItemID(mux.Vars(r)["id"])

	if err := h.checklist.Delete(r.Context(), identity.Couple.ID, id); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.NoContent(w)
}
