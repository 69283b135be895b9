// internal/app/features/groups/handler.go

// Package groups manages chat groups and their membership. Creation
// and membership changes are admin operations; any signed-in user can
// list the groups they belong to.
package groups

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/app/system/httpapi"
	"github.com/learnloop/learnloop/internal/app/system/inputval"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// Handler carries the groups feature's dependencies.
type Handler struct {
	Repo *repo.Repository
	Log  *zap.Logger
}

// NewHandler creates the groups handler.
func NewHandler(store *repo.Repository, logger *zap.Logger) *Handler {
	return &Handler{Repo: store, Log: logger}
}

// HandleMine handles GET /mine: the caller's own groups.
func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	groups := h.Repo.GroupsForUser(u.ID)
	if groups == nil {
		groups = []models.Group{}
	}
	httpapi.JSON(w, http.StatusOK, groups)
}

// HandleList handles GET /.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httpapi.JSON(w, http.StatusOK, h.Repo.ListGroups())
}

// HandleGet handles GET /{id}. Members can see their own groups;
// everything else is admin only.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	g, found := h.Repo.GroupByID(chi.URLParam(r, "id"))
	if !found {
		httpapi.Error(w, http.StatusNotFound, "group not found")
		return
	}
	if !u.IsAdmin && !g.HasMember(u.ID) {
		httpapi.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	httpapi.JSON(w, http.StatusOK, g)
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate handles POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if inputval.IsBlank(req.Name) {
		httpapi.Error(w, http.StatusBadRequest, "group name is required")
		return
	}

	createdBy := ""
	if cu, ok := auth.CurrentUser(r); ok {
		createdBy = cu.ID
	}

	g, err := h.Repo.CreateGroup(r.Context(), req.Name, req.Description, createdBy)
	if err != nil {
		h.Log.Error("creating group failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "create failed")
		return
	}
	httpapi.JSON(w, http.StatusCreated, g)
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

// HandleAddMember handles POST /{id}/members. Adding a member twice
// is a no-op.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := httpapi.Decode(r, &req); err != nil || req.UserID == "" {
		httpapi.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	err := h.Repo.AddMember(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		httpapi.Error(w, http.StatusNotFound, "group or user not found")
		return
	}
	if err != nil {
		h.Log.Error("adding member failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "membership update failed")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// HandleRemoveMember handles DELETE /{id}/members/{userID}.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	err := h.Repo.RemoveMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if errors.Is(err, repo.ErrNotFound) {
		httpapi.Error(w, http.StatusNotFound, "group or user not found")
		return
	}
	if err != nil {
		h.Log.Error("removing member failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "membership update failed")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
