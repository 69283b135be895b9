// internal/app/features/users/handler.go

// Package users is the admin surface for account management: CRUD,
// password rotation, and the cascading delete that also removes group
// memberships and terminates the victim's session.
package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/app/system/httpapi"
	"github.com/learnloop/learnloop/internal/app/system/inputval"
	"github.com/learnloop/learnloop/internal/app/system/passwords"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// Handler carries the users feature's dependencies.
type Handler struct {
	Repo     *repo.Repository
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

// NewHandler creates the users handler.
func NewHandler(store *repo.Repository, sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Repo: store, Sessions: sessions, Log: logger}
}

// HandleList handles GET /.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	users := h.Repo.ListUsers()
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	httpapi.JSON(w, http.StatusOK, out)
}

// HandleGet handles GET /{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, ok := h.Repo.UserByID(chi.URLParam(r, "id"))
	if !ok {
		httpapi.Error(w, http.StatusNotFound, "user not found")
		return
	}
	httpapi.JSON(w, http.StatusOK, u.Sanitized())
}

type createRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	EmployeeID string `json:"employee_id"`
	Location   string `json:"location"`
	IsAdmin    bool   `json:"is_admin"`
	Strategy   string `json:"password_strategy"`
}

type createResponse struct {
	User     models.User `json:"user"`
	Password string      `json:"password"`
}

// HandleCreate handles POST /. The generated password appears in the
// response exactly once.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if inputval.IsBlank(req.Name) || inputval.IsBlank(req.Email) {
		httpapi.Error(w, http.StatusBadRequest, "name and email are required")
		return
	}
	if !inputval.IsValidEmail(strings.TrimSpace(req.Email)) {
		httpapi.Error(w, http.StatusBadRequest, "invalid email format")
		return
	}

	strategy := passwords.StrategySecure
	if strings.EqualFold(req.Strategy, "simple") {
		strategy = passwords.StrategySimple
	}
	password := passwords.Generate(strategy)
	hash, err := passwords.Hash(password)
	if err != nil {
		h.Log.Error("hashing generated password failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "password generation failed")
		return
	}

	createdBy := ""
	if cu, ok := auth.CurrentUser(r); ok {
		createdBy = cu.ID
	}

	user, err := h.Repo.CreateUser(r.Context(), repo.UserDraft{
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		EmployeeID:   req.EmployeeID,
		Location:     req.Location,
		IsAdmin:      req.IsAdmin,
		PasswordHash: hash,
		CreatedBy:    createdBy,
	})
	if errors.Is(err, repo.ErrDuplicateIdentity) {
		httpapi.Error(w, http.StatusConflict, "email or employee ID already exists")
		return
	}
	if err != nil {
		h.Log.Error("creating user failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "create failed")
		return
	}

	httpapi.JSON(w, http.StatusCreated, createResponse{User: user.Sanitized(), Password: password})
}

type updateRequest struct {
	Email      *string `json:"email"`
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	EmployeeID *string `json:"employee_id"`
	Location   *string `json:"location"`
	IsAdmin    *bool   `json:"is_admin"`
}

// HandleUpdate handles PUT /{id}. Absent fields are left alone.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email != nil && !inputval.IsValidEmail(strings.TrimSpace(*req.Email)) {
		httpapi.Error(w, http.StatusBadRequest, "invalid email format")
		return
	}

	user, err := h.Repo.UpdateUser(r.Context(), chi.URLParam(r, "id"), repo.UserUpdate{
		Email:      req.Email,
		Name:       req.Name,
		Phone:      req.Phone,
		EmployeeID: req.EmployeeID,
		Location:   req.Location,
		IsAdmin:    req.IsAdmin,
	})
	switch {
	case errors.Is(err, repo.ErrNotFound):
		httpapi.Error(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, repo.ErrDuplicateIdentity):
		httpapi.Error(w, http.StatusConflict, "email or employee ID already exists")
		return
	case err != nil:
		h.Log.Error("updating user failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "update failed")
		return
	}

	httpapi.JSON(w, http.StatusOK, user.Sanitized())
}

type rotateRequest struct {
	Strategy string `json:"password_strategy"`
}

type rotateResponse struct {
	Password string `json:"password"`
}

// HandleRotatePassword handles POST /{id}/password. Issues a fresh
// credential; the old one stops working immediately.
func (h *Handler) HandleRotatePassword(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if r.ContentLength > 0 {
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	strategy := passwords.StrategySecure
	if strings.EqualFold(req.Strategy, "simple") {
		strategy = passwords.StrategySimple
	}
	password := passwords.Generate(strategy)
	hash, err := passwords.Hash(password)
	if err != nil {
		h.Log.Error("hashing generated password failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "password generation failed")
		return
	}

	if _, err := h.Repo.RotatePassword(r.Context(), chi.URLParam(r, "id"), hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			httpapi.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("rotating password failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "rotation failed")
		return
	}

	httpapi.JSON(w, http.StatusOK, rotateResponse{Password: password})
}

// HandleDelete handles DELETE /{id}: removes the account, drops it
// from every group, and signs it out if it holds the active session.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Repo.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			httpapi.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("deleting user failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "delete failed")
		return
	}
	h.Sessions.Core().InvalidateUser(r.Context(), id)
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
