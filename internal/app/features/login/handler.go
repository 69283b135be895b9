// internal/app/features/login/handler.go

// Package login exposes sign-in, sign-out, and the current-user probe.
package login

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/app/system/httpapi"
)

// Handler carries the login feature's dependencies.
type Handler struct {
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

// NewHandler creates the login handler.
func NewHandler(sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Log: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /login. Credentials are checked against
// the freshest available user records; a wrong email and a wrong
// password are indistinguishable to the caller.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpapi.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, ok := h.Sessions.Core().Login(r.Context(), req.Email, req.Password)
	if !ok {
		httpapi.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := h.Sessions.Establish(w, r, user); err != nil {
		h.Log.Error("establishing session failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "session error")
		return
	}

	httpapi.JSON(w, http.StatusOK, user.Sanitized())
}

// HandleLogout handles POST /logout. Always succeeds.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Core().Logout(r.Context())
	h.Sessions.Clear(w, r)
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// HandleMe handles GET /me: the authenticated user's own record.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	httpapi.JSON(w, http.StatusOK, u)
}
