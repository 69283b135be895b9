// internal/app/features/responses/handler.go

// Package responses records answers to multiple-choice questions. A
// user gets exactly one answer per question; the verdict is fixed at
// submission time.
package responses

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/app/system/httpapi"
	"github.com/learnloop/learnloop/internal/app/system/reconcile"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// Handler carries the responses feature's dependencies.
type Handler struct {
	Repo       *repo.Repository
	Reconciler *reconcile.Reconciler
	Log        *zap.Logger
}

// NewHandler creates the responses handler.
func NewHandler(store *repo.Repository, rec *reconcile.Reconciler, logger *zap.Logger) *Handler {
	return &Handler{Repo: store, Reconciler: rec, Log: logger}
}

type answerRequest struct {
	SelectedAnswer string `json:"selectedAnswer"`
}

// HandleAnswer handles POST /{messageID}. A second answer from the
// same user is rejected with 409.
func (h *Handler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req answerRequest
	if err := httpapi.Decode(r, &req); err != nil || req.SelectedAnswer == "" {
		httpapi.Error(w, http.StatusBadRequest, "selectedAnswer is required")
		return
	}

	messageID := chi.URLParam(r, "messageID")
	msg, found := h.Repo.MessageByID(messageID)
	if !found {
		httpapi.Error(w, http.StatusNotFound, "question not found")
		return
	}
	g, found := h.Repo.GroupByID(msg.GroupID)
	if found && !u.IsAdmin && !g.HasMember(u.ID) {
		httpapi.Error(w, http.StatusForbidden, "not a member of this group")
		return
	}

	resp, err := h.Repo.AppendResponse(r.Context(), *u, messageID, req.SelectedAnswer)
	switch {
	case errors.Is(err, repo.ErrDuplicateResponse):
		httpapi.Error(w, http.StatusConflict, "already answered")
		return
	case errors.Is(err, repo.ErrNotFound):
		httpapi.Error(w, http.StatusNotFound, "question not found")
		return
	case errors.Is(err, repo.ErrBadMessage):
		httpapi.Error(w, http.StatusBadRequest, "message is not a multiple-choice question")
		return
	case err != nil:
		h.Log.Error("recording response failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "answer failed")
		return
	}

	if err := h.Reconciler.Refresh(r.Context()); err != nil {
		h.Log.Warn("post-write reconcile failed", zap.Error(err))
	}
	httpapi.JSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /{messageID}: every answer to one question.
// Admin only; reads the reconciled snapshot.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	if _, found := h.Repo.MessageByID(messageID); !found {
		httpapi.Error(w, http.StatusNotFound, "question not found")
		return
	}
	out := h.Reconciler.Responses(messageID)
	if out == nil {
		out = []models.Response{}
	}
	httpapi.JSON(w, http.StatusOK, out)
}

// HandleMine handles GET /{messageID}/mine: whether and how the
// caller answered.
func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	messageID := chi.URLParam(r, "messageID")
	for _, resp := range h.Repo.ListResponsesForMessage(messageID) {
		if resp.UserID == u.ID {
			httpapi.JSON(w, http.StatusOK, resp)
			return
		}
	}
	httpapi.Error(w, http.StatusNotFound, "not answered")
}
