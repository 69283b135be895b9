// internal/app/features/chat/handler.go

// Package chat serves group message streams. Reads come from the
// reconciled snapshot so every client sees the same timeline; writes
// go through the repository and then force a snapshot refresh.
package chat

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/app/system/httpapi"
	"github.com/learnloop/learnloop/internal/app/system/reconcile"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// Handler carries the chat feature's dependencies.
type Handler struct {
	Repo       *repo.Repository
	Reconciler *reconcile.Reconciler
	Log        *zap.Logger
}

// NewHandler creates the chat handler.
func NewHandler(store *repo.Repository, rec *reconcile.Reconciler, logger *zap.Logger) *Handler {
	return &Handler{Repo: store, Reconciler: rec, Log: logger}
}

// groupMember resolves the group and checks the caller may read it.
func (h *Handler) groupMember(w http.ResponseWriter, r *http.Request) (models.User, models.Group, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return models.User{}, models.Group{}, false
	}
	g, found := h.Repo.GroupByID(chi.URLParam(r, "id"))
	if !found {
		httpapi.Error(w, http.StatusNotFound, "group not found")
		return models.User{}, models.Group{}, false
	}
	if !u.IsAdmin && !g.HasMember(u.ID) {
		httpapi.Error(w, http.StatusForbidden, "not a member of this group")
		return models.User{}, models.Group{}, false
	}
	return *u, g, true
}

type timelineResponse struct {
	Messages []models.Message `json:"messages"`
	SyncedAt time.Time        `json:"synced_at"`
}

// HandleTimeline handles GET /{id}/messages: the group's messages in
// append order, from the current snapshot.
func (h *Handler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	_, g, ok := h.groupMember(w, r)
	if !ok {
		return
	}
	msgs := h.Reconciler.Messages(g.ID)
	if msgs == nil {
		msgs = []models.Message{}
	}
	httpapi.JSON(w, http.StatusOK, timelineResponse{
		Messages: msgs,
		SyncedAt: h.Reconciler.SyncedAt(),
	})
}

type postRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// HandlePost handles POST /{id}/messages for text, image, and file
// messages. Text content is sanitized before it is stored.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	u, g, ok := h.groupMember(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" {
		req.Type = models.MessageText
	}
	if req.Type == models.MessageMCQ {
		httpapi.Error(w, http.StatusBadRequest, "use the questions endpoint for multiple-choice messages")
		return
	}

	msg, err := h.Repo.AppendMessage(r.Context(), models.Message{
		GroupID:    g.ID,
		SenderID:   u.ID,
		SenderName: u.Name,
		Content:    req.Content,
		Type:       req.Type,
	})
	if errors.Is(err, repo.ErrBadMessage) {
		httpapi.Error(w, http.StatusBadRequest, "invalid message")
		return
	}
	if err != nil {
		h.Log.Error("appending message failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "post failed")
		return
	}

	h.refresh(r)
	httpapi.JSON(w, http.StatusCreated, msg)
}

type questionRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// HandlePostQuestion handles POST /{id}/questions: a multiple-choice
// message. Admin only.
func (h *Handler) HandlePostQuestion(w http.ResponseWriter, r *http.Request) {
	u, g, ok := h.groupMember(w, r)
	if !ok {
		return
	}

	var req questionRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload := models.MCQPayload{
		Question:      req.Question,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
	}
	if err := payload.Validate(); err != nil {
		httpapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	content, err := payload.Encode()
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, "invalid question payload")
		return
	}

	msg, err := h.Repo.AppendMessage(r.Context(), models.Message{
		GroupID:    g.ID,
		SenderID:   u.ID,
		SenderName: u.Name,
		Content:    content,
		Type:       models.MessageMCQ,
	})
	if errors.Is(err, repo.ErrBadMessage) {
		httpapi.Error(w, http.StatusBadRequest, "invalid question")
		return
	}
	if err != nil {
		h.Log.Error("appending question failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "post failed")
		return
	}

	h.refresh(r)
	httpapi.JSON(w, http.StatusCreated, msg)
}

// HandleSync handles POST /sync: force a reconcile now instead of
// waiting for the next tick.
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	if err := h.Reconciler.Refresh(r.Context()); err != nil {
		h.Log.Error("forced reconcile failed", zap.Error(err))
		httpapi.Error(w, http.StatusServiceUnavailable, "sync failed")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]any{"synced_at": h.Reconciler.SyncedAt()})
}

func (h *Handler) refresh(r *http.Request) {
	if err := h.Reconciler.Refresh(r.Context()); err != nil {
		h.Log.Warn("post-write reconcile failed", zap.Error(err))
	}
}
