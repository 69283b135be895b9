// internal/app/store/repo/responses.go
package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// AppendResponse records a user's answer to an MCQ message. Correctness
// is computed here, at submission time, against the message's payload.
// A second submission for the same (message, user) pair returns
// ErrDuplicateResponse and leaves the first response untouched.
func (r *Repository) AppendResponse(ctx context.Context, user models.User, messageID, selectedAnswer string) (models.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msg *models.Message
	for i := range r.messages {
		if r.messages[i].ID == messageID {
			msg = &r.messages[i]
			break
		}
	}
	if msg == nil {
		return models.Response{}, ErrNotFound
	}
	payload, err := msg.DecodeMCQ()
	if err != nil {
		return models.Response{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}

	if _, dup := r.respIdx[responseKey(messageID, user.ID)]; dup {
		return models.Response{}, ErrDuplicateResponse
	}

	resp := models.Response{
		ID:             uuid.NewString(),
		MessageID:      messageID,
		UserID:         user.ID,
		UserName:       user.Name,
		UserEmail:      user.Email,
		GroupID:        msg.GroupID,
		SelectedAnswer: selectedAnswer,
		IsCorrect:      selectedAnswer == payload.CorrectAnswer,
		Timestamp:      time.Now().UTC(),
	}

	next := append(append([]models.Response(nil), r.responses...), resp)
	if err := r.store.Write(ctx, persist.PartitionResponses, next); err != nil {
		return models.Response{}, err
	}
	r.responses = next
	r.respIdx[responseKey(messageID, user.ID)] = struct{}{}
	return resp, nil
}

// ListResponsesForMessage returns all responses to a message in
// submission order.
func (r *Repository) ListResponsesForMessage(messageID string) []models.Response {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Response
	for _, resp := range r.responses {
		if resp.MessageID == messageID {
			out = append(out, resp)
		}
	}
	return out
}

// ListResponses returns every response in submission order.
func (r *Repository) ListResponses() []models.Response {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Response(nil), r.responses...)
}

// HasResponded reports whether the user already answered the message.
func (r *Repository) HasResponded(messageID, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.respIdx[responseKey(messageID, userID)]
	return ok
}
