// internal/app/store/repo/messages.go
package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/app/system/htmlsanitize"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// AppendMessage validates and persists a message. The group must exist
// at creation time only; a group deleted out from under its history
// leaves the messages orphaned and they stay readable. Text
// content is sanitized; MCQ content must decode to a valid payload.
// Messages are append-only: there is no update or delete.
func (r *Repository) AppendMessage(ctx context.Context, m models.Message) (models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !models.IsValidMessageType(m.Type) {
		return models.Message{}, fmt.Errorf("%w: unknown type %q", ErrBadMessage, m.Type)
	}
	if _, ok := r.groups[m.GroupID]; !ok {
		return models.Message{}, fmt.Errorf("%w: group %s does not exist", ErrBadMessage, m.GroupID)
	}

	m.ID = uuid.NewString()
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	switch m.Type {
	case models.MessageMCQ:
		payload, err := m.DecodeMCQ()
		if err != nil {
			return models.Message{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
		}
		if err := payload.Validate(); err != nil {
			return models.Message{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
		}
	case models.MessageText:
		m.Content = htmlsanitize.Clean(m.Content)
		if m.Content == "" {
			return models.Message{}, fmt.Errorf("%w: empty content", ErrBadMessage)
		}
	}

	next := append(append([]models.Message(nil), r.messages...), m)
	if err := r.store.Write(ctx, persist.PartitionMessages, next); err != nil {
		return models.Message{}, err
	}
	r.messages = next
	return m, nil
}

// ListMessagesForGroup returns the group's messages in append order.
func (r *Repository) ListMessagesForGroup(groupID string) []models.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Message
	for _, m := range r.messages {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out
}

// ListMessages returns every message in append order.
func (r *Repository) ListMessages() []models.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Message(nil), r.messages...)
}

// MessageByID looks up a message by id.
func (r *Repository) MessageByID(id string) (models.Message, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.messages {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}
