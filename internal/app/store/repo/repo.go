// Package repo is the authoritative entity repository: typed CRUD and
// lookup over Users, Groups, Messages, and MCQ Responses. It is the only
// writer to the persist layer. State lives in memory behind one RWMutex;
// every mutation writes the affected partition(s) through before it
// commits, so a failed write leaves memory on the previous snapshot.
package repo

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/domain/models"
)

type Repository struct {
	store persist.Store
	log   *zap.Logger

	mu sync.RWMutex

	users     map[string]models.User
	userOrder []string          // insertion order for stable listings
	emailIdx  map[string]string // normalized email -> user id
	empIdx    map[string]string // employee id -> user id

	groups     map[string]models.Group
	groupOrder []string

	messages  []models.Message
	responses []models.Response
	respIdx   map[string]struct{} // responseKey(messageID, userID)
}

// New returns an empty repository over the given store.
func New(store persist.Store, logger *zap.Logger) *Repository {
	r := &Repository{store: store, log: logger}
	r.resetLocked()
	return r
}

// Load builds a repository and populates it from storage.
func Load(ctx context.Context, store persist.Store, logger *zap.Logger) (*Repository, error) {
	r := New(store, logger)
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) resetLocked() {
	r.users = make(map[string]models.User)
	r.userOrder = nil
	r.emailIdx = make(map[string]string)
	r.empIdx = make(map[string]string)
	r.groups = make(map[string]models.Group)
	r.groupOrder = nil
	r.messages = nil
	r.responses = nil
	r.respIdx = make(map[string]struct{})
}

func responseKey(messageID, userID string) string {
	return messageID + "\x00" + userID
}

// Reload replaces the in-memory state with a fresh read of every
// partition. On any read error the previous snapshot is kept and the
// error is returned; reconciliation never leaves the repository with a
// half-loaded view.
func (r *Repository) Reload(ctx context.Context) error {
	var (
		users     []models.User
		groups    []models.Group
		messages  []models.Message
		responses []models.Response
	)
	if err := r.store.Read(ctx, persist.PartitionUsers, &users); err != nil {
		return err
	}
	if err := r.store.Read(ctx, persist.PartitionGroups, &groups); err != nil {
		return err
	}
	if err := r.store.Read(ctx, persist.PartitionMessages, &messages); err != nil {
		return err
	}
	if err := r.store.Read(ctx, persist.PartitionResponses, &responses); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
	for _, u := range users {
		r.indexUserLocked(u)
	}
	for _, g := range groups {
		r.groups[g.ID] = g
		r.groupOrder = append(r.groupOrder, g.ID)
	}
	r.messages = messages
	r.responses = responses
	for _, resp := range responses {
		r.respIdx[responseKey(resp.MessageID, resp.UserID)] = struct{}{}
	}
	return nil
}

// ReloadUsers re-reads only the users partition. Login uses this so
// authentication always sees the freshest persisted user set rather than
// a possibly stale snapshot from another actor's writes.
func (r *Repository) ReloadUsers(ctx context.Context) error {
	var users []models.User
	if err := r.store.Read(ctx, persist.PartitionUsers, &users); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]models.User)
	r.userOrder = nil
	r.emailIdx = make(map[string]string)
	r.empIdx = make(map[string]string)
	for _, u := range users {
		r.indexUserLocked(u)
	}
	return nil
}

func (r *Repository) indexUserLocked(u models.User) {
	r.users[u.ID] = u
	r.userOrder = append(r.userOrder, u.ID)
	r.emailIdx[u.Email] = u.ID
	if u.EmployeeID != "" {
		r.empIdx[u.EmployeeID] = u.ID
	}
}

// usersSliceLocked materializes the users partition in insertion order.
func (r *Repository) usersSliceLocked() []models.User {
	out := make([]models.User, 0, len(r.userOrder))
	for _, id := range r.userOrder {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func (r *Repository) groupsSliceLocked() []models.Group {
	out := make([]models.Group, 0, len(r.groupOrder))
	for _, id := range r.groupOrder {
		if g, ok := r.groups[id]; ok {
			out = append(out, g)
		}
	}
	return out
}
