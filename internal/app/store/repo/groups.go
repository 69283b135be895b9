// internal/app/store/repo/groups.go
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/app/system/normalize"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// CreateGroup inserts a new empty group.
func (r *Repository) CreateGroup(ctx context.Context, name, description, createdBy string) (models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := models.Group{
		ID:          uuid.NewString(),
		Name:        normalize.Name(name),
		Description: description,
		Members:     []string{},
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	next := append(r.groupsSliceLocked(), g)
	if err := r.store.Write(ctx, persist.PartitionGroups, next); err != nil {
		return models.Group{}, err
	}
	r.groups[g.ID] = g
	r.groupOrder = append(r.groupOrder, g.ID)
	return g, nil
}

// AddMember adds a user to a group, updating both the group's member
// list and the user's group back-reference in one critical section.
// Either both sides commit or neither does. Adding an existing member
// is a no-op.
func (r *Repository) AddMember(ctx context.Context, groupID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	u, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	if g.HasMember(userID) && u.InGroup(groupID) {
		return nil
	}

	prevGroups := r.groupsSliceLocked()
	prevG, prevU := g, u
	if !g.HasMember(userID) {
		g.Members = appendCopy(g.Members, userID)
	}
	if !u.InGroup(groupID) {
		u.Groups = appendCopy(u.Groups, groupID)
	}
	r.groups[groupID] = g
	r.users[userID] = u

	if err := r.writeMembershipLocked(ctx, prevGroups); err != nil {
		r.groups[groupID] = prevG
		r.users[userID] = prevU
		return err
	}
	return nil
}

// RemoveMember reverses AddMember with the same both-or-neither rule.
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	u, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	if !g.HasMember(userID) && !u.InGroup(groupID) {
		return nil
	}

	prevGroups := r.groupsSliceLocked()
	prevG, prevU := g, u
	g.Members = removeString(g.Members, userID)
	u.Groups = removeString(u.Groups, groupID)
	r.groups[groupID] = g
	r.users[userID] = u

	if err := r.writeMembershipLocked(ctx, prevGroups); err != nil {
		r.groups[groupID] = prevG
		r.users[userID] = prevU
		return err
	}
	return nil
}

// writeMembershipLocked persists the groups and users partitions after a
// membership change. The two writes cannot be atomic across partitions;
// if the users write fails after the groups write succeeded, the groups
// partition is rewritten from the pre-mutation snapshot so durable state
// matches the rolled-back memory.
func (r *Repository) writeMembershipLocked(ctx context.Context, prevGroups []models.Group) error {
	if err := r.store.Write(ctx, persist.PartitionGroups, r.groupsSliceLocked()); err != nil {
		return err
	}
	if err := r.store.Write(ctx, persist.PartitionUsers, r.usersSliceLocked()); err != nil {
		if werr := r.store.Write(ctx, persist.PartitionGroups, prevGroups); werr != nil {
			r.log.Error("compensating groups write failed", zap.Error(werr))
		}
		return err
	}
	return nil
}

// GroupByID looks up a group by id.
func (r *Repository) GroupByID(id string) (models.Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[id]
	return g, ok
}

// ListGroups returns all groups in creation order.
func (r *Repository) ListGroups() []models.Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.groupsSliceLocked()
}

// GroupsForUser returns the groups the user belongs to, in group
// creation order.
func (r *Repository) GroupsForUser(userID string) []models.Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Group
	for _, id := range r.groupOrder {
		if g, ok := r.groups[id]; ok && g.HasMember(userID) {
			out = append(out, g)
		}
	}
	return out
}

// appendCopy appends without sharing the input's backing array, so
// rollback copies held by callers stay valid.
func appendCopy(s []string, v string) []string {
	out := make([]string, 0, len(s)+1)
	out = append(out, s...)
	return append(out, v)
}
