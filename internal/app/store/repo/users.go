// internal/app/store/repo/users.go
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

// UserDraft holds the fields a caller supplies when creating a user.
// The repository assigns the id and timestamps.
type UserDraft struct {
	Email        string
	Name         string
	Phone        string
	EmployeeID   string
	Location     string
	IsAdmin      bool
	PasswordHash string
	CreatedBy    string
}

func (d UserDraft) build() models.User {
	name := normalize.Name(d.Name)
	return models.User{
		ID:                  uuid.NewString(),
		Email:               normalize.Email(d.Email),
		Name:                name,
		NameCI:              normalize.NameCI(name),
		Phone:               d.Phone,
		EmployeeID:          normalize.EmployeeID(d.EmployeeID),
		Location:            d.Location,
		IsAdmin:             d.IsAdmin,
		PasswordHash:        d.PasswordHash,
		PasswordGeneratedAt: time.Now().UTC(),
		CreatedBy:           d.CreatedBy,
		CreatedAt:           time.Now().UTC(),
	}
}

// collidesLocked reports whether the draft's normalized email or
// employee id is already taken.
func (r *Repository) collidesLocked(email, employeeID string) bool {
	if _, ok := r.emailIdx[email]; ok {
		return true
	}
	if employeeID != "" {
		if _, ok := r.empIdx[employeeID]; ok {
			return true
		}
	}
	return false
}

// CreateUser inserts a new user. Returns ErrDuplicateIdentity if the
// normalized email or the employee id is already present.
func (r *Repository) CreateUser(ctx context.Context, d UserDraft) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := d.build()
	if r.collidesLocked(u.Email, u.EmployeeID) {
		return models.User{}, ErrDuplicateIdentity
	}

	next := append(r.usersSliceLocked(), u)
	if err := r.store.Write(ctx, persist.PartitionUsers, next); err != nil {
		return models.User{}, err
	}
	r.indexUserLocked(u)
	return u, nil
}

// CreateUsersBulk inserts every draft that does not collide with an
// existing user or an earlier draft in the same batch. Collisions are
// skipped, not fatal: partial success is the expected outcome of a bulk
// load. Surviving users keep the input order.
func (r *Repository) CreateUsersBulk(ctx context.Context, drafts []UserDraft) (created []models.User, skipped []UserDraft, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seenEmail := make(map[string]struct{})
	seenEmp := make(map[string]struct{})

	for _, d := range drafts {
		u := d.build()
		_, batchEmail := seenEmail[u.Email]
		_, batchEmp := seenEmp[u.EmployeeID]
		if batchEmail || (u.EmployeeID != "" && batchEmp) || r.collidesLocked(u.Email, u.EmployeeID) {
			skipped = append(skipped, d)
			continue
		}
		seenEmail[u.Email] = struct{}{}
		if u.EmployeeID != "" {
			seenEmp[u.EmployeeID] = struct{}{}
		}
		created = append(created, u)
	}

	if len(created) == 0 {
		return nil, skipped, nil
	}

	next := append(r.usersSliceLocked(), created...)
	if err := r.store.Write(ctx, persist.PartitionUsers, next); err != nil {
		return nil, nil, err
	}
	for _, u := range created {
		r.indexUserLocked(u)
	}
	return created, skipped, nil
}

// UserUpdate carries partial field updates; nil means "leave unchanged".
type UserUpdate struct {
	Email      *string
	Name       *string
	Phone      *string
	EmployeeID *string
	Location   *string
	IsAdmin    *bool
}

// UpdateUser applies a partial update. Email and employee id changes are
// re-checked for uniqueness against every other user.
func (r *Repository) UpdateUser(ctx context.Context, id string, upd UserUpdate) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	prev := u

	if upd.Email != nil {
		email := normalize.Email(*upd.Email)
		if owner, taken := r.emailIdx[email]; taken && owner != id {
			return models.User{}, ErrDuplicateIdentity
		}
		u.Email = email
	}
	if upd.EmployeeID != nil {
		emp := normalize.EmployeeID(*upd.EmployeeID)
		if owner, taken := r.empIdx[emp]; taken && owner != id {
			return models.User{}, ErrDuplicateIdentity
		}
		u.EmployeeID = emp
	}
	if upd.Name != nil {
		u.Name = normalize.Name(*upd.Name)
		u.NameCI = normalize.NameCI(u.Name)
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Location != nil {
		u.Location = *upd.Location
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}

	r.users[id] = u
	if err := r.store.Write(ctx, persist.PartitionUsers, r.usersSliceLocked()); err != nil {
		r.users[id] = prev
		return models.User{}, err
	}

	// Reindex identity fields after the write commits.
	if prev.Email != u.Email {
		delete(r.emailIdx, prev.Email)
		r.emailIdx[u.Email] = id
	}
	if prev.EmployeeID != u.EmployeeID {
		delete(r.empIdx, prev.EmployeeID)
		if u.EmployeeID != "" {
			r.empIdx[u.EmployeeID] = id
		}
	}
	return u, nil
}

// RotatePassword replaces the stored hash and stamps the rotation time.
func (r *Repository) RotatePassword(ctx context.Context, id, newHash string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	prev := u
	u.PasswordHash = newHash
	u.PasswordGeneratedAt = time.Now().UTC()

	r.users[id] = u
	if err := r.store.Write(ctx, persist.PartitionUsers, r.usersSliceLocked()); err != nil {
		r.users[id] = prev
		return models.User{}, err
	}
	return u, nil
}

// DeleteUser removes a user and cascades: the id is removed from every
// group's member list in the same operation, and a persisted session
// referencing the user is discarded. Messages and responses the user
// authored stay as historical record (their snapshots are copies).
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}

	// Build the post-delete state without committing it.
	delete(r.users, id)
	touched := make(map[string]models.Group) // groupID -> prior value
	for gid, g := range r.groups {
		if !g.HasMember(id) {
			continue
		}
		touched[gid] = g
		g.Members = removeString(g.Members, id)
		r.groups[gid] = g
	}

	rollback := func() {
		r.users[id] = u
		for gid, g := range touched {
			r.groups[gid] = g
		}
	}

	if err := r.store.Write(ctx, persist.PartitionUsers, r.usersSliceLocked()); err != nil {
		rollback()
		return err
	}
	if len(touched) > 0 {
		if err := r.store.Write(ctx, persist.PartitionGroups, r.groupsSliceLocked()); err != nil {
			rollback()
			// Compensate the users partition so durable state matches
			// memory again. If this also fails the store is down and the
			// next successful write wins.
			if werr := r.store.Write(ctx, persist.PartitionUsers, r.usersSliceLocked()); werr != nil {
				r.log.Error("compensating users write failed", zap.Error(werr))
			}
			return err
		}
	}

	delete(r.emailIdx, u.Email)
	delete(r.empIdx, u.EmployeeID)

	// Drop a stale persisted session for the deleted user. Best effort:
	// the in-memory session is terminated by the session manager.
	if rec, err := r.loadSession(ctx); err == nil && rec != nil && rec.User.ID == id {
		if err := r.clearSession(ctx); err != nil {
			r.log.Warn("clearing session for deleted user failed", zap.Error(err))
		}
	}
	return nil
}

// ListUsers returns all users in creation order. The password hash is
// part of the record; stripping it for presentation is the caller's job.
func (r *Repository) ListUsers() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usersSliceLocked()
}

// UserByID looks up a user by id.
func (r *Repository) UserByID(id string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

// FindUserByEmail looks up a user by case-insensitive email.
func (r *Repository) FindUserByEmail(email string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.emailIdx[normalize.Email(email)]
	if !ok {
		return models.User{}, false
	}
	u, ok := r.users[id]
	return u, ok
}

// FindUserByEmployeeID looks up a user by employee id (case-sensitive).
func (r *Repository) FindUserByEmployeeID(employeeID string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.empIdx[normalize.EmployeeID(employeeID)]
	if !ok {
		return models.User{}, false
	}
	u, ok := r.users[id]
	return u, ok
}

// removeString returns a fresh slice; the input's backing array is left
// alone so rollback copies stay valid.
func removeString(s []string, v string) []string {
	out := make([]string, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
