// Package auth owns authentication and the current session: the core
// session manager (login, logout, restore, the persisted session
// record) and the HTTP middleware that projects it onto requests.
package auth

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/passwords"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// Manager is the session state machine: Anonymous until a successful
// Login, Anonymous again after Logout or when the logged-in user is
// deleted. The active session is persisted to the session partition so
// a restarted process can restore it.
type Manager struct {
	repo *repo.Repository
	log  *zap.Logger

	mu      sync.Mutex
	current *models.User // sanitized; nil when anonymous
}

// NewManager returns an anonymous session manager.
func NewManager(r *repo.Repository, logger *zap.Logger) *Manager {
	return &Manager{repo: r, log: logger}
}

// Login authenticates by case-insensitive email and password. It reloads
// the users partition first so authentication runs against the freshest
// persisted user set, not a snapshot that another actor may have
// outdated; if that read fails, the last good snapshot is used and a
// warning logged. Failure is a plain false: whether the email existed
// or the password was wrong is deliberately not distinguishable.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, bool) {
	if err := m.repo.ReloadUsers(ctx); err != nil {
		m.log.Warn("user reload before login failed; using last snapshot", zap.Error(err))
	}

	u, ok := m.repo.FindUserByEmail(email)
	if !ok || !passwords.Verify(u.PasswordHash, password) {
		return models.User{}, false
	}

	sanitized := u.Sanitized()
	rec := models.SessionRecord{User: sanitized, LoggedInAt: time.Now().UTC()}
	if err := m.repo.SaveSession(ctx, rec); err != nil {
		m.log.Warn("persisting session failed", zap.Error(err))
	}

	m.mu.Lock()
	m.current = &sanitized
	m.mu.Unlock()
	return sanitized, true
}

// Logout clears the persisted and in-memory session unconditionally.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.repo.ClearSession(ctx); err != nil {
		m.log.Warn("clearing persisted session failed", zap.Error(err))
	}
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Current returns the authenticated user (password hash absent), or nil.
func (m *Manager) Current() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// Restore picks up a persisted session at process start. A session
// whose user no longer exists is stale and is discarded.
func (m *Manager) Restore(ctx context.Context) error {
	rec, err := m.repo.LoadSession(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	if _, ok := m.repo.UserByID(rec.User.ID); !ok {
		m.log.Info("discarding stale session", zap.String("user_id", rec.User.ID))
		return m.repo.ClearSession(ctx)
	}
	u := rec.User.Sanitized()
	m.mu.Lock()
	m.current = &u
	m.mu.Unlock()
	return nil
}

// InvalidateUser terminates the session if it belongs to the given
// user. Called after a user delete so the deleted identity cannot keep
// an active session.
func (m *Manager) InvalidateUser(ctx context.Context, userID string) {
	m.mu.Lock()
	active := m.current != nil && m.current.ID == userID
	m.mu.Unlock()
	if active {
		m.Logout(ctx)
	}
}
