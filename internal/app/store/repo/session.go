// internal/app/store/repo/session.go
package repo

import (
	"context"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// The session partition holds zero or one record. The repository owns
// it like every other partition; the session manager goes through these
// methods rather than touching the store directly.

// SaveSession persists rec as the current session.
func (r *Repository) SaveSession(ctx context.Context, rec models.SessionRecord) error {
	return r.store.Write(ctx, persist.PartitionSession, []models.SessionRecord{rec})
}

// LoadSession returns the persisted session, or nil if none exists.
func (r *Repository) LoadSession(ctx context.Context) (*models.SessionRecord, error) {
	return r.loadSession(ctx)
}

func (r *Repository) loadSession(ctx context.Context) (*models.SessionRecord, error) {
	var recs []models.SessionRecord
	if err := r.store.Read(ctx, persist.PartitionSession, &recs); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// ClearSession removes any persisted session.
func (r *Repository) ClearSession(ctx context.Context) error {
	return r.clearSession(ctx)
}

func (r *Repository) clearSession(ctx context.Context) error {
	return r.store.Write(ctx, persist.PartitionSession, []models.SessionRecord{})
}
