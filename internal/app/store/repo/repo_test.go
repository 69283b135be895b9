// internal/app/store/repo/repo_test.go
package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/app/system/passwords"
	"github.com/learnloop/learnloop/internal/domain/models"
)

var errWriteFailed = errors.New("write failed")

// faultStore wraps a real store and fails writes to the named
// partitions on demand.
type faultStore struct {
	persist.Store
	failWrites map[string]bool
}

func newFaultStore(t *testing.T) *faultStore {
	t.Helper()
	inner, err := persist.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return &faultStore{Store: inner, failWrites: map[string]bool{}}
}

func (s *faultStore) Write(ctx context.Context, partition string, records any) error {
	if s.failWrites[partition] {
		return fmt.Errorf("%w: %s", errWriteFailed, partition)
	}
	return s.Store.Write(ctx, partition, records)
}

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	store, err := persist.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	r, err := Load(context.Background(), store, zap.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return r
}

func mustUser(t *testing.T, r *Repository, name, email string) models.User {
	t.Helper()
	hash, err := passwords.Hash("pw")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	u, err := r.CreateUser(context.Background(), UserDraft{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedBy:    "test",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func mustGroup(t *testing.T, r *Repository, name string) models.Group {
	t.Helper()
	g, err := r.CreateGroup(context.Background(), name, "", "test")
	if err != nil {
		t.Fatalf("CreateGroup(%s): %v", name, err)
	}
	return g
}

func mustQuestion(t *testing.T, r *Repository, group models.Group, sender models.User, question, correct string, options ...string) models.Message {
	t.Helper()
	payload := models.MCQPayload{Question: question, Options: options, CorrectAnswer: correct}
	content, err := payload.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m, err := r.AppendMessage(context.Background(), models.Message{
		GroupID:    group.ID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Content:    content,
		Type:       models.MessageMCQ,
	})
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	return m
}

func TestReloadPreservesData(t *testing.T) {
	ctx := context.Background()
	store, err := persist.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	first, err := Load(ctx, store, zap.NewNop())
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	u := mustUser(t, first, "Alice", "alice@test.com")
	g := mustGroup(t, first, "Biology")
	if err := first.AddMember(ctx, g.ID, u.ID); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	// A second repository over the same store sees everything.
	second, err := Load(ctx, store, zap.NewNop())
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	got, ok := second.UserByID(u.ID)
	if !ok {
		t.Fatal("user missing after reload")
	}
	if !got.InGroup(g.ID) {
		t.Error("group back-reference missing after reload")
	}
	if gg, ok := second.GroupByID(g.ID); !ok || !gg.HasMember(u.ID) {
		t.Error("group membership missing after reload")
	}
}

func TestReloadKeepsSnapshotOnFailure(t *testing.T) {
	ctx := context.Background()
	fs := newFaultStore(t)
	r, err := Load(ctx, fs, zap.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mustUser(t, r, "Alice", "alice@test.com")

	// Swap in a store whose reads fail and confirm the snapshot
	// survives a failed reload.
	r.store = readFailStore{}
	if err := r.Reload(ctx); err == nil {
		t.Fatal("Reload over broken store should fail")
	}
	if _, ok := r.FindUserByEmail("alice@test.com"); !ok {
		t.Error("snapshot lost after failed reload")
	}
}

type readFailStore struct{}

func (readFailStore) Read(ctx context.Context, partition string, dest any) error {
	return errors.New("read failed")
}

func (readFailStore) Write(ctx context.Context, partition string, records any) error {
	return errors.New("write failed")
}
