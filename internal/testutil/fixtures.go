package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/app/store/repo"
	"github.com/learnloop/learnloop/internal/app/system/passwords"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	if rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context); ok {
		rctx.URLParams.Add(key, value)
		return r
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewStore creates a file-backed store in a per-test temp directory.
func NewStore(t *testing.T) *persist.FileStore {
	t.Helper()
	store, err := persist.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating file store: %v", err)
	}
	return store
}

// NewRepo creates a repository over a fresh file store.
func NewRepo(t *testing.T) *repo.Repository {
	t.Helper()
	r, err := repo.Load(context.Background(), NewStore(t), zap.NewNop())
	if err != nil {
		t.Fatalf("loading repository: %v", err)
	}
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	repo *repo.Repository
	t    *testing.T
}

// NewFixtures creates a new Fixtures instance for the given repository.
func NewFixtures(t *testing.T, r *repo.Repository) *Fixtures {
	t.Helper()
	return &Fixtures{repo: r, t: t}
}

// Repo returns the underlying repository for direct access in tests.
func (f *Fixtures) Repo() *repo.Repository {
	return f.repo
}

// CreateUser creates a test user with the given email and password.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()
	return f.createUser(ctx, name, email, password, false)
}

// CreateAdmin creates a test admin with the given email and password.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()
	return f.createUser(ctx, name, email, password, true)
}

func (f *Fixtures) createUser(ctx context.Context, name, email, password string, admin bool) models.User {
	f.t.Helper()

	hash, err := passwords.Hash(password)
	if err != nil {
		f.t.Fatalf("hashing test password: %v", err)
	}
	u, err := f.repo.CreateUser(ctx, repo.UserDraft{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsAdmin:      admin,
		CreatedBy:    "test",
	})
	if err != nil {
		f.t.Fatalf("creating test user: %v", err)
	}
	return u
}

// CreateGroup creates a test group with the given members.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, memberIDs ...string) models.Group {
	f.t.Helper()

	g, err := f.repo.CreateGroup(ctx, name, "test group", "test")
	if err != nil {
		f.t.Fatalf("creating test group: %v", err)
	}
	for _, id := range memberIDs {
		if err := f.repo.AddMember(ctx, g.ID, id); err != nil {
			f.t.Fatalf("adding member %s: %v", id, err)
		}
	}
	g, _ = f.repo.GroupByID(g.ID)
	return g
}

// PostText appends a text message to the group.
func (f *Fixtures) PostText(ctx context.Context, group models.Group, sender models.User, content string) models.Message {
	f.t.Helper()

	m, err := f.repo.AppendMessage(ctx, models.Message{
		GroupID:    group.ID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Content:    content,
		Type:       models.MessageText,
	})
	if err != nil {
		f.t.Fatalf("appending test message: %v", err)
	}
	return m
}

// PostQuestion appends a multiple-choice message to the group.
func (f *Fixtures) PostQuestion(ctx context.Context, group models.Group, sender models.User, question string, options []string, correct string) models.Message {
	f.t.Helper()

	payload := models.MCQPayload{Question: question, Options: options, CorrectAnswer: correct}
	content, err := payload.Encode()
	if err != nil {
		f.t.Fatalf("encoding test question: %v", err)
	}
	m, err := f.repo.AppendMessage(ctx, models.Message{
		GroupID:    group.ID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Content:    content,
		Type:       models.MessageMCQ,
	})
	if err != nil {
		f.t.Fatalf("appending test question: %v", err)
	}
	return m
}
