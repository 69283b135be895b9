// internal/app/features/login/handler_test.go
package login

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/domain/models"
	"github.com/learnloop/learnloop/internal/testutil"
)

func newHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	r := testutil.NewRepo(t)
	core := auth.NewManager(r, zap.NewNop())
	sessions, err := auth.NewSessionManager(core, "0123456789abcdef0123456789abcdef", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return NewHandler(sessions, zap.NewNop()), testutil.NewFixtures(t, r)
}

func TestHandleLoginSuccess(t *testing.T) {
	h, f := newHandler(t)
	f.CreateUser(context.Background(), "Alice", "alice@test.com", "s3cret")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{
		"email":    "ALICE@test.com",
		"password": "s3cret",
	})
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if len(rec.Result().Cookies()) == 0 {
		t.Error("no session cookie set")
	}
	var body models.User
	rec.DecodeJSON(t, &body)
	if body.Email != "alice@test.com" {
		t.Errorf("body email: %q", body.Email)
	}
	if body.PasswordHash != "" {
		t.Error("response leaks the password hash")
	}
}

func TestHandleLoginBadCredentials(t *testing.T) {
	h, f := newHandler(t)
	f.CreateUser(context.Background(), "Alice", "alice@test.com", "s3cret")

	cases := []map[string]string{
		{"email": "alice@test.com", "password": "wrong"},
		{"email": "ghost@test.com", "password": "s3cret"},
	}
	for _, body := range cases {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/login", body)
		rec := testutil.NewRecorder()
		h.HandleLogin(rec, req)
		rec.AssertStatus(t, http.StatusUnauthorized)
	}
}

func TestHandleLoginMissingFields(t *testing.T) {
	h, _ := newHandler(t)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{"email": "a@test.com"})
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleMe(t *testing.T) {
	h, _ := newHandler(t)

	rec := testutil.NewRecorder()
	h.HandleMe(rec, testutil.NewRequest(http.MethodGet, "/me"))
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = testutil.NewRecorder()
	h.HandleMe(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/me", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "admin@test.com")
}
