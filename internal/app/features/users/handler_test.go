// internal/app/features/users/handler_test.go
package users

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/app/system/passwords"
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
	return NewHandler(r, sessions, zap.NewNop()), testutil.NewFixtures(t, r)
}

func TestHandleCreate(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"name":              "Bob Carter",
		"email":             "Bob@Test.com",
		"employee_id":       "E200",
		"is_admin":          true,
		"password_strategy": "simple",
	})
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	var body struct {
		User     models.User `json:"user"`
		Password string      `json:"password"`
	}
	rec.DecodeJSON(t, &body)
	if body.User.Email != "bob@test.com" {
		t.Errorf("email: %q", body.User.Email)
	}
	if !body.User.IsAdmin {
		t.Error("is_admin not honored")
	}
	if body.Password == "" {
		t.Fatal("no generated password in response")
	}
	if body.User.PasswordHash != "" {
		t.Error("response leaks the password hash")
	}

	// The returned password must work against the stored hash.
	stored, ok := h.Repo.UserByID(body.User.ID)
	if !ok {
		t.Fatal("created user not persisted")
	}
	if !passwords.Verify(stored.PasswordHash, body.Password) {
		t.Error("generated password does not verify against stored hash")
	}
}

func TestHandleCreateDuplicateEmail(t *testing.T) {
	h, f := newHandler(t)
	f.CreateUser(context.Background(), "Alice", "alice@test.com", "pw")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"name":  "Alice Again",
		"email": "ALICE@test.com",
	})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleCreateValidation(t *testing.T) {
	h, _ := newHandler(t)

	cases := []map[string]any{
		{"email": "a@test.com"},                      // no name
		{"name": "A"},                                // no email
		{"name": "A", "email": "not-an-email"},       // bad shape
		{"name": "   ", "email": "white@test.com"},   // blank name
	}
	for _, body := range cases {
		rec := testutil.NewRecorder()
		h.HandleCreate(rec, testutil.NewJSONRequest(t, http.MethodPost, "/", body))
		rec.AssertStatus(t, http.StatusBadRequest)
	}
}

func TestHandleUpdatePartial(t *testing.T) {
	h, f := newHandler(t)
	u := f.CreateUser(context.Background(), "Alice", "alice@test.com", "pw")

	req := testutil.NewJSONRequest(t, http.MethodPut, "/"+u.ID, map[string]any{
		"location": "Springfield",
	})
	req = testutil.WithChiURLParam(req, "id", u.ID)
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var body models.User
	rec.DecodeJSON(t, &body)
	if body.Location != "Springfield" {
		t.Errorf("location: %q", body.Location)
	}
	if body.Name != "Alice" || body.Email != "alice@test.com" {
		t.Error("absent fields were not left alone")
	}
}

func TestHandleUpdateNotFound(t *testing.T) {
	h, _ := newHandler(t)
	req := testutil.NewJSONRequest(t, http.MethodPut, "/missing", map[string]any{"name": "X"})
	req = testutil.WithChiURLParam(req, "id", "missing")
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleRotatePassword(t *testing.T) {
	h, f := newHandler(t)
	u := f.CreateUser(context.Background(), "Alice", "alice@test.com", "old-pw")

	// Empty body is allowed; the secure strategy is the default.
	req := testutil.NewRequest(http.MethodPost, "/"+u.ID+"/password")
	req = testutil.WithChiURLParam(req, "id", u.ID)
	rec := testutil.NewRecorder()
	h.HandleRotatePassword(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Password string `json:"password"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Password) != 12 {
		t.Errorf("secure password length: %d", len(body.Password))
	}

	stored, _ := h.Repo.UserByID(u.ID)
	if !passwords.Verify(stored.PasswordHash, body.Password) {
		t.Error("new password does not verify")
	}
	if passwords.Verify(stored.PasswordHash, "old-pw") {
		t.Error("old password still works")
	}
}

func TestHandleDeleteEndsSession(t *testing.T) {
	h, f := newHandler(t)
	u := f.CreateUser(context.Background(), "Alice", "alice@test.com", "s3cret")
	if _, ok := h.Sessions.Core().Login(context.Background(), u.Email, "s3cret"); !ok {
		t.Fatal("login failed")
	}

	req := testutil.NewRequest(http.MethodDelete, "/"+u.ID)
	req = testutil.WithChiURLParam(req, "id", u.ID)
	rec := testutil.NewRecorder()
	h.HandleDelete(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if _, ok := h.Repo.UserByID(u.ID); ok {
		t.Error("user still present after delete")
	}
	if h.Sessions.Core().Current() != nil {
		t.Error("deleted user's session survived")
	}
}

func TestHandleListSanitizes(t *testing.T) {
	h, f := newHandler(t)
	f.CreateUser(context.Background(), "Alice", "alice@test.com", "pw")

	rec := testutil.NewRecorder()
	h.HandleList(rec, testutil.NewRequest(http.MethodGet, "/"))

	rec.AssertStatus(t, http.StatusOK)
	var body []models.User
	rec.DecodeJSON(t, &body)
	if len(body) != 1 {
		t.Fatalf("users: %d", len(body))
	}
	if body[0].PasswordHash != "" {
		t.Error("list leaks password hashes")
	}
}
