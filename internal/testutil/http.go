package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop/internal/app/system/auth"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// AdminUser returns an admin user record for context injection.
func AdminUser() models.User {
	return models.User{
		ID:      uuid.NewString(),
		Name:    "Test Admin",
		Email:   "admin@test.com",
		IsAdmin: true,
	}
}

// MemberUser returns a non-admin user record for context injection.
func MemberUser() models.User {
	return models.User{
		ID:    uuid.NewString(),
		Name:  "Test Member",
		Email: "member@test.com",
	}
}

// WithUser adds a user to the request context for testing
// authenticated handlers. This bypasses the session middleware and
// injects the user directly.
func WithUser(r *http.Request, user models.User) *http.Request {
	return auth.WithTestUser(r, &user)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a user in
// context.
func NewAuthenticatedRequest(method, target string, user models.User) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// DecodeJSON unmarshals the response body into dest.
func (r *ResponseRecorder) DecodeJSON(t *testing.T, dest any) {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		t.Fatalf("decoding response body %q: %v", body, err)
	}
}

// AssertContains checks if the response body contains the expected
// string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !bytes.Contains(r.Body.Bytes(), []byte(expected)) {
		t.Errorf("response body does not contain %q", expected)
	}
}
