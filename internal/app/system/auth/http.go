// internal/app/system/auth/http.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/domain/models"
)

const userIDKey = "user_id"

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// SessionManager binds the core Manager to HTTP: a signed session
// cookie carries the user id, and middleware resolves it to a fresh
// user record on every request so role changes and deletions take
// effect immediately.
type SessionManager struct {
	core        *Manager
	store       *sessions.CookieStore
	sessionName string
	log         *zap.Logger
}

// NewSessionManager builds the cookie store. The session key must be
// at least 32 random characters in production; short keys are accepted
// with a warning so local dev still works.
func NewSessionManager(core *Manager, sessionKey, sessionName, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		key := securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, fmt.Errorf("session key generation failed")
		}
		sessionKey = string(key)
		logger.Warn("no session key configured; generated an ephemeral one (sessions reset on restart)")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	return &SessionManager{
		core:        core,
		store:       store,
		sessionName: sessionName,
		log:         logger,
	}, nil
}

// Core exposes the underlying session manager.
func (s *SessionManager) Core() *Manager { return s.core }

// Establish writes the session cookie after a successful login.
func (s *SessionManager) Establish(w http.ResponseWriter, r *http.Request, user models.User) error {
	sess, _ := s.store.Get(r, s.sessionName)
	sess.Values[userIDKey] = user.ID
	return sess.Save(r, w)
}

// Clear expires the session cookie.
func (s *SessionManager) Clear(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.store.Get(r, s.sessionName)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		s.log.Warn("clearing session cookie failed", zap.Error(err))
	}
}

// CurrentUser returns the request's authenticated user, if any.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok
}

// WithTestUser injects a user into the request context. Test helper;
// bypasses the cookie round trip.
func WithTestUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// LoadSessionUser resolves the session cookie to a fresh user record
// and injects it into the request context. A cookie whose user no
// longer exists is ignored.
func (s *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := s.store.Get(r, s.sessionName)
		if id, ok := sess.Values[userIDKey].(string); ok && id != "" {
			if u, found := s.core.repo.UserByID(id); found {
				sanitized := u.Sanitized()
				r = r.WithContext(context.WithValue(r.Context(), currentUserKey, &sanitized))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects anonymous requests with a JSON 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and non-admin users
// with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !u.IsAdmin {
			writeJSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
