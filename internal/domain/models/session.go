// internal/domain/models/session.go
package models

import "time"

// SessionRecord is the persisted "current session": the authenticated
// user minus the password hash, written to the session partition so a
// restarted process can pick the session back up.
type SessionRecord struct {
	User       User      `json:"user"`
	LoggedInAt time.Time `json:"logged_in_at"`
}
