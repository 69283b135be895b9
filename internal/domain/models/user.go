// internal/domain/models/user.go
package models

import "time"

// User represents an account on the platform: admins who manage the
// system and regular users who chat and answer questions.
//
// NOTE:
//   - Email is stored lowercased; EmailCI-style lookups go through the
//     repository, which indexes the normalized form.
//   - Groups is an informational back-reference; the authoritative
//     membership lives on Group.Members and the repository keeps the
//     two sides consistent on every add/remove.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	NameCI     string `json:"name_ci"` // lowercase, diacritics-stripped
	Phone      string `json:"phone"`
	EmployeeID string `json:"employee_id"`
	Location   string `json:"location"`
	IsAdmin    bool   `json:"is_admin"`

	Groups []string `json:"groups"`

	// PasswordHash is a bcrypt hash. It must persist, so it carries a
	// JSON tag; anything crossing the session or API boundary goes
	// through Sanitized first.
	PasswordHash        string    `json:"password_hash,omitempty"`
	PasswordGeneratedAt time.Time `json:"password_generated_at"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// InGroup reports whether the user's back-reference list contains the group.
func (u *User) InGroup(groupID string) bool {
	for _, g := range u.Groups {
		if g == groupID {
			return true
		}
	}
	return false
}

// Sanitized returns a copy safe to expose beyond the session boundary:
// the password hash is cleared.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
