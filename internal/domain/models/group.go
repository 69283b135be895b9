// internal/domain/models/group.go
package models

import "time"

// Group is a cohort of users that messages and questions are broadcast to.
//
// Members is the authoritative member list; each member User carries the
// group id in its Groups back-reference. The repository updates both
// sides together, so no state exists where only one side reflects a
// membership.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Members     []string  `json:"members"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasMember reports whether the group's member list contains the user.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
