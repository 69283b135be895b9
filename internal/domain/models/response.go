// internal/domain/models/response.go
package models

import "time"

// Response records one user's answer to an MCQ message. At most one
// response exists per (MessageID, UserID) pair; the repository rejects a
// second submission. UserName and UserEmail are snapshots taken at
// submission time.
type Response struct {
	ID             string    `json:"id"`
	MessageID      string    `json:"message_id"`
	UserID         string    `json:"user_id"`
	UserName       string    `json:"user_name"`
	UserEmail      string    `json:"user_email"`
	GroupID        string    `json:"group_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	Timestamp      time.Time `json:"timestamp"`
}
