// internal/domain/models/message.go
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Message types. MCQ messages carry a serialized MCQPayload in Content.
const (
	MessageText  = "text"
	MessageImage = "image"
	MessageFile  = "file"
	MessageMCQ   = "mcq"
)

// Message is an append-only broadcast to a group. SenderName is a
// snapshot of the sender's name at send time, not a live reference:
// renaming or deleting the sender later does not rewrite history.
type Message struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"group_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
}

// IsValidMessageType reports whether t is one of the known message types.
func IsValidMessageType(t string) bool {
	switch t {
	case MessageText, MessageImage, MessageFile, MessageMCQ:
		return true
	}
	return false
}

// MCQPayload is the structured body of an MCQ message. Options keeps its
// order; CorrectAnswer must equal one of the options.
type MCQPayload struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

var errBadMCQ = errors.New("mcq payload invalid")

// Validate checks the payload shape: a question, at least two options,
// and a correct answer that is one of the options.
func (p *MCQPayload) Validate() error {
	if p.Question == "" {
		return fmt.Errorf("%w: question is required", errBadMCQ)
	}
	if len(p.Options) < 2 {
		return fmt.Errorf("%w: at least two options required", errBadMCQ)
	}
	for _, opt := range p.Options {
		if opt == p.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct answer must be one of the options", errBadMCQ)
}

// Encode serializes the payload for storage in Message.Content.
func (p *MCQPayload) Encode() (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeMCQ parses an MCQ message's Content back into a payload.
// It fails for non-MCQ messages.
func (m *Message) DecodeMCQ() (MCQPayload, error) {
	if m.Type != MessageMCQ {
		return MCQPayload{}, fmt.Errorf("message %s is not an mcq", m.ID)
	}
	var p MCQPayload
	if err := json.Unmarshal([]byte(m.Content), &p); err != nil {
		return MCQPayload{}, fmt.Errorf("decode mcq payload: %w", err)
	}
	return p, nil
}
