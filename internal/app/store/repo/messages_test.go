// internal/app/store/repo/messages_test.go
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/learnloop/learnloop/internal/domain/models"
)

func TestAppendTextSanitizes(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	alice := mustUser(t, r, "Alice", "alice@test.com")
	g := mustGroup(t, r, "Biology")

	m, err := r.AppendMessage(ctx, models.Message{
		GroupID:    g.ID,
		SenderID:   alice.ID,
		SenderName: alice.Name,
		Content:    `hello <script>alert("x")</script>world`,
		Type:       models.MessageText,
	})
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if strings.Contains(m.Content, "<script>") {
		t.Errorf("script tag survived sanitization: %q", m.Content)
	}
	if !strings.Contains(m.Content, "hello") || !strings.Contains(m.Content, "world") {
		t.Errorf("legitimate text lost: %q", m.Content)
	}

	// A message that is nothing but markup is rejected.
	_, err = r.AppendMessage(ctx, models.Message{
		GroupID: g.ID, SenderID: alice.ID, Content: `<script>x</script>`, Type: models.MessageText,
	})
	if !errors.Is(err, ErrBadMessage) {
		t.Errorf("got %v, want ErrBadMessage", err)
	}
}

func TestAppendMessageUnknownGroup(t *testing.T) {
	r := newTestRepo(t)
	_, err := r.AppendMessage(context.Background(), models.Message{
		GroupID: "nope", Content: "hi", Type: models.MessageText,
	})
	if !errors.Is(err, ErrBadMessage) {
		t.Fatalf("got %v, want ErrBadMessage", err)
	}
}

func TestAppendMessageBadType(t *testing.T) {
	r := newTestRepo(t)
	g := mustGroup(t, r, "Biology")
	_, err := r.AppendMessage(context.Background(), models.Message{
		GroupID: g.ID, Content: "hi", Type: "carrier-pigeon",
	})
	if !errors.Is(err, ErrBadMessage) {
		t.Fatalf("got %v, want ErrBadMessage", err)
	}
}

func TestAppendMCQValidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	alice := mustUser(t, r, "Alice", "alice@test.com")
	g := mustGroup(t, r, "Biology")

	cases := []struct {
		name    string
		payload models.MCQPayload
	}{
		{"no question", models.MCQPayload{Options: []string{"a", "b"}, CorrectAnswer: "a"}},
		{"one option", models.MCQPayload{Question: "q", Options: []string{"a"}, CorrectAnswer: "a"}},
		{"answer not an option", models.MCQPayload{Question: "q", Options: []string{"a", "b"}, CorrectAnswer: "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Marshal directly: the payload is invalid, so Encode would
			// refuse to produce it, but the repository must still reject
			// such content arriving over the wire.
			raw, err := json.Marshal(tc.payload)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			_, err = r.AppendMessage(ctx, models.Message{
				GroupID: g.ID, SenderID: alice.ID, Content: string(raw), Type: models.MessageMCQ,
			})
			if !errors.Is(err, ErrBadMessage) {
				t.Errorf("got %v, want ErrBadMessage", err)
			}
		})
	}

	// And a valid one lands.
	mustQuestion(t, r, g, alice, "What is 2+2?", "4", "3", "4", "5")
}

func TestMessagesAppendOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	alice := mustUser(t, r, "Alice", "alice@test.com")
	g := mustGroup(t, r, "Biology")
	other := mustGroup(t, r, "Chemistry")

	for _, text := range []string{"first", "second", "third"} {
		if _, err := r.AppendMessage(ctx, models.Message{
			GroupID: g.ID, SenderID: alice.ID, Content: text, Type: models.MessageText,
		}); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}
	if _, err := r.AppendMessage(ctx, models.Message{
		GroupID: other.ID, SenderID: alice.ID, Content: "elsewhere", Type: models.MessageText,
	}); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	got := r.ListMessagesForGroup(g.ID)
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Content != want {
			t.Errorf("message %d: got %q, want %q", i, got[i].Content, want)
		}
	}
}
