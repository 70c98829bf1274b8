package message

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func fixedFactory() Factory {
	n := 0
	return Factory{
		Now: func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
		NewID: func() string {
			n++
			return "id-" + string(rune('0'+n))
		},
	}
}

func TestUserMessage(t *testing.T) {
	msg := fixedFactory().User("hello")
	if msg.Role != RoleUser {
		t.Errorf("expected role %q, got %q", RoleUser, msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("expected content 'hello', got %q", msg.Content)
	}
	if msg.ID != "id-1" {
		t.Errorf("expected id 'id-1', got %q", msg.ID)
	}
	if msg.HasImage() {
		t.Error("user message should not carry an image")
	}
}

func TestAssistantMessageWithImage(t *testing.T) {
	msg := fixedFactory().Assistant("caption", "data:image/png;base64,AAAA")
	if msg.Role != RoleAssistant {
		t.Errorf("expected role %q, got %q", RoleAssistant, msg.Role)
	}
	if !msg.HasImage() {
		t.Error("expected image on assistant message")
	}
}

func TestDefaultFactoryGeneratesUniqueIDs(t *testing.T) {
	a := NewUser("a")
	b := NewUser("b")
	if a.ID == "" || b.ID == "" {
		t.Fatal("expected non-empty ids")
	}
	if a.ID == b.ID {
		t.Errorf("expected unique ids, both were %q", a.ID)
	}
	if a.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleUser, true},
		{RoleAssistant, true},
		{RoleSystem, true},
		{Role("model"), false},
		{Role(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Valid(); got != tt.want {
				t.Errorf("Role(%q).Valid() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestMessageJSONFieldNames(t *testing.T) {
	msg := fixedFactory().Assistant("hi", "data:image/png;base64,AA")
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, field := range []string{`"id"`, `"role"`, `"content"`, `"imageUrl"`, `"timestamp":"2025-01-02T03:04:05Z"`} {
		if !strings.Contains(s, field) {
			t.Errorf("expected %s in %s", field, s)
		}
	}

	plain := fixedFactory().User("hi")
	data, _ = json.Marshal(plain)
	if strings.Contains(string(data), "imageUrl") {
		t.Errorf("imageUrl should be omitted when empty: %s", data)
	}
}

func TestParsesBrowserTimestamps(t *testing.T) {
	raw := `{"id":"welcome","role":"assistant","content":"hi","timestamp":"2024-05-01T10:20:30.123Z"}`
	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Timestamp.Year() != 2024 || msg.Timestamp.Nanosecond() != 123000000 {
		t.Errorf("unexpected timestamp %v", msg.Timestamp)
	}
}

func TestCountRoleAndClone(t *testing.T) {
	f := fixedFactory()
	msgs := []Message{f.Assistant("welcome", ""), f.User("q1"), f.Assistant("a1", ""), f.User("q2")}
	if n := CountRole(msgs, RoleUser); n != 2 {
		t.Errorf("expected 2 user messages, got %d", n)
	}

	cp := Clone(msgs)
	cp[0].Content = "changed"
	if msgs[0].Content != "welcome" {
		t.Error("Clone should not share the backing array")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}
