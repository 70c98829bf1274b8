// Package message defines the canonical chat message type shared by the
// session store, the generation client and the UI.
package message

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message participant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is one entry of a chat session.
// ID, Role and Timestamp are fixed at creation; Content and ImageURL are
// written once by the constructors and never mutated afterwards.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HasImage reports whether the message carries a rendered image.
func (m Message) HasImage() bool {
	return m.ImageURL != ""
}

// Factory creates messages with an injectable clock and id source.
// The zero value uses time.Now and random UUIDs.
type Factory struct {
	Now   func() time.Time
	NewID func() string
}

func (f Factory) now() time.Time {
	if f.Now != nil {
		return f.Now().UTC()
	}
	return time.Now().UTC()
}

func (f Factory) id() string {
	if f.NewID != nil {
		return f.NewID()
	}
	return uuid.NewString()
}

// New creates a message with a fresh id and timestamp.
func (f Factory) New(role Role, content, imageURL string) Message {
	return Message{
		ID:        f.id(),
		Role:      role,
		Content:   content,
		ImageURL:  imageURL,
		Timestamp: f.now(),
	}
}

// User creates a user message.
func (f Factory) User(text string) Message {
	return f.New(RoleUser, text, "")
}

// Assistant creates an assistant message with an optional image data URI.
func (f Factory) Assistant(text, imageURL string) Message {
	return f.New(RoleAssistant, text, imageURL)
}

// System creates a system notice.
func (f Factory) System(text string) Message {
	return f.New(RoleSystem, text, "")
}

// NewUser creates a user message using the default factory.
func NewUser(text string) Message {
	return Factory{}.User(text)
}

// NewAssistant creates an assistant message using the default factory.
func NewAssistant(text, imageURL string) Message {
	return Factory{}.Assistant(text, imageURL)
}

// NewSystem creates a system notice using the default factory.
func NewSystem(text string) Message {
	return Factory{}.System(text)
}

// CountRole returns how many messages in msgs have the given role.
func CountRole(msgs []Message, role Role) int {
	n := 0
	for _, m := range msgs {
		if m.Role == role {
			n++
		}
	}
	return n
}

// Clone returns a copy of msgs that shares no backing array with the input.
func Clone(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
