package session

import (
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/message"
)

// ChatSession is one independent conversation thread.
type ChatSession struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Messages  []message.Message `json:"messages"`
	CreatedAt time.Time         `json:"createdAt"`
}

// UserMessageCount returns the number of user messages in the session.
func (s ChatSession) UserMessageCount() int {
	return message.CountRole(s.Messages, message.RoleUser)
}

// clone returns a deep copy of the session.
func (s ChatSession) clone() ChatSession {
	s.Messages = message.Clone(s.Messages)
	return s
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s ChatSession) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", s.ID)
	enc.AddString("title", s.Title)
	enc.AddInt("messages", len(s.Messages))
	return nil
}

// Snapshot is the persisted subset of the application state.
// Transient flags (pending requests, sidebar) are never part of it.
type Snapshot struct {
	Sessions        []ChatSession   `json:"sessions"`
	ActiveSessionID string          `json:"activeSessionId"`
	Language        locale.Language `json:"language"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		ActiveSessionID: s.ActiveSessionID,
		Language:        s.Language,
	}
	if s.Sessions != nil {
		out.Sessions = make([]ChatSession, len(s.Sessions))
		for i, sess := range s.Sessions {
			out.Sessions[i] = sess.clone()
		}
	}
	return out
}

// PendingKind identifies which generation request is in flight.
type PendingKind int

const (
	PendingText PendingKind = iota
	PendingImage
)

func (k PendingKind) String() string {
	if k == PendingImage {
		return "image"
	}
	return "text"
}

// Persister stores snapshots of the session state.
type Persister interface {
	Save(Snapshot) error
	Clear() error
}
