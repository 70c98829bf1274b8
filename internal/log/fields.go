package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/provider"
)

// messageMarshaler wraps a Message for zap logging
type messageMarshaler message.Message

func (m messageMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", m.ID)
	enc.AddString("role", string(m.Role))
	enc.AddString("content", truncateForLog(escapeForLog(m.Content), 200))
	if m.ImageURL != "" {
		enc.AddInt("image_bytes", len(m.ImageURL))
	}
	return nil
}

// messagesMarshaler wraps a slice of Messages for zap logging
type messagesMarshaler []message.Message

func (m messagesMarshaler) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, msg := range m {
		_ = enc.AppendObject(messageMarshaler(msg))
	}
	return nil
}

// MessageField creates a zap field for one message
func MessageField(msg message.Message) zap.Field {
	return zap.Object("message", messageMarshaler(msg))
}

// MessagesField creates a zap field for messages
func MessagesField(messages []message.Message) zap.Field {
	return zap.Array("messages", messagesMarshaler(messages))
}

// turnMarshaler wraps a Turn for zap logging
type turnMarshaler provider.Turn

func (t turnMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("role", string(t.Role))
	enc.AddString("text", truncateForLog(escapeForLog(t.Text), 200))
	return nil
}

// turnsMarshaler wraps a slice of Turns for zap logging
type turnsMarshaler []provider.Turn

func (t turnsMarshaler) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, turn := range t {
		_ = enc.AppendObject(turnMarshaler(turn))
	}
	return nil
}

// TurnsField creates a zap field for request turns
func TurnsField(turns []provider.Turn) zap.Field {
	return zap.Array("turns", turnsMarshaler(turns))
}
