// Package chat runs one generation turn against the session store: it
// records the user prompt, calls the generation client and appends the
// reply to the session that issued the request.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanmxa/cyberchat/internal/client"
	"github.com/yanmxa/cyberchat/internal/hooks"
	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/session"
)

// Request kinds.
const (
	Text  = session.PendingText
	Image = session.PendingImage
)

// DefaultImagePrompt is rendered when the image prompt is blank.
const DefaultImagePrompt = "Futuristic Cyberpunk scene"

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 2 * time.Minute

// ErrBusy is returned when a request is already in flight.
var ErrBusy = errors.New("a generation request is already in flight")

// Ticket describes an accepted request. It is created by Begin and carries
// everything Execute and Finish need, so the reply lands in the session
// that issued it even if the user switches away meanwhile.
type Ticket struct {
	Kind        session.PendingKind
	SessionID   string
	Prompt      string
	History     []message.Message // messages before the prompt
	Language    locale.Language
	UserMessage message.Message
}

// Outcome is the result of executing a ticket.
type Outcome struct {
	Text     string
	ImageURL string
	Err      error

	// Blocked holds the reason a UserPromptSubmit hook refused the
	// request. No remote call was made.
	Blocked string

	// Notice is the systemMessage returned by UserPromptSubmit hooks.
	Notice string
}

// Service coordinates the store and the generation client.
type Service struct {
	store   *session.Store
	gen     client.Generator
	hooks   *hooks.Engine
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout overrides DefaultTimeout. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithHooks runs the configured event hooks around each turn.
func WithHooks(e *hooks.Engine) Option {
	return func(s *Service) { s.hooks = e }
}

// New creates a Service.
func New(store *session.Store, gen client.Generator, opts ...Option) *Service {
	s := &Service{store: store, gen: gen, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying session store.
func (s *Service) Store() *session.Store {
	return s.store
}

// Begin marks a request of kind as in flight and appends the user message
// to the active session. The input is recorded exactly as typed. A blank
// text prompt is rejected; a blank image prompt falls back to
// DefaultImagePrompt.
func (s *Service) Begin(kind session.PendingKind, input string) (Ticket, error) {
	prompt := input
	if strings.TrimSpace(input) == "" {
		if kind != Image {
			return Ticket{}, session.ErrEmptyMessage
		}
		prompt = DefaultImagePrompt
	}
	if !s.store.TryBeginPending(kind) {
		return Ticket{}, ErrBusy
	}

	sub, err := s.store.SubmitUserMessage(prompt)
	if err != nil {
		s.store.SetPending(kind, false)
		return Ticket{}, err
	}
	return Ticket{
		Kind:        kind,
		SessionID:   sub.SessionID,
		Prompt:      prompt,
		History:     sub.History,
		Language:    sub.Language,
		UserMessage: sub.Message,
	}, nil
}

// Execute performs the remote call for t. It holds no store lock and may
// run on any goroutine.
func (s *Service) Execute(ctx context.Context, t Ticket) Outcome {
	var notice string
	if s.hooks.HasHooks(hooks.UserPromptSubmit) {
		res := s.hooks.Execute(ctx, hooks.UserPromptSubmit, hooks.HookInput{
			SessionID: t.SessionID,
			Language:  string(t.Language),
			Kind:      t.Kind.String(),
			Prompt:    t.Prompt,
		})
		if res.ShouldBlock {
			return Outcome{Blocked: res.BlockReason, Notice: res.SystemMessage}
		}
		notice = res.SystemMessage
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	switch t.Kind {
	case Image:
		url, err := s.gen.RequestImage(ctx, t.Prompt)
		return Outcome{ImageURL: url, Err: err, Notice: notice}
	default:
		text, err := s.gen.RequestCompletion(ctx, t.Prompt, t.History, t.Language)
		return Outcome{Text: text, Err: err, Notice: notice}
	}
}

// Finish clears the in-flight flag and appends the assistant reply to the
// originating session, preceded by any hook notice as a system message.
// Failures become a localized error message. If the
// session was deleted meanwhile, the reply is dropped and
// session.ErrSessionNotFound is returned.
func (s *Service) Finish(t Ticket, o Outcome) (message.Message, error) {
	defer s.store.SetPending(t.Kind, false)

	strs := locale.For(t.Language)
	var content, imageURL string
	switch {
	case o.Blocked != "":
		log.Logger().Info("Request blocked by hook", zap.String("reason", o.Blocked))
		content = "⛔ " + o.Blocked
	case o.Err != nil:
		log.LogError("generation failed", o.Err)
		content = strs.ErrorConn
	case t.Kind == Image && o.ImageURL == "":
		log.Logger().Warn("Image response contained no image", zap.String("session", t.SessionID))
		content = strs.SystemError
	case t.Kind == Image:
		content = strs.ImageCaption(t.Prompt)
		imageURL = o.ImageURL
	case strings.TrimSpace(o.Text) == "":
		content = strs.SystemError
	default:
		content = o.Text
	}

	if o.Notice != "" {
		if _, err := s.store.AppendSystemMessageTo(t.SessionID, o.Notice); err != nil {
			log.Logger().Debug("Dropped hook notice", zap.String("session", t.SessionID))
		}
	}
	msg, err := s.store.AppendAssistantMessageTo(t.SessionID, content, imageURL)
	if err != nil {
		log.Logger().Info("Dropped reply for deleted session",
			zap.String("session", t.SessionID),
			zap.Stringer("kind", t.Kind))
		return message.Message{}, err
	}

	input := hooks.HookInput{
		SessionID: t.SessionID,
		Language:  string(t.Language),
		Kind:      t.Kind.String(),
		Prompt:    t.Prompt,
		Reply:     content,
		HasImage:  imageURL != "",
	}
	if o.Err != nil {
		input.Error = o.Err.Error()
	}
	s.hooks.ExecuteAsync(hooks.Stop, input)
	return msg, nil
}

// Send runs a whole turn synchronously.
func (s *Service) Send(ctx context.Context, kind session.PendingKind, input string) (message.Message, error) {
	t, err := s.Begin(kind, input)
	if err != nil {
		return message.Message{}, err
	}
	return s.Finish(t, s.Execute(ctx, t))
}

// NewSession starts a new active session.
func (s *Service) NewSession() session.ChatSession {
	sess := s.store.CreateSession()
	s.hooks.ExecuteAsync(hooks.SessionStart, hooks.HookInput{
		SessionID: sess.ID,
		Language:  string(s.store.Language()),
		Source:    "new",
	})
	return sess
}

// DeleteSession removes the session with id. See session.Store.DeleteSession.
func (s *Service) DeleteSession(id string) error {
	if err := s.store.DeleteSession(id); err != nil {
		return err
	}
	s.hooks.ExecuteAsync(hooks.SessionEnd, hooks.HookInput{SessionID: id, Reason: "delete"})
	return nil
}

// Reset wipes all sessions. It is refused while a request is in flight.
func (s *Service) Reset() error {
	if s.store.Busy() {
		return ErrBusy
	}
	var ids []string
	for _, sess := range s.store.Sessions() {
		ids = append(ids, sess.ID)
	}
	if err := s.store.Reset(); err != nil {
		return err
	}
	for _, id := range ids {
		s.hooks.ExecuteAsync(hooks.SessionEnd, hooks.HookInput{SessionID: id, Reason: "reset"})
	}
	return nil
}
