package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/message"
)

// Store is the sole owner of the chat state. Every mutation goes through
// one of its methods, which keeps the session collection non-empty and the
// active pointer resolvable. Readers receive copies.
type Store struct {
	mu sync.Mutex

	sessions []ChatSession // newest first
	activeID string
	language locale.Language

	loading         bool
	generatingImage bool
	sidebarOpen     bool

	persister Persister
	messages  message.Factory
	now       func() time.Time
	newID     func() string
}

// Option configures a Store.
type Option func(*Store)

// WithPersister saves a snapshot after every committed mutation.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

// WithClock overrides the time source for sessions and messages.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the id source for sessions and messages.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithLanguage sets the language of a fresh store.
// Ignored by Restore when the snapshot carries a valid language.
func WithLanguage(lang locale.Language) Option {
	return func(s *Store) {
		if lang.Valid() {
			s.language = lang
		}
	}
}

// WithSidebarOpen sets the initial sidebar visibility.
func WithSidebarOpen(open bool) Option {
	return func(s *Store) {
		s.sidebarOpen = open
	}
}

func newStore(opts []Option) *Store {
	s := &Store{
		language:    locale.Default,
		sidebarOpen: true,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = message.Factory{Now: s.now, NewID: s.newID}
	return s
}

// New creates a store with one seeded welcome session.
func New(opts ...Option) *Store {
	s := newStore(opts)
	s.initFresh()
	return s
}

// Restore rehydrates a store from a persisted snapshot. Transient flags
// start reset. Missing or dangling fields are repaired; a snapshot without
// sessions yields a fresh state.
func Restore(snap Snapshot, opts ...Option) *Store {
	s := newStore(opts)
	if lang, ok := locale.Parse(string(snap.Language)); ok {
		s.language = lang
	}
	if len(snap.Sessions) == 0 {
		s.initFresh()
		return s
	}

	snap = snap.Clone()
	seen := make(map[string]bool, len(snap.Sessions))
	for i := range snap.Sessions {
		sess := &snap.Sessions[i]
		if sess.ID == "" || seen[sess.ID] {
			sess.ID = s.newID()
		}
		seen[sess.ID] = true
		if sess.Title == "" {
			sess.Title = locale.For(s.language).DefaultTitle
		}
		if sess.CreatedAt.IsZero() {
			sess.CreatedAt = s.now().UTC()
		}
		for j := range sess.Messages {
			if sess.Messages[j].ID == "" {
				sess.Messages[j].ID = s.newID()
			}
			if !sess.Messages[j].Role.Valid() {
				sess.Messages[j].Role = message.RoleSystem
			}
		}
	}
	s.sessions = snap.Sessions
	s.activeID = snap.ActiveSessionID
	if s.indexOf(s.activeID) < 0 {
		s.activeID = s.sessions[0].ID
	}
	return s
}

func (s *Store) initFresh() {
	str := locale.For(s.language)
	sess := ChatSession{
		ID:        s.newID(),
		Title:     str.DefaultTitle,
		Messages:  []message.Message{s.messages.Assistant(str.WelcomeMsg, "")},
		CreatedAt: s.now().UTC(),
	}
	s.sessions = []ChatSession{sess}
	s.activeID = sess.ID
}

// indexOf returns the index of the session with id, or -1. Caller holds mu.
func (s *Store) indexOf(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// snapshotLocked builds the persisted subset. Caller holds mu.
func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Sessions:        s.sessions,
		ActiveSessionID: s.activeID,
		Language:        s.language,
	}.Clone()
}

// persistLocked saves the current state. Failures are logged, never
// returned: the in-memory state stays authoritative. Caller holds mu.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.snapshotLocked()); err != nil {
		log.Logger().Warn("Failed to persist session state", zap.Error(err))
	}
}

// CreateSession prepends a new session seeded with the localized
// new-mission prompt and makes it active.
func (s *Store) CreateSession() ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	str := locale.For(s.language)
	sess := ChatSession{
		ID:        s.newID(),
		Title:     str.DefaultTitle,
		Messages:  []message.Message{s.messages.Assistant(str.NewMissionPrompt, "")},
		CreatedAt: s.now().UTC(),
	}
	s.sessions = append([]ChatSession{sess}, s.sessions...)
	s.activeID = sess.ID
	s.persistLocked()

	log.Logger().Debug("Session created", zap.Object("session", sess))
	return sess.clone()
}

// DeleteSession removes the session with id. Deleting the last remaining
// session fails with ErrLastSession. When the active session is removed
// the first remaining session becomes active.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) <= 1 {
		return ErrLastSession
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrSessionNotFound
	}

	s.sessions = append(s.sessions[:idx:idx], s.sessions[idx+1:]...)
	if s.activeID == id {
		s.activeID = s.sessions[0].ID
	}
	s.persistLocked()
	return nil
}

// SwitchActive makes the session with id active.
func (s *Store) SwitchActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return ErrSessionNotFound
	}
	if s.activeID == id {
		return nil
	}
	s.activeID = id
	s.persistLocked()
	return nil
}

// SwitchRelative moves the active pointer by delta positions in display
// order, wrapping around, and returns the new active id.
func (s *Store) SwitchRelative(delta int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sessions)
	idx := s.indexOf(s.activeID)
	next := ((idx+delta)%n + n) % n
	if next != idx {
		s.activeID = s.sessions[next].ID
		s.persistLocked()
	}
	return s.activeID
}

// AppendUserMessage appends a user message to the active session. The
// first user message of a session also sets its title.
func (s *Store) AppendUserMessage(text string) (message.Message, error) {
	sub, err := s.SubmitUserMessage(text)
	return sub.Message, err
}

// Submission is the state captured when a user message is appended.
type Submission struct {
	SessionID string
	History   []message.Message // messages before Message
	Language  locale.Language
	Message   message.Message
}

// SubmitUserMessage appends text to the active session like
// AppendUserMessage and returns, from the same critical section, the
// session it landed in and the history that preceded it. text is stored
// as given; only the blank check ignores surrounding whitespace.
func (s *Store) SubmitUserMessage(text string) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return Submission{}, ErrEmptyMessage
	}
	sess := &s.sessions[s.indexOf(s.activeID)]
	sub := Submission{
		SessionID: sess.ID,
		History:   message.Clone(sess.Messages),
		Language:  s.language,
	}
	if sess.UserMessageCount() == 0 {
		sess.Title = TitleFromMessage(text)
	}
	sub.Message = s.messages.User(text)
	sess.Messages = append(sess.Messages, sub.Message)
	s.persistLocked()
	return sub, nil
}

// AppendAssistantMessage appends an assistant message to the active session.
func (s *Store) AppendAssistantMessage(content, imageURL string) message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.messages.Assistant(content, imageURL)
	sess := &s.sessions[s.indexOf(s.activeID)]
	sess.Messages = append(sess.Messages, msg)
	s.persistLocked()
	return msg
}

// AppendAssistantMessageTo appends an assistant message to the session
// with sessionID, whether or not it is active.
func (s *Store) AppendAssistantMessageTo(sessionID, content, imageURL string) (message.Message, error) {
	return s.appendTo(sessionID, func() message.Message {
		return s.messages.Assistant(content, imageURL)
	})
}

// AppendSystemMessageTo appends a system notice to the session with
// sessionID, whether or not it is active.
func (s *Store) AppendSystemMessageTo(sessionID, text string) (message.Message, error) {
	return s.appendTo(sessionID, func() message.Message {
		return s.messages.System(text)
	})
}

func (s *Store) appendTo(sessionID string, build func() message.Message) (message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(sessionID)
	if idx < 0 {
		return message.Message{}, ErrSessionNotFound
	}
	msg := build()
	s.sessions[idx].Messages = append(s.sessions[idx].Messages, msg)
	s.persistLocked()
	return msg, nil
}

// DeleteMessage removes the message with id from the active session.
// It reports whether a message was removed.
func (s *Store) DeleteMessage(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &s.sessions[s.indexOf(s.activeID)]
	for i, m := range sess.Messages {
		if m.ID == id {
			sess.Messages = append(sess.Messages[:i:i], sess.Messages[i+1:]...)
			s.persistLocked()
			return true
		}
	}
	return false
}

// SetLanguage changes the display language. Existing messages keep their
// content.
func (s *Store) SetLanguage(lang locale.Language) error {
	if !lang.Valid() {
		return ErrInvalidLanguage
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.language == lang {
		return nil
	}
	s.language = lang
	s.persistLocked()
	return nil
}

// ToggleLanguage switches between the supported languages.
func (s *Store) ToggleLanguage() locale.Language {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.language = s.language.Toggle()
	s.persistLocked()
	return s.language
}

// SetPending sets or clears an in-flight flag. Transient; never persisted.
func (s *Store) SetPending(kind PendingKind, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case PendingText:
		s.loading = on
	case PendingImage:
		s.generatingImage = on
	}
}

// ClearPending resets both in-flight flags.
func (s *Store) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.generatingImage = false
}

// TryBeginPending sets the flag for kind unless a request is already in
// flight, and reports whether it did.
func (s *Store) TryBeginPending(kind PendingKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading || s.generatingImage {
		return false
	}
	switch kind {
	case PendingText:
		s.loading = true
	case PendingImage:
		s.generatingImage = true
	}
	return true
}

// ToggleSidebar flips the sidebar visibility and returns the new value.
func (s *Store) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarOpen = !s.sidebarOpen
	return s.sidebarOpen
}

// Reset wipes the persisted value and starts over with a fresh state.
// The language preference is kept.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.Clear(); err != nil {
			return err
		}
	}
	s.loading = false
	s.generatingImage = false
	s.initFresh()
	s.persistLocked()
	return nil
}

// Sessions returns a copy of all sessions, newest first.
func (s *Store) Sessions() []ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().Sessions
}

// Session returns a copy of the session with id.
func (s *Store) Session(id string) (ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ChatSession{}, false
	}
	return s.sessions[idx].clone(), true
}

// Active returns a copy of the active session.
func (s *Store) Active() ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[s.indexOf(s.activeID)].clone()
}

// ActiveID returns the id of the active session.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Language returns the display language.
func (s *Store) Language() locale.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// Snapshot returns the persisted subset of the state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IsLoading reports whether a text request is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsGeneratingImage reports whether an image request is in flight.
func (s *Store) IsGeneratingImage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generatingImage
}

// Busy reports whether any generation request is in flight.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading || s.generatingImage
}

// SidebarOpen reports whether the session sidebar is visible.
func (s *Store) SidebarOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarOpen
}
