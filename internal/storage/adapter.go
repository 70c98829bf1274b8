package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/session"
)

// StateKey is the key the session state is stored under.
const StateKey = "cyber_chatbot_sessions_v2"

const defaultTimeout = 5 * time.Second

// ErrCorrupt marks a stored value that could not be decoded.
// Load logs it and reports the value as absent.
var ErrCorrupt = errors.New("persisted state is corrupt")

// Adapter persists session snapshots under a single key of a KV.
type Adapter struct {
	kv      KV
	key     string
	timeout time.Duration
}

// NewAdapter creates an adapter over kv using StateKey.
func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv, key: StateKey, timeout: defaultTimeout}
}

// Load returns the stored snapshot. The boolean is false when nothing was
// ever saved, or when the stored value is unreadable.
func (a *Adapter) Load(ctx context.Context) (session.Snapshot, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	data, err := a.kv.Get(ctx, a.key)
	if errors.Is(err, ErrNotFound) {
		return session.Snapshot{}, false
	}
	if err != nil {
		log.Logger().Warn("Failed to read persisted state", zap.String("key", a.key), zap.Error(err))
		return session.Snapshot{}, false
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		log.Logger().Warn("Ignoring persisted state", zap.String("key", a.key), zap.Error(err))
		return session.Snapshot{}, false
	}
	return snap, true
}

// decodeSnapshot parses a stored value. Missing fields decode to zero
// values and are repaired by session.Restore.
func decodeSnapshot(data []byte) (session.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return session.Snapshot{}, fmt.Errorf("%w: empty value", ErrCorrupt)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return snap, nil
}

// Save implements session.Persister.
func (a *Adapter) Save(snap session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	return a.kv.Set(ctx, a.key, data)
}

// Clear implements session.Persister.
func (a *Adapter) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	return a.kv.Delete(ctx, a.key)
}

var _ session.Persister = (*Adapter)(nil)
