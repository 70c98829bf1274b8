// Package app wires settings, storage, the session store and the
// generation client into a running chat application.
package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/yanmxa/cyberchat/internal/chat"
	"github.com/yanmxa/cyberchat/internal/client"
	"github.com/yanmxa/cyberchat/internal/config"
	"github.com/yanmxa/cyberchat/internal/hooks"
	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/provider"
	"github.com/yanmxa/cyberchat/internal/session"
	"github.com/yanmxa/cyberchat/internal/storage"
	"github.com/yanmxa/cyberchat/internal/system"

	// Import providers for registration
	_ "github.com/yanmxa/cyberchat/internal/provider/anthropic"
	_ "github.com/yanmxa/cyberchat/internal/provider/google"
	_ "github.com/yanmxa/cyberchat/internal/provider/openai"
)

// State is the persisted side of the application: the storage medium, the
// session store restored from it and the configured hooks. Chat manages
// sessions; it can only generate once Open has attached a client.
type State struct {
	KV      storage.KV
	Adapter *storage.Adapter
	Store   *session.Store
	Hooks   *hooks.Engine
	Chat    *chat.Service
}

// Close releases the storage medium.
func (s *State) Close() error {
	return s.KV.Close()
}

// App is a fully wired chat application.
type App struct {
	*State
	Settings *config.Settings
	Meta     provider.ProviderMeta
	Client   *client.Client
	Models   *provider.Store
}

// OpenKV opens the storage medium described by settings. ephemeral
// selects the in-memory store regardless of settings.
func OpenKV(settings config.StorageSettings, ephemeral bool) (storage.KV, error) {
	if ephemeral {
		return storage.Open(storage.StoreTypeMemory)
	}
	storeType, err := storage.ParseStoreType(settings.Type)
	if err != nil {
		return nil, err
	}
	return storage.Open(storeType,
		storage.WithDir(settings.Dir),
		storage.WithSQLitePath(settings.SQLitePath),
		storage.WithRedisAddr(settings.RedisAddr, settings.RedisPassword, settings.RedisDB),
		storage.WithRedisPrefix(settings.RedisPrefix),
	)
}

// OpenState opens storage and restores the session store. A missing or
// unreadable saved state starts fresh.
func OpenState(ctx context.Context, settings *config.Settings, ephemeral bool) (*State, error) {
	kv, err := OpenKV(settings.Storage, ephemeral)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	adapter := storage.NewAdapter(kv)

	opts := []session.Option{session.WithPersister(adapter)}
	if lang, ok := locale.Parse(settings.Language); ok {
		opts = append(opts, session.WithLanguage(lang))
	}

	var store *session.Store
	if snap, ok := adapter.Load(ctx); ok {
		store = session.Restore(snap, opts...)
		log.Logger().Info("Restored session state",
			zap.Int("sessions", len(snap.Sessions)),
			zap.String("active", store.ActiveID()))
	} else {
		store = session.New(opts...)
	}

	cwd, _ := os.Getwd()
	engine := hooks.NewEngine(settings, cwd)

	return &State{
		KV:      kv,
		Adapter: adapter,
		Store:   store,
		Hooks:   engine,
		Chat:    chat.New(store, nil, chat.WithHooks(engine)),
	}, nil
}

// Open builds the whole application. The credential check runs before
// storage is touched so that a missing key fails fast.
func Open(ctx context.Context, settings *config.Settings, ephemeral bool) (*App, error) {
	meta, err := settings.ProviderMeta()
	if err != nil {
		return nil, err
	}
	creds, err := settings.Credentials(meta)
	if err != nil {
		return nil, err
	}
	gen, err := provider.GetGenerator(ctx, meta.Provider, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", meta.DisplayName, err)
	}

	state, err := OpenState(ctx, settings, ephemeral)
	if err != nil {
		return nil, err
	}

	model, imageModel := settings.ResolvedModels(meta)
	c := &client.Client{
		Provider:    gen,
		Model:       model,
		ImageModel:  imageModel,
		Temperature: settings.Temperature,
		Persona:     persona(),
	}
	log.Logger().Info("Generation client ready",
		zap.String("provider", gen.Name()),
		zap.String("model", model),
		zap.String("imageModel", imageModel))

	state.Chat = chat.New(state.Store, c,
		chat.WithTimeout(settings.Timeout),
		chat.WithHooks(state.Hooks))

	state.Hooks.ExecuteAsync(hooks.SessionStart, hooks.HookInput{
		SessionID: state.Store.ActiveID(),
		Language:  string(state.Store.Language()),
		Source:    "startup",
		Model:     model,
	})

	return &App{
		State:    state,
		Settings: settings,
		Meta:     meta,
		Client:   c,
		Models:   provider.NewStore(state.KV, storage.ErrNotFound),
	}, nil
}

// persona returns the system instruction with any memory files applied.
func persona() string {
	userDir, _ := log.DataDir()
	cwd, _ := os.Getwd()
	return system.Instruction(userDir, cwd)
}

// ListModels returns the models of the configured provider, cached in the
// storage medium.
func (a *App) ListModels(ctx context.Context, refresh bool) ([]provider.ModelInfo, error) {
	return a.Models.ListModels(ctx, a.Client.Provider, a.Meta.Provider, refresh)
}
