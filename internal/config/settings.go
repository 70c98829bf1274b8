// Package config provides layered settings for cyber.
// Settings are loaded from the following sources, lowest priority first:
//  1. built-in defaults
//  2. ~/.cyber/settings.yaml (user level)
//  3. .cyber/settings.yaml (project level)
//  4. environment variables
//  5. command-line flags (applied by the caller)
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/yanmxa/cyberchat/internal/provider"
)

// ErrMissingCredential is returned when no API key is configured for the
// selected provider.
var ErrMissingCredential = errors.New("missing API credential")

// Settings represents the complete cyber configuration.
type Settings struct {
	// Provider selects the generation backend (google, openai, anthropic, moonshot).
	Provider string `yaml:"provider,omitempty" env:"CYBER_PROVIDER"`

	// Model and ImageModel override the provider's defaults.
	Model      string `yaml:"model,omitempty" env:"CYBER_MODEL"`
	ImageModel string `yaml:"imageModel,omitempty" env:"CYBER_IMAGE_MODEL"`

	// Temperature for text requests; 0 keeps the client default.
	Temperature float64 `yaml:"temperature,omitempty" env:"CYBER_TEMPERATURE"`

	// BaseURL points the provider SDK at a proxy or compatible endpoint.
	BaseURL string `yaml:"baseUrl,omitempty" env:"CYBER_BASE_URL"`

	// Language is used for a fresh state; a persisted language wins.
	Language string `yaml:"language,omitempty" env:"CYBER_LANG"`

	// Timeout bounds one generation request.
	Timeout time.Duration `yaml:"timeout,omitempty" env:"CYBER_TIMEOUT"`

	Storage StorageSettings `yaml:"storage,omitempty" envPrefix:"CYBER_STORAGE_"`

	// Hooks maps an event name (e.g., UserPromptSubmit, Stop) to the
	// commands run when it fires.
	Hooks map[string][]Hook `yaml:"hooks,omitempty"`

	// APIKey is the generic credential. It is never read from or written
	// to settings files.
	APIKey string `yaml:"-" env:"API_KEY"`
}

// StorageSettings selects and configures the persistence medium.
type StorageSettings struct {
	Type          string `yaml:"type,omitempty" env:"TYPE"`
	Dir           string `yaml:"dir,omitempty" env:"DIR"`
	SQLitePath    string `yaml:"sqlitePath,omitempty" env:"SQLITE_PATH"`
	RedisAddr     string `yaml:"redisAddr,omitempty" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redisPassword,omitempty" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redisDb,omitempty" env:"REDIS_DB"`
	RedisPrefix   string `yaml:"redisPrefix,omitempty" env:"REDIS_PREFIX"`
}

// Hook defines an event hook configuration
type Hook struct {
	// Matcher is a pattern to match against the event
	Matcher string `yaml:"matcher,omitempty"`

	// Hooks are the commands to execute when matched
	Hooks []HookCmd `yaml:"hooks,omitempty"`
}

// HookCmd defines a single hook command
type HookCmd struct {
	// Type is the hook type; only "command" is supported
	Type string `yaml:"type,omitempty"`

	// Command is the shell command to execute
	Command string `yaml:"command"`

	// Timeout in seconds; 0 uses the engine default
	Timeout int `yaml:"timeout,omitempty"`

	// Async runs the command without waiting for it
	Async bool `yaml:"async,omitempty"`
}

// Defaults
const (
	DefaultProvider    = provider.ProviderGoogle
	DefaultStorageType = "file"
	DefaultTimeout     = 2 * time.Minute
	DefaultRedisPrefix = "cyber:"
)

// NewSettings creates a Settings instance with default values. dataDir is
// the user data directory (e.g., ~/.cyber).
func NewSettings(dataDir string) *Settings {
	return &Settings{
		Provider: string(DefaultProvider),
		Timeout:  DefaultTimeout,
		Storage: StorageSettings{
			Type:        DefaultStorageType,
			Dir:         filepath.Join(dataDir, "state"),
			SQLitePath:  filepath.Join(dataDir, "cyber.db"),
			RedisAddr:   "localhost:6379",
			RedisPrefix: DefaultRedisPrefix,
		},
		Hooks: make(map[string][]Hook),
	}
}

// ProviderMeta returns the registered metadata for the selected provider.
func (s *Settings) ProviderMeta() (provider.ProviderMeta, error) {
	name := provider.Provider(strings.ToLower(strings.TrimSpace(s.Provider)))
	meta, ok := provider.GetMeta(name)
	if !ok {
		return provider.ProviderMeta{}, fmt.Errorf("unknown provider %q (available: %s)", s.Provider, strings.Join(providerNames(), ", "))
	}
	return meta, nil
}

// Credentials resolves the API key for meta: API_KEY first, then the
// provider's own environment variables. A missing key fails fast with
// ErrMissingCredential naming the variables to set.
func (s *Settings) Credentials(meta provider.ProviderMeta) (provider.Credentials, error) {
	key := s.APIKey
	if key == "" {
		key, _ = provider.LookupAPIKey(meta)
	}
	if key == "" {
		vars := append([]string{"API_KEY"}, meta.EnvVars...)
		return provider.Credentials{}, fmt.Errorf("%w for %s: set one of %s", ErrMissingCredential, meta.DisplayName, strings.Join(vars, ", "))
	}
	return provider.Credentials{APIKey: key, BaseURL: s.BaseURL}, nil
}

// ResolvedModels returns the text and image models, falling back to the
// provider defaults.
func (s *Settings) ResolvedModels(meta provider.ProviderMeta) (model, imageModel string) {
	model, imageModel = s.Model, s.ImageModel
	if model == "" {
		model = meta.DefaultModel
	}
	if imageModel == "" {
		imageModel = meta.DefaultImageModel
	}
	return model, imageModel
}

// Redacted returns a copy safe to print.
func (s *Settings) Redacted() *Settings {
	out := *s
	if out.APIKey != "" {
		out.APIKey = "****"
	}
	if out.Storage.RedisPassword != "" {
		out.Storage.RedisPassword = "****"
	}
	return &out
}

func providerNames() []string {
	metas := provider.GetAllMetas()
	names := make([]string, 0, len(metas))
	for _, m := range metas {
		names = append(names, string(m.Provider))
	}
	return names
}
