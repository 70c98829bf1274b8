package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yanmxa/cyberchat/internal/provider"
)

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	userDir := t.TempDir()
	l := NewLoaderWithOptions(userDir, filepath.Join(t.TempDir(), ".cyber"), map[string]string{})

	s, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if s.Provider != "google" || s.Storage.Type != "file" || s.Timeout != DefaultTimeout {
		t.Errorf("unexpected defaults %+v", s)
	}
	if s.Storage.Dir != filepath.Join(userDir, "state") {
		t.Errorf("unexpected storage dir %s", s.Storage.Dir)
	}
}

func TestLoadLayering(t *testing.T) {
	userDir := t.TempDir()
	projectDir := filepath.Join(t.TempDir(), ".cyber")

	writeSettings(t, userDir, `
provider: openai
model: gpt-user
temperature: 0.5
storage:
  type: sqlite
`)
	writeSettings(t, projectDir, `
model: gpt-project
timeout: 30s
`)

	tests := []struct {
		name    string
		environ map[string]string
		check   func(t *testing.T, s *Settings)
	}{
		{
			name:    "files only",
			environ: map[string]string{},
			check: func(t *testing.T, s *Settings) {
				if s.Provider != "openai" || s.Model != "gpt-project" || s.Temperature != 0.5 {
					t.Errorf("unexpected merge %+v", s)
				}
				if s.Timeout != 30*time.Second || s.Storage.Type != "sqlite" {
					t.Errorf("unexpected timeout/storage %v %s", s.Timeout, s.Storage.Type)
				}
				if s.Storage.RedisPrefix != DefaultRedisPrefix {
					t.Errorf("defaults should survive merge, got %q", s.Storage.RedisPrefix)
				}
			},
		},
		{
			name: "env wins",
			environ: map[string]string{
				"CYBER_PROVIDER":         "anthropic",
				"CYBER_STORAGE_TYPE":     "redis",
				"CYBER_STORAGE_REDIS_DB": "3",
				"API_KEY":                "secret",
			},
			check: func(t *testing.T, s *Settings) {
				if s.Provider != "anthropic" || s.Model != "gpt-project" {
					t.Errorf("unexpected env merge %+v", s)
				}
				if s.Storage.Type != "redis" || s.Storage.RedisDB != 3 {
					t.Errorf("unexpected storage %+v", s.Storage)
				}
				if s.APIKey != "secret" {
					t.Error("API_KEY should be read from the environment")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewLoaderWithOptions(userDir, projectDir, tt.environ).Load()
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, s)
		})
	}
}

func TestLoadHooks(t *testing.T) {
	userDir := t.TempDir()
	projectDir := filepath.Join(t.TempDir(), ".cyber")

	writeSettings(t, userDir, `
hooks:
  Stop:
    - hooks:
        - command: notify-send done
  UserPromptSubmit:
    - hooks:
        - command: user-filter
`)
	writeSettings(t, projectDir, `
hooks:
  UserPromptSubmit:
    - matcher: image
      hooks:
        - command: project-filter
          timeout: 5
`)

	s, err := NewLoaderWithOptions(userDir, projectDir, map[string]string{}).Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Hooks["Stop"]; len(got) != 1 || got[0].Hooks[0].Command != "notify-send done" {
		t.Errorf("user hook lost: %+v", got)
	}
	got := s.Hooks["UserPromptSubmit"]
	if len(got) != 1 || got[0].Matcher != "image" || got[0].Hooks[0].Timeout != 5 {
		t.Errorf("project hooks should replace user hooks per event: %+v", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	userDir := t.TempDir()
	writeSettings(t, userDir, "provider: [unclosed")

	_, err := NewLoaderWithOptions(userDir, t.TempDir(), map[string]string{}).Load()
	if err == nil || !strings.Contains(err.Error(), "invalid settings file") {
		t.Errorf("expected invalid settings error, got %v", err)
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	l := NewLoaderWithOptions(t.TempDir(), t.TempDir(), map[string]string{"CYBER_TIMEOUT": "soon"})
	if _, err := l.Load(); err == nil {
		t.Error("expected error for unparsable duration")
	}
}

func TestSaveToUserMerges(t *testing.T) {
	userDir := t.TempDir()
	l := NewLoaderWithOptions(userDir, t.TempDir(), map[string]string{})
	writeSettings(t, userDir, "provider: openai\n")

	path, err := l.SaveToUser(&Settings{Model: "gpt-4o", APIKey: "never-written"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "never-written") {
		t.Error("API key must not be written to the settings file")
	}

	s, err := l.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Provider != "openai" || s.Model != "gpt-4o" {
		t.Errorf("unexpected saved settings %+v", s)
	}
}

func TestCredentials(t *testing.T) {
	meta := provider.ProviderMeta{
		Provider:    "test",
		DisplayName: "Test",
		EnvVars:     []string{"CYBER_TEST_KEY_A", "CYBER_TEST_KEY_B"},
	}

	t.Run("missing", func(t *testing.T) {
		_, err := (&Settings{}).Credentials(meta)
		if !errors.Is(err, ErrMissingCredential) {
			t.Fatalf("expected ErrMissingCredential, got %v", err)
		}
		if !strings.Contains(err.Error(), "CYBER_TEST_KEY_A") || !strings.Contains(err.Error(), "API_KEY") {
			t.Errorf("error should name the env vars, got %v", err)
		}
	})

	t.Run("provider env", func(t *testing.T) {
		t.Setenv("CYBER_TEST_KEY_B", "from-env")
		creds, err := (&Settings{BaseURL: "http://proxy"}).Credentials(meta)
		if err != nil {
			t.Fatal(err)
		}
		if creds.APIKey != "from-env" || creds.BaseURL != "http://proxy" {
			t.Errorf("unexpected credentials %+v", creds)
		}
	})

	t.Run("generic key wins", func(t *testing.T) {
		t.Setenv("CYBER_TEST_KEY_A", "from-env")
		creds, err := (&Settings{APIKey: "generic"}).Credentials(meta)
		if err != nil || creds.APIKey != "generic" {
			t.Errorf("unexpected credentials %+v, %v", creds, err)
		}
	})
}

func TestResolvedModels(t *testing.T) {
	meta := provider.ProviderMeta{DefaultModel: "text-default", DefaultImageModel: "image-default"}

	model, image := (&Settings{}).ResolvedModels(meta)
	if model != "text-default" || image != "image-default" {
		t.Errorf("unexpected defaults %s %s", model, image)
	}
	model, image = (&Settings{Model: "m", ImageModel: "i"}).ResolvedModels(meta)
	if model != "m" || image != "i" {
		t.Errorf("unexpected overrides %s %s", model, image)
	}
}

func TestProviderMetaUnknown(t *testing.T) {
	if _, err := (&Settings{Provider: "nope"}).ProviderMeta(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestRedacted(t *testing.T) {
	s := &Settings{APIKey: "k", Storage: StorageSettings{RedisPassword: "p"}}
	r := s.Redacted()
	if r.APIKey != "****" || r.Storage.RedisPassword != "****" {
		t.Errorf("secrets not redacted: %+v", r)
	}
	if s.APIKey != "k" {
		t.Error("Redacted must not modify the receiver")
	}
}
