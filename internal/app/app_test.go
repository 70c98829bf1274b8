package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yanmxa/cyberchat/internal/chat"
	"github.com/yanmxa/cyberchat/internal/config"
	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/provider"
	"github.com/yanmxa/cyberchat/internal/storage"
)

const testProvider provider.Provider = "apptest"

type echoGenerator struct{}

func (echoGenerator) Complete(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	return provider.CompletionResponse{Text: "echo: " + req.Turns[len(req.Turns)-1].Text}, nil
}

func (echoGenerator) GenerateImage(context.Context, provider.ImageRequest) (provider.ImageResponse, error) {
	return provider.ImageResponse{Parts: []provider.Part{provider.InlineImagePart{MIMEType: "image/png", Data: []byte("png")}}}, nil
}

func (echoGenerator) ListModels(context.Context) ([]provider.ModelInfo, error) {
	return []provider.ModelInfo{{ID: "echo-1"}}, nil
}

func (echoGenerator) Name() string { return "apptest:api_key" }

func init() {
	provider.Register(provider.ProviderMeta{
		Provider:          testProvider,
		AuthMethod:        provider.AuthAPIKey,
		EnvVars:           []string{"CYBER_APPTEST_KEY"},
		DisplayName:       "App Test",
		DefaultModel:      "echo-1",
		DefaultImageModel: "echo-image",
	}, func(context.Context, provider.Credentials) (provider.Generator, error) {
		return echoGenerator{}, nil
	})
}

func testSettings(t *testing.T) *config.Settings {
	s := config.NewSettings(t.TempDir())
	s.Provider = string(testProvider)
	s.APIKey = "test-key"
	return s
}

func TestOpenMissingCredential(t *testing.T) {
	s := testSettings(t)
	s.APIKey = ""

	_, err := Open(context.Background(), s, true)
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}

func TestOpenSendAndRestore(t *testing.T) {
	s := testSettings(t)
	s.Storage.Type = "sqlite"
	s.Storage.SQLitePath = filepath.Join(t.TempDir(), "cyber.db")
	ctx := context.Background()

	a, err := Open(ctx, s, false)
	if err != nil {
		t.Fatal(err)
	}
	if a.Client.Model != "echo-1" || a.Client.ImageModel != "echo-image" {
		t.Errorf("unexpected models %s %s", a.Client.Model, a.Client.ImageModel)
	}

	msg, err := a.Chat.Send(ctx, chat.Text, "ping")
	if err != nil {
		t.Fatal(err)
	}
	if msg.Content != "echo: ping (Please respond in English)" {
		t.Errorf("unexpected reply %q", msg.Content)
	}
	want := a.Store.Snapshot()
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	state, err := OpenState(ctx, s, false)
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()
	got := state.Store.Snapshot()
	if got.ActiveSessionID != want.ActiveSessionID || len(got.Sessions[0].Messages) != 3 {
		t.Errorf("state not restored: %+v", got)
	}
	if got.Sessions[0].Title != "ping" {
		t.Errorf("unexpected restored title %q", got.Sessions[0].Title)
	}
}

func TestOpenStateLanguage(t *testing.T) {
	s := testSettings(t)
	s.Language = "vi"

	state, err := OpenState(context.Background(), s, true)
	if err != nil {
		t.Fatal(err)
	}
	if state.Store.Language() != locale.Vietnamese {
		t.Errorf("expected vi for a fresh state, got %s", state.Store.Language())
	}
	if state.Store.Active().Title != "Nhiệm vụ mới" {
		t.Errorf("unexpected title %q", state.Store.Active().Title)
	}
}

func TestOpenKVInvalidType(t *testing.T) {
	_, err := OpenKV(config.StorageSettings{Type: "floppy"}, false)
	if !errors.Is(err, storage.ErrInvalidStoreType) {
		t.Errorf("expected ErrInvalidStoreType, got %v", err)
	}
}

func TestListModelsCached(t *testing.T) {
	a, err := Open(context.Background(), testSettings(t), true)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	models, err := a.ListModels(context.Background(), false)
	if err != nil || len(models) != 1 || models[0].ID != "echo-1" {
		t.Fatalf("unexpected models %+v, %v", models, err)
	}
	if _, ok := a.Models.GetCachedModels(context.Background(), testProvider); !ok {
		t.Error("models should be cached in storage")
	}
}
