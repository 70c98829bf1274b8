package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/yanmxa/cyberchat/internal/provider"
)

// APIKeyMeta is the metadata for OpenAI via API Key
var APIKeyMeta = provider.ProviderMeta{
	Provider:          provider.ProviderOpenAI,
	AuthMethod:        provider.AuthAPIKey,
	EnvVars:           []string{"OPENAI_API_KEY"},
	DisplayName:       "OpenAI API",
	DefaultModel:      "gpt-4o-mini",
	DefaultImageModel: "gpt-image-1",
}

// MoonshotMeta is the metadata for Moonshot AI, whose API is
// OpenAI-compatible. It has no image endpoint.
var MoonshotMeta = provider.ProviderMeta{
	Provider:     provider.ProviderMoonshot,
	AuthMethod:   provider.AuthAPIKey,
	EnvVars:      []string{"MOONSHOT_API_KEY"},
	DisplayName:  "Moonshot API",
	DefaultModel: "kimi-k2-0905-preview",
}

const moonshotBaseURL = "https://api.moonshot.cn/v1"

// NewAPIKeyClient creates a new OpenAI client using API Key authentication
func NewAPIKeyClient(ctx context.Context, creds provider.Credentials) (provider.Generator, error) {
	if creds.APIKey == "" {
		return nil, errors.New("openai: missing API key")
	}
	opts := []option.RequestOption{option.WithAPIKey(creds.APIKey)}
	if creds.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(creds.BaseURL))
	}
	return NewClient(openai.NewClient(opts...), "openai:api_key", true), nil
}

// NewMoonshotClient creates a Moonshot client using the OpenAI SDK with a
// custom base URL.
func NewMoonshotClient(ctx context.Context, creds provider.Credentials) (provider.Generator, error) {
	if creds.APIKey == "" {
		return nil, errors.New("moonshot: missing API key")
	}
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = moonshotBaseURL
	}
	client := openai.NewClient(
		option.WithAPIKey(creds.APIKey),
		option.WithBaseURL(baseURL),
	)
	return NewClient(client, "moonshot:api_key", false), nil
}

// init registers the API Key providers
func init() {
	provider.Register(APIKeyMeta, NewAPIKeyClient)
	provider.Register(MoonshotMeta, NewMoonshotClient)
}
