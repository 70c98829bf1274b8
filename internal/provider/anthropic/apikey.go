package anthropic

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/yanmxa/cyberchat/internal/provider"
)

// APIKeyMeta is the metadata for Anthropic via API Key
var APIKeyMeta = provider.ProviderMeta{
	Provider:     provider.ProviderAnthropic,
	AuthMethod:   provider.AuthAPIKey,
	EnvVars:      []string{"ANTHROPIC_API_KEY"},
	DisplayName:  "Anthropic API",
	DefaultModel: "claude-sonnet-4-5",
}

// NewAPIKeyClient creates a new Anthropic client using API Key authentication
func NewAPIKeyClient(ctx context.Context, creds provider.Credentials) (provider.Generator, error) {
	if creds.APIKey == "" {
		return nil, errors.New("anthropic: missing API key")
	}
	opts := []option.RequestOption{option.WithAPIKey(creds.APIKey)}
	if creds.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(creds.BaseURL))
	}
	return NewClient(anthropic.NewClient(opts...), "anthropic:api_key"), nil
}

// init registers the API Key provider
func init() {
	provider.Register(APIKeyMeta, NewAPIKeyClient)
}
