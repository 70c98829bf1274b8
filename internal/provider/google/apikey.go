package google

import (
	"github.com/yanmxa/cyberchat/internal/provider"
)

// APIKeyMeta is the metadata for Google via API Key
var APIKeyMeta = provider.ProviderMeta{
	Provider:          provider.ProviderGoogle,
	AuthMethod:        provider.AuthAPIKey,
	EnvVars:           []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	DisplayName:       "Gemini API",
	DefaultModel:      "gemini-3-flash-preview",
	DefaultImageModel: "gemini-2.5-flash-image",
}

// init registers the API Key provider
func init() {
	provider.Register(APIKeyMeta, NewAPIKeyClient)
}
