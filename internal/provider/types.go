package provider

import (
	"context"
)

// Provider represents a provider name
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderMoonshot  Provider = "moonshot"
)

// AuthMethod represents an authentication method
type AuthMethod string

const (
	AuthAPIKey AuthMethod = "api_key"
)

// ProviderMeta contains static metadata about a provider
type ProviderMeta struct {
	Provider          Provider
	AuthMethod        AuthMethod
	EnvVars           []string // Credential environment variables, first match wins
	DisplayName       string
	DefaultModel      string
	DefaultImageModel string // Empty when the provider cannot render images
}

// Key returns a unique key for this provider configuration
func (m ProviderMeta) Key() string {
	return string(m.Provider) + ":" + string(m.AuthMethod)
}

// SupportsImages reports whether the provider can render images.
func (m ProviderMeta) SupportsImages() bool {
	return m.DefaultImageModel != ""
}

// ModelInfo represents information about an available model
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// Role is the author of a turn as the remote API sees it.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one entry of the conversation sent to the remote API.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// CompletionRequest contains the options for a text request.
// The last turn is the prompt being answered.
type CompletionRequest struct {
	Model             string  `json:"model"`
	SystemInstruction string  `json:"system_instruction,omitempty"`
	Temperature       float64 `json:"temperature"`
	Turns             []Turn  `json:"turns"`
}

// CompletionResponse is the result of a text request.
type CompletionResponse struct {
	Text string `json:"text"`
}

// ImageRequest contains the options for an image request.
type ImageRequest struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// ImageResponse holds the response parts of an image request, in the
// order the API returned them.
type ImageResponse struct {
	Parts []Part `json:"-"`
}

// Part is one element of a response. It is a closed set: TextPart,
// InlineImagePart or UnknownPart.
type Part interface {
	isPart()
}

// TextPart is a text fragment of a response.
type TextPart struct {
	Text string
}

// InlineImagePart is image data embedded in a response.
type InlineImagePart struct {
	MIMEType string
	Data     []byte
}

// UnknownPart is any part kind the client does not interpret.
type UnknownPart struct {
	Kind string
}

func (TextPart) isPart()        {}
func (InlineImagePart) isPart() {}
func (UnknownPart) isPart()     {}

// FirstImage returns the first inline image part, if any.
func (r ImageResponse) FirstImage() (InlineImagePart, bool) {
	for _, p := range r.Parts {
		switch part := p.(type) {
		case InlineImagePart:
			if len(part.Data) > 0 {
				return part, true
			}
		case TextPart, UnknownPart:
			// ignored
		}
	}
	return InlineImagePart{}, false
}

// Text returns the concatenated text parts.
func (r ImageResponse) Text() string {
	var out string
	for _, p := range r.Parts {
		if t, ok := p.(TextPart); ok {
			out += t.Text
		}
	}
	return out
}

// Generator is the interface that all providers must implement
type Generator interface {
	// Complete sends a text request and returns the reply
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// GenerateImage sends an image request and returns the response parts
	GenerateImage(ctx context.Context, req ImageRequest) (ImageResponse, error)

	// ListModels returns the available models for this provider
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Name returns the provider name
	Name() string
}

// Credentials carries what a factory needs to build a client.
type Credentials struct {
	APIKey  string
	BaseURL string
}

// GeneratorFactory creates a new Generator instance
type GeneratorFactory func(ctx context.Context, creds Credentials) (Generator, error)
