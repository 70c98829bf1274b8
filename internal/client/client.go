// Package client wraps a generation provider with the chatbot's persona,
// prompt shaping and image encoding.
package client

import (
	"context"

	"github.com/yanmxa/cyberchat/internal/image"
	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/provider"
)

const (
	// Persona is the system instruction sent with every text request.
	Persona = "You are 'Cyber Chatbot AI', a futuristic, high-performance gaming assistant. " +
		"Your tone is professional yet cool, tech-savvy, and helpful. Use emojis like ⚡, 🤖, 🎮, 🛡️. " +
		"You are highly knowledgeable about tech, gaming, coding, and general tasks."

	// DefaultTemperature is the sampling temperature for text requests.
	DefaultTemperature = 0.9

	// ImageStylePrefix is prepended to every image prompt.
	ImageStylePrefix = "High quality gaming art, futuristic cyber style, neon colors, cinematic lighting: "

	// ImageAspectRatio is the aspect ratio requested for images.
	ImageAspectRatio = "1:1"

	imageMediaType = "image/png"
)

// Generator is the generation surface the chat service depends on.
type Generator interface {
	RequestCompletion(ctx context.Context, prompt string, history []message.Message, lang locale.Language) (string, error)
	RequestImage(ctx context.Context, prompt string) (string, error)
}

// Client wraps a provider with model configuration.
type Client struct {
	Provider    provider.Generator
	Model       string
	ImageModel  string  // empty disables image requests
	Temperature float64 // 0 means DefaultTemperature
	Persona     string  // empty means Persona
}

// BuildTurns converts chat history plus the new prompt into request turns.
// Assistant messages become model turns, user messages stay user turns and
// system notices are not sent. The prompt gets the language directive.
func BuildTurns(history []message.Message, prompt string, lang locale.Language) []provider.Turn {
	turns := make([]provider.Turn, 0, len(history)+1)
	for _, m := range history {
		switch m.Role {
		case message.RoleUser:
			turns = append(turns, provider.Turn{Role: provider.RoleUser, Text: m.Content})
		case message.RoleAssistant:
			turns = append(turns, provider.Turn{Role: provider.RoleModel, Text: m.Content})
		}
	}
	turns = append(turns, provider.Turn{
		Role: provider.RoleUser,
		Text: prompt + " " + lang.ResponseDirective(),
	})
	return turns
}

// RequestCompletion asks the model for a text reply to prompt, given the
// prior conversation. Failures are returned as *provider.GenerationError.
func (c *Client) RequestCompletion(ctx context.Context, prompt string, history []message.Message, lang locale.Language) (string, error) {
	temp := c.Temperature
	if temp <= 0 {
		temp = DefaultTemperature
	}
	persona := c.Persona
	if persona == "" {
		persona = Persona
	}

	resp, err := c.Provider.Complete(ctx, provider.CompletionRequest{
		Model:             c.Model,
		SystemInstruction: persona,
		Temperature:       temp,
		Turns:             BuildTurns(history, prompt, lang),
	})
	if err != nil {
		return "", provider.Wrap("complete", c.Provider.Name(), err)
	}
	return resp.Text, nil
}

// StylePrompt applies the fixed art direction to an image prompt.
func StylePrompt(prompt string) string {
	return ImageStylePrefix + prompt
}

// RequestImage asks the model to render prompt and returns the first image
// as a data URI, or "" when the response holds no image.
func (c *Client) RequestImage(ctx context.Context, prompt string) (string, error) {
	if c.ImageModel == "" {
		return "", provider.Wrap("image", c.Provider.Name(), provider.ErrImageUnsupported)
	}

	resp, err := c.Provider.GenerateImage(ctx, provider.ImageRequest{
		Model:       c.ImageModel,
		Prompt:      StylePrompt(prompt),
		AspectRatio: ImageAspectRatio,
	})
	if err != nil {
		return "", provider.Wrap("image", c.Provider.Name(), err)
	}

	img, ok := resp.FirstImage()
	if !ok {
		return "", nil
	}
	return image.ToDataURI(imageMediaType, img.Data), nil
}

// Name returns the provider name (e.g., "google:api_key").
func (c *Client) Name() string {
	return c.Provider.Name()
}

// ModelID returns the model identifier.
func (c *Client) ModelID() string {
	return c.Model
}

var _ Generator = (*Client)(nil)
