package anthropic

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/provider"
)

const defaultMaxTokens = 4096

// Client implements the Generator interface using the Anthropic SDK.
// Anthropic models cannot render images.
type Client struct {
	client       anthropic.Client
	name         string
	cachedModels []provider.ModelInfo
}

// NewClient creates a new Anthropic client with the given SDK client
func NewClient(client anthropic.Client, name string) *Client {
	return &Client{
		client: client,
		name:   name,
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return c.name
}

// toParams converts a request to Anthropic message params
func toParams(req provider.CompletionRequest) anthropic.MessageNewParams {
	msgs := make([]anthropic.MessageParam, 0, len(req.Turns))
	for _, t := range req.Turns {
		switch t.Role {
		case provider.RoleModel:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Text)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Text)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: defaultMaxTokens,
		Messages:  msgs,
	}

	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.SystemInstruction},
		}
	}

	// Anthropic caps temperature at 1.0
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(min(req.Temperature, 1.0))
	}
	return params
}

// Complete sends a text request and returns the reply
func (c *Client) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	log.LogRequest(c.name, req)
	start := time.Now()

	msg, err := c.client.Messages.New(ctx, toParams(req))
	if err != nil {
		log.LogError(c.name, err)
		return provider.CompletionResponse{}, provider.Wrap("complete", c.name, err)
	}

	var response provider.CompletionResponse
	for _, block := range msg.Content {
		if block.Type == "text" {
			response.Text += block.Text
		}
	}

	log.LogResponse(c.name, response, time.Since(start))
	return response, nil
}

// GenerateImage always fails: Anthropic has no image generation endpoint
func (c *Client) GenerateImage(ctx context.Context, req provider.ImageRequest) (provider.ImageResponse, error) {
	return provider.ImageResponse{}, provider.Wrap("image", c.name, provider.ErrImageUnsupported)
}

// defaultModels is the fallback static model list
var defaultModels = []provider.ModelInfo{
	{ID: "claude-sonnet-4-5", Name: "Claude Sonnet 4.5", DisplayName: "Claude Sonnet 4.5 (Balanced)"},
	{ID: "claude-haiku-4-5", Name: "Claude Haiku 4.5", DisplayName: "Claude Haiku 4.5 (Fast)"},
	{ID: "claude-opus-4-1", Name: "Claude Opus 4.1", DisplayName: "Claude Opus 4.1 (Most Capable)"},
}

// ListModels returns available models using the Anthropic Models API,
// falling back to a static list if the API call fails.
func (c *Client) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	if len(c.cachedModels) > 0 {
		return c.cachedModels, nil
	}

	models, err := c.fetchModels(ctx)
	if err != nil {
		log.LogError(c.name, err)
		c.cachedModels = defaultModels
		return c.cachedModels, nil
	}
	c.cachedModels = models
	return c.cachedModels, nil
}

// fetchModels fetches available models from the Anthropic Models API
func (c *Client) fetchModels(ctx context.Context) ([]provider.ModelInfo, error) {
	pager := c.client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})

	var models []provider.ModelInfo
	for pager.Next() {
		m := pager.Current()
		models = append(models, provider.ModelInfo{
			ID:          m.ID,
			Name:        m.DisplayName,
			DisplayName: m.DisplayName,
		})
	}
	if err := pager.Err(); err != nil {
		return nil, err
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("no models returned from API")
	}
	return models, nil
}

// Ensure Client implements Generator
var _ provider.Generator = (*Client)(nil)
