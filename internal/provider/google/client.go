package google

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/provider"
)

// Client implements the Generator interface using the Google GenAI SDK
type Client struct {
	client *genai.Client
	name   string
}

// NewClient creates a new Google client with the given SDK client
func NewClient(client *genai.Client, name string) *Client {
	return &Client{
		client: client,
		name:   name,
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return c.name
}

// toContents converts request turns to Google format
func toContents(turns []provider.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, &genai.Content{
			Role:  string(t.Role),
			Parts: []*genai.Part{{Text: t.Text}},
		})
	}
	return contents
}

// Complete sends a text request and returns the reply
func (c *Client) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	config := &genai.GenerateContentConfig{}

	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}

	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}

	log.LogRequest(c.name, req)
	start := time.Now()

	result, err := c.client.Models.GenerateContent(ctx, req.Model, toContents(req.Turns), config)
	if err != nil {
		log.LogError(c.name, err)
		return provider.CompletionResponse{}, provider.Wrap("complete", c.name, err)
	}

	var response provider.CompletionResponse
	for _, part := range toParts(result) {
		if t, ok := part.(provider.TextPart); ok {
			response.Text += t.Text
		}
	}

	log.LogResponse(c.name, response, time.Since(start))
	return response, nil
}

// GenerateImage sends an image request and returns the response parts
func (c *Client) GenerateImage(ctx context.Context, req provider.ImageRequest) (provider.ImageResponse, error) {
	config := &genai.GenerateContentConfig{}
	if req.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	log.LogImageRequest(c.name, req)
	start := time.Now()

	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		log.LogError(c.name, err)
		return provider.ImageResponse{}, provider.Wrap("image", c.name, err)
	}

	response := provider.ImageResponse{Parts: toParts(result)}
	log.LogImageResponse(c.name, response, time.Since(start))
	return response, nil
}

// toParts converts the parts of the first candidate.
func toParts(result *genai.GenerateContentResponse) []provider.Part {
	if result == nil || len(result.Candidates) == 0 {
		return nil
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return nil
	}

	parts := make([]provider.Part, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		switch {
		case part == nil:
			continue
		case part.InlineData != nil:
			parts = append(parts, provider.InlineImagePart{
				MIMEType: part.InlineData.MIMEType,
				Data:     part.InlineData.Data,
			})
		case part.Thought:
			// Thought summaries are not part of the answer
			continue
		case part.Text != "":
			parts = append(parts, provider.TextPart{Text: part.Text})
		case part.FunctionCall != nil:
			parts = append(parts, provider.UnknownPart{Kind: "function_call"})
		case part.ExecutableCode != nil:
			parts = append(parts, provider.UnknownPart{Kind: "executable_code"})
		default:
			parts = append(parts, provider.UnknownPart{Kind: "unknown"})
		}
	}
	return parts
}

// ListModels returns the available models for Google using the API
func (c *Client) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	models := make([]provider.ModelInfo, 0)

	for m, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}

		// Filter for Gemini models
		name := m.Name
		if !strings.Contains(name, "gemini") {
			continue
		}
		// Extract short model ID from full name (e.g., "models/gemini-2.0-flash" -> "gemini-2.0-flash")
		id, _ := strings.CutPrefix(name, "models/")

		// Skip deprecated/experimental models for cleaner display
		if strings.Contains(id, "-exp") || strings.Contains(id, "-latest") {
			continue
		}

		displayName := m.DisplayName
		if displayName == "" {
			displayName = id
		}

		models = append(models, provider.ModelInfo{
			ID:          id,
			Name:        displayName,
			DisplayName: displayName,
		})
	}

	// Sort models by ID for consistent ordering
	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	return models, nil
}

// NewAPIKeyClient creates a new Google client using API Key authentication
func NewAPIKeyClient(ctx context.Context, creds provider.Credentials) (provider.Generator, error) {
	if creds.APIKey == "" {
		return nil, errors.New("google: missing API key")
	}

	config := &genai.ClientConfig{
		APIKey:  creds.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if creds.BaseURL != "" {
		config.HTTPOptions.BaseURL = creds.BaseURL
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, err
	}

	return NewClient(client, "google:api_key"), nil
}

// Ensure Client implements Generator
var _ provider.Generator = (*Client)(nil)
