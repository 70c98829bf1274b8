package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"

	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/provider"
)

// Client implements the Generator interface using the OpenAI SDK.
// It also serves OpenAI-compatible platforms.
type Client struct {
	client openai.Client
	name   string
	images bool
}

// NewClient creates a new OpenAI client with the given SDK client
func NewClient(client openai.Client, name string, images bool) *Client {
	return &Client{
		client: client,
		name:   name,
		images: images,
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return c.name
}

// toMessages converts a request to OpenAI chat messages
func toMessages(req provider.CompletionRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)

	// Add system prompt if provided
	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}

	for _, t := range req.Turns {
		switch t.Role {
		case provider.RoleModel:
			messages = append(messages, openai.AssistantMessage(t.Text))
		default:
			messages = append(messages, openai.UserMessage(t.Text))
		}
	}
	return messages
}

// Complete sends a text request via the Chat Completions API
func (c *Client) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: toMessages(req),
	}

	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	log.LogRequest(c.name, req)
	start := time.Now()

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		log.LogError(c.name, err)
		return provider.CompletionResponse{}, provider.Wrap("complete", c.name, err)
	}

	var response provider.CompletionResponse
	if len(completion.Choices) > 0 {
		response.Text = completion.Choices[0].Message.Content
	}

	log.LogResponse(c.name, response, time.Since(start))
	return response, nil
}

// imageSize maps an aspect ratio to the closest supported size
func imageSize(aspectRatio string) openai.ImageGenerateParamsSize {
	switch aspectRatio {
	case "16:9", "3:2":
		return openai.ImageGenerateParamsSize1536x1024
	case "9:16", "2:3":
		return openai.ImageGenerateParamsSize1024x1536
	default:
		return openai.ImageGenerateParamsSize1024x1024
	}
}

// GenerateImage sends an image request via the Images API
func (c *Client) GenerateImage(ctx context.Context, req provider.ImageRequest) (provider.ImageResponse, error) {
	if !c.images {
		return provider.ImageResponse{}, provider.Wrap("image", c.name, provider.ErrImageUnsupported)
	}

	params := openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModel(req.Model),
		N:      openai.Int(1),
		Size:   imageSize(req.AspectRatio),
	}
	// gpt-image models always return base64; dall-e needs asking
	if strings.HasPrefix(req.Model, "dall-e") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	log.LogImageRequest(c.name, req)
	start := time.Now()

	result, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		log.LogError(c.name, err)
		return provider.ImageResponse{}, provider.Wrap("image", c.name, err)
	}

	response, err := toImageResponse(result.Data)
	if err != nil {
		log.LogError(c.name, err)
		return provider.ImageResponse{}, provider.Wrap("image", c.name, err)
	}

	log.LogImageResponse(c.name, response, time.Since(start))
	return response, nil
}

// toImageResponse decodes base64 image payloads into inline parts
func toImageResponse(images []openai.Image) (provider.ImageResponse, error) {
	var response provider.ImageResponse
	for _, img := range images {
		if img.RevisedPrompt != "" {
			response.Parts = append(response.Parts, provider.TextPart{Text: img.RevisedPrompt})
		}
		switch {
		case img.B64JSON != "":
			data, err := base64.StdEncoding.DecodeString(img.B64JSON)
			if err != nil {
				return provider.ImageResponse{}, fmt.Errorf("malformed image payload: %w", err)
			}
			response.Parts = append(response.Parts, provider.InlineImagePart{
				MIMEType: "image/png",
				Data:     data,
			})
		case img.URL != "":
			response.Parts = append(response.Parts, provider.UnknownPart{Kind: "url"})
		}
	}
	return response, nil
}

// ListModels returns the available chat models using the API
func (c *Client) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]provider.ModelInfo, 0)

	for _, m := range page.Data {
		id := m.ID
		// Skip models that don't support chat completions
		if strings.HasPrefix(id, "tts-") ||
			strings.HasPrefix(id, "whisper-") ||
			strings.HasPrefix(id, "text-embedding") ||
			strings.HasPrefix(id, "omni-moderation") ||
			strings.HasPrefix(id, "davinci") ||
			strings.HasPrefix(id, "babbage") ||
			strings.HasPrefix(id, "sora") ||
			strings.Contains(id, "-tts") ||
			strings.Contains(id, "-transcribe") ||
			strings.Contains(id, "-realtime") ||
			strings.Contains(id, "computer-use") ||
			strings.HasSuffix(id, "-instruct") {
			continue
		}

		models = append(models, provider.ModelInfo{
			ID:          id,
			Name:        id,
			DisplayName: id,
		})
	}

	// Sort models by ID for consistent ordering
	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	return models, nil
}

// Ensure Client implements Generator
var _ provider.Generator = (*Client)(nil)
