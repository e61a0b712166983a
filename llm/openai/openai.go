// Package openai adapts the sashabaranov/go-openai chat client to
// langchaingo's llms.Model interface, so pipelines can run against OpenAI
// and OpenAI-compatible endpoints.
package openai

import (
	"context"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
)

// ErrNoChoices is returned when the API responds without any choices.
var ErrNoChoices = errors.New("openai: response has no choices")

// Model implements llms.Model on top of the go-openai client.
type Model struct {
	client *goopenai.Client
	model  string
}

var _ llms.Model = (*Model)(nil)

// Option configures a Model.
type Option func(*config)

type config struct {
	model   string
	baseURL string
}

// WithModel sets the model name. Default gpt-4o-mini.
func WithModel(model string) Option {
	return func(c *config) {
		c.model = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// New creates a Model with the given API key.
func New(apiKey string, opts ...Option) *Model {
	cfg := config{model: goopenai.GPT4oMini}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := goopenai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}

	return &Model{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  cfg.model,
	}
}

// NewWithClient wraps an existing go-openai client.
func NewWithClient(client *goopenai.Client, model string) *Model {
	return &Model{client: client, model: model}
}

// GenerateContent performs one chat completion round-trip.
func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{Model: m.model}
	for _, opt := range options {
		opt(&opts)
	}

	chatMessages := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		chatMessages = append(chatMessages, goopenai.ChatCompletionMessage{
			Role:    mapRole(msg.Role),
			Content: flattenParts(msg.Parts),
		})
	}

	resp, err := m.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    chatMessages,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
		Stop:        opts.StopWords,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	choices := make([]*llms.ContentChoice, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		choices = append(choices, &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
		})
	}

	return &llms.ContentResponse{Choices: choices}, nil
}

// Call performs a single-prompt completion.
func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts("human", prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func mapRole(role llms.ChatMessageType) string {
	switch role {
	case llms.ChatMessageTypeSystem:
		return goopenai.ChatMessageRoleSystem
	case llms.ChatMessageTypeAI:
		return goopenai.ChatMessageRoleAssistant
	case llms.ChatMessageTypeTool, llms.ChatMessageTypeFunction:
		return goopenai.ChatMessageRoleTool
	default:
		return goopenai.ChatMessageRoleUser
	}
}

func flattenParts(parts []llms.ContentPart) string {
	var content string
	for _, part := range parts {
		if tc, ok := part.(llms.TextContent); ok {
			content += tc.Text
		}
	}
	return content
}
