// Package ollama talks to a local Ollama server through its
// OpenAI-compatible API.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/param"
)

// Defaults for a local Ollama install.
const (
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "llama3.1:8b"
)

// Config holds configuration for the Ollama client.
type Config struct {
	// Host is the Ollama server address. Defaults to localhost:11434.
	Host string

	// Model is the model tag to chat with. Defaults to llama3.1:8b.
	Model string
}

// Client is a chat client against Ollama's OpenAI-compatible endpoint.
type Client struct {
	api   openai.Client
	model string
	host  string
}

// New creates an Ollama client. Ollama ignores the API key but the
// OpenAI-compatible endpoint requires one to be present.
func New(cfg Config) *Client {
	host := strings.TrimSuffix(cfg.Host, "/")
	if host == "" {
		host = DefaultHost
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		api: openai.NewClient(
			option.WithBaseURL(host+"/v1"),
			option.WithAPIKey("ollama"),
		),
		model: model,
		host:  host,
	}
}

// Model returns the configured model tag.
func (c *Client) Model() string { return c.model }

// Host returns the configured server address.
func (c *Client) Host() string { return c.host }

// ChatRequest is a single-turn chat request.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
}

// Usage carries token counts reported by the server.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// ChatResponse is the model's answer with usage and timing.
type ChatResponse struct {
	Content string
	Model   string
	Usage   Usage
	Latency time.Duration
}

// Chat sends a single-turn conversation and returns the answer.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
	}
	if req.System != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(req.System))
	}
	params.Messages = append(params.Messages, openai.UserMessage(req.User))
	if req.Temperature > 0 {
		params.Temperature = param.NewOpt(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(req.MaxTokens)
	}

	start := time.Now()
	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("ollama: chat request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("ollama: no choices in response")
	}

	return &ChatResponse{
		Content: strings.TrimSpace(completion.Choices[0].Message.Content),
		Model:   completion.Model,
		Usage: Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		},
		Latency: time.Since(start),
	}, nil
}

// CheckModel verifies the server is reachable and the configured model is
// pulled. The error message names the pull command when the model is
// missing.
func (c *Client) CheckModel(ctx context.Context) error {
	page, err := c.api.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("ollama: server not reachable at %s: %w", c.host, err)
	}
	for _, m := range page.Data {
		if m.ID == c.model {
			return nil
		}
	}
	return fmt.Errorf("ollama: model %q not found, run: ollama pull %s", c.model, c.model)
}
