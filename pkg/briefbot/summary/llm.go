// Package summary - llm.go implements the text-generation client on top of
// the OpenAI-compatible chat completions API, which covers OpenAI itself as
// well as local servers (LM Studio, Ollama, vLLM) and most hosted providers.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// requestTimeout bounds a single completion call. A timeout is treated as a
// generation fault by the caller, triggering the fallback summary.
const requestTimeout = 30 * time.Second

// TextGenerator produces text from a system instruction and a user prompt.
// The generator package depends on this interface so tests can substitute a
// fake; LLMClient is the production implementation.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMClient calls an OpenAI-compatible chat completions endpoint.
type LLMClient struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *slog.Logger
}

// NewLLMClient creates a text-generation client. Key, base URL, and model
// are all required; max tokens caps the response length server-side.
func NewLLMClient(apiKey, baseURL, model string, maxTokens int, logger *slog.Logger) (*LLMClient, error) {
	if apiKey == "" || baseURL == "" || model == "" {
		return nil, fmt.Errorf("llm: api key, base url, and model are all required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &LLMClient{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger.With("component", "llm", "model", model),
	}, nil
}

// Complete sends one chat completion request and returns the generated text.
func (c *LLMClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response from model %s", c.model)
	}

	return resp.Choices[0].Message.Content, nil
}

var _ TextGenerator = (*LLMClient)(nil)
