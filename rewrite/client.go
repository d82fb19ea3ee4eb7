package rewrite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Completer sends a single-message prompt to a language model and returns
// the model's reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for the rewrite step.
type Config struct {
	// Base URL of an OpenAI-compatible API
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultConfig returns the OpenRouter configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://openrouter.ai/api/v1",
		Model:       "tngtech/deepseek-r1t2-chimera:free",
		Temperature: 0.7,
		MaxTokens:   3500,
		Timeout:     120 * time.Second,
	}
}

// ChatClient calls the chat completions endpoint of an OpenAI-compatible
// API.
type ChatClient struct {
	config *Config
	client *openai.Client
}

// NewChatClient creates a chat client.
func NewChatClient(config *Config) *ChatClient {
	if config == nil {
		config = DefaultConfig()
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	clientConfig.HTTPClient = &http.Client{
		Timeout: config.Timeout,
	}

	return &ChatClient{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Complete implements Completer.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("HTTP error: %d %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("failed to call chat API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
