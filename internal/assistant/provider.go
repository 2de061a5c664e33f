package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"estatify/server/config"
)

var ErrNotConfigured = errors.New("chat provider is not configured")

// Provider completes a single chat exchange
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (*Completion, error)
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Completion struct {
	Text  string
	Usage *Usage
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAIProvider talks to an OpenAI compatible chat completions endpoint
type OpenAIProvider struct {
	client *resty.Client
	cfg    config.AssistantConfig
}

func NewOpenAIProvider(cfg config.AssistantConfig) *OpenAIProvider {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &OpenAIProvider{client: client, cfg: cfg}
}

func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (*Completion, error) {
	if p.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	var result chatResponse
	var apiErr errorResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: p.cfg.Model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userMessage},
			},
			Temperature: p.cfg.Temperature,
			MaxTokens:   p.cfg.MaxTokens,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("chat provider returned status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, errors.New("chat provider returned no choices")
	}

	return &Completion{
		Text:  result.Choices[0].Message.Content,
		Usage: result.Usage,
	}, nil
}
