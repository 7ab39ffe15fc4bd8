// Package ai wraps the narrative-generation backend behind a small client.
package ai

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"

	serrors "github.com/dragon88888888888/dashboard-serenity/internal/errors"
	"github.com/dragon88888888888/dashboard-serenity/internal/profile"
)

// Config holds the narrative backend configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		APIKey:     "",
		Model:      "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    60 * time.Second,
	}
}

// NewConfigFromProfile builds a backend config from the server profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	return &Config{
		BaseURL:    p.AIBaseURL,
		APIKey:     p.AIAPIKey,
		Model:      p.AIModel,
		MaxRetries: p.AIMaxRetries,
		Timeout:    time.Duration(p.AITimeoutSecs) * time.Second,
	}
}

// Provider is a chat-completion client for any OpenAI-compatible endpoint.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new narrative backend provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, serrors.InvalidArgument("narrative backend API key is required")
	}

	// Apply defaults for unset values
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Generate submits one prompt pair and returns the backend's free text.
func (p *Provider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()

		req := openai.ChatCompletionRequest{
			Model: p.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		}

		resp, err := p.client.CreateChatCompletion(callCtx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return serrors.GenerationBackend("empty chat response", nil)
		}
		result = resp.Choices[0].Message.Content
		return nil
	})

	if err != nil {
		return "", serrors.GenerationBackend("failed to complete generation", err)
	}

	return result, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("narrative backend request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}
