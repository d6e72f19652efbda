package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"receipt-analyzer/pkg/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

// OpenRouter talks to any OpenAI-compatible /chat/completions endpoint
// (OpenRouter by default) with bearer-token auth. Retries are disabled:
// a failed call is reported once and the caller decides what to do.
type OpenRouter struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenRouter(cfg *config.OpenRouterConfig, logger *zap.Logger, extra ...option.RequestOption) *OpenRouter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
		option.WithMaxRetries(0),
	}
	// OpenRouter attribution headers
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}
	opts = append(opts, extra...)

	if cfg.APIKey == "" {
		logger.Warn("OPENROUTER_API_KEY is empty, chat completions will be rejected")
	}

	return &OpenRouter{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}
}

func (o *OpenRouter) Model() string { return o.model }

func (o *OpenRouter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("chat completion failed with status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

func (o *OpenRouter) Close() error { return nil }
