// Package llm wraps the chat-completion providers behind a single-prompt interface.
package llm

import (
	"context"
	"errors"
	"fmt"

	"receipt-analyzer/pkg/config"

	"go.uber.org/zap"
)

// ErrEmptyCompletion is returned when the provider answers without choices.
var ErrEmptyCompletion = errors.New("completion has no choices")

// Completer sends one user message and returns the content of the first choice.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
	Close() error
}

// New builds the completer selected by cfg.Provider.
func New(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenRouter, "":
		return NewOpenRouter(&cfg.OpenRouter, logger), nil
	case config.ProviderGigaChat:
		return NewGigaChat(ctx, &cfg.GigaChat, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
