package llm

import (
	"context"
	"fmt"

	"receipt-analyzer/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// GigaChat uses the Sber GigaChat SDK. Authentication is the SDK's OAuth
// exchange of the base64 authorization key for an access token.
type GigaChat struct {
	client   *gigago.Client
	model    string
	generate func(ctx context.Context, prompt string) (string, error)
	logger   *zap.Logger
}

func NewGigaChat(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChat, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)

	g := &GigaChat{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}
	g.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := model.Generate(ctx, []gigago.Message{
			{Role: gigago.RoleUser, Content: prompt},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyCompletion
		}
		return resp.Choices[0].Message.Content, nil
	}

	logger.Info("Using GigaChat model", zap.String("model", cfg.Model))
	return g, nil
}

func (g *GigaChat) Model() string { return g.model }

func (g *GigaChat) Complete(ctx context.Context, prompt string) (string, error) {
	content, err := g.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("gigachat completion failed: %w", err)
	}
	return content, nil
}

func (g *GigaChat) Close() error {
	if g.client != nil {
		g.client.Close()
	}
	return nil
}
