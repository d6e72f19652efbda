package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"receipt-analyzer/internal/llm"
	"receipt-analyzer/internal/metrics"

	"go.uber.org/zap"
)

const (
	classifyPromptTemplate = "Classify this expense: '%s' into categories like food, transport, entertainment, etc."
	advicePromptTemplate   = "Based on these expenses: %s, suggest quick saving tips."
	summaryTemplate        = "%s categorized as %s"

	CategorizationFallback = "Error in categorization"
	AdviceFallback         = "Error in generating advice"
)

// LLMService turns receipt text into a category and saving tips. A failed
// completion never fails the caller: the step's placeholder text is returned
// instead.
type LLMService struct {
	completer llm.Completer
	logger    *zap.Logger
}

func NewLLMService(completer llm.Completer, logger *zap.Logger) *LLMService {
	return &LLMService{
		completer: completer,
		logger:    logger,
	}
}

// Categorize asks the model for a free-text category of the expense.
func (s *LLMService) Categorize(ctx context.Context, text string) string {
	return s.complete(ctx, "classification", fmt.Sprintf(classifyPromptTemplate, text), CategorizationFallback)
}

// GenerateAdvice asks for saving tips based on the text and its category.
func (s *LLMService) GenerateAdvice(ctx context.Context, text, category string) string {
	summary := Summary(text, category)
	s.logger.Debug("Expense summary", zap.String("summary", summary))
	return s.complete(ctx, "advice", fmt.Sprintf(advicePromptTemplate, summary), AdviceFallback)
}

// Summary is the text the advice prompt is built from.
func Summary(text, category string) string {
	return fmt.Sprintf(summaryTemplate, text, category)
}

func (s *LLMService) complete(ctx context.Context, step, prompt, fallback string) string {
	start := time.Now()
	content, err := s.completer.Complete(ctx, prompt)
	metrics.ObserveDependency(metrics.DependencyLLM, start)

	if err != nil {
		s.logger.Warn("Chat completion failed, using placeholder",
			zap.String("step", step),
			zap.String("model", s.completer.Model()),
			zap.Error(err),
		)
		metrics.ObserveSoftFailure(step)
		return fallback
	}

	return strings.TrimSpace(content)
}
