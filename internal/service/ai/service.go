// Package ai wraps the generation backend: a compiled eino chain over
// the Gemini chat model, plus the prompt templates and the defensive
// output parsers.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/finance1/summary-agent/backend/internal/apperr"
	"github.com/finance1/summary-agent/backend/internal/config"
)

// Service sends assembled prompts to the generation backend.
type Service struct {
	chatModel model.BaseChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
	log       *zap.Logger
}

// NewService builds the chat model and compiles the prompt chain once.
func NewService(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	// The prompt arrives fully assembled; the template is a single
	// passthrough slot so substituted CRM text is never re-formatted.
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
		log:       log,
	}, nil
}

// StreamingEnabled reports whether streamed responses are configured.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// Generate runs one buffered completion. The call carries a bounded
// timeout; an elapsed deadline surfaces as a Timeout error, any other
// backend failure as an Upstream error.
func (s *Service) Generate(ctx context.Context, promptText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	message, err := s.chain.Invoke(ctx, map[string]any{"prompt": promptText})
	if err != nil {
		return "", apperr.FromTransport("generation request failed", err)
	}
	if message == nil || strings.TrimSpace(message.Content) == "" {
		return "", apperr.Upstream("generation backend returned no text", 0, "")
	}

	s.log.Debug("generated response",
		zap.Int("prompt_len", len(promptText)),
		zap.Int("response_len", len(message.Content)))
	return message.Content, nil
}

// Stream runs one streamed completion. The caller owns the reader and
// must close it; cancellation rides the request context.
func (s *Service) Stream(ctx context.Context, promptText string) (*schema.StreamReader[*schema.Message], error) {
	stream, err := s.chain.Stream(ctx, map[string]any{"prompt": promptText})
	if err != nil {
		return nil, apperr.FromTransport("generation stream failed", err)
	}
	return stream, nil
}
