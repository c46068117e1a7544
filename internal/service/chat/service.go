// Package chat implements one-shot chat without conversation memory.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"converse/internal/config"
	"converse/internal/domain"
	"converse/internal/domain/models"
	"converse/internal/domain/services"
)

// DefaultSystemPrompt is used when the caller does not supply one.
const DefaultSystemPrompt = "You are a helpful AI assistant."

// Service implements the ChatService interface.
type Service struct {
	completions  services.CompletionClient
	gate         services.AdmissionGate
	defaultModel string
	limits       config.ChatLimits
	logger       *slog.Logger
}

// NewService creates a new one-shot chat service.
func NewService(
	completions services.CompletionClient,
	gate services.AdmissionGate,
	defaultModel string,
	limits config.ChatLimits,
	logger *slog.Logger,
) services.ChatService {
	return &Service{
		completions:  completions,
		gate:         gate,
		defaultModel: defaultModel,
		limits:       limits,
		logger:       logger,
	}
}

// ProcessChat sends a single message without history. Unlike
// continuations, the caller's temperature and max_tokens are honored.
func (s *Service) ProcessChat(ctx context.Context, req *services.ChatRequest) (*services.ChatResult, error) {
	if err := s.validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}
	temperature := s.limits.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.limits.DefaultMaxTokens
	}

	if err := s.gate.Acquire(ctx); err != nil {
		return nil, err
	}

	result, err := s.completions.Complete(ctx, &services.CompletionRequest{
		Model: model,
		Messages: []services.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: req.Message},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chat completed",
		"model", model,
		"tokens_used", result.TokensUsed,
	)

	return &services.ChatResult{
		Message:    result.Text,
		Model:      model,
		TokensUsed: result.TokensUsed,
		Timestamp:  time.Now(),
	}, nil
}

func (s *Service) validate(req *services.ChatRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Message,
			validation.Required,
			validation.Length(1, s.limits.MaxMessageLength),
		),
	)
}
