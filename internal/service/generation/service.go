// Package generation implements one-shot content generation over templated
// prompts. Stateless: nothing is persisted.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"converse/internal/domain"
	"converse/internal/domain/models"
	"converse/internal/domain/services"
)

const (
	// Creative output wants a higher temperature and a larger budget than
	// regular chat.
	generationTemperature = 0.8
	generationMaxTokens   = 2000
)

// Service implements the GenerationService interface.
type Service struct {
	completions  services.CompletionClient
	gate         services.AdmissionGate
	defaultModel string
	logger       *slog.Logger
}

// NewService creates a new content generation service.
func NewService(
	completions services.CompletionClient,
	gate services.AdmissionGate,
	defaultModel string,
	logger *slog.Logger,
) services.GenerationService {
	return &Service{
		completions:  completions,
		gate:         gate,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// GenerateContent produces content of the requested type and tone.
func (s *Service) GenerateContent(ctx context.Context, req *services.GenerationRequest) (*services.ChatResult, error) {
	if err := s.validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	if err := s.gate.Acquire(ctx); err != nil {
		return nil, err
	}

	result, err := s.completions.Complete(ctx, &services.CompletionRequest{
		Model: model,
		Messages: []services.Message{
			{Role: models.RoleSystem, Content: systemPrompt(req.ContentType, req.Tone)},
			{Role: models.RoleUser, Content: userPrompt(req)},
		},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("content generated",
		"content_type", req.ContentType,
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

// systemPrompt selects the writer persona for the content type. Unknown
// types fall back to a generic content writer.
func systemPrompt(contentType, tone string) string {
	if tone == "" {
		tone = "professional"
	}

	switch strings.ToLower(contentType) {
	case "blog":
		return "You are an expert blog writer. Create engaging, well-structured blog posts with a " + tone + " tone."
	case "email":
		return "You are a professional email writer. Craft clear, concise emails with a " + tone + " tone."
	case "code":
		return "You are an expert programmer. Generate clean, well-documented code with explanations."
	case "social-media":
		return "You are a social media content creator. Create engaging posts that drive engagement."
	default:
		return "You are a professional content writer. Create high-quality content with a " + tone + " tone."
	}
}

func userPrompt(req *services.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Topic: ")
	b.WriteString(req.Topic)
	b.WriteString("\n\n")

	if req.Instructions != "" {
		b.WriteString("Additional instructions: ")
		b.WriteString(req.Instructions)
		b.WriteString("\n\n")
	}

	b.WriteString("Please create the ")
	b.WriteString(req.ContentType)
	b.WriteString(" content.")
	return b.String()
}

func (s *Service) validate(req *services.GenerationRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ContentType, validation.Required),
		validation.Field(&req.Topic, validation.Required, validation.Length(1, 2000)),
	)
}
