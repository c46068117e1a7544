// Package analysis implements one-shot document analysis. The document
// text travels inline with the request; there is no document store.
package analysis

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
	// Analytical output wants a low temperature.
	analysisTemperature = 0.3
	analysisMaxTokens   = 1500

	// MaxDocumentLength bounds the inline document text.
	MaxDocumentLength = 50000
)

// Service implements the AnalysisService interface.
type Service struct {
	completions  services.CompletionClient
	gate         services.AdmissionGate
	defaultModel string
	logger       *slog.Logger
}

// NewService creates a new document analysis service.
func NewService(
	completions services.CompletionClient,
	gate services.AdmissionGate,
	defaultModel string,
	logger *slog.Logger,
) services.AnalysisService {
	return &Service{
		completions:  completions,
		gate:         gate,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// AnalyzeDocument runs the requested analysis over the supplied document.
func (s *Service) AnalyzeDocument(ctx context.Context, req *services.AnalysisRequest) (*services.ChatResult, error) {
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
			{Role: models.RoleSystem, Content: systemPrompt(req.AnalysisType)},
			{Role: models.RoleUser, Content: userPrompt(req)},
		},
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document analyzed",
		"analysis_type", req.AnalysisType,
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

// systemPrompt selects the analyst persona. Unknown types fall back to a
// general document analyst.
func systemPrompt(analysisType string) string {
	switch strings.ToLower(analysisType) {
	case "summarize":
		return "You are an expert at summarizing documents. Provide concise, accurate summaries highlighting key points."
	case "sentiment":
		return "You are a sentiment analysis expert. Analyze the emotional tone and sentiment of text."
	case "keypoints":
		return "You are an expert at extracting key information. Identify and list the main points from documents."
	case "qa":
		return "You are an expert at answering questions based on provided documents. Give accurate, relevant answers."
	default:
		return "You are a document analysis expert. Analyze the provided document thoroughly."
	}
}

func userPrompt(req *services.AnalysisRequest) string {
	var b strings.Builder
	b.WriteString("Document:\n")
	b.WriteString(req.Document)
	b.WriteString("\n\n")

	if strings.EqualFold(req.AnalysisType, "qa") && req.Question != "" {
		b.WriteString("Question: ")
		b.WriteString(req.Question)
	} else {
		b.WriteString("Please perform the analysis.")
	}

	return b.String()
}

func (s *Service) validate(req *services.AnalysisRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Document, validation.Required, validation.Length(1, MaxDocumentLength)),
		validation.Field(&req.AnalysisType, validation.Required),
	)
}
