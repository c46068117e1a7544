package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"converse/internal/domain"
	"converse/internal/domain/services"
)

type fakeCompletionClient struct {
	lastRequest *services.CompletionRequest
	result      *services.CompletionResult
}

func (f *fakeCompletionClient) Complete(ctx context.Context, req *services.CompletionRequest) (*services.CompletionResult, error) {
	f.lastRequest = req
	return f.result, nil
}

type openGate struct{}

func (openGate) Acquire(ctx context.Context) error { return nil }

func newTestService(client *fakeCompletionClient) services.AnalysisService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(client, openGate{}, "gpt-3.5-turbo", logger)
}

func TestAnalyzeDocument_Summarize(t *testing.T) {
	client := &fakeCompletionClient{result: &services.CompletionResult{Text: "summary", TokensUsed: 50}}
	svc := newTestService(client)

	result, err := svc.AnalyzeDocument(context.Background(), &services.AnalysisRequest{
		Document:     "A long report about quarterly results.",
		AnalysisType: "summarize",
	})
	if err != nil {
		t.Fatalf("AnalyzeDocument failed: %v", err)
	}
	if result.Message != "summary" {
		t.Errorf("unexpected message %q", result.Message)
	}

	req := client.lastRequest
	if !strings.Contains(req.Messages[0].Content, "summarizing") {
		t.Errorf("unexpected system prompt: %q", req.Messages[0].Content)
	}
	if !strings.Contains(req.Messages[1].Content, "A long report about quarterly results.") {
		t.Errorf("user prompt missing document: %q", req.Messages[1].Content)
	}
	if req.Temperature != analysisTemperature || req.MaxTokens != analysisMaxTokens {
		t.Errorf("unexpected parameters: temp=%v max=%d", req.Temperature, req.MaxTokens)
	}
}

func TestAnalyzeDocument_QAIncludesQuestion(t *testing.T) {
	client := &fakeCompletionClient{result: &services.CompletionResult{}}
	svc := newTestService(client)

	if _, err := svc.AnalyzeDocument(context.Background(), &services.AnalysisRequest{
		Document:     "The meeting is on Thursday.",
		AnalysisType: "qa",
		Question:     "When is the meeting?",
	}); err != nil {
		t.Fatalf("AnalyzeDocument failed: %v", err)
	}

	user := client.lastRequest.Messages[1].Content
	if !strings.Contains(user, "Question: When is the meeting?") {
		t.Errorf("user prompt missing question: %q", user)
	}
}

func TestAnalyzeDocument_Validation(t *testing.T) {
	svc := newTestService(&fakeCompletionClient{result: &services.CompletionResult{}})

	_, err := svc.AnalyzeDocument(context.Background(), &services.AnalysisRequest{AnalysisType: "summarize"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing document: expected ErrValidation, got %v", err)
	}

	_, err = svc.AnalyzeDocument(context.Background(), &services.AnalysisRequest{Document: "text"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing analysis type: expected ErrValidation, got %v", err)
	}
}
