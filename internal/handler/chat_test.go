package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"converse/internal/domain"
	"converse/internal/domain/models"
	"converse/internal/domain/services"
)

type fakeChatService struct {
	result *services.ChatResult
	err    error
}

func (f *fakeChatService) ProcessChat(ctx context.Context, req *services.ChatRequest) (*services.ChatResult, error) {
	return f.result, f.err
}

type fakeConversationService struct {
	lastRequest *services.ChatRequest
	result      *services.ChatResult
	err         error
	turns       []models.Turn
}

func (f *fakeConversationService) StartConversation(ctx context.Context, req *services.ChatRequest) (*services.ChatResult, error) {
	f.lastRequest = req
	return f.result, f.err
}

func (f *fakeConversationService) ContinueConversation(ctx context.Context, conversationID string, req *services.ChatRequest) (*services.ChatResult, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeConversationService) ListUserTurns(ctx context.Context, userID string) ([]models.Turn, error) {
	return f.turns, f.err
}

func (f *fakeConversationService) ListConversationTurns(ctx context.Context, conversationID string) ([]models.Turn, error) {
	return f.turns, f.err
}

func newTestMux(chat services.ChatService, conv services.ConversationService) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewChatHandler(chat, conv, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("POST /api/chat", h.SimpleChat)
	mux.HandleFunc("POST /api/chat/conversation", h.ChatWithMemory)
	mux.HandleFunc("POST /api/chat/conversation/{id}", h.ContinueConversation)
	mux.HandleFunc("GET /api/chat/history/{userId}", h.GetConversationHistory)
	mux.HandleFunc("GET /api/chat/conversation/{id}/messages", h.GetConversationMessages)
	return mux
}

func TestChatWithMemory_Success(t *testing.T) {
	conv := &fakeConversationService{
		result: &services.ChatResult{ConversationID: "alice-123", Message: "Hello!", Model: "gpt-3.5-turbo", TokensUsed: 10},
	}
	mux := newTestMux(&fakeChatService{}, conv)

	body := strings.NewReader(`{"message":"Hi","user_id":"alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/conversation", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result services.ChatResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.ConversationID != "alice-123" {
		t.Errorf("unexpected conversation id %q", result.ConversationID)
	}
	if conv.lastRequest.UserID != "alice" {
		t.Errorf("expected body user id to pass through, got %q", conv.lastRequest.UserID)
	}
}

func TestContinueConversation_NotFoundMapsTo404(t *testing.T) {
	conv := &fakeConversationService{
		err: &domain.ConversationNotFoundError{ConversationID: "does-not-exist"},
	}
	mux := newTestMux(&fakeChatService{}, conv)

	req := httptest.NewRequest(http.MethodPost, "/api/chat/conversation/does-not-exist",
		strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "does-not-exist") {
		t.Errorf("response should reference the unknown id: %s", rec.Body.String())
	}
}

func TestSimpleChat_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"rate limited", &domain.RateLimitError{}, http.StatusTooManyRequests},
		{"completion failure", &domain.CompletionError{Cause: errors.New("boom")}, http.StatusBadGateway},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"persistence", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestMux(&fakeChatService{err: tc.err}, &fakeConversationService{})

			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("expected problem+json content type, got %q", ct)
			}
		})
	}
}

func TestSimpleChat_InvalidBody(t *testing.T) {
	mux := newTestMux(&fakeChatService{}, &fakeConversationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetConversationMessages_EmptyConversation(t *testing.T) {
	conv := &fakeConversationService{turns: []models.Turn{}}
	mux := newTestMux(&fakeChatService{}, conv)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/conversation/does-not-exist/messages", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty list, got %s", body)
	}
}

func TestHealthCheck(t *testing.T) {
	mux := newTestMux(&fakeChatService{}, &fakeConversationService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
