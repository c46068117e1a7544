package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"converse/internal/domain"
	"converse/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", testLogger(), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, server
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", testLogger()); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestComplete_Success(t *testing.T) {
	var gotReq chatCompletionRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(chatCompletionResponse{
			ID:    "cmpl-1",
			Model: gotReq.Model,
			Choices: []chatChoice{
				{Message: chatMessage{Role: "assistant", Content: "Hello there!"}, FinishReason: "stop"},
			},
			Usage: chatUsage{PromptTokens: 12, CompletionTokens: 5, TotalTokens: 17},
		})
	})

	result, err := client.Complete(context.Background(), &services.CompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []services.Message{
			{Role: "system", Content: "You are a helpful AI assistant."},
			{Role: "user", Content: "Hi"},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if result.Text != "Hello there!" {
		t.Errorf("unexpected text %q", result.Text)
	}
	if result.TokensUsed != 17 {
		t.Errorf("expected 17 tokens used, got %d", result.TokensUsed)
	}
	if gotReq.MaxTokens != 1000 {
		t.Errorf("expected max_tokens 1000 on the wire, got %d", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("unexpected wire messages: %+v", gotReq.Messages)
	}
}

func TestComplete_EndpointError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	_, err := client.Complete(context.Background(), &services.CompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []services.Message{{Role: "user", Content: "Hi"}},
	})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}

	var completionErr *domain.CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected *domain.CompletionError, got %T", err)
	}
}

func TestComplete_TransportFailure(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // force a connection error

	_, err := client.Complete(context.Background(), &services.CompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []services.Message{{Role: "user", Content: "Hi"}},
	})

	var completionErr *domain.CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected *domain.CompletionError, got %v", err)
	}
}

func TestComplete_EndpointTimeout(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		// Drain the body so the server starts its background read and can
		// observe the client abort; otherwise the request context is never
		// canceled and Cleanup's server.Close blocks forever.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done() // hold the response until the client gives up
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", testLogger(),
		WithBaseURL(server.URL),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Complete(context.Background(), &services.CompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []services.Message{{Role: "user", Content: "Hi"}},
	})

	<-started
	var completionErr *domain.CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected *domain.CompletionError, got %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatCompletionResponse{Usage: chatUsage{TotalTokens: 3}})
	})

	_, err := client.Complete(context.Background(), &services.CompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []services.Message{{Role: "user", Content: "Hi"}},
	})

	var completionErr *domain.CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected *domain.CompletionError, got %v", err)
	}
}
