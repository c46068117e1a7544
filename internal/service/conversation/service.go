// Package conversation implements the multi-turn chat orchestrator: it
// combines a new user message with the bounded conversation history into a
// completion prompt, gates the external call, and persists both sides of
// the exchange.
package conversation

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"converse/internal/config"
	"converse/internal/domain"
	"converse/internal/domain/models"
	"converse/internal/domain/repositories"
	"converse/internal/domain/services"
)

// Service implements the ConversationService interface.
type Service struct {
	turns        repositories.TurnRepository
	completions  services.CompletionClient
	gate         services.AdmissionGate
	defaultModel string
	limits       config.ChatLimits
	logger       *slog.Logger
}

// NewService creates a new conversation orchestrator.
func NewService(
	turns repositories.TurnRepository,
	completions services.CompletionClient,
	gate services.AdmissionGate,
	defaultModel string,
	limits config.ChatLimits,
	logger *slog.Logger,
) services.ConversationService {
	return &Service{
		turns:        turns,
		completions:  completions,
		gate:         gate,
		defaultModel: defaultModel,
		limits:       limits,
		logger:       logger,
	}
}

// StartConversation mints a fresh conversation id and runs the chat
// pipeline for its first exchange.
func (s *Service) StartConversation(ctx context.Context, req *services.ChatRequest) (*services.ChatResult, error) {
	if err := s.validateChatRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	conversationID := mintConversationID(req.UserID)
	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	s.logger.Info("starting conversation",
		"conversation_id", conversationID,
		"user_id", userID,
	)

	return s.exchange(ctx, conversationID, userID, req)
}

// ContinueConversation appends one exchange to an existing conversation.
func (s *Service) ContinueConversation(ctx context.Context, conversationID string, req *services.ChatRequest) (*services.ChatResult, error) {
	if err := s.validateChatRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Verify before any write: an unknown id must leave no side effects.
	existing, err := s.turns.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("verify conversation: %w", err)
	}
	if len(existing) == 0 {
		return nil, &domain.ConversationNotFoundError{ConversationID: conversationID}
	}

	// The conversation owner comes from its first turn, never from the
	// request: an id's user binding never changes once set.
	userID := existing[0].UserID

	s.logger.Info("continuing conversation",
		"conversation_id", conversationID,
		"user_id", userID,
		"turns", len(existing),
	)

	return s.exchange(ctx, conversationID, userID, req)
}

// exchange is the shared pipeline: persist user turn, fetch window,
// assemble, gate, call, persist assistant turn.
//
// The user turn is persisted before the external call on purpose. A failed
// completion leaves it in place with no assistant reply - conversation
// continuity is worth more than atomicity with the endpoint.
func (s *Service) exchange(ctx context.Context, conversationID, userID string, req *services.ChatRequest) (*services.ChatResult, error) {
	userTurn := &models.Turn{
		UserID:         userID,
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        req.Message,
	}
	if err := s.turns.Append(ctx, userTurn); err != nil {
		return nil, fmt.Errorf("persist user turn: %w", err)
	}

	window, err := s.turns.RecentByConversation(ctx, conversationID, config.HistoryWindowSize)
	if err != nil {
		return nil, fmt.Errorf("fetch history window: %w", err)
	}

	messages := BuildMessages(req.SystemPrompt, window, userTurn)

	if err := s.gate.Acquire(ctx); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}
	temperature := s.limits.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	// Continuations always use the fixed token ceiling; the caller's
	// max_tokens applies to one-shot chats only.
	result, err := s.completions.Complete(ctx, &services.CompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   config.HistoryMaxTokens,
	})
	if err != nil {
		s.logger.Error("completion failed, user turn retained",
			"conversation_id", conversationID,
			"turn_id", userTurn.ID,
			"error", err,
		)
		return nil, err
	}

	assistantTurn := &models.Turn{
		UserID:         userID,
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        result.Text,
		Model:          &model,
		TokensUsed:     &result.TokensUsed,
	}
	if err := s.turns.Append(ctx, assistantTurn); err != nil {
		return nil, fmt.Errorf("persist assistant turn: %w", err)
	}

	s.logger.Info("exchange completed",
		"conversation_id", conversationID,
		"model", model,
		"tokens_used", result.TokensUsed,
	)

	return &services.ChatResult{
		ConversationID: conversationID,
		Message:        result.Text,
		Model:          model,
		TokensUsed:     result.TokensUsed,
		Timestamp:      assistantTurn.CreatedAt,
	}, nil
}

// ListUserTurns retrieves all turns for a user, newest first.
func (s *Service) ListUserTurns(ctx context.Context, userID string) ([]models.Turn, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.turns.ListByUser(ctx, userID)
}

// ListConversationTurns retrieves a conversation's turns in chronological
// order. An unknown id yields an empty slice, not an error.
func (s *Service) ListConversationTurns(ctx context.Context, conversationID string) ([]models.Turn, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("%w: conversation id is required", domain.ErrValidation)
	}
	return s.turns.ListByConversation(ctx, conversationID)
}

// mintConversationID generates a fresh opaque id. When a user id was
// supplied it is combined with a random suffix; the mapping is one-way and
// ids are never parsed back.
func mintConversationID(userID string) string {
	if userID != "" {
		return userID + "-" + uuid.NewString()
	}
	return uuid.NewString()
}

func (s *Service) validateChatRequest(req *services.ChatRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Message,
			validation.Required,
			validation.Length(1, s.limits.MaxMessageLength),
		),
	)
}
