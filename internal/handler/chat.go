package handler

import (
	"log/slog"
	"net/http"

	"converse/internal/domain/services"
	"converse/internal/httputil"
)

// ChatHandler handles chat HTTP requests. Handlers only talk to services,
// never to repositories.
type ChatHandler struct {
	chatService         services.ChatService
	conversationService services.ConversationService
	logger              *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	chatService services.ChatService,
	conversationService services.ConversationService,
	logger *slog.Logger,
) *ChatHandler {
	return &ChatHandler{
		chatService:         chatService,
		conversationService: conversationService,
		logger:              logger,
	}
}

// parseChatRequest decodes the body and applies the authenticated identity.
// A verified token always wins over the body's user_id.
func (h *ChatHandler) parseChatRequest(w http.ResponseWriter, r *http.Request) (*services.ChatRequest, bool) {
	var req services.ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if userID := httputil.GetUserID(r); userID != "" {
		req.UserID = userID
	}
	return &req, true
}

// SimpleChat handles one-off chat without conversation history
// POST /api/chat
func (h *ChatHandler) SimpleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseChatRequest(w, r)
	if !ok {
		return
	}

	result, err := h.chatService.ProcessChat(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ChatWithMemory starts a new context-aware conversation
// POST /api/chat/conversation
func (h *ChatHandler) ChatWithMemory(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseChatRequest(w, r)
	if !ok {
		return
	}

	result, err := h.conversationService.StartConversation(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ContinueConversation continues a specific conversation thread
// POST /api/chat/conversation/{id}
func (h *ChatHandler) ContinueConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "conversation id")
	if !ok {
		return
	}

	req, ok := h.parseChatRequest(w, r)
	if !ok {
		return
	}

	result, err := h.conversationService.ContinueConversation(r.Context(), conversationID, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetConversationHistory retrieves all turns for a user, newest first
// GET /api/chat/history/{userId}
func (h *ChatHandler) GetConversationHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := PathParam(w, r, "userId", "user id")
	if !ok {
		return
	}

	turns, err := h.conversationService.ListUserTurns(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, turns)
}

// GetConversationMessages retrieves a conversation's turns chronologically
// GET /api/chat/conversation/{id}/messages
func (h *ChatHandler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "conversation id")
	if !ok {
		return
	}

	turns, err := h.conversationService.ListConversationTurns(r.Context(), conversationID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, turns)
}

// HealthCheck reports service liveness
// GET /health
func (h *ChatHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "up",
		"service": "converse",
	})
}
