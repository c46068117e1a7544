package conversation

import (
	"sort"

	"converse/internal/domain/models"
	"converse/internal/domain/services"
)

// DefaultSystemPrompt is prepended to every memory-aware completion call
// when the caller does not supply one.
const DefaultSystemPrompt = "You are a helpful AI assistant with conversation memory. " +
	"Continue the conversation naturally, referring to previous context when relevant."

// BuildMessages assembles the ordered message sequence for a completion
// call: system prompt first, then the history window in chronological
// order, then the new user turn.
//
// The window arrives newest-first (it comes from a recency-bounded query)
// and is re-sorted ascending by id, the append sequence. The new user turn
// was persisted before assembly, so the window usually already contains it;
// it is appended only when a concurrent writer pushed it out of the window.
func BuildMessages(systemPrompt string, window []models.Turn, userTurn *models.Turn) []services.Message {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	messages := make([]services.Message, 0, len(window)+2)
	messages = append(messages, services.Message{
		Role:    models.RoleSystem,
		Content: systemPrompt,
	})

	history := make([]models.Turn, len(window))
	copy(history, window)
	sort.Slice(history, func(i, j int) bool {
		return history[i].ID < history[j].ID
	})

	seen := false
	for _, turn := range history {
		if turn.ID == userTurn.ID {
			seen = true
		}
		messages = append(messages, services.Message{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	if !seen {
		messages = append(messages, services.Message{
			Role:    models.RoleUser,
			Content: userTurn.Content,
		})
	}

	return messages
}
