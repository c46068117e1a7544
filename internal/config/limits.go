package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// HistoryWindowSize is the number of recent turns included in a
	// continuation prompt. Bounding the window keeps token usage per call
	// roughly constant regardless of conversation length, at the cost of
	// truncating long-range memory.
	HistoryWindowSize = 10

	// HistoryMaxTokens is the response token ceiling for history-aware
	// continuations. Always applied, regardless of caller input.
	HistoryMaxTokens = 1500
)

// ChatLimits are the tunable request limits and defaults. The window size
// and continuation token ceiling are deliberately constants above, not
// limits, so they cannot be overridden by deployment config.
type ChatLimits struct {
	// MaxMessageLength bounds user message content (matches the turn
	// table's content column budget).
	MaxMessageLength int `yaml:"max_message_length"`

	// DefaultTemperature is applied when the caller omits temperature.
	DefaultTemperature float64 `yaml:"default_temperature"`

	// DefaultMaxTokens is applied on one-shot chats when the caller omits
	// max_tokens.
	DefaultMaxTokens int `yaml:"default_max_tokens"`
}

// DefaultChatLimits returns the built-in limits.
func DefaultChatLimits() ChatLimits {
	return ChatLimits{
		MaxMessageLength:   4000,
		DefaultTemperature: 0.7,
		DefaultMaxTokens:   1000,
	}
}

// LoadChatLimits reads a YAML limits file over the defaults. An empty path
// returns the defaults unchanged.
func LoadChatLimits(path string) (ChatLimits, error) {
	limits := DefaultChatLimits()
	if path == "" {
		return limits, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("read limits file: %w", err)
	}

	if err := yaml.Unmarshal(data, &limits); err != nil {
		return limits, fmt.Errorf("parse limits file: %w", err)
	}

	if limits.MaxMessageLength <= 0 {
		return limits, fmt.Errorf("max_message_length must be positive, got %d", limits.MaxMessageLength)
	}
	if limits.DefaultMaxTokens <= 0 {
		return limits, fmt.Errorf("default_max_tokens must be positive, got %d", limits.DefaultMaxTokens)
	}

	return limits, nil
}
