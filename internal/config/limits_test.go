package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLimitsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write limits file: %v", err)
	}
	return path
}

func TestLoadChatLimits_EmptyPathReturnsDefaults(t *testing.T) {
	limits, err := LoadChatLimits("")
	if err != nil {
		t.Fatalf("LoadChatLimits() error = %v", err)
	}
	if limits != DefaultChatLimits() {
		t.Errorf("limits = %+v, want defaults %+v", limits, DefaultChatLimits())
	}
}

func TestLoadChatLimits_FileOverridesDefaults(t *testing.T) {
	path := writeLimitsFile(t, `
max_message_length: 8000
default_temperature: 0.3
`)

	limits, err := LoadChatLimits(path)
	if err != nil {
		t.Fatalf("LoadChatLimits() error = %v", err)
	}
	if limits.MaxMessageLength != 8000 {
		t.Errorf("MaxMessageLength = %d, want 8000", limits.MaxMessageLength)
	}
	if limits.DefaultTemperature != 0.3 {
		t.Errorf("DefaultTemperature = %v, want 0.3", limits.DefaultTemperature)
	}
	// Keys absent from the file keep their defaults
	if limits.DefaultMaxTokens != DefaultChatLimits().DefaultMaxTokens {
		t.Errorf("DefaultMaxTokens = %d, want default %d", limits.DefaultMaxTokens, DefaultChatLimits().DefaultMaxTokens)
	}
}

func TestLoadChatLimits_MissingFile(t *testing.T) {
	if _, err := LoadChatLimits(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadChatLimits_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero message length", "max_message_length: 0"},
		{"negative max tokens", "default_max_tokens: -5"},
		{"malformed yaml", "max_message_length: [not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLimitsFile(t, tt.content)
			if _, err := LoadChatLimits(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
