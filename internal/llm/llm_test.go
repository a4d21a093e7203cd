package llm

import (
	"testing"
	"time"

	"escmon/internal/config"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare json", `{"score": 3}`, `{"score": 3}`},
		{"fenced json", "```json\n{\"score\": 3}\n```", `{"score": 3}`},
		{"fenced without language", "```\n{\"score\": 3}\n```", `{"score": 3}`},
		{"surrounding whitespace", "  {\"score\": 3}\n", `{"score": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSON(tt.input); got != tt.expected {
				t.Errorf("cleanJSON(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.Analysis{
		Model:   "gemini-2.5-flash",
		Timeout: time.Minute,
	})
	if err == nil {
		t.Fatal("NewClient with empty API key must fail")
	}
}
