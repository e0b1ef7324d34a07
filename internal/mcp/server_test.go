package mcp

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dlane/voicenotes/internal/notes"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "Short string unchanged",
			input:  "buy milk",
			maxLen: 20,
			want:   "buy milk",
		},
		{
			name:   "Exact length unchanged",
			input:  "1234567890",
			maxLen: 10,
			want:   "1234567890",
		},
		{
			name:   "Long string truncated",
			input:  "123456789012345",
			maxLen: 10,
			want:   "1234567...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTruncateStringKeepsRunesIntact(t *testing.T) {
	input := strings.Repeat("音", 50)

	got := truncateString(input, 20)
	if !utf8.ValidString(got) {
		t.Errorf("Truncation broke a rune: %q", got)
	}
	if want := strings.Repeat("音", 17) + "..."; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestFormatResults(t *testing.T) {
	score := 0.92
	ranked := formatResults([]notes.Result{
		{ID: "id-1", Text: "buy milk and eggs", Score: &score},
	}, true)
	if !strings.Contains(ranked, "score 0.9200") {
		t.Errorf("Ranked results should include the score, got %q", ranked)
	}

	unranked := formatResults([]notes.Result{
		{ID: "id-1", Text: "buy milk and eggs"},
	}, false)
	if strings.Contains(unranked, "score") {
		t.Errorf("Unranked results should not mention scores, got %q", unranked)
	}

	if got := formatResults(nil, false); got != "No notes found." {
		t.Errorf("Expected empty-result message, got %q", got)
	}
}
