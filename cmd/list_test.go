package cmd

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dlane/voicenotes/internal/constants"
)

func TestPreviewText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "Short text unchanged",
			text: "buy milk",
			want: "buy milk",
		},
		{
			name: "Newlines flattened",
			text: "buy milk\nand eggs",
			want: "buy milk and eggs",
		},
		{
			name: "Long text truncated with ellipsis",
			text: strings.Repeat("a", constants.PreviewLength+10),
			want: strings.Repeat("a", constants.PreviewLength-3) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := previewText(tt.text); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPreviewTextKeepsRunesIntact(t *testing.T) {
	// Multi-byte characters must never be cut mid-sequence.
	text := strings.Repeat("ノ", constants.PreviewLength+10)

	got := previewText(text)
	if !utf8.ValidString(got) {
		t.Errorf("Preview contains a broken rune: %q", got)
	}
	if want := strings.Repeat("ノ", constants.PreviewLength-3) + "..."; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
