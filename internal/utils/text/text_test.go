package text_test

import (
	"testing"

	"forum-reader/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "ASCII", input: "hello", want: 5},
		{name: "Japanese", input: "こんにちは", want: 5},
		{name: "mixed", input: "hello世界", want: 7},
		{name: "emoji", input: "Hello👋", want: 6},
		{name: "empty", input: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.want {
				t.Errorf("CountRunes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollapseSpace(t *testing.T) {
	got := text.CollapseSpace("  How do\n\tmaps   grow? ")
	if got != "How do maps grow?" {
		t.Errorf("CollapseSpace() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "fits", input: "short", limit: 10, want: "short"},
		{name: "exact", input: "0123456789", limit: 10, want: "0123456789"},
		{name: "word boundary", input: "the quick brown fox jumps", limit: 18, want: "the quick brown…"},
		{name: "no boundary", input: "abcdefghijklmnop", limit: 8, want: "abcdefg…"},
		{name: "multibyte", input: "日本語のテキストです", limit: 5, want: "日本語の…"},
		{name: "zero limit", input: "anything", limit: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := text.Truncate(tt.input, tt.limit)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
			if n := text.CountRunes(got); n > tt.limit {
				t.Errorf("Truncate() returned %d runes, limit %d", n, tt.limit)
			}
		})
	}
}
