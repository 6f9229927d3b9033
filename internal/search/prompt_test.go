package search

import (
	"strings"
	"testing"

	"github.com/atlasdesk/atlasdesk/internal/knowledge"
)

func TestBuildContext(t *testing.T) {
	tests := []struct {
		name         string
		matches      []knowledge.Match
		excerptChars int
		want         []string
		notWant      []string
	}{
		{
			name:         "zero matches",
			matches:      nil,
			excerptChars: 700,
			notWant:      []string{"Source"},
		},
		{
			name: "labels are one-based and carry the corpus name",
			matches: []knowledge.Match{
				{Document: knowledge.Document{Title: strPtr("A"), Content: "first", Source: knowledge.SourceHandbook}},
				{Document: knowledge.Document{Title: strPtr("B"), Content: "second", Source: knowledge.SourceCommunity}},
			},
			excerptChars: 700,
			want: []string{
				"Source 1 (handbook):\nTitle: A\nfirst",
				"Source 2 (community):\nTitle: B\nsecond",
			},
		},
		{
			name: "nil title renders empty",
			matches: []knowledge.Match{
				{Document: knowledge.Document{Title: nil, Content: "body", Source: knowledge.SourceHandbook}},
			},
			excerptChars: 700,
			want:         []string{"Title: \nbody"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildContext(tt.matches, tt.excerptChars)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("BuildContext() missing %q in:\n%s", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("BuildContext() unexpectedly contains %q", nw)
				}
			}
		})
	}
}

func TestBuildContext_EmptyOnNoMatches(t *testing.T) {
	if got := BuildContext(nil, 700); got != "" {
		t.Errorf("BuildContext(nil) = %q, want empty string", got)
	}
}

func TestBuildContext_HardCut(t *testing.T) {
	long := strings.Repeat("a", 1000)
	matches := []knowledge.Match{
		{Document: knowledge.Document{Content: long, Source: knowledge.SourceHandbook}},
	}

	got := BuildContext(matches, 700)
	if strings.Contains(got, strings.Repeat("a", 701)) {
		t.Error("content not cut at the excerpt budget")
	}
	if !strings.Contains(got, strings.Repeat("a", 700)) {
		t.Error("cut removed more than the excerpt budget")
	}
}

func TestBuildContext_HardCutCountsRunes(t *testing.T) {
	// Multi-byte runes must be cut on rune boundaries, never mid-sequence.
	long := strings.Repeat("ü", 1000)
	matches := []knowledge.Match{
		{Document: knowledge.Document{Content: long, Source: knowledge.SourceCommunity}},
	}

	got := BuildContext(matches, 700)
	if !strings.Contains(got, strings.Repeat("ü", 700)) {
		t.Error("rune cut lost characters")
	}
	if strings.Contains(got, strings.Repeat("ü", 701)) {
		t.Error("rune cut kept too many characters")
	}
	if strings.Contains(got, "�") {
		t.Error("cut split a multi-byte sequence")
	}
}

func TestBuildContext_NeverDropsMatches(t *testing.T) {
	matches := make([]knowledge.Match, 20)
	for i := range matches {
		matches[i] = knowledge.Match{
			Document: knowledge.Document{Content: strings.Repeat("x", 900), Source: knowledge.SourceHandbook},
		}
	}

	got := BuildContext(matches, 700)
	if !strings.Contains(got, "Source 20 (handbook):") {
		t.Error("later matches dropped from the context block")
	}
}

func TestBuildPrompt(t *testing.T) {
	matches := []knowledge.Match{
		{Document: knowledge.Document{Title: strPtr("Doc"), Content: "context body", Source: knowledge.SourceHandbook}, Similarity: 0.5},
	}

	p := BuildPrompt("How do snapshots work?", matches, 700)

	if p.System != systemPolicy {
		t.Error("system turn does not carry the policy constant")
	}
	if !strings.Contains(p.User, "How do snapshots work?") {
		t.Error("user turn missing the question")
	}
	if !strings.Contains(p.User, "context body") {
		t.Error("user turn missing the context block")
	}
	if !strings.Contains(p.User, "your own knowledge") {
		t.Error("user turn missing the general-knowledge permission")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"", 5, ""},
		{"short", 700, "short"},
		{"exactly", 7, "exactly"},
		{"abcdefgh", 3, "abc"},
		{"héllo", 2, "hé"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
