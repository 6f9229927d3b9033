package search

import (
	"fmt"
	"strings"

	"github.com/atlasdesk/atlasdesk/internal/knowledge"
)

// Prompt is the two-turn prompt sent to the generation model.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt assembles the two-turn prompt from the policy constant, the
// question, and the retrieved matches. Pure function: no state, no I/O.
//
// Every match is included, in the order given, with its content hard-cut at
// excerptChars runes. The user turn explicitly permits the model to use
// general knowledge beyond the context block.
func BuildPrompt(query string, matches []knowledge.Match, excerptChars int) Prompt {
	return Prompt{
		System: systemPolicy,
		User: fmt.Sprintf(
			"Question:\n%s\n\nUse the following context to answer. You may also use your own knowledge:\n\n%s",
			query, BuildContext(matches, excerptChars)),
	}
}

// BuildContext concatenates a labeled excerpt of each match. Matches are
// emitted in the order given; the store already returns them by descending
// similarity and this function never re-sorts or drops entries.
// Zero matches yield an empty string.
func BuildContext(matches []knowledge.Match, excerptChars int) string {
	var b strings.Builder
	for i, m := range matches {
		var title string
		if m.Title != nil {
			title = *m.Title
		}
		fmt.Fprintf(&b, "\nSource %d (%s):\nTitle: %s\n%s\n",
			i+1, m.Source, title, truncate(m.Content, excerptChars))
		if i < len(matches)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// truncate hard-cuts s at n runes. The cut is deliberately not
// sentence-aware; it only bounds prompt size.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
