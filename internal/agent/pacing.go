package agent

import "strings"

// SentenceDelimiter is the reserved character the model is instructed to put
// at the end of every sentence. Paced delivery splits on it so each sentence
// arrives as its own chat message.
const SentenceDelimiter = "~"

// Segment splits rendered text into ordered, trimmed, non-empty fragments.
// A zero-fragment result means the pipeline must fall back to the canned
// apology; a turn never ends with zero net output.
func Segment(text string) []string {
	parts := strings.Split(text, SentenceDelimiter)
	fragments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fragments = append(fragments, trimmed)
		}
	}
	return fragments
}
