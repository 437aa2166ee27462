package domain

// SnippetLimit is the maximum evidence snippet length in characters (code points).
const SnippetLimit = 300

// Match is a single ranked search hit. Derived per call, never persisted.
type Match struct {
	DocID           string
	Title           string
	Score           float64 // display score in [0, 100]
	EvidenceSnippet string
}

// Candidate is a scored document produced by a store query before ranking.
// RawScore is oriented higher-is-better; its scale depends on the store's
// ScoringStrategy and is only used for relative ordering.
type Candidate struct {
	Doc      Document
	RawScore float64
}

// Snippet returns the first SnippetLimit characters of text, with a trailing
// ellipsis when truncated. Plain truncation, not a semantic excerpt.
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= SnippetLimit {
		return text
	}
	return string(runes[:SnippetLimit]) + "..."
}
