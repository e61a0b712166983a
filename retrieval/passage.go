package retrieval

import (
	"strings"
)

// Passage is a single unit of retrieved context: a titled body of text.
type Passage struct {
	Title string
	Text  string
}

// String renders the passage in the "title | body" wire format used by
// retrieval services.
func (p Passage) String() string {
	return p.Title + " | " + p.Text
}

// ParsePassage parses a "title | body" formatted string into a Passage.
// If no separator is present, the whole string becomes the text and the
// title is left empty.
func ParsePassage(s string) Passage {
	title, text, found := strings.Cut(s, " | ")
	if !found {
		return Passage{Text: strings.TrimSpace(s)}
	}
	return Passage{
		Title: strings.TrimSpace(title),
		Text:  strings.TrimSpace(text),
	}
}

// Dedup removes passages whose text exactly matches an earlier passage,
// preserving order. The first occurrence wins. Applying Dedup to its own
// output returns an equal slice.
func Dedup(passages []Passage) []Passage {
	seen := make(map[string]bool, len(passages))
	out := make([]Passage, 0, len(passages))
	for _, p := range passages {
		if seen[p.Text] {
			continue
		}
		seen[p.Text] = true
		out = append(out, p)
	}
	return out
}
