package citation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/smallnest/longformqa/retrieval"
)

var markerRe = regexp.MustCompile(`\[(\d+)\]`)

// Span pairs a citation index with the text it supports: everything since
// the previous citation (at most a couple of sentences in well-formed
// output) up to and including the cited sentence.
type Span struct {
	// Index is the 1-based index into the context.
	Index int
	// Text is the cited text span.
	Text string
}

// Extract returns the 1-based citation indices found in text, in order of
// appearance, duplicates included.
func Extract(text string) []int {
	matches := markerRe.FindAllStringSubmatch(text, -1)
	indices := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	return indices
}

// ExtractSpans splits text at citation markers and pairs each citation with
// the text block preceding it. The terminator of the previous cited sentence
// is stripped, so spans read as clean claims. Citations with no preceding
// text (for example doubled markers) yield empty-span entries.
func ExtractSpans(text string) []Span {
	locs := markerRe.FindAllStringSubmatchIndex(text, -1)
	spans := make([]Span, 0, len(locs))

	prev := 0
	for _, loc := range locs {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		span := strings.TrimLeft(text[prev:loc[0]], ".?!,;: \t\n")
		spans = append(spans, Span{
			Index: n,
			Text:  strings.TrimSpace(span),
		})
		prev = loc[1]
	}
	return spans
}

// CitedTitles maps each citation in text to the title of its source passage.
// Indices outside [1, len(context)] are skipped. Duplicate titles are
// returned once, in first-citation order.
func CitedTitles(text string, context []retrieval.Passage) []string {
	seen := make(map[string]bool)
	var titles []string
	for _, idx := range Extract(text) {
		if idx < 1 || idx > len(context) {
			continue
		}
		title := context[idx-1].Title
		if seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	return titles
}

// InvalidIndices returns the citation indices in text that fall outside
// [1, len(context)].
func InvalidIndices(text string, contextLen int) []int {
	var invalid []int
	for _, idx := range Extract(text) {
		if idx < 1 || idx > contextLen {
			invalid = append(invalid, idx)
		}
	}
	return invalid
}
