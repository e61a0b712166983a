package retrieval

import (
	"sort"
	"strings"
	"unicode"
)

// Tokenize lowercases s and splits it on non-alphanumeric runes.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Score counts how many distinct query tokens occur in the passage's title
// or text. Zero means no overlap.
func Score(query string, p Passage) int {
	text := strings.ToLower(p.Title + " " + p.Text)
	seen := make(map[string]bool)
	score := 0
	for _, tok := range Tokenize(query) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if strings.Contains(text, tok) {
			score++
		}
	}
	return score
}

// TopK scores every candidate against the query and returns the k best,
// skipping zero-score passages. Ties keep the candidates' original order,
// so results are deterministic for a fixed store. A non-positive k returns
// nil.
func TopK(query string, candidates []Passage, k int) []Passage {
	if k <= 0 {
		return nil
	}

	type scored struct {
		passage Passage
		score   int
		order   int
	}

	ranked := make([]scored, 0, len(candidates))
	for i, p := range candidates {
		s := Score(query, p)
		if s == 0 {
			continue
		}
		ranked = append(ranked, scored{passage: p, score: s, order: i})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]Passage, 0, k)
	for _, r := range ranked[:k] {
		out = append(out, r.passage)
	}
	return out
}
