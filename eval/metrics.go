package eval

import (
	"strings"
	"unicode"

	"github.com/smallnest/longformqa/citation"
	"github.com/smallnest/longformqa/retrieval"
)

// AnswerCorrectness reports whether the gold answer appears in the
// paragraph, ignoring case and punctuation.
func AnswerCorrectness(paragraph, gold string) bool {
	if strings.TrimSpace(gold) == "" {
		return false
	}
	return strings.Contains(normalize(paragraph), normalize(gold))
}

// CitationRecall is the fraction of gold titles cited by the paragraph.
// Always in [0,1]; 0 when goldTitles is empty.
func CitationRecall(paragraph string, context []retrieval.Passage, goldTitles []string) float64 {
	if len(goldTitles) == 0 {
		return 0
	}

	cited := titleSet(citation.CitedTitles(paragraph, context))
	hits := 0
	for _, gold := range goldTitles {
		if cited[normalize(gold)] {
			hits++
		}
	}
	return float64(hits) / float64(len(goldTitles))
}

// CitationPrecision is the fraction of cited titles that are gold titles.
// Always in [0,1]; 0 when the paragraph cites nothing.
func CitationPrecision(paragraph string, context []retrieval.Passage, goldTitles []string) float64 {
	citedTitles := citation.CitedTitles(paragraph, context)
	if len(citedTitles) == 0 {
		return 0
	}

	gold := titleSet(goldTitles)
	hits := 0
	for _, title := range citedTitles {
		if gold[normalize(title)] {
			hits++
		}
	}
	return float64(hits) / float64(len(citedTitles))
}

// FaithfulnessScore is the fraction of cited spans not reported unfaithful.
// 0 when the paragraph has no citations.
func FaithfulnessScore(paragraph string, unfaithful int) float64 {
	spans := len(citation.ExtractSpans(paragraph))
	if spans == 0 {
		return 0
	}
	faithful := spans - unfaithful
	if faithful < 0 {
		faithful = 0
	}
	return float64(faithful) / float64(spans)
}

func titleSet(titles []string) map[string]bool {
	set := make(map[string]bool, len(titles))
	for _, t := range titles {
		set[normalize(t)] = true
	}
	return set
}

// normalize lowercases and strips everything but letters, digits and spaces,
// collapsing whitespace runs.
func normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
