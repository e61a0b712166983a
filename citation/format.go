package citation

import (
	"regexp"
	"strings"
)

// FormatFeedback is the instruction injected when the format check fails.
const FormatFeedback = "Make sure every 1-2 sentences has citations. If any 1-2 sentences lack citations, add them in 'text... [x].' format."

// citedSentenceRe matches a sentence whose terminator is immediately
// preceded by a citation marker, e.g. "Paris is the capital [1]."
var citedSentenceRe = regexp.MustCompile(`\[\d+\]\s*[.?!]$`)

// sentenceEndRe finds sentence terminators followed by whitespace.
var sentenceEndRe = regexp.MustCompile(`[.?!](\s+|$)`)

// CheckFormat reports whether every 1-2 sentence span of text is immediately
// followed by a citation in "text... [n]." form. Concretely: no two
// consecutive sentences may both lack a citation, and the final sentence
// must carry one. Empty text fails. The check never errors; malformed text
// simply reports false.
func CheckFormat(text string) bool {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return false
	}

	uncited := 0
	for _, sentence := range sentences {
		if citedSentenceRe.MatchString(sentence) {
			uncited = 0
			continue
		}
		uncited++
		if uncited >= 2 {
			return false
		}
	}

	// A trailing uncited sentence leaves an unclosed span
	return uncited == 0
}

// SplitSentences splits text on '.', '?' and '!' terminators followed by
// whitespace or end of text, keeping the terminator with each sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[start : loc[0]+1])
		if s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
