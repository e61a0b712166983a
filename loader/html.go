package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/smallnest/longformqa/retrieval"
)

// HTMLLoader loads passages from an HTML file: the input is sanitized with
// bluemonday, then each paragraph element becomes one passage titled after
// the nearest preceding heading (falling back to the file name).
type HTMLLoader struct {
	filePath  string
	policy    *bluemonday.Policy
	minLength int
}

// HTMLLoaderOption configures the HTMLLoader
type HTMLLoaderOption func(*HTMLLoader)

// WithMinLength skips paragraphs shorter than n characters (default 1).
func WithMinLength(n int) HTMLLoaderOption {
	return func(l *HTMLLoader) {
		l.minLength = n
	}
}

// WithPolicy overrides the sanitization policy.
func WithPolicy(policy *bluemonday.Policy) HTMLLoaderOption {
	return func(l *HTMLLoader) {
		l.policy = policy
	}
}

// NewHTMLLoader creates a new HTMLLoader for the given file.
func NewHTMLLoader(filePath string, opts ...HTMLLoaderOption) *HTMLLoader {
	l := &HTMLLoader{
		filePath:  filePath,
		policy:    bluemonday.UGCPolicy(),
		minLength: 1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses the HTML file into passages.
func (l *HTMLLoader) Load(ctx context.Context) ([]retrieval.Passage, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", l.filePath, err)
	}
	defer file.Close()

	return l.loadFrom(file)
}

func (l *HTMLLoader) loadFrom(r io.Reader) ([]retrieval.Passage, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	clean := l.policy.SanitizeBytes(raw)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(clean)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	defaultTitle := strings.TrimSuffix(filepath.Base(l.filePath), filepath.Ext(l.filePath))

	var passages []retrieval.Passage
	title := defaultTitle
	doc.Find("h1, h2, h3, p").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) != "p" {
			title = text
			return
		}
		if len(text) < l.minLength {
			return
		}
		passages = append(passages, retrieval.Passage{Title: title, Text: text})
	})

	return passages, nil
}
