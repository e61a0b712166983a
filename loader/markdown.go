package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"github.com/smallnest/longformqa/retrieval"
)

// MarkdownLoader loads passages from a Markdown file: each paragraph becomes
// one passage titled after the nearest preceding heading (falling back to
// the file name).
type MarkdownLoader struct {
	filePath string
}

// NewMarkdownLoader creates a new MarkdownLoader for the given file.
func NewMarkdownLoader(filePath string) *MarkdownLoader {
	return &MarkdownLoader{filePath: filePath}
}

// Load parses the Markdown file into passages.
func (l *MarkdownLoader) Load(ctx context.Context) ([]retrieval.Passage, error) {
	raw, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", l.filePath, err)
	}

	p := parser.New()
	doc := p.Parse(raw)

	title := strings.TrimSuffix(filepath.Base(l.filePath), filepath.Ext(l.filePath))

	var passages []retrieval.Passage
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Heading:
			if t := leafText(n); t != "" {
				title = t
			}
			return ast.SkipChildren
		case *ast.Paragraph:
			if t := leafText(n); t != "" {
				passages = append(passages, retrieval.Passage{Title: title, Text: t})
			}
			return ast.SkipChildren
		}
		return ast.GoToNext
	})

	return passages, nil
}

// leafText concatenates the text leaves under a node.
func leafText(node ast.Node) string {
	var sb strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Literal)
		case *ast.Code:
			sb.Write(t.Literal)
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(sb.String())
}
