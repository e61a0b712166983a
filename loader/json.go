package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/smallnest/longformqa/retrieval"
)

// JSONLoader loads passages from a JSON file holding an array of
// {"title": ..., "text": ...} objects.
type JSONLoader struct {
	filePath string
}

// NewJSONLoader creates a new JSONLoader for the given file.
func NewJSONLoader(filePath string) *JSONLoader {
	return &JSONLoader{filePath: filePath}
}

type jsonPassage struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Load reads and decodes the JSON file into passages.
func (l *JSONLoader) Load(ctx context.Context) ([]retrieval.Passage, error) {
	raw, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", l.filePath, err)
	}

	var records []jsonPassage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", l.filePath, err)
	}

	passages := make([]retrieval.Passage, 0, len(records))
	for _, rec := range records {
		if rec.Text == "" {
			continue
		}
		passages = append(passages, retrieval.Passage{Title: rec.Title, Text: rec.Text})
	}
	return passages, nil
}
