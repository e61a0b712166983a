package eval

import (
	"encoding/json"
	"fmt"
	"os"
)

// Example is one evaluation record: a question, its gold answer and the
// titles of the passages a correct answer should cite.
type Example struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	GoldTitles []string `json:"gold_titles"`
}

// LoadDataset reads a JSON file holding an array of examples.
func LoadDataset(path string) ([]Example, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var examples []Example
	if err := json.Unmarshal(raw, &examples); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", path, err)
	}
	return examples, nil
}
