package signature

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingOutputField is returned when a completion does not contain a
// labeled section for a declared output field.
var ErrMissingOutputField = errors.New("missing output field in completion")

// Field describes one named input or output of a generation call.
type Field struct {
	// Name is the label used in the rendered prompt and when parsing the
	// completion, e.g. "Query" or "Paragraph".
	Name string

	// Desc is a short description shown in the format section of the prompt.
	Desc string
}

// Signature declares the input/output field contract for a generation call:
// an instruction string plus ordered input and output fields.
type Signature struct {
	// Name identifies the signature, e.g. "generate_query". Constraint
	// targets refer to this name.
	Name string

	// Instructions is the task description placed at the top of the prompt.
	Instructions string

	Inputs  []Field
	Outputs []Field
}

// New creates a signature with the given name and instructions.
func New(name, instructions string) *Signature {
	return &Signature{
		Name:         name,
		Instructions: instructions,
	}
}

// AddInput appends an input field and returns the signature for chaining.
func (s *Signature) AddInput(name, desc string) *Signature {
	s.Inputs = append(s.Inputs, Field{Name: name, Desc: desc})
	return s
}

// AddOutput appends an output field and returns the signature for chaining.
func (s *Signature) AddOutput(name, desc string) *Signature {
	s.Outputs = append(s.Outputs, Field{Name: name, Desc: desc})
	return s
}

// Render builds the system and user prompts for the given input values.
// Extra instructions, if any, are appended after the base instructions;
// backtracking retries use this to inject validator feedback.
//
// Input values missing from the map render as empty sections rather than
// failing, matching the behavior of optional fields like an empty context.
func (s *Signature) Render(values map[string]string, extraInstructions ...string) (system, user string) {
	var sys strings.Builder
	sys.WriteString(s.Instructions)
	for _, extra := range extraInstructions {
		if extra == "" {
			continue
		}
		sys.WriteString("\n\n")
		sys.WriteString(extra)
	}

	sys.WriteString("\n\nFollow the following format.\n")
	for _, f := range s.Inputs {
		fmt.Fprintf(&sys, "\n%s: %s", f.Name, f.Desc)
	}
	for _, f := range s.Outputs {
		fmt.Fprintf(&sys, "\n%s: %s", f.Name, f.Desc)
	}

	var usr strings.Builder
	for i, f := range s.Inputs {
		if i > 0 {
			usr.WriteString("\n\n")
		}
		fmt.Fprintf(&usr, "%s: %s", f.Name, values[f.Name])
	}
	// Prompt the model to begin with the first output label
	if len(s.Outputs) > 0 {
		fmt.Fprintf(&usr, "\n\n%s:", s.Outputs[0].Name)
	}

	return sys.String(), usr.String()
}

// ParseOutputs extracts declared output fields from a completion. Labels are
// matched case-insensitively at line starts; a field's value runs until the
// next label or the end of the completion.
//
// When the signature declares a single output and the completion carries no
// label at all, the whole completion is taken as that field's value. Any
// other missing field returns ErrMissingOutputField.
func (s *Signature) ParseOutputs(completion string) (map[string]string, error) {
	completion = strings.TrimSpace(completion)
	out := make(map[string]string, len(s.Outputs))

	positions := make([]int, len(s.Outputs))
	for i, f := range s.Outputs {
		positions[i] = labelIndex(completion, f.Name)
	}

	for i, f := range s.Outputs {
		start := positions[i]
		if start < 0 {
			if len(s.Outputs) == 1 && completion != "" {
				out[f.Name] = completion
				return out, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrMissingOutputField, f.Name)
		}

		valueStart := start + len(f.Name) + 1 // skip "Name:"
		end := len(completion)
		for _, other := range positions {
			if other > start && other < end {
				end = other
			}
		}
		out[f.Name] = strings.TrimSpace(completion[valueStart:end])
	}

	return out, nil
}

// labelIndex finds "name:" at the start of the completion or of a line,
// case-insensitively. Returns -1 if absent.
func labelIndex(completion, name string) int {
	lower := strings.ToLower(completion)
	label := strings.ToLower(name) + ":"

	idx := 0
	for {
		i := strings.Index(lower[idx:], label)
		if i < 0 {
			return -1
		}
		abs := idx + i
		if abs == 0 || lower[abs-1] == '\n' {
			return abs
		}
		idx = abs + len(label)
	}
}
