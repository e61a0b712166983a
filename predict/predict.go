package predict

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/longformqa/log"
	"github.com/smallnest/longformqa/signature"
)

// ErrEmptyCompletion is returned when the model produces no choices.
var ErrEmptyCompletion = errors.New("model returned empty completion")

// Predict executes a signature against a langchaingo llms.Model: it renders
// the prompt, performs one blocking generation call and parses the declared
// output fields from the completion.
type Predict struct {
	sig         *signature.Signature
	llm         llms.Model
	temperature float64
	maxTokens   int
}

// Option configures a Predict.
type Option func(*Predict)

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(p *Predict) {
		p.temperature = temperature
	}
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(maxTokens int) Option {
	return func(p *Predict) {
		p.maxTokens = maxTokens
	}
}

// New creates a Predict for the given signature and model.
func New(sig *signature.Signature, llm llms.Model, opts ...Option) *Predict {
	p := &Predict{
		sig:         sig,
		llm:         llm,
		temperature: 0.0,
		maxTokens:   1000,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Signature returns the declared contract of this step.
func (p *Predict) Signature() *signature.Signature {
	return p.sig
}

// Call renders the prompt with the given inputs, invokes the model and
// parses the output fields. Extra instructions are appended to the
// signature's base instructions; backtracking retries use this to carry
// validator feedback into the next attempt.
func (p *Predict) Call(ctx context.Context, inputs map[string]string, extraInstructions ...string) (map[string]string, error) {
	system, user := p.sig.Render(inputs, extraInstructions...)

	messages := []llms.MessageContent{
		llms.TextParts("system", system),
		llms.TextParts("human", user),
	}

	log.Debug("predict %s: calling model", p.sig.Name)

	response, err := p.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(p.temperature),
		llms.WithMaxTokens(p.maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("generation failed for %s: %w", p.sig.Name, err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCompletion, p.sig.Name)
	}

	outputs, err := p.sig.ParseOutputs(response.Choices[0].Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse completion for %s: %w", p.sig.Name, err)
	}

	return outputs, nil
}
