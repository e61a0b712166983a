package citation

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/longformqa/log"
	"github.com/smallnest/longformqa/predict"
	"github.com/smallnest/longformqa/retrieval"
	"github.com/smallnest/longformqa/signature"
)

// NoCitationsFeedback is the instruction injected when no citations were
// found at all.
const NoCitationsFeedback = "The text has no citations. Cite the context passages that support each claim in 'text... [x].' format."

// Unfaithful pairs a cited text span with the source passage that does not
// support it.
type Unfaithful struct {
	Span   string
	Source retrieval.Passage
}

// FaithfulnessChecker verifies that each cited span of generated text is
// supported by its source passage, issuing one LM entailment check per span.
type FaithfulnessChecker struct {
	step   *predict.Predict
	logger log.Logger
}

// FaithfulnessOption configures a FaithfulnessChecker.
type FaithfulnessOption func(*FaithfulnessChecker)

// WithFaithfulnessLogger sets the logger.
func WithFaithfulnessLogger(logger log.Logger) FaithfulnessOption {
	return func(c *FaithfulnessChecker) {
		c.logger = logger
	}
}

// FaithfulnessSignature returns the entailment contract: premise and claim
// in, a yes/no verdict out.
func FaithfulnessSignature() *signature.Signature {
	return signature.New("check_citation_faithfulness",
		"Verify that the claim is supported by the premise.").
		AddInput("Premise", "facts assumed to be true").
		AddInput("Claim", "the cited text span to verify").
		AddOutput("Faithful", "yes or no, whether the premise supports the claim")
}

// NewFaithfulnessChecker creates a checker backed by the given model.
func NewFaithfulnessChecker(llm llms.Model, opts ...FaithfulnessOption) *FaithfulnessChecker {
	c := &FaithfulnessChecker{
		step:   predict.New(FaithfulnessSignature(), llm),
		logger: log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check extracts the cited spans of text, maps each citation index to its
// source passage, and asks the model whether every span is supported.
// The result is the AND across all spans plus the failing (span, source)
// pairs.
//
// No citations at all is a failure with no pairs. A citation index outside
// the context counts as unfaithful without an LM call. An erroring or
// malformed entailment answer counts as "not faithful" rather than aborting
// the whole check; the only returned error is context cancellation.
func (c *FaithfulnessChecker) Check(ctx context.Context, text string, passages []retrieval.Passage) (bool, []Unfaithful, error) {
	spans := ExtractSpans(text)
	if len(spans) == 0 {
		return false, nil, nil
	}

	var unfaithful []Unfaithful
	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			return false, unfaithful, fmt.Errorf("faithfulness check cancelled: %w", err)
		}

		if span.Index < 1 || span.Index > len(passages) {
			c.logger.Debug("citation [%d] out of range (context has %d passages)", span.Index, len(passages))
			unfaithful = append(unfaithful, Unfaithful{Span: span.Text})
			continue
		}
		source := passages[span.Index-1]

		if !c.isFaithful(ctx, span.Text, source) {
			unfaithful = append(unfaithful, Unfaithful{Span: span.Text, Source: source})
		}
	}

	return len(unfaithful) == 0, unfaithful, nil
}

// isFaithful runs one entailment call. Malformed or failing calls are
// coerced to false.
func (c *FaithfulnessChecker) isFaithful(ctx context.Context, span string, source retrieval.Passage) bool {
	out, err := c.step.Call(ctx, map[string]string{
		"Premise": source.String(),
		"Claim":   span,
	})
	if err != nil {
		c.logger.Warn("entailment check failed, treating span as unfaithful: %v", err)
		return false
	}

	verdict := strings.ToLower(strings.TrimSpace(out["Faithful"]))
	return strings.HasPrefix(verdict, "yes") || strings.HasPrefix(verdict, "true")
}

// FaithfulnessFeedback builds the retry instruction listing the premises the
// output must be grounded in.
func FaithfulnessFeedback(unfaithful []Unfaithful) string {
	if len(unfaithful) == 0 {
		return ""
	}
	var premises []string
	seen := make(map[string]bool)
	for _, u := range unfaithful {
		if u.Source.Title == "" && u.Source.Text == "" {
			continue
		}
		s := u.Source.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		premises = append(premises, s)
	}
	if len(premises) == 0 {
		return "Make sure every citation index refers to a passage in the context."
	}
	return "Make sure your output is based on the following premises: " + strings.Join(premises, "; ")
}
