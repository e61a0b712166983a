package eval

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/longformqa/citation"
	"github.com/smallnest/longformqa/log"
	"github.com/smallnest/longformqa/pipeline"
)

// Runner answers a question. *pipeline.MultiHopQA implements it.
type Runner interface {
	Run(ctx context.Context, question string) (*pipeline.Answer, error)
}

// Report holds the four scalar averages over the evaluated examples, plus
// counts. Failed examples are excluded from every average.
type Report struct {
	RunID     string
	Total     int
	Evaluated int
	Failed    int

	Correctness  float64
	Recall       float64
	Precision    float64
	Faithfulness float64
}

// Evaluator iterates a dataset through a pipeline and scores the answers.
type Evaluator struct {
	runner       Runner
	faithfulness *citation.FaithfulnessChecker
	logger       log.Logger
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEvalLogger sets the logger.
func WithEvalLogger(logger log.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// NewEvaluator creates an evaluator. The model is used for the per-span
// faithfulness scoring of each answer.
func NewEvaluator(runner Runner, llm llms.Model, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		runner:       runner,
		faithfulness: citation.NewFaithfulnessChecker(llm),
		logger:       log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs every example through the pipeline sequentially and returns
// the averaged metrics. A failing example is logged and excluded from the
// averages rather than aborting the run; only context cancellation aborts.
func (e *Evaluator) Evaluate(ctx context.Context, examples []Example) (*Report, error) {
	report := &Report{
		RunID: uuid.NewString(),
		Total: len(examples),
	}

	var sumCorrect, sumRecall, sumPrecision, sumFaithful float64

	for i, example := range examples {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("evaluation cancelled: %w", err)
		}

		answer, err := e.runner.Run(ctx, example.Question)
		if err != nil {
			e.logger.Warn("example %d failed, excluding from averages: %v", i, err)
			report.Failed++
			continue
		}

		if AnswerCorrectness(answer.Paragraph, example.Answer) {
			sumCorrect++
		}
		sumRecall += CitationRecall(answer.Paragraph, answer.Context, example.GoldTitles)
		sumPrecision += CitationPrecision(answer.Paragraph, answer.Context, example.GoldTitles)

		_, unfaithful, err := e.faithfulness.Check(ctx, answer.Paragraph, answer.Context)
		if err != nil {
			return report, err
		}
		sumFaithful += FaithfulnessScore(answer.Paragraph, len(unfaithful))

		report.Evaluated++
	}

	if report.Evaluated > 0 {
		n := float64(report.Evaluated)
		report.Correctness = sumCorrect / n
		report.Recall = sumRecall / n
		report.Precision = sumPrecision / n
		report.Faithfulness = sumFaithful / n
	}

	e.logger.Info("evaluation %s: %d/%d examples, correctness=%.3f recall=%.3f precision=%.3f faithfulness=%.3f",
		report.RunID, report.Evaluated, report.Total,
		report.Correctness, report.Recall, report.Precision, report.Faithfulness)

	return report, nil
}
