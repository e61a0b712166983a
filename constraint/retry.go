package constraint

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallnest/longformqa/log"
)

// ErrAssertionFailed is returned when a hard constraint still fails after
// all backtracking retries.
var ErrAssertionFailed = errors.New("assertion failed after retries")

// DefaultMaxBacktracks is the default number of retries after the first
// attempt.
const DefaultMaxBacktracks = 2

// Step is a generating step wrapped by Retry. The accumulated feedback from
// failed validations is handed to every invocation after the first, so the
// step can append it to its instructions. State already carried by the input
// (such as retrieved context) is preserved across retries by construction:
// the step always receives the same input state.
type Step[S any] func(ctx context.Context, state S, feedback []string) (S, error)

// Validator inspects a step's output state and reports whether its
// constraint holds.
type Validator[S any] func(ctx context.Context, state S) Result

// Retry wraps a generating step with validators and backtracking: after each
// attempt the validators run in order, and the first failure addressed to
// this step triggers a re-invocation with its feedback accumulated, up to
// MaxBacktracks retries.
type Retry[S any] struct {
	name          string
	step          Step[S]
	validators    []Validator[S]
	maxBacktracks int
	logger        log.Logger
}

// RetryOption configures a Retry.
type RetryOption[S any] func(*Retry[S])

// WithMaxBacktracks sets the retry bound.
func WithMaxBacktracks[S any](n int) RetryOption[S] {
	return func(r *Retry[S]) {
		r.maxBacktracks = n
	}
}

// WithLogger sets the logger used for retry reporting.
func WithLogger[S any](logger log.Logger) RetryOption[S] {
	return func(r *Retry[S]) {
		r.logger = logger
	}
}

// NewRetry wraps the named step with the given validators.
func NewRetry[S any](name string, step Step[S], validators []Validator[S], opts ...RetryOption[S]) *Retry[S] {
	r := &Retry[S]{
		name:          name,
		step:          step,
		validators:    validators,
		maxBacktracks: DefaultMaxBacktracks,
		logger:        log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the step, validating after each attempt. The first failing
// validation addressed to this step (Target empty or equal to the step name)
// triggers a retry with its feedback appended. After MaxBacktracks retries a
// still-failing soft constraint returns the last output unchanged with no
// error; a hard constraint returns the last output and ErrAssertionFailed.
//
// A step error aborts immediately: infrastructure failures are not
// constraint failures.
func (r *Retry[S]) Run(ctx context.Context, state S) (S, error) {
	var (
		last     S
		feedback []string
		failed   Result
	)

	attempts := r.maxBacktracks + 1 // +1 for initial attempt
	for attempt := 0; attempt < attempts; attempt++ {
		select {
		case <-ctx.Done():
			return last, fmt.Errorf("retry cancelled: %w", ctx.Err())
		default:
		}

		out, err := r.step(ctx, state, feedback)
		if err != nil {
			return out, fmt.Errorf("step %s failed: %w", r.name, err)
		}
		last = out

		result, ok := r.check(ctx, out)
		if ok {
			return out, nil
		}
		failed = result

		r.logger.Debug("constraint failed on %s (attempt %d/%d, %s): %s",
			r.name, attempt+1, attempts, result.Kind, result.Feedback)

		if result.Feedback != "" {
			feedback = append(feedback, result.Feedback)
		}
	}

	if failed.Kind == Hard {
		return last, fmt.Errorf("%w: %s: %s", ErrAssertionFailed, r.name, failed.Feedback)
	}

	// Soft constraint: keep the last output
	r.logger.Info("suggestion unmet on %s after %d retries, keeping last output", r.name, r.maxBacktracks)
	return last, nil
}

// check runs the validators in order and returns the first failure addressed
// to this step, or ok=true when every constraint holds.
func (r *Retry[S]) check(ctx context.Context, state S) (Result, bool) {
	for _, v := range r.validators {
		result := v(ctx, state)
		if result.Ok {
			continue
		}
		if result.Target != "" && result.Target != r.name {
			continue
		}
		return result, false
	}
	return Result{Ok: true}, true
}
