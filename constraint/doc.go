// Package constraint implements runtime checks on generated outputs with
// assertion-driven backtracking.
//
// A Validator inspects the output state of a generating step and returns a
// Result: ok or not, with optional feedback and an optional target step.
// Suggest builds soft results, Assert builds hard ones. Retry wraps a step
// with validators: each failing check re-invokes the step with the
// accumulated feedback appended to its instructions, up to a bound
// (DefaultMaxBacktracks). Exhausted suggestions keep the last output;
// exhausted assertions return ErrAssertionFailed.
//
//	retry := constraint.NewRetry("generate_cited_paragraph", step,
//		[]constraint.Validator[State]{formatCheck, faithfulnessCheck})
//	out, err := retry.Run(ctx, state)
package constraint
