package constraint

// Kind distinguishes soft suggestions from hard assertions.
type Kind int

const (
	// Soft constraints (suggestions) drive retries but never fail the run:
	// when retries are exhausted the last output is returned unchanged.
	Soft Kind = iota
	// Hard constraints (assertions) return ErrAssertionFailed when retries
	// are exhausted.
	Hard
)

// String returns the string representation of Kind
func (k Kind) String() string {
	if k == Hard {
		return "assert"
	}
	return "suggest"
}

// Result is the outcome of one constraint check: a boolean plus an optional
// feedback message and an optional target step name to retry.
type Result struct {
	// Ok reports whether the constraint holds.
	Ok bool

	// Feedback is appended to the generating step's instructions on retry.
	Feedback string

	// Target names the generating step to retry. Empty targets whichever
	// step the validator is attached to.
	Target string

	// Kind is Soft for suggestions and Hard for assertions.
	Kind Kind
}

// Suggest builds a soft constraint result. A failing suggestion triggers a
// bounded retry with feedback; if all retries fail the last output stands.
func Suggest(ok bool, feedback, target string) Result {
	return Result{Ok: ok, Feedback: feedback, Target: target, Kind: Soft}
}

// Assert builds a hard constraint result. A failing assertion triggers the
// same retries, but exhaustion surfaces as an error.
func Assert(ok bool, feedback, target string) Result {
	return Result{Ok: ok, Feedback: feedback, Target: target, Kind: Hard}
}
