package constraint

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textState struct {
	Context []string
	Text    string
}

func TestRetryPassesFirstAttempt(t *testing.T) {
	calls := 0
	step := func(ctx context.Context, s textState, feedback []string) (textState, error) {
		calls++
		s.Text = "valid"
		return s, nil
	}
	validator := func(ctx context.Context, s textState) Result {
		return Suggest(s.Text == "valid", "make it valid", "")
	}

	retry := NewRetry("step", step, []Validator[textState]{validator})
	out, err := retry.Run(context.Background(), textState{})
	require.NoError(t, err)
	assert.Equal(t, "valid", out.Text)
	assert.Equal(t, 1, calls)
}

func TestRetryFeedbackAccumulates(t *testing.T) {
	var seen [][]string
	calls := 0
	step := func(ctx context.Context, s textState, feedback []string) (textState, error) {
		seen = append(seen, append([]string(nil), feedback...))
		calls++
		s.Text = fmt.Sprintf("attempt-%d", calls)
		return s, nil
	}
	validator := func(ctx context.Context, s textState) Result {
		return Suggest(s.Text == "attempt-3", "try again", "")
	}

	retry := NewRetry("step", step, []Validator[textState]{validator})
	out, err := retry.Run(context.Background(), textState{})
	require.NoError(t, err)
	assert.Equal(t, "attempt-3", out.Text)
	assert.Equal(t, 3, calls)

	// First attempt has no feedback; later ones accumulate it
	require.Len(t, seen, 3)
	assert.Empty(t, seen[0])
	assert.Equal(t, []string{"try again"}, seen[1])
	assert.Equal(t, []string{"try again", "try again"}, seen[2])
}

func TestRetrySoftExhaustionKeepsLastOutput(t *testing.T) {
	calls := 0
	step := func(ctx context.Context, s textState, feedback []string) (textState, error) {
		calls++
		s.Text = fmt.Sprintf("attempt-%d", calls)
		return s, nil
	}
	validator := func(ctx context.Context, s textState) Result {
		return Suggest(false, "never satisfied", "")
	}

	retry := NewRetry("step", step, []Validator[textState]{validator})
	out, err := retry.Run(context.Background(), textState{})
	require.NoError(t, err)
	assert.Equal(t, "attempt-3", out.Text)
	assert.Equal(t, DefaultMaxBacktracks+1, calls)
}

func TestRetryHardExhaustionReturnsError(t *testing.T) {
	step := func(ctx context.Context, s textState, feedback []string) (textState, error) {
		s.Text = "still wrong"
		return s, nil
	}
	validator := func(ctx context.Context, s textState) Result {
		return Assert(false, "must hold", "")
	}

	retry := NewRetry("step", step, []Validator[textState]{validator},
		WithMaxBacktracks[textState](1))
	out, err := retry.Run(context.Background(), textState{})
	assert.ErrorIs(t, err, ErrAssertionFailed)
	// Last output is still returned
	assert.Equal(t, "still wrong", out.Text)
}

func TestRetryPreservesInputState(t *testing.T) {
	step := func(ctx context.Context, s textState, feedback []string) (textState, error) {
		// Retrieved context must be present on every attempt
		if len(s.Context) != 2 {
			return s, errors.New("context lost")
		}
		s.Text = "whatever"
		return s, nil
	}
	validator := func(ctx context.Context, s textState) Result {
		return Suggest(false, "unmet", "")
	}

	retry := NewRetry("step", step, []Validator[textState]{validator})
	_, err := retry.Run(context.Background(), textState{Context: []string{"a", "b"}})
	assert.NoError(t, err)
}

func TestRetryIgnoresOtherTargets(t *testing.T) {
	calls := 0
	step := func(ctx context.Context, s textState, feedback []string) (textState, error) {
		calls++
		return s, nil
	}
	validator := func(ctx context.Context, s textState) Result {
		return Suggest(false, "someone else's problem", "other_step")
	}

	retry := NewRetry("step", step, []Validator[textState]{validator})
	_, err := retry.Run(context.Background(), textState{})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryStepErrorAborts(t *testing.T) {
	boom := errors.New("model unavailable")
	step := func(ctx context.Context, s textState, feedback []string) (textState, error) {
		return s, boom
	}

	retry := NewRetry("step", step, nil)
	_, err := retry.Run(context.Background(), textState{})
	assert.ErrorIs(t, err, boom)
}

func TestRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	step := func(ctx context.Context, s textState, feedback []string) (textState, error) {
		return s, nil
	}
	retry := NewRetry("step", step, nil)
	_, err := retry.Run(ctx, textState{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidatorOrderFirstFailureWins(t *testing.T) {
	var fired []string
	first := func(ctx context.Context, s textState) Result {
		fired = append(fired, "first")
		return Suggest(false, "first feedback", "")
	}
	second := func(ctx context.Context, s textState) Result {
		fired = append(fired, "second")
		return Suggest(false, "second feedback", "")
	}

	var seen [][]string
	step := func(ctx context.Context, s textState, feedback []string) (textState, error) {
		seen = append(seen, append([]string(nil), feedback...))
		return s, nil
	}

	retry := NewRetry("step", step, []Validator[textState]{first, second},
		WithMaxBacktracks[textState](1))
	_, err := retry.Run(context.Background(), textState{})
	require.NoError(t, err)

	// Only the first failing validator contributes feedback per attempt
	require.Len(t, seen, 2)
	assert.Equal(t, []string{"first feedback"}, seen[1])
	assert.NotContains(t, fired, "second")
}
