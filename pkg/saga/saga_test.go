package saga

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingObserver struct {
	compensated []string
	failed      []string
}

func (o *recordingObserver) Compensated(_, step string) {
	o.compensated = append(o.compensated, step)
}

func (o *recordingObserver) CompensationFailed(_, step string, _ error) {
	o.failed = append(o.failed, step)
}

func newTestRunner(obs Observer) *Runner {
	return NewRunner(Options{Retries: 2}, zap.NewNop(), obs)
}

func TestRun_AllStepsSucceed(t *testing.T) {
	var trace []string
	obs := &recordingObserver{}
	r := newTestRunner(obs)

	err := r.Run(context.Background(), "ok",
		Step{
			Name:       "a",
			Action:     func(context.Context) error { trace = append(trace, "a"); return nil },
			Compensate: func(context.Context) error { trace = append(trace, "undo-a"); return nil },
		},
		Step{
			Name:   "b",
			Action: func(context.Context) error { trace = append(trace, "b"); return nil },
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, trace)
	assert.Empty(t, obs.compensated)
}

func TestRun_CompensatesInReverseOrder(t *testing.T) {
	boom := errors.New("boom")
	var trace []string
	obs := &recordingObserver{}
	r := newTestRunner(obs)

	err := r.Run(context.Background(), "rollback",
		Step{
			Name:       "a",
			Action:     func(context.Context) error { trace = append(trace, "a"); return nil },
			Compensate: func(context.Context) error { trace = append(trace, "undo-a"); return nil },
		},
		Step{
			Name:       "b",
			Action:     func(context.Context) error { trace = append(trace, "b"); return nil },
			Compensate: func(context.Context) error { trace = append(trace, "undo-b"); return nil },
		},
		Step{
			Name:       "c",
			Action:     func(context.Context) error { return boom },
			Compensate: func(context.Context) error { trace = append(trace, "undo-c"); return nil },
		},
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b", "undo-b", "undo-a"}, trace)
	assert.Equal(t, []string{"b", "a"}, obs.compensated)
}

func TestRun_CompensationRetried(t *testing.T) {
	boom := errors.New("claim lost")
	attempts := 0
	obs := &recordingObserver{}
	r := newTestRunner(obs)

	err := r.Run(context.Background(), "retry",
		Step{
			Name:   "reassign",
			Action: func(context.Context) error { return nil },
			Compensate: func(context.Context) error {
				attempts++
				if attempts < 3 {
					return errors.New("transient")
				}
				return nil
			},
		},
		Step{Name: "claim", Action: func(context.Context) error { return boom }},
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []string{"reassign"}, obs.compensated)
	assert.Empty(t, obs.failed)
}

func TestRun_CompensationFailureDoesNotMaskOriginal(t *testing.T) {
	boom := errors.New("claim lost")
	obs := &recordingObserver{}
	r := newTestRunner(obs)

	err := r.Run(context.Background(), "stuck",
		Step{
			Name:       "reassign",
			Action:     func(context.Context) error { return nil },
			Compensate: func(context.Context) error { return errors.New("db down") },
		},
		Step{Name: "claim", Action: func(context.Context) error { return boom }},
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"reassign"}, obs.failed)
}

func TestRun_CompensationSurvivesCancelledContext(t *testing.T) {
	boom := errors.New("claim lost")
	ctx, cancel := context.WithCancel(context.Background())
	compensated := false
	r := newTestRunner(nil)

	err := r.Run(ctx, "cancelled",
		Step{
			Name:   "reassign",
			Action: func(context.Context) error { return nil },
			Compensate: func(c context.Context) error {
				if c.Err() != nil {
					return c.Err()
				}
				compensated = true
				return nil
			},
		},
		Step{Name: "claim", Action: func(context.Context) error { cancel(); return boom }},
	)

	assert.ErrorIs(t, err, boom)
	assert.True(t, compensated)
}

func TestRun_CompensationAbortsOnPermanentError(t *testing.T) {
	boom := errors.New("claim lost")
	guardMiss := errors.New("guard miss")
	attempts := 0
	obs := &recordingObserver{}
	r := NewRunner(Options{Retries: 2, AbortOn: []error{guardMiss}}, zap.NewNop(), obs)

	err := r.Run(context.Background(), "abort",
		Step{
			Name:   "reassign",
			Action: func(context.Context) error { return nil },
			Compensate: func(context.Context) error {
				attempts++
				return fmt.Errorf("restore: %w", guardMiss)
			},
		},
		Step{Name: "claim", Action: func(context.Context) error { return boom }},
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, []string{"reassign"}, obs.failed)
	assert.Empty(t, obs.compensated)
}
