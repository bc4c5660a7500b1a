// Package saga runs multi-step write sequences with explicit
// compensating actions. The document store has no cross-collection
// transactions, so linked records are created step by step and already
// completed steps are undone, in reverse order, when a later step fails.
package saga

import (
	"context"
	"log/slog"

	"folio/internal/errors"
)

// Step pairs an action with the compensation that undoes it. Compensate
// may be nil for steps with nothing to undo.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga is an ordered sequence of steps.
type Saga struct {
	steps  []Step
	logger *slog.Logger
}

// New creates a saga over the given steps.
func New(logger *slog.Logger, steps ...Step) *Saga {
	return &Saga{steps: steps, logger: logger}
}

// Run executes the steps in order. On the first failure it runs the
// compensations of every completed step in reverse and returns the
// step's error. Compensation failures are logged and joined onto the
// returned error; the records they leave behind are orphans the caller
// accepted when choosing this pattern over a transaction.
func (s *Saga) Run(ctx context.Context) error {
	var done []Step

	for _, step := range s.steps {
		if err := step.Action(ctx); err != nil {
			err = errors.Wrapf(err, "saga step %s failed", step.Name)

			return errors.Join(err, s.compensate(ctx, done))
		}
		done = append(done, step)
	}

	return nil
}

func (s *Saga) compensate(ctx context.Context, done []Step) error {
	var failures error

	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("Saga compensation failed",
				slog.String("step", step.Name), slog.Any("error", err))
			failures = errors.Join(failures, errors.Wrapf(err, "compensate %s", step.Name))
		}
	}

	return failures
}
