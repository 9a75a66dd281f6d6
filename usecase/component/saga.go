package component

import (
	"context"

	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/metrics"
)

// saga records the undo of every completed step of a strict transition.
type saga struct {
	name  string
	steps []sagaStep
}

type sagaStep struct {
	name string
	undo func(ctx context.Context) error
}

func newSaga(name string) *saga { return &saga{name: name} }

// add registers undo for a step. Steps are undone in reverse order.
func (s *saga) add(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, sagaStep{name: name, undo: undo})
}

// compensate runs every registered undo in reverse order. Undo failures are logged and
// do not stop the remaining steps.
func (s *saga) compensate(ctx context.Context) {
	logger := logging.FromContext(ctx)
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		err := step.undo(ctx)
		metrics.ObserveCompensation(step.name, err)
		if err != nil {
			logger.Warn(ctx, "Saga:Compensate/efail", "saga", s.name, "step", step.name, "err", err)
			continue
		}
		logger.Info(ctx, "Saga:Compensate", "saga", s.name, "step", step.name)
	}
	s.steps = nil
}
