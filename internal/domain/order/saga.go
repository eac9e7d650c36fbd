package order

import (
	"context"
	"fmt"
	"log"
)

// sagaStep is one forward action with an optional compensating action
type sagaStep struct {
	name       string
	action     func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// saga runs steps in order. When a step fails, the compensations of the steps
// already completed run in reverse and the step's error is returned.
type saga struct {
	name  string
	steps []sagaStep
}

func (s *saga) run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.action(ctx); err != nil {
			s.compensate(ctx, i)
			return fmt.Errorf("%s: %s: %w", s.name, step.name, err)
		}
	}
	return nil
}

func (s *saga) compensate(ctx context.Context, failed int) {
	// compensations must run even when the request was cancelled
	ctx = context.WithoutCancel(ctx)
	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			log.Printf("[Order] %s: compensation for %s failed: %v", s.name, step.name, err)
			continue
		}
		log.Printf("[Order] %s: compensated %s", s.name, step.name)
	}
}
