package order

import (
	"fmt"

	"github.com/example/pagdiwala/internal/model"
)

// validTransitions defines the intended lifecycle
var validTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.StatusPending:   {model.StatusApproved, model.StatusCancelled},
	model.StatusApproved:  {model.StatusShipped, model.StatusCancelled},
	model.StatusShipped:   {model.StatusDelivered},
	model.StatusDelivered: {}, // terminal state
	model.StatusCancelled: {}, // terminal state
}

// CanTransition checks if an order in status from may move to status to
func CanTransition(from, to model.OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// transitionError returns an appropriate error for an invalid transition
func transitionError(from, to model.OrderStatus) error {
	switch {
	case from == model.StatusCancelled:
		return fmt.Errorf("%w: order is cancelled", ErrInvalidTransition)
	case from == model.StatusDelivered:
		return fmt.Errorf("%w: order is already delivered", ErrInvalidTransition)
	case from == to:
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, to)
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, from, to)
	}
}
