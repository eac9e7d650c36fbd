package order

import (
	"testing"

	"github.com/example/pagdiwala/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.OrderStatus
		want     bool
	}{
		{model.StatusPending, model.StatusApproved, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusPending, model.StatusShipped, false},
		{model.StatusPending, model.StatusDelivered, false},
		{model.StatusApproved, model.StatusShipped, true},
		{model.StatusApproved, model.StatusCancelled, true},
		{model.StatusApproved, model.StatusPending, false},
		{model.StatusShipped, model.StatusDelivered, true},
		{model.StatusShipped, model.StatusCancelled, false},
		{model.StatusDelivered, model.StatusPending, false},
		{model.StatusCancelled, model.StatusPending, false},
		{model.StatusApproved, model.StatusApproved, false},
		{model.OrderStatus("unknown"), model.StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransitionError(t *testing.T) {
	err := transitionError(model.StatusCancelled, model.StatusApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "cancelled")

	err = transitionError(model.StatusShipped, model.StatusShipped)
	assert.Contains(t, err.Error(), "already shipped")

	err = transitionError(model.StatusPending, model.StatusDelivered)
	assert.Contains(t, err.Error(), "from pending to delivered")
}

func TestEventFor(t *testing.T) {
	event, ok := EventFor(model.StatusApproved)
	assert.True(t, ok)
	assert.Equal(t, EventOrderApproved, event)

	_, ok = EventFor(model.StatusCancelled)
	assert.False(t, ok)
	_, ok = EventFor(model.StatusPending)
	assert.False(t, ok)

	assert.True(t, EventOrderPlaced.Valid())
	assert.False(t, Event("ORDER_REFUNDED").Valid())
}
