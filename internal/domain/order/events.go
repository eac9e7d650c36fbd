package order

import (
	"context"

	"github.com/example/pagdiwala/internal/model"
)

// Event names a customer-facing order lifecycle notification
type Event string

const (
	EventOrderPlaced    Event = "ORDER_PLACED"
	EventOrderApproved  Event = "ORDER_APPROVED"
	EventOrderShipped   Event = "ORDER_SHIPPED"
	EventOrderDelivered Event = "ORDER_DELIVERED"
)

// Valid reports whether e is a known lifecycle event
func (e Event) Valid() bool {
	switch e {
	case EventOrderPlaced, EventOrderApproved, EventOrderShipped, EventOrderDelivered:
		return true
	}
	return false
}

// EventFor maps a status write to the notification it triggers.
// Pending and cancelled trigger none.
func EventFor(status model.OrderStatus) (Event, bool) {
	switch status {
	case model.StatusApproved:
		return EventOrderApproved, true
	case model.StatusShipped:
		return EventOrderShipped, true
	case model.StatusDelivered:
		return EventOrderDelivered, true
	}
	return "", false
}

// Notifier delivers lifecycle notifications. Implementations never fail the
// caller: they report delivery as a bool.
type Notifier interface {
	Notify(ctx context.Context, o *model.Order, event Event) bool
}
