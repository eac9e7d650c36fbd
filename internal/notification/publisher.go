package notification

import (
	"context"
	"log"
	"time"

	"github.com/example/pagdiwala/internal/domain/order"
	"github.com/example/pagdiwala/internal/model"
)

// OrderEventMessage is the payload published for each lifecycle notification
type OrderEventMessage struct {
	OrderID    string      `json:"order_id"`
	Event      order.Event `json:"event"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// EventPublisher writes a keyed JSON payload to the lifecycle topic
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

// Publisher implements order.Notifier by enqueueing the event for the notifier
// process instead of sending in-request
type Publisher struct {
	producer EventPublisher
	now      func() time.Time
}

func NewPublisher(producer EventPublisher) *Publisher {
	return &Publisher{producer: producer, now: time.Now}
}

func (p *Publisher) Notify(ctx context.Context, o *model.Order, event order.Event) bool {
	msg := OrderEventMessage{OrderID: o.ID, Event: event, OccurredAt: p.now()}
	if err := p.producer.Publish(ctx, o.ID, string(event), msg); err != nil {
		log.Printf("[Notifier] Failed to publish %s for order %s: %v", event, o.ID, err)
		return false
	}
	log.Printf("[Notifier] Published %s for order %s", event, o.ID)
	return true
}
