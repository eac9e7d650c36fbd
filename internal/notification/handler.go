package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/pagdiwala/internal/infrastructure/store"
)

// Handler turns lifecycle messages from Kafka into e-mails
type Handler struct {
	sender *Sender
	orders store.OrderStore
}

// NewHandler creates a new notification handler
func NewHandler(sender *Sender, orders store.OrderStore) *Handler {
	return &Handler{sender: sender, orders: orders}
}

// HandleMessage processes a message from Kafka. Malformed messages are
// returned as errors; delivery failures are logged only, since the Sender
// already reports them.
func (h *Handler) HandleMessage(ctx context.Context, key, value []byte) error {
	var msg OrderEventMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		log.Printf("[Notifier] Failed to unmarshal message: %v", err)
		return err
	}
	if msg.OrderID == "" || !msg.Event.Valid() {
		return fmt.Errorf("invalid lifecycle message: order=%q event=%q", msg.OrderID, msg.Event)
	}

	log.Printf("[Notifier] Processing %s for order %s", msg.Event, msg.OrderID)

	// reload so the e-mail reflects the stored order
	o, err := h.orders.GetOrder(ctx, msg.OrderID)
	if err != nil {
		log.Printf("[Notifier] Error loading order %s: %v", msg.OrderID, err)
		return fmt.Errorf("load order %s: %w", msg.OrderID, err)
	}

	if !h.sender.Send(ctx, o, msg.Event) {
		log.Printf("[Notifier] %s for order %s was not delivered", msg.Event, msg.OrderID)
	}
	return nil
}
