package notification

import (
	"context"
	"log"

	"github.com/example/pagdiwala/internal/domain/order"
	"github.com/example/pagdiwala/internal/email"
	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/model"
)

// Sender renders lifecycle e-mails and dispatches them through an email.Client
type Sender struct {
	customers store.CustomerStore
	orders    store.OrderStore
	client    email.Client
	shop      ShopInfo
}

func NewSender(customers store.CustomerStore, orders store.OrderStore, client email.Client, shop ShopInfo) *Sender {
	return &Sender{customers: customers, orders: orders, client: client, shop: shop}
}

// Send looks up the customer and the order's items, renders the template for
// event and dispatches it. Every failure is logged and reported as false.
func (s *Sender) Send(ctx context.Context, o *model.Order, event order.Event) bool {
	customer, err := s.customers.GetCustomer(ctx, o.CustomerID)
	if err != nil {
		log.Printf("[Notifier] Failed to load customer %s for order %s: %v", o.CustomerID, o.ID, err)
		return false
	}

	items, err := s.orders.ListOrderItems(ctx, o.ID)
	if err != nil {
		log.Printf("[Notifier] Failed to load items for order %s: %v", o.ID, err)
		return false
	}

	msg, err := Render(event, TemplateData{
		Order:        o,
		CustomerName: customer.FullName(),
		Items:        items,
		Shop:         s.shop,
	})
	if err != nil {
		log.Printf("[Notifier] %v (order %s)", err, o.ID)
		return false
	}

	if err := s.client.Send(ctx, customer.Email, msg.Subject, msg.Body); err != nil {
		log.Printf("[Notifier] Failed to send %s email to %s for order %s: %v", event, customer.Email, o.ID, err)
		return false
	}

	log.Printf("[Notifier] %s email sent to %s for order %s", event, customer.Email, o.ID)
	return true
}

// Notify implements order.Notifier by sending in the caller's request
func (s *Sender) Notify(ctx context.Context, o *model.Order, event order.Event) bool {
	return s.Send(ctx, o, event)
}
