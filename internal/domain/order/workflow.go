package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order must have at least one item")
	ErrInvalidAddress       = errors.New("shipping address is required")
	ErrInvalidMobile        = errors.New("invalid mobile number")
	ErrDeliveryDateRequired = errors.New("delivery date is required to approve an order")
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrInvalidTransition    = errors.New("invalid order status transition")
)

// Workflow creates orders and moves them through their lifecycle
type Workflow struct {
	store    store.OrderStore
	notifier Notifier
	enforce  bool
	now      func() time.Time
	newID    func() string
}

type Option func(*Workflow)

// WithTransitionGuard rejects status writes that are not legal successors of
// the current status
func WithTransitionGuard(enabled bool) Option {
	return func(w *Workflow) { w.enforce = enabled }
}

// NewWorkflow builds a Workflow. A nil notifier disables notifications.
func NewWorkflow(orders store.OrderStore, n Notifier, opts ...Option) *Workflow {
	w := &Workflow{
		store:    orders,
		notifier: n,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Total sums price times quantity over the snapshot
func Total(snapshot []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range snapshot {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Create places a pending cash-on-delivery order for userID from the cart
// snapshot. Shipping fields are validated by the caller. Clearing the cart is
// left to the caller.
func (w *Workflow) Create(ctx context.Context, userID string, snapshot []model.CartItem, address, mobile string) (*model.Order, error) {
	if len(snapshot) == 0 {
		return nil, ErrEmptyOrder
	}

	now := w.now()
	o := &model.Order{
		ID:              w.newID(),
		CustomerID:      userID,
		TotalAmount:     Total(snapshot),
		ShippingAddress: address,
		MobileNumber:    mobile,
		Status:          model.StatusPending,
		PaymentMethod:   model.PaymentMethodCOD,
		PaymentStatus:   model.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	items := make([]model.OrderItem, 0, len(snapshot))
	for _, line := range snapshot {
		items = append(items, model.OrderItem{
			ID:        w.newID(),
			OrderID:   o.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	if err := w.persist(ctx, o, items); err != nil {
		log.Printf("[Order] Failed to create order for user %s: %v", userID, err)
		return nil, err
	}
	o.Items = items
	log.Printf("[Order] Created order %s for user %s, total %s", o.ID, userID, o.TotalAmount.StringFixed(2))

	w.notify(ctx, o, EventOrderPlaced)
	return o, nil
}

// persist writes the order and its items, in one transaction when the store
// supports it and otherwise as a compensated two-step saga
func (w *Workflow) persist(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	if atomic, ok := w.store.(store.AtomicOrderCreator); ok {
		if err := atomic.InsertOrderWithItems(ctx, o, items); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	}

	s := &saga{
		name: "create order " + o.ID,
		steps: []sagaStep{
			{
				name:       "insert_order",
				action:     func(ctx context.Context) error { return w.store.InsertOrder(ctx, o) },
				compensate: func(ctx context.Context) error { return w.store.DeleteOrder(ctx, o.ID) },
			},
			{
				name:   "insert_items",
				action: func(ctx context.Context) error { return w.store.InsertOrderItems(ctx, items) },
			},
		},
	}
	return s.run(ctx)
}

// UpdateStatus writes status onto the order. A supplied delivery date is
// stored; approving without one stores none; otherwise the date is kept.
func (w *Workflow) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, deliveryDate *time.Time) (*model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	if w.enforce {
		current, err := w.store.GetOrder(ctx, orderID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load order %s: %w", orderID, err)
		}
		if !CanTransition(current.Status, status) {
			return nil, transitionError(current.Status, status)
		}
	}

	upd := model.StatusUpdate{
		Status:          status,
		DeliveryDate:    deliveryDate,
		SetDeliveryDate: deliveryDate != nil || status == model.StatusApproved,
		UpdatedAt:       w.now(),
	}
	updated, err := w.store.UpdateOrderStatus(ctx, orderID, upd)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Printf("[Order] Failed to update order %s to %s: %v", orderID, status, err)
		return nil, fmt.Errorf("update order %s: %w", orderID, err)
	}
	log.Printf("[Order] Order %s is now %s", orderID, status)

	if event, ok := EventFor(status); ok {
		w.notify(ctx, updated, event)
	}
	return updated, nil
}

// List returns every order, or only userID's when userID is set. Failures are
// logged and yield an empty list.
func (w *Workflow) List(ctx context.Context, userID string) []model.Order {
	orders, err := w.store.ListOrders(ctx, userID)
	if err != nil {
		log.Printf("[Order] Failed to list orders (user %q): %v", userID, err)
		return []model.Order{}
	}
	if orders == nil {
		return []model.Order{}
	}
	return orders
}

func (w *Workflow) Get(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := w.store.GetOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return o, nil
}

func (w *Workflow) notify(ctx context.Context, o *model.Order, event Event) {
	if w.notifier == nil {
		return
	}
	if !w.notifier.Notify(ctx, o, event) {
		log.Printf("[Order] Notification %s for order %s was not delivered", event, o.ID)
	}
}
