package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/pagdiwala/internal/domain/order"
	"github.com/example/pagdiwala/internal/model"
	"github.com/shopspring/decimal"
)

var ErrUnknownEvent = errors.New("no template for event")

const dateLayout = "02 Jan 2006"

// ShopInfo is the sender identity printed in every message
type ShopInfo struct {
	Name         string
	ContactPhone string
	ContactEmail string
}

// TemplateData is an order with its customer name and items resolved
type TemplateData struct {
	Order        *model.Order
	CustomerName string
	Items        []model.OrderItem
	Shop         ShopInfo
}

// Message is a rendered plain-text e-mail
type Message struct {
	Subject string
	Body    string
}

type template func(d TemplateData) Message

var templates = map[order.Event]template{
	order.EventOrderPlaced:    orderPlaced,
	order.EventOrderApproved:  orderApproved,
	order.EventOrderShipped:   orderShipped,
	order.EventOrderDelivered: orderDelivered,
}

// Render builds the message for event
func Render(event order.Event, d TemplateData) (Message, error) {
	tmpl, ok := templates[event]
	if !ok {
		return Message{}, fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	return tmpl(d), nil
}

func orderPlaced(d TemplateData) Message {
	var b strings.Builder
	greet(&b, d)
	fmt.Fprintf(&b, "Thank you for choosing %s!\n\n", d.Shop.Name)
	fmt.Fprintf(&b, "Your order #%s has been successfully placed.\n\n", d.Order.ID)
	b.WriteString("Order Details:\n")
	for _, item := range d.Items {
		fmt.Fprintf(&b, "- %s\n  Quantity: %d\n  Price: %s\n", itemName(item), item.Quantity, rupees(item.Price))
	}
	fmt.Fprintf(&b, "\nTotal Amount: %s\n", rupees(d.Order.TotalAmount))
	b.WriteString("Payment: Cash on delivery\n\n")
	fmt.Fprintf(&b, "Delivery Address:\n%s\n\n", d.Order.ShippingAddress)
	fmt.Fprintf(&b, "Contact Number: %s\n\n", d.Order.MobileNumber)
	b.WriteString("We will process your order soon and update you about the delivery.\n")
	signOff(&b, d)
	return Message{Subject: subject("Order Confirmation", d), Body: b.String()}
}

func orderApproved(d TemplateData) Message {
	var b strings.Builder
	greet(&b, d)
	fmt.Fprintf(&b, "Your order #%s has been approved!\n\n", d.Order.ID)
	fmt.Fprintf(&b, "Expected Delivery Date: %s\n\n", deliveryDate(d.Order.DeliveryDate))
	b.WriteString("Order Details:\n")
	for _, item := range d.Items {
		fmt.Fprintf(&b, "- %s\n  Quantity: %d\n", itemName(item), item.Quantity)
	}
	fmt.Fprintf(&b, "\nDelivery Address:\n%s\n\n", d.Order.ShippingAddress)
	b.WriteString("We'll notify you once your order is shipped.\n")
	signOff(&b, d)
	return Message{Subject: subject("Order Approved", d), Body: b.String()}
}

func orderShipped(d TemplateData) Message {
	var b strings.Builder
	greet(&b, d)
	fmt.Fprintf(&b, "Great news! Your order #%s has been shipped.\n\n", d.Order.ID)
	fmt.Fprintf(&b, "Expected Delivery: %s\n\n", deliveryDate(d.Order.DeliveryDate))
	fmt.Fprintf(&b, "Delivery Address:\n%s\n\n", d.Order.ShippingAddress)
	fmt.Fprintf(&b, "Contact Number: %s\n", d.Order.MobileNumber)
	signOff(&b, d)
	return Message{Subject: subject("Order Shipped", d), Body: b.String()}
}

func orderDelivered(d TemplateData) Message {
	var b strings.Builder
	greet(&b, d)
	fmt.Fprintf(&b, "Your order #%s has been delivered successfully.\n\n", d.Order.ID)
	fmt.Fprintf(&b, "Thank you for choosing %s. We hope you enjoy our service.\n\n", d.Shop.Name)
	b.WriteString("For rental items, please remember:\n")
	b.WriteString("- Return the items in the same condition\n")
	b.WriteString("- Follow the return timeline\n")
	b.WriteString("- Contact us if you need any assistance\n")
	signOff(&b, d)
	return Message{Subject: subject("Order Delivered", d), Body: b.String()}
}

func subject(title string, d TemplateData) string {
	if d.Shop.Name == "" {
		return title
	}
	return title + " - " + d.Shop.Name
}

func greet(b *strings.Builder, d TemplateData) {
	name := d.CustomerName
	if name == "" {
		name = "Customer"
	}
	fmt.Fprintf(b, "Dear %s,\n\n", name)
}

func signOff(b *strings.Builder, d TemplateData) {
	b.WriteString("\nFor any queries, please contact us:\n")
	fmt.Fprintf(b, "Phone: %s\nEmail: %s\n\n", d.Shop.ContactPhone, d.Shop.ContactEmail)
	fmt.Fprintf(b, "Best Regards,\nTeam %s\n", d.Shop.Name)
}

func itemName(item model.OrderItem) string {
	if item.Product != nil && item.Product.Name != "" {
		return item.Product.Name
	}
	return item.ProductID
}

func rupees(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}

func deliveryDate(t *time.Time) string {
	if t == nil {
		return "to be confirmed"
	}
	return t.Format(dateLayout)
}
