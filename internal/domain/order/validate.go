package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/pagdiwala/internal/model"
)

// ValidateCheckout checks the shipping fields a customer submits at checkout
func ValidateCheckout(address, mobile string) error {
	if strings.TrimSpace(address) == "" {
		return ErrInvalidAddress
	}
	if !model.ValidMobile(strings.TrimSpace(mobile)) {
		return fmt.Errorf("%w: want %d digits", ErrInvalidMobile, model.MobileDigits)
	}
	return nil
}

// ValidateStatusUpdate checks an admin status change before it reaches the workflow
func ValidateStatusUpdate(status model.OrderStatus, deliveryDate *time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	if status == model.StatusApproved && deliveryDate == nil {
		return ErrDeliveryDateRequired
	}
	return nil
}
