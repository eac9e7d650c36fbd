package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state stored on an order row
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusApproved  OrderStatus = "approved"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Statuses lists every known order status in lifecycle order
var Statuses = []OrderStatus{StatusPending, StatusApproved, StatusShipped, StatusDelivered, StatusCancelled}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

const (
	PaymentMethodCOD     = "cash_on_delivery"
	PaymentStatusPending = "pending"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Product is a row of the products table
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Customer is a row of the customers table
type Customer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	MiddleName   string    `json:"middle_name,omitempty"`
	LastName     string    `json:"last_name"`
	MobileNumber string    `json:"mobile_number"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName joins first and last name the way notifications address customers
func (c *Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Profile returns the fields the account page edits
func (c *Customer) Profile() Profile {
	return Profile{
		FirstName:    c.FirstName,
		MiddleName:   c.MiddleName,
		LastName:     c.LastName,
		MobileNumber: c.MobileNumber,
		Address:      c.Address,
	}
}

// AdminUser is a row of the admin_users table
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	MiddleName   string    `json:"middle_name,omitempty"`
	LastName     string    `json:"last_name"`
	MobileNumber string    `json:"mobile_number"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *AdminUser) Profile() Profile {
	return Profile{
		FirstName:    a.FirstName,
		MiddleName:   a.MiddleName,
		LastName:     a.LastName,
		MobileNumber: a.MobileNumber,
		Address:      a.Address,
	}
}

// Profile is the editable contact part of a customer or admin account
type Profile struct {
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name,omitempty"`
	LastName     string `json:"last_name"`
	MobileNumber string `json:"mobile_number"`
	Address      string `json:"address"`
}

// MobileDigits is the length of an Indian mobile number without country code
const MobileDigits = 10

// ValidMobile reports whether s is exactly MobileDigits ASCII digits
func ValidMobile(s string) bool {
	if len(s) != MobileDigits {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CartLine is a row of the cart_items table
type CartLine struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartItem is a cart line joined to its product
type CartItem struct {
	ProductID   string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
}

// LineTotal is price times quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItem is a row of the order_items table. Price is captured at order time.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *Product        `json:"product,omitempty"`
}

// Order is a row of the orders table, optionally with its items attached
type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	MobileNumber    string          `json:"mobile_number"`
	Status          OrderStatus     `json:"status"`
	DeliveryDate    *time.Time      `json:"delivery_date"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []OrderItem     `json:"order_items,omitempty"`
}

// StatusUpdate describes a status write. When SetDeliveryDate is false the stored
// delivery date is left untouched.
type StatusUpdate struct {
	Status          OrderStatus
	DeliveryDate    *time.Time
	SetDeliveryDate bool
	UpdatedAt       time.Time
}
