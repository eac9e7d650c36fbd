package store

import (
	"context"
	"errors"
	"time"

	"github.com/example/pagdiwala/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
	// ErrInvalidReference means a row points at a parent row that does not exist
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// ProductStore reads and writes the products table
type ProductStore interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	// GetProducts returns the products found for ids, keyed by id. Missing ids are absent from the map.
	GetProducts(ctx context.Context, ids []string) (map[string]*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
}

// CustomerStore reads and writes the customers table
type CustomerStore interface {
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error)
	CreateCustomer(ctx context.Context, c *model.Customer) error
	UpdateCustomerProfile(ctx context.Context, id string, p model.Profile, updatedAt time.Time) (*model.Customer, error)
}

// AdminStore reads the admin_users table. Admin rows are provisioned outside
// the storefront; only their profile fields are editable here.
type AdminStore interface {
	GetAdminByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	UpdateAdminProfile(ctx context.Context, id string, p model.Profile, updatedAt time.Time) (*model.AdminUser, error)
}

// CartStore reads and writes the cart_items table. It has no replace operation:
// callers delete and insert as two separate writes.
type CartStore interface {
	CartLines(ctx context.Context, userID string) ([]model.CartLine, error)
	DeleteCartLines(ctx context.Context, userID string) error
	InsertCartLines(ctx context.Context, lines []model.CartLine) error
}

// OrderStore reads and writes the orders and order_items tables
type OrderStore interface {
	InsertOrder(ctx context.Context, o *model.Order) error
	InsertOrderItems(ctx context.Context, items []model.OrderItem) error
	DeleteOrder(ctx context.Context, id string) error
	UpdateOrderStatus(ctx context.Context, id string, upd model.StatusUpdate) (*model.Order, error)
	// GetOrder and ListOrders return orders with items and each item's product attached.
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, customerID string) ([]model.Order, error)
	ListOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
}

// AtomicOrderCreator is implemented by stores that can write an order and its
// items in a single transaction.
type AtomicOrderCreator interface {
	InsertOrderWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error
}
