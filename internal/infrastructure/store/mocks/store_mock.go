package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/model"
)

// MockStore wraps an in-memory store, records writes and lets tests inject failures per operation
type MockStore struct {
	*store.MemoryStore

	mu sync.Mutex

	ListProductsErr  error
	GetProductErr    error
	GetProductsErr   error
	UpdateProductErr error
	GetCustomerErr   error
	UpdateProfileErr error
	CartLinesErr     error
	DeleteCartErr    error
	InsertCartErr    error
	InsertOrderErr   error
	InsertItemsErr   error
	DeleteOrderErr   error
	UpdateStatusErr  error
	GetOrderErr      error
	ListOrdersErr    error
	ListItemsErr     error

	// For tracking calls in tests
	InsertOrderCalls   []model.Order
	InsertItemsCalls   [][]model.OrderItem
	DeleteOrderCalls   []string
	UpdateStatusCalls  []UpdateStatusCall
	DeleteCartCalls    []string
	InsertCartCalls    [][]model.CartLine
	UpdateProductCalls []model.Product
}

// UpdateStatusCall records parameters passed to UpdateOrderStatus
type UpdateStatusCall struct {
	OrderID string
	Update  model.StatusUpdate
}

// NewMockStore creates a MockStore over an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{MemoryStore: store.NewMemoryStore()}
}

func (m *MockStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	if m.ListProductsErr != nil {
		return nil, m.ListProductsErr
	}
	return m.MemoryStore.ListProducts(ctx)
}

func (m *MockStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if m.GetProductErr != nil {
		return nil, m.GetProductErr
	}
	return m.MemoryStore.GetProduct(ctx, id)
}

func (m *MockStore) GetProducts(ctx context.Context, ids []string) (map[string]*model.Product, error) {
	if m.GetProductsErr != nil {
		return nil, m.GetProductsErr
	}
	return m.MemoryStore.GetProducts(ctx, ids)
}

func (m *MockStore) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	m.mu.Lock()
	m.UpdateProductCalls = append(m.UpdateProductCalls, *p)
	m.mu.Unlock()
	if m.UpdateProductErr != nil {
		return nil, m.UpdateProductErr
	}
	return m.MemoryStore.UpdateProduct(ctx, p)
}

func (m *MockStore) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	if m.GetCustomerErr != nil {
		return nil, m.GetCustomerErr
	}
	return m.MemoryStore.GetCustomer(ctx, id)
}

func (m *MockStore) UpdateCustomerProfile(ctx context.Context, id string, p model.Profile, updatedAt time.Time) (*model.Customer, error) {
	if m.UpdateProfileErr != nil {
		return nil, m.UpdateProfileErr
	}
	return m.MemoryStore.UpdateCustomerProfile(ctx, id, p, updatedAt)
}

func (m *MockStore) UpdateAdminProfile(ctx context.Context, id string, p model.Profile, updatedAt time.Time) (*model.AdminUser, error) {
	if m.UpdateProfileErr != nil {
		return nil, m.UpdateProfileErr
	}
	return m.MemoryStore.UpdateAdminProfile(ctx, id, p, updatedAt)
}

func (m *MockStore) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	if m.CartLinesErr != nil {
		return nil, m.CartLinesErr
	}
	return m.MemoryStore.CartLines(ctx, userID)
}

func (m *MockStore) DeleteCartLines(ctx context.Context, userID string) error {
	m.mu.Lock()
	m.DeleteCartCalls = append(m.DeleteCartCalls, userID)
	m.mu.Unlock()
	if m.DeleteCartErr != nil {
		return m.DeleteCartErr
	}
	return m.MemoryStore.DeleteCartLines(ctx, userID)
}

func (m *MockStore) InsertCartLines(ctx context.Context, lines []model.CartLine) error {
	m.mu.Lock()
	m.InsertCartCalls = append(m.InsertCartCalls, lines)
	m.mu.Unlock()
	if m.InsertCartErr != nil {
		return m.InsertCartErr
	}
	return m.MemoryStore.InsertCartLines(ctx, lines)
}

func (m *MockStore) InsertOrder(ctx context.Context, o *model.Order) error {
	m.mu.Lock()
	m.InsertOrderCalls = append(m.InsertOrderCalls, *o)
	m.mu.Unlock()
	if m.InsertOrderErr != nil {
		return m.InsertOrderErr
	}
	return m.MemoryStore.InsertOrder(ctx, o)
}

func (m *MockStore) InsertOrderItems(ctx context.Context, items []model.OrderItem) error {
	m.mu.Lock()
	m.InsertItemsCalls = append(m.InsertItemsCalls, items)
	m.mu.Unlock()
	if m.InsertItemsErr != nil {
		return m.InsertItemsErr
	}
	return m.MemoryStore.InsertOrderItems(ctx, items)
}

func (m *MockStore) DeleteOrder(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeleteOrderCalls = append(m.DeleteOrderCalls, id)
	m.mu.Unlock()
	if m.DeleteOrderErr != nil {
		return m.DeleteOrderErr
	}
	return m.MemoryStore.DeleteOrder(ctx, id)
}

func (m *MockStore) UpdateOrderStatus(ctx context.Context, id string, upd model.StatusUpdate) (*model.Order, error) {
	m.mu.Lock()
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, UpdateStatusCall{OrderID: id, Update: upd})
	m.mu.Unlock()
	if m.UpdateStatusErr != nil {
		return nil, m.UpdateStatusErr
	}
	return m.MemoryStore.UpdateOrderStatus(ctx, id, upd)
}

func (m *MockStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	if m.GetOrderErr != nil {
		return nil, m.GetOrderErr
	}
	return m.MemoryStore.GetOrder(ctx, id)
}

func (m *MockStore) ListOrders(ctx context.Context, customerID string) ([]model.Order, error) {
	if m.ListOrdersErr != nil {
		return nil, m.ListOrdersErr
	}
	return m.MemoryStore.ListOrders(ctx, customerID)
}

func (m *MockStore) ListOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	if m.ListItemsErr != nil {
		return nil, m.ListItemsErr
	}
	return m.MemoryStore.ListOrderItems(ctx, orderID)
}

// MockAtomicStore adds a transactional order+items write on top of MockStore
type MockAtomicStore struct {
	*MockStore

	InsertWithItemsErr   error
	InsertWithItemsCalls int
}

func NewMockAtomicStore() *MockAtomicStore {
	return &MockAtomicStore{MockStore: NewMockStore()}
}

// InsertOrderWithItems writes nothing when either step fails
func (m *MockAtomicStore) InsertOrderWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	m.InsertWithItemsCalls++
	if m.InsertWithItemsErr != nil {
		return m.InsertWithItemsErr
	}
	if err := m.MemoryStore.InsertOrder(ctx, o); err != nil {
		return err
	}
	if err := m.MemoryStore.InsertOrderItems(ctx, items); err != nil {
		_ = m.MemoryStore.DeleteOrder(ctx, o.ID)
		return err
	}
	return nil
}
