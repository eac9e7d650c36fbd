package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/pagdiwala/internal/model"
)

// MemoryStore keeps every table in process memory. It backs local runs and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	products   map[string]model.Product
	customers  map[string]model.Customer
	admins     map[string]model.AdminUser
	cart       map[string][]model.CartLine // user id -> lines
	orders     map[string]model.Order
	orderItems map[string][]model.OrderItem // order id -> items
	orderSeq   []string                     // insertion order of order ids
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:   make(map[string]model.Product),
		customers:  make(map[string]model.Customer),
		admins:     make(map[string]model.AdminUser),
		cart:       make(map[string][]model.CartLine),
		orders:     make(map[string]model.Order),
		orderItems: make(map[string][]model.OrderItem),
	}
}

// Products

func (s *MemoryStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) GetProducts(ctx context.Context, ids []string) (map[string]*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]*model.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			found[id] = &p
		}
	}
	return found, nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return fmt.Errorf("product %s: %w", p.ID, ErrConflict)
	}
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[p.ID]
	if !ok {
		return nil, ErrNotFound
	}
	current.Name = p.Name
	current.Description = p.Description
	current.Price = p.Price
	current.StockQuantity = p.StockQuantity
	current.ImageURL = p.ImageURL
	current.UpdatedAt = p.UpdatedAt
	s.products[p.ID] = current
	return &current, nil
}

// Customers and admins

func (s *MemoryStore) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.customers {
		if existing.ID == c.ID || strings.EqualFold(existing.Email, c.Email) {
			return fmt.Errorf("customer %s: %w", c.Email, ErrConflict)
		}
	}
	s.customers[c.ID] = *c
	return nil
}

func (s *MemoryStore) UpdateCustomerProfile(ctx context.Context, id string, p model.Profile, updatedAt time.Time) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.FirstName = p.FirstName
	c.MiddleName = p.MiddleName
	c.LastName = p.LastName
	c.MobileNumber = p.MobileNumber
	c.Address = p.Address
	c.UpdatedAt = updatedAt
	s.customers[id] = c
	return &c, nil
}

func (s *MemoryStore) GetAdminByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateAdminProfile(ctx context.Context, id string, p model.Profile, updatedAt time.Time) (*model.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.FirstName = p.FirstName
	a.MiddleName = p.MiddleName
	a.LastName = p.LastName
	a.MobileNumber = p.MobileNumber
	a.Address = p.Address
	a.UpdatedAt = updatedAt
	s.admins[id] = a
	return &a, nil
}

// AddAdmin seeds an admin user. Admins are provisioned outside the storefront.
func (s *MemoryStore) AddAdmin(a model.AdminUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[a.ID] = a
}

// Cart

func (s *MemoryStore) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]model.CartLine, len(s.cart[userID]))
	copy(lines, s.cart[userID])
	return lines, nil
}

func (s *MemoryStore) DeleteCartLines(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cart, userID)
	return nil
}

func (s *MemoryStore) InsertCartLines(ctx context.Context, lines []model.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch first so a rejected insert writes nothing.
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		key := l.UserID + "/" + l.ProductID
		if seen[key] {
			return fmt.Errorf("cart line %s: %w", key, ErrConflict)
		}
		seen[key] = true
		for _, existing := range s.cart[l.UserID] {
			if existing.ProductID == l.ProductID {
				return fmt.Errorf("cart line %s: %w", key, ErrConflict)
			}
		}
	}
	for _, l := range lines {
		s.cart[l.UserID] = append(s.cart[l.UserID], l)
	}
	return nil
}

// Orders

func (s *MemoryStore) InsertOrder(ctx context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertOrderLocked(o)
}

func (s *MemoryStore) insertOrderLocked(o *model.Order) error {
	if _, exists := s.orders[o.ID]; exists {
		return fmt.Errorf("order %s: %w", o.ID, ErrConflict)
	}
	stored := *o
	stored.Items = nil
	s.orders[o.ID] = stored
	s.orderSeq = append(s.orderSeq, o.ID)
	return nil
}

func (s *MemoryStore) InsertOrderItems(ctx context.Context, items []model.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if _, ok := s.orders[item.OrderID]; !ok {
			return fmt.Errorf("order %s: %w", item.OrderID, ErrNotFound)
		}
		if _, ok := s.products[item.ProductID]; !ok {
			return fmt.Errorf("product %s: %w", item.ProductID, ErrNotFound)
		}
	}
	for _, item := range items {
		item.Product = nil
		s.orderItems[item.OrderID] = append(s.orderItems[item.OrderID], item)
	}
	return nil
}

func (s *MemoryStore) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	delete(s.orderItems, id)
	for i, seqID := range s.orderSeq {
		if seqID == id {
			s.orderSeq = append(s.orderSeq[:i], s.orderSeq[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id string, upd model.StatusUpdate) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = upd.Status
	if upd.SetDeliveryDate {
		o.DeliveryDate = upd.DeliveryDate
	}
	o.UpdatedAt = upd.UpdatedAt
	s.orders[id] = o
	return &o, nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Items = s.itemsWithProductsLocked(id)
	return &o, nil
}

func (s *MemoryStore) ListOrders(ctx context.Context, customerID string) ([]model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// newest first
	orders := make([]model.Order, 0, len(s.orderSeq))
	for i := len(s.orderSeq) - 1; i >= 0; i-- {
		id := s.orderSeq[i]
		o := s.orders[id]
		if customerID != "" && o.CustomerID != customerID {
			continue
		}
		o.Items = s.itemsWithProductsLocked(id)
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *MemoryStore) ListOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsWithProductsLocked(orderID), nil
}

func (s *MemoryStore) itemsWithProductsLocked(orderID string) []model.OrderItem {
	stored := s.orderItems[orderID]
	items := make([]model.OrderItem, 0, len(stored))
	for _, item := range stored {
		if p, ok := s.products[item.ProductID]; ok {
			item.Product = &p
		}
		items = append(items, item)
	}
	return items
}
