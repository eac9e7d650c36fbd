package cart

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/model"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrDuplicateLine   = errors.New("product appears more than once in cart")
)

// Service is the cart accessor
type Service struct {
	lines    store.CartStore
	products store.ProductStore
}

func NewService(lines store.CartStore, products store.ProductStore) *Service {
	return &Service{lines: lines, products: products}
}

// Get returns the user's cart joined to the catalog. Failures are logged and
// yield an empty cart. Lines whose product no longer exists are dropped.
func (s *Service) Get(ctx context.Context, userID string) []model.CartItem {
	items := []model.CartItem{}

	lines, err := s.lines.CartLines(ctx, userID)
	if err != nil {
		log.Printf("[Cart] Failed to read cart for user %s: %v", userID, err)
		return items
	}
	if len(lines) == 0 {
		return items
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.products.GetProducts(ctx, ids)
	if err != nil {
		log.Printf("[Cart] Failed to resolve products for user %s: %v", userID, err)
		return items
	}

	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			log.Printf("[Cart] Dropping line for missing product %s (user %s)", l.ProductID, userID)
			continue
		}
		items = append(items, model.CartItem{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			Quantity:    l.Quantity,
		})
	}
	return items
}

// Sync replaces the user's cart with lines: every existing line is deleted,
// then lines are inserted. An empty lines clears the cart. The two writes are
// not atomic.
func (s *Service) Sync(ctx context.Context, userID string, lines []model.CartLine) error {
	if err := ValidateLines(lines); err != nil {
		return err
	}

	if err := s.lines.DeleteCartLines(ctx, userID); err != nil {
		log.Printf("[Cart] Failed to clear cart for user %s: %v", userID, err)
		return fmt.Errorf("clear cart: %w", err)
	}
	if len(lines) == 0 {
		return nil
	}

	rows := make([]model.CartLine, len(lines))
	for i, l := range lines {
		rows[i] = model.CartLine{UserID: userID, ProductID: l.ProductID, Quantity: l.Quantity}
	}
	if err := s.lines.InsertCartLines(ctx, rows); err != nil {
		log.Printf("[Cart] Failed to insert %d lines for user %s: %v", len(rows), userID, err)
		return fmt.Errorf("insert cart lines: %w", err)
	}
	return nil
}

// Clear empties the user's cart
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.Sync(ctx, userID, nil)
}

func ValidateLines(lines []model.CartLine) error {
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return fmt.Errorf("%w: product %s", ErrInvalidQuantity, l.ProductID)
		}
		if seen[l.ProductID] {
			return fmt.Errorf("%w: product %s", ErrDuplicateLine, l.ProductID)
		}
		seen[l.ProductID] = true
	}
	return nil
}
