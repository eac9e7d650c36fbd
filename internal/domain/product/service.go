package product

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/pagdiwala/internal/infrastructure/cache"
	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/model"
	"golang.org/x/sync/singleflight"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

const listKey = "catalog"

// Service is the catalog accessor. A nil cache disables caching.
type Service struct {
	store store.ProductStore
	cache cache.CatalogCache
	sfg   singleflight.Group
	now   func() time.Time
}

func NewService(ps store.ProductStore, c cache.CatalogCache) *Service {
	return &Service{store: ps, cache: c, now: time.Now}
}

// List returns every product. Failures are logged and yield an empty list.
func (s *Service) List(ctx context.Context) []model.Product {
	v, err, _ := s.sfg.Do(listKey, func() (interface{}, error) {
		// Waiting callers share this load; detach it from the first caller's cancellation.
		ctx := context.WithoutCancel(ctx)
		if s.cache != nil {
			products, err := s.cache.GetProducts(ctx)
			if err == nil {
				return products, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				log.Printf("[Catalog] cache get error: %v", err)
			}
		}

		products, err := s.store.ListProducts(ctx)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.SetProducts(ctx, products); err != nil {
				log.Printf("[Catalog] cache set error: %v", err)
			}
		}
		return products, nil
	})
	if err != nil {
		log.Printf("[Catalog] Failed to list products: %v", err)
		return []model.Product{}
	}

	products := v.([]model.Product)
	if products == nil {
		return []model.Product{}
	}
	return products
}

func (s *Service) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// Update overwrites name, description, price, stock and image for p.ID
func (s *Service) Update(ctx context.Context, p model.Product) (*model.Product, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	p.UpdatedAt = s.now()
	updated, err := s.store.UpdateProduct(ctx, &p)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		log.Printf("[Catalog] Failed to update product %s: %v", p.ID, err)
		return nil, fmt.Errorf("update product %s: %w", p.ID, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("[Catalog] cache invalidate error: %v", err)
		}
	}
	return updated, nil
}

// Validate checks the fields an admin may edit
func Validate(p model.Product) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case p.StockQuantity < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	return nil
}
