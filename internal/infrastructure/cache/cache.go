package cache

import (
	"context"
	"errors"

	"github.com/example/pagdiwala/internal/model"
)

// CatalogCache holds the full product listing
type CatalogCache interface {
	GetProducts(ctx context.Context) ([]model.Product, error)
	SetProducts(ctx context.Context, products []model.Product) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
