package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/pagdiwala/internal/auth"
	"github.com/example/pagdiwala/internal/config"
	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// seedAdmin adds the bootstrap admin so the dashboard is usable without a database
func seedAdmin(mem *store.MemoryStore, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	now := time.Now()
	mem.AddAdmin(model.AdminUser{
		ID:           uuid.NewString(),
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FirstName:    "Admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	log.Printf("[API] Seeded admin %s", cfg.AdminEmail)
	return nil
}

// demoCatalog is the stock an in-memory shop starts with
var demoCatalog = []struct {
	name, description, price string
	stock                    int
}{
	{"Jodhpuri Safa", "Bandhej cotton safa in saffron and red, tied for baraat", "450.00", 25},
	{"Leheriya Safa", "Wave-dyed Rajasthani safa for daytime ceremonies", "399.00", 30},
	{"Puneri Pagadi", "Pre-tied Maharashtrian pagadi with zari border", "1250.00", 8},
	{"Kolhapuri Pheta", "Silk pheta with a long turra for the groom", "950.50", 12},
	{"Mysore Peta", "Gold-trimmed peta for South Indian weddings", "1499.99", 5},
}

// seedCatalog fills an empty product table with demoCatalog. Products that
// already exist are left alone.
func seedCatalog(ctx context.Context, products store.ProductStore) error {
	existing, err := products.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	base := time.Now()
	for i, d := range demoCatalog {
		// Spread creation times so the listing order is stable
		at := base.Add(time.Duration(i) * time.Second)
		p := &model.Product{
			ID:            uuid.NewString(),
			Name:          d.name,
			Description:   d.description,
			Price:         decimal.RequireFromString(d.price),
			StockQuantity: d.stock,
			CreatedAt:     at,
			UpdatedAt:     at,
		}
		if err := products.CreateProduct(ctx, p); err != nil && !errors.Is(err, store.ErrConflict) {
			return err
		}
	}
	log.Printf("[API] Seeded %d demo products", len(demoCatalog))
	return nil
}
