package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, BackendPostgres, cfg.CartStoreBackend())
	assert.Equal(t, NotifySync, cfg.NotifyMode)
	assert.Equal(t, EmailSMTP, cfg.EmailProvider)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.False(t, cfg.EnforceOrderTransitions)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("CART_BACKEND", "dynamodb")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("ENFORCE_ORDER_TRANSITIONS", "true")
	t.Setenv("NOTIFY_MODE", "kafka")

	cfg := Load()

	assert.Equal(t, BackendDynamoDB, cfg.CartStoreBackend())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 90*time.Second, cfg.CatalogCacheTTL)
	assert.True(t, cfg.EnforceOrderTransitions)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("CATALOG_CACHE_TTL", "soon")
	t.Setenv("ENFORCE_ORDER_TRANSITIONS", "maybe")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.False(t, cfg.EnforceOrderTransitions)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	base := Load()
	assert.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"short secret", func(c *Config) { c.JWTSecret = "too-short" }},
		{"unknown store", func(c *Config) { c.StoreBackend = "sqlite" }},
		{"unknown cart", func(c *Config) { c.CartBackend = "mongo" }},
		{"postgres cart without postgres store", func(c *Config) { c.StoreBackend = BackendMemory; c.CartBackend = BackendPostgres }},
		{"unknown notify mode", func(c *Config) { c.NotifyMode = "sms" }},
		{"kafka without brokers", func(c *Config) { c.NotifyMode = NotifyKafka; c.KafkaBrokers = nil }},
		{"kafka with memory store", func(c *Config) { c.NotifyMode = NotifyKafka; c.StoreBackend = BackendMemory; c.CartBackend = "" }},
		{"unknown email provider", func(c *Config) { c.EmailProvider = "ses" }},
		{"sendgrid without key", func(c *Config) { c.EmailProvider = EmailSendGrid; c.SendGridAPIKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidate_KafkaWithPostgres(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	cfg := Load()
	cfg.StoreBackend = BackendPostgres
	cfg.NotifyMode = NotifyKafka
	cfg.KafkaBrokers = []string{"kafka-1:9092", "kafka-2:9092"}

	assert.NoError(t, cfg.Validate())
}
