package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/example/pagdiwala/internal/config"
	"github.com/example/pagdiwala/internal/email"
	"github.com/example/pagdiwala/internal/infrastructure/kafka"
	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/notification"
	"golang.org/x/sync/errgroup"
)

// The notifier delivers order e-mails published by the API in kafka mode. It
// reloads each order from PostgreSQL, so it needs the same database as the API.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Notifier] %v", err)
	}
	if cfg.StoreBackend != config.BackendPostgres {
		log.Fatalf("[Notifier] STORE_BACKEND must be postgres, got %q", cfg.StoreBackend)
	}

	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] %s - order e-mails", cfg.ShopName)
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Notifier] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Notifier] Group: %s", cfg.KafkaGroupID)
	log.Printf("[Notifier] E-mail provider: %s", cfg.EmailProvider)

	db, err := store.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Notifier] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("[Notifier] Connected to PostgreSQL")

	pg := store.NewPostgresStore(db)

	var client email.Client = email.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	if cfg.EmailProvider == config.EmailSendGrid {
		client = email.NewSendGridClient(cfg.SendGridAPIKey, cfg.SendGridFrom, cfg.ShopName)
	}
	sender := notification.NewSender(pg, pg, client, notification.ShopInfo{
		Name:         cfg.ShopName,
		ContactPhone: cfg.ContactPhone,
		ContactEmail: cfg.ContactEmail,
	})
	handler := notification.NewHandler(sender, pg)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Println("[Notifier] Starting event consumer...")
		return consumer.Consume(gctx, handler.HandleMessage)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[Notifier] Consumer error: %v", err)
	}
	log.Println("[Notifier] Shut down")
}
