package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/example/pagdiwala/internal/api"
	"github.com/example/pagdiwala/internal/auth"
	"github.com/example/pagdiwala/internal/config"
	"github.com/example/pagdiwala/internal/domain/cart"
	"github.com/example/pagdiwala/internal/domain/order"
	"github.com/example/pagdiwala/internal/domain/product"
	"github.com/example/pagdiwala/internal/email"
	"github.com/example/pagdiwala/internal/infrastructure/cache"
	"github.com/example/pagdiwala/internal/infrastructure/kafka"
	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/notification"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// tables is the set of table accessors the API serves from
type tables struct {
	products  store.ProductStore
	customers store.CustomerStore
	admins    store.AdminStore
	orders    store.OrderStore
	cart      store.CartStore
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[API] %v", err)
	}

	log.Println("[API] ========================================")
	log.Printf("[API] %s", cfg.ShopName)
	log.Println("[API] ========================================")
	log.Printf("[API] Store: %s, cart: %s", cfg.StoreBackend, cfg.CartStoreBackend())
	log.Printf("[API] Notifications: %s", cfg.NotifyMode)

	t, db, err := openTables(ctx, cfg)
	if err != nil {
		log.Fatalf("[API] %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	var catalogCache cache.CatalogCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[API] Redis at %s unreachable, catalog cache will fall through: %v", cfg.RedisAddr, err)
		}
		catalogCache = cache.NewRedisCatalogCache(rdb, cfg.CatalogCacheTTL)
		log.Printf("[API] Catalog cache: redis %s (ttl %s)", cfg.RedisAddr, cfg.CatalogCacheTTL)
	}

	var notifier order.Notifier
	switch cfg.NotifyMode {
	case config.NotifyKafka:
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		notifier = notification.NewPublisher(producer)
		log.Printf("[API] Publishing order events to %s on %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	default:
		notifier = notification.NewSender(t.customers, t.orders, newEmailClient(cfg), shopInfo(cfg))
	}

	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL)
	catalog := product.NewService(t.products, catalogCache)
	carts := cart.NewService(t.cart, t.products)
	workflow := order.NewWorkflow(t.orders, notifier, order.WithTransitionGuard(cfg.EnforceOrderTransitions))

	router := api.NewRouter(api.RouterConfig{
		Handlers:     api.NewHandlers(catalog, carts, workflow),
		AuthHandlers: api.NewAuthHandlers(auth.NewAuthenticator(t.customers, t.admins, tokens)),
		JWTService:   tokens,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("[API] Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("[API] Server error: %v", err)
	}
}

// openTables connects the configured backends. db is nil for the in-memory store.
func openTables(ctx context.Context, cfg config.Config) (tables, *sql.DB, error) {
	var t tables
	var db *sql.DB

	switch cfg.StoreBackend {
	case config.BackendMemory:
		mem := store.NewMemoryStore()
		if err := seedAdmin(mem, cfg); err != nil {
			return t, nil, err
		}
		if err := seedCatalog(ctx, mem); err != nil {
			return t, nil, err
		}
		t = tables{products: mem, customers: mem, admins: mem, orders: mem, cart: mem}
		log.Println("[API] Using in-memory store")
	default:
		var err error
		db, err = store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return t, nil, err
		}
		if err := store.RunMigrations(db, cfg.MigrationsDir); err != nil {
			db.Close()
			return t, nil, err
		}
		pg := store.NewPostgresStore(db)
		t = tables{products: pg, customers: pg, admins: pg, orders: pg, cart: pg}
		log.Println("[API] Connected to PostgreSQL")
	}

	if cfg.CartStoreBackend() == config.BackendDynamoDB {
		client, err := newDynamoClient(ctx, cfg)
		if err != nil {
			if db != nil {
				db.Close()
			}
			return t, nil, err
		}
		t.cart = store.NewDynamoCartStore(client, cfg.DynamoCartTable)
		log.Printf("[API] Cart lines in DynamoDB table %s", cfg.DynamoCartTable)
	}
	return t, db, nil
}

func newDynamoClient(ctx context.Context, cfg config.Config) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	}), nil
}

func newEmailClient(cfg config.Config) email.Client {
	if cfg.EmailProvider == config.EmailSendGrid {
		return email.NewSendGridClient(cfg.SendGridAPIKey, cfg.SendGridFrom, cfg.ShopName)
	}
	return email.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
}

func shopInfo(cfg config.Config) notification.ShopInfo {
	return notification.ShopInfo{Name: cfg.ShopName, ContactPhone: cfg.ContactPhone, ContactEmail: cfg.ContactEmail}
}
