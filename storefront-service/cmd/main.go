package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/circuitbreaker"
	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/client"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/config"
	h "github.com/pro5598/Gearnixx-sub000/storefront-service/internal/http"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/poller"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/session"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New("storefront-service", cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("storefront service failed", "error", err)
		os.Exit(1)
	}
	log.Info("server exited")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	defer closeStore()

	breaker := circuitbreaker.New("orders-service", circuitbreaker.DefaultConfig(), log)
	ordersClient, err := client.NewOrdersClient(cfg.OrdersServiceURL, cfg.RequestTimeout, breaker, log)
	if err != nil {
		return fmt.Errorf("create orders client: %w", err)
	}

	registry := session.NewRegistry(store, ordersClient, session.Config{
		Pricing:      cfg.Pricing,
		AccountTypes: cfg.AccountTypes,
	}, log)

	// Order-placed poller
	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()
	if len(cfg.KafkaBrokers) > 0 {
		p := poller.NewPoller(registry, log, cfg.KafkaBrokers...)
		defer p.Close()
		go p.Run(pollCtx)
		log.Info("order-placed poller started", "brokers", cfg.KafkaBrokers)
	}

	router := h.NewRouter(registry, h.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		Logger:         log,
		Health: func() map[string]string {
			return map[string]string{
				"storage":        cfg.StorageBackend,
				"orders_breaker": ordersClient.BreakerState(),
			}
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("storefront service starting", "port", cfg.HTTPPort, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")
	stopPolling()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	return nil
}

// openStore connects the configured client-state backend.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, nil, err
		}
		log.Info("redis ping succeeded", "addr", cfg.RedisAddr)
		return storage.NewRedisStore(redisClient, cfg.RedisTTL), func() { redisClient.Close() }, nil

	case config.BackendSQLite:
		st, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := st.RunMigrations(); err != nil {
			st.Close()
			return nil, nil, err
		}
		log.Info("sqlite storage ready", "path", cfg.SQLitePath)
		return st, func() { st.Close() }, nil

	case config.BackendMongo:
		db, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		st := storage.NewMongoStore(db)
		if err := st.CreateIndexes(ctx); err != nil {
			log.Warn("failed to create mongo indexes", "error", err)
		}
		log.Info("connected to MongoDB", "db", cfg.MongoDBName)
		return st, func() { _ = db.Client().Disconnect(context.Background()) }, nil

	default:
		log.Warn("using in-memory storage, carts are lost on restart")
		return storage.NewMemoryStore(), func() {}, nil
	}
}
