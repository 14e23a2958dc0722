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

	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/config"
	ordershttp "github.com/pro5598/Gearnixx-sub000/orders-service/internal/http"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/payment"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/publisher"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/repository"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/service"
	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("orders-service", cfg.LogLevel)
	log.Info("orders-service starting...")

	if err := run(cfg, log); err != nil {
		log.Error("orders service failed", "error", err)
		os.Exit(1)
	}
	log.Info("orders service stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	repo, err := repository.NewRepository(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("database migrations completed")

	var events service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		pub := publisher.NewPublisher(log, cfg.KafkaBrokers...)
		defer pub.Close()
		events = pub
		log.Info("publishing order events", "topic", publisher.TopicOrderPlaced, "brokers", cfg.KafkaBrokers)
	}

	svc := service.NewOrderService(
		repo,
		repo,
		payment.NewSimulator(cfg.PaymentApprovalRate, nil),
		events,
		log,
	)

	router := ordershttp.NewRouter(svc, ordershttp.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		Logger:         log,
		Ping:           repo.Ping,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("orders service listening", "port", cfg.HTTPPort)
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

	log.Info("shutting down orders service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	return nil
}
