package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akylbek/payment-relay/internal/api"
	"github.com/akylbek/payment-relay/internal/cache"
	"github.com/akylbek/payment-relay/internal/config"
	"github.com/akylbek/payment-relay/internal/events"
	"github.com/akylbek/payment-relay/internal/gateway"
	"github.com/akylbek/payment-relay/internal/interfaces"
	"github.com/akylbek/payment-relay/internal/repository"
	"github.com/akylbek/payment-relay/internal/service"
	"github.com/akylbek/payment-relay/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if err := telemetry.InitTelemetry("payment-relay", cfg.OTelEndpoint); err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting payment relay")

	if cfg.MidtransServerKey == "" {
		return errors.New("MIDTRANS_SERVER_KEY is required")
	}

	// Connect to PostgreSQL
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	customerRepo := repository.NewCustomerRepository(db)
	if err := customerRepo.InitDB(); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(cmd.Context()).Err(); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	// Connect to Kafka
	var publisher interfaces.EventPublisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaWriter := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
			Topic:    cfg.KafkaTopic,
			Balancer: &kafka.Hash{},
		}
		defer kafkaWriter.Close()
		publisher = events.NewKafkaPublisher(kafkaWriter)
	} else {
		telemetry.Logger.Warn("KAFKA_BROKERS not set, balance events are disabled")
	}

	orders := cache.NewOrderDirectory(redisClient, cfg.OrderDirectoryTTL)
	midtransGateway := gateway.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransProduction, orders)

	router := api.NewRouter(
		service.NewTransactionService(customerRepo, midtransGateway),
		service.NewNotificationService(customerRepo, midtransGateway, publisher),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		telemetry.Logger.Info("Payment relay starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("start server: %w", err)
	case <-quit:
	}

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
	return nil
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
