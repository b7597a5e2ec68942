package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hotelply/marketplace/refund-engine/internal/api"
	"github.com/hotelply/marketplace/refund-engine/internal/config"
	"github.com/hotelply/marketplace/refund-engine/internal/events"
	"github.com/hotelply/marketplace/refund-engine/internal/handlers"
	"github.com/hotelply/marketplace/refund-engine/internal/lock"
	"github.com/hotelply/marketplace/refund-engine/internal/notify"
	"github.com/hotelply/marketplace/refund-engine/internal/repository"
	"github.com/hotelply/marketplace/refund-engine/internal/service"
	"github.com/hotelply/marketplace/refund-engine/internal/telemetry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize telemetry
	if err := telemetry.Init("refund-engine"); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Refund Engine")

	// Connect to PostgreSQL
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	repo := repository.NewOrderRepository(db)
	if err := repo.InitDB(); err != nil {
		telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	authz := repository.NewAuthorizer(db)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	locker := lock.NewRedisLocker(redisClient)

	// Connect to NATS
	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		telemetry.Logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer nc.Close()
	notifier := notify.NewNatsNotifier(nc, cfg.NotifyTimeout)

	// Connect to Kafka
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
	defer publisher.Close()

	// Initialize services and handlers
	cancellation := service.NewCancellationService(repo, authz, locker, publisher, notifier)
	verification := service.NewVerificationService(repo, publisher, cfg.VerifySecret)

	router := api.NewRouter(
		handlers.NewRefundHandler(cancellation),
		handlers.NewPaymentHandler(verification),
	)

	// Setup HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("Refund Engine starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
