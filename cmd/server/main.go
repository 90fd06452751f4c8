package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"freightpay/internal/app"
	"freightpay/internal/config"
	"freightpay/internal/handler"
	internalRedis "freightpay/internal/redis"
	"freightpay/internal/repository/postgres"
	"freightpay/internal/service"
	"freightpay/internal/storage"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Initialize object storage for proof files and receipts.
	store, err := newObjectStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}
	log.Printf("Object storage ready: backend=%s", cfg.Storage.Backend)

	// Wire dependencies.
	server := wireServer(db, redisClient, store, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// newObjectStorage selects the storage backend from configuration.
func newObjectStorage(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStorage, error) {
	if cfg.Backend == "s3" {
		s3Store, err := storage.NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Store, nil
	}
	return storage.NewLocalStorage(cfg.LocalDir)
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, store storage.ObjectStorage, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	summaryCache := internalRedis.NewSummaryCache(redisClient)

	// Initialize repositories.
	clientRepo := postgres.NewClientRepository(db)
	deliveryRepo := postgres.NewDeliveryRepository(db)
	proofRepo := postgres.NewProofRepository(db)
	receiptRepo := postgres.NewReceiptRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Initialize services.
	notificationService := service.NewNotificationService()
	receiptService := service.NewReceiptService(receiptRepo, store)
	summaryService := service.NewSummaryService(clientRepo, deliveryRepo, summaryCache)
	deliveryService := service.NewDeliveryService(deliveryRepo, clientRepo, summaryCache)
	proofService := service.NewProofService(uow, proofRepo, deliveryRepo, clientRepo, store, lockStore, summaryCache, receiptService, notificationService)

	// Initialize handlers.
	clientHandler := handler.NewClientHandler(clientRepo, summaryService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	proofHandler := handler.NewProofHandler(proofService, receiptService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		ClientHandler:   clientHandler,
		DeliveryHandler: deliveryHandler,
		ProofHandler:    proofHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
