package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "kioskrent-backend/internal/api/http"
	"kioskrent-backend/internal/config"
	"kioskrent-backend/internal/logger"
	"kioskrent-backend/internal/repository/postgres"
	"kioskrent-backend/internal/service"
	"kioskrent-backend/internal/verify"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Local development convenience; a missing .env is fine
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Kioskrent Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Verification engine configuration", "base_url", cfg.Verification.BaseURL, "max_attempts", cfg.Verification.MaxAttempts)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize verification engine client
	engine := verify.NewClient(
		cfg.Verification.BaseURL,
		cfg.Verification.APIKey,
		time.Duration(cfg.Verification.TimeoutSeconds)*time.Second,
	)

	// Initialize Services
	notifier := service.NewNotifier(store.NotificationRepository)
	verificationSvc := service.NewVerificationService(
		store.VerificationRepository,
		store.RentalRepository,
		store.LockerRepository,
		store.ItemRepository,
		engine,
		notifier,
		cfg.Verification.MaxAttempts,
	)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.LockerRepository,
		store.ItemRepository,
		store.UserRepository,
		store.TransactionRepository,
		store.VerificationRepository,
		verificationSvc,
		notifier,
	)
	paymentSvc := service.NewPaymentService(
		store.TransactionRepository,
		store.RentalRepository,
		notifier,
		cfg.Payment.CheckoutBaseURL,
	)
	lockerSvc := service.NewLockerService(store.LockerRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Set up HTTP server
	router := httpapi.NewRouter(rentalSvc, paymentSvc, lockerSvc, noteSvc)
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
