package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"kioskrent-backend/internal/config"
	"kioskrent-backend/internal/jobs"
	"kioskrent-backend/internal/logger"
	"kioskrent-backend/internal/repository/postgres"
	"kioskrent-backend/internal/scheduler"
	"kioskrent-backend/internal/service"
	"kioskrent-backend/internal/verify"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-return-reminders', 'all')")
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
	logger.Info("Starting Kioskrent Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Services
	engine := verify.NewClient(
		cfg.Verification.BaseURL,
		cfg.Verification.APIKey,
		time.Duration(cfg.Verification.TimeoutSeconds)*time.Second,
	)
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

	jobServices := &jobs.Services{
		Rental:       rentalSvc,
		Verification: verificationSvc,
		Notifier:     notifier,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "send-return-reminders":
		jobRunner.SendReturnReminders()
	case "cancel-expired-rentals":
		jobRunner.CancelExpiredRentals()
	case "retry-pending-verifications":
		jobRunner.RetryPendingVerifications()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - send-return-reminders\n")
		fmt.Printf("  - cancel-expired-rentals\n")
		fmt.Printf("  - retry-pending-verifications\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
