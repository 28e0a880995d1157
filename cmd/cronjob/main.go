package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"docs-approval-backend/internal/config"
	"docs-approval-backend/internal/jobs"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/repository/sqlstore"
	"docs-approval-backend/internal/scheduler"
	"docs-approval-backend/internal/service"
	"docs-approval-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('purge-transient-files', 'pending-registration-digest', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Docs Approval Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Invalid database driver: %v", err)
	}
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver, "host", cfg.Database.Host)
	db, err := sqlstore.Open(context.Background(), dialect, cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	store := sqlstore.NewStore(db, dialect)

	files, err := storage.NewLocalStore(storage.Config{DataDir: cfg.Storage.DataDir, TempDir: cfg.Storage.TempDir})
	if err != nil {
		logger.Error("Failed to initialize file storage", "error", err)
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	emailService := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, files, emailService, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(*runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to register cron jobs: %v", err)
	}

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
