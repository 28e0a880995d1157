package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "docs-approval-backend/internal/api/grpc"
	httpapi "docs-approval-backend/internal/api/http"
	"docs-approval-backend/internal/config"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/repository/sqlstore"
	"docs-approval-backend/internal/security"
	"docs-approval-backend/internal/service"
	"docs-approval-backend/internal/storage"
	"docs-approval-backend/internal/translator"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Docs Approval Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "driver", cfg.Database.Driver, "host", cfg.Database.Host, "database", cfg.Database.Database)
	if !cfg.TranslationConfigured() {
		logger.Warn("Translation API not configured; translation endpoints will report ConfigError")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Invalid database driver: %v", err)
	}
	db, err := sqlstore.Open(ctx, dialect, cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if err := sqlstore.Migrate(db, dialect); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Repositories
	store := sqlstore.NewStore(db, dialect)

	// Initialize Storage
	files, err := storage.NewLocalStore(storage.Config{DataDir: cfg.Storage.DataDir, TempDir: cfg.Storage.TempDir})
	if err != nil {
		logger.Error("Failed to initialize file storage", "error", err)
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// Initialize Services
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	vendor := translator.NewClient(translator.Config{
		AppKey:    cfg.Translation.AppKey,
		AppSecret: cfg.Translation.AppSecret,
		BaseURL:   cfg.Translation.BaseURL,
		Timeout:   time.Duration(cfg.Translation.TimeoutSeconds) * time.Second,
	})

	authSvc := service.NewAuthService(store.Users(), tokenManager)
	registrationSvc := service.NewRegistrationService(store, emailSvc, storage.GeneratePrivateKey, cfg.Registration.DefaultStorageQuota)
	translationSvc := service.NewTranslationService(store, files, vendor)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Registrations: registrationSvc,
		Translations:  translationSvc,
		Auth:          authSvc,
		Health:        store,
	}, httpapi.RouterConfig{
		Pagination:         httpapi.PaginationConfig{DefaultLimit: cfg.Pagination.DefaultLimit, MaxLimit: cfg.Pagination.MaxLimit},
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Set up gRPC health server
	var healthDone chan struct{}
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}

		healthSrv := grpcapi.NewHealthServer(store, 15*time.Second)
		grpcServer := healthSrv.NewServer()

		healthDone = make(chan struct{})
		go func() {
			defer close(healthDone)
			healthSrv.Run(ctx)
			grpcServer.GracefulStop()
		}()
		go func() {
			logger.Info("gRPC health server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down servers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if healthDone != nil {
		<-healthDone
	}
	logger.Info("Server stopped. Goodbye!")
}
