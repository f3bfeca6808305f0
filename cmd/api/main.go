package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dkcal-backend/application/services"
	"dkcal-backend/infrastructure/config"
	"dkcal-backend/infrastructure/persistence/jsonfile"
	"dkcal-backend/interfaces/http/rest"
	"dkcal-backend/pkg/auth"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Wire storage and services
	store := jsonfile.NewStore(cfg.DataDir, logger)

	recalcService := services.NewRecalcService(store, logger)
	catalogService := services.NewCatalogService(store, recalcService, logger)
	ledgerService := services.NewLedgerService(store, store, logger)
	statsService := services.NewStatsService(store, logger)
	profileService := services.NewProfileService(store, logger)
	estimatorService := services.NewEstimatorService(services.EstimatorConfig{
		APIKey:     cfg.EstimatorAPIKey,
		BaseURL:    cfg.EstimatorBaseURL,
		Model:      cfg.EstimatorModel,
		ImageModel: cfg.EstimatorImageModel,
		MaxTokens:  cfg.EstimatorMaxTokens,
	}, logger)

	validator := auth.NewJWTValidator(cfg.JWTSecret, cfg.JWTIssuer)

	router := rest.NewRouter(
		cfg,
		catalogService,
		ledgerService,
		statsService,
		profileService,
		estimatorService,
		validator,
		logger,
	)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("data_dir", cfg.DataDir),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		zcfg := zap.NewProductionConfig()
		if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
			zcfg.Level = lvl
		}
		return zcfg.Build()
	}
	zcfg := zap.NewDevelopmentConfig()
	if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = lvl
	}
	return zcfg.Build()
}
