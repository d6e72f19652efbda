package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"receipt-analyzer/internal/api"
	"receipt-analyzer/internal/api/handlers"
	"receipt-analyzer/internal/llm"
	"receipt-analyzer/internal/migrations"
	"receipt-analyzer/internal/ocr"
	"receipt-analyzer/internal/ocr/tesseract"
	"receipt-analyzer/internal/repository"
	"receipt-analyzer/internal/service"
	"receipt-analyzer/internal/storage"
	"receipt-analyzer/pkg/config"
	"receipt-analyzer/pkg/logger"
	"receipt-analyzer/pkg/postgres"
	"receipt-analyzer/pkg/redis"

	"go.uber.org/zap"
)

// @title Receipt Analyzer API
// @version 1.0
// @description Receipt image analysis: OCR, expense categorization and saving tips

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting receipt analyzer",
		zap.String("project_id", cfg.ProjectID),
		zap.String("document_store", cfg.DocumentStore.Driver),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	ctx := context.Background()

	// Document store
	expenses, closeStore, err := openDocumentStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer closeStore()

	// Object store
	blobs, err := storage.NewS3BlobStore(ctx, &cfg.ObjectStore, cfg.ProjectID, logger.Named("object_store"))
	if err != nil {
		appLogger.Fatal("Failed to initialize object store", zap.Error(err))
	}

	// OCR
	appLogger.Info("OCR engine ready",
		zap.String("tesseract", tesseract.Version()),
		zap.Strings("languages", cfg.OCR.Languages),
	)
	extractor := ocr.NewExtractor(tesseract.New(cfg.OCR.Languages), logger.Named("ocr"))

	// Chat completions
	completer, err := llm.New(ctx, &cfg.LLM, logger.Named("llm"))
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	defer completer.Close()

	// Services
	llmService := service.NewLLMService(completer, appLogger)
	analysisService := service.NewAnalysisService(blobs, extractor, llmService, expenses, cfg.OCR.TempDir, appLogger)

	// Handlers
	receiptHandler := handlers.NewReceiptHandler(analysisService, appLogger)

	// Setup router
	app := api.SetupRouter(&cfg.Server, receiptHandler, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

func openDocumentStore(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (service.ExpenseRepository, func(), error) {
	storeLogger := logger.Named("document_store")

	switch cfg.DocumentStore.Driver {
	case config.DocumentStoreRedis:
		client, err := redis.NewClient(ctx, &cfg.Redis, appLogger)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewRedisExpenseRepository(client, cfg.ProjectID, cfg.DocumentStore.Collection, storeLogger)
		return repo, func() { _ = client.Close() }, nil

	case config.DocumentStorePostgres, "":
		pool, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, migrations.FS, appLogger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		repo := repository.NewExpenseRepository(pool, cfg.DocumentStore.Collection, storeLogger)
		return repo, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown document store driver %q", cfg.DocumentStore.Driver)
	}
}
