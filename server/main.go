package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/phambaophuc/image-task/internal/config"
	"github.com/phambaophuc/image-task/internal/http/handlers"
	"github.com/phambaophuc/image-task/internal/http/routes"
	"github.com/phambaophuc/image-task/internal/services/processor"
	"github.com/phambaophuc/image-task/internal/services/queue"
	"github.com/phambaophuc/image-task/internal/services/storage"
	"github.com/phambaophuc/image-task/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize services
	mirror, err := storage.NewMirror(ctx, cfg)
	if err != nil {
		logger.Warn("Result mirror disabled", zap.Error(err))
		mirror = nil
	}

	storageService, err := storage.NewStorageService(cfg, mirror, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}

	imageProcessor := processor.NewImageProcessor(storageService.ProcessedDir(), cfg.Image.ResizeWidth).
		WithMaxPixels(cfg.Image.MaxPixels)

	broker, err := queue.NewBroker(cfg.Queue.BrokerURL)
	if err != nil {
		logger.Fatal("Failed to initialize broker", zap.Error(err))
	}

	store, err := queue.NewStore(cfg.Queue.ResultBackend, cfg.Queue.ResultTTL)
	if err != nil {
		broker.Close()
		logger.Fatal("Failed to initialize result backend", zap.Error(err))
	}

	queueService := queue.NewQueueService(broker, store, imageProcessor, storageService, logger)
	defer queueService.Close()

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(queueService, storageService, logger, cfg, storageService, queueService)

	router := routes.NewRouter(imageHandler, storageService.ProcessedDir(), logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := queueService.StartWorkers(gctx, cfg.Queue.Workers); err != nil {
			return err
		}
		logger.Info("Workers started", zap.Int("count", cfg.Queue.Workers))
		<-gctx.Done()
		queueService.Wait()
		logger.Info("Workers stopped")
		return nil
	})

	group.Go(func() error {
		return storageService.StartCleanup(gctx, cfg.Storage.CleanupInterval, cfg.Storage.Retention)
	})

	group.Go(func() error {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	logger.Info("Server exited")
}
