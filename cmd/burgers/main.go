// Package main запускает HTTP-сервер клиента Stellar Burgers.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/stellar-burgers/internal/api"
	"github.com/mmeshcher/stellar-burgers/internal/config"
	"github.com/mmeshcher/stellar-burgers/internal/handler"
	"github.com/mmeshcher/stellar-burgers/internal/service"
	"github.com/mmeshcher/stellar-burgers/internal/storage"
	"github.com/mmeshcher/stellar-burgers/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	creds, closeStorage, err := storage.Open(ctx, cfg)
	if err != nil {
		sugar.Fatalw("storage initialization error", "storage", cfg.Storage, "error", err.Error())
	}
	defer closeStorage()

	client := api.NewClient(cfg.APIURL, creds,
		api.WithRetryMax(cfg.APIRetryMax),
		api.WithLogger(logger.Named("api")),
	)

	root := store.New(store.Deps{
		API:         client,
		Credentials: creds,
		Logger:      logger.Named("store"),
	})
	svc := service.NewService(root, logger.Named("service"))

	h := handler.NewHandler(svc, logger)
	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Начальная загрузка каталога и проверка сессии; ошибки остаются в состоянии
	g.Go(func() error {
		if err := svc.Bootstrap(ctx); err != nil {
			sugar.Warnw("bootstrap finished with error", "error", err.Error())
		}
		svc.StartFeedUpdates(ctx, cfg.FeedPollInterval)
		return nil
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting stellar burgers server", "addr", cfg.RunAddress, "api", cfg.APIURL, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
