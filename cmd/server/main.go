package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "frigora/internal/adapters/web"
	"frigora/internal/app"
	"frigora/internal/config"
	"frigora/internal/core"
	"frigora/internal/db"
	"frigora/internal/logging"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set; every protected request will be rejected")
	}

	loc := cfg.Freshness.Location()
	store := core.NewInventoryService(pool, loc)
	classifier := core.NewClassifier(loc)
	svc := app.NewAppService(store, classifier, core.ReportOptions{DateLayout: cfg.Report.DateLayout}, logger)

	handler := webAdapter.NewHandler(ctx, svc, webAdapter.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		SessionTTL:     cfg.Auth.SessionTTL(),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Server.Port, "timezone", cfg.Freshness.Timezone)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
