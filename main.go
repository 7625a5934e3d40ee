package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoloan-agent/app"
	"autoloan-agent/config"
	httpLayer "autoloan-agent/http"
	"autoloan-agent/observability"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env)

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	application, err := app.New(startCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to start application", "err", err)
		os.Exit(1)
	}

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(cfg, logger, httpLayer.Dependencies{
		LoanService: application.Loans,
		Matcher:     application.Matcher,
		Catalog:     application.Lenders,
		Sessions:    application.Sessions,
		Hub:         application.Hub,
		RateLimiter: rateLimiter,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := application.Janitor.Run(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("session janitor stopped", "err", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", cfg.Addr(), "session_store", cfg.SessionStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("server failed", "err", err)
	case <-sigCtx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error during server shutdown", "err", err)
	}
	if err := application.Close(shutdownCtx); err != nil {
		logger.Warn("error closing quote sessions", "err", err)
	}

	logger.Info("server exited")
}
