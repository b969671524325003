// Command kyc runs the mock identity provider used in development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flexrent/flexrent/internal/kyc"
	"github.com/flexrent/flexrent/internal/kyc/config"
	"github.com/flexrent/flexrent/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.EndpointAddr,
		Handler:           kyc.NewServer(kyc.NewMockProvider(logger), logger, cfg.AllowedOrigin).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	logger.Info(ctx, "Mock KYC provider listening", "addr", cfg.EndpointAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "kyc server error", "error", err)
		os.Exit(1)
	}
}
