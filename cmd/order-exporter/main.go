// Command order-exporter serves a synthetic order-processing metrics feed:
// Prometheus exposition on /metrics, a JSON snapshot on /custom_metrics and
// a liveness probe on /health.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/VrityaCodeRishi/order-exporter/internal/app"
	"github.com/VrityaCodeRishi/order-exporter/internal/pkg/config"
	"github.com/VrityaCodeRishi/order-exporter/pkg/logger"
)

func main() {
	// A missing .env is normal outside local development.
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env file")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("addr", cfg.Addr()).
		Msg("starting order exporter")

	if err := app.New(cfg, log).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("order exporter stopped")
	}
	log.Info().Msg("order exporter stopped")
}
