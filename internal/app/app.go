// Package app wires the exporter together. New builds every shared
// structure exactly once; Run starts the sampler, then serves HTTP until the
// context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/VrityaCodeRishi/order-exporter/internal/api"
	"github.com/VrityaCodeRishi/order-exporter/internal/api/handler"
	"github.com/VrityaCodeRishi/order-exporter/internal/api/metrics"
	"github.com/VrityaCodeRishi/order-exporter/internal/core/service"
	"github.com/VrityaCodeRishi/order-exporter/internal/infrastructure/memory"
	"github.com/VrityaCodeRishi/order-exporter/internal/pkg/config"
)

// App is the application context shared by the sampler and the HTTP layer.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	Metrics   *metrics.Registry
	Self      *metrics.SelfMetrics
	Snapshots *memory.SnapshotStore
	Sampler   *service.Sampler
	Echo      *echo.Echo

	samplerOnce sync.Once
	stopSampler context.CancelFunc
}

func New(cfg *config.Config, log zerolog.Logger) *App {
	registry := metrics.NewRegistry()
	self := metrics.NewSelfMetrics()
	snapshots := memory.NewSnapshotStore(time.Now())

	sampler := service.NewSampler(
		registry,
		snapshots,
		self,
		newRand(cfg.Sampler.Seed),
		log.With().Str("module", "sampler").Logger(),
	)

	e := api.NewRouter(api.Deps{
		Metrics:   registry,
		Snapshots: snapshots,
		Self:      self,
		Readiness: handler.NewReadinessHandler(snapshots, cfg.Sampler.StaleAfter),
	}, log.With().Str("module", "http").Logger())

	return &App{
		cfg:       cfg,
		log:       log,
		Metrics:   registry,
		Self:      self,
		Snapshots: snapshots,
		Sampler:   sampler,
		Echo:      e,
	}
}

// Run starts the sampler, binds the configured address and serves until ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.startSampler(ctx)

	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		a.haltSampler()
		return fmt.Errorf("app: listen %s: %w", a.cfg.Addr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an already bound listener. On cancellation the server
// drains within ShutdownTimeout and Serve waits for the sampler to stop.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	a.startSampler(ctx)
	defer a.haltSampler()

	a.Echo.Listener = ln
	a.Echo.Server.ReadHeaderTimeout = 5 * time.Second

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
		errCh <- a.Echo.Start(ln.Addr().String())
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("app: serve: %w", err)
		}
	case <-ctx.Done():
		a.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			serveErr = fmt.Errorf("app: shutdown: %w", err)
		}
	}

	return serveErr
}

// startSampler launches the sampler once, on a context App can cancel itself
// when serving fails.
func (a *App) startSampler(ctx context.Context) {
	a.samplerOnce.Do(func() {
		ctx, a.stopSampler = context.WithCancel(ctx)
		a.Sampler.Start(ctx)
	})
}

func (a *App) haltSampler() {
	a.stopSampler()
	<-a.Sampler.Done()
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
