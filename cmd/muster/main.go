package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/muster/internal/adapters/http/api"
	"github.com/okian/muster/internal/adapters/http/site"
	"github.com/okian/muster/internal/adapters/http/swagger"
	"github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/adapters/roster"
	app "github.com/okian/muster/internal/app"
	"github.com/okian/muster/internal/config"
	"github.com/okian/muster/internal/domain/dashboard"
	"github.com/okian/muster/pkg/logger"
	"github.com/okian/muster/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Our own system metrics replace the default Go collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	provider, closeProvider, err := buildProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to build roster provider: %w", err)
	}
	defer func() {
		if err := closeProvider(); err != nil {
			log.Error(ctx, "failed to close roster source", logger.Error(err))
		}
	}()

	svc := app.New(
		app.WithLogger(log),
		app.WithProvider(provider),
		app.WithDashboards(dashboard.New(dashboard.WithOverdueMonths(cfg.MedicalOverdueMonths))),
		app.WithWorkerCount(cfg.JobWorkerCount),
		app.WithQueueSize(cfg.JobQueueSize),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, api.WithMaxLimit(cfg.MaxLeaderboardLimit)).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("roster_source", provider.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// buildProvider selects the roster source from cfg and wraps it in a TTL
// cache when one is configured. The returned func releases the source.
func buildProvider(cfg *config.Config) (roster.Provider, func() error, error) {
	var (
		provider roster.Provider
		closer   = func() error { return nil }
	)

	switch cfg.RosterSource {
	case config.SourceMock:
		provider = roster.NewMockProvider(roster.WithSize(cfg.MockRosterSize), roster.WithSeed(cfg.MockSeed))
	case config.SourceFile:
		fp, err := roster.NewFileProvider(cfg.RosterFile)
		if err != nil {
			return nil, nil, err
		}
		provider = fp
	case config.SourceSQLite:
		store, err := repository.NewSQLiteStore(cfg.RosterDB)
		if err != nil {
			return nil, nil, err
		}
		provider = roster.NewStoreProvider(store)
		closer = store.Close
	case config.SourceHTTP:
		provider = roster.NewHTTPProvider(cfg.RosterURL,
			roster.WithTimeout(cfg.RosterFetchTimeout()),
			roster.WithRetries(cfg.RosterFetchRetries))
	default:
		return nil, nil, fmt.Errorf("%w: unknown roster_source %q", config.ErrInvalidConfig, cfg.RosterSource)
	}

	if ttl := cfg.RosterCacheTTL(); ttl > 0 {
		provider = roster.NewCachedProvider(provider, ttl)
	}
	return provider, closer, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// updateServiceMetrics copies queue and roster figures from the service stats.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if size, ok := stats["rosterSize"].(int64); ok {
		metrics.UpdateRosterSize(int(size))
	}
}
