package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stablehand/temperament/internal/adapters/http/api"
	"github.com/stablehand/temperament/internal/adapters/repository"
	app "github.com/stablehand/temperament/internal/app"
	"github.com/stablehand/temperament/internal/config"
	"github.com/stablehand/temperament/internal/domain/flagdef"
	"github.com/stablehand/temperament/pkg/logger"
	"github.com/stablehand/temperament/pkg/metrics"

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
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Flag definitions: file when configured, built-ins otherwise.
	registry := flagdef.Default()
	if cfg.FlagDefsPath != "" {
		registry, err = flagdef.LoadFile(cfg.FlagDefsPath)
		if err != nil {
			os.Stderr.WriteString("failed to load flag definitions: " + err.Error() + "\n")
			return
		}
		loggerInstance.Info(ctx, "loaded flag definitions",
			logger.String("path", cfg.FlagDefsPath),
			logger.Int("flags", registry.Len()),
		)
	}

	opts := []app.Option{
		app.WithLogger(loggerInstance),
		app.WithRegistry(registry),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithWindowDays(cfg.WindowDays),
		app.WithMaturityCutoffDays(cfg.MaturityCutoffDays),
	}

	// Persistent store when a DB path is configured.
	if cfg.DBPath != "" {
		store, serr := repository.NewSQLiteStore(cfg.DBPath)
		if serr != nil {
			os.Stderr.WriteString("failed to open store: " + serr.Error() + "\n")
			return
		}
		loggerInstance.Info(ctx, "using sqlite store", logger.String("path", cfg.DBPath))
		opts = append(opts, app.WithStore(store))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// Start the periodic evaluation sweep
	if cfg.EvalIntervalMinutes > 0 {
		go startEvaluationSweep(ctx, svc, time.Duration(cfg.EvalIntervalMinutes)*time.Minute, loggerInstance)
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startEvaluationSweep queues the whole population for evaluation on a
// fixed interval. Subjects still inflight from the previous tick are not
// queued again.
func startEvaluationSweep(ctx context.Context, svc *app.Service, interval time.Duration, log logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			queued, err := svc.EnqueueAll(ctx)
			if err != nil {
				log.Error(ctx, "evaluation sweep failed", logger.Error(err))
				continue
			}
			log.Debug(ctx, "evaluation sweep queued",
				logger.Int("queued", queued),
				logger.Duration("interval", interval),
			)
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates
// service metrics.
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

// updateServiceMetrics updates service-level metrics from stats.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queue_len"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if population, ok := stats["population"].(int); ok {
		metrics.UpdatePopulationSize(population)
	}
}
