// Package lokiship ships individually-labeled log records to a
// Loki-compatible ingestion endpoint.
//
// Example usage:
//
//	cfg := lokiship.DefaultConfig()
//	cfg.URL = "http://localhost:3100"
//	cfg.Labels = map[string]string{"app": "api"}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := lokiship.Run(context.Background(), cfg); err != nil {
//	    log.Fatal(err)
//	}
package lokiship

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loghaul/lokiship/internal/adapters/ndjson"
	"github.com/loghaul/lokiship/internal/app"
	"github.com/loghaul/lokiship/internal/config"
	"github.com/loghaul/lokiship/internal/encoding"
	"github.com/loghaul/lokiship/internal/metrics"
	"github.com/loghaul/lokiship/pkg/log"
	"github.com/loghaul/lokiship/pkg/sender"
)

// Config holds the configuration for the shipping sink.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = config.Config

// DefaultConfig returns a Config with sensible default values.
// At minimum, set URL before calling Run.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// Logger is the structured logging interface used across the sink.
type Logger = log.Logger

// Run starts the shipping sink with the given configuration and blocks
// until the context is canceled or, with cfg.Once set, the input drains.
// If configFile is non-empty, batch limits are hot-reloaded when that file
// changes; the wire format stays fixed.
func Run(ctx context.Context, cfg Config, configFile string) error {
	return RunWithLogger(ctx, cfg, configFile, log.NewZerologAdapter())
}

// RunWithLogger is Run with a caller-supplied logger.
func RunWithLogger(ctx context.Context, cfg Config, configFile string, logger log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := encoding.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	input, err := openInput(cfg.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}

	source := ndjson.New(input, logger,
		ndjson.WithTenant(cfg.TenantID),
		ndjson.WithStaticLabels(cfg.Labels),
	)
	defer source.Close()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	push := sender.NewHTTPSender(httpClient, logger)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer stop()
	}

	sink := app.NewSink(
		app.SinkConfig{
			PollInterval:    cfg.PollInterval,
			SendInterval:    cfg.SendInterval,
			HardInterval:    cfg.HardInterval,
			MaxBatchBytes:   cfg.MaxBatchBytes,
			MaxBatchRecords: cfg.MaxBatchRecords,
			Once:            cfg.Once,
			URL:             cfg.URL,
			AuthKey:         cfg.AuthKey,
			Hostname:        cfg.Hostname,
		},
		source,
		push,
		encoding.BatchEncoder{Format: format},
		logger,
		m,
	)

	if configFile != "" {
		watcher := config.NewWatcher(configFile, logger, func(fc config.FileConfig) {
			sink.UpdateLimits(limitsFrom(fc, cfg))
		})
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("config watcher unavailable", log.Err(err))
		} else {
			defer watcher.Stop()
		}
	}

	logger.Info("sink started",
		log.String("url", cfg.URL),
		log.String("format", format.String()),
		log.String("tenant", cfg.TenantID),
	)
	return sink.Run(ctx)
}

// limitsFrom extracts the hot-reloadable limits from a file config, keeping
// the current value where the file is silent or invalid.
func limitsFrom(fc config.FileConfig, cfg Config) app.Limits {
	l := app.Limits{
		MaxBatchBytes:   cfg.MaxBatchBytes,
		MaxBatchRecords: cfg.MaxBatchRecords,
		SendInterval:    cfg.SendInterval,
		HardInterval:    cfg.HardInterval,
	}
	if fc.MaxBatchBytes > 0 {
		l.MaxBatchBytes = fc.MaxBatchBytes
	}
	if fc.MaxBatchRecords > 0 {
		l.MaxBatchRecords = fc.MaxBatchRecords
	}
	if d, err := time.ParseDuration(fc.SendInterval); err == nil && d > 0 {
		l.SendInterval = d
	}
	if d, err := time.ParseDuration(fc.HardInterval); err == nil && d > 0 {
		l.HardInterval = d
	}
	return l
}

func openInput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

// serveMetrics exposes the prometheus handler until stop is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger log.Logger) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", log.Err(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
