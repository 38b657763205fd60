package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/loghaul/lokiship"
	"github.com/loghaul/lokiship/internal/config"
	"github.com/loghaul/lokiship/pkg/log"
)

const helpDescription = `
Ship newline-delimited JSON log records to a Loki-compatible endpoint.

Each input line is one record: {"ts":<ms>,"line":"...","labels":{...},
"tags":[...],"attachment":{...},"tenant":"..."}. Records are grouped into
label-addressed streams, batched under size and interval limits, and pushed
as JSON or msgpack.

Highlights:
  - Cheap size estimation drives batching; nothing is encoded until a flush.
  - Per-tenant partitioning with X-Scope-OrgID.
  - Configure via file, environment (LOKISHIP_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  tail -f app.ndjson | lokiship --url http://localhost:3100 --label app=api
  lokiship --config $HOME/.lokiship/config.toml --input logs.ndjson --once
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := lokiship.DefaultConfig()
	var cfgPath string

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:     "lokiship",
		Short:   "Ship NDJSON log records to a Loki-compatible endpoint",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = config.DefaultConfigPath()
			}

			// Precedence: flags > environment > file > defaults.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if config.FileExists(cfgFile) {
				fc, err := config.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := config.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			} else {
				cfgFile = ""
			}

			if err := config.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logCfg := cfg
			if len(logCfg.AuthKey) > 0 {
				logCfg.AuthKey = "*****"
			}
			logger.Info().Interface("config", logCfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := lokiship.RunWithLogger(ctx, cfg, cfgFile, log.NewZerologAdapterWithLogger(logger))
			if errors.Is(err, context.Canceled) {
				logger.Info().Msg("received signal, stopped")
				return nil
			}
			return err
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.lokiship/config.toml)")
	root.Flags().StringVar(&cfg.URL, "url", cfg.URL, "base URL of the ingestion service")
	root.Flags().StringVar(&cfg.TenantID, "tenant", cfg.TenantID, "tenant ID sent as X-Scope-OrgID")
	root.Flags().StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "bearer token for the push endpoint")
	root.Flags().StringVar(&cfg.Format, "format", cfg.Format, "wire format: json or msgpack")
	root.Flags().StringToStringVar(&cfg.Labels, "label", cfg.Labels, "static label key=value attached to every record (repeatable)")
	root.Flags().StringVar(&cfg.Input, "input", cfg.Input, "NDJSON input path, or - for stdin")

	root.Flags().IntVar(&cfg.MaxBatchBytes, "max-batch-bytes", cfg.MaxBatchBytes, "estimated encoded bytes per batch before flushing")
	root.Flags().IntVar(&cfg.MaxBatchRecords, "max-batch-records", cfg.MaxBatchRecords, "records per batch before flushing")
	root.Flags().DurationVar(&cfg.SendInterval, "send-interval", cfg.SendInterval, "soft flush interval")
	root.Flags().DurationVar(&cfg.HardInterval, "hard-interval", cfg.HardInterval, "hard flush interval")
	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "poll interval when the input is idle")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")

	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address for the prometheus /metrics endpoint (disabled when empty)")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "drain the input and exit")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("lokiship")
		os.Exit(1)
	}
}
