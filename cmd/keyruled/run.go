package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"osauth/keyruled/pkg/cli"
	"osauth/keyruled/pkg/config"
	"osauth/keyruled/pkg/policy/source"
	"osauth/keyruled/pkg/policy/store"
	"osauth/keyruled/pkg/telemetry/logging"
	"osauth/keyruled/pkg/telemetry/metrics"
)

var runFlags struct {
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the keyruled daemon",
	Long: `Start the keyruled daemon with the specified configuration.

The daemon loads and compiles every rule file from the configured
directories, watches the directories for changes, and keeps the active
rule chain fresh with atomic snapshot swaps.

Examples:
  # Start with default config
  keyruled run

  # Start with custom config
  keyruled run --config /etc/keyruled/config.yaml

  # Validate config without starting the daemon
  keyruled run --dry-run`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the daemon")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	logger.Info("starting keyruled",
		"version", Version,
		"config", cfgFile,
		"directories", cfg.Rules.Directories,
	)

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	src := source.NewDirectories(cfg.Rules.Directories, logger,
		source.WithSuffix(cfg.Rules.Suffix),
		source.WithMetrics(collector),
	)
	st := store.New(src, logger, collector)

	ctx := cli.SetupSignalHandler()

	// Initial load
	snap := st.Reload(ctx)
	logger.Info("initial rule chain loaded",
		"generation", snap.Generation,
		"files", len(snap.Files),
		"rules", snap.RuleCount(),
	)

	// Watch rule directories for changes
	if cfg.Watch.Enabled {
		watcher, err := store.NewWatcher(st, store.WatcherConfig{
			Dirs:     cfg.Rules.Directories,
			Suffix:   cfg.Rules.Suffix,
			Debounce: cfg.Watch.Debounce,
		}, logger)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer watcher.Stop()

		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("rules watcher exited", "error", err)
			}
		}()
	}

	// Periodic full rescan, for filesystems where watches are unreliable
	if cfg.Rescan.Schedule != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.Rescan.Schedule, func() {
			logger.Info("scheduled rescan")
			st.Reload(ctx)
		}); err != nil {
			return cli.NewConfigError("rescan.schedule", err.Error())
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("rescan scheduler started", "schedule", cfg.Rescan.Schedule)
	}

	// Log each installed generation
	changes := st.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				s := st.Snapshot()
				logger.Info("rule chain updated",
					"generation", s.Generation,
					"files", len(s.Files),
					"rules", s.RuleCount(),
				)
			}
		}
	}()

	// Metrics endpoint (optional)
	var metricsSrv *http.Server
	if cfg.Telemetry.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.Telemetry.Metrics.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics endpoint listening",
				"address", cfg.Telemetry.Metrics.ListenAddress,
				"path", cfg.Telemetry.Metrics.Path,
			)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", "error", err)
		}
	}

	logger.Info("stopped")
	return nil
}
