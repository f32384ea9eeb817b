package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid or inconsistent values.
func Validate(cfg *Config) error {
	if len(cfg.Rules.Directories) == 0 {
		return fmt.Errorf("rules.directories must not be empty")
	}
	for _, dir := range cfg.Rules.Directories {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("rules.directories contains an empty entry")
		}
	}

	if !strings.HasPrefix(cfg.Rules.Suffix, ".") {
		return fmt.Errorf("rules.suffix %q must start with a dot", cfg.Rules.Suffix)
	}

	if cfg.Rules.AdminGroup == "" {
		return fmt.Errorf("rules.admin_group must not be empty")
	}

	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}

	if cfg.Rescan.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Rescan.Schedule); err != nil {
			return fmt.Errorf("rescan.schedule %q is not a valid cron expression: %w", cfg.Rescan.Schedule, err)
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level %q is not one of debug, info, warn, error", cfg.Telemetry.Logging.Level)
	}

	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format %q is not one of json, text", cfg.Telemetry.Logging.Format)
	}

	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.ListenAddress == "" {
		return fmt.Errorf("telemetry.metrics.listen_address must be set when metrics are enabled")
	}

	switch cfg.Audit.Backend {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("audit.backend %q is not one of memory, sqlite", cfg.Audit.Backend)
	}
	if cfg.Audit.Backend == "sqlite" && cfg.Audit.Path == "" {
		return fmt.Errorf("audit.path must be set for the sqlite backend")
	}
	if cfg.Audit.MaxRecords < 0 {
		return fmt.Errorf("audit.max_records must not be negative")
	}

	return nil
}
