package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. If path does not exist, the default configuration is returned.
func LoadConfig(path string) (*Config, error) {
	// Booleans that default to true must be seeded before unmarshalling,
	// otherwise an omitted key is indistinguishable from explicit false.
	cfg := Config{}
	cfg.Watch.Enabled = DefaultWatchEnabled

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Run on defaults.
	case err != nil:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow the
// naming convention KEYRULED_SECTION_FIELD (e.g. KEYRULED_RULES_ADMIN_GROUP)
// and always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("KEYRULED_RULES_DIRECTORIES"); val != "" {
		cfg.Rules.Directories = splitPathList(val)
	}
	if val := os.Getenv("KEYRULED_RULES_ADMIN_GROUP"); val != "" {
		cfg.Rules.AdminGroup = val
	}
	if val := os.Getenv("KEYRULED_RULES_SUFFIX"); val != "" {
		cfg.Rules.Suffix = val
	}

	if val := os.Getenv("KEYRULED_WATCH_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watch.Enabled = b
		}
	}
	if val := os.Getenv("KEYRULED_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}

	if val := os.Getenv("KEYRULED_RESCAN_SCHEDULE"); val != "" {
		cfg.Rescan.Schedule = val
	}

	if val := os.Getenv("KEYRULED_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("KEYRULED_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}

	if val := os.Getenv("KEYRULED_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("KEYRULED_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}

	if val := os.Getenv("KEYRULED_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("KEYRULED_AUDIT_PATH"); val != "" {
		cfg.Audit.Path = val
	}
}

// splitPathList splits a colon-separated directory list, dropping empty
// entries.
func splitPathList(val string) []string {
	parts := strings.Split(val, ":")
	dirs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		dirs = append(dirs, p)
	}
	return dirs
}
