package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if !reflect.DeepEqual(cfg.Rules.Directories, []string{DefaultSystemRulesDir, DefaultVendorRulesDir}) {
		t.Errorf("Directories = %v", cfg.Rules.Directories)
	}
	if cfg.Rules.AdminGroup != "wheel" {
		t.Errorf("AdminGroup = %q, want wheel", cfg.Rules.AdminGroup)
	}
	if cfg.Rules.Suffix != ".keyrules" {
		t.Errorf("Suffix = %q, want .keyrules", cfg.Rules.Suffix)
	}
	if !cfg.Watch.Enabled {
		t.Error("Watch.Enabled = false, want true")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Audit.Backend != "" {
		t.Errorf("Audit.Backend = %q, want disabled", cfg.Audit.Backend)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default configuration does not validate: %v", err)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, NewDefault()) {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
rules:
  directories:
    - /etc/custom/rules.d
  admin_group: admin
watch:
  enabled: false
  debounce: 250ms
rescan:
  schedule: "*/5 * * * *"
telemetry:
  logging:
    level: debug
    format: json
  metrics:
    enabled: true
audit:
  backend: memory
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !reflect.DeepEqual(cfg.Rules.Directories, []string{"/etc/custom/rules.d"}) {
		t.Errorf("Directories = %v", cfg.Rules.Directories)
	}
	if cfg.Rules.AdminGroup != "admin" {
		t.Errorf("AdminGroup = %q", cfg.Rules.AdminGroup)
	}
	if cfg.Rules.Suffix != DefaultRuleSuffix {
		t.Errorf("Suffix = %q, want default", cfg.Rules.Suffix)
	}
	if cfg.Watch.Enabled {
		t.Error("Watch.Enabled = true, want explicit false")
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
	if cfg.Rescan.Schedule != "*/5 * * * *" {
		t.Errorf("Schedule = %q", cfg.Rescan.Schedule)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Telemetry.Logging)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Telemetry.Metrics.ListenAddress != DefaultMetricsListenAddress {
		t.Errorf("ListenAddress = %q, want default", cfg.Telemetry.Metrics.ListenAddress)
	}
	if cfg.Audit.Backend != "memory" || cfg.Audit.MaxRecords != DefaultAuditMaxRecords {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("rules: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() succeeded on malformed YAML")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("KEYRULED_RULES_DIRECTORIES", "/a/rules.d:/b/rules.d")
	t.Setenv("KEYRULED_RULES_ADMIN_GROUP", "sudo")
	t.Setenv("KEYRULED_WATCH_ENABLED", "false")
	t.Setenv("KEYRULED_WATCH_DEBOUNCE", "1s")
	t.Setenv("KEYRULED_METRICS_ENABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if !reflect.DeepEqual(cfg.Rules.Directories, []string{"/a/rules.d", "/b/rules.d"}) {
		t.Errorf("Directories = %v", cfg.Rules.Directories)
	}
	if cfg.Rules.AdminGroup != "sudo" {
		t.Errorf("AdminGroup = %q", cfg.Rules.AdminGroup)
	}
	if cfg.Watch.Enabled {
		t.Error("Watch.Enabled = true, want env false")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want env true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{"defaults", func(cfg *Config) {}, false},
		{"no directories", func(cfg *Config) { cfg.Rules.Directories = nil }, true},
		{"empty directory entry", func(cfg *Config) { cfg.Rules.Directories = []string{" "} }, true},
		{"suffix without dot", func(cfg *Config) { cfg.Rules.Suffix = "keyrules" }, true},
		{"empty admin group", func(cfg *Config) { cfg.Rules.AdminGroup = "" }, true},
		{"negative debounce", func(cfg *Config) { cfg.Watch.Debounce = -time.Second }, true},
		{"bad cron", func(cfg *Config) { cfg.Rescan.Schedule = "not a schedule" }, true},
		{"good cron", func(cfg *Config) { cfg.Rescan.Schedule = "@hourly" }, false},
		{"bad log level", func(cfg *Config) { cfg.Telemetry.Logging.Level = "trace" }, true},
		{"bad log format", func(cfg *Config) { cfg.Telemetry.Logging.Format = "console" }, true},
		{"bad audit backend", func(cfg *Config) { cfg.Audit.Backend = "postgres" }, true},
		{"memory audit", func(cfg *Config) { cfg.Audit.Backend = "memory" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
