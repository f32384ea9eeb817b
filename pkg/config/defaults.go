package config

// Default values for configuration fields.
const (
	// Rules defaults
	DefaultSystemRulesDir = "/etc/keyruled/rules.d"
	DefaultVendorRulesDir = "/usr/share/keyruled/rules.d"
	DefaultAdminGroup     = "wheel"
	DefaultRuleSuffix     = ".keyrules"

	// Watch defaults
	DefaultWatchEnabled = true

	// Metrics defaults
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "keyruled"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// Audit defaults
	DefaultAuditPath       = "/var/lib/keyruled/audit.db"
	DefaultAuditMaxRecords = 1000
)

// ApplyDefaults fills in default values for unset configuration fields.
func ApplyDefaults(cfg *Config) {
	if len(cfg.Rules.Directories) == 0 {
		cfg.Rules.Directories = []string{DefaultSystemRulesDir, DefaultVendorRulesDir}
	}
	if cfg.Rules.AdminGroup == "" {
		cfg.Rules.AdminGroup = DefaultAdminGroup
	}
	if cfg.Rules.Suffix == "" {
		cfg.Rules.Suffix = DefaultRuleSuffix
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath
	}
	if cfg.Audit.MaxRecords == 0 {
		cfg.Audit.MaxRecords = DefaultAuditMaxRecords
	}
}

// NewDefault returns a configuration populated entirely from defaults.
// Watching is enabled; metrics and audit are disabled.
func NewDefault() *Config {
	cfg := &Config{}
	cfg.Watch.Enabled = DefaultWatchEnabled
	ApplyDefaults(cfg)
	return cfg
}
