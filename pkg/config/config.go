package config

import "time"

// Config is the root configuration structure for keyruled.
type Config struct {
	// Rules configures where rule files are found and how identity
	// placeholders resolve.
	Rules RulesConfig `yaml:"rules"`

	// Watch configures filesystem watching of the rules directories.
	Watch WatchConfig `yaml:"watch"`

	// Rescan configures the periodic full rescan safety net.
	Rescan RescanConfig `yaml:"rescan"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Audit configures the decision audit log.
	Audit AuditConfig `yaml:"audit"`
}

// RulesConfig configures rule discovery and compilation.
type RulesConfig struct {
	// Directories is the ordered list of rules directories. Earlier
	// directories take precedence over later ones for identically named
	// files. Default: the system override directory followed by the
	// vendor data directory.
	Directories []string `yaml:"directories"`

	// AdminGroup is the unix group substituted for the %wheel%
	// placeholder in membership lists. Default: "wheel".
	AdminGroup string `yaml:"admin_group"`

	// Suffix is the extension rule files must carry. Default: ".keyrules".
	Suffix string `yaml:"suffix"`
}

// WatchConfig configures the reload controller.
type WatchConfig struct {
	// Enabled controls whether the rules directories are watched for
	// changes. Default: true.
	Enabled bool `yaml:"enabled"`

	// Debounce is the quiet period applied to bursts of change events
	// before a reload fires. Zero disables coalescing, so every
	// qualifying event triggers a full reload. Default: 0.
	Debounce time.Duration `yaml:"debounce"`
}

// RescanConfig configures periodic full rescans, useful on filesystems
// where watches cannot be established.
type RescanConfig struct {
	// Schedule is a cron expression (standard five-field format).
	// Empty disables periodic rescans. Default: "".
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics HTTP listener.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "keyruled"
	Namespace string `yaml:"namespace"`
}

// AuditConfig configures the decision audit log.
type AuditConfig struct {
	// Backend selects the audit storage backend.
	// Options: "" (disabled), "memory", "sqlite"
	// Default: ""
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path (sqlite backend only).
	// Default: "/var/lib/keyruled/audit.db"
	Path string `yaml:"path"`

	// MaxRecords bounds the number of records retained by the memory
	// backend. Default: 1000.
	MaxRecords int `yaml:"max_records"`
}
