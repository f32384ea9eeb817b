// Package config defines the keyruled configuration model and its YAML
// loading pipeline.
//
// Configuration is loaded from a YAML file, filled in with defaults,
// optionally overridden by KEYRULED_* environment variables, and validated
// before use. A missing configuration file is not an error: the daemon is
// fully functional on defaults alone (system rules directories, "wheel"
// admin group, watching enabled).
package config
