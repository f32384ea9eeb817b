// Package telemetry provides observability for keyruled.
//
// # Components
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics collection and exposition
//
// # Usage
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.ObserveReload(elapsed, fileCount)
package telemetry
