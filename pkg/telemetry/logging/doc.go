// Package logging builds the structured slog logger used across keyruled.
//
// Output is synchronous text or JSON on a configurable writer. Components
// derive their own loggers with slog.With, so every line carries at least
// a "component" attribute alongside the event fields.
package logging
