// Package cli carries the helpers shared by the keyruled subcommands:
// typed command and configuration errors, the shutdown signal context for
// the daemon's run loop, and JSON rendering of command results.
package cli
