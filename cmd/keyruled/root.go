package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "keyruled",
	Short: "keyruled - authorization rules daemon",
	Long: `Keyruled evaluates authorization requests against declarative rule
files discovered in precedence-ordered directories.

It provides:
  - Keyfile rule compilation with per-file error isolation
  - First-match evaluation over normal and admin rule chains
  - Hot reload on rule-file changes with atomic snapshot swap
  - Optional Prometheus metrics and a decision audit log`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "/etc/keyruled/config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
