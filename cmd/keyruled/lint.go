package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"osauth/keyruled/pkg/cli"
	"osauth/keyruled/pkg/config"
	"osauth/keyruled/pkg/policy/keyfile"
)

var lintFlags struct {
	dirs   []string
	files  []string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule files",
	Long: `Compile rule files and report errors without starting the daemon.

Without flags, every rule file in the configured rules directories is
compiled. A file that fails to compile is reported with the failing
section and key; the daemon would skip such a file at load time.

Examples:
  # Lint the configured rules directories
  keyruled lint

  # Lint a specific directory
  keyruled lint --dir /etc/keyruled/rules.d

  # Lint single files
  keyruled lint --file 50-local.keyrules

  # JSON output for CI
  keyruled lint --format json`,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringSliceVarP(&lintFlags.dirs, "dir", "d", nil, "directory of rule files (repeatable)")
	lintCmd.Flags().StringSliceVarP(&lintFlags.files, "file", "f", nil, "rule file to validate (repeatable)")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the validation result for a single rule file.
type LintResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Rules int    `json:"rules,omitempty"`
	Error string `json:"error,omitempty"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	files := append([]string(nil), lintFlags.files...)

	dirs := lintFlags.dirs
	if len(dirs) == 0 && len(files) == 0 {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
		}
		dirs = cfg.Rules.Directories
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping directory %s: %v\n", dir, err)
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "#") {
				continue
			}
			if !strings.HasSuffix(name, keyfile.FileSuffix) {
				continue
			}
			files = append(files, filepath.Join(dir, name))
		}
	}

	if len(files) == 0 {
		return cli.NewCommandError("lint", errors.New("no rule files found"))
	}
	sort.Strings(files)

	results := make([]LintResult, 0, len(files))
	failures := 0
	for _, file := range files {
		result := LintResult{File: file, Valid: true}
		compiled, err := keyfile.Compile(file)
		if err != nil {
			result.Valid = false
			result.Error = err.Error()
			failures++
		} else {
			result.Rules = compiled.RuleCount()
		}
		results = append(results, result)
	}

	if lintFlags.format == cli.FormatJSON {
		if err := cli.WriteJSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if result.Valid {
				fmt.Printf("ok\t%s\t(%d rules)\n", result.File, result.Rules)
			} else {
				fmt.Printf("FAIL\t%s\t%s\n", result.File, result.Error)
			}
		}
		fmt.Printf("\n%d file(s), %d error(s)\n", len(results), failures)
	}

	if failures > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("%d file(s) failed to compile", failures))
	}
	return nil
}
