package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"osauth/keyruled/pkg/audit"
	"osauth/keyruled/pkg/cli"
	"osauth/keyruled/pkg/config"
	"osauth/keyruled/pkg/policy/engine"
	"osauth/keyruled/pkg/policy/source"
	"osauth/keyruled/pkg/policy/store"
	"osauth/keyruled/pkg/telemetry/logging"
)

var checkFlags struct {
	uid        uint32
	user       string
	groups     []string
	netgroups  []string
	active     bool
	local      bool
	admin      bool
	identities bool
	format     string
}

var checkCmd = &cobra.Command{
	Use:   "check ACTION",
	Short: "Evaluate one subject/action pair",
	Long: `Load the configured rule tree once and evaluate a single
authorization query against it.

The subject is described by flags; the action identifier is the single
positional argument. By default the normal rule chain is walked; --admin
walks the admin chain, and --identities prints the admin identities for
the query instead of an outcome.

Examples:
  # Would alice be allowed to print?
  keyruled check --user alice --groups users,lp org.example.print

  # Admin chain for a remote subject
  keyruled check --user bob --admin --local=false org.example.reboot

  # Who may authenticate as admin for this action?
  keyruled check --user alice --identities org.example.reboot`,
	Args: cobra.ExactArgs(1),
	RunE: checkAction,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Uint32Var(&checkFlags.uid, "uid", 0, "subject user ID")
	checkCmd.Flags().StringVarP(&checkFlags.user, "user", "u", "", "subject user name")
	checkCmd.Flags().StringSliceVarP(&checkFlags.groups, "groups", "g", nil, "subject unix groups")
	checkCmd.Flags().StringSliceVar(&checkFlags.netgroups, "netgroups", nil, "subject netgroups")
	checkCmd.Flags().BoolVar(&checkFlags.active, "active", true, "subject session is active")
	checkCmd.Flags().BoolVar(&checkFlags.local, "local", true, "subject session is local")
	checkCmd.Flags().BoolVar(&checkFlags.admin, "admin", false, "walk the admin rule chain")
	checkCmd.Flags().BoolVar(&checkFlags.identities, "identities", false, "print admin identities instead of an outcome")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
}

// CheckResult is the outcome of a one-shot evaluation.
type CheckResult struct {
	Action     string   `json:"action"`
	Ruleset    string   `json:"ruleset,omitempty"`
	Outcome    string   `json:"outcome,omitempty"`
	Decided    bool     `json:"decided"`
	Identities []string `json:"identities,omitempty"`
	Generation string   `json:"generation"`
}

func checkAction(cmd *cobra.Command, args []string) error {
	actionID := args[0]

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if !verbose {
		cfg.Telemetry.Logging.Level = "error"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	// Decisions made here land in the same audit log the configuration
	// names for the daemon.
	var recorder *audit.Recorder
	switch cfg.Audit.Backend {
	case "":
		// Auditing disabled.
	case "memory":
		recorder = audit.NewRecorder(audit.NewMemoryStorage(cfg.Audit.MaxRecords), logger)
	case "sqlite":
		storage, err := audit.NewSQLiteStorage(audit.SQLiteConfig{Path: cfg.Audit.Path}, logger)
		if err != nil {
			return cli.NewCommandError("check", err)
		}
		recorder = audit.NewRecorder(storage, logger)
	}

	src := source.NewDirectories(cfg.Rules.Directories, logger,
		source.WithSuffix(cfg.Rules.Suffix),
	)
	st := store.New(src, logger, nil)
	st.Reload(cmd.Context())

	var engineOpts []engine.Option
	if recorder != nil {
		defer recorder.Close()
		engineOpts = append(engineOpts, engine.WithRecorder(recorder))
	}
	eng := engine.New(st, cfg.Rules.AdminGroup, logger, engineOpts...)

	subject := &engine.Subject{
		UID:       checkFlags.uid,
		Name:      checkFlags.user,
		Groups:    checkFlags.groups,
		NetGroups: checkFlags.netgroups,
		Active:    checkFlags.active,
		Local:     checkFlags.local,
	}

	result := CheckResult{
		Action:     actionID,
		Generation: st.Snapshot().Generation,
	}

	switch {
	case checkFlags.identities:
		result.Identities = eng.AdminIdentities(cmd.Context(), subject, actionID)
	case checkFlags.admin:
		result.Ruleset = engine.RulesetAdmin
		outcome, decided := eng.EvaluateAdmin(cmd.Context(), subject, actionID)
		result.Decided = decided
		if decided {
			result.Outcome = outcome.String()
		}
	default:
		result.Ruleset = engine.RulesetNormal
		outcome, decided := eng.Evaluate(cmd.Context(), subject, actionID)
		result.Decided = decided
		if decided {
			result.Outcome = outcome.String()
		}
	}

	if checkFlags.format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, result)
	}

	switch {
	case checkFlags.identities:
		for _, id := range result.Identities {
			fmt.Println(id)
		}
	case result.Decided:
		fmt.Println(result.Outcome)
	default:
		fmt.Println("no decision")
	}
	return nil
}
