package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"osauth/keyruled/pkg/audit"
	"osauth/keyruled/pkg/policy/keyfile"
	"osauth/keyruled/pkg/policy/store"
	"osauth/keyruled/pkg/telemetry/metrics"
)

// BackendName identifies this rule backend to hosting daemons and
// diagnostics output.
const BackendName = "keyfile"

// Ruleset selects which rule chain an evaluation walks.
const (
	RulesetNormal = "normal"
	RulesetAdmin  = "admin"
)

// rootIdentity is the admin-identity fallback when no admin rule decides.
const rootIdentity = "unix-user:0"

// Engine evaluates subjects and actions against the store's active
// snapshot.
type Engine struct {
	store      *store.Store
	adminGroup string
	logger     *slog.Logger
	metrics    *metrics.Collector
	recorder   *audit.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches a metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = collector }
}

// WithRecorder attaches a decision audit recorder.
func WithRecorder(recorder *audit.Recorder) Option {
	return func(e *Engine) { e.recorder = recorder }
}

// New creates an evaluation engine. adminGroup is substituted for the
// %wheel% placeholder in membership lists; empty selects the built-in
// default.
func New(st *store.Store, adminGroup string, logger *slog.Logger, opts ...Option) *Engine {
	if adminGroup == "" {
		adminGroup = keyfile.DefaultAdminGroup
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		store:      st,
		adminGroup: adminGroup,
		logger:     logger.With("component", "policy.engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate walks the normal rule chain for the subject and action and
// returns the first outcome a rule decides. The second return value is
// false when no rule decided, in which case the caller falls back to the
// implicit default for the action.
func (e *Engine) Evaluate(ctx context.Context, subject *Subject, actionID string) (keyfile.Outcome, bool) {
	return e.evaluate(ctx, RulesetNormal, subject, actionID)
}

// EvaluateAdmin walks the admin-identity rule chain. It follows the same
// contract as Evaluate.
func (e *Engine) EvaluateAdmin(ctx context.Context, subject *Subject, actionID string) (keyfile.Outcome, bool) {
	return e.evaluate(ctx, RulesetAdmin, subject, actionID)
}

func (e *Engine) evaluate(ctx context.Context, ruleset string, subject *Subject, actionID string) (keyfile.Outcome, bool) {
	start := time.Now()
	snap := e.store.Snapshot()

	for _, file := range snap.Files {
		for _, rule := range rulesFor(file, ruleset) {
			outcome, decided := e.applyRule(rule, subject, actionID)
			if !decided {
				continue
			}

			elapsed := time.Since(start)
			if e.metrics != nil {
				e.metrics.ObserveEvaluation(ruleset, outcome.String(), elapsed)
			}
			e.record(ctx, snap.Generation, ruleset, rule.ID, subject, actionID, outcome, true)
			e.logger.Debug("rule decided",
				"ruleset", ruleset,
				"rule", rule.ID,
				"file", file.Path,
				"action", actionID,
				"outcome", outcome.String(),
			)
			return outcome, true
		}
	}

	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.ObserveNoDecision(ruleset, elapsed)
	}
	e.record(ctx, snap.Generation, ruleset, "", subject, actionID, keyfile.OutcomeUnhandled, false)
	return keyfile.OutcomeUnhandled, false
}

// applyRule produces this rule's contribution: the response on a full
// match, the inverse response on a failed match when one is present, or
// nothing.
func (e *Engine) applyRule(rule *keyfile.Rule, subject *Subject, actionID string) (keyfile.Outcome, bool) {
	matched := e.matches(rule, subject, actionID)
	if matched && rule.Constraints.Has(keyfile.ConstraintResult) {
		return rule.Response, true
	}
	if !matched && rule.Constraints.Has(keyfile.ConstraintResultInverse) {
		return rule.ResponseInverse, true
	}
	return keyfile.OutcomeUnhandled, false
}

// matches reports whether every constraint the rule carries is satisfied
// by the subject/action pair.
func (e *Engine) matches(rule *keyfile.Rule, subject *Subject, actionID string) bool {
	hasActions := rule.Constraints.Has(keyfile.ConstraintActions)
	hasContains := rule.Constraints.Has(keyfile.ConstraintActionContains)

	// When both action constraints are present they are alternative
	// matching strategies: satisfying either is sufficient.
	if hasActions || hasContains {
		matched := false
		if hasActions {
			for _, a := range rule.Actions {
				if a == keyfile.MatchAll || a == actionID {
					matched = true
					break
				}
			}
		}
		if !matched && hasContains {
			for _, fragment := range rule.ActionContains {
				if strings.Contains(actionID, fragment) {
					matched = true
					break
				}
			}
		}
		if !matched {
			return false
		}
	}

	if rule.Constraints.Has(keyfile.ConstraintUnixGroups) && !e.intersects(rule.UnixGroups, subject.Groups) {
		return false
	}
	if rule.Constraints.Has(keyfile.ConstraintUnixNames) && !e.containsIdentity(rule.UnixNames, subject.Name) {
		return false
	}
	if rule.Constraints.Has(keyfile.ConstraintNetGroups) && !e.intersects(rule.NetGroups, subject.NetGroups) {
		return false
	}
	if rule.Constraints.Has(keyfile.ConstraintSubjectActive) && rule.RequireActive != subject.Active {
		return false
	}
	if rule.Constraints.Has(keyfile.ConstraintSubjectLocal) && rule.RequireLocal != subject.Local {
		return false
	}
	return true
}

// AdminIdentities returns the identities allowed to authenticate as an
// administrator for the action, taken from the first matching admin rule.
// Group entries become "unix-group:NAME", usernames "unix-user:NAME" and
// netgroups "unix-netgroup:NAME", with the %wheel% placeholder resolved.
// When no admin rule matches, root is the only admin identity.
func (e *Engine) AdminIdentities(ctx context.Context, subject *Subject, actionID string) []string {
	snap := e.store.Snapshot()

	for _, file := range snap.Files {
		for _, rule := range file.Admin {
			if !e.matches(rule, subject, actionID) {
				continue
			}
			var identities []string
			for _, g := range rule.UnixGroups {
				identities = append(identities, "unix-group:"+e.resolve(g))
			}
			for _, n := range rule.UnixNames {
				identities = append(identities, "unix-user:"+e.resolve(n))
			}
			for _, g := range rule.NetGroups {
				identities = append(identities, "unix-netgroup:"+e.resolve(g))
			}
			if len(identities) > 0 {
				return identities
			}
		}
	}
	return []string{rootIdentity}
}

// intersects reports whether any entry of want, after placeholder
// resolution, appears in have.
func (e *Engine) intersects(want, have []string) bool {
	for _, w := range want {
		w = e.resolve(w)
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

// containsIdentity reports whether name appears in the list after
// placeholder resolution. The placeholder resolves identically in every
// membership list.
func (e *Engine) containsIdentity(list []string, name string) bool {
	for _, entry := range list {
		if e.resolve(entry) == name {
			return true
		}
	}
	return false
}

// resolve substitutes the configured administrative group for the
// placeholder token.
func (e *Engine) resolve(entry string) string {
	if entry == keyfile.AdminGroupPlaceholder {
		return e.adminGroup
	}
	return entry
}

// record writes one decision to the audit log, when a recorder is
// attached.
func (e *Engine) record(ctx context.Context, generation, ruleset, ruleID string, subject *Subject, actionID string, outcome keyfile.Outcome, decided bool) {
	if e.recorder == nil {
		return
	}
	rec := &audit.Record{
		Generation:  generation,
		Ruleset:     ruleset,
		RuleID:      ruleID,
		Action:      actionID,
		SubjectUID:  subject.UID,
		SubjectName: subject.Name,
		Decided:     decided,
	}
	if decided {
		rec.Outcome = outcome.String()
	}
	e.recorder.Record(ctx, rec)
}

// rulesFor selects the requested chain of one compiled file.
func rulesFor(file *keyfile.PolicyFile, ruleset string) []*keyfile.Rule {
	if ruleset == RulesetAdmin {
		return file.Admin
	}
	return file.Normal
}
