// Package metrics exposes Prometheus metrics for rule loading and
// evaluation.
//
// Metrics:
//   - keyruled_rule_reloads_total: completed reloads of the rule chain
//   - keyruled_rule_reload_duration_seconds: reload duration
//   - keyruled_rule_files_loaded: rule files in the active chain
//   - keyruled_rule_compile_errors_total: rule files skipped due to compile errors
//   - keyruled_evaluations_total: evaluations by ruleset and outcome
//   - keyruled_evaluation_duration_seconds: evaluation duration by ruleset
//   - keyruled_evaluation_no_decision_total: evaluations deciding nothing
//
// All metrics are registered on a collector-owned registry so tests can
// run collectors side by side without global registration conflicts.
package metrics
