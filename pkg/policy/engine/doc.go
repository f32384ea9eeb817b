// Package engine evaluates authorization requests against the active rule
// chain.
//
// An evaluation walks the chain in aggregation order and returns the first
// outcome produced by a fully matching rule. A rule matches when every
// constraint it carries is individually satisfied; a rule with no
// constraints matches everything. Rules carrying ResultInverse always
// decide: they yield their inverse outcome when the match test fails
// instead of deferring to the next rule. When no rule decides, the engine
// reports no decision and the hosting daemon applies its own implicit
// default; the engine itself never grants anything.
//
// Evaluations are read-only over an immutable snapshot captured at entry,
// so any number of them may run concurrently with a reload.
package engine
