package keyfile

import (
	"strings"

	"gopkg.in/ini.v1"
)

// Per-rule keys recognized by the compiler.
const (
	keyActions         = "Actions"
	keyActionContains  = "ActionContains"
	keyInUnixGroups    = "InUnixGroups"
	keyInNetGroups     = "InNetGroups"
	keyInUserNames     = "InUserNames"
	keyResult          = "Result"
	keyResultInverse   = "ResultInverse"
	keySubjectActive   = "SubjectActive"
	keySubjectLocal    = "SubjectLocal"
	keyPolicyRules     = "Rules"
	keyPolicyAdminRule = "AdminRules"
)

// Compile parses the rule file at path and compiles it into a PolicyFile.
// It is a pure function of the file contents: the file is read once and no
// other side effects occur. Any failure returns a *CompileError and no
// PolicyFile; partially compiled rules are discarded.
func Compile(path string) (*PolicyFile, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, &CompileError{Path: path, Cause: err}
	}

	normal, err := compileRuleList(f, keyPolicyRules)
	if err != nil {
		return nil, &CompileError{Path: path, Cause: err}
	}

	admin, err := compileRuleList(f, keyPolicyAdminRule)
	if err != nil {
		return nil, &CompileError{Path: path, Cause: err}
	}

	return &PolicyFile{
		Path:   path,
		Normal: normal,
		Admin:  admin,
	}, nil
}

// compileRuleList reads the named list key from the [Policy] section and
// compiles each listed section, in list order.
func compileRuleList(f *ini.File, listKey string) ([]*Rule, error) {
	policy, err := f.GetSection(PolicySection)
	if err != nil {
		return nil, &MissingKeyError{Key: listKey}
	}
	if !policy.HasKey(listKey) {
		return nil, &MissingKeyError{Key: listKey}
	}

	names := listValues(policy, listKey)
	rules := make([]*Rule, 0, len(names))
	for _, name := range names {
		rule, err := compileRule(f, name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// compileRule compiles one named section into a Rule. Every recognized key
// is independently optional; each present key sets its constraint flag.
func compileRule(f *ini.File, id string) (*Rule, error) {
	sec, err := f.GetSection(id)
	if err != nil {
		return nil, &MissingRuleError{Section: id}
	}

	rule := &Rule{
		ID:              id,
		Response:        OutcomeUnhandled,
		ResponseInverse: OutcomeUnhandled,
	}

	if sec.HasKey(keyActions) {
		rule.Actions = listValues(sec, keyActions)
		rule.Constraints |= ConstraintActions
	}

	if sec.HasKey(keyActionContains) {
		rule.ActionContains = listValues(sec, keyActionContains)
		rule.Constraints |= ConstraintActionContains
	}

	if sec.HasKey(keyInUnixGroups) {
		rule.UnixGroups = listValues(sec, keyInUnixGroups)
		rule.Constraints |= ConstraintUnixGroups
	}

	if sec.HasKey(keyInNetGroups) {
		rule.NetGroups = listValues(sec, keyInNetGroups)
		rule.Constraints |= ConstraintNetGroups
	}

	if sec.HasKey(keyInUserNames) {
		rule.UnixNames = listValues(sec, keyInUserNames)
		rule.Constraints |= ConstraintUnixNames
	}

	if sec.HasKey(keyResult) {
		value := sec.Key(keyResult).String()
		rule.Response = ParseOutcome(value)
		if rule.Response == OutcomeUnhandled {
			return nil, &InvalidResultError{Rule: id, Key: keyResult, Value: value}
		}
		rule.Constraints |= ConstraintResult
	}

	if sec.HasKey(keyResultInverse) {
		value := sec.Key(keyResultInverse).String()
		rule.ResponseInverse = ParseOutcome(value)
		if rule.ResponseInverse == OutcomeUnhandled {
			return nil, &InvalidResultError{Rule: id, Key: keyResultInverse, Value: value}
		}
		// An inverse outcome with no Result would leave a matching rule
		// without a decision to yield.
		if !rule.Constraints.Has(ConstraintResult) {
			return nil, &InverseWithoutResultError{Rule: id}
		}
		rule.Constraints |= ConstraintResultInverse
	}

	if sec.HasKey(keySubjectActive) {
		active, err := sec.Key(keySubjectActive).Bool()
		if err != nil {
			return nil, &InvalidValueError{Rule: id, Key: keySubjectActive, Cause: err}
		}
		rule.RequireActive = active
		rule.Constraints |= ConstraintSubjectActive
	}

	if sec.HasKey(keySubjectLocal) {
		local, err := sec.Key(keySubjectLocal).Bool()
		if err != nil {
			return nil, &InvalidValueError{Rule: id, Key: keySubjectLocal, Cause: err}
		}
		rule.RequireLocal = local
		rule.Constraints |= ConstraintSubjectLocal
	}

	return rule, nil
}

// listValues reads a ;-separated list key, trimming whitespace and dropping
// empty entries (trailing separators are common in hand-edited files).
func listValues(sec *ini.Section, key string) []string {
	raw := sec.Key(key).Strings(ListSeparator)
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		values = append(values, v)
	}
	return values
}
