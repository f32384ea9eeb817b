package keyfile

import "fmt"

// CompileError wraps any failure while compiling one rule file.
type CompileError struct {
	Path  string
	Cause error
}

// Error returns the error message.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling rules %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// MissingRuleError indicates a section listed in Rules= or AdminRules=
// does not exist in the file.
type MissingRuleError struct {
	Section string
}

// Error returns the error message.
func (e *MissingRuleError) Error() string {
	return fmt.Sprintf("missing rule: %q", e.Section)
}

// MissingKeyError indicates the [Policy] section or one of its required
// list keys is absent.
type MissingKeyError struct {
	Key string
}

// Error returns the error message.
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("[%s] section has no %q key", PolicySection, e.Key)
}

// InvalidResultError indicates an unrecognized Result or ResultInverse
// token in a rule section.
type InvalidResultError struct {
	Rule  string
	Key   string
	Value string
}

// Error returns the error message.
func (e *InvalidResultError) Error() string {
	return fmt.Sprintf("rule %q: invalid %s value %q", e.Rule, e.Key, e.Value)
}

// InverseWithoutResultError indicates a rule carrying ResultInverse
// without the Result it inverts. Such a rule would have no outcome to
// yield when it matches.
type InverseWithoutResultError struct {
	Rule string
}

// Error returns the error message.
func (e *InverseWithoutResultError) Error() string {
	return fmt.Sprintf("rule %q: ResultInverse requires Result", e.Rule)
}

// InvalidValueError indicates a key whose value could not be parsed as the
// expected type (e.g. a non-boolean SubjectActive).
type InvalidValueError struct {
	Rule  string
	Key   string
	Cause error
}

// Error returns the error message.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("rule %q: invalid %s value: %v", e.Rule, e.Key, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *InvalidValueError) Unwrap() error {
	return e.Cause
}
