package keyfile

import "strings"

const (
	// PolicySection is the file-level section naming the rule sections to
	// compile via its Rules= and AdminRules= keys.
	PolicySection = "Policy"

	// MatchAll in an Actions= list matches every action identifier.
	MatchAll = "*"

	// AdminGroupPlaceholder in a membership list stands for the configured
	// administrative group and is resolved before comparison.
	AdminGroupPlaceholder = "%wheel%"

	// DefaultAdminGroup is the administrative group used when no other
	// group is configured.
	DefaultAdminGroup = "wheel"

	// FileSuffix is the extension a file must carry to be considered a
	// rule file.
	FileSuffix = ".keyrules"

	// ListSeparator separates entries in list-valued keys.
	ListSeparator = ";"
)

// Outcome is an authorization decision produced by a matching rule.
type Outcome int

const (
	// OutcomeUnhandled flags an unrecognized Result/ResultInverse token
	// during compilation. It is never a legitimate evaluation result.
	OutcomeUnhandled Outcome = iota
	OutcomeNo
	OutcomeYes
	OutcomeAuthSelf
	OutcomeAuthSelfKeep
	OutcomeAuthAdmin
	OutcomeAuthAdminKeep
)

// String returns the keyfile token for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNo:
		return "no"
	case OutcomeYes:
		return "yes"
	case OutcomeAuthSelf:
		return "auth_self"
	case OutcomeAuthSelfKeep:
		return "auth_self_keep"
	case OutcomeAuthAdmin:
		return "auth_admin"
	case OutcomeAuthAdminKeep:
		return "auth_admin_keep"
	default:
		return "unhandled"
	}
}

// ParseOutcome maps a Result/ResultInverse token to its Outcome. The
// comparison is case-insensitive and ignores surrounding whitespace.
// Unrecognized tokens map to OutcomeUnhandled.
func ParseOutcome(s string) Outcome {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no":
		return OutcomeNo
	case "yes":
		return OutcomeYes
	case "auth_self":
		return OutcomeAuthSelf
	case "auth_self_keep":
		return OutcomeAuthSelfKeep
	case "auth_admin":
		return OutcomeAuthAdmin
	case "auth_admin_keep":
		return OutcomeAuthAdminKeep
	default:
		return OutcomeUnhandled
	}
}

// Constraint is a bitset recording which optional keys were present in a
// rule section. Only flagged fields participate in matching.
type Constraint uint16

const (
	ConstraintActions Constraint = 1 << iota
	ConstraintActionContains
	ConstraintUnixGroups
	ConstraintNetGroups
	ConstraintUnixNames
	ConstraintResult
	ConstraintResultInverse
	ConstraintSubjectActive
	ConstraintSubjectLocal
)

// Has reports whether all bits of flag are set.
func (c Constraint) Has(flag Constraint) bool {
	return c&flag == flag
}

// Rule is one compiled rule section. Rules are immutable after compilation;
// the owning PolicyFile is replaced wholesale on reload, never mutated.
type Rule struct {
	// ID is the section name. Unique within a file, but the same name may
	// recur across files; both compilations are kept as distinct records.
	ID string

	// Constraints records which optional keys were present.
	Constraints Constraint

	// Actions are exact action identifiers to match, or MatchAll.
	Actions []string

	// ActionContains are substrings; an action matches if it contains any.
	ActionContains []string

	// UnixGroups, UnixNames and NetGroups are identity membership lists.
	// AdminGroupPlaceholder entries are resolved at evaluation time.
	UnixGroups []string
	UnixNames  []string
	NetGroups  []string

	// RequireActive and RequireLocal constrain the subject's session flags.
	// Meaningful only when the corresponding constraint bit is set.
	RequireActive bool
	RequireLocal  bool

	// Response is returned when every present constraint is satisfied.
	Response Outcome

	// ResponseInverse, when present, is returned on a failed match instead
	// of deferring to the next rule.
	ResponseInverse Outcome
}

// PolicyFile is the compiled form of one rule file: two independent rule
// sequences in declaration order.
type PolicyFile struct {
	// Path is the file the rules were compiled from.
	Path string

	// Normal holds the authorization rules named by Rules=.
	Normal []*Rule

	// Admin holds the admin-identity rules named by AdminRules=.
	Admin []*Rule
}

// RuleCount returns the total number of compiled rules in the file.
func (f *PolicyFile) RuleCount() int {
	return len(f.Normal) + len(f.Admin)
}
