// Package keyfile compiles declarative rule files into immutable in-memory
// rule records.
//
// A rule file is a keyfile-format text file (INI-style sections and
// Key=Value pairs) describing authorization policy. The file-level [Policy]
// section names the rule sections to compile, split into normal
// authorization rules and admin-identity rules:
//
//	[Policy]
//	Rules=SectionA;SectionB
//	AdminRules=AdminSection
//
//	[SectionA]
//	Actions=org.example.action1;org.example.action2
//	InUnixGroups=%wheel%;operators
//	Result=auth_admin_keep
//	SubjectActive=true
//
// Each named section becomes one Rule. All per-rule keys are independently
// optional; a rule with no constraints matches every request. Compilation
// is a pure function of the file contents: any failure (unreadable file,
// malformed keyfile, a listed section that does not exist, an unrecognized
// Result value) fails the whole file and discards all partially built
// records.
//
// Compiled rules are never mutated. Reloading replaces whole PolicyFile
// values rather than editing records in place, so concurrent readers can
// keep iterating an old compilation safely.
package keyfile
