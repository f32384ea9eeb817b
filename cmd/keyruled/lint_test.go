package main

import (
	"os"
	"path/filepath"
	"testing"
)

const validRules = `
[Policy]
Rules=AllowPrinters
AdminRules=

[AllowPrinters]
Actions=org.example.print
Result=yes
`

const brokenRules = `
[Policy]
Rules=Missing
AdminRules=
`

func writeRuleFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func resetLintFlags() {
	lintFlags.dirs = nil
	lintFlags.files = nil
	lintFlags.format = "text"
}

func TestLintRulesValidDir(t *testing.T) {
	resetLintFlags()
	dir := t.TempDir()
	writeRuleFile(t, dir, "10-ok.keyrules", validRules)
	lintFlags.dirs = []string{dir}

	if err := lintRules(nil, nil); err != nil {
		t.Errorf("lintRules() with valid dir returned error: %v", err)
	}
}

func TestLintRulesBrokenFile(t *testing.T) {
	resetLintFlags()
	dir := t.TempDir()
	writeRuleFile(t, dir, "10-ok.keyrules", validRules)
	writeRuleFile(t, dir, "20-broken.keyrules", brokenRules)
	lintFlags.dirs = []string{dir}

	if err := lintRules(nil, nil); err == nil {
		t.Error("lintRules() with broken file should return error")
	}
}

func TestLintRulesSingleFile(t *testing.T) {
	resetLintFlags()
	dir := t.TempDir()
	path := writeRuleFile(t, dir, "10-ok.keyrules", validRules)
	lintFlags.files = []string{path}

	if err := lintRules(nil, nil); err != nil {
		t.Errorf("lintRules() with valid file returned error: %v", err)
	}
}

func TestLintRulesNonexistentFile(t *testing.T) {
	resetLintFlags()
	lintFlags.files = []string{filepath.Join(t.TempDir(), "missing.keyrules")}

	if err := lintRules(nil, nil); err == nil {
		t.Error("lintRules() with nonexistent file should return error")
	}
}

func TestLintRulesEmptyDir(t *testing.T) {
	resetLintFlags()
	lintFlags.dirs = []string{t.TempDir()}

	if err := lintRules(nil, nil); err == nil {
		t.Error("lintRules() with no rule files should return error")
	}
}

func TestLintRulesJSONFormat(t *testing.T) {
	resetLintFlags()
	dir := t.TempDir()
	writeRuleFile(t, dir, "10-ok.keyrules", validRules)
	lintFlags.dirs = []string{dir}
	lintFlags.format = "json"

	if err := lintRules(nil, nil); err != nil {
		t.Errorf("lintRules() with JSON format returned error: %v", err)
	}
}
