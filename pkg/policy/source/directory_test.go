package source

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

const minimalRules = `
[Policy]
Rules=R
AdminRules=

[R]
Result=yes
`

func TestRuleFileLess(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"basename order", "/usr/share/rules.d/10-a.keyrules", "/etc/rules.d/20-b.keyrules", true},
		{"basename order reversed", "/etc/rules.d/20-b.keyrules", "/usr/share/rules.d/10-a.keyrules", false},
		{"same basename etc wins", "/etc/rules.d/10-a.keyrules", "/usr/share/rules.d/10-a.keyrules", true},
		{"same basename usr loses", "/usr/share/rules.d/10-a.keyrules", "/etc/rules.d/10-a.keyrules", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ruleFileLess(tt.a, tt.b); got != tt.want {
				t.Errorf("ruleFileLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLoad_OrderAcrossDirectories(t *testing.T) {
	override := t.TempDir()
	vendor := t.TempDir()

	// Force the override directory to compare lexically before the vendor
	// directory the way /etc compares before /usr.
	etc := filepath.Join(override, "etc")
	usr := filepath.Join(vendor, "usr")
	for _, d := range []string{etc, usr} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	writeFile(t, etc, "20-common.keyrules", minimalRules)
	writeFile(t, usr, "20-common.keyrules", minimalRules)
	writeFile(t, usr, "10-base.keyrules", minimalRules)
	writeFile(t, etc, "30-extra.keyrules", minimalRules)
	writeFile(t, usr, "ignored.txt", "not a rule file")

	s := NewDirectories([]string{etc, usr}, discardLogger())
	files := s.Load(context.Background())

	if len(files) != 4 {
		t.Fatalf("loaded %d files, want 4", len(files))
	}

	wantOrder := []string{
		filepath.Join(usr, "10-base.keyrules"),
		filepath.Join(etc, "20-common.keyrules"),
		filepath.Join(usr, "20-common.keyrules"),
		filepath.Join(etc, "30-extra.keyrules"),
	}
	for i, want := range wantOrder {
		if files[i].Path != want {
			t.Errorf("files[%d].Path = %q, want %q", i, files[i].Path, want)
		}
	}
}

func TestLoad_SkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-good.keyrules", minimalRules)
	writeFile(t, dir, "20-bad.keyrules", `
[Policy]
Rules=Missing
AdminRules=
`)
	writeFile(t, dir, "30-good.keyrules", minimalRules)

	s := NewDirectories([]string{dir}, discardLogger())
	files := s.Load(context.Background())

	if len(files) != 2 {
		t.Fatalf("loaded %d files, want 2", len(files))
	}
	if filepath.Base(files[0].Path) != "10-good.keyrules" || filepath.Base(files[1].Path) != "30-good.keyrules" {
		t.Errorf("unexpected files: %q, %q", files[0].Path, files[1].Path)
	}
}

func TestLoad_SkipsUnreadableDirectory(t *testing.T) {
	good := t.TempDir()
	writeFile(t, good, "10-good.keyrules", minimalRules)
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	s := NewDirectories([]string{missing, good}, discardLogger())
	files := s.Load(context.Background())

	if len(files) != 1 {
		t.Fatalf("loaded %d files, want 1", len(files))
	}
}

func TestLoad_SkipsHiddenAndSwapFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-a.keyrules", minimalRules)
	writeFile(t, dir, ".10-a.keyrules", minimalRules)
	writeFile(t, dir, "#10-a.keyrules#", minimalRules)

	s := NewDirectories([]string{dir}, discardLogger())
	files := s.Load(context.Background())

	if len(files) != 1 || filepath.Base(files[0].Path) != "10-a.keyrules" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestLoad_EmptyTree(t *testing.T) {
	s := NewDirectories([]string{t.TempDir()}, discardLogger())
	if files := s.Load(context.Background()); len(files) != 0 {
		t.Errorf("loaded %d files from empty tree, want 0", len(files))
	}
}

func TestLoad_CustomSuffix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-a.rules", minimalRules)
	writeFile(t, dir, "10-a.keyrules", minimalRules)

	s := NewDirectories([]string{dir}, discardLogger(), WithSuffix(".rules"))
	files := s.Load(context.Background())

	if len(files) != 1 || filepath.Base(files[0].Path) != "10-a.rules" {
		t.Fatalf("unexpected files: %v", files)
	}
}
