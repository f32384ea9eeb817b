package source

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"osauth/keyruled/pkg/policy/keyfile"
	"osauth/keyruled/pkg/telemetry/metrics"
)

// Directories loads rule files from an ordered list of directories.
type Directories struct {
	dirs    []string
	suffix  string
	logger  *slog.Logger
	metrics *metrics.Collector
}

// Option configures a Directories source.
type Option func(*Directories)

// WithSuffix overrides the rule-file extension (default keyfile.FileSuffix).
func WithSuffix(suffix string) Option {
	return func(s *Directories) { s.suffix = suffix }
}

// WithMetrics attaches a metrics collector for compile-error counts.
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Directories) { s.metrics = collector }
}

// NewDirectories creates a source over the given directories. Earlier
// directories take precedence over later ones for identically named files.
func NewDirectories(dirs []string, logger *slog.Logger, opts ...Option) *Directories {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Directories{
		dirs:   dirs,
		suffix: keyfile.FileSuffix,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dirs returns the configured directories in precedence order.
func (s *Directories) Dirs() []string {
	return s.dirs
}

// Load enumerates, orders and compiles every rule file. Unreadable
// directories and files that fail to compile are logged and skipped. The
// returned files are in final evaluation order.
func (s *Directories) Load(ctx context.Context) []*keyfile.PolicyFile {
	paths := s.listRuleFiles()

	files := make([]*keyfile.PolicyFile, 0, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		file, err := keyfile.Compile(path)
		if err != nil {
			s.logger.Error("error compiling rules", "path", path, "error", err)
			if s.metrics != nil {
				s.metrics.IncCompileError()
			}
			continue
		}
		files = append(files, file)
	}

	s.logger.Info("finished loading and compiling rules", "files", len(files))
	return files
}

// listRuleFiles scans each directory non-recursively for files carrying the
// rule suffix and returns their paths in evaluation order.
func (s *Directories) listRuleFiles() []string {
	var paths []string
	for _, dir := range s.dirs {
		s.logger.Info("loading rules from directory", "dir", dir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Warn("error opening rules directory", "dir", dir, "error", err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			// Skip hidden files and editor swap files.
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "#") {
				continue
			}
			if !strings.HasSuffix(name, s.suffix) {
				continue
			}
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	sort.Slice(paths, func(i, j int) bool {
		return ruleFileLess(paths[i], paths[j])
	})
	return paths
}

// ruleFileLess orders rule files by basename, falling back to full-path
// comparison for identical basenames. Paths are unique, so the tie-break
// never reports equality; a file in /etc sorts before its /usr namesake.
func ruleFileLess(a, b string) bool {
	baseA := filepath.Base(a)
	baseB := filepath.Base(b)
	if baseA != baseB {
		return baseA < baseB
	}
	return a < b
}
