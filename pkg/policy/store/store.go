package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"osauth/keyruled/pkg/policy/keyfile"
	"osauth/keyruled/pkg/telemetry/metrics"
)

// Source provides compiled rule files in evaluation order.
type Source interface {
	// Load enumerates, orders and compiles every rule file. It degrades
	// gracefully: unloadable files are skipped, never fatal.
	Load(ctx context.Context) []*keyfile.PolicyFile
}

// Snapshot is one immutable generation of the compiled rule chain.
type Snapshot struct {
	// Generation uniquely identifies this compilation for logging and
	// audit correlation.
	Generation string

	// LoadedAt is when the snapshot was installed.
	LoadedAt time.Time

	// Files are the compiled rule files in evaluation order.
	Files []*keyfile.PolicyFile
}

// RuleCount returns the total number of rules across all files.
func (s *Snapshot) RuleCount() int {
	n := 0
	for _, f := range s.Files {
		n += f.RuleCount()
	}
	return n
}

// Store holds the currently active snapshot and rebuilds it on demand.
type Store struct {
	source  Source
	logger  *slog.Logger
	metrics *metrics.Collector

	current atomic.Pointer[Snapshot]

	// reloadMu serializes reloads; readers never take it.
	reloadMu sync.Mutex

	subsMu sync.Mutex
	subs   []chan struct{}
}

// New creates a Store over the given source. The store starts with an
// empty snapshot; call Reload to perform the initial load. The metrics
// collector may be nil.
func New(source Source, logger *slog.Logger, collector *metrics.Collector) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		source:  source,
		logger:  logger.With("component", "policy.store"),
		metrics: collector,
	}
	s.current.Store(&Snapshot{
		Generation: uuid.NewString(),
		LoadedAt:   time.Now(),
	})
	return s
}

// Snapshot returns the currently installed snapshot. The returned value is
// immutable and remains valid across concurrent reloads.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload rebuilds the whole rule chain from the source and atomically
// installs it, then notifies subscribers. Concurrent reloads are
// serialized; concurrent readers are never blocked. A reload whose
// context is cancelled is abandoned without installing or notifying:
// the source may have stopped compiling mid-chain, and a partial chain
// must never replace a complete one.
func (s *Store) Reload(ctx context.Context) *Snapshot {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	files := s.source.Load(ctx)

	if err := ctx.Err(); err != nil {
		s.logger.Warn("reload abandoned, keeping current snapshot", "reason", err)
		return s.current.Load()
	}

	snap := &Snapshot{
		Generation: uuid.NewString(),
		LoadedAt:   time.Now(),
		Files:      files,
	}
	s.current.Store(snap)

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveReload(elapsed, len(files))
	}
	s.logger.Info("installed rule snapshot",
		"generation", snap.Generation,
		"files", len(files),
		"rules", snap.RuleCount(),
		"elapsed", elapsed,
	)

	s.notify()
	return snap
}

// Subscribe returns a channel that receives one signal per completed
// reload. The channel has a buffer of one; a subscriber that lags behind
// coalesces pending notifications rather than blocking reloads.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.subsMu.Lock()
	s.subs = append(s.subs, ch)
	s.subsMu.Unlock()
	return ch
}

// notify signals every subscriber without blocking.
func (s *Store) notify() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
