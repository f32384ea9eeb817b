package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Record is one audited authorization decision.
type Record struct {
	// ID uniquely identifies the record.
	ID string

	// Time is when the decision was made.
	Time time.Time

	// Generation identifies the rule snapshot the decision was made
	// against.
	Generation string

	// Ruleset is "normal" or "admin".
	Ruleset string

	// RuleID names the deciding rule section; empty when undecided.
	RuleID string

	// Action is the evaluated action identifier.
	Action string

	// SubjectUID and SubjectName identify the evaluated subject.
	SubjectUID  uint32
	SubjectName string

	// Outcome is the decision token; empty when undecided.
	Outcome string

	// Decided reports whether any rule produced an outcome.
	Decided bool
}

// Storage persists audit records.
type Storage interface {
	// Append stores one record.
	Append(ctx context.Context, record *Record) error

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases backend resources.
	Close() error
}

// StorageError wraps a backend failure with its backend and operation.
type StorageError struct {
	Backend string
	Op      string
	Cause   error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Recorder assigns identities and timestamps to records and hands them to
// storage. Failures are logged, never returned: auditing must not break
// authorization.
type Recorder struct {
	storage Storage
	logger  *slog.Logger
}

// NewRecorder creates a recorder over the given storage.
func NewRecorder(storage Storage, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		storage: storage,
		logger:  logger.With("component", "audit.recorder"),
	}
}

// Record stores one decision. The record's ID and Time are filled in when
// unset.
func (r *Recorder) Record(ctx context.Context, record *Record) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Time.IsZero() {
		record.Time = time.Now().UTC()
	}
	if err := r.storage.Append(ctx, record); err != nil {
		r.logger.Error("error appending audit record", "error", err, "action", record.Action)
	}
}

// List returns up to limit records, newest first.
func (r *Recorder) List(ctx context.Context, limit int) ([]*Record, error) {
	return r.storage.List(ctx, limit)
}

// Close releases the underlying storage.
func (r *Recorder) Close() error {
	return r.storage.Close()
}
