package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// schema is the audit table definition, applied idempotently on open.
const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id           TEXT PRIMARY KEY,
	time         TEXT NOT NULL,
	generation   TEXT NOT NULL,
	ruleset      TEXT NOT NULL,
	rule_id      TEXT NOT NULL,
	action       TEXT NOT NULL,
	subject_uid  INTEGER NOT NULL,
	subject_name TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	decided      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(time);
CREATE INDEX IF NOT EXISTS idx_decisions_action ON decisions(action);
`

// SQLiteConfig contains configuration for the SQLite audit backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// SQLiteStorage persists audit records in a SQLite database.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the audit database at the
// configured path, enables WAL mode and applies the schema.
func NewSQLiteStorage(cfg SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Op: "open", Cause: err}
	}

	s := &SQLiteStorage{
		db:     db,
		logger: logger.With("component", "audit.sqlite"),
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, &StorageError{Backend: "sqlite", Op: "enable_wal", Cause: err}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, &StorageError{Backend: "sqlite", Op: "set_busy_timeout", Cause: err}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StorageError{Backend: "sqlite", Op: "create_schema", Cause: err}
	}

	s.logger.Info("audit storage opened", "path", cfg.Path)
	return s, nil
}

// Append stores one record.
func (s *SQLiteStorage) Append(ctx context.Context, record *Record) error {
	const insert = `
INSERT INTO decisions
	(id, time, generation, ruleset, rule_id, action, subject_uid, subject_name, outcome, decided)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	decided := 0
	if record.Decided {
		decided = 1
	}
	_, err := s.db.ExecContext(ctx, insert,
		record.ID,
		record.Time.UTC().Format(time.RFC3339Nano),
		record.Generation,
		record.Ruleset,
		record.RuleID,
		record.Action,
		record.SubjectUID,
		record.SubjectName,
		record.Outcome,
		decided,
	)
	if err != nil {
		return &StorageError{Backend: "sqlite", Op: "append", Cause: err}
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *SQLiteStorage) List(ctx context.Context, limit int) ([]*Record, error) {
	const query = `
SELECT id, time, generation, ruleset, rule_id, action, subject_uid, subject_name, outcome, decided
FROM decisions ORDER BY time DESC LIMIT ?`

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Op: "list", Cause: err}
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var ts string
		var decided int
		if err := rows.Scan(&rec.ID, &ts, &rec.Generation, &rec.Ruleset, &rec.RuleID,
			&rec.Action, &rec.SubjectUID, &rec.SubjectName, &rec.Outcome, &decided); err != nil {
			return nil, &StorageError{Backend: "sqlite", Op: "scan", Cause: err}
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Time = t
		}
		rec.Decided = decided != 0
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: "sqlite", Op: "list", Cause: err}
	}
	return records, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
