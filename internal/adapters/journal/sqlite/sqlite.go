// Package sqlite provides an event log stored in a single SQLite file. It
// suits single-node deployments; every engine writing to the file must run in
// the same process.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/journal"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventLog      = (*Log)(nil)
	_ ports.HealthChecker = (*Log)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          TEXT    NOT NULL PRIMARY KEY,
	stream      TEXT    NOT NULL,
	version     INTEGER NOT NULL,
	kind        TEXT    NOT NULL,
	payload     TEXT    NOT NULL,
	occurred_at INTEGER NOT NULL,
	UNIQUE (stream, version)
);`

// Log is an event log backed by SQLite.
type Log struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema. Use
// ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Log, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite journal: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	l := &Log{db: db}
	if err := l.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	if path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return "file:" + path + "?" + q.Encode()
}

func (l *Log) migrate(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating sqlite journal: %w", err)
	}
	return nil
}

// Append implements ports.EventLog.
func (l *Log) Append(ctx context.Context, stream string, expectedVersion int, events []event.Event) (int, error) {
	rows, err := journal.Rows(stream, expectedVersion, events)
	if err != nil {
		return 0, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, journal.Unavailable("appending to "+stream, err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM events WHERE stream = ?`, stream,
	).Scan(&current)
	if err != nil {
		return 0, journal.Unavailable("appending to "+stream, err)
	}
	if current != expectedVersion {
		return current, journal.Conflict(stream, current, expectedVersion)
	}

	for _, r := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, stream, version, kind, payload, occurred_at) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Stream, r.Version, r.Kind, r.Payload, r.OccurredAt,
		)
		if isUniqueViolation(err) {
			return current, journal.Conflict(stream, r.Version, expectedVersion)
		}
		if err != nil {
			return 0, journal.Unavailable("appending to "+stream, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, journal.Unavailable("committing to "+stream, err)
	}
	return expectedVersion + len(rows), nil
}

// Replay implements ports.EventLog.
func (l *Log) Replay(ctx context.Context, stream string) ([]event.Event, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, stream, version, kind, payload, occurred_at FROM events WHERE stream = ? ORDER BY version`,
		stream,
	)
	if err != nil {
		return nil, journal.Unavailable("replaying "+stream, err)
	}
	defer func() { _ = rows.Close() }()

	var events []event.Event
	for rows.Next() {
		var r journal.Row
		if err := rows.Scan(&r.ID, &r.Stream, &r.Version, &r.Kind, &r.Payload, &r.OccurredAt); err != nil {
			return nil, journal.Unavailable("replaying "+stream, err)
		}
		e, err := r.Event()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, journal.Unavailable("replaying "+stream, err)
	}
	return events, nil
}

// Name identifies the log in readiness reports.
func (l *Log) Name() string {
	return "journal"
}

// HealthCheck pings the database.
func (l *Log) HealthCheck(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

// Close releases the database handle.
func (l *Log) Close() error {
	return l.db.Close()
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
