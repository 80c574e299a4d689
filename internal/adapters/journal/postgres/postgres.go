// Package postgres provides an event log stored in PostgreSQL. Several engine
// processes may share one database; the (stream, version) unique key turns
// concurrent writers into version conflicts.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/journal"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventLog      = (*Log)(nil)
	_ ports.HealthChecker = (*Log)(nil)
)

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Log persists event streams in a PostgreSQL table.
type Log struct {
	db    *sql.DB
	table string
}

// Option configures a Log.
type Option func(*Log)

// WithTable overrides the events table name.
func WithTable(name string) Option {
	return func(l *Log) {
		if name != "" {
			l.table = name
		}
	}
}

// New wraps an open database handle. Call Migrate before the first append
// unless the table already exists.
func New(db *sql.DB, opts ...Option) *Log {
	l := &Log{db: db, table: "events"}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Open connects to dsn, checks the connection, and applies the schema.
func Open(ctx context.Context, dsn string, maxOpenConns int, opts ...Option) (*Log, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres journal: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, journal.Unavailable("connecting to postgres journal", err)
	}

	l := New(db, opts...)
	if err := l.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// Migrate creates the events table if it does not exist.
func (l *Log) Migrate(ctx context.Context) error {
	table := pq.QuoteIdentifier(l.table)
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID    PRIMARY KEY,
			stream      TEXT    NOT NULL,
			version     INTEGER NOT NULL,
			kind        TEXT    NOT NULL,
			payload     JSONB   NOT NULL,
			occurred_at BIGINT  NOT NULL,
			UNIQUE (stream, version)
		)`, table)
	if _, err := l.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrating postgres journal: %w", err)
	}
	return nil
}

// Append implements ports.EventLog. The whole batch is written with one
// INSERT over unnested arrays.
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

	table := pq.QuoteIdentifier(l.table)

	var current int
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(MAX(version), 0) FROM %s WHERE stream = $1`, table), stream,
	).Scan(&current)
	if err != nil {
		return 0, journal.Unavailable("appending to "+stream, err)
	}
	if current != expectedVersion {
		return current, journal.Conflict(stream, current, expectedVersion)
	}
	if len(rows) == 0 {
		return current, nil
	}

	ids := make([]string, len(rows))
	streams := make([]string, len(rows))
	versions := make([]int64, len(rows))
	kinds := make([]string, len(rows))
	payloads := make([]string, len(rows))
	occurred := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
		streams[i] = r.Stream
		versions[i] = int64(r.Version)
		kinds[i] = r.Kind
		payloads[i] = r.Payload
		occurred[i] = r.OccurredAt
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, stream, version, kind, payload, occurred_at)
		SELECT * FROM unnest($1::uuid[], $2::text[], $3::integer[], $4::text[], $5::jsonb[], $6::bigint[])
	`, table)
	_, err = tx.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(streams), pq.Array(versions),
		pq.Array(kinds), pq.Array(payloads), pq.Array(occurred),
	)
	if isUniqueViolation(err) {
		return current, journal.Conflict(stream, current+1, expectedVersion)
	}
	if err != nil {
		return 0, journal.Unavailable("appending to "+stream, err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return current, journal.Conflict(stream, current+1, expectedVersion)
		}
		return 0, journal.Unavailable("committing to "+stream, err)
	}
	return expectedVersion + len(rows), nil
}

// Replay implements ports.EventLog.
func (l *Log) Replay(ctx context.Context, stream string) ([]event.Event, error) {
	query := fmt.Sprintf(`
		SELECT id, stream, version, kind, payload, occurred_at
		FROM %s WHERE stream = $1 ORDER BY version
	`, pq.QuoteIdentifier(l.table))

	rows, err := l.db.QueryContext(ctx, query, stream)
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
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == uniqueViolation
}
