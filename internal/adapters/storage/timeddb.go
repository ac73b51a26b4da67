package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"courtside/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB to log slow queries and feed the perf collector.
// Satisfies the SQLDB interface so it can be passed to any store constructor.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation. The slow-query
// threshold comes from COURTSIDE_SLOW_QUERY_MS when set.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and records to collector
func NewTimedDB(db *sql.DB, collector *perf.Collector) *TimedDB {
	threshold := float64(DefaultSlowQueryMs)
	if v := os.Getenv("COURTSIDE_SLOW_QUERY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			threshold = float64(n)
		}
	}
	return &TimedDB{db: db, collector: collector, threshold: threshold}
}

// RawDB returns the underlying *sql.DB (needed for migrations and pool config).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// record logs one statement and feeds the collector. The label carries the
// SQL verb and target table so the perf endpoint aggregates by statement, not
// by wrapper method.
func (t *TimedDB) record(query string, start time.Time) {
	millis := float64(time.Since(start).Microseconds()) / 1000.0
	op := opLabel(query)

	if millis >= t.threshold {
		slog.Warn("slow_sql", "op", op, "duration_ms", millis)
	} else {
		slog.Debug("sql", "op", op, "duration_ms", millis)
	}

	if t.collector != nil {
		t.collector.Add(perf.Sample{Route: op, Query: true, Millis: millis, At: start})
	}
}

// opLabel condenses a SQL statement to "verb table", e.g. "select report".
// Statements it cannot parse keep just the lowercased verb.
func opLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "sql"
	}
	verb := strings.ToLower(fields[0])
	table := ""
	switch verb {
	case "select", "delete":
		for i, f := range fields[:len(fields)-1] {
			if strings.EqualFold(f, "FROM") {
				table = fields[i+1]
				break
			}
		}
	case "insert", "replace":
		for i, f := range fields[:len(fields)-1] {
			if strings.EqualFold(f, "INTO") {
				table = fields[i+1]
				break
			}
		}
	case "update":
		if len(fields) > 1 {
			table = fields[1]
		}
	case "begin":
		return "begin"
	}
	if table == "" {
		return verb
	}
	return verb + " " + strings.ToLower(strings.Trim(table, "(;"))
}

// ExecContext wraps sql.DB.ExecContext with timing.
// POST: statement executed, timing recorded even on error
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.record(query, start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
// POST: statement executed, timing recorded even on error
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.record(query, start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
// POST: statement executed, timing recorded even on error
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.record(query, start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.record("BEGIN", start)
	return tx, err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// Ping verifies the database connection.
func (t *TimedDB) Ping() error {
	return t.db.Ping()
}

// SetMaxOpenConns sets the maximum number of open connections.
func (t *TimedDB) SetMaxOpenConns(n int) {
	t.db.SetMaxOpenConns(n)
}

// SetMaxIdleConns sets the maximum number of idle connections.
func (t *TimedDB) SetMaxIdleConns(n int) {
	t.db.SetMaxIdleConns(n)
}
