// Package store persists companies, users, forms and submissions through
// sqlx, on SQLite (modernc) or PostgreSQL (lib/pq).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded JSON columns.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxOpenConns caps the pool. SQLite always uses a single connection.
func WithMaxOpenConns(n int) Option {
	return func(s *Store) { s.maxOpen = n }
}

// Store implements Repository. A Store created by WithTx runs every
// statement inside that transaction.
type Store struct {
	db      *sqlx.DB
	tx      *sqlx.Tx
	driver  string
	logger  *slog.Logger
	now     func() time.Time
	maxOpen int
}

var _ Repository = (*Store)(nil)

// Open connects to dsn, applies pragmas (SQLite) and brings the schema up to
// date.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	s := New(db, opts...)
	if driver == DriverSQLite {
		// One writer at a time avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	} else if s.maxOpen > 0 {
		db.SetMaxOpenConns(s.maxOpen)
		db.SetMaxIdleConns(max(1, s.maxOpen/2))
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection without touching the schema.
func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		driver: db.DriverName(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn against a Store bound to a new transaction, committing when
// fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	scoped := *s
	scoped.tx = tx
	if err := fn(&scoped); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", classify(err))
	}
	return nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

func (s *Store) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if s.tx != nil {
		return s.tx.GetContext(ctx, dest, s.rebind(query), args...)
	}
	return s.db.GetContext(ctx, dest, s.rebind(query), args...)
}

func (s *Store) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if s.tx != nil {
		return s.tx.SelectContext(ctx, dest, s.rebind(query), args...)
	}
	return s.db.SelectContext(ctx, dest, s.rebind(query), args...)
}

func (s *Store) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.tx != nil {
		return s.tx.ExecContext(ctx, s.rebind(query), args...)
	}
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

// execOne runs a statement that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.execContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
