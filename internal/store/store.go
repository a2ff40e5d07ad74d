package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"demoload/internal/config"
)

// Store persists imported dataset records in SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Option adjusts a Store while it is opened.
type Option func(*Store)

// WithClock sets the time source used to stamp imports.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// connPragmas are applied by the driver to every pooled connection.
var connPragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}

// Open initializes or connects to the record store at cfg.Paths.StorePath.
func Open(cfg *config.Config, opts ...Option) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := strings.TrimSpace(cfg.Paths.StorePath)
	if dbPath == "" {
		return nil, errors.New("store path is not configured")
	}
	if strings.ContainsRune(dbPath, '?') {
		return nil, fmt.Errorf("store path %q must not contain '?'", dbPath)
	}
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	s := &Store{db: db, path: dbPath, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ensureContext(ctx))
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

const (
	sqliteBusyCode = 5
	txAttempts     = 5
	txFirstBackoff = 10 * time.Millisecond
	txMaxBackoff   = 200 * time.Millisecond
)

func isBusy(err error) bool {
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		// Extended codes keep the primary code in the low byte.
		return coder.Code()&0xff == sqliteBusyCode
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

// inTx runs fn in a transaction and commits it. A transaction that fails
// because another process holds the write lock is retried from scratch with
// backoff; every other error rolls back and is returned as is.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	delay := txFirstBackoff
	for attempt := 1; ; attempt++ {
		err := s.runTx(ctx, fn)
		if err == nil || !isBusy(err) || attempt == txAttempts {
			return err
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, txMaxBackoff)
	}
}

func (s *Store) runTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
