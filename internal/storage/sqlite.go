// ABOUTME: SQLite-backed BlobStore and the default data directory.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps each collection as one row of the kv table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ BlobStore = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database file at path, creating parent
// directories as needed. The file is restricted to the current user.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps per-connection pragmas in force and lets Update
	// hold the write lock on the connection it reads through.
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db, path: path}

	for _, step := range []struct {
		what string
		run  func() error
	}{
		{"configure pragmas", s.configurePragmas},
		{"initialize schema", s.initSchema},
		{"set database permissions", s.restrictPermissions},
	} {
		if err := step.run(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", step.what, err)
		}
	}
	return s, nil
}

// DataDir returns the default data directory under XDG_DATA_HOME.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "healthlog")
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get reads the raw value stored under key.
func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	return getKV(context.Background(), s.db, key)
}

// Set writes value under key, replacing any previous value.
func (s *SQLiteStore) Set(key string, value []byte) error {
	return setKV(context.Background(), s.db, key, value)
}

// Update runs fn inside BEGIN IMMEDIATE, so the write lock is taken before
// fn reads anything and no other connection can commit in between.
func (s *SQLiteStore) Update(fn func(tx BlobTx) error) error {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&sqliteTx{ctx: ctx, conn: conn}); err != nil {
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		return err
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type sqliteTx struct {
	ctx  context.Context
	conn *sql.Conn
}

func (t *sqliteTx) Get(key string) ([]byte, bool, error) {
	return getKV(t.ctx, t.conn, key)
}

func (t *sqliteTx) Set(key string, value []byte) error {
	return setKV(t.ctx, t.conn, key, value)
}

// kvRunner is satisfied by both *sql.DB and *sql.Conn.
type kvRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getKV(ctx context.Context, db kvRunner, key string) ([]byte, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func setKV(ctx context.Context, db kvRunner, key string, value []byte) error {
	const upsert = `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, upsert, key, string(value), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// configurePragmas sets WAL journaling and a busy timeout.
func (s *SQLiteStore) configurePragmas() error {
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *SQLiteStore) restrictPermissions() error {
	if err := os.Chmod(s.path, 0600); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
