// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides setup functions for SQLite, Badger, and memory-backed stores.
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/healthlog/internal/models"
)

func setupTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	b, err := OpenBadger(filepath.Join(t.TempDir(), "badger"))
	if err != nil {
		t.Fatalf("failed to open test badger: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(NewMemoryBlobStore())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func mustSymptom(t *testing.T, part string, ts time.Time) *models.Record {
	t.Helper()
	r, err := models.NewSymptom(part, 5)
	if err != nil {
		t.Fatalf("NewSymptom failed: %v", err)
	}
	return r.WithTimestamp(ts)
}

func mustMedication(t *testing.T, name string, ts time.Time) *models.Record {
	t.Helper()
	r, err := models.NewMedication(name, models.MethodOral, "")
	if err != nil {
		t.Fatalf("NewMedication failed: %v", err)
	}
	return r.WithTimestamp(ts)
}

func mustCourse(t *testing.T, name string, start time.Time) *models.Course {
	t.Helper()
	c, err := models.NewCourse(name, start)
	if err != nil {
		t.Fatalf("NewCourse failed: %v", err)
	}
	return c
}
