// ABOUTME: Tests for migrating data between storage backends.
// ABOUTME: Copies from SQLite into Badger and checks the directory helper.
package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrateData(t *testing.T) {
	srcDB := setupTestSQLite(t)
	src, err := NewStore(srcDB)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	seedStore(t, src)

	dst := setupTestBadger(t)
	summary, err := MigrateData(srcDB, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Records != 3 || summary.Courses != 1 || summary.BodyParts != 1 || summary.Medications != 1 {
		t.Errorf("summary = %+v", summary)
	}

	migrated, err := NewStore(dst)
	if err != nil {
		t.Fatalf("NewStore on destination failed: %v", err)
	}
	if len(migrated.Records()) != 3 || len(migrated.Courses()) != 1 {
		t.Error("destination missing migrated data")
	}
}

func TestMigrateEmptySource(t *testing.T) {
	summary, err := MigrateData(NewMemoryBlobStore(), NewMemoryBlobStore())
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Records != 0 || summary.Courses != 0 {
		t.Errorf("summary = %+v, want zero counts", summary)
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	if nonEmpty, err := IsDirNonEmpty(filepath.Join(dir, "missing")); err != nil || nonEmpty {
		t.Errorf("missing dir = %v, %v", nonEmpty, err)
	}
	if nonEmpty, err := IsDirNonEmpty(dir); err != nil || nonEmpty {
		t.Errorf("empty dir = %v, %v", nonEmpty, err)
	}
	_ = os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0600)
	if nonEmpty, err := IsDirNonEmpty(dir); err != nil || !nonEmpty {
		t.Errorf("non-empty dir = %v, %v", nonEmpty, err)
	}
}
