// ABOUTME: Data migration between health-log storage backends.
// ABOUTME: Copies every collection from a source BlobStore to a destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Records     int
	Courses     int
	BodyParts   int
	Medications int
	Report      LoadReport
}

// MigrateData copies all data from src to dst. The source is read with the
// same fail-open rules as a normal load, so corrupt collections arrive empty.
// The destination should be empty before calling this function.
func MigrateData(src, dst BlobStore) (*MigrateSummary, error) {
	doc, report, err := loadDocument(src)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	target, err := NewStore(dst)
	if err != nil {
		return nil, fmt.Errorf("open destination: %w", err)
	}
	imported, err := target.ImportDocument(&doc, false)
	if err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{
		Records:     imported.Records,
		Courses:     imported.Courses,
		BodyParts:   imported.BodyParts,
		Medications: imported.Medications,
		Report:      report,
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
