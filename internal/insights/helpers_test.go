// ABOUTME: Shared fixtures for insights tests.
// ABOUTME: Builds symptom, medication, and course values at fixed local times.
package insights

import (
	"testing"
	"time"

	"github.com/harperreed/healthlog/internal/models"
)

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.Local)
}

func symptom(t *testing.T, part string, ts time.Time) *models.Record {
	t.Helper()
	r, err := models.NewSymptom(part, 3)
	if err != nil {
		t.Fatalf("NewSymptom failed: %v", err)
	}
	return r.WithTimestamp(ts)
}

func medication(t *testing.T, name string, ts time.Time) *models.Record {
	t.Helper()
	r, err := models.NewMedication(name, models.MethodOral, "")
	if err != nil {
		t.Fatalf("NewMedication failed: %v", err)
	}
	return r.WithTimestamp(ts)
}

func course(t *testing.T, name string, start time.Time) *models.Course {
	t.Helper()
	c, err := models.NewCourse(name, start)
	if err != nil {
		t.Fatalf("NewCourse failed: %v", err)
	}
	return c
}

func ids(records []*models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func sameIDs(a, b []*models.Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
