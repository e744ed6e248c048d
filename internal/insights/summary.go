// ABOUTME: Dashboard summary: record counts, active courses, and today's entries.
// ABOUTME: Computed from a snapshot of records and courses as of a given day.
package insights

import (
	"time"

	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/models"
)

// ActiveCourse is an ongoing course with its current day number.
type ActiveCourse struct {
	Course *models.Course `json:"course"`
	Day    int            `json:"day"`
}

// Summary is the dashboard view-model.
type Summary struct {
	SymptomCount    int              `json:"symptomCount"`
	MedicationCount int              `json:"medicationCount"`
	ActiveCourses   []ActiveCourse   `json:"activeCourses"`
	Today           []*models.Record `json:"today"`
}

// Summarize builds the dashboard view-model as of today.
func Summarize(records []*models.Record, courses []*models.Course, today time.Time) Summary {
	s := Summary{
		ActiveCourses: make([]ActiveCourse, 0),
		Today:         make([]*models.Record, 0),
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		switch r.Type {
		case models.RecordSymptom:
			s.SymptomCount++
		case models.RecordMedication:
			s.MedicationCount++
		}
		if !r.Timestamp.IsZero() && dates.IsSameLocalDay(r.Timestamp, today) {
			s.Today = append(s.Today, r)
		}
	}
	s.Today = SortNewestFirst(s.Today)

	for _, c := range courses {
		if c != nil && c.IsActive() {
			s.ActiveCourses = append(s.ActiveCourses, ActiveCourse{
				Course: c,
				Day:    dates.DaysElapsedSince(c.StartDate, today),
			})
		}
	}
	return s
}
