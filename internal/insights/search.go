// ABOUTME: Free-text record search across names, body parts, notes, dates, and course names.
// ABOUTME: Filtering never reorders; SortNewestFirst is the separate display ordering step.
package insights

import (
	"sort"
	"strings"

	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/models"
)

// Search returns the records matching query, in their original relative order.
// An empty or whitespace-only query returns records unchanged. Matching is a
// case-insensitive substring test against the medication name, body part,
// note, display date, and the name of the linked course.
func Search(records []*models.Record, courses []*models.Course, query string) []*models.Record {
	if strings.TrimSpace(query) == "" {
		return records
	}
	term := strings.ToLower(query)

	courseNames := make(map[string]string, len(courses))
	for _, c := range courses {
		if c == nil {
			continue
		}
		if _, seen := courseNames[c.ID]; !seen {
			courseNames[c.ID] = c.Name
		}
	}

	matched := make([]*models.Record, 0)
	for _, r := range records {
		if r != nil && matches(r, courseNames, term) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matches(r *models.Record, courseNames map[string]string, term string) bool {
	fields := []string{
		r.Name(),
		r.BodyPart(),
		r.Note(),
		dates.FormatForDisplay(r.Timestamp),
	}
	if r.CourseID != "" {
		if name, ok := courseNames[r.CourseID]; ok {
			fields = append(fields, name)
		}
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// SortNewestFirst returns a copy of records ordered by timestamp descending.
// Equal timestamps keep their input order. Unknown timestamps sort last.
func SortNewestFirst(records []*models.Record) []*models.Record {
	out := make([]*models.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// ForCourse returns the records linked to courseID, in input order.
func ForCourse(records []*models.Record, courseID string) []*models.Record {
	out := make([]*models.Record, 0)
	for _, r := range records {
		if r != nil && r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out
}
