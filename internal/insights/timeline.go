// ABOUTME: Course timeline: buckets a course's records into "day N of illness" groups.
// ABOUTME: Also computes course duration with the inclusive first-day convention.
package insights

import (
	"sort"
	"time"

	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/models"
)

// TimelineBucket is the set of records falling on one ordinal day of a course.
type TimelineBucket struct {
	Day     int              `json:"day"`
	Records []*models.Record `json:"records"`
}

// BuildTimeline groups the records linked to course into day buckets anchored
// at the course start date (day 1). Buckets are ordered newest day first and
// records within a bucket newest first.
//
// The day offset is taken as an absolute value, so a record dated before the
// start date lands on a mirrored positive day rather than day 0. Records with
// an unknown timestamp are left out, as is everything when the start date is
// unknown.
func BuildTimeline(course *models.Course, records []*models.Record) []TimelineBucket {
	if course == nil || course.StartDate.IsZero() {
		return []TimelineBucket{}
	}
	anchor := dates.StartOfDay(course.StartDate)

	grouped := make(map[int][]*models.Record)
	for _, r := range ForCourse(records, course.ID) {
		if r.Timestamp.IsZero() {
			continue
		}
		offset := dates.CalendarDaysBetween(anchor, r.Timestamp)
		if offset < 0 {
			offset = -offset
		}
		day := offset + 1
		grouped[day] = append(grouped[day], r)
	}

	buckets := make([]TimelineBucket, 0, len(grouped))
	for day, recs := range grouped {
		buckets = append(buckets, TimelineBucket{Day: day, Records: SortNewestFirst(recs)})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Day > buckets[j].Day
	})
	return buckets
}

// CourseDuration returns the course length in days, counting the start day.
// Recovered courses span start to end date; active ones span start to today.
// The boolean is false when the duration cannot be computed, including a
// recovered course whose end date is unknown.
func CourseDuration(course *models.Course, today time.Time) (int, bool) {
	if course == nil || course.StartDate.IsZero() {
		return 0, false
	}
	if course.Status == models.StatusRecovered {
		if course.EndDate == nil {
			return 0, false
		}
		return dates.InclusiveDays(course.StartDate, *course.EndDate)
	}
	return dates.DaysElapsedSince(course.StartDate, today), true
}

// ProgressionPoints returns the course's progression-flagged symptoms, newest first.
func ProgressionPoints(course *models.Course, records []*models.Record) []*models.Record {
	if course == nil {
		return []*models.Record{}
	}
	out := make([]*models.Record, 0)
	for _, r := range ForCourse(records, course.ID) {
		if r.IsSymptom() && r.Symptom.IsProgression {
			out = append(out, r)
		}
	}
	return SortNewestFirst(out)
}
