// ABOUTME: Calendar and frequency statistics over all records.
// ABOUTME: Builds a month grid of symptom/medication flags and a top-N body-part ranking.
package insights

import (
	"sort"
	"time"

	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/models"
)

// DefaultTopLimit is the default size of the body-part ranking.
const DefaultTopLimit = 5

// DayStatus flags which record kinds occurred on a day.
type DayStatus struct {
	HasSymptom bool `json:"hasSymptom"`
	HasMed     bool `json:"hasMed"`
}

// MonthGrid is a 7-column calendar view of one month.
type MonthGrid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// LeadingBlanks is the weekday of the 1st (Sunday = 0), used only for alignment.
	LeadingBlanks int               `json:"leadingBlanks"`
	Days          []int             `json:"days"`
	DayStatus     map[int]DayStatus `json:"dayStatus"`
}

// BuildMonthGrid marks every day of the month that has records. Days without
// records are absent from DayStatus. Records with unknown timestamps are skipped.
func BuildMonthGrid(records []*models.Record, year int, month time.Month) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	n := dates.DaysInMonth(year, month)

	grid := MonthGrid{
		Year:          first.Year(),
		Month:         first.Month(),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]int, n),
		DayStatus:     make(map[int]DayStatus),
	}
	for i := range grid.Days {
		grid.Days[i] = i + 1
	}

	for _, r := range records {
		if r == nil || r.Timestamp.IsZero() {
			continue
		}
		lt := r.Timestamp.Local()
		if lt.Year() != grid.Year || lt.Month() != grid.Month {
			continue
		}
		st := grid.DayStatus[lt.Day()]
		switch r.Type {
		case models.RecordSymptom:
			st.HasSymptom = true
		case models.RecordMedication:
			st.HasMed = true
		}
		grid.DayStatus[lt.Day()] = st
	}
	return grid
}

// FrequencyEntry is one row of the body-part ranking.
type FrequencyEntry struct {
	BodyPart string `json:"bodyPart"`
	Count    int    `json:"count"`
	Rank     int    `json:"rank"`
}

// TopBodyParts counts symptom records per body part (exact match) and returns
// the limit most frequent, ties in first-seen order. limit <= 0 means
// DefaultTopLimit.
func TopBodyParts(records []*models.Record, limit int) []FrequencyEntry {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range records {
		if r == nil || !r.IsSymptom() {
			continue
		}
		part := r.Symptom.BodyPart
		if _, seen := counts[part]; !seen {
			order = append(order, part)
		}
		counts[part]++
	}

	entries := make([]FrequencyEntry, 0, len(order))
	for _, part := range order {
		entries = append(entries, FrequencyEntry{BodyPart: part, Count: counts[part]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// BarWidth returns count relative to topCount as a percentage capped at 100.
func BarWidth(count, topCount int) float64 {
	if topCount <= 0 || count <= 0 {
		return 0
	}
	w := float64(count) / float64(topCount) * 100
	if w > 100 {
		return 100
	}
	return w
}
