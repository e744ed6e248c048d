// ABOUTME: Shared CLI helpers for time parsing, formatting, and record output.
// ABOUTME: Keeps column layout consistent across list, search, and course views.
package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/harperreed/healthlog/internal/storage"
)

var faint = color.New(color.Faint)

// recordTime resolves --date for a new record.
func recordTime(s string) (time.Time, error) {
	t, err := dates.RecordTime(s, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s", s)
	}
	return t, nil
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// courseNames maps course IDs to names for display.
func courseNames() map[string]string {
	names := make(map[string]string)
	for _, c := range store.Courses() {
		names[c.ID] = c.Name
	}
	return names
}

// printRecord prints one record line: ID  DATE  KIND  TITLE  DETAILS  [COURSE].
func printRecord(r *models.Record, courses map[string]string) {
	kind := color.RedString("symptom   ")
	if r.IsMedication() {
		kind = color.GreenString("medication")
	}
	course := ""
	if name, ok := courses[r.CourseID]; ok {
		course = color.CyanString(" [%s]", name)
	}
	when := dates.FormatForDisplay(r.Timestamp)
	if when == "" {
		when = "?"
	}
	fmt.Printf("%s %s %s %s %s%s\n",
		faint.Sprint(shortID(r.ID)),
		faint.Sprint(padRight(when, 12)),
		kind,
		padRight(r.Title(), 10),
		faint.Sprint(truncate(storage.RecordDetails(r), 40)),
		course)
}

// findCourseFlag resolves a --course value, or returns "" when it is empty.
func findCourseFlag(ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	c, err := store.FindCourse(ref)
	if err != nil {
		return "", fmt.Errorf("course %q: %w", ref, err)
	}
	return c.ID, nil
}
