// ABOUTME: Date normalization, display formatting, and elapsed-day arithmetic.
// ABOUTME: Bare YYYY-MM-DD inputs are read as local calendar dates, never UTC.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseable is returned when no supported layout matches the input.
var ErrUnparseable = errors.New("unparseable date")

// DateLayout is the canonical date-only form used for storage and display.
const DateLayout = "2006-01-02"

// Layouts that carry their own offset are parsed as-is.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// Layouts without an offset are read in local time.
var localLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Date-only layouts, also tried by Parse after the timestamp layouts.
var dayLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
}

// Parse converts an ISO-8601 timestamp or a bare date into an instant.
func Parse(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnparseable)
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, ok := parseDay(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, input)
}

func parseDay(s string) (time.Time, bool) {
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RecordTime resolves the instant for a new record. Empty input means now, a
// bare date is anchored with AnchorOnDay, and a full timestamp is kept as is.
func RecordTime(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return now, nil
	}
	if day, ok := parseDay(s); ok {
		return AnchorOnDay(day, now), nil
	}
	return Parse(s)
}

// EditTime resolves a new instant for an existing record. A bare date keeps
// the original clock time via MoveToDay; a full timestamp replaces it.
func EditTime(input string, original time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if day, ok := parseDay(s); ok {
		if original.IsZero() {
			return AnchorOnDay(day, time.Time{}), nil
		}
		return MoveToDay(day, original), nil
	}
	return Parse(s)
}

// ParseOrNow is the fail-open adapter around Parse: any input that cannot be
// parsed yields now instead of an error.
func ParseOrNow(input string, now time.Time) time.Time {
	t, err := Parse(input)
	if err != nil {
		return now
	}
	return t
}

// ParseDate parses a date-only value and returns local midnight of that day.
// Full timestamps are accepted and truncated.
func ParseDate(input string) (time.Time, error) {
	t, err := Parse(input)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(t), nil
}

// StartOfDay truncates t to local midnight. The zero time stays zero.
func StartOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	lt := t.Local()
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.Local)
}

// CalendarDaysBetween returns the signed number of local calendar days from a to b.
// Components are compared on a fixed-length UTC grid so DST shifts never produce
// fractional days.
func CalendarDaysBetween(a, b time.Time) int {
	la, lb := a.Local(), b.Local()
	da := time.Date(la.Year(), la.Month(), la.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(lb.Year(), lb.Month(), lb.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / (24 * time.Hour))
}

// DaysElapsedSince counts the start date as day 1. A start date equal to
// today yields 1 regardless of time of day; an unknown start yields 0.
func DaysElapsedSince(start, today time.Time) int {
	if start.IsZero() {
		return 0
	}
	return CalendarDaysBetween(start, today) + 1
}

// InclusiveDays returns the number of days from start to end, counting both.
// The boolean is false when either endpoint is unknown.
func InclusiveDays(start, end time.Time) (int, bool) {
	if start.IsZero() || end.IsZero() {
		return 0, false
	}
	return CalendarDaysBetween(start, end) + 1, true
}

// IsSameLocalDay reports whether t and ref fall on the same local calendar day.
func IsSameLocalDay(t, ref time.Time) bool {
	a, b := t.Local(), ref.Local()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// AnchorOnDay picks the instant stored for a record created on day: the
// current instant when day is today, otherwise noon of day. Noon keeps
// backdated entries on the intended date across timezone conversions.
func AnchorOnDay(day, now time.Time) time.Time {
	if IsSameLocalDay(day, now) {
		return now
	}
	d := day.Local()
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
}

// MoveToDay places original's clock time on day. Used when an edit changes
// the date of an existing record.
func MoveToDay(day, original time.Time) time.Time {
	d, o := day.Local(), original.Local()
	return time.Date(d.Year(), d.Month(), d.Day(), o.Hour(), o.Minute(), 0, 0, time.Local)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// FormatForDisplay renders month, day and clock time, e.g. "3月5日 08:04".
// Search matches against this string, so changing it changes search results.
func FormatForDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	lt := t.Local()
	return fmt.Sprintf("%d月%d日 %02d:%02d", int(lt.Month()), lt.Day(), lt.Hour(), lt.Minute())
}

// FormatDateOnly renders YYYY-MM-DD in local time.
func FormatDateOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateLayout)
}

// FormatTimeOnly renders HH:MM in local time.
func FormatTimeOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04")
}
