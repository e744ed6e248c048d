// ABOUTME: Tests for the Course model.
// ABOUTME: Validates creation, status transitions, and JSON decoding.
package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewCourse(t *testing.T) {
	start := time.Date(2025, 2, 10, 15, 20, 0, 0, time.Local)
	c, err := NewCourse("甲流", start)
	if err != nil {
		t.Fatalf("NewCourse failed: %v", err)
	}
	if c.Status != StatusActive || !c.IsActive() {
		t.Errorf("Status = %s, want active", c.Status)
	}
	if c.EndDate != nil {
		t.Error("new course must not have an end date")
	}
	if c.StartDate.Hour() != 0 || c.StartDate.Day() != 10 {
		t.Errorf("StartDate = %v, want local midnight of Feb 10", c.StartDate)
	}
}

func TestNewCourseRequiresName(t *testing.T) {
	if _, err := NewCourse("  ", time.Now()); err == nil {
		t.Error("expected validation error for blank name")
	}
	if _, err := NewCourse("感冒", time.Time{}); err == nil {
		t.Error("expected validation error for zero start date")
	}
}

func TestCourseSetStatus(t *testing.T) {
	c, _ := NewCourse("感冒", time.Now())
	now := time.Date(2025, 2, 14, 9, 0, 0, 0, time.Local)

	if err := c.SetStatus(StatusRecovered, now); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if c.EndDate == nil || !c.EndDate.Equal(now) {
		t.Errorf("EndDate = %v, want %v", c.EndDate, now)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("recovered course should validate: %v", err)
	}

	if err := c.SetStatus(StatusActive, now); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if c.EndDate != nil {
		t.Error("reverting to active should clear EndDate")
	}

	if err := c.SetStatus(CourseStatus("zombie"), now); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestCourseJSONRoundTrip(t *testing.T) {
	c, _ := NewCourse("肠胃炎", time.Date(2025, 1, 3, 0, 0, 0, 0, time.Local))
	c.WithSymptoms("腹泻").WithDoctorVisit(time.Date(2025, 1, 4, 0, 0, 0, 0, time.Local), "消化科", "急性肠胃炎", "蒙脱石散")
	_ = c.SetStatus(StatusRecovered, time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC))

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got Course
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if got.ID != c.ID || got.Name != c.Name || got.Status != StatusRecovered {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.StartDate.Equal(c.StartDate) || !got.VisitDate.Equal(c.VisitDate) {
		t.Errorf("dates mismatch: start %v visit %v", got.StartDate, got.VisitDate)
	}
	if got.EndDate == nil || !got.EndDate.Equal(*c.EndDate) {
		t.Errorf("EndDate = %v, want %v", got.EndDate, c.EndDate)
	}
	if got.Diagnosis != "急性肠胃炎" || !got.HasDoctorVisit {
		t.Errorf("clinical fields lost: %+v", got)
	}
}

func TestCourseUnmarshalTolerant(t *testing.T) {
	var c Course
	if err := json.Unmarshal([]byte(`{"id":"c1","name":"x","startDate":"nope"}`), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !c.StartDate.IsZero() {
		t.Errorf("StartDate = %v, want zero", c.StartDate)
	}
	if c.Status != StatusActive {
		t.Errorf("Status = %s, want active default", c.Status)
	}
}

func TestCourseUnmarshalKeepsEndDateConsistent(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantStatus CourseStatus
		wantEnd    bool
	}{
		{"recovered with end", `{"id":"c1","name":"x","startDate":"2025-03-01","status":"recovered","endDate":"2025-03-04T10:00:00.000Z"}`, StatusRecovered, true},
		{"recovered without end", `{"id":"c1","name":"x","startDate":"2025-03-01","status":"recovered"}`, StatusRecovered, false},
		{"recovered with bad end", `{"id":"c1","name":"x","startDate":"2025-03-01","status":"recovered","endDate":"soon"}`, StatusRecovered, false},
		{"active with stray end", `{"id":"c1","name":"x","startDate":"2025-03-01","status":"active","endDate":"2025-03-04T10:00:00.000Z"}`, StatusActive, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Course
			if err := json.Unmarshal([]byte(tt.input), &c); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if c.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", c.Status, tt.wantStatus)
			}
			if got := c.EndDate != nil; got != tt.wantEnd {
				t.Errorf("has EndDate = %v, want %v", got, tt.wantEnd)
			}
		})
	}
}

func TestCourseSetStatusTruncatesEndDate(t *testing.T) {
	c, _ := NewCourse("感冒", time.Now())
	now := time.Date(2025, 3, 1, 9, 0, 0, 123456789, time.UTC)
	_ = c.SetStatus(StatusRecovered, now)

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got Course
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.EndDate == nil || !got.EndDate.Equal(*c.EndDate) {
		t.Errorf("EndDate after round trip = %v, want %v", got.EndDate, c.EndDate)
	}
	if c.EndDate.Nanosecond() != 123000000 {
		t.Errorf("EndDate nanoseconds = %d, want millisecond precision", c.EndDate.Nanosecond())
	}
}
