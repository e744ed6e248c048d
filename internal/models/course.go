// ABOUTME: Course model: a named, dated illness episode grouping records.
// ABOUTME: Owns the active/recovered status transition and its endDate rule.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthlog/internal/dates"
)

// CourseStatus is the lifecycle state of a course.
type CourseStatus string

const (
	StatusActive    CourseStatus = "active"
	StatusRecovered CourseStatus = "recovered"
)

// IsValidStatus checks if a string is a known course status.
func IsValidStatus(s string) bool {
	return s == string(StatusActive) || s == string(StatusRecovered)
}

// Course represents one bounded illness episode.
type Course struct {
	ID        string
	Name      string
	StartDate time.Time // local midnight; zero when unknown
	Status    CourseStatus
	EndDate   *time.Time // set iff Status is recovered

	Symptoms       string
	HasDoctorVisit bool
	VisitDate      time.Time
	Department     string
	Diagnosis      string
	Prescription   string
}

// NewCourse creates an active course starting on the local day of start.
func NewCourse(name string, start time.Time) (*Course, error) {
	c := &Course{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		StartDate: dates.StartOfDay(start),
		Status:    StatusActive,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the structural invariants of a course.
func (c *Course) Validate() error {
	if c.ID == "" {
		return invalid("id", "must not be empty")
	}
	if c.Name == "" {
		return invalid("name", "required")
	}
	if c.StartDate.IsZero() {
		return invalid("startDate", "must be a valid date")
	}
	switch c.Status {
	case StatusActive:
		if c.EndDate != nil {
			return invalid("endDate", "must be empty while active")
		}
	case StatusRecovered:
		if c.EndDate == nil {
			return invalid("endDate", "required once recovered")
		}
	default:
		return invalid("status", fmt.Sprintf("unknown status %q", c.Status))
	}
	return nil
}

// SetStatus transitions the course. Recovering stamps EndDate with now;
// reverting to active clears it.
func (c *Course) SetStatus(status CourseStatus, now time.Time) error {
	switch status {
	case StatusRecovered:
		end := stamp(now)
		c.EndDate = &end
	case StatusActive:
		c.EndDate = nil
	default:
		return invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	c.Status = status
	return nil
}

// IsActive reports whether the course is still ongoing.
func (c *Course) IsActive() bool { return c.Status == StatusActive }

// WithSymptoms sets the free-text symptom summary.
func (c *Course) WithSymptoms(summary string) *Course {
	c.Symptoms = summary
	return c
}

// WithDoctorVisit records a doctor visit and its outcome.
func (c *Course) WithDoctorVisit(visitDate time.Time, department, diagnosis, prescription string) *Course {
	c.HasDoctorVisit = true
	c.VisitDate = dates.StartOfDay(visitDate)
	c.Department = department
	c.Diagnosis = diagnosis
	c.Prescription = prescription
	return c
}

// Clone returns a deep copy of c.
func (c *Course) Clone() *Course {
	cp := *c
	if c.EndDate != nil {
		end := *c.EndDate
		cp.EndDate = &end
	}
	return &cp
}

type courseJSON struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	StartDate string       `json:"startDate"`
	Status    CourseStatus `json:"status"`
	EndDate   *string      `json:"endDate"`

	Symptoms       string `json:"symptoms,omitempty"`
	HasDoctorVisit bool   `json:"hasDoctorVisit,omitempty"`
	VisitDate      string `json:"visitDate,omitempty"`
	Department     string `json:"department,omitempty"`
	Diagnosis      string `json:"diagnosis,omitempty"`
	Prescription   string `json:"prescription,omitempty"`
}

// MarshalJSON writes dates as YYYY-MM-DD and endDate as an ISO instant or null.
func (c Course) MarshalJSON() ([]byte, error) {
	w := courseJSON{
		ID:             c.ID,
		Name:           c.Name,
		StartDate:      dates.FormatDateOnly(c.StartDate),
		Status:         c.Status,
		Symptoms:       c.Symptoms,
		HasDoctorVisit: c.HasDoctorVisit,
		VisitDate:      dates.FormatDateOnly(c.VisitDate),
		Department:     c.Department,
		Diagnosis:      c.Diagnosis,
		Prescription:   c.Prescription,
	}
	if c.EndDate != nil {
		end := c.EndDate.UTC().Format("2006-01-02T15:04:05.000Z07:00")
		w.EndDate = &end
	}
	return json.Marshal(w)
}

// UnmarshalJSON tolerates missing and malformed fields: bad dates decode to
// zero, a missing status defaults to active. An active course never keeps an
// endDate; a recovered one whose endDate is missing or unparseable keeps a nil
// EndDate, which readers treat as an unknown end.
func (c *Course) UnmarshalJSON(data []byte) error {
	var w courseJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Course{
		ID:             w.ID,
		Name:           w.Name,
		Status:         w.Status,
		Symptoms:       w.Symptoms,
		HasDoctorVisit: w.HasDoctorVisit,
		Department:     w.Department,
		Diagnosis:      w.Diagnosis,
		Prescription:   w.Prescription,
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if start, err := dates.ParseDate(w.StartDate); err == nil {
		c.StartDate = start
	}
	if visit, err := dates.ParseDate(w.VisitDate); err == nil {
		c.VisitDate = visit
	}
	if w.EndDate != nil && c.Status != StatusActive {
		if end, err := dates.Parse(*w.EndDate); err == nil {
			c.EndDate = &end
		}
	}
	return nil
}
