// ABOUTME: Flat output shapes for MCP tool results.
// ABOUTME: Converts records, courses, and timeline buckets into schema-friendly structs.
package mcp

import (
	"time"

	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/insights"
	"github.com/harperreed/healthlog/internal/models"
)

type recordView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
	Display     string `json:"display"`
	CourseID    string `json:"course_id,omitempty"`
	BodyPart    string `json:"body_part,omitempty"`
	Severity    int    `json:"severity,omitempty"`
	Note        string `json:"note,omitempty"`
	Progression bool   `json:"progression,omitempty"`
	Name        string `json:"name,omitempty"`
	Method      string `json:"method,omitempty"`
	Dosage      string `json:"dosage,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func newRecordView(r *models.Record) recordView {
	v := recordView{
		ID:       r.ID,
		Type:     string(r.Type),
		Display:  dates.FormatForDisplay(r.Timestamp),
		CourseID: r.CourseID,
	}
	if !r.Timestamp.IsZero() {
		v.Timestamp = r.Timestamp.Format(time.RFC3339)
	}
	if r.IsSymptom() {
		v.BodyPart = r.Symptom.BodyPart
		v.Severity = r.Symptom.Severity
		v.Note = r.Symptom.Note
		v.Progression = r.Symptom.IsProgression
	}
	if r.IsMedication() {
		v.Name = r.Medication.Name
		v.Method = r.Medication.MethodDisplay()
		v.Dosage = r.Medication.Dosage
		v.Reason = r.Medication.Reason
	}
	return v
}

func newRecordViews(records []*models.Record) []recordView {
	out := make([]recordView, 0, len(records))
	for _, r := range records {
		out = append(out, newRecordView(r))
	}
	return out
}

type courseView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartDate    string `json:"start_date"`
	Status       string `json:"status"`
	EndDate      string `json:"end_date,omitempty"`
	DurationDays int    `json:"duration_days,omitempty"`
	Symptoms     string `json:"symptoms,omitempty"`
	VisitDate    string `json:"visit_date,omitempty"`
	Department   string `json:"department,omitempty"`
	Diagnosis    string `json:"diagnosis,omitempty"`
	Prescription string `json:"prescription,omitempty"`
}

func newCourseView(c *models.Course, today time.Time) courseView {
	v := courseView{
		ID:           c.ID,
		Name:         c.Name,
		StartDate:    dates.FormatDateOnly(c.StartDate),
		Status:       string(c.Status),
		Symptoms:     c.Symptoms,
		Department:   c.Department,
		Diagnosis:    c.Diagnosis,
		Prescription: c.Prescription,
	}
	if c.EndDate != nil {
		v.EndDate = dates.FormatDateOnly(*c.EndDate)
	}
	if c.HasDoctorVisit {
		v.VisitDate = dates.FormatDateOnly(c.VisitDate)
	}
	if days, ok := insights.CourseDuration(c, today); ok {
		v.DurationDays = days
	}
	return v
}

type bucketView struct {
	Day     int          `json:"day"`
	Records []recordView `json:"records"`
}

func newBucketViews(buckets []insights.TimelineBucket) []bucketView {
	out := make([]bucketView, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketView{Day: b.Day, Records: newRecordViews(b.Records)})
	}
	return out
}
