// ABOUTME: Export and import functionality for health-log data.
// ABOUTME: Supports JSON (backup/restore), YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/insights"
	"github.com/harperreed/healthlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is written into every export.
const ExportVersion = "1.0"

// ExportData represents the full export format for health-log data.
type ExportData struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Tool       string    `json:"tool"`
	Document
}

// GetAllData snapshots the store for export.
func (s *Store) GetAllData() *ExportData {
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "healthlog",
		Document:   *s.Snapshot(),
	}
}

// ExportJSON exports all data as JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.GetAllData(), "", "  ")
}

// ImportJSON decodes a JSON backup and applies it. See ImportDocument for merge semantics.
func (s *Store) ImportJSON(data []byte, merge bool) (*ImportSummary, LoadReport, error) {
	doc, report, err := DecodeDocument(data)
	if err != nil {
		return nil, report, err
	}
	summary, err := s.ImportDocument(doc, merge)
	if err != nil {
		return nil, report, fmt.Errorf("import document: %w", err)
	}
	return summary, report, nil
}

// BackupFileName returns the default backup file name for day.
func BackupFileName(day time.Time) string {
	return fmt.Sprintf("health_backup_%s.json", dates.FormatDateOnly(day))
}

type yamlCourse struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	StartDate    string `yaml:"start_date"`
	Status       string `yaml:"status"`
	EndDate      string `yaml:"end_date,omitempty"`
	DurationDays int    `yaml:"duration_days,omitempty"`
	Symptoms     string `yaml:"symptoms,omitempty"`
	Department   string `yaml:"department,omitempty"`
	Diagnosis    string `yaml:"diagnosis,omitempty"`
	Prescription string `yaml:"prescription,omitempty"`
}

type yamlSymptom struct {
	ID          string `yaml:"id"`
	Timestamp   string `yaml:"timestamp"`
	BodyPart    string `yaml:"body_part"`
	Severity    int    `yaml:"severity"`
	Note        string `yaml:"note,omitempty"`
	Course      string `yaml:"course,omitempty"`
	Progression bool   `yaml:"progression,omitempty"`
}

type yamlMedication struct {
	ID        string `yaml:"id"`
	Timestamp string `yaml:"timestamp"`
	Name      string `yaml:"name"`
	Method    string `yaml:"method"`
	Dosage    string `yaml:"dosage,omitempty"`
	Reason    string `yaml:"reason,omitempty"`
	Course    string `yaml:"course,omitempty"`
}

// ExportYAML exports all data as YAML, with records split by kind.
func (s *Store) ExportYAML() ([]byte, error) {
	data := s.GetAllData()
	today := time.Now()

	courseNames := make(map[string]string, len(data.Courses))
	out := struct {
		Version               string           `yaml:"version"`
		ExportedAt            string           `yaml:"exported_at"`
		Tool                  string           `yaml:"tool"`
		Courses               []yamlCourse     `yaml:"courses"`
		Symptoms              []yamlSymptom    `yaml:"symptoms"`
		Medications           []yamlMedication `yaml:"medications"`
		CustomBodyParts       []string         `yaml:"custom_body_parts,omitempty"`
		CustomMedicationNames []string         `yaml:"custom_medication_names,omitempty"`
	}{
		Version:               data.Version,
		ExportedAt:            data.ExportedAt.Format(time.RFC3339),
		Tool:                  data.Tool,
		Courses:               make([]yamlCourse, 0, len(data.Courses)),
		Symptoms:              make([]yamlSymptom, 0),
		Medications:           make([]yamlMedication, 0),
		CustomBodyParts:       data.CustomBodyParts,
		CustomMedicationNames: data.CustomMedicationNames,
	}

	for _, c := range data.Courses {
		courseNames[c.ID] = c.Name
		yc := yamlCourse{
			ID:           shortID(c.ID),
			Name:         c.Name,
			StartDate:    dates.FormatDateOnly(c.StartDate),
			Status:       string(c.Status),
			Symptoms:     c.Symptoms,
			Department:   c.Department,
			Diagnosis:    c.Diagnosis,
			Prescription: c.Prescription,
		}
		if c.EndDate != nil {
			yc.EndDate = c.EndDate.Format(time.RFC3339)
		}
		if days, ok := insights.CourseDuration(c, today); ok {
			yc.DurationDays = days
		}
		out.Courses = append(out.Courses, yc)
	}

	for _, r := range insights.SortNewestFirst(data.Logs) {
		ts := ""
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.Format(time.RFC3339)
		}
		switch {
		case r.IsSymptom():
			out.Symptoms = append(out.Symptoms, yamlSymptom{
				ID:          shortID(r.ID),
				Timestamp:   ts,
				BodyPart:    r.Symptom.BodyPart,
				Severity:    r.Symptom.Severity,
				Note:        r.Symptom.Note,
				Course:      courseNames[r.CourseID],
				Progression: r.Symptom.IsProgression,
			})
		case r.IsMedication():
			out.Medications = append(out.Medications, yamlMedication{
				ID:        shortID(r.ID),
				Timestamp: ts,
				Name:      r.Medication.Name,
				Method:    r.Medication.MethodDisplay(),
				Dosage:    r.Medication.Dosage,
				Reason:    r.Medication.Reason,
				Course:    courseNames[r.CourseID],
			})
		}
	}

	return yaml.Marshal(out)
}

// ExportMarkdown exports courses with their day-by-day timelines, followed by
// records not linked to any course. since, when set, drops older records.
func (s *Store) ExportMarkdown(since *time.Time) (string, error) {
	data := s.GetAllData()
	now := time.Now()

	logs := data.Logs
	if since != nil {
		filtered := make([]*models.Record, 0, len(logs))
		for _, r := range logs {
			if !r.Timestamp.Before(*since) {
				filtered = append(filtered, r)
			}
		}
		logs = filtered
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Health Log Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(data.Courses) > 0 {
		sb.WriteString("## Courses\n\n")
		for _, c := range data.Courses {
			duration := "?"
			if days, ok := insights.CourseDuration(c, now); ok {
				duration = fmt.Sprintf("%d", days)
			}
			sb.WriteString(fmt.Sprintf("### %s (%s, %s days)\n\n", c.Name, c.Status, duration))
			sb.WriteString(fmt.Sprintf("Started: %s\n\n", dates.FormatDateOnly(c.StartDate)))
			if c.HasDoctorVisit {
				sb.WriteString(fmt.Sprintf("Doctor visit: %s %s, diagnosis: %s, prescription: %s\n\n",
					dates.FormatDateOnly(c.VisitDate), c.Department, c.Diagnosis, c.Prescription))
			}
			for _, bucket := range insights.BuildTimeline(c, logs) {
				sb.WriteString(fmt.Sprintf("#### Day %d\n\n", bucket.Day))
				writeRecordTable(&sb, bucket.Records)
			}
		}
	}

	var daily []*models.Record
	for _, r := range insights.SortNewestFirst(logs) {
		if r.CourseID == "" {
			daily = append(daily, r)
		}
	}
	if len(daily) > 0 {
		sb.WriteString("## Daily Records\n\n")
		writeRecordTable(&sb, daily)
	}

	return sb.String(), nil
}

func writeRecordTable(sb *strings.Builder, records []*models.Record) {
	sb.WriteString("| Time | Kind | Entry | Details |\n")
	sb.WriteString("|------|------|-------|---------|\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			dates.FormatForDisplay(r.Timestamp), r.Type, r.Title(), RecordDetails(r)))
	}
	sb.WriteString("\n")
}

// RecordDetails renders the secondary fields of a record on one line.
func RecordDetails(r *models.Record) string {
	var parts []string
	switch {
	case r.IsSymptom():
		parts = append(parts, fmt.Sprintf("severity %d/10", r.Symptom.Severity))
		if r.Symptom.IsProgression {
			parts = append(parts, "progression")
		}
		if r.Symptom.Note != "" {
			parts = append(parts, r.Symptom.Note)
		}
	case r.IsMedication():
		parts = append(parts, r.Medication.MethodDisplay())
		if r.Medication.Dosage != "" {
			parts = append(parts, r.Medication.Dosage)
		}
		if r.Medication.Reason != "" {
			parts = append(parts, r.Medication.Reason)
		}
	}
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
