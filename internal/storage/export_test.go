// ABOUTME: Tests for JSON/YAML/Markdown export and JSON import.
// ABOUTME: Covers backup round trips, replace vs merge import, and the backup file name.
package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/healthlog/internal/models"
	"gopkg.in/yaml.v3"
)

func seedStore(t *testing.T, s *Store) (*models.Course, []*models.Record) {
	t.Helper()
	c := mustCourse(t, "甲流", time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local))
	c.WithDoctorVisit(time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local), "呼吸科", "甲型流感", "奥司他韦")
	if err := s.AddCourse(c); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}

	fever := mustSymptom(t, "体温", time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)).WithCourse(c.ID).AsProgression(true)
	fever.WithNote("39度")
	pill := mustMedication(t, "奥司他韦", time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)).WithCourse(c.ID).WithDosage("75mg")
	daily := mustSymptom(t, "眼部", time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC))

	records := []*models.Record{fever, pill, daily}
	for _, r := range records {
		if err := s.AddRecord(r); err != nil {
			t.Fatalf("AddRecord failed: %v", err)
		}
	}
	_, _ = s.AddCustomBodyPart("耳朵")
	_, _ = s.AddCustomMedicationName("奥司他韦")
	return c, records
}

func TestExportImportJSONRoundTrip(t *testing.T) {
	src := setupTestStore(t)
	seedStore(t, src)

	data, err := src.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestStore(t)
	summary, report, err := dst.ImportJSON(data, false)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if !report.Clean() {
		t.Errorf("report = %+v, want clean", report)
	}
	if summary.Records != 3 || summary.Courses != 1 {
		t.Errorf("summary = %+v", summary)
	}

	want, got := src.Snapshot(), dst.Snapshot()
	for i := range want.Logs {
		w, g := want.Logs[i], got.Logs[i]
		if w.ID != g.ID || w.CourseID != g.CourseID || !w.Timestamp.Equal(g.Timestamp) || w.Type != g.Type {
			t.Errorf("record %d mismatch: %+v vs %+v", i, w, g)
		}
		if w.Symptom != nil && *w.Symptom != *g.Symptom {
			t.Errorf("symptom %d mismatch: %+v vs %+v", i, w.Symptom, g.Symptom)
		}
		if w.Medication != nil && *w.Medication != *g.Medication {
			t.Errorf("medication %d mismatch: %+v vs %+v", i, w.Medication, g.Medication)
		}
	}
	wc, gc := want.Courses[0], got.Courses[0]
	if wc.ID != gc.ID || wc.Name != gc.Name || !wc.StartDate.Equal(gc.StartDate) || wc.Diagnosis != gc.Diagnosis {
		t.Errorf("course mismatch: %+v vs %+v", wc, gc)
	}
	if len(got.CustomBodyParts) != 1 || len(got.CustomMedicationNames) != 1 {
		t.Errorf("vocabularies lost: %v %v", got.CustomBodyParts, got.CustomMedicationNames)
	}
}

func TestExportImportKeepsSubMillisecondValues(t *testing.T) {
	src := setupTestStore(t)
	src.now = func() time.Time { return time.Date(2025, 3, 4, 18, 30, 0, 987654321, time.UTC) }

	c := mustCourse(t, "甲流", time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local))
	if err := src.AddCourse(c); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}
	recovered, err := src.SetCourseStatus(c.ID, models.StatusRecovered)
	if err != nil {
		t.Fatalf("SetCourseStatus failed: %v", err)
	}
	r := mustSymptom(t, "头部", time.Date(2025, 3, 1, 9, 0, 0, 123456789, time.UTC))
	if err := src.AddRecord(r); err != nil {
		t.Fatalf("AddRecord failed: %v", err)
	}

	data, err := src.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	dst := setupTestStore(t)
	if _, _, err := dst.ImportJSON(data, false); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	got, err := dst.GetRecord(r.ID)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !got.Timestamp.Equal(r.Timestamp) {
		t.Errorf("timestamp before=%s after=%s", r.Timestamp.Format(time.RFC3339Nano), got.Timestamp.Format(time.RFC3339Nano))
	}
	gc, err := dst.GetCourse(c.ID)
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if gc.Status != models.StatusRecovered {
		t.Errorf("Status = %s, want recovered", gc.Status)
	}
	if gc.EndDate == nil || !gc.EndDate.Equal(*recovered.EndDate) {
		t.Errorf("EndDate = %v, want %v", gc.EndDate, recovered.EndDate)
	}
}

func TestImportReplaceOnlyPresentCollections(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	_, _, err := s.ImportJSON([]byte(`{"customParts":["牙齿"]}`), false)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if len(s.Records()) != 3 || len(s.Courses()) != 1 {
		t.Error("absent collections must not be replaced")
	}
	if parts := s.CustomBodyParts(); len(parts) != 1 || parts[0] != "牙齿" {
		t.Errorf("CustomBodyParts = %v, want replaced", parts)
	}
}

func TestImportMerge(t *testing.T) {
	s := setupTestStore(t)
	_, records := seedStore(t, s)

	data := []byte(`{"logs":[
		{"id":"` + records[0].ID + `","type":"symptom","bodyPart":"头部","severity":2,"timestamp":"2025-03-01T08:00:00.000Z"},
		{"id":"new1","type":"medication","name":"维C","method":"oral","timestamp":"2025-03-03T08:00:00.000Z"}
	],"customBodyParts":["耳朵","鼻子"]}`)

	summary, _, err := s.ImportJSON(data, true)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if summary.Records != 1 || summary.BodyParts != 1 {
		t.Errorf("summary = %+v, want 1 record and 1 body part added", summary)
	}
	if len(s.Records()) != 4 {
		t.Errorf("got %d records, want 4", len(s.Records()))
	}
	existing, _ := s.GetRecord(records[0].ID)
	if existing.BodyPart() != "体温" {
		t.Error("merge must not overwrite existing records")
	}
}

func TestImportInvalidJSON(t *testing.T) {
	s := setupTestStore(t)
	if _, _, err := s.ImportJSON([]byte(`nope`), false); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestExportYAML(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	data, err := s.ExportYAML()
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	for _, key := range []string{"courses", "symptoms", "medications"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("YAML missing %q section", key)
		}
	}
	if !strings.Contains(string(data), "course: 甲流") {
		t.Errorf("expected course name on linked records:\n%s", data)
	}
}

func TestExportMarkdown(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	md, err := s.ExportMarkdown(nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	for _, want := range []string{"# Health Log Export", "## Courses", "### 甲流", "#### Day", "## Daily Records", "progression", "75mg"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	since := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	md, _ = s.ExportMarkdown(&since)
	if strings.Contains(md, "75mg") {
		t.Error("since filter should drop older records")
	}
}

func TestBackupFileName(t *testing.T) {
	got := BackupFileName(time.Date(2025, 3, 5, 12, 0, 0, 0, time.Local))
	if got != "health_backup_2025-03-05.json" {
		t.Errorf("BackupFileName = %s", got)
	}
}
