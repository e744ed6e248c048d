// ABOUTME: Tests for fail-open loading and document decoding.
// ABOUTME: Corrupt collections become empty; legacy and unknown keys are tolerated.
package storage

import (
	"testing"
)

func TestLoadMissingKeysYieldsEmptyState(t *testing.T) {
	s := setupTestStore(t)
	snap := s.Snapshot()

	if snap.Logs == nil || len(snap.Logs) != 0 {
		t.Errorf("Logs = %#v, want empty", snap.Logs)
	}
	if snap.Courses == nil || len(snap.Courses) != 0 {
		t.Errorf("Courses = %#v, want empty", snap.Courses)
	}
	if !s.LoadReport().Clean() {
		t.Errorf("LoadReport = %+v, want clean", s.LoadReport())
	}
}

func TestLoadCorruptCollectionFailsOpen(t *testing.T) {
	blobs := NewMemoryBlobStore()
	_ = blobs.Set(KeyLogs, []byte(`{not json`))
	_ = blobs.Set(KeyCourses, []byte(`[{"id":"c1","name":"感冒","startDate":"2025-03-01","status":"active","endDate":null}]`))
	_ = blobs.Set(KeyCustomParts, []byte(`"not an array"`))

	s, err := NewStore(blobs)
	if err != nil {
		t.Fatalf("NewStore should fail open, got %v", err)
	}

	if len(s.Records()) != 0 {
		t.Errorf("expected corrupt logs to load as empty")
	}
	if len(s.Courses()) != 1 {
		t.Errorf("expected valid courses to survive a corrupt sibling key")
	}
	if len(s.CustomBodyParts()) != 0 {
		t.Errorf("expected corrupt custom parts to load as empty")
	}

	report := s.LoadReport()
	if len(report.CorruptKeys) != 2 {
		t.Errorf("CorruptKeys = %v, want logs and custom parts", report.CorruptKeys)
	}
}

func TestLoadDropsUnknownRecordTypes(t *testing.T) {
	blobs := NewMemoryBlobStore()
	_ = blobs.Set(KeyLogs, []byte(`[
		{"id":"a","type":"symptom","bodyPart":"头部","severity":3,"timestamp":"2025-03-01T08:00:00.000Z"},
		{"id":"b","type":"vitals"},
		null,
		{"type":"medication","name":"布洛芬","method":"oral","timestamp":"bad"}
	]`))

	s, err := NewStore(blobs)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	records := s.Records()
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].ID == "" {
		t.Error("record without an id should be assigned one")
	}
	again, err := NewStore(blobs)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := again.Records()[1].ID; got != records[1].ID {
		t.Errorf("repaired id changed across loads: %s then %s", records[1].ID, got)
	}
	if _, err := s.DeleteRecord(records[1].ID); err != nil {
		t.Errorf("DeleteRecord by repaired id failed: %v", err)
	}
	if !records[1].Timestamp.IsZero() {
		t.Error("malformed timestamp should load as zero")
	}

	report := s.LoadReport()
	if report.DroppedRecords != 2 || report.RepairedRecords != 1 {
		t.Errorf("report = %+v, want 2 dropped, 1 repaired", report)
	}
}

func TestDecodeDocumentLegacyKeys(t *testing.T) {
	data := []byte(`{
		"logs": [],
		"customParts": ["耳朵"],
		"webdav": {"url": "ignored"}
	}`)

	doc, _, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	if len(doc.CustomBodyParts) != 1 || doc.CustomBodyParts[0] != "耳朵" {
		t.Errorf("CustomBodyParts = %v, want legacy customParts", doc.CustomBodyParts)
	}
	if doc.Logs == nil {
		t.Error("present empty logs should decode to an empty slice")
	}
	if doc.Courses != nil {
		t.Error("absent courses should stay nil")
	}
}

func TestDecodeDocumentRejectsNonObject(t *testing.T) {
	if _, _, err := DecodeDocument([]byte(`[1,2,3]`)); err == nil {
		t.Error("expected error for non-object document")
	}
	if _, _, err := DecodeDocument([]byte(`garbage`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
