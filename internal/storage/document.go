// ABOUTME: Document is the full health-log state: records, courses, and custom vocabularies.
// ABOUTME: Decoding fails open per collection and tolerates unknown or missing fields.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/harperreed/healthlog/internal/models"
)

// Document is the persisted and exported shape of the application state.
// A nil collection means "absent"; an empty one means "present but empty".
type Document struct {
	Logs                  []*models.Record `json:"logs"`
	Courses               []*models.Course `json:"courses"`
	CustomBodyParts       []string         `json:"customBodyParts"`
	CustomMedicationNames []string         `json:"customMedicationNames"`
}

// LoadReport describes what fail-open decoding had to discard.
type LoadReport struct {
	CorruptKeys     []string
	DroppedRecords  int
	RepairedRecords int
}

// Clean reports whether nothing was discarded or repaired.
func (r LoadReport) Clean() bool {
	return len(r.CorruptKeys) == 0 && r.DroppedRecords == 0 && r.RepairedRecords == 0
}

// documentJSON accepts the legacy "customParts" key used by older backups.
type documentJSON struct {
	Logs                  json.RawMessage `json:"logs"`
	Courses               json.RawMessage `json:"courses"`
	CustomBodyParts       []string        `json:"customBodyParts"`
	CustomParts           []string        `json:"customParts"`
	CustomMedicationNames []string        `json:"customMedicationNames"`
	CustomMeds            []string        `json:"customMeds"`
}

// DecodeDocument parses an exported document. A body that is not a JSON
// object is an error; inside the object, malformed records are dropped and
// counted in the report.
func DecodeDocument(data []byte) (*Document, LoadReport, error) {
	var report LoadReport
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, report, fmt.Errorf("unmarshal document: %w", err)
	}

	doc := &Document{
		CustomBodyParts:       raw.CustomBodyParts,
		CustomMedicationNames: raw.CustomMedicationNames,
	}
	if doc.CustomBodyParts == nil {
		doc.CustomBodyParts = raw.CustomParts
	}
	if doc.CustomMedicationNames == nil {
		doc.CustomMedicationNames = raw.CustomMeds
	}

	if isPresent(raw.Logs) {
		logs, dropped, repaired, err := decodeRecords(raw.Logs)
		if err != nil {
			report.CorruptKeys = append(report.CorruptKeys, "logs")
			logs = []*models.Record{}
		}
		doc.Logs = logs
		report.DroppedRecords += dropped
		report.RepairedRecords += repaired
	}
	if isPresent(raw.Courses) {
		courses, err := decodeCourses(raw.Courses)
		if err != nil {
			report.CorruptKeys = append(report.CorruptKeys, "courses")
			courses = []*models.Course{}
		}
		doc.Courses = courses
	}
	return doc, report, nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// decodeRecords decodes a JSON array of records one element at a time.
// Elements of an unknown type are dropped; records without an id get one.
func decodeRecords(data []byte) (records []*models.Record, dropped, repaired int, err error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, 0, fmt.Errorf("unmarshal records: %w", err)
	}

	records = make([]*models.Record, 0, len(items))
	for i, item := range items {
		var r models.Record
		if err := json.Unmarshal(item, &r); err != nil {
			dropped++
			continue
		}
		if r.ID == "" {
			r.ID = repairedID(i, item)
			repaired++
		}
		records = append(records, &r)
	}
	return records, dropped, repaired, nil
}

func decodeCourses(data []byte) ([]*models.Course, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal courses: %w", err)
	}
	out := make([]*models.Course, 0, len(items))
	for i, item := range items {
		var c *models.Course
		if err := json.Unmarshal(item, &c); err != nil {
			return nil, fmt.Errorf("unmarshal courses: %w", err)
		}
		if c == nil {
			continue
		}
		if c.ID == "" {
			c.ID = repairedID(i, item)
		}
		out = append(out, c)
	}
	return out, nil
}

// repairedID derives an id for a stored entity that has none. It depends
// only on the entity's position and bytes, so every reload of the same data
// yields the same id.
func repairedID(index int, item []byte) string {
	name := append([]byte(strconv.Itoa(index)+":"), item...)
	return uuid.NewSHA1(uuid.NameSpaceOID, name).String()
}

func decodeStrings(data []byte) ([]string, error) {
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal strings: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// blobReader is satisfied by a BlobStore and by a BlobTx.
type blobReader interface {
	Get(key string) (value []byte, ok bool, err error)
}

// loadDocument reads every collection key from blobs. Missing or corrupt
// values become empty collections; only I/O errors are returned.
func loadDocument(blobs blobReader) (Document, LoadReport, error) {
	raw, err := readBlobs(blobs)
	if err != nil {
		return Document{}, LoadReport{}, err
	}
	doc, report := decodeBlobs(raw)
	return doc, report, nil
}

// readBlobs returns the raw value of every collection key that is present.
func readBlobs(blobs blobReader) (map[string][]byte, error) {
	raw := make(map[string][]byte, len(AllKeys))
	for _, key := range AllKeys {
		value, ok, err := blobs.Get(key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		if ok {
			raw[key] = value
		}
	}
	return raw, nil
}

// decodeBlobs builds a Document from raw collection values, failing open per key.
func decodeBlobs(raw map[string][]byte) (Document, LoadReport) {
	doc := Document{
		Logs:                  []*models.Record{},
		Courses:               []*models.Course{},
		CustomBodyParts:       []string{},
		CustomMedicationNames: []string{},
	}
	var report LoadReport

	for _, key := range AllKeys {
		value := raw[key]
		if len(value) == 0 {
			continue
		}

		var decodeErr error
		switch key {
		case KeyLogs:
			var logs []*models.Record
			var dropped, repaired int
			logs, dropped, repaired, decodeErr = decodeRecords(value)
			if decodeErr == nil {
				doc.Logs = logs
				report.DroppedRecords += dropped
				report.RepairedRecords += repaired
			}
		case KeyCourses:
			var courses []*models.Course
			courses, decodeErr = decodeCourses(value)
			if decodeErr == nil {
				doc.Courses = courses
			}
		case KeyCustomParts:
			var parts []string
			parts, decodeErr = decodeStrings(value)
			if decodeErr == nil {
				doc.CustomBodyParts = parts
			}
		case KeyCustomMeds:
			var meds []string
			meds, decodeErr = decodeStrings(value)
			if decodeErr == nil {
				doc.CustomMedicationNames = meds
			}
		default:
			decodeErr = errors.New("unknown key")
		}
		if decodeErr != nil {
			report.CorruptKeys = append(report.CorruptKeys, key)
		}
	}
	return doc, report
}

// encodeCollection marshals the collection stored under key.
func encodeCollection(doc *Document, key string) ([]byte, error) {
	var v any
	switch key {
	case KeyLogs:
		v = doc.Logs
	case KeyCourses:
		v = doc.Courses
	case KeyCustomParts:
		v = doc.CustomBodyParts
	case KeyCustomMeds:
		v = doc.CustomMedicationNames
	default:
		return nil, fmt.Errorf("encode %s: unknown key", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", key, err)
	}
	return data, nil
}

func sameBlobs(a, b map[string][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		other, ok := b[key]
		if !ok || !bytes.Equal(value, other) {
			return false
		}
	}
	return true
}
