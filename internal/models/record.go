// ABOUTME: Record model: a tagged union of Symptom and Medication events.
// ABOUTME: Handles construction-time validation and the flat JSON wire shape.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthlog/internal/dates"
)

// RecordType discriminates the two record variants.
type RecordType string

const (
	RecordSymptom    RecordType = "symptom"
	RecordMedication RecordType = "medication"
)

// ErrUnknownRecordType is returned when decoding a record whose type is neither variant.
var ErrUnknownRecordType = errors.New("unknown record type")

// Symptom holds the fields of a symptom observation.
type Symptom struct {
	BodyPart string
	Severity int
	Note     string
	// IsProgression marks a turning point in the owning course.
	IsProgression bool
}

// Medication holds the fields of a medication administration.
type Medication struct {
	Name        string
	Method      Method
	MethodLabel string
	Dosage      string
	Reason      string
}

// Record is a single logged event. Exactly one of Symptom or Medication is
// set, matching Type.
type Record struct {
	ID        string
	Timestamp time.Time // zero when the stored value could not be parsed
	CourseID  string
	Type      RecordType

	Symptom    *Symptom
	Medication *Medication
}

// NewSymptom creates a symptom record timestamped now.
func NewSymptom(bodyPart string, severity int) (*Record, error) {
	r := &Record{
		ID:        uuid.New().String(),
		Timestamp: stamp(time.Now()),
		Type:      RecordSymptom,
		Symptom: &Symptom{
			BodyPart: strings.TrimSpace(bodyPart),
			Severity: severity,
		},
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewMedication creates a medication record timestamped now. methodLabel is
// required when method is MethodOther and ignored otherwise.
func NewMedication(name string, method Method, methodLabel string) (*Record, error) {
	m := &Medication{
		Name:   strings.TrimSpace(name),
		Method: method,
	}
	if method == MethodOther {
		m.MethodLabel = strings.TrimSpace(methodLabel)
	}
	r := &Record{
		ID:         uuid.New().String(),
		Timestamp:  stamp(time.Now()),
		Type:       RecordMedication,
		Medication: m,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the structural invariants of a record.
func (r *Record) Validate() error {
	if r.ID == "" {
		return invalid("id", "must not be empty")
	}
	if r.Timestamp.IsZero() {
		return invalid("timestamp", "must be a valid instant")
	}
	switch r.Type {
	case RecordSymptom:
		if r.Symptom == nil || r.Medication != nil {
			return invalid("type", "symptom record must carry only symptom fields")
		}
		if r.Symptom.BodyPart == "" {
			return invalid("bodyPart", "required")
		}
		if r.Symptom.Severity < 1 || r.Symptom.Severity > 10 {
			return invalid("severity", "must be between 1 and 10")
		}
	case RecordMedication:
		if r.Medication == nil || r.Symptom != nil {
			return invalid("type", "medication record must carry only medication fields")
		}
		if r.Medication.Name == "" {
			return invalid("name", "required")
		}
		if !IsValidMethod(string(r.Medication.Method)) {
			return invalid("method", fmt.Sprintf("unknown method %q", r.Medication.Method))
		}
		if r.Medication.Method == MethodOther && r.Medication.MethodLabel == "" {
			return invalid("methodLabel", "required when method is other")
		}
	default:
		return invalid("type", fmt.Sprintf("unknown type %q", r.Type))
	}
	return nil
}

// WithTimestamp sets a custom timestamp, truncated to the stored precision.
func (r *Record) WithTimestamp(t time.Time) *Record {
	r.Timestamp = stamp(t)
	return r
}

// stamp truncates t to the millisecond precision of the wire format and
// drops the monotonic reading, so a value survives a save and reload as is.
func stamp(t time.Time) time.Time {
	return t.Round(0).Truncate(time.Millisecond)
}

// WithCourse links the record to a course.
func (r *Record) WithCourse(courseID string) *Record {
	r.CourseID = courseID
	if courseID == "" && r.Symptom != nil {
		r.Symptom.IsProgression = false
	}
	return r
}

// WithNote sets the note of a symptom record. No-op for medications.
func (r *Record) WithNote(note string) *Record {
	if r.Symptom != nil {
		r.Symptom.Note = note
	}
	return r
}

// CheckProgression rejects a progression flag on a record with no course.
func CheckProgression(progression bool, courseID string) error {
	if progression && courseID == "" {
		return invalid("progression", "requires a linked course")
	}
	return nil
}

// AsProgression flags a course-linked symptom as a turning point.
func (r *Record) AsProgression(flag bool) *Record {
	if r.Symptom != nil {
		r.Symptom.IsProgression = flag && r.CourseID != ""
	}
	return r
}

// WithDosage sets the dosage of a medication record.
func (r *Record) WithDosage(dosage string) *Record {
	if r.Medication != nil {
		r.Medication.Dosage = dosage
	}
	return r
}

// WithReason sets the reason of a medication record.
func (r *Record) WithReason(reason string) *Record {
	if r.Medication != nil {
		r.Medication.Reason = reason
	}
	return r
}

// IsSymptom reports whether r is a symptom record.
func (r *Record) IsSymptom() bool { return r.Type == RecordSymptom && r.Symptom != nil }

// IsMedication reports whether r is a medication record.
func (r *Record) IsMedication() bool { return r.Type == RecordMedication && r.Medication != nil }

// BodyPart returns the symptom body part, or "" for other records.
func (r *Record) BodyPart() string {
	if r.Symptom == nil {
		return ""
	}
	return r.Symptom.BodyPart
}

// Note returns the symptom note, or "".
func (r *Record) Note() string {
	if r.Symptom == nil {
		return ""
	}
	return r.Symptom.Note
}

// Name returns the medication name, or "".
func (r *Record) Name() string {
	if r.Medication == nil {
		return ""
	}
	return r.Medication.Name
}

// Title is the primary display label: body part or medication name.
func (r *Record) Title() string {
	if r.IsMedication() {
		return r.Medication.Name
	}
	return r.BodyPart()
}

// MethodDisplay returns the method label, using the free-text label for "other".
func (m *Medication) MethodDisplay() string {
	if m.Method == MethodOther && m.MethodLabel != "" {
		return m.MethodLabel
	}
	if label, ok := MethodLabels[m.Method]; ok {
		return label
	}
	return string(m.Method)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	if r.Symptom != nil {
		s := *r.Symptom
		c.Symptom = &s
	}
	if r.Medication != nil {
		m := *r.Medication
		c.Medication = &m
	}
	return &c
}

// recordJSON is the flat persisted shape shared by both variants.
type recordJSON struct {
	ID        string     `json:"id"`
	Timestamp string     `json:"timestamp,omitempty"`
	CourseID  string     `json:"courseId,omitempty"`
	Type      RecordType `json:"type"`

	BodyPart      string  `json:"bodyPart,omitempty"`
	Severity      flexInt `json:"severity,omitempty"`
	Note          string  `json:"note,omitempty"`
	IsProgression bool    `json:"isProgression,omitempty"`

	Name        string `json:"name,omitempty"`
	Method      Method `json:"method,omitempty"`
	MethodLabel string `json:"methodLabel,omitempty"`
	Dosage      string `json:"dosage,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// MarshalJSON writes the flat wire shape.
func (r Record) MarshalJSON() ([]byte, error) {
	w := recordJSON{
		ID:       r.ID,
		CourseID: r.CourseID,
		Type:     r.Type,
	}
	if !r.Timestamp.IsZero() {
		w.Timestamp = r.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	if r.Symptom != nil {
		w.BodyPart = r.Symptom.BodyPart
		w.Severity = flexInt(r.Symptom.Severity)
		w.Note = r.Symptom.Note
		w.IsProgression = r.Symptom.IsProgression
	}
	if r.Medication != nil {
		w.Name = r.Medication.Name
		w.Method = r.Medication.Method
		w.MethodLabel = r.Medication.MethodLabel
		w.Dosage = r.Medication.Dosage
		w.Reason = r.Medication.Reason
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the flat wire shape. Unknown fields are ignored, absent
// optional fields default to empty, and an unparseable timestamp leaves
// Timestamp zero. Only an unknown type is an error.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*r = Record{ID: w.ID, CourseID: w.CourseID, Type: w.Type}
	if ts, err := dates.Parse(w.Timestamp); err == nil {
		r.Timestamp = ts
	}

	switch w.Type {
	case RecordSymptom:
		r.Symptom = &Symptom{
			BodyPart:      w.BodyPart,
			Severity:      int(w.Severity),
			Note:          w.Note,
			IsProgression: w.IsProgression,
		}
	case RecordMedication:
		r.Medication = &Medication{
			Name:        w.Name,
			Method:      w.Method,
			MethodLabel: w.MethodLabel,
			Dosage:      w.Dosage,
			Reason:      w.Reason,
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRecordType, w.Type)
	}
	return nil
}

// flexInt accepts both JSON numbers and numeric strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}
