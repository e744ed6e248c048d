// ABOUTME: Store is the application state: records, courses, and vocabularies over a BlobStore.
// ABOUTME: Each mutation is a read-modify-write in one backend transaction; reads reload outside changes.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/healthlog/internal/models"
)

var (
	// ErrNotFound is returned when no record or course matches an id or prefix.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousID is returned when a prefix matches more than one entity.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
	// ErrDuplicateID is returned when adding an entity whose id already exists.
	ErrDuplicateID = errors.New("duplicate id")
)

// Store owns the health-log state seen by one process. Several Stores,
// usually in different processes, may share one backend: every mutation
// re-reads the persisted collections inside a write transaction, and every
// read first reloads them when another writer has changed them. Readers get
// deep copies.
type Store struct {
	mu       sync.RWMutex
	blobs    BlobStore
	doc      Document
	raw      map[string][]byte
	report   LoadReport
	revision uint64
	now      func() time.Time
}

// NewStore loads the state from blobs, failing open on corrupt collections.
func NewStore(blobs BlobStore) (*Store, error) {
	raw, err := readBlobs(blobs)
	if err != nil {
		return nil, err
	}
	doc, report := decodeBlobs(raw)
	return &Store{
		blobs:  blobs,
		doc:    doc,
		raw:    raw,
		report: report,
		now:    time.Now,
	}, nil
}

// Close closes the underlying BlobStore.
func (s *Store) Close() error {
	return s.blobs.Close()
}

// LoadReport returns what was discarded while loading.
func (s *Store) LoadReport() LoadReport {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Revision changes whenever the state changes, whether through this Store
// or through another writer sharing the backend.
func (s *Store) Revision() uint64 {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() *Document {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Document{
		Logs:                  cloneRecords(s.doc.Logs),
		Courses:               cloneCourses(s.doc.Courses),
		CustomBodyParts:       append([]string{}, s.doc.CustomBodyParts...),
		CustomMedicationNames: append([]string{}, s.doc.CustomMedicationNames...),
	}
}

// Records returns a copy of all records, newest created first.
func (s *Store) Records() []*models.Record {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.doc.Logs)
}

// Courses returns a copy of all courses, newest created first.
func (s *Store) Courses() []*models.Course {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCourses(s.doc.Courses)
}

// BodyParts returns the default vocabulary followed by custom body parts.
func (s *Store) BodyParts() []string {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]string{}, models.DefaultBodyParts...)
	return append(out, s.doc.CustomBodyParts...)
}

// CustomBodyParts returns the user-added body parts.
func (s *Store) CustomBodyParts() []string {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.doc.CustomBodyParts...)
}

// CustomMedicationNames returns the remembered medication names.
func (s *Store) CustomMedicationNames() []string {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.doc.CustomMedicationNames...)
}

// GetRecord retrieves a record by ID or ID prefix.
func (s *Store) GetRecord(idOrPrefix string) (*models.Record, error) {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := resolveRecord(&s.doc, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return s.doc.Logs[i].Clone(), nil
}

// AddRecord validates r and prepends it to the log.
func (s *Store) AddRecord(r *models.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	stored := r.Clone()
	return s.update(func(doc *Document) ([]string, error) {
		for _, existing := range doc.Logs {
			if existing.ID == stored.ID {
				return nil, fmt.Errorf("add record %s: %w", stored.ID, ErrDuplicateID)
			}
		}
		if err := checkCourseRef(doc, stored.CourseID); err != nil {
			return nil, err
		}
		logs := make([]*models.Record, 0, len(doc.Logs)+1)
		logs = append(logs, stored)
		doc.Logs = append(logs, doc.Logs...)
		return []string{KeyLogs}, nil
	})
}

// UpdateRecord replaces the record with the same ID.
func (s *Store) UpdateRecord(r *models.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	stored := r.Clone()
	return s.update(func(doc *Document) ([]string, error) {
		for i, existing := range doc.Logs {
			if existing.ID != stored.ID {
				continue
			}
			if err := checkCourseRef(doc, stored.CourseID); err != nil {
				return nil, err
			}
			doc.Logs[i] = stored
			return []string{KeyLogs}, nil
		}
		return nil, fmt.Errorf("update record %s: %w", stored.ID, ErrNotFound)
	})
}

// DeleteRecord removes a record by ID or prefix and returns it.
func (s *Store) DeleteRecord(idOrPrefix string) (*models.Record, error) {
	var removed *models.Record
	err := s.update(func(doc *Document) ([]string, error) {
		idx, err := resolveRecord(doc, idOrPrefix)
		if err != nil {
			return nil, fmt.Errorf("delete record: %w", err)
		}
		removed = doc.Logs[idx]
		doc.Logs = append(doc.Logs[:idx:idx], doc.Logs[idx+1:]...)
		return []string{KeyLogs}, nil
	})
	if err != nil {
		return nil, err
	}
	return removed.Clone(), nil
}

// GetCourse retrieves a course by ID or ID prefix.
func (s *Store) GetCourse(idOrPrefix string) (*models.Course, error) {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := resolveCourse(&s.doc, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return s.doc.Courses[i].Clone(), nil
}

// FindCourse resolves ref as an ID, an ID prefix, or an exact course name.
func (s *Store) FindCourse(ref string) (*models.Course, error) {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := resolveCourse(&s.doc, ref)
	if err == nil {
		return s.doc.Courses[i].Clone(), nil
	}
	var match *models.Course
	for _, candidate := range s.doc.Courses {
		if candidate.Name == ref {
			if match != nil {
				return nil, fmt.Errorf("course name %q: %w", ref, ErrAmbiguousID)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, err
	}
	return match.Clone(), nil
}

// AddCourse validates c and prepends it to the course list.
func (s *Store) AddCourse(c *models.Course) error {
	if err := c.Validate(); err != nil {
		return err
	}
	stored := c.Clone()
	return s.update(func(doc *Document) ([]string, error) {
		for _, existing := range doc.Courses {
			if existing.ID == stored.ID {
				return nil, fmt.Errorf("add course %s: %w", stored.ID, ErrDuplicateID)
			}
		}
		courses := make([]*models.Course, 0, len(doc.Courses)+1)
		courses = append(courses, stored)
		doc.Courses = append(courses, doc.Courses...)
		return []string{KeyCourses}, nil
	})
}

// UpdateCourse replaces the course with the same ID.
func (s *Store) UpdateCourse(c *models.Course) error {
	if err := c.Validate(); err != nil {
		return err
	}
	stored := c.Clone()
	return s.update(func(doc *Document) ([]string, error) {
		for i, existing := range doc.Courses {
			if existing.ID == stored.ID {
				doc.Courses[i] = stored
				return []string{KeyCourses}, nil
			}
		}
		return nil, fmt.Errorf("update course %s: %w", stored.ID, ErrNotFound)
	})
}

// SetCourseStatus transitions a course and stamps or clears its end date.
func (s *Store) SetCourseStatus(idOrPrefix string, status models.CourseStatus) (*models.Course, error) {
	var updated *models.Course
	err := s.update(func(doc *Document) ([]string, error) {
		idx, err := resolveCourse(doc, idOrPrefix)
		if err != nil {
			return nil, fmt.Errorf("set course status: %w", err)
		}
		updated = doc.Courses[idx].Clone()
		if err := updated.SetStatus(status, s.now()); err != nil {
			return nil, err
		}
		doc.Courses[idx] = updated
		return []string{KeyCourses}, nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// DeleteCourse removes a course. Records that reference it keep their courseId.
func (s *Store) DeleteCourse(idOrPrefix string) (*models.Course, error) {
	var removed *models.Course
	err := s.update(func(doc *Document) ([]string, error) {
		idx, err := resolveCourse(doc, idOrPrefix)
		if err != nil {
			return nil, fmt.Errorf("delete course: %w", err)
		}
		removed = doc.Courses[idx]
		doc.Courses = append(doc.Courses[:idx:idx], doc.Courses[idx+1:]...)
		return []string{KeyCourses}, nil
	})
	if err != nil {
		return nil, err
	}
	return removed.Clone(), nil
}

// AddCustomBodyPart appends part to the custom vocabulary. It returns false
// when part is empty or already a default or custom body part.
func (s *Store) AddCustomBodyPart(part string) (bool, error) {
	part = strings.TrimSpace(part)
	if part == "" || models.IsDefaultBodyPart(part) {
		return false, nil
	}
	added := false
	err := s.update(func(doc *Document) ([]string, error) {
		added = !contains(doc.CustomBodyParts, part)
		if !added {
			return nil, nil
		}
		doc.CustomBodyParts = append(doc.CustomBodyParts, part)
		return []string{KeyCustomParts}, nil
	})
	return added && err == nil, err
}

// RemoveCustomBodyPart drops part from the custom vocabulary.
func (s *Store) RemoveCustomBodyPart(part string) (bool, error) {
	removed := false
	err := s.update(func(doc *Document) ([]string, error) {
		doc.CustomBodyParts, removed = without(doc.CustomBodyParts, part)
		if !removed {
			return nil, nil
		}
		return []string{KeyCustomParts}, nil
	})
	return removed && err == nil, err
}

// AddCustomMedicationName remembers a medication name for quick entry.
func (s *Store) AddCustomMedicationName(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	added := false
	err := s.update(func(doc *Document) ([]string, error) {
		added = !contains(doc.CustomMedicationNames, name)
		if !added {
			return nil, nil
		}
		doc.CustomMedicationNames = append(doc.CustomMedicationNames, name)
		return []string{KeyCustomMeds}, nil
	})
	return added && err == nil, err
}

// RemoveCustomMedicationName forgets a remembered medication name.
func (s *Store) RemoveCustomMedicationName(name string) (bool, error) {
	removed := false
	err := s.update(func(doc *Document) ([]string, error) {
		doc.CustomMedicationNames, removed = without(doc.CustomMedicationNames, name)
		if !removed {
			return nil, nil
		}
		return []string{KeyCustomMeds}, nil
	})
	return removed && err == nil, err
}

// ImportSummary counts what an import changed.
type ImportSummary struct {
	Records     int
	Courses     int
	BodyParts   int
	Medications int
}

// ImportDocument applies an imported document. Without merge, every
// collection present in doc replaces the current one. With merge, entities
// whose ID already exists are skipped and vocabularies are unioned.
func (s *Store) ImportDocument(in *Document, merge bool) (*ImportSummary, error) {
	var summary *ImportSummary
	err := s.update(func(doc *Document) ([]string, error) {
		summary = &ImportSummary{}
		var changed []string

		if in.Logs != nil {
			if merge {
				seen := make(map[string]bool, len(doc.Logs))
				for _, r := range doc.Logs {
					seen[r.ID] = true
				}
				for _, r := range in.Logs {
					if !seen[r.ID] {
						doc.Logs = append(doc.Logs, r.Clone())
						seen[r.ID] = true
						summary.Records++
					}
				}
			} else {
				doc.Logs = cloneRecords(in.Logs)
				summary.Records = len(doc.Logs)
			}
			changed = append(changed, KeyLogs)
		}
		if in.Courses != nil {
			if merge {
				seen := make(map[string]bool, len(doc.Courses))
				for _, c := range doc.Courses {
					seen[c.ID] = true
				}
				for _, c := range in.Courses {
					if !seen[c.ID] {
						doc.Courses = append(doc.Courses, c.Clone())
						seen[c.ID] = true
						summary.Courses++
					}
				}
			} else {
				doc.Courses = cloneCourses(in.Courses)
				summary.Courses = len(doc.Courses)
			}
			changed = append(changed, KeyCourses)
		}
		if in.CustomBodyParts != nil {
			doc.CustomBodyParts, summary.BodyParts = mergeStrings(doc.CustomBodyParts, in.CustomBodyParts, merge)
			changed = append(changed, KeyCustomParts)
		}
		if in.CustomMedicationNames != nil {
			doc.CustomMedicationNames, summary.Medications = mergeStrings(doc.CustomMedicationNames, in.CustomMedicationNames, merge)
			changed = append(changed, KeyCustomMeds)
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// update re-reads the persisted collections inside one write transaction,
// lets apply change them, and writes back the keys apply reports. The
// in-memory state is swapped only after the transaction commits.
func (s *Store) update(apply func(doc *Document) ([]string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		next   Document
		report LoadReport
		raw    map[string][]byte
	)
	err := s.blobs.Update(func(tx BlobTx) error {
		current, err := readBlobs(tx)
		if err != nil {
			return err
		}
		doc, rep := decodeBlobs(current)
		changed, err := apply(&doc)
		if err != nil {
			return err
		}
		for _, key := range changed {
			data, err := encodeCollection(&doc, key)
			if err != nil {
				return err
			}
			if err := tx.Set(key, data); err != nil {
				return fmt.Errorf("save %s: %w", key, err)
			}
			current[key] = data
		}
		next, report, raw = doc, rep, current
		return nil
	})
	if err != nil {
		return err
	}
	s.swap(next, report, raw)
	return nil
}

// refresh reloads the state when another writer has changed the backend
// since the last load. A failed read keeps the state already in memory.
func (s *Store) refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := readBlobs(s.blobs)
	if err != nil || sameBlobs(raw, s.raw) {
		return
	}
	doc, report := decodeBlobs(raw)
	s.swap(doc, report, raw)
}

// swap installs a freshly decoded state. The caller holds s.mu.
func (s *Store) swap(doc Document, report LoadReport, raw map[string][]byte) {
	if sameBlobs(raw, s.raw) {
		return
	}
	s.doc, s.report, s.raw = doc, report, raw
	s.revision++
}

// resolveRecord finds the index of a record by exact ID, then unique prefix.
func resolveRecord(doc *Document, idOrPrefix string) (int, error) {
	ids := make([]string, len(doc.Logs))
	for i, r := range doc.Logs {
		ids[i] = r.ID
	}
	return resolveID(ids, idOrPrefix)
}

// resolveCourse finds the index of a course by exact ID, then unique prefix.
func resolveCourse(doc *Document, idOrPrefix string) (int, error) {
	ids := make([]string, len(doc.Courses))
	for i, c := range doc.Courses {
		ids[i] = c.ID
	}
	return resolveID(ids, idOrPrefix)
}

func resolveID(ids []string, idOrPrefix string) (int, error) {
	if idOrPrefix == "" {
		return -1, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	for i, id := range ids {
		if id == idOrPrefix {
			return i, nil
		}
	}

	match := -1
	for i, id := range ids {
		if strings.HasPrefix(id, idOrPrefix) {
			if match >= 0 {
				return -1, fmt.Errorf("%w %s: matches multiple entries", ErrAmbiguousID, idOrPrefix)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return match, nil
}

func checkCourseRef(doc *Document, courseID string) error {
	if courseID == "" {
		return nil
	}
	for _, c := range doc.Courses {
		if c.ID == courseID {
			return nil
		}
	}
	return fmt.Errorf("course %s: %w", courseID, ErrNotFound)
}

func cloneRecords(in []*models.Record) []*models.Record {
	out := make([]*models.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

func cloneCourses(in []*models.Course) []*models.Course {
	out := make([]*models.Course, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func without(values []string, v string) ([]string, bool) {
	out := make([]string, 0, len(values))
	removed := false
	for _, x := range values {
		if x == v {
			removed = true
			continue
		}
		out = append(out, x)
	}
	return out, removed
}

func mergeStrings(current, incoming []string, merge bool) ([]string, int) {
	if !merge {
		return append([]string{}, incoming...), len(incoming)
	}
	out := append([]string{}, current...)
	added := 0
	for _, v := range incoming {
		if !contains(out, v) {
			out = append(out, v)
			added++
		}
	}
	return out, added
}
