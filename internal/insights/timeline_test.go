// ABOUTME: Tests for course timeline bucketing and course duration.
// ABOUTME: Covers day-1 anchoring, ordering, mirroring before start, and bad timestamps.
package insights

import (
	"testing"

	"github.com/harperreed/healthlog/internal/models"
)

func TestBuildTimelineStartDayIsDayOne(t *testing.T) {
	c := course(t, "感冒", at(2025, 3, 10, 0))
	r := symptom(t, "呼吸道", at(2025, 3, 10, 0)).WithCourse(c.ID)

	buckets := BuildTimeline(c, []*models.Record{r})
	if len(buckets) != 1 || buckets[0].Day != 1 {
		t.Fatalf("buckets = %+v, want single day-1 bucket", buckets)
	}
}

func TestBuildTimelineOrdering(t *testing.T) {
	c := course(t, "感冒", at(2025, 3, 10, 0))
	d1a := symptom(t, "呼吸道", at(2025, 3, 10, 8)).WithCourse(c.ID)
	d1b := medication(t, "感冒灵", at(2025, 3, 10, 20)).WithCourse(c.ID)
	d3 := symptom(t, "体温", at(2025, 3, 12, 9)).WithCourse(c.ID)
	d2 := symptom(t, "头部", at(2025, 3, 11, 23)).WithCourse(c.ID)
	other := symptom(t, "皮肤", at(2025, 3, 11, 9))

	buckets := BuildTimeline(c, []*models.Record{d1a, d3, other, d1b, d2})

	wantDays := []int{3, 2, 1}
	if len(buckets) != len(wantDays) {
		t.Fatalf("got %d buckets, want %d", len(buckets), len(wantDays))
	}
	for i, b := range buckets {
		if b.Day != wantDays[i] {
			t.Errorf("bucket %d day = %d, want %d", i, b.Day, wantDays[i])
		}
		for j := 1; j < len(b.Records); j++ {
			if b.Records[j].Timestamp.After(b.Records[j-1].Timestamp) {
				t.Errorf("bucket %d not ordered newest first", b.Day)
			}
		}
	}
	if !sameIDs(buckets[2].Records, []*models.Record{d1b, d1a}) {
		t.Errorf("day 1 records = %v", ids(buckets[2].Records))
	}
}

func TestBuildTimelineMirrorsRecordsBeforeStart(t *testing.T) {
	c := course(t, "过敏", at(2025, 3, 10, 0))
	before := symptom(t, "皮肤", at(2025, 3, 8, 12)).WithCourse(c.ID)

	buckets := BuildTimeline(c, []*models.Record{before})
	if len(buckets) != 1 || buckets[0].Day != 3 {
		t.Errorf("buckets = %+v, want record two days early on day 3", buckets)
	}
}

func TestBuildTimelineSkipsUnknownTimestamps(t *testing.T) {
	c := course(t, "感冒", at(2025, 3, 10, 0))
	bad := &models.Record{ID: "bad", CourseID: c.ID, Type: models.RecordSymptom, Symptom: &models.Symptom{BodyPart: "头部"}}
	good := symptom(t, "头部", at(2025, 3, 10, 9)).WithCourse(c.ID)

	buckets := BuildTimeline(c, []*models.Record{bad, good})
	if len(buckets) != 1 || len(buckets[0].Records) != 1 || buckets[0].Records[0] != good {
		t.Errorf("buckets = %+v, want only the valid record", buckets)
	}

	unknownStart := &models.Course{ID: "c", Name: "x", Status: models.StatusActive}
	if got := BuildTimeline(unknownStart, []*models.Record{good}); len(got) != 0 {
		t.Errorf("expected empty timeline for unknown start, got %+v", got)
	}
	if got := BuildTimeline(nil, nil); len(got) != 0 {
		t.Error("expected empty timeline for nil course")
	}
}

func TestBuildTimelineIsPure(t *testing.T) {
	c := course(t, "感冒", at(2025, 3, 10, 0))
	a := symptom(t, "头部", at(2025, 3, 10, 8)).WithCourse(c.ID)
	b := symptom(t, "头部", at(2025, 3, 10, 9)).WithCourse(c.ID)
	records := []*models.Record{a, b}

	first := BuildTimeline(c, records)
	second := BuildTimeline(c, records)
	if len(first) != len(second) || !sameIDs(first[0].Records, second[0].Records) {
		t.Error("BuildTimeline is not deterministic")
	}
	if records[0] != a || records[1] != b {
		t.Error("BuildTimeline mutated its input")
	}
}

func TestCourseDuration(t *testing.T) {
	today := at(2025, 3, 15, 18)

	active := course(t, "感冒", at(2025, 3, 10, 0))
	if got, ok := CourseDuration(active, today); !ok || got != 6 {
		t.Errorf("active duration = (%d, %v), want (6, true)", got, ok)
	}

	recovered := course(t, "肠胃炎", at(2025, 3, 1, 0))
	_ = recovered.SetStatus(models.StatusRecovered, at(2025, 3, 4, 21))
	if got, ok := CourseDuration(recovered, today); !ok || got != 4 {
		t.Errorf("recovered duration = (%d, %v), want (4, true)", got, ok)
	}

	if _, ok := CourseDuration(&models.Course{}, today); ok {
		t.Error("expected unknown duration for zero start date")
	}

	noEnd := course(t, "咳嗽", at(2025, 3, 1, 0))
	noEnd.Status = models.StatusRecovered
	if got, ok := CourseDuration(noEnd, today); ok {
		t.Errorf("recovered without end date = (%d, true), want unknown", got)
	}
}

func TestProgressionPoints(t *testing.T) {
	c := course(t, "甲流", at(2025, 3, 1, 0))
	turn := symptom(t, "体温", at(2025, 3, 2, 9)).WithCourse(c.ID).AsProgression(true)
	plain := symptom(t, "体温", at(2025, 3, 3, 9)).WithCourse(c.ID)

	got := ProgressionPoints(c, []*models.Record{plain, turn})
	if len(got) != 1 || got[0] != turn {
		t.Errorf("ProgressionPoints = %v", ids(got))
	}
}
