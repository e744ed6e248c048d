// ABOUTME: Read-only HTTP handlers over the health log store.
// ABOUTME: Serves records, courses, timelines, calendar, body-part stats, and the summary.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harperreed/healthlog/internal/insights"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/harperreed/healthlog/internal/storage"
)

// Version is reported by the liveness probe.
const Version = "1.0.0"

// Handler serves the API routes.
type Handler struct {
	store  *storage.Store
	cache  *viewCache
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a handler over store.
func NewHandler(store *storage.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		cache:  newViewCache(DefaultCacheSize, DefaultCacheTTL),
		logger: logger.With(slog.String("component", "api_handler")),
		now:    time.Now,
	}
}

// Routes builds the chi router with logging and metrics middleware.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(h.logger))
	r.Use(MetricsMiddleware())

	r.Get("/health/live", h.HealthLive)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/records", h.ListRecords)
		r.Get("/courses", h.ListCourses)
		r.Get("/courses/{id}/timeline", h.CourseTimeline)
		r.Get("/calendar/{year}/{month}", h.Calendar)
		r.Get("/stats/body-parts", h.BodyPartStats)
		r.Get("/summary", h.Summary)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "no such route")
	})
	return r
}

type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Revision  uint64 `json:"revision"`
}

// HealthLive reports that the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   Version,
		Revision:  h.store.Revision(),
	})
}

type recordsResponse struct {
	Records []*models.Record `json:"records"`
	Total   int              `json:"total"`
}

// ListRecords returns records newest first. ?q= filters with the search
// rules, ?course= restricts to one course, ?limit= caps the result.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	limit, err := optionalInt(r, "limit")
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	h.cached(w, r, func() (any, error) {
		records := insights.Search(h.store.Records(), h.store.Courses(), r.URL.Query().Get("q"))
		if ref := r.URL.Query().Get("course"); ref != "" {
			c, err := h.store.FindCourse(ref)
			if err != nil {
				return nil, err
			}
			records = insights.ForCourse(records, c.ID)
		}
		records = insights.SortNewestFirst(records)

		total := len(records)
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}
		return recordsResponse{Records: records, Total: total}, nil
	})
}

type courseEntry struct {
	Course       *models.Course `json:"course"`
	DurationDays *int           `json:"durationDays"`
}

func (h *Handler) courseEntry(c *models.Course) courseEntry {
	e := courseEntry{Course: c}
	if days, ok := insights.CourseDuration(c, h.now()); ok {
		e.DurationDays = &days
	}
	return e
}

// ListCourses returns every course, optionally filtered by ?status=.
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.IsValidStatus(status) {
		WriteError(w, http.StatusBadRequest, CodeValidationError, fmt.Sprintf("unknown status %q", status))
		return
	}

	h.cached(w, r, func() (any, error) {
		entries := make([]courseEntry, 0)
		for _, c := range h.store.Courses() {
			if status == "" || string(c.Status) == status {
				entries = append(entries, h.courseEntry(c))
			}
		}
		return map[string]any{"courses": entries}, nil
	})
}

type timelineResponse struct {
	courseEntry
	Timeline    []insights.TimelineBucket `json:"timeline"`
	Progression []*models.Record          `json:"progression"`
}

// CourseTimeline returns the day buckets of one course.
func (h *Handler) CourseTimeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.cached(w, r, func() (any, error) {
		c, err := h.store.FindCourse(id)
		if err != nil {
			return nil, err
		}
		records := h.store.Records()
		return timelineResponse{
			courseEntry: h.courseEntry(c),
			Timeline:    insights.BuildTimeline(c, records),
			Progression: insights.ProgressionPoints(c, records),
		}, nil
	})
}

// Calendar returns the month grid for /calendar/{year}/{month}.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		WriteError(w, http.StatusBadRequest, CodeValidationError, "year must be a positive integer")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		WriteError(w, http.StatusBadRequest, CodeValidationError, "month must be between 1 and 12")
		return
	}

	h.cached(w, r, func() (any, error) {
		return insights.BuildMonthGrid(h.store.Records(), year, time.Month(month)), nil
	})
}

type bodyPartStat struct {
	insights.FrequencyEntry
	BarWidth float64 `json:"barWidth"`
}

// BodyPartStats returns the top body parts with bar widths relative to the leader.
func (h *Handler) BodyPartStats(w http.ResponseWriter, r *http.Request) {
	limit, err := optionalInt(r, "limit")
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	h.cached(w, r, func() (any, error) {
		entries := insights.TopBodyParts(h.store.Records(), limit)
		stats := make([]bodyPartStat, 0, len(entries))
		for _, e := range entries {
			stats = append(stats, bodyPartStat{
				FrequencyEntry: e,
				BarWidth:       insights.BarWidth(e.Count, entries[0].Count),
			})
		}
		return map[string]any{"bodyParts": stats}, nil
	})
}

// Summary returns the dashboard view.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, func() (any, error) {
		return insights.Summarize(h.store.Records(), h.store.Courses(), h.now()), nil
	})
}

// cached serves a rendered body from the view cache, rendering on a miss.
// Errors are never cached.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, render func() (any, error)) {
	key := cacheKey(h.store.Revision(), r.URL.RequestURI())
	if body, ok := h.cache.get(key); ok {
		writeBody(w, body)
		return
	}

	v, err := render()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode response", slog.String("error", err.Error()))
		WriteError(w, http.StatusInternalServerError, CodeInternalError, "failed to encode response")
		return
	}
	h.cache.set(key, body)
	writeBody(w, body)
}

func writeBody(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func optionalInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
