// ABOUTME: MCP tool implementations for the health log.
// ABOUTME: Provides record and course CRUD plus timeline, calendar, and ranking views.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/insights"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	// add_symptom
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_symptom",
		Description: "Record a symptom with body part and severity (1-10), optionally linked to a course",
	}, s.handleAddSymptom)

	// add_medication
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_medication",
		Description: "Record a medication taken, optionally linked to a course",
	}, s.handleAddMedication)

	// list_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List recent records, newest first, optionally filtered by type or course",
	}, s.handleListRecords)

	// search_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_records",
		Description: "Case-insensitive search over names, body parts, notes, dates, and course names",
	}, s.handleSearchRecords)

	// delete_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a record by ID or ID prefix",
	}, s.handleDeleteRecord)

	// add_course
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_course",
		Description: "Start tracking an illness course",
	}, s.handleAddCourse)

	// list_courses
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_courses",
		Description: "List illness courses with their duration in days",
	}, s.handleListCourses)

	// get_course_timeline
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_course_timeline",
		Description: "Get a course's records grouped by day of illness, newest day first",
	}, s.handleGetCourseTimeline)

	// set_course_status
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_course_status",
		Description: "Mark a course recovered or reopen it as active",
	}, s.handleSetCourseStatus)

	// delete_course
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_course",
		Description: "Delete a course. Linked records are kept",
	}, s.handleDeleteCourse)

	// get_calendar
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_calendar",
		Description: "Get the days of a month that have symptom or medication records",
	}, s.handleGetCalendar)

	// top_body_parts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "top_body_parts",
		Description: "Rank body parts by number of symptom records",
	}, s.handleTopBodyParts)
}

// Tool input/output types

type addSymptomInput struct {
	BodyPart    string `json:"body_part" jsonschema:"Affected body part, e.g. 头部 or a custom part"`
	Severity    int    `json:"severity" jsonschema:"Severity from 1 (mild) to 10 (severe)"`
	Note        string `json:"note,omitempty" jsonschema:"Optional free-text note"`
	Date        string `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD) or timestamp (ISO 8601), defaults to now"`
	Course      string `json:"course,omitempty" jsonschema:"Course ID, ID prefix, or name to link the record to"`
	Progression bool   `json:"progression,omitempty" jsonschema:"Mark as a turning point in the linked course"`
}

type addMedicationInput struct {
	Name        string `json:"name" jsonschema:"Medication name"`
	Method      string `json:"method,omitempty" jsonschema:"oral, external, injection, inhalation, or other (default oral)"`
	MethodLabel string `json:"method_label,omitempty" jsonschema:"Custom method label, required when method is other"`
	Dosage      string `json:"dosage,omitempty" jsonschema:"Dosage, e.g. 200mg"`
	Reason      string `json:"reason,omitempty" jsonschema:"Why it was taken"`
	Date        string `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD) or timestamp (ISO 8601), defaults to now"`
	Course      string `json:"course,omitempty" jsonschema:"Course ID, ID prefix, or name to link the record to"`
}

type recordOutput struct {
	Record  recordView `json:"record"`
	Message string     `json:"message"`
}

type listRecordsInput struct {
	Type   string `json:"type,omitempty" jsonschema:"Filter by record type: symptom or medication"`
	Course string `json:"course,omitempty" jsonschema:"Only records linked to this course (ID, prefix, or name)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type searchRecordsInput struct {
	Query string `json:"query" jsonschema:"Text to look for. Empty returns every record"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type recordsOutput struct {
	Records []recordView `json:"records"`
	Total   int          `json:"total"`
	Message string       `json:"message"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type addCourseInput struct {
	Name         string `json:"name" jsonschema:"Course name, e.g. 感冒"`
	StartDate    string `json:"start_date,omitempty" jsonschema:"Start date (YYYY-MM-DD), defaults to today"`
	Symptoms     string `json:"symptoms,omitempty" jsonschema:"Summary of initial symptoms"`
	VisitDate    string `json:"visit_date,omitempty" jsonschema:"Doctor visit date (YYYY-MM-DD). Setting it records a visit"`
	Department   string `json:"department,omitempty" jsonschema:"Hospital department"`
	Diagnosis    string `json:"diagnosis,omitempty" jsonschema:"Diagnosis"`
	Prescription string `json:"prescription,omitempty" jsonschema:"Prescription"`
}

type courseOutput struct {
	Course  courseView `json:"course"`
	Message string     `json:"message"`
}

type listCoursesInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status: active or recovered"`
}

type coursesOutput struct {
	Courses []courseView `json:"courses"`
	Message string       `json:"message"`
}

type courseRefInput struct {
	Course string `json:"course" jsonschema:"Course ID, ID prefix, or name"`
}

type timelineOutput struct {
	Course      courseView   `json:"course"`
	Timeline    []bucketView `json:"timeline"`
	Progression []recordView `json:"progression"`
}

type setCourseStatusInput struct {
	Course string `json:"course" jsonschema:"Course ID, ID prefix, or name"`
	Status string `json:"status" jsonschema:"active or recovered"`
}

type calendarInput struct {
	Year  int `json:"year,omitempty" jsonschema:"Year, defaults to the current year"`
	Month int `json:"month,omitempty" jsonschema:"Month 1-12, defaults to the current month"`
}

type calendarDay struct {
	Day        int  `json:"day"`
	HasSymptom bool `json:"has_symptom"`
	HasMed     bool `json:"has_med"`
}

type calendarOutput struct {
	Year          int           `json:"year"`
	Month         int           `json:"month"`
	DaysInMonth   int           `json:"days_in_month"`
	LeadingBlanks int           `json:"leading_blanks"`
	Days          []calendarDay `json:"days"`
}

type topBodyPartsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Number of body parts to return (default 5)"`
}

type topBodyPartsOutput struct {
	Entries []insights.FrequencyEntry `json:"entries"`
}

// Tool handlers

func (s *Server) handleAddSymptom(ctx context.Context, req *mcp.CallToolRequest, input addSymptomInput) (*mcp.CallToolResult, recordOutput, error) {
	r, err := models.NewSymptom(input.BodyPart, input.Severity)
	if err != nil {
		return nil, recordOutput{}, err
	}
	if err := s.prepareRecord(r, input.Date, input.Course); err != nil {
		return nil, recordOutput{}, err
	}
	if err := models.CheckProgression(input.Progression, r.CourseID); err != nil {
		return nil, recordOutput{}, err
	}
	r.WithNote(input.Note).AsProgression(input.Progression)

	if err := s.store.AddRecord(r); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add symptom: %w", err)
	}
	if !models.IsDefaultBodyPart(r.Symptom.BodyPart) {
		if _, err := s.store.AddCustomBodyPart(r.Symptom.BodyPart); err != nil {
			return nil, recordOutput{}, fmt.Errorf("failed to remember body part: %w", err)
		}
	}

	return nil, recordOutput{
		Record:  newRecordView(r),
		Message: fmt.Sprintf("Added symptom %s %d/10 (ID: %s)", r.Symptom.BodyPart, r.Symptom.Severity, r.ID[:8]),
	}, nil
}

func (s *Server) handleAddMedication(ctx context.Context, req *mcp.CallToolRequest, input addMedicationInput) (*mcp.CallToolResult, recordOutput, error) {
	method := models.Method(input.Method)
	if method == "" {
		method = models.MethodOral
	}
	if !models.IsValidMethod(string(method)) {
		return nil, recordOutput{}, fmt.Errorf("unknown method %q (valid: %s)", method, methodList())
	}
	r, err := models.NewMedication(input.Name, method, input.MethodLabel)
	if err != nil {
		return nil, recordOutput{}, err
	}
	if err := s.prepareRecord(r, input.Date, input.Course); err != nil {
		return nil, recordOutput{}, err
	}
	r.WithDosage(input.Dosage).WithReason(input.Reason)

	if err := s.store.AddRecord(r); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add medication: %w", err)
	}
	if _, err := s.store.AddCustomMedicationName(r.Medication.Name); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to remember medication: %w", err)
	}

	return nil, recordOutput{
		Record:  newRecordView(r),
		Message: fmt.Sprintf("Added medication %s (%s) (ID: %s)", r.Medication.Name, r.Medication.MethodDisplay(), r.ID[:8]),
	}, nil
}

// prepareRecord applies the shared date and course inputs to a new record.
func (s *Server) prepareRecord(r *models.Record, date, course string) error {
	ts, err := dates.RecordTime(date, s.now())
	if err != nil {
		return err
	}
	r.WithTimestamp(ts)

	if course != "" {
		c, err := s.store.FindCourse(course)
		if err != nil {
			return fmt.Errorf("course %q: %w", course, err)
		}
		r.WithCourse(c.ID)
	}
	return nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, recordsOutput, error) {
	records := s.store.Records()

	if input.Course != "" {
		c, err := s.store.FindCourse(input.Course)
		if err != nil {
			return nil, recordsOutput{}, fmt.Errorf("course %q: %w", input.Course, err)
		}
		records = insights.ForCourse(records, c.ID)
	}
	if input.Type != "" {
		filtered := make([]*models.Record, 0, len(records))
		for _, r := range records {
			if string(r.Type) == input.Type {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	return nil, limitRecords(insights.SortNewestFirst(records), input.Limit), nil
}

func (s *Server) handleSearchRecords(ctx context.Context, req *mcp.CallToolRequest, input searchRecordsInput) (*mcp.CallToolResult, recordsOutput, error) {
	matches := insights.Search(s.store.Records(), s.store.Courses(), input.Query)
	return nil, limitRecords(insights.SortNewestFirst(matches), input.Limit), nil
}

func limitRecords(records []*models.Record, limit int) recordsOutput {
	if limit <= 0 {
		limit = defaultListLimit
	}
	total := len(records)
	if len(records) > limit {
		records = records[:limit]
	}

	out := recordsOutput{Records: newRecordViews(records), Total: total}
	switch {
	case total == 0:
		out.Message = "No records found."
	case total > len(records):
		out.Message = fmt.Sprintf("Showing %d of %d records.", len(records), total)
	default:
		out.Message = fmt.Sprintf("Found %d records.", total)
	}
	return out
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	r, err := s.store.DeleteRecord(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete record: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted %s: %s", r.Type, r.Title()),
	}, nil
}

func (s *Server) handleAddCourse(ctx context.Context, req *mcp.CallToolRequest, input addCourseInput) (*mcp.CallToolResult, courseOutput, error) {
	now := s.now()
	start := now
	if input.StartDate != "" {
		var err error
		if start, err = dates.ParseDate(input.StartDate); err != nil {
			return nil, courseOutput{}, err
		}
	}

	c, err := models.NewCourse(input.Name, start)
	if err != nil {
		return nil, courseOutput{}, err
	}
	c.WithSymptoms(input.Symptoms)
	if input.VisitDate != "" {
		visit, err := dates.ParseDate(input.VisitDate)
		if err != nil {
			return nil, courseOutput{}, err
		}
		c.WithDoctorVisit(visit, input.Department, input.Diagnosis, input.Prescription)
	}

	if err := s.store.AddCourse(c); err != nil {
		return nil, courseOutput{}, fmt.Errorf("failed to add course: %w", err)
	}

	return nil, courseOutput{
		Course:  newCourseView(c, now),
		Message: fmt.Sprintf("Started course %s on %s (ID: %s)", c.Name, dates.FormatDateOnly(c.StartDate), c.ID[:8]),
	}, nil
}

func (s *Server) handleListCourses(ctx context.Context, req *mcp.CallToolRequest, input listCoursesInput) (*mcp.CallToolResult, coursesOutput, error) {
	if input.Status != "" && !models.IsValidStatus(input.Status) {
		return nil, coursesOutput{}, fmt.Errorf("unknown status: %s", input.Status)
	}

	now := s.now()
	out := coursesOutput{Courses: make([]courseView, 0)}
	for _, c := range s.store.Courses() {
		if input.Status == "" || string(c.Status) == input.Status {
			out.Courses = append(out.Courses, newCourseView(c, now))
		}
	}
	if len(out.Courses) == 0 {
		out.Message = "No courses found."
	} else {
		out.Message = fmt.Sprintf("Found %d courses.", len(out.Courses))
	}
	return nil, out, nil
}

func (s *Server) handleGetCourseTimeline(ctx context.Context, req *mcp.CallToolRequest, input courseRefInput) (*mcp.CallToolResult, timelineOutput, error) {
	c, err := s.store.FindCourse(input.Course)
	if err != nil {
		return nil, timelineOutput{}, fmt.Errorf("course %q: %w", input.Course, err)
	}
	records := s.store.Records()

	return nil, timelineOutput{
		Course:      newCourseView(c, s.now()),
		Timeline:    newBucketViews(insights.BuildTimeline(c, records)),
		Progression: newRecordViews(insights.ProgressionPoints(c, records)),
	}, nil
}

func (s *Server) handleSetCourseStatus(ctx context.Context, req *mcp.CallToolRequest, input setCourseStatusInput) (*mcp.CallToolResult, courseOutput, error) {
	if !models.IsValidStatus(input.Status) {
		return nil, courseOutput{}, fmt.Errorf("unknown status: %s", input.Status)
	}
	c, err := s.store.FindCourse(input.Course)
	if err != nil {
		return nil, courseOutput{}, fmt.Errorf("course %q: %w", input.Course, err)
	}
	updated, err := s.store.SetCourseStatus(c.ID, models.CourseStatus(input.Status))
	if err != nil {
		return nil, courseOutput{}, fmt.Errorf("failed to update course: %w", err)
	}

	view := newCourseView(updated, s.now())
	msg := fmt.Sprintf("Reopened %s", updated.Name)
	if updated.Status == models.StatusRecovered {
		msg = fmt.Sprintf("Marked %s recovered after %d days", updated.Name, view.DurationDays)
	}
	return nil, courseOutput{Course: view, Message: msg}, nil
}

func (s *Server) handleDeleteCourse(ctx context.Context, req *mcp.CallToolRequest, input courseRefInput) (*mcp.CallToolResult, simpleOutput, error) {
	c, err := s.store.FindCourse(input.Course)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("course %q: %w", input.Course, err)
	}
	if _, err := s.store.DeleteCourse(c.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete course: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted course: %s", c.Name),
	}, nil
}

func (s *Server) handleGetCalendar(ctx context.Context, req *mcp.CallToolRequest, input calendarInput) (*mcp.CallToolResult, calendarOutput, error) {
	now := s.now()
	year, month := input.Year, input.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, calendarOutput{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}

	grid := insights.BuildMonthGrid(s.store.Records(), year, time.Month(month))
	out := calendarOutput{
		Year:          grid.Year,
		Month:         int(grid.Month),
		DaysInMonth:   len(grid.Days),
		LeadingBlanks: grid.LeadingBlanks,
		Days:          make([]calendarDay, 0, len(grid.DayStatus)),
	}
	for _, day := range grid.Days {
		if st, ok := grid.DayStatus[day]; ok {
			out.Days = append(out.Days, calendarDay{Day: day, HasSymptom: st.HasSymptom, HasMed: st.HasMed})
		}
	}
	return nil, out, nil
}

func (s *Server) handleTopBodyParts(ctx context.Context, req *mcp.CallToolRequest, input topBodyPartsInput) (*mcp.CallToolResult, topBodyPartsOutput, error) {
	return nil, topBodyPartsOutput{
		Entries: insights.TopBodyParts(s.store.Records(), input.Limit),
	}, nil
}

func methodList() string {
	names := make([]string, len(models.AllMethods))
	for i, m := range models.AllMethods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
