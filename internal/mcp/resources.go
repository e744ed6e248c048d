// ABOUTME: MCP resource implementations for the health log.
// ABOUTME: Provides healthlog://today, healthlog://courses/active, and healthlog://summary.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/insights"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriToday         = "healthlog://today"
	uriActiveCourses = "healthlog://courses/active"
	uriSummary       = "healthlog://summary"
)

func (s *Server) registerResources() {
	// healthlog://today - records logged today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriToday,
		Name:        "Today's Records",
		Description: "Symptoms and medications logged today, newest first",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// healthlog://courses/active - ongoing illness courses
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriActiveCourses,
		Name:        "Active Courses",
		Description: "Ongoing illness courses with their current day and timeline",
		MIMEType:    "application/json",
	}, s.handleActiveCoursesResource)

	// healthlog://summary - dashboard
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriSummary,
		Name:        "Health Log Summary",
		Description: "Record counts, active courses, and top body parts",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.now()
	summary := insights.Summarize(s.store.Records(), nil, now)

	result := map[string]any{
		"date":    dates.FormatDateOnly(now),
		"records": newRecordViews(summary.Today),
		"count":   len(summary.Today),
	}
	return jsonResource(uriToday, result)
}

func (s *Server) handleActiveCoursesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.now()
	records := s.store.Records()

	courses := make([]map[string]any, 0)
	for _, c := range s.store.Courses() {
		if !c.IsActive() {
			continue
		}
		courses = append(courses, map[string]any{
			"course":   newCourseView(c, now),
			"day":      dates.DaysElapsedSince(c.StartDate, now),
			"timeline": newBucketViews(insights.BuildTimeline(c, records)),
		})
	}

	return jsonResource(uriActiveCourses, map[string]any{
		"courses": courses,
		"count":   len(courses),
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.now()
	records := s.store.Records()
	summary := insights.Summarize(records, s.store.Courses(), now)

	active := make([]map[string]any, 0, len(summary.ActiveCourses))
	for _, ac := range summary.ActiveCourses {
		active = append(active, map[string]any{
			"id":   ac.Course.ID,
			"name": ac.Course.Name,
			"day":  ac.Day,
		})
	}

	result := map[string]any{
		"generated_at":     now.Format("2006-01-02T15:04:05Z07:00"),
		"symptom_count":    summary.SymptomCount,
		"medication_count": summary.MedicationCount,
		"active_courses":   active,
		"today":            newRecordViews(summary.Today),
		"top_body_parts":   insights.TopBodyParts(records, insights.DefaultTopLimit),
	}
	return jsonResource(uriSummary, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
