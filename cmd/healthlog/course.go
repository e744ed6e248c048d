// ABOUTME: CLI commands for illness courses: start, list, timeline, status, edit, delete.
// ABOUTME: Courses are referenced by ID, ID prefix, or exact name.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/insights"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	courseStart        string
	courseSymptoms     string
	courseVisit        string
	courseDepartment   string
	courseDiagnosis    string
	coursePrescription string
	courseStatusFilter string

	courseEditName string
)

var courseCmd = &cobra.Command{
	Use:     "course",
	Aliases: []string{"courses"},
	Short:   "Manage illness courses",
	Long: `A course is one illness from onset to recovery. Link records to a course
with --course to see a day-by-day timeline.

EXAMPLES:

  healthlog course add 甲流 --start 2025-03-01 --symptoms "高烧 咳嗽"
  healthlog course list
  healthlog course show 甲流
  healthlog course recover 甲流
  healthlog course reopen 甲流`,
}

var courseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Start a new course",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		if courseStart != "" {
			var err error
			if start, err = dates.ParseDate(courseStart); err != nil {
				return fmt.Errorf("invalid start date: %s", courseStart)
			}
		}

		c, err := models.NewCourse(strings.Join(args, " "), start)
		if err != nil {
			return err
		}
		c.WithSymptoms(courseSymptoms)
		if err := applyVisitFlags(cmd, c); err != nil {
			return err
		}

		if err := store.AddCourse(c); err != nil {
			return fmt.Errorf("failed to add course: %w", err)
		}

		color.Green("✓ Started course %s", c.Name)
		fmt.Printf("  %s\n", faint.Sprintf("ID: %s  since %s", shortID(c.ID), dates.FormatDateOnly(c.StartDate)))
		return nil
	},
}

var courseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		if courseStatusFilter != "" && !models.IsValidStatus(courseStatusFilter) {
			return fmt.Errorf("unknown status: %s (use active or recovered)", courseStatusFilter)
		}

		now := time.Now()
		shown := 0
		for _, c := range store.Courses() {
			if courseStatusFilter != "" && string(c.Status) != courseStatusFilter {
				continue
			}
			shown++
			status := color.YellowString("active   ")
			if c.Status == models.StatusRecovered {
				status = color.GreenString("recovered")
			}
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(c.ID)),
				status,
				padRight(c.Name, 12),
				faint.Sprint(courseSpan(c, now)))
		}
		if shown == 0 {
			fmt.Println("No courses found.")
		}
		return nil
	},
}

var courseShowCmd = &cobra.Command{
	Use:     "show <course>",
	Aliases: []string{"timeline"},
	Short:   "Show a course and its day-by-day timeline",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := store.FindCourse(args[0])
		if err != nil {
			return fmt.Errorf("course %q: %w", args[0], err)
		}
		records := store.Records()

		bold := color.New(color.Bold)
		bold.Printf("%s\n", c.Name)
		fmt.Printf("  ID:       %s\n", c.ID)
		fmt.Printf("  Status:   %s\n", c.Status)
		fmt.Printf("  Span:     %s\n", courseSpan(c, time.Now()))
		if c.Symptoms != "" {
			fmt.Printf("  Symptoms: %s\n", c.Symptoms)
		}
		if c.HasDoctorVisit {
			fmt.Printf("  Visit:    %s %s\n", dates.FormatDateOnly(c.VisitDate), c.Department)
			if c.Diagnosis != "" {
				fmt.Printf("  Diagnosis: %s\n", c.Diagnosis)
			}
			if c.Prescription != "" {
				fmt.Printf("  Prescription: %s\n", c.Prescription)
			}
		}

		if points := insights.ProgressionPoints(c, records); len(points) > 0 {
			fmt.Println()
			bold.Println("Progression")
			for _, r := range points {
				fmt.Printf("  %s  %s %d/10 %s\n",
					dates.FormatForDisplay(r.Timestamp), r.Symptom.BodyPart, r.Symptom.Severity, faint.Sprint(r.Symptom.Note))
			}
		}

		timeline := insights.BuildTimeline(c, records)
		fmt.Println()
		if len(timeline) == 0 {
			fmt.Println("No records linked to this course yet.")
			return nil
		}
		for _, bucket := range timeline {
			color.Cyan("Day %d", bucket.Day)
			for _, r := range bucket.Records {
				printRecord(r, nil)
			}
		}
		return nil
	},
}

var courseRecoverCmd = &cobra.Command{
	Use:   "recover <course>",
	Short: "Mark a course as recovered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCourseStatus(args[0], models.StatusRecovered)
	},
}

var courseReopenCmd = &cobra.Command{
	Use:   "reopen <course>",
	Short: "Mark a recovered course as active again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCourseStatus(args[0], models.StatusActive)
	},
}

var courseEditCmd = &cobra.Command{
	Use:   "edit <course>",
	Short: "Edit a course",
	Long: `Edit fields of a course. Only the flags you pass are changed.

EXAMPLES:

  healthlog course edit 甲流 --name 乙流
  healthlog course edit 甲流 --visit 2025-03-03 --department 呼吸科 --diagnosis 乙型流感`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := store.FindCourse(args[0])
		if err != nil {
			return fmt.Errorf("course %q: %w", args[0], err)
		}
		flags := cmd.Flags()

		if flags.Changed("name") {
			c.Name = strings.TrimSpace(courseEditName)
		}
		if flags.Changed("start") {
			start, err := dates.ParseDate(courseStart)
			if err != nil {
				return fmt.Errorf("invalid start date: %s", courseStart)
			}
			c.StartDate = start
		}
		if flags.Changed("symptoms") {
			c.WithSymptoms(courseSymptoms)
		}
		if err := applyVisitFlags(cmd, c); err != nil {
			return err
		}

		if err := store.UpdateCourse(c); err != nil {
			return fmt.Errorf("failed to update course: %w", err)
		}
		color.Green("✓ Updated course %s", c.Name)
		return nil
	},
}

var courseDeleteCmd = &cobra.Command{
	Use:     "delete <course>",
	Aliases: []string{"rm"},
	Short:   "Delete a course (linked records are kept)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := store.FindCourse(args[0])
		if err != nil {
			return fmt.Errorf("course %q: %w", args[0], err)
		}
		if _, err := store.DeleteCourse(c.ID); err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		color.Yellow("✗ Deleted course %s", c.Name)
		linked := len(insights.ForCourse(store.Records(), c.ID))
		if linked > 0 {
			fmt.Printf("  %s\n", faint.Sprintf("%d linked records were kept", linked))
		}
		return nil
	},
}

func setCourseStatus(ref string, status models.CourseStatus) error {
	c, err := store.FindCourse(ref)
	if err != nil {
		return fmt.Errorf("course %q: %w", ref, err)
	}
	updated, err := store.SetCourseStatus(c.ID, status)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	if updated.Status == models.StatusRecovered {
		days, _ := insights.CourseDuration(updated, time.Now())
		color.Green("✓ %s recovered after %d days", updated.Name, days)
	} else {
		color.Green("✓ Reopened %s", updated.Name)
	}
	return nil
}

// applyVisitFlags records a doctor visit when --visit was given. The other
// visit fields may be edited on their own once a visit exists.
func applyVisitFlags(cmd *cobra.Command, c *models.Course) error {
	flags := cmd.Flags()
	if flags.Changed("visit") {
		visit, err := dates.ParseDate(courseVisit)
		if err != nil {
			return fmt.Errorf("invalid visit date: %s", courseVisit)
		}
		c.WithDoctorVisit(visit, c.Department, c.Diagnosis, c.Prescription)
	}
	if flags.Changed("department") || flags.Changed("diagnosis") || flags.Changed("prescription") {
		if !c.HasDoctorVisit {
			return fmt.Errorf("--visit is required to record a doctor visit")
		}
	}
	if flags.Changed("department") {
		c.Department = courseDepartment
	}
	if flags.Changed("diagnosis") {
		c.Diagnosis = courseDiagnosis
	}
	if flags.Changed("prescription") {
		c.Prescription = coursePrescription
	}
	return nil
}

// courseSpan describes when a course ran and for how long.
func courseSpan(c *models.Course, now time.Time) string {
	days, ok := insights.CourseDuration(c, now)
	if !ok {
		return "unknown dates"
	}
	start := dates.FormatDateOnly(c.StartDate)
	if c.Status == models.StatusRecovered && c.EndDate != nil {
		return fmt.Sprintf("%s - %s, %d days", start, dates.FormatDateOnly(*c.EndDate), days)
	}
	return fmt.Sprintf("since %s, day %d", start, days)
}

func addCourseFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&courseStart, "start", "", "start date (default: today)")
	f.StringVar(&courseSymptoms, "symptoms", "", "summary of symptoms")
	f.StringVar(&courseVisit, "visit", "", "doctor visit date")
	f.StringVar(&courseDepartment, "department", "", "department visited")
	f.StringVar(&courseDiagnosis, "diagnosis", "", "diagnosis")
	f.StringVar(&coursePrescription, "prescription", "", "prescription")
}

func init() {
	addCourseFlags(courseAddCmd)
	addCourseFlags(courseEditCmd)
	courseEditCmd.Flags().StringVar(&courseEditName, "name", "", "new course name")
	courseListCmd.Flags().StringVarP(&courseStatusFilter, "status", "s", "", "filter by status (active, recovered)")

	courseCmd.AddCommand(courseAddCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseShowCmd)
	courseCmd.AddCommand(courseRecoverCmd)
	courseCmd.AddCommand(courseReopenCmd)
	courseCmd.AddCommand(courseEditCmd)
	courseCmd.AddCommand(courseDeleteCmd)
	rootCmd.AddCommand(courseCmd)
}
