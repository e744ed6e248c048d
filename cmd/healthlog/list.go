// ABOUTME: CLI commands for listing, searching, and showing records.
// ABOUTME: Supports filtering by type or course and limiting results.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/insights"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	listType   string
	listCourse string
	listLimit  int

	searchLimit int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List records",
	Long: `List recent records, newest first.

OUTPUT FORMAT:

  Each line shows: ID  DATE  KIND  NAME  DETAILS  [COURSE]

  The ID is an 8-character prefix you can use with show, edit, and delete.

EXAMPLES:

  healthlog list                     # Last 20 records
  healthlog list --type medication   # Only medications
  healthlog list --course 感冒 -n 50  # Records of one course`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listType != "" && listType != string(models.RecordSymptom) && listType != string(models.RecordMedication) {
			return fmt.Errorf("unknown record type: %s (use symptom or medication)", listType)
		}

		records := store.Records()
		if listCourse != "" {
			courseID, err := findCourseFlag(listCourse)
			if err != nil {
				return err
			}
			records = insights.ForCourse(records, courseID)
		}
		if listType != "" {
			filtered := make([]*models.Record, 0, len(records))
			for _, r := range records {
				if string(r.Type) == listType {
					filtered = append(filtered, r)
				}
			}
			records = filtered
		}

		printRecords(insights.SortNewestFirst(records), listLimit, "No records found.")
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"find"},
	Short:   "Search records",
	Long: `Search records by medication name, body part, note, date, or course name.

Matching is a case-insensitive substring test. Dates match the display
form, e.g. "3月8日".

EXAMPLES:

  healthlog search 布洛芬
  healthlog search 3月8日
  healthlog search 甲流`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		matches := insights.Search(store.Records(), store.Courses(), query)
		printRecords(insights.SortNewestFirst(matches), searchLimit, fmt.Sprintf("No records match %q.", query))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a record in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := store.GetRecord(args[0])
		if err != nil {
			return fmt.Errorf("record not found: %w", err)
		}

		bold := color.New(color.Bold)
		bold.Printf("%s %s\n", r.Type, r.Title())
		fmt.Printf("  ID:       %s\n", r.ID)
		fmt.Printf("  When:     %s %s\n", dates.FormatDateOnly(r.Timestamp), dates.FormatTimeOnly(r.Timestamp))
		if r.CourseID != "" {
			name := courseNames()[r.CourseID]
			if name == "" {
				name = faint.Sprint("(deleted course)")
			}
			fmt.Printf("  Course:   %s\n", name)
		}

		switch {
		case r.IsSymptom():
			fmt.Printf("  Severity: %d/10\n", r.Symptom.Severity)
			if r.Symptom.IsProgression {
				fmt.Printf("  Marked as a progression point\n")
			}
			if r.Symptom.Note != "" {
				fmt.Printf("  Note:     %s\n", r.Symptom.Note)
			}
		case r.IsMedication():
			fmt.Printf("  Method:   %s\n", r.Medication.MethodDisplay())
			if r.Medication.Dosage != "" {
				fmt.Printf("  Dosage:   %s\n", r.Medication.Dosage)
			}
			if r.Medication.Reason != "" {
				fmt.Printf("  Reason:   %s\n", r.Medication.Reason)
			}
		}
		return nil
	},
}

func printRecords(records []*models.Record, limit int, empty string) {
	if len(records) == 0 {
		fmt.Println(empty)
		return
	}
	total := len(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	names := courseNames()
	for _, r := range records {
		printRecord(r, names)
	}
	if total > len(records) {
		fmt.Println(faint.Sprintf("(%d of %d shown)", len(records), total))
	}
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "filter by record type (symptom, medication)")
	listCmd.Flags().StringVarP(&listCourse, "course", "c", "", "only records of this course")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 50, "max number of results")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
}
