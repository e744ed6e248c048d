// ABOUTME: CLI commands for calendar, body-part frequency, and dashboard views.
// ABOUTME: Renders insights computations as terminal grids and bars.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/insights"
	"github.com/spf13/cobra"
)

const barCells = 30

var statsLimit int

var calendarCmd = &cobra.Command{
	Use:     "calendar [YYYY-MM]",
	Aliases: []string{"cal"},
	Short:   "Show a month of symptom and medication days",
	Long: `Show a month calendar. Each day is marked:

  S  symptom recorded
  M  medication taken
  *  both

EXAMPLES:

  healthlog calendar           # Current month
  healthlog calendar 2025-03`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		year, month := now.Year(), now.Month()
		if len(args) == 1 {
			t, err := time.ParseInLocation("2006-01", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid month %q (use YYYY-MM)", args[0])
			}
			year, month = t.Year(), t.Month()
		}

		grid := insights.BuildMonthGrid(store.Records(), year, month)
		fmt.Print(renderMonthGrid(grid))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the most frequent symptom body parts",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := insights.TopBodyParts(store.Records(), statsLimit)
		if len(entries) == 0 {
			fmt.Println("No symptoms recorded yet.")
			return nil
		}

		top := entries[0].Count
		for _, e := range entries {
			cells := int(insights.BarWidth(e.Count, top) / 100 * barCells)
			if cells == 0 {
				cells = 1
			}
			fmt.Printf("%d. %s %s %d\n",
				e.Rank,
				padRight(e.BodyPart, 10),
				color.RedString(strings.Repeat("█", cells)),
				e.Count)
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"today"},
	Short:   "Show counts, active courses, and today's records",
	RunE: func(cmd *cobra.Command, args []string) error {
		sum := insights.Summarize(store.Records(), store.Courses(), time.Now())

		bold := color.New(color.Bold)
		bold.Println("Health log")
		fmt.Printf("  %d symptoms, %d medications\n", sum.SymptomCount, sum.MedicationCount)

		fmt.Println()
		bold.Println("Active courses")
		if len(sum.ActiveCourses) == 0 {
			fmt.Println(faint.Sprint("  none"))
		}
		for _, ac := range sum.ActiveCourses {
			fmt.Printf("  %s %s\n", padRight(ac.Course.Name, 12), color.YellowString("day %d", ac.Day))
		}

		fmt.Println()
		bold.Printf("Today (%s)\n", dates.FormatDateOnly(time.Now()))
		if len(sum.Today) == 0 {
			fmt.Println(faint.Sprint("  nothing logged"))
		}
		names := courseNames()
		for _, r := range sum.Today {
			printRecord(r, names)
		}
		return nil
	},
}

// renderMonthGrid lays out a Sunday-first month calendar.
func renderMonthGrid(grid insights.MonthGrid) string {
	var sb strings.Builder
	title := fmt.Sprintf("%d-%02d", grid.Year, int(grid.Month))
	sb.WriteString(fmt.Sprintf("%s%s\n", strings.Repeat(" ", (28-len(title))/2), title))
	sb.WriteString(" Su  Mo  Tu  We  Th  Fr  Sa\n")

	col := grid.LeadingBlanks
	sb.WriteString(strings.Repeat("    ", col))
	for _, day := range grid.Days {
		mark := " "
		st := grid.DayStatus[day]
		switch {
		case st.HasSymptom && st.HasMed:
			mark = "*"
		case st.HasSymptom:
			mark = "S"
		case st.HasMed:
			mark = "M"
		}
		sb.WriteString(fmt.Sprintf("%3d%s", day, mark))
		col++
		if col == 7 {
			sb.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

func init() {
	statsCmd.Flags().IntVarP(&statsLimit, "limit", "n", insights.DefaultTopLimit, "number of body parts to show")

	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(summaryCmd)
}
