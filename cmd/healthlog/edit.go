// ABOUTME: CLI commands for editing and deleting records.
// ABOUTME: Only flags that were explicitly set are applied to the record.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	editDate        string
	editCourse      string
	editBodyPart    string
	editSeverity    string
	editNote        string
	editProgression bool
	editName        string
	editMethod      string
	editLabel       string
	editDosage      string
	editReason      string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a record",
	Long: `Edit fields of an existing record. Only the flags you pass are changed.

A bare --date moves the record to that day and keeps its clock time.
Use --course none to unlink a record from its course.

EXAMPLES:

  healthlog edit a1b2c3d4 --severity 4
  healthlog edit a1b2c3d4 --date 2025-03-07
  healthlog edit a1b2c3d4 --course none
  healthlog edit e5f6a7b8 --dosage 400mg --reason 发热`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := store.GetRecord(args[0])
		if err != nil {
			return fmt.Errorf("record not found: %w", err)
		}
		flags := cmd.Flags()

		if flags.Changed("date") {
			ts, err := dates.EditTime(editDate, r.Timestamp)
			if err != nil {
				return fmt.Errorf("invalid date: %s", editDate)
			}
			r.WithTimestamp(ts)
		}
		if flags.Changed("course") {
			courseID := ""
			if editCourse != "none" {
				if courseID, err = findCourseFlag(editCourse); err != nil {
					return err
				}
			}
			r.WithCourse(courseID)
		}

		switch {
		case r.IsSymptom():
			if err := rejectFlags(cmd, "symptom", "name", "method", "label", "dosage", "reason"); err != nil {
				return err
			}
			if flags.Changed("body-part") {
				r.Symptom.BodyPart = editBodyPart
			}
			if flags.Changed("severity") {
				n, err := strconv.Atoi(editSeverity)
				if err != nil {
					return fmt.Errorf("invalid severity: %s", editSeverity)
				}
				r.Symptom.Severity = n
			}
			if flags.Changed("note") {
				r.WithNote(editNote)
			}
			if flags.Changed("progression") {
				if err := models.CheckProgression(editProgression, r.CourseID); err != nil {
					return err
				}
				r.AsProgression(editProgression)
			}
		case r.IsMedication():
			if err := rejectFlags(cmd, "medication", "body-part", "severity", "note", "progression"); err != nil {
				return err
			}
			if flags.Changed("name") {
				r.Medication.Name = editName
			}
			if flags.Changed("method") {
				if !models.IsValidMethod(editMethod) {
					return fmt.Errorf("unknown method: %s", editMethod)
				}
				r.Medication.Method = models.Method(editMethod)
				if r.Medication.Method != models.MethodOther {
					r.Medication.MethodLabel = ""
				}
			}
			if flags.Changed("label") {
				r.Medication.MethodLabel = editLabel
			}
			if flags.Changed("dosage") {
				r.WithDosage(editDosage)
			}
			if flags.Changed("reason") {
				r.WithReason(editReason)
			}
		}

		if err := store.UpdateRecord(r); err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}
		if r.IsSymptom() {
			if _, err := store.AddCustomBodyPart(r.Symptom.BodyPart); err != nil {
				return fmt.Errorf("failed to remember body part: %w", err)
			}
		} else if _, err := store.AddCustomMedicationName(r.Medication.Name); err != nil {
			return fmt.Errorf("failed to remember medication: %w", err)
		}

		color.Green("✓ Updated record")
		printRecord(r, courseNames())
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a record",
	Long: `Delete a record by ID or unique ID prefix.

EXAMPLES:

  healthlog delete a1b2c3d4     # Delete by 8-char prefix
  healthlog rm a1b2             # Short prefix (if unique)

CAUTION:

  This permanently deletes the record. There is no undo.
  If the prefix matches multiple records, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := store.DeleteRecord(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		color.Yellow("✗ Deleted %s", r.Type)
		printRecord(r, courseNames())
		return nil
	},
}

// rejectFlags errors when a flag that does not apply to kind was set.
func rejectFlags(cmd *cobra.Command, kind string, names ...string) error {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return fmt.Errorf("--%s does not apply to a %s record", name, kind)
		}
	}
	return nil
}

func init() {
	f := editCmd.Flags()
	f.StringVarP(&editDate, "date", "d", "", "new date or timestamp")
	f.StringVarP(&editCourse, "course", "c", "", "course ID, prefix, or name (none to unlink)")
	f.StringVar(&editBodyPart, "body-part", "", "symptom body part")
	f.StringVar(&editSeverity, "severity", "", "symptom severity 1-10")
	f.StringVar(&editNote, "note", "", "symptom note")
	f.BoolVarP(&editProgression, "progression", "p", false, "mark as a progression point")
	f.StringVar(&editName, "name", "", "medication name")
	f.StringVarP(&editMethod, "method", "m", "", "medication method")
	f.StringVar(&editLabel, "label", "", "method label for other")
	f.StringVar(&editDosage, "dosage", "", "medication dosage")
	f.StringVar(&editReason, "reason", "", "medication reason")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}
