// ABOUTME: CLI commands for logging symptoms and medications.
// ABOUTME: Anchors backdated entries and links them to courses and custom vocabularies.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	symptomDate        string
	symptomNote        string
	symptomCourse      string
	symptomProgression bool

	medMethod string
	medLabel  string
	medDosage string
	medReason string
	medDate   string
	medCourse string
)

var symptomCmd = &cobra.Command{
	Use:     "symptom <body-part> <severity>",
	Aliases: []string{"sym"},
	Short:   "Log a symptom",
	Long: `Log a symptom with a body part and a severity from 1 (mild) to 10 (severe).

BODY PARTS:

  头部 眼部 呼吸道 心脏 胃肠 皮肤 关节 肌肉 睡眠/精神 体温
  Any other value is accepted and remembered as a custom body part.

DATES:

  Without --date the current time is used. A past date without a time is
  stored at 12:00 that day.

EXAMPLES:

  healthlog symptom 头部 6
  healthlog symptom 体温 8 --note "39.2" --course 甲流 --progression
  healthlog sym 胃肠 3 --date 2025-03-01`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		severity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid severity: %s", args[1])
		}

		r, err := models.NewSymptom(args[0], severity)
		if err != nil {
			return err
		}
		ts, err := recordTime(symptomDate)
		if err != nil {
			return err
		}
		courseID, err := findCourseFlag(symptomCourse)
		if err != nil {
			return err
		}
		if err := models.CheckProgression(symptomProgression, courseID); err != nil {
			return err
		}
		r.WithTimestamp(ts).WithCourse(courseID).WithNote(symptomNote).AsProgression(symptomProgression)

		if err := store.AddRecord(r); err != nil {
			return fmt.Errorf("failed to add symptom: %w", err)
		}
		if added, err := store.AddCustomBodyPart(r.Symptom.BodyPart); err != nil {
			return fmt.Errorf("failed to remember body part: %w", err)
		} else if added {
			fmt.Printf("  %s\n", faint.Sprintf("remembered new body part %s", r.Symptom.BodyPart))
		}

		color.Green("✓ Added symptom")
		printRecord(r, courseNames())
		return nil
	},
}

var medCmd = &cobra.Command{
	Use:     "med <name>",
	Aliases: []string{"medication"},
	Short:   "Log a medication",
	Long: `Log a medication taken.

METHODS:

  oral (口服, default), external (外用), injection (注射),
  inhalation (吸入), other (其他, requires --label)

EXAMPLES:

  healthlog med 布洛芬 --dosage 200mg --reason 头痛
  healthlog med 沙丁胺醇 --method inhalation --course 支气管炎
  healthlog med 艾灸 --method other --label 理疗 --date 2025-03-02`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidMethod(medMethod) {
			return fmt.Errorf("unknown method: %s\nValid methods: oral, external, injection, inhalation, other", medMethod)
		}

		r, err := models.NewMedication(strings.Join(args, " "), models.Method(medMethod), medLabel)
		if err != nil {
			return err
		}
		ts, err := recordTime(medDate)
		if err != nil {
			return err
		}
		courseID, err := findCourseFlag(medCourse)
		if err != nil {
			return err
		}
		r.WithTimestamp(ts).WithCourse(courseID).WithDosage(medDosage).WithReason(medReason)

		if err := store.AddRecord(r); err != nil {
			return fmt.Errorf("failed to add medication: %w", err)
		}
		if _, err := store.AddCustomMedicationName(r.Medication.Name); err != nil {
			return fmt.Errorf("failed to remember medication: %w", err)
		}

		color.Green("✓ Added medication")
		printRecord(r, courseNames())
		return nil
	},
}

func init() {
	symptomCmd.Flags().StringVarP(&symptomDate, "date", "d", "", "date or timestamp (default: now)")
	symptomCmd.Flags().StringVar(&symptomNote, "note", "", "free-text note")
	symptomCmd.Flags().StringVarP(&symptomCourse, "course", "c", "", "course ID, prefix, or name")
	symptomCmd.Flags().BoolVarP(&symptomProgression, "progression", "p", false, "mark as a turning point in the course")

	medCmd.Flags().StringVarP(&medMethod, "method", "m", string(models.MethodOral), "how it was taken")
	medCmd.Flags().StringVar(&medLabel, "label", "", "method label (required for --method other)")
	medCmd.Flags().StringVar(&medDosage, "dosage", "", "dosage, e.g. 200mg")
	medCmd.Flags().StringVar(&medReason, "reason", "", "why it was taken")
	medCmd.Flags().StringVarP(&medDate, "date", "d", "", "date or timestamp (default: now)")
	medCmd.Flags().StringVarP(&medCourse, "course", "c", "", "course ID, prefix, or name")

	rootCmd.AddCommand(symptomCmd)
	rootCmd.AddCommand(medCmd)
}
