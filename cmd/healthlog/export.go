// ABOUTME: CLI commands for exporting and importing health-log data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/dates"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string

	importMerge bool
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export health-log data",
	Long: `Export health-log data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Course timelines and daily records as Markdown

OPTIONS:

  --output, -o   Write to file instead of stdout ("auto" picks health_backup_YYYY-MM-DD.json)
  --since        Only include records since this date (markdown only)

EXAMPLES:

  healthlog export json                         # Export all data as JSON
  healthlog export json -o auto                 # Save a dated backup file
  healthlog export yaml                         # Export as YAML
  healthlog export markdown --since 2025-03-01  # Records from March onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = store.ExportJSON()
		case "yaml":
			data, err = store.ExportYAML()
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, perr := dates.ParseDate(exportSince)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var md string
			md, err = store.ExportMarkdown(since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		output := exportOutput
		if output == "auto" {
			output = storage.BackupFileName(time.Now())
		}
		if output != "" {
			if err := os.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", output)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import health-log data from JSON",
	Long: `Import health-log data from a JSON backup file.

Every collection present in the file replaces the current one. Collections
missing from the file are left alone. With --merge, entries whose ID already
exists are skipped instead.

EXAMPLES:

  healthlog import health_backup_2025-03-10.json
  healthlog import old.json --merge`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		summary, report, err := store.ImportJSON(data, importMerge)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		warnLoadReport(report)

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  %d records, %d courses, %d body parts, %d medication names\n",
			summary.Records, summary.Courses, summary.BodyParts, summary.Medications)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout, auto for a dated backup name)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include records since date (YYYY-MM-DD)")
	importCmd.Flags().BoolVar(&importMerge, "merge", false, "keep existing data and add only new entries")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
