// ABOUTME: Root Cobra command for the healthlog CLI.
// ABOUTME: Loads config and manages the store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/config"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg   *config.Config
	store *storage.Store

	flagDataDir string
	flagBackend string
)

// Commands that never touch the health log.
var storeless = map[string]bool{
	"help":          true,
	"version":       true,
	"completion":    true,
	"config":        true,
	"install-skill": true,
	"sync":          true,
	"migrate":       true,
}

var rootCmd = &cobra.Command{
	Use:   "healthlog",
	Short: "Personal symptom and medication log",
	Long: `Healthlog is a CLI tool for keeping a personal health log: symptoms,
medications, and illness courses.

WHAT IT TRACKS:

  Symptoms      body part + severity 1-10, with optional notes
  Medications   name + method (oral, external, injection, inhalation, other)
  Courses       an illness from onset to recovery, with doctor visits

QUICK START:

  $ healthlog symptom 头部 6 --note "午后加重"     # Log a headache
  $ healthlog med 布洛芬 --dosage 200mg           # Log a medication
  $ healthlog course add 感冒 --start 2025-03-01  # Start a course
  $ healthlog symptom 呼吸道 4 --course 感冒       # Link a record to it
  $ healthlog course show 感冒                    # Day-by-day timeline
  $ healthlog list                                # Recent records
  $ healthlog search 布洛芬                       # Search everything

STATISTICS:

  $ healthlog calendar 2025-03     # Month grid of symptom/medication days
  $ healthlog stats                # Most frequent body parts
  $ healthlog summary              # Dashboard

MCP INTEGRATION:

  Run 'healthlog mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "healthlog": { "command": "healthlog", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data is stored in SQLite at ~/.local/share/healthlog/healthlog.db by default.
  Use 'healthlog config set backend badger' to switch to BadgerDB.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}
		if flagBackend != "" {
			cfg.Backend = flagBackend
		}

		if storeless[cmd.Name()] || (cmd.Parent() != nil && storeless[cmd.Parent().Name()]) {
			return nil
		}

		store, err = cfg.OpenStore()
		if err != nil {
			return fmt.Errorf("failed to open health log: %w", err)
		}
		warnLoadReport(store.LoadReport())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// closeStore releases the store opened by PersistentPreRunE, if any.
func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// warnLoadReport tells the user what was discarded while loading.
func warnLoadReport(report storage.LoadReport) {
	if report.Clean() {
		return
	}
	for _, key := range report.CorruptKeys {
		color.Yellow("⚠ %s was unreadable and has been treated as empty", key)
	}
	if report.DroppedRecords > 0 {
		color.Yellow("⚠ Skipped %d records of unknown type", report.DroppedRecords)
	}
	if report.RepairedRecords > 0 {
		color.Yellow("⚠ Assigned new IDs to %d records", report.RepairedRecords)
	}
}

// Execute runs the root command. Post-run hooks are skipped when a command
// fails, so the store is closed here as well.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeStore(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or badger (overrides config)")
}
