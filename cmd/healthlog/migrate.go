// ABOUTME: CLI command for migrating data between storage backends.
// ABOUTME: Copies the whole health log from SQLite to Badger or back.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/config"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Copy the health log from one storage backend to another.

Both backends live in the configured data directory. The destination must
not already contain data.

USAGE:

  healthlog migrate --from sqlite --to badger --dry-run   # Preview
  healthlog migrate --from sqlite --to badger             # Copy

AFTER MIGRATION:

  Switch the active backend:
    healthlog config set backend badger`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("--from and --to must differ")
		}

		srcCfg := *cfg
		srcCfg.Backend = migrateFrom
		dstCfg := *cfg
		dstCfg.Backend = migrateTo

		dstPath, err := dstCfg.StoragePath()
		if err != nil {
			return err
		}
		if err := ensureEmptyDestination(migrateTo, dstPath); err != nil {
			return err
		}

		src, err := srcCfg.OpenBlobStore()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateFrom, err)
		}
		defer func() { _ = src.Close() }()

		var dst storage.BlobStore
		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			dst = storage.NewMemoryBlobStore()
		} else {
			if dst, err = dstCfg.OpenBlobStore(); err != nil {
				return fmt.Errorf("failed to open %s: %w", migrateTo, err)
			}
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		warnLoadReport(summary.Report)

		verb := "Migrated"
		if migrateDryRun {
			verb = "Would migrate"
		}
		color.Green("✓ %s %s → %s", verb, migrateFrom, migrateTo)
		fmt.Printf("  Records: %d\n", summary.Records)
		fmt.Printf("  Courses: %d\n", summary.Courses)
		fmt.Printf("  Body parts: %d\n", summary.BodyParts)
		fmt.Printf("  Medication names: %d\n", summary.Medications)
		if !migrateDryRun {
			fmt.Println()
			fmt.Printf("Run 'healthlog config set backend %s' to use it.\n", migrateTo)
		}
		return nil
	},
}

// ensureEmptyDestination refuses to migrate over existing data.
func ensureEmptyDestination(backend, path string) error {
	if backend == config.BackendBadger {
		nonEmpty, err := storage.IsDirNonEmpty(path)
		if err != nil {
			return err
		}
		if nonEmpty {
			return fmt.Errorf("destination %s already contains data", path)
		}
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("destination %s already exists", path)
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendSQLite, "source backend (sqlite, badger)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendBadger, "destination backend (sqlite, badger)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
