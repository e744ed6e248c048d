// ABOUTME: CLI placeholder for remote sync.
// ABOUTME: Remote sync is not supported; points users at export and import.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync health-log data across devices (not supported)",
	Long: `Remote sync is not supported.

To move your health log between machines, export a backup and import it:

  healthlog export json -o auto
  healthlog import health_backup_YYYY-MM-DD.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		color.Yellow("⚠ Remote sync is not supported.")
		fmt.Println()
		fmt.Println("Use 'healthlog export json -o auto' and 'healthlog import <file>' to")
		fmt.Println("move your data between machines.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
