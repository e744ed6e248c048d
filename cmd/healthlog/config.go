// ABOUTME: CLI commands for viewing and changing healthlog configuration.
// ABOUTME: Edits the config file only; environment overrides are shown but never saved.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show or change configuration stored at ~/.config/healthlog/config.json.

KEYS:

  backend      sqlite (default) or badger
  data_dir     data directory (default ~/.local/share/healthlog)
  listen_addr  address for 'healthlog serve' (default 127.0.0.1:8787)
  log_level    debug, info, warn, or error
  log_format   text or json

ENVIRONMENT:

  HEALTHLOG_BACKEND and HEALTHLOG_DATA_DIR override the file.

EXAMPLES:

  healthlog config show
  healthlog config set backend badger`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%s %s\n", faint.Sprint("file:"), config.GetConfigPath())
		for _, key := range config.Keys {
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", padRight(key, 12), value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := config.LoadFile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := fileCfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := fileCfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ Set %s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
