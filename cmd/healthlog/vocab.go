// ABOUTME: CLI commands for the custom body-part and medication-name vocabularies.
// ABOUTME: Built-in body parts are listed but cannot be added or removed.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/spf13/cobra"
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "Manage body parts",
	Long: `List, add, or remove custom body parts. Built-in parts are always available.

EXAMPLES:

  healthlog parts list
  healthlog parts add 腰部
  healthlog parts rm 腰部`,
}

var partsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List body parts",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, part := range store.BodyParts() {
			if models.IsDefaultBodyPart(part) {
				fmt.Println(part)
			} else {
				fmt.Printf("%s %s\n", part, faint.Sprint("(custom)"))
			}
		}
		return nil
	},
}

var partsAddCmd = &cobra.Command{
	Use:   "add <part>",
	Short: "Add a custom body part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		part := strings.TrimSpace(args[0])
		added, err := store.AddCustomBodyPart(part)
		if err != nil {
			return fmt.Errorf("failed to add body part: %w", err)
		}
		if !added {
			color.Yellow("%s is already known", part)
			return nil
		}
		color.Green("✓ Added body part %s", part)
		return nil
	},
}

var partsRmCmd = &cobra.Command{
	Use:     "rm <part>",
	Aliases: []string{"remove"},
	Short:   "Remove a custom body part",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		part := strings.TrimSpace(args[0])
		if models.IsDefaultBodyPart(part) {
			return fmt.Errorf("%s is a built-in body part", part)
		}
		removed, err := store.RemoveCustomBodyPart(part)
		if err != nil {
			return fmt.Errorf("failed to remove body part: %w", err)
		}
		if !removed {
			return fmt.Errorf("no custom body part named %s", part)
		}
		color.Yellow("✗ Removed body part %s", part)
		return nil
	},
}

var medsCmd = &cobra.Command{
	Use:   "meds",
	Short: "Manage remembered medication names",
	Long: `Medication names are remembered whenever you log one. Use these commands
to review or prune the list.

EXAMPLES:

  healthlog meds list
  healthlog meds add 奥司他韦
  healthlog meds rm 奥司他韦`,
}

var medsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List medication names",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := store.CustomMedicationNames()
		if len(names) == 0 {
			fmt.Println("No medication names yet.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var medsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a medication name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		added, err := store.AddCustomMedicationName(name)
		if err != nil {
			return fmt.Errorf("failed to add medication: %w", err)
		}
		if !added {
			color.Yellow("%s is already known", name)
			return nil
		}
		color.Green("✓ Added medication %s", name)
		return nil
	},
}

var medsRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove"},
	Short:   "Remove a medication name",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		removed, err := store.RemoveCustomMedicationName(name)
		if err != nil {
			return fmt.Errorf("failed to remove medication: %w", err)
		}
		if !removed {
			return fmt.Errorf("no medication named %s", name)
		}
		color.Yellow("✗ Removed medication %s", name)
		return nil
	},
}

func init() {
	partsCmd.AddCommand(partsListCmd)
	partsCmd.AddCommand(partsAddCmd)
	partsCmd.AddCommand(partsRmCmd)
	medsCmd.AddCommand(medsListCmd)
	medsCmd.AddCommand(medsAddCmd)
	medsCmd.AddCommand(medsRmCmd)

	rootCmd.AddCommand(partsCmd)
	rootCmd.AddCommand(medsCmd)
}
