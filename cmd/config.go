package cmd

import (
	"context"
	"fmt"

	"mapper/pkg/config"
	"mapper/pkg/tui"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mapper configuration",
	Long:  "View or edit your local configuration settings (like home address for trip planning).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		setHome, _ := cmd.Flags().GetString("set-home")
		if setHome != "" {
			fmt.Printf("Looking up address: '%s'...\n", setHome)

			// Verify the address resolves before saving it
			g := tui.NewGateway()
			_, displayName, err := g.GeocodeOne(context.Background(), setHome)
			if err != nil {
				return fmt.Errorf("could not lookup address: %w", err)
			}

			cfg.HomeAddress = displayName
			if err := config.Save(cfg); err != nil {
				return err
			}

			fmt.Printf("✅ Home address successfully saved as: %s\n", displayName)
			return nil
		}

		// If no flags are given, launch the interactive TUI flow
		return tui.RunConfigTUI()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringP("set-home", "s", "", "Set your home address for trip planning")
}
