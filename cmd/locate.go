package cmd

import (
	"mapper/pkg/tui"

	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Show your approximate current position",
	Long:  "Estimate the device position from its network address and reverse-geocode it to a street address.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.RunLocateTUI()
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
