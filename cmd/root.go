package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mapper",
	Short: "A CLI and TUI for multi-modal trip planning",
	Long: `mapper is a trip-planning client built on open map data. It geocodes
places, discovers nearby transport hubs, and composes walking and transit
routes into ranked door-to-door itineraries.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
