package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"mapper/pkg/engine"
	"mapper/pkg/exporter"
	"mapper/pkg/tui"

	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Plan a trip between two places",
	Long: `Geocode an origin and a destination, then compose ranked route options.
Full mode gives a direct driving route; local mode walks you to nearby
transport hubs and rides between them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		mode, _ := cmd.Flags().GetString("mode")
		transportFlag, _ := cmd.Flags().GetString("transport")
		exportPath, _ := cmd.Flags().GetString("export")
		departFlag, _ := cmd.Flags().GetString("depart")

		if from == "" || to == "" {
			return fmt.Errorf("must specify both --from and --to")
		}

		var transportTypes []string
		if transportFlag != "" {
			for _, t := range strings.Split(transportFlag, ",") {
				transportTypes = append(transportTypes, strings.TrimSpace(t))
			}
		}

		g := tui.NewGateway()

		its, _, err := tui.PlanTrip(context.Background(), g, from, to, engine.Mode(mode), transportTypes)
		if err != nil {
			return err
		}

		tui.PrintItineraries(its)

		if exportPath == "" {
			return nil
		}

		departure := time.Now()
		if departFlag != "" {
			departure, err = time.Parse("2006-01-02 15:04", departFlag)
			if err != nil {
				return fmt.Errorf("could not parse --depart (want \"2006-01-02 15:04\"): %w", err)
			}
		}

		file, err := os.Create(exportPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		if err := exporter.GenerateICS(its, departure, file); err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("\n✨ Successfully exported %d route options to: %s\n", len(its), exportPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)

	routeCmd.Flags().StringP("from", "f", "", "Origin address or place name")
	routeCmd.Flags().StringP("to", "t", "", "Destination address or place name")
	routeCmd.Flags().StringP("mode", "m", "local", "Route mode: full (direct drive) or local (walk + transit)")
	routeCmd.Flags().String("transport", "", "Comma-separated hub types to consider (bus_station,taxi,public_transport)")
	routeCmd.Flags().StringP("export", "e", "", "Export the route options to an .ics calendar file")
	routeCmd.Flags().StringP("depart", "d", "", "Departure time for the export, e.g. \"2026-09-01 08:30\" (default: now)")
}
