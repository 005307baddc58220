package cmd

import (
	"context"
	"fmt"
	"strings"

	"mapper/pkg/gateway"
	"mapper/pkg/geo"
	"mapper/pkg/tui"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var hubsCmd = &cobra.Command{
	Use:   "hubs",
	Short: "List transport hubs near a place",
	Long: `Query OpenStreetMap for bus stations, taxi stands, metro stations and
other public transport stops near a place, sorted by distance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		near, _ := cmd.Flags().GetString("near")
		radius, _ := cmd.Flags().GetFloat64("radius")
		typesFlag, _ := cmd.Flags().GetString("types")

		if near == "" {
			return tui.RunHubsTUI()
		}

		var hubTypes []string
		if typesFlag != "" {
			for _, t := range strings.Split(typesFlag, ",") {
				hubTypes = append(hubTypes, strings.TrimSpace(t))
			}
		}

		g := tui.NewGateway()
		ctx := context.Background()

		var hubs []gateway.Hub
		var name string
		var err error

		_ = spinner.New().
			Title(fmt.Sprintf("Searching for hubs near %q...", near)).
			Action(func() {
				var center geo.Coordinate
				center, name, err = g.GeocodeOne(ctx, near)
				if err != nil {
					return
				}
				hubs = g.FindNearestTransportHubs(ctx, center, radius, hubTypes)
			}).
			Run()

		if err != nil {
			return err
		}

		fmt.Printf("Near: %s\n", name)
		tui.PrintHubs(hubs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hubsCmd)

	hubsCmd.Flags().StringP("near", "n", "", "Place to search around (address or name)")
	hubsCmd.Flags().Float64P("radius", "r", 1000, "Search radius in meters")
	hubsCmd.Flags().String("types", "", "Comma-separated hub types (bus_station,taxi,public_transport)")
}
