package cmd

import (
	"context"
	"fmt"
	"strings"

	"mapper/pkg/gateway"
	"mapper/pkg/tui"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for a place by name",
	Long:  "Forward-geocode a free-text query and print matching places with their coordinates.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return tui.RunSearchTUI()
		}

		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")

		g := tui.NewGateway()

		var places []gateway.Place
		var err error

		_ = spinner.New().
			Title(fmt.Sprintf("Searching for %q...", query)).
			Action(func() {
				places, err = g.Geocode(context.Background(), query, limit)
			}).
			Run()

		if err != nil {
			return err
		}

		tui.PrintPlaces(places)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "l", 5, "Maximum number of results")
}
