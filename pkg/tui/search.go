package tui

import (
	"context"
	"fmt"

	"mapper/pkg/gateway"
	"mapper/pkg/render"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// RunSearchTUI prompts for a query and prints geocoding candidates.
func RunSearchTUI() error {
	var query string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search for a place").
				Placeholder("e.g. New Market, Chattogram").
				Value(&query),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}
	if query == "" {
		fmt.Println(errorStyle.Render("Please enter something to search for."))
		return nil
	}

	g := NewGateway()

	var places []gateway.Place
	var err error

	_ = spinner.New().
		Title(fmt.Sprintf("Searching for %q...", query)).
		Action(func() {
			places, err = g.Geocode(context.Background(), query, 5)
		}).
		Run()

	if err != nil {
		fmt.Println(errorStyle.Render("❌ " + err.Error()))
		return nil
	}

	PrintPlaces(places)
	return nil
}

// PrintPlaces lists geocoding results with their coordinates.
func PrintPlaces(places []gateway.Place) {
	if len(places) == 0 {
		fmt.Println(errorStyle.Render("No matching places found."))
		return
	}

	fmt.Println(accentStyle.Render("\n--- 🔍 Search Results ---"))
	for i, p := range places {
		fmt.Printf("%d. %s\n", i+1, p.DisplayName)
		if coord, err := p.Coordinate(); err == nil {
			fmt.Println(faintStyle.Render(fmt.Sprintf("   %.5f, %.5f", coord.Lat, coord.Lng)))
		}
	}
}

// RunHubsTUI prompts for a place and lists nearby transport hubs.
func RunHubsTUI() error {
	var placeText string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Find transport hubs near...").
				Placeholder("e.g. GEC Circle, Chattogram").
				Value(&placeText),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}
	if placeText == "" {
		fmt.Println(errorStyle.Render("Please enter a place."))
		return nil
	}

	g := NewGateway()
	ctx := context.Background()

	var hubs []gateway.Hub
	var name string
	var err error

	_ = spinner.New().
		Title("Searching for nearby hubs...").
		Action(func() {
			coord, displayName, geocodeErr := g.GeocodeOne(ctx, placeText)
			if geocodeErr != nil {
				err = geocodeErr
				return
			}
			name = displayName
			hubs = g.FindNearestTransportHubs(ctx, coord, 1000, nil)
		}).
		Run()

	if err != nil {
		fmt.Println(errorStyle.Render("❌ " + err.Error()))
		return nil
	}

	fmt.Printf("%s %s\n", accentStyle.Render("Near:"), name)
	PrintHubs(hubs)
	return nil
}

// PrintHubs lists hubs with type icons and distances.
func PrintHubs(hubs []gateway.Hub) {
	if len(hubs) == 0 {
		fmt.Println(errorStyle.Render("No transport hubs found within 1km."))
		return
	}

	fmt.Println(accentStyle.Render("\n--- 🚏 Nearby Transport Hubs ---"))
	for i, h := range hubs {
		fmt.Printf("%d. %s %s  %s\n", i+1, hubIcon(h.Type), h.Name,
			faintStyle.Render(render.FormatDistance(h.Distance*1000)+" away"))
	}
}

func hubIcon(hubType string) string {
	switch hubType {
	case gateway.HubMetro:
		return "🚇"
	case gateway.HubTaxi:
		return "🚕"
	default:
		return "🚌"
	}
}

// RunLocateTUI shows the device's approximate position and its address.
func RunLocateTUI() error {
	g := NewGateway()
	ctx := context.Background()

	var pos *gateway.Position
	var place *gateway.Place
	var err error

	_ = spinner.New().
		Title("Locating you...").
		Action(func() {
			pos, err = g.CurrentLocation(ctx)
			if err != nil {
				return
			}
			// Best effort: position is still useful without an address
			place, _ = g.ReverseGeocode(ctx, pos.Lat, pos.Lng)
		}).
		Run()

	if err != nil {
		fmt.Println(errorStyle.Render("❌ " + err.Error()))
		return nil
	}

	fmt.Println(accentStyle.Render("\n--- 📍 Current Location ---"))
	fmt.Printf("Position: %.5f, %.5f (±%s)\n", pos.Lat, pos.Lng, render.FormatDistance(pos.Accuracy))
	if place != nil {
		fmt.Printf("Address:  %s\n", place.DisplayName)
	}
	return nil
}
