package tui

import (
	"context"
	"fmt"
	"strings"

	"mapper/pkg/config"
	"mapper/pkg/engine"
	"mapper/pkg/gateway"
	"mapper/pkg/geo"
	"mapper/pkg/render"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

var transportOptions = []huh.Option[string]{
	huh.NewOption("🚌 Bus stations", "bus_station"),
	huh.NewOption("🚕 Taxi stands", "taxi"),
	huh.NewOption("🚏 Public transport stops", "public_transport"),
}

// NewGateway builds a gateway from the user's saved settings.
func NewGateway() *gateway.Gateway {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		return gateway.New(gateway.Config{})
	}
	return gateway.New(cfg.GatewayConfig())
}

// RunPlanTUI walks the user through a full trip-planning flow: origin,
// destination, mode and transport preferences, then calculates and prints
// the ranked options.
func RunPlanTUI() error {
	cfg, _ := config.Load()

	var originText, destText string
	mode := string(engine.ModeLocal)
	transportTypes := []string{"bus_station", "taxi", "public_transport"}

	if cfg != nil && cfg.HomeAddress != "" {
		originText = cfg.HomeAddress
	}
	if cfg != nil && cfg.DefaultMode != "" {
		mode = cfg.DefaultMode
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Where are you starting from?").
				Placeholder("e.g. GEC Circle, Chattogram").
				Value(&originText),

			huh.NewInput().
				Title("Where are you going?").
				Placeholder("e.g. Agrabad, Chattogram").
				Value(&destText),

			huh.NewSelect[string]().
				Title("Route mode").
				Options(
					huh.NewOption("🚗 Full (direct point-to-point)", string(engine.ModeFull)),
					huh.NewOption("🚶+🚌 Local (walk + transit)", string(engine.ModeLocal)),
				).
				Value(&mode),

			huh.NewMultiSelect[string]().
				Title("Transport preferences").
				Options(transportOptions...).
				Value(&transportTypes),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if strings.TrimSpace(originText) == "" || strings.TrimSpace(destText) == "" {
		fmt.Println(errorStyle.Render("Please enter both origin and destination."))
		return nil
	}

	g := NewGateway()

	its, surface, err := PlanTrip(context.Background(), g, originText, destText, engine.Mode(mode), transportTypes)
	if err != nil {
		fmt.Println(errorStyle.Render("❌ " + err.Error()))
		return nil
	}

	PrintItineraries(its)
	fmt.Println(faintStyle.Render(fmt.Sprintf("(%d overlays drawn, viewport fitted)", len(surface.Layers))))
	return nil
}

// PlanTrip geocodes both endpoints and runs the composition engine against a
// recording surface. Shared by the interactive flow and the route command.
func PlanTrip(ctx context.Context, g *gateway.Gateway, originText, destText string, mode engine.Mode, transportTypes []string) ([]engine.Itinerary, *render.MemorySurface, error) {
	var origin, destination geo.Coordinate
	var originName, destName string
	var geocodeErr error

	_ = spinner.New().
		Title(fmt.Sprintf("Finding %q and %q...", originText, destText)).
		Action(func() {
			origin, originName, geocodeErr = g.GeocodeOne(ctx, originText)
			if geocodeErr != nil {
				return
			}
			destination, destName, geocodeErr = g.GeocodeOne(ctx, destText)
		}).
		Run()

	if geocodeErr != nil {
		return nil, nil, geocodeErr
	}

	fmt.Printf("%s %s\n%s %s\n",
		accentStyle.Render("From:"), originName,
		accentStyle.Render("To:  "), destName)

	surface := render.NewMemorySurface()
	router := engine.NewRouter(g, surface)

	var its []engine.Itinerary
	var routeErr error

	_ = spinner.New().
		Title("Calculating routes...").
		Action(func() {
			its, routeErr = router.CalculateRoute(ctx, engine.Request{
				Origin:         origin,
				Destination:    destination,
				Mode:           mode,
				TransportTypes: transportTypes,
			})
		}).
		Run()

	if routeErr != nil {
		return nil, nil, routeErr
	}
	return its, surface, nil
}

// PrintItineraries renders ranked options with their segments.
func PrintItineraries(its []engine.Itinerary) {
	fmt.Println(accentStyle.Render("\n--- 🧭 Route Options ---"))

	for i, it := range its {
		header := fmt.Sprintf("\n%d. %s  •  %s  •  %s", i+1,
			itineraryLabel(it.Type),
			render.FormatDistance(it.Distance),
			render.FormatDuration(it.Duration))
		if it.Transfers == 1 {
			header += "  •  1 transfer"
		} else if it.Transfers > 1 {
			header += fmt.Sprintf("  •  %d transfers", it.Transfers)
		}
		fmt.Println(accentStyle.Render(header))

		for _, seg := range it.Segments {
			fmt.Printf("   %s %s  %s\n", seg.Icon, seg.Description,
				faintStyle.Render(fmt.Sprintf("(%s • %s)",
					render.FormatDistance(seg.Distance),
					render.FormatDuration(seg.Duration))))
		}
	}
}

func itineraryLabel(itType string) string {
	switch itType {
	case engine.ItineraryFull:
		return "Direct Drive"
	case engine.ItineraryWalking:
		return "Walking"
	case engine.ItineraryMultiModal:
		return "Multi-Modal"
	default:
		return itType
	}
}
