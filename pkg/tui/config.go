package tui

import (
	"fmt"
	"strconv"

	"mapper/pkg/config"

	"github.com/charmbracelet/huh"
)

// RunConfigTUI edits the persistent settings interactively.
func RunConfigTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load settings: %w", err)
	}

	mode := cfg.DefaultMode
	if mode == "" {
		mode = "local"
	}
	accent := cfg.AccentColor
	if accent == "" {
		accent = "39"
	}
	rateLimit := strconv.Itoa(cfg.RateLimitMS)
	if cfg.RateLimitMS == 0 {
		rateLimit = "1000"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Home address").
				Description("Used as the default trip origin").
				Placeholder("e.g. GEC Circle, Chattogram").
				Value(&cfg.HomeAddress),

			huh.NewSelect[string]().
				Title("Default route mode").
				Options(
					huh.NewOption("Full (direct point-to-point)", "full"),
					huh.NewOption("Local (walk + transit)", "local"),
				).
				Value(&mode),

			huh.NewInput().
				Title("Accent color (ANSI 0-255)").
				Value(&accent),

			huh.NewInput().
				Title("Rate limit between API calls (ms)").
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return fmt.Errorf("must be a non-negative number")
					}
					return nil
				}).
				Value(&rateLimit),
		),
	).WithTheme(GetCustomTheme(accent))

	if err := form.Run(); err != nil {
		return err
	}

	cfg.DefaultMode = mode
	cfg.AccentColor = accent
	cfg.RateLimitMS, _ = strconv.Atoi(rateLimit)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("could not save settings: %w", err)
	}

	fmt.Println(accentStyle.Render("✨ Settings saved to ~/.mapper.json"))
	return nil
}
