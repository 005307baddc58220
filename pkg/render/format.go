package render

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds as "Hh Mm" above an hour and "Mm" below.
// Both components are floored; seconds are never shown.
func FormatDuration(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatDistance renders meters as "X.Y km" from one kilometer up, otherwise
// "N m" rounded to the nearest meter.
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%d m", int(math.Round(meters)))
}
