// Package exporter writes planned itineraries to external formats.
package exporter

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"mapper/pkg/engine"
	"mapper/pkg/render"
)

// GenerateICS writes the ranked itineraries as one calendar event each,
// starting at departure. Segment-by-segment directions go into the event
// description so they survive into any calendar client.
func GenerateICS(its []engine.Itinerary, departure time.Time, w io.Writer) error {
	if len(its) == 0 {
		return fmt.Errorf("no itineraries to export")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for i, it := range its {
		start := departure
		end := start.Add(time.Duration(it.Duration) * time.Second)

		event := cal.AddEvent(fmt.Sprintf("%s-trip-%d", start.Format("20060102T150405Z"), i))
		event.SetCreatedTime(time.Now())
		event.SetDtStampTime(time.Now())
		event.SetModifiedAt(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("🧭 Trip option %d (%s, %s)", i+1,
			render.FormatDistance(it.Distance), render.FormatDuration(it.Duration)))

		desc := fmt.Sprintf("Mode: %s\n", it.Type)
		if it.Transfers > 0 {
			desc += fmt.Sprintf("Transfers: %d\n", it.Transfers)
		}
		desc += "\nDirections:\n"
		for j, seg := range it.Segments {
			desc += fmt.Sprintf("%d. %s (%s, %s)\n", j+1, seg.Description,
				render.FormatDistance(seg.Distance), render.FormatDuration(seg.Duration))
		}
		event.SetDescription(desc)
	}

	return cal.SerializeTo(w)
}
