package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"mapper/pkg/engine"
)

func TestGenerateICS(t *testing.T) {
	its := []engine.Itinerary{
		{
			Type:      engine.ItineraryMultiModal,
			Distance:  3400,
			Duration:  900,
			Transfers: 1,
			Segments: []engine.Segment{
				{Type: engine.SegmentWalking, Distance: 200, Duration: 150, Description: "Walk to New Market Bus Stand"},
				{Type: engine.SegmentTransport, Distance: 3000, Duration: 600, Description: "Take Bus to Agrabad Bus Stand"},
				{Type: engine.SegmentWalking, Distance: 200, Duration: 150, Description: "Walk to destination"},
			},
		},
	}

	departure := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := GenerateICS(its, departure, &buf); err != nil {
		t.Fatalf("GenerateICS failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Trip option 1") {
		t.Errorf("expected ICS to contain the trip summary, got:\n%s", output)
	}
	if !strings.Contains(output, "DTSTART:20260304T090000Z") {
		t.Errorf("expected departure time in ICS, got:\n%s", output)
	}
	// 900s trip ends at 09:15
	if !strings.Contains(output, "DTEND:20260304T091500Z") {
		t.Errorf("expected arrival time in ICS, got:\n%s", output)
	}
	if !strings.Contains(output, "Take Bus to Agrabad Bus Stand") {
		t.Errorf("expected segment directions in the description")
	}
}

func TestGenerateICSEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateICS(nil, time.Now(), &buf); err == nil {
		t.Error("expected an error for zero itineraries")
	}
}
