package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/eegviz/eegviz/eeg"
)

// Accepted marker timestamp layouts (ISO-8601 with and without zone).
var markerTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

type jsonMarker struct {
	Label                 string `json:"label"`
	StartDatetime         string `json:"startDatetime"`
	EndDatetime           string `json:"endDatetime"`
	OriginalStartDatetime string `json:"originalStartDatetime"`
	OriginalEndDatetime   string `json:"originalEndDatetime"`
}

type markersFile struct {
	Markers []jsonMarker `json:"Markers"`
}

// ReadJSONMarkers parses a Markers JSON document. Onsets are computed
// relative to referenceTime when it is known (non-zero), otherwise relative
// to the earliest marker's start. The same drop/clip rules as CSV import
// apply after conversion to elapsed seconds.
func ReadJSONMarkers(r io.Reader, referenceTime time.Time, recordingLength float64) ([]eeg.Event, int, error) {
	var doc markersFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("parsing markers JSON: %w", err)
	}
	if len(doc.Markers) == 0 {
		return nil, 0, nil
	}

	type row struct {
		label      string
		start, end time.Time
	}

	var rows []row
	for _, m := range doc.Markers {
		startStr := m.StartDatetime
		if startStr == "" {
			startStr = m.OriginalStartDatetime
		}
		endStr := m.EndDatetime
		if endStr == "" {
			endStr = m.OriginalEndDatetime
		}
		if startStr == "" || endStr == "" {
			continue
		}

		start, err := parseMarkerTime(startStr)
		if err != nil {
			return nil, 0, fmt.Errorf("marker %q: %w", m.Label, err)
		}
		end, err := parseMarkerTime(endStr)
		if err != nil {
			return nil, 0, fmt.Errorf("marker %q: %w", m.Label, err)
		}

		label := m.Label
		if label == "" {
			label = "Marker"
		}
		rows = append(rows, row{label: label, start: start, end: end})
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}

	ref := referenceTime
	if ref.IsZero() {
		ref = rows[0].start
		for _, rw := range rows[1:] {
			if rw.start.Before(ref) {
				ref = rw.start
			}
		}
	}

	events := make([]eeg.Event, 0, len(rows))
	for _, rw := range rows {
		events = append(events, eeg.Event{
			Onset:    rw.start.Sub(ref).Seconds(),
			Duration: rw.end.Sub(rw.start).Seconds(),
			Label:    rw.label,
		})
	}

	kept := eeg.ClipEvents(events, recordingLength)
	return kept, len(kept), nil
}

func parseMarkerTime(s string) (time.Time, error) {
	for _, layout := range markerTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q is not ISO-8601", s)
}
