package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/eegviz/eegviz/eeg"
)

// ReadCSVMarkers parses marker rows from a CSV stream with required columns
// latency (onset seconds), duration (seconds) and type (label), in any
// column order. Rows with non-positive duration or onset at or beyond the
// recording length are dropped and end times clipped. Returns the
// surviving events and the count added.
func ReadCSVMarkers(r io.Reader, recordingLength float64) ([]eeg.Event, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"latency", "duration", "type"} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("CSV marker file is missing required column %q (have %v)", required, header)
		}
	}

	var events []eeg.Event
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading CSV row %d: %w", row+1, err)
		}
		row++

		onset, err := strconv.ParseFloat(record[cols["latency"]], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: latency %q is not numeric", row, record[cols["latency"]])
		}
		duration, err := strconv.ParseFloat(record[cols["duration"]], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: duration %q is not numeric", row, record[cols["duration"]])
		}

		events = append(events, eeg.Event{
			Onset:    onset,
			Duration: duration,
			Label:    record[cols["type"]],
		})
	}

	kept := eeg.ClipEvents(events, recordingLength)
	return kept, len(kept), nil
}
