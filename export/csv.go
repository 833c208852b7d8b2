// Package export serializes analysis artifacts for download surfaces.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/eegviz/eegviz/eeg"
)

// AnnotationsCSV renders events as CSV with onset_s, duration_s and label
// columns. Zero events produce empty bytes, not a lone header.
func AnnotationsCSV(events []eeg.Event) []byte {
	if len(events) == 0 {
		return []byte{}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"onset_s", "duration_s", "label"})
	for _, ev := range events {
		_ = w.Write([]string{
			formatFloat(ev.Onset),
			formatFloat(ev.Duration),
			ev.Label,
		})
	}
	w.Flush()
	return buf.Bytes()
}

// BandPowerCSV renders one per-channel band-power vector as CSV with
// channel, band and power columns. Power entries beyond the channel list
// are ignored; missing entries render as empty.
func BandPowerCSV(chNames []string, bandName string, power []float64) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"channel", "band", "power"})
	for i, ch := range chNames {
		val := ""
		if i < len(power) {
			val = formatFloat(power[i])
		}
		_ = w.Write([]string{ch, bandName, val})
	}
	w.Flush()
	return buf.Bytes()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
