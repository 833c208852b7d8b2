package eeg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Thresholds for advisory data-quality checks.
const (
	flatStdDev       = 1e-12
	extremeAmplitude = 1e-3 // 1 mV; scalp EEG lives well below this
	lowRateHz        = 64.0
	highRateHz       = 2000.0
	shortRecordingS  = 30.0
	longRecordingMin = 60.0
)

// QualityReport scans a recording and returns advisory warnings: flat or
// extreme channels, unusual sampling rates, very short or very long
// recordings, majority-bad channel sets. Warnings never block the pipeline.
func QualityReport(r *Recording) []string {
	var warnings []string

	sfreq := r.SampleRate
	if sfreq < lowRateHz {
		warnings = append(warnings, fmt.Sprintf("low sampling rate (%g Hz) may limit analysis", sfreq))
	} else if sfreq > highRateHz {
		warnings = append(warnings, fmt.Sprintf("very high sampling rate (%g Hz) may slow processing", sfreq))
	}

	dur := r.Duration()
	if dur < shortRecordingS {
		warnings = append(warnings, fmt.Sprintf("very short recording (%.1f s)", dur))
	} else if dur > longRecordingMin*60 {
		warnings = append(warnings, fmt.Sprintf("long recording (%.0f minutes) may slow processing", dur/60))
	}

	if len(r.Bads) > len(r.ChannelNames)/2 {
		warnings = append(warnings, fmt.Sprintf("many bad channels (%d/%d)", len(r.Bads), len(r.ChannelNames)))
	}

	flat := 0
	extreme := 0
	total := 0
	for _, ch := range r.Data {
		if stat.StdDev(ch, nil) < flatStdDev {
			flat++
		}
		for _, v := range ch {
			if math.Abs(v) > extremeAmplitude {
				extreme++
			}
		}
		total += len(ch)
	}
	if flat > 0 {
		warnings = append(warnings, fmt.Sprintf("%d channels appear flat", flat))
	}
	if total > 0 && float64(extreme) > float64(total)*0.01 {
		warnings = append(warnings, "some samples have extreme values (>1mV)")
	}

	return warnings
}
