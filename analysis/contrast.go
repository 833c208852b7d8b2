package analysis

import (
	"math"

	"github.com/eegviz/eegviz/eeg"
)

// contrastEpsilon guards the log ratio against zero power in either
// condition.
const contrastEpsilon = 1e-20

// Interval is an (onset, duration) pair in seconds, typically taken from
// the events of one condition.
type Interval struct {
	Onset    float64 `json:"onset"`
	Duration float64 `json:"duration"`
}

// IntervalsFromEvents extracts the intervals of all events carrying the
// given label.
func IntervalsFromEvents(events []eeg.Event, label string) []Interval {
	var out []Interval
	for _, ev := range events {
		if ev.Label == label {
			out = append(out, Interval{Onset: ev.Onset, Duration: ev.Duration})
		}
	}
	return out
}

// MeanBandOverIntervals computes band power over each interval and returns
// the arithmetic mean of the per-channel vectors across intervals. Returns
// nil when intervals is empty.
func MeanBandOverIntervals(rec *eeg.Recording, intervals []Interval, fmin, fmax float64, picks []string) []float64 {
	if len(intervals) == 0 {
		return nil
	}

	var acc []float64
	for _, iv := range intervals {
		bp := BandPowerSegment(rec, iv.Onset, iv.Onset+iv.Duration, fmin, fmax, picks)
		if acc == nil {
			acc = make([]float64, len(bp))
		}
		for i, v := range bp {
			acc[i] += v
		}
	}
	for i := range acc {
		acc[i] /= float64(len(intervals))
	}
	return acc
}

// ContrastDB computes the elementwise log-ratio 10*log10(b/a) in decibels,
// with a small epsilon guarding zero power. Positive values mean condition
// B exceeds condition A. Inputs must share channel ordering and length;
// alignment is the caller's responsibility and is not validated here.
// Mismatched lengths are truncated to the shorter input.
func ContrastDB(powerB, powerA []float64) []float64 {
	n := min(len(powerB), len(powerA))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = 10.0 * math.Log10((powerB[i]+contrastEpsilon)/(powerA[i]+contrastEpsilon))
	}
	return out
}
