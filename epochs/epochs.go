// Package epochs converts a recording's discrete events into fixed-length
// aligned segments and the reductions built on them (evoked averages).
package epochs

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/eegviz/eegviz/eeg"
	"github.com/eegviz/eegviz/logging"
)

var (
	// ErrNoAnnotations means the recording carries no events to epoch.
	ErrNoAnnotations = errors.New("no annotations present in the data")

	// ErrEmptyEpochSet means every candidate epoch was excluded.
	ErrEmptyEpochSet = errors.New("no valid epochs survived exclusion")
)

// NoMatchingLabelsError reports that none of the requested labels exist in
// the recording's events, and which labels are available instead.
type NoMatchingLabelsError struct {
	Requested []string
	Available []string
}

func (e *NoMatchingLabelsError) Error() string {
	return fmt.Sprintf("no matching labels found for %v; available: %v", e.Requested, e.Available)
}

// Interval is a [Start, End] time range in seconds relative to event onset.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Params controls epoch extraction.
type Params struct {
	Tmin           float64   // epoch start relative to event onset, seconds
	Tmax           float64   // epoch end relative to event onset, seconds
	Picks          []string  // channel subset; nil = all good channels
	Baseline       *Interval // per-epoch baseline correction window
	Decim          int       // decimation factor; <=1 means none
	RejectBadSpans bool      // drop epochs overlapping bad spans
	DetrendOrder   *int      // nil = none, 0 = demean, 1 = linear detrend
}

// DefaultParams suggests epoch parameters for a typical evoked-response
// analysis at the given sampling rate: 200 ms pre-stimulus to 800 ms
// post-stimulus, pre-stimulus baseline, decimation toward ~250 Hz.
func DefaultParams(sampleRate float64) Params {
	detrend := 1
	p := Params{
		Tmin:           -0.2,
		Tmax:           0.8,
		Baseline:       &Interval{Start: -0.2, End: 0.0},
		Decim:          max(1, int(sampleRate/250)),
		RejectBadSpans: true,
		DetrendOrder:   &detrend,
	}
	if sampleRate < 125 {
		p.Decim = 1
		p.Tmin = -0.1
		p.Tmax = 0.5
	}
	return p
}

// DropRecord explains why one event occurrence produced no epoch.
type DropRecord struct {
	Event  eeg.Event `json:"event"`
	Reason string    `json:"reason"`
}

// Set is a collection of fixed-length segments aligned to event onsets.
// Recomputed on every parameter change; never persisted.
type Set struct {
	Data         [][][]float64  `json:"-"` // epoch x channel x time
	Labels       []string       `json:"labels"`
	EventID      map[string]int `json:"event_id"`
	Tmin         float64        `json:"tmin"`
	Tmax         float64        `json:"tmax"`
	SampleRate   float64        `json:"sample_rate"` // after decimation
	ChannelNames []string       `json:"channel_names"`
	Dropped      []DropRecord   `json:"dropped"`
}

// Create extracts one epoch per retained event occurrence. It returns the
// set together with the label-to-code map, or an error: ErrNoAnnotations,
// *NoMatchingLabelsError, ErrEmptyEpochSet, or a parameter error for a
// non-positive epoch duration.
func Create(rec *eeg.Recording, labels []string, p Params) (*Set, map[string]int, error) {
	if p.Tmax <= p.Tmin {
		return nil, nil, fmt.Errorf("epoch duration must be positive: tmin %g, tmax %g", p.Tmin, p.Tmax)
	}
	if len(rec.Events) == 0 {
		return nil, nil, ErrNoAnnotations
	}

	available := eeg.EventLabels(rec.Events)
	if len(available) == 0 {
		return nil, nil, ErrNoAnnotations
	}

	// Codes are assigned in sorted label order so they are stable across
	// runs regardless of event order.
	sorted := append([]string(nil), available...)
	sort.Strings(sorted)
	mapping := make(map[string]int, len(sorted))
	for i, label := range sorted {
		mapping[label] = i + 1
	}

	eventID := make(map[string]int)
	for _, label := range labels {
		if code, ok := mapping[label]; ok {
			eventID[label] = code
		}
	}
	if len(eventID) == 0 {
		return nil, nil, &NoMatchingLabelsError{Requested: labels, Available: sorted}
	}

	logger := logging.GetGlobalLogger().WithFields(logging.Fields{"component": "epochs"})
	if p.Baseline != nil && p.Baseline.End > 0 {
		logger.Warn("baseline extends past event onset (t=0)",
			logging.Fields{"baseline_end_s": p.Baseline.End})
	}

	decim := p.Decim
	if decim < 1 {
		decim = 1
	}

	pickIdx := rec.PickIndices(p.Picks)
	names := make([]string, len(pickIdx))
	for i, ci := range pickIdx {
		names[i] = rec.ChannelNames[ci]
	}

	var badSpans []eeg.Event
	for _, ev := range rec.Events {
		if ev.IsBadSpan() {
			badSpans = append(badSpans, ev)
		}
	}

	set := &Set{
		EventID:      eventID,
		Tmin:         p.Tmin,
		Tmax:         p.Tmax,
		SampleRate:   rec.SampleRate / float64(decim),
		ChannelNames: names,
	}

	sr := rec.SampleRate
	n := rec.NumSamples()

	// One sample count for every epoch, derived from the window alone.
	// Rounding both ends per event would let epochs of one condition differ
	// by a sample when (tmax-tmin)*sr is non-integral.
	nTimes := int(math.Round((p.Tmax-p.Tmin)*sr)) + 1

	for _, ev := range rec.Events {
		if _, ok := eventID[ev.Label]; !ok {
			continue
		}

		start := ev.Onset + p.Tmin
		end := ev.Onset + p.Tmax
		i0 := int(math.Round(start * sr))
		i1 := i0 + nTimes - 1
		if i0 < 0 || i1 >= n {
			set.Dropped = append(set.Dropped, DropRecord{Event: ev, Reason: "window outside recording bounds"})
			continue
		}
		if p.RejectBadSpans && overlapsAny(badSpans, start, end) {
			set.Dropped = append(set.Dropped, DropRecord{Event: ev, Reason: "overlaps bad span"})
			continue
		}

		epoch := make([][]float64, len(pickIdx))
		for c, ci := range pickIdx {
			seg := append([]float64(nil), rec.Data[ci][i0:i1+1]...)
			if p.DetrendOrder != nil {
				detrend(seg, *p.DetrendOrder)
			}
			epoch[c] = seg
		}

		if p.Baseline != nil {
			applyBaseline(epoch, p.Baseline, p.Tmin, sr)
		}

		if decim > 1 {
			for c := range epoch {
				epoch[c] = decimate(epoch[c], decim)
			}
		}

		set.Data = append(set.Data, epoch)
		set.Labels = append(set.Labels, ev.Label)
	}

	if len(set.Data) == 0 {
		return nil, nil, ErrEmptyEpochSet
	}

	logger.Info("epochs created", logging.Fields{
		"epochs":  len(set.Data),
		"dropped": len(set.Dropped),
	})
	return set, eventID, nil
}

// Len returns the number of epochs.
func (s *Set) Len() int {
	return len(s.Data)
}

// NumTimes returns the per-epoch sample count.
func (s *Set) NumTimes() int {
	if len(s.Data) == 0 || len(s.Data[0]) == 0 {
		return 0
	}
	return len(s.Data[0][0])
}

// Times returns the time axis in seconds relative to event onset.
func (s *Set) Times() []float64 {
	nt := s.NumTimes()
	times := make([]float64, nt)
	for i := range times {
		times[i] = s.Tmin + float64(i)/s.SampleRate
	}
	return times
}

// Counts returns the number of epochs per condition.
func (s *Set) Counts() map[string]int {
	counts := make(map[string]int, len(s.EventID))
	for label := range s.EventID {
		counts[label] = 0
	}
	for _, label := range s.Labels {
		counts[label]++
	}
	return counts
}

// Evoked returns the arithmetic mean across all epochs of the given label
// as a channel-by-time matrix, or nil when the label is absent or has zero
// epochs.
func (s *Set) Evoked(label string) [][]float64 {
	if _, ok := s.EventID[label]; !ok {
		return nil
	}

	var members [][][]float64
	for i, l := range s.Labels {
		if l == label {
			members = append(members, s.Data[i])
		}
	}
	if len(members) == 0 {
		return nil
	}

	nc := len(members[0])
	nt := len(members[0][0])
	mean := make([][]float64, nc)
	for c := 0; c < nc; c++ {
		mean[c] = make([]float64, nt)
		for _, ep := range members {
			for t, v := range ep[c] {
				mean[c][t] += v
			}
		}
		for t := range mean[c] {
			mean[c][t] /= float64(len(members))
		}
	}
	return mean
}

func overlapsAny(spans []eeg.Event, start, end float64) bool {
	for _, ev := range spans {
		if ev.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// detrend removes a polynomial trend in place: order 0 demeans, order 1
// removes the least-squares line. Higher orders are treated as 1.
func detrend(x []float64, order int) {
	n := len(x)
	if n == 0 {
		return
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	if order <= 0 || n < 2 {
		for i := range x {
			x[i] -= mean
		}
		return
	}

	tMean := float64(n-1) / 2
	num := 0.0
	den := 0.0
	for i, v := range x {
		dt := float64(i) - tMean
		num += dt * (v - mean)
		den += dt * dt
	}
	slope := 0.0
	if den > 0 {
		slope = num / den
	}
	for i := range x {
		x[i] -= mean + slope*(float64(i)-tMean)
	}
}

// applyBaseline subtracts the mean over the baseline interval per channel.
// Baseline bounds are clamped into the epoch.
func applyBaseline(epoch [][]float64, baseline *Interval, tmin, sampleRate float64) {
	if len(epoch) == 0 {
		return
	}
	nt := len(epoch[0])

	b0 := int(math.Round((baseline.Start - tmin) * sampleRate))
	b1 := int(math.Round((baseline.End - tmin) * sampleRate))
	b0 = max(0, min(b0, nt-1))
	b1 = max(b0, min(b1, nt-1))

	for c := range epoch {
		mean := 0.0
		for t := b0; t <= b1; t++ {
			mean += epoch[c][t]
		}
		mean /= float64(b1 - b0 + 1)
		for t := range epoch[c] {
			epoch[c][t] -= mean
		}
	}
}

func decimate(x []float64, factor int) []float64 {
	out := make([]float64, 0, (len(x)+factor-1)/factor)
	for i := 0; i < len(x); i += factor {
		out = append(out, x[i])
	}
	return out
}
