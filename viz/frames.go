// Package viz builds the derived artifacts handed to external renderers:
// sliding-window frame sequences for animations and scalp-region summaries.
package viz

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/eegviz/eegviz/analysis"
	"github.com/eegviz/eegviz/eeg"
)

// minFrameSamples is the smallest usable FFT window inside one animation
// frame; windows below it are skipped rather than estimated badly.
const minFrameSamples = 32

// FrameSequence is an ordered list of per-window spatial power snapshots
// with one shared color range, so frame-to-frame comparison stays visually
// valid. Transient: rebuilt per animation request.
type FrameSequence struct {
	Frames   [][]float64       `json:"frames"` // frame x channel
	Windows  []analysis.Window `json:"windows"`
	Channels []string          `json:"channels"`
	VMin     float64           `json:"vmin"`
	VMax     float64           `json:"vmax"`
}

// Len returns the number of frames.
func (fs *FrameSequence) Len() int {
	return len(fs.Frames)
}

// BuildFrames slides a window of winLen seconds (advancing by step) across
// [start, end] and computes band power per window, producing one spatial
// snapshot per surviving window. Windows too short for a usable FFT or
// yielding non-finite power are silently dropped. Returns nil when the
// interval is shorter than the minimum window or when no window survives.
// When no sliding window fits, the single window [start, end] is used.
func BuildFrames(rec *eeg.Recording, fmin, fmax float64, picks []string,
	start, end, winLen, step, pctLow, pctHigh float64) *FrameSequence {

	if end-start < analysis.MinWindowSeconds {
		return nil
	}

	wins := analysis.SlidingWindows(start, end, winLen, step).Collect()
	if len(wins) == 0 {
		wins = []analysis.Window{{Start: start, End: end}}
	}

	seq := &FrameSequence{Channels: rec.PickNames(picks)}
	for _, win := range wins {
		segSamples := int(math.Round(win.Len() * rec.SampleRate))
		if min(analysis.NFFTFor(segSamples), segSamples) < minFrameSamples {
			continue
		}

		bp := analysis.BandPowerSegment(rec, win.Start, win.End, fmin, fmax, picks)
		if !allFinite(bp) {
			continue
		}

		seq.Frames = append(seq.Frames, bp)
		seq.Windows = append(seq.Windows, win)
	}

	if len(seq.Frames) == 0 {
		return nil
	}

	seq.VMin, seq.VMax = colorRange(seq.Frames, pctLow, pctHigh)
	return seq
}

// colorRange derives one shared (vmin, vmax) from percentiles over all
// frames combined, falling back to the raw extrema with a symmetric nudge
// when the percentiles degenerate.
func colorRange(frames [][]float64, pctLow, pctHigh float64) (float64, float64) {
	var all []float64
	for _, f := range frames {
		all = append(all, f...)
	}
	sort.Float64s(all)

	vmin := stat.Quantile(pctLow/100, stat.LinInterp, all, nil)
	vmax := stat.Quantile(pctHigh/100, stat.LinInterp, all, nil)

	if !math.IsInf(vmin, 0) && !math.IsNaN(vmin) &&
		!math.IsInf(vmax, 0) && !math.IsNaN(vmax) && vmin < vmax {
		return vmin, vmax
	}

	vmin = all[0]
	vmax = all[len(all)-1]
	if vmin == vmax {
		vmin -= 1e-12
		vmax += 1e-12
	}
	return vmin, vmax
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
