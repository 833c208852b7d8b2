package analysis

import (
	"iter"
	"math"
)

// MinWindowSeconds is the narrowest analysis window the tool will produce
// when an operator's interval collapses.
const MinWindowSeconds = 0.25

// windowTolerance absorbs float drift when stepping windows across an
// interval.
const windowTolerance = 1e-9

// Window is a [Start, End] time interval in seconds.
type Window struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Len returns the window width in seconds.
func (w Window) Len() float64 {
	return w.End - w.Start
}

// RestrictInterval clamps start and end into [0, total]. A collapsed
// interval (end <= start after clamping) is widened to MinWindowSeconds or
// to the remaining duration, whichever is smaller; the result is zero-width
// only when total itself is ~0.
func RestrictInterval(total, start, end float64) (float64, float64) {
	start = math.Max(0, math.Min(start, total))
	end = math.Max(0, math.Min(end, total))
	if end <= start {
		end = math.Min(total, start+MinWindowSeconds)
	}
	return start, end
}

// Windows generates successive fixed-width windows over an interval. It is
// a stateless description of the sequence: iteration can be restarted any
// number of times.
type Windows struct {
	start  float64
	end    float64
	winLen float64
	step   float64
}

// SlidingWindows describes windows of width winLen advancing by step from
// start, continuing while the window still fits inside [start, end] (with a
// small numeric tolerance). The sequence is empty when winLen exceeds
// end-start or when step is not positive.
func SlidingWindows(start, end, winLen, step float64) *Windows {
	return &Windows{start: start, end: end, winLen: winLen, step: step}
}

// All returns an iterator over the window sequence.
func (w *Windows) All() iter.Seq[Window] {
	return func(yield func(Window) bool) {
		if w.step <= 0 || w.winLen <= 0 {
			return
		}
		for t := w.start; t+w.winLen <= w.end+windowTolerance; t += w.step {
			if !yield(Window{Start: t, End: t + w.winLen}) {
				return
			}
		}
	}
}

// Collect materializes the window sequence.
func (w *Windows) Collect() []Window {
	var out []Window
	for win := range w.All() {
		out = append(out, win)
	}
	return out
}
