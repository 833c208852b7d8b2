package analysis

import (
	"github.com/eegviz/eegviz/algorithms/spectral"
	"github.com/eegviz/eegviz/eeg"
)

// FFT sizing for band-power estimation: at most 512 samples per frame, and
// no less than 64 so that short segments still get a valid (if coarse)
// frequency resolution.
const (
	maxNFFT = 512
	minNFFT = 64
)

// NFFTFor returns the Welch frame length used for a segment of n samples.
func NFFTFor(n int) int {
	nfft := min(maxNFFT, n)
	return max(nfft, minNFFT)
}

// BandPower estimates mean spectral power within [fmin, fmax] for each
// picked channel of the recording (nil picks = all good channels), using a
// Welch estimate with half-frame overlap. Frames overlapping bad spans are
// omitted. Values are non-negative for any well-formed segment; an all-NaN
// result means no usable frame survived and callers must treat the
// estimate as failed.
func BandPower(rec *eeg.Recording, fmin, fmax float64, picks []string) []float64 {
	idx := rec.PickIndices(picks)
	out := make([]float64, len(idx))

	nfft := NFFTFor(rec.NumSamples())
	overlap := nfft / 2
	if overlap >= rec.NumSamples() {
		overlap = 0
	}

	keep := badSpanFilter(rec)
	welch := spectral.NewWelch()
	for i, ci := range idx {
		res, err := welch.Compute(rec.Data[ci], rec.SampleRate, nfft, overlap, keep)
		if err != nil {
			out[i] = 0
			continue
		}
		out[i] = res.BandMean(fmin, fmax)
	}
	return out
}

// BandPowerSegment estimates band power over the [start, end] second
// sub-interval of the recording.
func BandPowerSegment(rec *eeg.Recording, start, end, fmin, fmax float64, picks []string) []float64 {
	return BandPower(rec.Segment(start, end), fmin, fmax, picks)
}

// badSpanFilter rejects Welch frames overlapping any bad-span event.
// Returns nil when the recording carries no bad spans.
func badSpanFilter(rec *eeg.Recording) spectral.FrameFilter {
	var bads []eeg.Event
	for _, ev := range rec.Events {
		if ev.IsBadSpan() {
			bads = append(bads, ev)
		}
	}
	if len(bads) == 0 {
		return nil
	}

	sr := rec.SampleRate
	return func(startIdx, endIdx int) bool {
		a := float64(startIdx) / sr
		b := float64(endIdx) / sr
		for _, ev := range bads {
			if ev.Overlaps(a, b) {
				return false
			}
		}
		return true
	}
}
