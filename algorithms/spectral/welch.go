package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/eegviz/eegviz/algorithms/windowing"
)

// WelchResult holds an averaged one-sided power spectral density estimate.
type WelchResult struct {
	PSD    []float64 `json:"psd"`    // power per frequency bin
	Freqs  []float64 `json:"freqs"`  // bin center frequencies in Hz
	Frames int       `json:"frames"` // frames averaged into the estimate
	NFFT   int       `json:"nfft"`
}

// FrameFilter decides whether the frame covering [startIdx, endIdx) of the
// input signal contributes to the estimate. A nil filter keeps every frame.
type FrameFilter func(startIdx, endIdx int) bool

// Welch computes averaged-periodogram spectral density estimates with a
// Hann taper.
type Welch struct {
	fft *FFT
}

// NewWelch creates a new Welch estimator
func NewWelch() *Welch {
	return &Welch{fft: NewFFT()}
}

// Compute estimates the one-sided PSD of signal. Frames of nfft samples
// advance by nfft-overlap; a signal shorter than nfft is treated as a
// single full-length frame. Frames rejected by keep are omitted from the
// average; when every frame is rejected the PSD is all-NaN with Frames 0,
// which callers must treat as a failed estimate.
func (w *Welch) Compute(signal []float64, sampleRate float64, nfft, overlap int, keep FrameFilter) (*WelchResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if nfft <= 0 {
		return nil, fmt.Errorf("nfft must be positive, got %d", nfft)
	}
	if overlap < 0 || overlap >= nfft {
		return nil, fmt.Errorf("overlap must be in [0, nfft), got %d", overlap)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", sampleRate)
	}

	if nfft > len(signal) {
		nfft = len(signal)
		overlap = 0
	}
	step := nfft - overlap

	window := windowing.NewHann(nfft, false)
	coeffs := window.GetCoefficients()
	winNorm := sampleRate * window.SumSquares()

	freqBins := nfft/2 + 1
	psd := make([]float64, freqBins)
	frames := 0

	frame := make([]float64, nfft)
	for start := 0; start+nfft <= len(signal); start += step {
		end := start + nfft
		if keep != nil && !keep(start, end) {
			continue
		}

		copy(frame, signal[start:end])
		demean(frame)
		for i := range frame {
			frame[i] *= coeffs[i]
		}

		spectrum := w.fft.Compute(frame)
		for i := 0; i < freqBins; i++ {
			p := cmplx.Abs(spectrum[i])
			p = p * p / winNorm
			// one-sided: double everything except DC and Nyquist
			if i != 0 && !(nfft%2 == 0 && i == freqBins-1) {
				p *= 2
			}
			psd[i] += p
		}
		frames++
	}

	freqs := make([]float64, freqBins)
	for i := range freqs {
		freqs[i] = float64(i) * sampleRate / float64(nfft)
	}

	if frames == 0 {
		for i := range psd {
			psd[i] = math.NaN()
		}
	} else {
		for i := range psd {
			psd[i] /= float64(frames)
		}
	}

	return &WelchResult{PSD: psd, Freqs: freqs, Frames: frames, NFFT: nfft}, nil
}

// BandMean averages the PSD over bins within [fmin, fmax]. When the range
// contains no bin the single bin closest to the band center is used, so a
// valid band never yields an empty estimate.
func (r *WelchResult) BandMean(fmin, fmax float64) float64 {
	sum := 0.0
	count := 0
	for i, f := range r.Freqs {
		if f >= fmin && f <= fmax {
			sum += r.PSD[i]
			count++
		}
	}
	if count > 0 {
		return sum / float64(count)
	}

	center := (fmin + fmax) / 2
	best := 0
	bestDist := math.Inf(1)
	for i, f := range r.Freqs {
		if d := math.Abs(f - center); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return r.PSD[best]
}

func demean(x []float64) {
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	for i := range x {
		x[i] -= mean
	}
}
