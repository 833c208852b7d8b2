package filters

import (
	"fmt"
	"math"

	"github.com/eegviz/eegviz/algorithms/windowing"
)

// FIRFilter is a linear-phase windowed-sinc filter. The symmetric kernel
// has constant group delay, so centered application yields zero phase
// without a backward pass.
type FIRFilter struct {
	sampleRate float64
	lowCut     float64 // 0 when the low edge is disabled
	highCut    float64 // 0 when the high edge is disabled
	taps       []float64
}

// Practical kernel-length bounds; beyond 4097 taps the transition band is
// narrower than EEG work ever needs.
const (
	minFIRTaps = 33
	maxFIRTaps = 4097
)

// NewFIRBand designs a band filter with a Hamming-windowed sinc kernel.
// Either edge may be nil: only lowCut gives a high-pass, only highCut a
// low-pass. numTaps <= 0 selects a length from the transition bandwidth;
// an explicit even numTaps is rounded up to odd to keep the kernel
// symmetric.
func NewFIRBand(sampleRate float64, lowCut, highCut *float64, numTaps int) (*FIRFilter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", sampleRate)
	}
	if lowCut == nil && highCut == nil {
		return nil, fmt.Errorf("at least one band edge is required")
	}

	nyquist := sampleRate / 2
	if lowCut != nil && (*lowCut <= 0 || *lowCut >= nyquist) {
		return nil, fmt.Errorf("low edge %g Hz must be between 0 and Nyquist (%g Hz)", *lowCut, nyquist)
	}
	if highCut != nil && (*highCut <= 0 || *highCut >= nyquist) {
		return nil, fmt.Errorf("high edge %g Hz must be between 0 and Nyquist (%g Hz)", *highCut, nyquist)
	}
	if lowCut != nil && highCut != nil && *lowCut >= *highCut {
		return nil, fmt.Errorf("low edge %g Hz must be below high edge %g Hz", *lowCut, *highCut)
	}

	if numTaps <= 0 {
		numTaps = autoTaps(sampleRate, lowCut, highCut)
	}
	if numTaps%2 == 0 {
		numTaps++
	}
	numTaps = max(minFIRTaps, min(maxFIRTaps, numTaps))

	f := &FIRFilter{sampleRate: sampleRate}
	if lowCut != nil {
		f.lowCut = *lowCut
	}
	if highCut != nil {
		f.highCut = *highCut
	}

	switch {
	case lowCut != nil && highCut != nil:
		lo := lowpassKernel(numTaps, *lowCut/sampleRate)
		hi := lowpassKernel(numTaps, *highCut/sampleRate)
		f.taps = make([]float64, numTaps)
		for i := range f.taps {
			f.taps[i] = hi[i] - lo[i]
		}
	case highCut != nil:
		f.taps = lowpassKernel(numTaps, *highCut/sampleRate)
	default:
		// high-pass by spectral inversion of the complementary low-pass
		lo := lowpassKernel(numTaps, *lowCut/sampleRate)
		f.taps = make([]float64, numTaps)
		for i := range f.taps {
			f.taps[i] = -lo[i]
		}
		f.taps[numTaps/2] += 1.0
	}

	return f, nil
}

// autoTaps derives a kernel length from the narrowest transition band,
// roughly 3.3 periods of the sampling rate per Hz of transition (Hamming
// window design rule).
func autoTaps(sampleRate float64, lowCut, highCut *float64) int {
	nyquist := sampleRate / 2
	trans := math.Inf(1)
	if lowCut != nil {
		t := math.Min(math.Max(*lowCut*0.25, 2.0), *lowCut)
		trans = math.Min(trans, t)
	}
	if highCut != nil {
		t := math.Min(math.Max(*highCut*0.25, 2.0), nyquist-*highCut)
		trans = math.Min(trans, t)
	}
	if trans <= 0 || math.IsInf(trans, 1) {
		trans = 1.0
	}
	return int(math.Ceil(3.3 * sampleRate / trans))
}

// lowpassKernel builds a Hamming-windowed sinc kernel with unity DC gain.
// cutoff is normalized to the sampling rate (0..0.5).
func lowpassKernel(numTaps int, cutoff float64) []float64 {
	m := float64(numTaps-1) / 2
	kernel := make([]float64, numTaps)
	for i := range kernel {
		x := float64(i) - m
		if x == 0 {
			kernel[i] = 2 * cutoff
		} else {
			kernel[i] = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
		}
	}

	window := windowing.NewHamming(numTaps, true)
	coeffs := window.GetCoefficients()
	sum := 0.0
	for i := range kernel {
		kernel[i] *= coeffs[i]
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// ApplyZeroPhase convolves the signal with the kernel, centered, using
// edge reflection for padding. Output length equals input length.
func (f *FIRFilter) ApplyZeroPhase(signal []float64) []float64 {
	n := len(signal)
	if n == 0 {
		return []float64{}
	}

	half := len(f.taps) / 2
	padded := make([]float64, n+2*half)
	copy(padded[half:], signal)
	for i := 0; i < half; i++ {
		padded[half-1-i] = signal[min(i+1, n-1)]
		padded[n+half+i] = signal[max(0, n-2-i)]
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		acc := 0.0
		for k, tap := range f.taps {
			acc += tap * padded[i+k]
		}
		out[i] = acc
	}
	return out
}

// NumTaps returns the kernel length.
func (f *FIRFilter) NumTaps() int {
	return len(f.taps)
}

// GetParameters returns the configured band edges in Hz; a zero value
// means that edge is disabled.
func (f *FIRFilter) GetParameters() (lowCut, highCut float64) {
	return f.lowCut, f.highCut
}
