package epochs

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/eegviz/eegviz/algorithms/spectral"
)

// defaultTFRCycles trades temporal against spectral resolution; seven
// cycles is the common evoked-analysis default.
const defaultTFRCycles = 7.0

// TFRParams controls Morlet time-frequency decomposition.
type TFRParams struct {
	Freqs  []float64 // wavelet center frequencies in Hz
	Cycles float64   // wavelet width in cycles; <=0 selects the default
}

// FreqRange builds an inclusive linear frequency axis for TFRParams.
func FreqRange(low, high, step float64) []float64 {
	if step <= 0 || high < low {
		return nil
	}
	var freqs []float64
	for f := low; f <= high+1e-9; f += step {
		freqs = append(freqs, f)
	}
	return freqs
}

// TFR holds the averaged wavelet power of one condition.
type TFR struct {
	Power  [][][]float64 `json:"-"` // channel x frequency x time
	Freqs  []float64     `json:"freqs"`
	Times  []float64     `json:"times"`
	Label  string        `json:"label"`
	Epochs int           `json:"epochs"` // epochs averaged in
}

// TimeFrequency decomposes the epochs of one condition with complex Morlet
// wavelets and averages the resulting power across epochs, channel by
// channel. Edge samples within a wavelet half-width of the epoch boundary
// carry convolution roll-off; callers displaying the result typically crop
// or flag them.
func (s *Set) TimeFrequency(label string, p TFRParams) (*TFR, error) {
	if len(p.Freqs) == 0 {
		return nil, fmt.Errorf("at least one decomposition frequency is required")
	}
	nyquist := s.SampleRate / 2
	for _, f := range p.Freqs {
		if f <= 0 || f >= nyquist {
			return nil, fmt.Errorf("decomposition frequency %g Hz must be between 0 and Nyquist (%g Hz)", f, nyquist)
		}
	}
	cycles := p.Cycles
	if cycles <= 0 {
		cycles = defaultTFRCycles
	}

	var members [][][]float64
	for i, l := range s.Labels {
		if l == label {
			members = append(members, s.Data[i])
		}
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("no epochs with label %q", label)
	}

	nc := len(members[0])
	nt := len(members[0][0])

	tfr := &TFR{
		Freqs:  append([]float64(nil), p.Freqs...),
		Times:  s.Times(),
		Label:  label,
		Epochs: len(members),
	}
	tfr.Power = make([][][]float64, nc)
	for c := range tfr.Power {
		tfr.Power[c] = make([][]float64, len(p.Freqs))
		for fi := range tfr.Power[c] {
			tfr.Power[c][fi] = make([]float64, nt)
		}
	}

	fft := spectral.NewFFT()
	for fi, freq := range p.Freqs {
		wav := morletWavelet(freq, cycles, s.SampleRate)
		for _, ep := range members {
			for c := 0; c < nc; c++ {
				resp := convolveAnalytic(fft, ep[c], wav)
				row := tfr.Power[c][fi]
				for t, z := range resp {
					row[t] += real(z)*real(z) + imag(z)*imag(z)
				}
			}
		}
	}

	norm := 1.0 / float64(len(members))
	for c := range tfr.Power {
		for fi := range tfr.Power[c] {
			row := tfr.Power[c][fi]
			for t := range row {
				row[t] *= norm
			}
		}
	}
	return tfr, nil
}

// PowerAt returns the averaged power for one channel index at the given
// frequency and time indices.
func (t *TFR) PowerAt(channel, freqIdx, timeIdx int) float64 {
	return t.Power[channel][freqIdx][timeIdx]
}

// morletWavelet builds a complex Morlet wavelet: a complex exponential at
// freq under a Gaussian envelope of the given width in cycles, truncated at
// five standard deviations and L2-normalized.
func morletWavelet(freq, cycles, sampleRate float64) []complex128 {
	sigma := cycles / (2 * math.Pi * freq)
	half := int(math.Ceil(5 * sigma * sampleRate))
	wav := make([]complex128, 2*half+1)

	norm := 0.0
	for i := range wav {
		t := float64(i-half) / sampleRate
		env := math.Exp(-t * t / (2 * sigma * sigma))
		wav[i] = cmplx.Rect(env, 2*math.Pi*freq*t)
		norm += env * env
	}

	scale := complex(1/math.Sqrt(norm), 0)
	for i := range wav {
		wav[i] *= scale
	}
	return wav
}

// convolveAnalytic convolves a real signal with a complex kernel in the
// frequency domain and returns the centered same-length response. The
// kernel's spectrum comes from separate real transforms of its real and
// imaginary parts.
func convolveAnalytic(fft *spectral.FFT, signal []float64, kernel []complex128) []complex128 {
	n := len(signal)
	m := len(kernel)
	size := nextPow2(n + m - 1)

	sigPad := make([]float64, size)
	copy(sigPad, signal)
	kernRe := make([]float64, size)
	kernIm := make([]float64, size)
	for i, w := range kernel {
		kernRe[i] = real(w)
		kernIm[i] = imag(w)
	}

	specSig := fft.Compute(sigPad)
	specRe := fft.Compute(kernRe)
	specIm := fft.Compute(kernIm)

	prod := make([]complex128, size)
	for i := range prod {
		prod[i] = specSig[i] * (specRe[i] + complex(0, 1)*specIm[i])
	}

	full := fft.ComputeInverse(prod)
	out := make([]complex128, n)
	copy(out, full[(m-1)/2:(m-1)/2+n])
	return out
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
