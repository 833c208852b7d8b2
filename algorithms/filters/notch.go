package filters

import (
	"fmt"
	"math"
)

// NotchFilter implements a narrow rejection filter using biquad topology,
// typically used to suppress power-line interference.
//
// Coefficients follow the cookbook formulas from Robert Bristow-Johnson's
// "Cookbook formulae for audio EQ biquad filter coefficients"
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
type NotchFilter struct {
	sampleRate float64
	centerFreq float64 // Rejected frequency in Hz
	qFactor    float64 // Quality factor (higher = narrower notch)

	// Biquad coefficients
	b0, b1, b2 float64
	a0, a1, a2 float64

	// State variables for direct form II implementation
	x1, x2 float64

	initialized bool
}

// DefaultNotchQ gives a rejection band of about 2 Hz at power-line
// frequencies.
const DefaultNotchQ = 30.0

// NewNotchFilter creates a notch filter centered at centerFreq.
func NewNotchFilter(sampleRate, centerFreq, qFactor float64) (*NotchFilter, error) {
	if centerFreq <= 0 || centerFreq >= sampleRate/2 {
		return nil, fmt.Errorf("notch frequency must be between 0 and Nyquist (%g Hz), got %g",
			sampleRate/2, centerFreq)
	}
	if qFactor <= 0 {
		return nil, fmt.Errorf("q factor must be positive, got %g", qFactor)
	}

	nf := &NotchFilter{
		sampleRate: sampleRate,
		centerFreq: centerFreq,
		qFactor:    qFactor,
	}
	nf.computeCoefficients()
	return nf, nil
}

func (nf *NotchFilter) computeCoefficients() {
	w0 := 2.0 * math.Pi * nf.centerFreq / nf.sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * nf.qFactor)

	nf.b0 = 1.0
	nf.b1 = -2.0 * cosW0
	nf.b2 = 1.0
	nf.a0 = 1.0 + alpha
	nf.a1 = -2.0 * cosW0
	nf.a2 = 1.0 - alpha

	// Normalize by a0 for direct form II implementation
	nf.b0 /= nf.a0
	nf.b1 /= nf.a0
	nf.b2 /= nf.a0
	nf.a1 /= nf.a0
	nf.a2 /= nf.a0
	nf.a0 = 1.0

	nf.initialized = true
}

// Process applies the notch filter to a single sample.
// Uses Direct Form II biquad implementation for numerical stability.
func (nf *NotchFilter) Process(input float64) float64 {
	if !nf.initialized {
		nf.computeCoefficients()
	}

	// w[n] = x[n] - a1*w[n-1] - a2*w[n-2]
	w := input - nf.a1*nf.x1 - nf.a2*nf.x2

	// y[n] = b0*w[n] + b1*w[n-1] + b2*w[n-2]
	output := nf.b0*w + nf.b1*nf.x1 + nf.b2*nf.x2

	nf.x2 = nf.x1
	nf.x1 = w

	return output
}

// ProcessBuffer applies the notch filter to an entire buffer of samples.
func (nf *NotchFilter) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = nf.Process(sample)
	}
	return output
}

// ProcessZeroPhase runs the filter forward and then backward over the
// buffer, cancelling the biquad's phase distortion at the cost of a doubled
// effective order.
func (nf *NotchFilter) ProcessZeroPhase(input []float64) []float64 {
	nf.Reset()
	forward := nf.ProcessBuffer(input)

	reverse(forward)
	nf.Reset()
	backward := nf.ProcessBuffer(forward)
	reverse(backward)

	return backward
}

// Reset clears the filter's internal state (delay line).
// Call this when processing discontinuous segments.
func (nf *NotchFilter) Reset() {
	nf.x1, nf.x2 = 0.0, 0.0
}

// GetParameters returns the current filter parameters.
func (nf *NotchFilter) GetParameters() (centerFreq, qFactor float64) {
	return nf.centerFreq, nf.qFactor
}

// GetCoefficients returns the current biquad coefficients.
func (nf *NotchFilter) GetCoefficients() (b0, b1, b2, a0, a1, a2 float64) {
	return nf.b0, nf.b1, nf.b2, nf.a0, nf.a1, nf.a2
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
