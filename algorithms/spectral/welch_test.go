package spectral_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eegviz/eegviz/algorithms/spectral"
)

func sine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func TestWelchValidation(t *testing.T) {
	w := spectral.NewWelch()

	_, err := w.Compute(nil, 256, 256, 128, nil)
	assert.ErrorContains(t, err, "empty signal")

	_, err = w.Compute(sine(10, 256, 1024), 256, 0, 0, nil)
	assert.ErrorContains(t, err, "nfft")

	_, err = w.Compute(sine(10, 256, 1024), 256, 256, 256, nil)
	assert.ErrorContains(t, err, "overlap")

	_, err = w.Compute(sine(10, 256, 1024), 0, 256, 128, nil)
	assert.ErrorContains(t, err, "sample rate")
}

func TestWelchPeakAtToneFrequency(t *testing.T) {
	w := spectral.NewWelch()

	res, err := w.Compute(sine(10, 256, 1280), 256, 512, 256, nil)
	require.NoError(t, err)
	require.Equal(t, 257, len(res.PSD))
	require.Equal(t, len(res.PSD), len(res.Freqs))
	assert.Equal(t, 4, res.Frames)

	peak := 0
	for i := range res.PSD {
		if res.PSD[i] > res.PSD[peak] {
			peak = i
		}
	}
	assert.InDelta(t, 10.0, res.Freqs[peak], 256.0/512.0)

	// Power far from the tone is orders of magnitude below the peak.
	var far float64
	for i, f := range res.Freqs {
		if f > 40 {
			far = math.Max(far, res.PSD[i])
		}
	}
	assert.Greater(t, res.PSD[peak], far*1e3)
}

func TestWelchShortSignalClampsFrame(t *testing.T) {
	w := spectral.NewWelch()

	res, err := w.Compute(sine(10, 256, 100), 256, 512, 256, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, res.NFFT)
	assert.Equal(t, 1, res.Frames)
}

func TestWelchFrameFilter(t *testing.T) {
	w := spectral.NewWelch()
	signal := sine(10, 256, 1024)

	rejectFirst := func(start, end int) bool { return start >= 256 }
	res, err := w.Compute(signal, 256, 256, 128, rejectFirst)
	require.NoError(t, err)
	// 7 frames total at half overlap, first two start below 256.
	assert.Equal(t, 5, res.Frames)

	rejectAll := func(start, end int) bool { return false }
	res, err = w.Compute(signal, 256, 256, 128, rejectAll)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Frames)
	for _, v := range res.PSD {
		assert.True(t, math.IsNaN(v))
	}
}

func TestBandMean(t *testing.T) {
	res := &spectral.WelchResult{
		PSD:   []float64{1, 2, 3, 4, 5},
		Freqs: []float64{0, 1, 2, 3, 4},
	}

	assert.InDelta(t, 3.0, res.BandMean(1, 3), 1e-12)
	assert.InDelta(t, 5.0, res.BandMean(4, 10), 1e-12)

	// An empty range falls back to the bin closest to the band center.
	assert.InDelta(t, 3.0, res.BandMean(1.6, 2.4), 1e-12)
	assert.InDelta(t, 5.0, res.BandMean(7, 9), 1e-12)
}
