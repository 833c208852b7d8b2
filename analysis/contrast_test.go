package analysis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eegviz/eegviz/analysis"
	"github.com/eegviz/eegviz/eeg"
)

func TestIntervalsFromEvents(t *testing.T) {
	events := []eeg.Event{
		{Onset: 1, Duration: 2, Label: "rest"},
		{Onset: 5, Duration: 2, Label: "task"},
		{Onset: 9, Duration: 1, Label: "rest"},
	}

	got := analysis.IntervalsFromEvents(events, "rest")
	require.Len(t, got, 2)
	assert.Equal(t, analysis.Interval{Onset: 1, Duration: 2}, got[0])
	assert.Equal(t, analysis.Interval{Onset: 9, Duration: 1}, got[1])

	assert.Nil(t, analysis.IntervalsFromEvents(events, "missing"))
}

func TestMeanBandOverIntervalsEmpty(t *testing.T) {
	rec := sineRecording(t, 10.0, 256.0, 5.0, 2)
	assert.Nil(t, analysis.MeanBandOverIntervals(rec, nil, 8, 13, nil))
}

func TestMeanBandOverIntervals(t *testing.T) {
	rec := sineRecording(t, 10.0, 256.0, 10.0, 3)
	intervals := []analysis.Interval{
		{Onset: 0, Duration: 2},
		{Onset: 4, Duration: 2},
	}

	mean := analysis.MeanBandOverIntervals(rec, intervals, 8, 13, nil)
	require.Len(t, mean, 3)

	// Both intervals see the same stationary tone, so the mean matches a
	// single interval's estimate.
	single := analysis.BandPowerSegment(rec, 0, 2, 8, 13, nil)
	for i := range mean {
		assert.InDelta(t, single[i], mean[i], single[i]*1e-6)
	}
}

func TestContrastDBSign(t *testing.T) {
	got := analysis.ContrastDB([]float64{10, 1, 5}, []float64{1, 10, 5})
	require.Len(t, got, 3)
	assert.InDelta(t, 10.0, got[0], 1e-9)
	assert.InDelta(t, -10.0, got[1], 1e-9)
	assert.InDelta(t, 0.0, got[2], 1e-9)
}

func TestContrastDBZeroPowerIsFinite(t *testing.T) {
	got := analysis.ContrastDB([]float64{0, 1}, []float64{1, 0})
	require.Len(t, got, 2)
	for _, v := range got {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
	assert.InDelta(t, 0.0, analysis.ContrastDB([]float64{0}, []float64{0})[0], 1e-9)
}

func TestContrastDBTruncatesToShorter(t *testing.T) {
	got := analysis.ContrastDB([]float64{1, 1, 1}, []float64{1})
	assert.Len(t, got, 1)
}
