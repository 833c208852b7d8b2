package eeg_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eegviz/eegviz/eeg"
)

func TestQualityReportCleanRecording(t *testing.T) {
	n := int(256.0 * 35)
	data := make([][]float64, 2)
	for c := range data {
		ch := make([]float64, n)
		for i := range ch {
			ch[i] = 50e-6 * math.Sin(2*math.Pi*10*float64(i)/256.0)
		}
		data[c] = ch
	}
	rec, err := eeg.NewRecording(data, 256, []string{"C3", "C4"})
	require.NoError(t, err)

	assert.Empty(t, eeg.QualityReport(rec))
}

func TestQualityReportWarnings(t *testing.T) {
	flat := make([]float64, 100)
	noisy := make([]float64, 100)
	for i := range noisy {
		noisy[i] = 0.01 // 10 mV, far beyond scalp range
	}
	rec, err := eeg.NewRecording([][]float64{flat, noisy}, 32, []string{"C3", "C4"})
	require.NoError(t, err)
	rec.Bads["C3"] = true
	rec.Bads["C4"] = true

	warnings := eeg.QualityReport(rec)
	joined := ""
	for _, w := range warnings {
		joined += w + "\n"
	}

	assert.Contains(t, joined, "low sampling rate")
	assert.Contains(t, joined, "very short recording")
	assert.Contains(t, joined, "many bad channels")
	assert.Contains(t, joined, "appear flat")
	assert.Contains(t, joined, "extreme values")
}
