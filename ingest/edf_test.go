package ingest_test

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eegviz/eegviz/eeg"
	"github.com/eegviz/eegviz/export"
	"github.com/eegviz/eegviz/ingest"
)

func TestLoadEDFRoundTrip(t *testing.T) {
	const sr = 128.0
	n := int(sr) * 4
	data := make([][]float64, 2)
	for c := range data {
		ch := make([]float64, n)
		for i := range ch {
			ch[i] = 50.0 * math.Sin(2*math.Pi*10*float64(i)/sr+float64(c))
		}
		data[c] = ch
	}
	orig, err := eeg.NewRecording(data, sr, []string{"C3", "C4"})
	require.NoError(t, err)
	orig.StartTime = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	orig.Meta = eeg.Meta{PatientID: "P01", RecordingID: "R01"}

	raw, err := export.RecordingEDF(orig)
	require.NoError(t, err)

	rec, err := ingest.LoadEDF(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, 2, rec.NumChannels())
	assert.Equal(t, n, rec.NumSamples())
	assert.Equal(t, sr, rec.SampleRate)
	assert.Equal(t, []string{"C3", "C4"}, rec.ChannelNames)
	assert.Equal(t, "P01", rec.Meta.PatientID)
	assert.Equal(t, "R01", rec.Meta.RecordingID)
	assert.True(t, orig.StartTime.Equal(rec.StartTime))

	// 16-bit quantization over a +/-50 physical range keeps samples within
	// a few thousandths of the source.
	for c := range data {
		for i := 0; i < n; i += 17 {
			assert.InDelta(t, data[c][i], rec.Data[c][i], 0.01)
		}
	}
}

func TestLoadEDFNormalizesChannelNames(t *testing.T) {
	const sr = 64.0
	n := int(sr)
	mk := func() []float64 {
		ch := make([]float64, n)
		for i := range ch {
			ch[i] = float64(i % 7)
		}
		return ch
	}
	orig, err := eeg.NewRecording([][]float64{mk(), mk()}, sr, []string{"EEG Fp1", "eeg.c3"})
	require.NoError(t, err)

	raw, err := export.RecordingEDF(orig)
	require.NoError(t, err)

	rec, err := ingest.LoadEDF(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"FP1", "C3"}, rec.ChannelNames)
}

func TestLoadEDFRejectsGarbage(t *testing.T) {
	_, err := ingest.LoadEDF(bytes.NewReader(make([]byte, 64)))
	assert.Error(t, err)

	_, err = ingest.LoadEDF(bytes.NewReader([]byte("not an edf file, nowhere near long enough to hold a header")))
	assert.Error(t, err)
}
