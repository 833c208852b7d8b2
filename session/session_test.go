package session_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eegviz/eegviz/config"
	"github.com/eegviz/eegviz/eeg"
	"github.com/eegviz/eegviz/ingest"
	"github.com/eegviz/eegviz/preprocess"
	"github.com/eegviz/eegviz/session"
)

func ptr(v float64) *float64 { return &v }

func sineRecording(t *testing.T, sampleRate, secs float64, names []string) *eeg.Recording {
	t.Helper()

	n := int(sampleRate * secs)
	data := make([][]float64, len(names))
	for c := range names {
		ch := make([]float64, n)
		for i := range ch {
			ch[i] = math.Sin(2 * math.Pi * 10 * float64(i) / sampleRate)
		}
		data[c] = ch
	}
	rec, err := eeg.NewRecording(data, sampleRate, names)
	require.NoError(t, err)
	return rec
}

func TestSessionLifecycle(t *testing.T) {
	s := session.New(session.Preferences{})
	assert.Equal(t, session.NoData, s.State())
	assert.Nil(t, s.CurrentData())

	rec := sineRecording(t, 256, 5, []string{"C3", "C4"})
	s.LoadRaw(rec)
	assert.Equal(t, session.RawLoaded, s.State())
	assert.Same(t, rec, s.CurrentData())
	assert.False(t, s.FilterApplied())

	err := s.ApplyFilters(preprocess.PipelineParams{LowFreq: ptr(1.0), HighFreq: ptr(40.0)})
	require.NoError(t, err)
	assert.Equal(t, session.Processed, s.State())
	assert.True(t, s.FilterApplied())
	assert.NotSame(t, rec, s.CurrentData())
	assert.Same(t, rec, s.Raw())

	s.Clear()
	assert.Equal(t, session.NoData, s.State())
}

func TestLoadRawInvalidatesProcessed(t *testing.T) {
	s := session.New(session.Preferences{})
	s.LoadRaw(sineRecording(t, 256, 5, []string{"C3"}))
	require.NoError(t, s.ApplyFilters(preprocess.PipelineParams{HighFreq: ptr(40.0)}))
	require.Equal(t, session.Processed, s.State())

	// Loading a new raw recording drops the old derivative entirely.
	fresh := sineRecording(t, 128, 3, []string{"C4"})
	s.LoadRaw(fresh)

	assert.Equal(t, session.RawLoaded, s.State())
	assert.Same(t, fresh, s.CurrentData())
	assert.False(t, s.FilterApplied())
}

func TestApplyFiltersRequiresData(t *testing.T) {
	s := session.New(session.Preferences{})
	assert.ErrorIs(t, s.ApplyFilters(preprocess.PipelineParams{}), session.ErrNoData)
}

func TestApplyFiltersInvalidParamsLeaveStateUntouched(t *testing.T) {
	s := session.New(session.Preferences{})
	s.LoadRaw(sineRecording(t, 256, 5, []string{"C3"}))

	err := s.ApplyFilters(preprocess.PipelineParams{ResampleRate: ptr(512.0)})
	require.Error(t, err)
	assert.Equal(t, session.RawLoaded, s.State())
	assert.False(t, s.FilterApplied())
}

func TestAddMarkersClipsAgainstRecording(t *testing.T) {
	s := session.New(session.Preferences{})
	s.LoadRaw(sineRecording(t, 256, 5, []string{"C3"}))

	added, err := s.AddMarkers([]eeg.Event{
		{Onset: 1, Duration: 0.5, Label: "stim"},
		{Onset: 100, Duration: 1, Label: "beyond"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, s.Raw().Events, 1)
	assert.Equal(t, "stim", s.Raw().Events[0].Label)
}

func TestAddMarkersKeepsFinalSamplePeriod(t *testing.T) {
	// The recording length is n/sr; a marker inside the last sample period
	// is still within the recording, same as the ingest clip rule.
	s := session.New(session.Preferences{})
	rec := sineRecording(t, 256, 5, []string{"C3"})
	s.LoadRaw(rec)

	added, err := s.AddMarkers([]eeg.Event{{Onset: 4.999, Duration: 0.05, Label: "stim"}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, s.Raw().Events, 1)
	assert.InDelta(t, 5.0, s.Raw().Events[0].End(), 1e-9)
}

func TestAddMarkersPropagatesToProcessed(t *testing.T) {
	s := session.New(session.Preferences{})
	s.LoadRaw(sineRecording(t, 256, 5, []string{"C3"}))
	require.NoError(t, s.ApplyFilters(preprocess.PipelineParams{HighFreq: ptr(40.0)}))

	added, err := s.AddMarkers([]eeg.Event{{Onset: 1, Duration: 0.5, Label: "stim"}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Len(t, s.Raw().Events, 1)
	assert.Len(t, s.CurrentData().Events, 1)
}

func TestAddMarkersFromCSVBeyondRecording(t *testing.T) {
	// A marker at latency 100 s cannot land in a 5 s recording.
	s := session.New(session.Preferences{})
	rec := sineRecording(t, 256, 5, []string{"C3"})
	s.LoadRaw(rec)

	csvData := "latency,duration,type\n100,1,stim\n"
	events, _, err := ingest.ReadCSVMarkers(strings.NewReader(csvData), rec.Duration())
	require.NoError(t, err)

	added, err := s.AddMarkers(events)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Empty(t, s.Raw().Events)
}

func TestReplaceMarkers(t *testing.T) {
	s := session.New(session.Preferences{})
	s.LoadRaw(sineRecording(t, 256, 5, []string{"C3"}))

	_, err := s.AddMarkers([]eeg.Event{{Onset: 1, Duration: 0.5, Label: "old"}})
	require.NoError(t, err)

	added, err := s.ReplaceMarkers([]eeg.Event{{Onset: 2, Duration: 0.5, Label: "new"}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, s.Raw().Events, 1)
	assert.Equal(t, "new", s.Raw().Events[0].Label)
}

func TestMarkersRequireData(t *testing.T) {
	s := session.New(session.Preferences{})

	_, err := s.AddMarkers([]eeg.Event{{Onset: 1, Duration: 1, Label: "x"}})
	assert.ErrorIs(t, err, session.ErrNoData)

	_, err = s.ReplaceMarkers(nil)
	assert.ErrorIs(t, err, session.ErrNoData)
}

func TestSummarize(t *testing.T) {
	s := session.New(session.Preferences{})
	assert.Equal(t, session.NoData, s.Summarize().State)

	rec := sineRecording(t, 256, 5, []string{"C3", "C4"})
	rec.Bads["C4"] = true
	s.LoadRaw(rec)

	sum := s.Summarize()
	assert.Equal(t, session.RawLoaded, sum.State)
	assert.Equal(t, 2, sum.NumChannels)
	assert.Equal(t, 1, sum.NumBad)
	assert.Equal(t, 256.0, sum.SampleRate)
	assert.Equal(t, "raw", sum.DataKind)

	require.NoError(t, s.ApplyFilters(preprocess.PipelineParams{HighFreq: ptr(40.0)}))
	sum = s.Summarize()
	assert.Equal(t, session.Processed, sum.State)
	assert.True(t, sum.FilterApplied)
	assert.Equal(t, "processed", sum.DataKind)
}

func TestPreferencesFromConfig(t *testing.T) {
	cfg := config.Default()
	prefs := session.PreferencesFromConfig(cfg)

	assert.Equal(t, "Alpha", prefs.DefaultBand)
	assert.Equal(t, "RdBu_r", prefs.Colormap)
	assert.Equal(t, 30.0, prefs.WindowSeconds)
	assert.False(t, prefs.AutoApplyFilters)

	s := session.New(prefs)
	assert.Equal(t, prefs, s.Preferences())

	prefs.ShowAdvanced = true
	s.SetPreferences(prefs)
	assert.True(t, s.Preferences().ShowAdvanced)
}
