package ingest_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eegviz/eegviz/ingest"
)

func TestReadCSVMarkers(t *testing.T) {
	data := "latency,duration,type\n1.5,0.5,stim\n3,1,rest\n"

	events, added, err := ingest.ReadCSVMarkers(strings.NewReader(data), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	require.Len(t, events, 2)
	assert.Equal(t, 1.5, events[0].Onset)
	assert.Equal(t, 0.5, events[0].Duration)
	assert.Equal(t, "stim", events[0].Label)
}

func TestReadCSVMarkersColumnOrderIndependent(t *testing.T) {
	data := "type,duration,latency\nstim,0.5,1.5\n"

	events, _, err := ingest.ReadCSVMarkers(strings.NewReader(data), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 1.5, events[0].Onset)
	assert.Equal(t, "stim", events[0].Label)
}

func TestReadCSVMarkersDropAndClip(t *testing.T) {
	data := strings.Join([]string{
		"latency,duration,type",
		"100,1,beyond end",
		"1,0,zero duration",
		"8,5,clipped",
		"",
	}, "\n")

	events, added, err := ingest.ReadCSVMarkers(strings.NewReader(data), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, events, 1)
	assert.Equal(t, "clipped", events[0].Label)
	assert.Equal(t, 2.0, events[0].Duration)
}

func TestReadCSVMarkersMissingColumn(t *testing.T) {
	data := "latency,type\n1,stim\n"

	_, _, err := ingest.ReadCSVMarkers(strings.NewReader(data), 10)
	assert.ErrorContains(t, err, `missing required column "duration"`)
}

func TestReadCSVMarkersNonNumeric(t *testing.T) {
	data := "latency,duration,type\nabc,1,stim\n"

	_, _, err := ingest.ReadCSVMarkers(strings.NewReader(data), 10)
	assert.ErrorContains(t, err, "not numeric")

	data = "latency,duration,type\n1,xyz,stim\n"
	_, _, err = ingest.ReadCSVMarkers(strings.NewReader(data), 10)
	assert.ErrorContains(t, err, "not numeric")
}

func TestReadJSONMarkersWithReferenceTime(t *testing.T) {
	doc := `{"Markers": [
		{"label": "stim", "startDatetime": "2024-03-01T10:00:05Z", "endDatetime": "2024-03-01T10:00:07Z"},
		{"label": "rest", "startDatetime": "2024-03-01T10:00:10Z", "endDatetime": "2024-03-01T10:00:12Z"}
	]}`
	ref := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	events, added, err := ingest.ReadJSONMarkers(strings.NewReader(doc), ref, 60)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	require.Len(t, events, 2)
	assert.InDelta(t, 5.0, events[0].Onset, 1e-9)
	assert.InDelta(t, 2.0, events[0].Duration, 1e-9)
	assert.Equal(t, "stim", events[0].Label)
	assert.InDelta(t, 10.0, events[1].Onset, 1e-9)
}

func TestReadJSONMarkersEarliestStartFallback(t *testing.T) {
	// No reference time: onsets are measured from the earliest marker.
	doc := `{"Markers": [
		{"label": "late", "startDatetime": "2024-03-01T10:00:30Z", "endDatetime": "2024-03-01T10:00:31Z"},
		{"label": "early", "startDatetime": "2024-03-01T10:00:10Z", "endDatetime": "2024-03-01T10:00:11Z"}
	]}`

	events, _, err := ingest.ReadJSONMarkers(strings.NewReader(doc), time.Time{}, 60)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.InDelta(t, 20.0, events[0].Onset, 1e-9)
	assert.InDelta(t, 0.0, events[1].Onset, 1e-9)
}

func TestReadJSONMarkersOriginalFallbackFields(t *testing.T) {
	doc := `{"Markers": [
		{"originalStartDatetime": "2024-03-01T10:00:00", "originalEndDatetime": "2024-03-01T10:00:02"}
	]}`

	events, _, err := ingest.ReadJSONMarkers(strings.NewReader(doc), time.Time{}, 60)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Marker", events[0].Label)
	assert.InDelta(t, 2.0, events[0].Duration, 1e-9)
}

func TestReadJSONMarkersClipsToRecording(t *testing.T) {
	doc := `{"Markers": [
		{"label": "in", "startDatetime": "2024-03-01T10:00:01Z", "endDatetime": "2024-03-01T10:00:02Z"},
		{"label": "out", "startDatetime": "2024-03-01T10:02:00Z", "endDatetime": "2024-03-01T10:02:05Z"}
	]}`
	ref := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	events, added, err := ingest.ReadJSONMarkers(strings.NewReader(doc), ref, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, events, 1)
	assert.Equal(t, "in", events[0].Label)
}

func TestReadJSONMarkersBadTimestamp(t *testing.T) {
	doc := `{"Markers": [{"label": "x", "startDatetime": "yesterday", "endDatetime": "2024-03-01T10:00:00Z"}]}`

	_, _, err := ingest.ReadJSONMarkers(strings.NewReader(doc), time.Time{}, 60)
	assert.ErrorContains(t, err, "not ISO-8601")
}

func TestReadJSONMarkersEmpty(t *testing.T) {
	events, added, err := ingest.ReadJSONMarkers(strings.NewReader(`{"Markers": []}`), time.Time{}, 60)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Empty(t, events)
}
