package epochs_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eegviz/eegviz/epochs"
)

func TestValidateParamsClean(t *testing.T) {
	rec := rampRecording(t, 256, 10, []string{"C3"})

	warnings := epochs.ValidateParams(rec, epochs.Params{
		Tmin:     -0.2,
		Tmax:     0.8,
		Baseline: &epochs.Interval{Start: -0.2, End: 0.0},
	})
	assert.Empty(t, warnings)
}

func TestValidateParamsWarnings(t *testing.T) {
	rec := rampRecording(t, 256, 60, []string{"C3"})

	check := func(p epochs.Params, fragment string) {
		t.Helper()
		joined := strings.Join(epochs.ValidateParams(rec, p), "\n")
		assert.Contains(t, joined, fragment)
	}

	check(epochs.Params{Tmin: 0.5, Tmax: 0.5}, "must be positive")
	check(epochs.Params{Tmin: 0, Tmax: 0.05}, "very short epochs")
	check(epochs.Params{Tmin: 0, Tmax: 40}, "very long epochs")
	check(epochs.Params{Tmin: 0, Tmax: 1,
		Baseline: &epochs.Interval{Start: 0.5, End: 0.2}}, "before baseline end")
	check(epochs.Params{Tmin: -0.1, Tmax: 1,
		Baseline: &epochs.Interval{Start: -0.5, End: 0.0}}, "within the epoch range")
	check(epochs.Params{Tmin: -0.1, Tmax: 1,
		Baseline: &epochs.Interval{Start: 0.0, End: 0.5}}, "ends at or before the event")
}

func TestValidateParamsFewSamples(t *testing.T) {
	rec := rampRecording(t, 16, 60, []string{"C3"})

	joined := strings.Join(epochs.ValidateParams(rec, epochs.Params{Tmin: 0, Tmax: 0.5}), "\n")
	assert.Contains(t, joined, "very few samples")
}
