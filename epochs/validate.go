package epochs

import (
	"fmt"

	"github.com/eegviz/eegviz/eeg"
)

// ValidateParams returns advisory warnings about epoch parameters. It never
// blocks construction; a non-positive duration is additionally a hard error
// inside Create.
func ValidateParams(rec *eeg.Recording, p Params) []string {
	var warnings []string

	duration := p.Tmax - p.Tmin
	switch {
	case duration <= 0:
		warnings = append(warnings, "epoch duration must be positive (tmax > tmin)")
	case duration < 0.1:
		warnings = append(warnings, "very short epochs may not be useful for analysis")
	case duration > 30.0:
		warnings = append(warnings, "very long epochs may include multiple events")
	}

	if duration > 0 && int(duration*rec.SampleRate) < 10 {
		warnings = append(warnings, "epochs will have very few samples")
	}

	if p.Baseline != nil {
		switch {
		case p.Baseline.Start >= p.Baseline.End:
			warnings = append(warnings, "baseline start must be before baseline end")
		case p.Baseline.Start < p.Tmin || p.Baseline.End > p.Tmax:
			warnings = append(warnings, fmt.Sprintf(
				"baseline [%g, %g] must lie within the epoch range [%g, %g]",
				p.Baseline.Start, p.Baseline.End, p.Tmin, p.Tmax))
		case p.Baseline.End > 0:
			warnings = append(warnings, "baseline typically ends at or before the event (t=0)")
		}
	}

	return warnings
}
