package preprocess

import (
	"fmt"

	"github.com/eegviz/eegviz/eeg"
)

// ValidationError reports a malformed or out-of-range user parameter. It is
// always detected before any state is touched.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// ValidateFilterParams checks pipeline parameters against the recording's
// sampling rate. All violations are returned, not just the first, so the
// operator can fix them in one pass.
func ValidateFilterParams(rec *eeg.Recording, params PipelineParams) []error {
	var errs []error
	nyquist := rec.SampleRate / 2

	if params.LowFreq != nil {
		if *params.LowFreq < 0 {
			errs = append(errs, &ValidationError{"high-pass frequency", "must be positive"})
		} else if *params.LowFreq >= nyquist {
			errs = append(errs, &ValidationError{"high-pass frequency",
				fmt.Sprintf("%g Hz must be below Nyquist (%g Hz)", *params.LowFreq, nyquist)})
		}
	}

	// The high edge is clamped below Nyquist at apply time, so only reject
	// values that are nonsensical rather than merely too high.
	if params.HighFreq != nil && *params.HighFreq <= 0 {
		errs = append(errs, &ValidationError{"low-pass frequency", "must be positive"})
	}

	if params.LowFreq != nil && params.HighFreq != nil && *params.LowFreq >= *params.HighFreq {
		errs = append(errs, &ValidationError{"filter band",
			fmt.Sprintf("high-pass (%g Hz) must be below low-pass (%g Hz)", *params.LowFreq, *params.HighFreq)})
	}

	if params.Notch != nil && (*params.Notch <= 0 || *params.Notch >= nyquist) {
		errs = append(errs, &ValidationError{"notch frequency",
			fmt.Sprintf("%g Hz must be between 0 and Nyquist (%g Hz)", *params.Notch, nyquist)})
	}

	if params.ResampleRate != nil {
		switch {
		case *params.ResampleRate <= 0:
			errs = append(errs, &ValidationError{"resample rate", "must be positive"})
		case *params.ResampleRate > rec.SampleRate:
			errs = append(errs, &ValidationError{"resample rate",
				fmt.Sprintf("cannot upsample: %g Hz exceeds the current rate (%g Hz)",
					*params.ResampleRate, rec.SampleRate)})
		case params.HighFreq != nil && *params.ResampleRate < 2**params.HighFreq:
			errs = append(errs, &ValidationError{"resample rate",
				fmt.Sprintf("%g Hz must be at least twice the low-pass frequency (%g Hz)",
					*params.ResampleRate, *params.HighFreq)})
		}
	}

	return errs
}
