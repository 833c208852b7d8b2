package eeg

import "fmt"

// Band is a named frequency range in Hz.
type Band struct {
	Name string  `json:"name"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Standard EEG frequency bands.
var standardBands = []Band{
	{Name: "Delta", Low: 1.0, High: 4.0},
	{Name: "Theta", Low: 4.0, High: 8.0},
	{Name: "Alpha", Low: 8.0, High: 13.0},
	{Name: "Beta", Low: 13.0, High: 30.0},
	{Name: "Gamma", Low: 30.0, High: 45.0},
}

// Bands returns the standard band registry. The returned slice is a copy;
// callers may extend it without affecting the registry.
func Bands() []Band {
	return append([]Band(nil), standardBands...)
}

// BandByName looks up a standard band by name.
func BandByName(name string) (Band, bool) {
	for _, b := range standardBands {
		if b.Name == name {
			return b, true
		}
	}
	return Band{}, false
}

// Validate checks the band edges against a sampling rate: low must be below
// high and both must sit within [0, Nyquist).
func (b Band) Validate(sampleRate float64) error {
	nyquist := sampleRate / 2
	if b.Low < 0 {
		return fmt.Errorf("band %s: low edge %g Hz must be non-negative", b.Name, b.Low)
	}
	if b.Low >= b.High {
		return fmt.Errorf("band %s: low edge %g Hz must be below high edge %g Hz", b.Name, b.Low, b.High)
	}
	if b.High >= nyquist {
		return fmt.Errorf("band %s: high edge %g Hz must be below Nyquist (%g Hz)", b.Name, b.High, nyquist)
	}
	return nil
}
