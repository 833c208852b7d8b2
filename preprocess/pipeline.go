package preprocess

import (
	"fmt"
	"math"

	"github.com/eegviz/eegviz/algorithms/filters"
	"github.com/eegviz/eegviz/eeg"
	"github.com/eegviz/eegviz/logging"
)

// resampleTolerance: rate differences below this are treated as "already at
// the target rate" and skip the resampler.
const resampleTolerance = 1e-6

// PipelineParams selects which transforms the filter pipeline applies.
// Every step is independently skippable; a zero-value params struct yields
// an unmodified (but fresh) copy.
type PipelineParams struct {
	Notch           *float64 // narrow rejection frequency in Hz
	LowFreq         *float64 // high-pass edge in Hz
	HighFreq        *float64 // low-pass edge in Hz, clamped below Nyquist
	ResampleRate    *float64 // target sampling rate in Hz
	ReferenceAvg    bool     // re-reference to the across-channel average
	InterpolateBads bool     // reconstruct bad channels from good neighbors
}

// ApplyPipeline runs the deterministic transform sequence on a copy of the
// recording: resample, notch, band filter, bad-channel interpolation,
// average reference. The input is never mutated. Resampling happens first
// so later filters see the final rate.
func ApplyPipeline(rec *eeg.Recording, params PipelineParams) (*eeg.Recording, error) {
	if errs := ValidateFilterParams(rec, params); len(errs) > 0 {
		return nil, errs[0]
	}

	logger := logging.GetGlobalLogger().WithFields(logging.Fields{"component": "pipeline"})
	proc := rec.Copy()

	if params.ResampleRate != nil && math.Abs(proc.SampleRate-*params.ResampleRate) > resampleTolerance {
		resample(proc, *params.ResampleRate)
		logger.Debug("resampled", logging.Fields{"rate_hz": *params.ResampleRate})
	}

	if params.Notch != nil {
		if err := applyNotch(proc, *params.Notch); err != nil {
			return nil, err
		}
		logger.Debug("notch applied", logging.Fields{"freq_hz": *params.Notch})
	}

	if params.LowFreq != nil || params.HighFreq != nil {
		if err := applyBandFilter(proc, params.LowFreq, params.HighFreq); err != nil {
			return nil, err
		}
	}

	if params.InterpolateBads && len(proc.Bads) > 0 {
		interpolateBads(proc)
		logger.Debug("bad channels interpolated", logging.Fields{"count": len(proc.Bads)})
	}

	if params.ReferenceAvg {
		averageReference(proc)
	}

	return proc, nil
}

// resample converts the recording to the target rate by linear
// interpolation. Event times are in seconds and need no adjustment.
func resample(rec *eeg.Recording, targetRate float64) {
	oldN := rec.NumSamples()
	ratio := targetRate / rec.SampleRate
	newN := int(math.Round(float64(oldN) * ratio))
	if newN < 1 {
		newN = 1
	}

	for ci, ch := range rec.Data {
		out := make([]float64, newN)
		for i := range out {
			pos := float64(i) / ratio
			j := int(pos)
			if j >= oldN-1 {
				out[i] = ch[oldN-1]
				continue
			}
			frac := pos - float64(j)
			out[i] = ch[j] + frac*(ch[j+1]-ch[j])
		}
		rec.Data[ci] = out
	}
	rec.SampleRate = targetRate
}

// applyNotch runs a zero-phase rejection filter over every non-bad channel.
func applyNotch(rec *eeg.Recording, freq float64) error {
	nf, err := filters.NewNotchFilter(rec.SampleRate, freq, filters.DefaultNotchQ)
	if err != nil {
		return fmt.Errorf("notch filter: %w", err)
	}

	for ci, name := range rec.ChannelNames {
		if rec.Bads[name] {
			continue
		}
		rec.Data[ci] = nf.ProcessZeroPhase(rec.Data[ci])
	}
	return nil
}

// applyBandFilter runs the zero-phase FIR band filter over every channel.
// The high edge is clamped to Nyquist - 1 Hz regardless of the requested
// value.
func applyBandFilter(rec *eeg.Recording, lowFreq, highFreq *float64) error {
	ceiling := rec.SampleRate/2 - 1.0
	hf := ceiling
	if highFreq != nil && *highFreq < ceiling {
		hf = *highFreq
	}

	fir, err := filters.NewFIRBand(rec.SampleRate, lowFreq, &hf, 0)
	if err != nil {
		return fmt.Errorf("band filter: %w", err)
	}

	for ci := range rec.Data {
		rec.Data[ci] = fir.ApplyZeroPhase(rec.Data[ci])
	}
	return nil
}

// interpolateBads reconstructs bad channels by inverse-squared-distance
// weighting of good channels over the standard montage. Bad flags are kept
// so downstream estimation continues to exclude the channels even though
// their sample values changed. Bad channels without a montage position fall
// back to the plain mean of good channels.
func interpolateBads(rec *eeg.Recording) {
	type goodCh struct {
		idx int
		pos eeg.Position
		ok  bool
	}

	var good []goodCh
	for i, name := range rec.ChannelNames {
		if rec.Bads[name] {
			continue
		}
		pos, ok := eeg.ChannelPosition(name)
		good = append(good, goodCh{idx: i, pos: pos, ok: ok})
	}
	if len(good) == 0 {
		return
	}

	n := rec.NumSamples()
	for bi, name := range rec.ChannelNames {
		if !rec.Bads[name] {
			continue
		}

		badPos, havePos := eeg.ChannelPosition(name)
		weights := make([]float64, 0, len(good))
		indices := make([]int, 0, len(good))
		wsum := 0.0
		if havePos {
			for _, g := range good {
				if !g.ok {
					continue
				}
				dx := g.pos.X - badPos.X
				dy := g.pos.Y - badPos.Y
				d2 := dx*dx + dy*dy
				if d2 < 1e-12 {
					d2 = 1e-12
				}
				w := 1.0 / d2
				weights = append(weights, w)
				indices = append(indices, g.idx)
				wsum += w
			}
		}
		if wsum == 0 {
			for _, g := range good {
				weights = append(weights, 1.0)
				indices = append(indices, g.idx)
				wsum += 1.0
			}
		}

		out := make([]float64, n)
		for t := 0; t < n; t++ {
			acc := 0.0
			for k, gi := range indices {
				acc += weights[k] * rec.Data[gi][t]
			}
			out[t] = acc / wsum
		}
		rec.Data[bi] = out
	}
}

// averageReference subtracts the mean of the non-bad channels from every
// non-bad channel, sample by sample.
func averageReference(rec *eeg.Recording) {
	var goodIdx []int
	for i, name := range rec.ChannelNames {
		if !rec.Bads[name] {
			goodIdx = append(goodIdx, i)
		}
	}
	if len(goodIdx) == 0 {
		return
	}

	n := rec.NumSamples()
	for t := 0; t < n; t++ {
		mean := 0.0
		for _, gi := range goodIdx {
			mean += rec.Data[gi][t]
		}
		mean /= float64(len(goodIdx))
		for _, gi := range goodIdx {
			rec.Data[gi][t] -= mean
		}
	}
}
