package eeg

import (
	"fmt"
	"math"
	"time"
)

// Meta carries identity fields from the source container header.
type Meta struct {
	PatientID   string `json:"patient_id,omitempty"`
	RecordingID string `json:"recording_id,omitempty"`
}

// Recording is one continuous multichannel EEG time series plus metadata.
//
// Data is laid out channels x samples. A Recording is owned by exactly one
// session for the duration of an analysis; transforms that derive a new
// analysis state (filtering, cropping) return fresh copies, while the few
// in-place mutation entry points (channel pick/mark, marker merge) live in
// the owning packages.
type Recording struct {
	Data         [][]float64     `json:"-"`
	SampleRate   float64         `json:"sample_rate"`
	ChannelNames []string        `json:"channel_names"`
	Bads         map[string]bool `json:"bads"`
	Events       []Event         `json:"events"`
	StartTime    time.Time       `json:"start_time,omitzero"`
	Meta         Meta            `json:"meta"`
}

// NewRecording validates and assembles a Recording. The data matrix must be
// rectangular with at least one channel and one sample, the sampling rate
// positive and channel names unique and matching the channel count.
func NewRecording(data [][]float64, sampleRate float64, channelNames []string) (*Recording, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("recording must have at least one channel")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %g", sampleRate)
	}
	if len(channelNames) != len(data) {
		return nil, fmt.Errorf("channel name count (%d) doesn't match channel count (%d)",
			len(channelNames), len(data))
	}

	n := len(data[0])
	if n == 0 {
		return nil, fmt.Errorf("recording must have at least one sample")
	}
	for i, ch := range data {
		if len(ch) != n {
			return nil, fmt.Errorf("channel %d has %d samples, expected %d", i, len(ch), n)
		}
	}

	seen := make(map[string]bool, len(channelNames))
	for _, name := range channelNames {
		if seen[name] {
			return nil, fmt.Errorf("duplicate channel name %q", name)
		}
		seen[name] = true
	}

	return &Recording{
		Data:         data,
		SampleRate:   sampleRate,
		ChannelNames: append([]string(nil), channelNames...),
		Bads:         make(map[string]bool),
	}, nil
}

// NumChannels returns the channel count.
func (r *Recording) NumChannels() int {
	return len(r.Data)
}

// NumSamples returns the per-channel sample count.
func (r *Recording) NumSamples() int {
	if len(r.Data) == 0 {
		return 0
	}
	return len(r.Data[0])
}

// Duration returns the recording length in seconds.
func (r *Recording) Duration() float64 {
	return float64(r.NumSamples()) / r.SampleRate
}

// LastTime returns the time of the final sample in seconds.
func (r *Recording) LastTime() float64 {
	n := r.NumSamples()
	if n == 0 {
		return 0
	}
	return float64(n-1) / r.SampleRate
}

// Copy returns a deep copy sharing no storage with the receiver.
func (r *Recording) Copy() *Recording {
	data := make([][]float64, len(r.Data))
	for i, ch := range r.Data {
		data[i] = append([]float64(nil), ch...)
	}

	bads := make(map[string]bool, len(r.Bads))
	for name, bad := range r.Bads {
		bads[name] = bad
	}

	return &Recording{
		Data:         data,
		SampleRate:   r.SampleRate,
		ChannelNames: append([]string(nil), r.ChannelNames...),
		Bads:         bads,
		Events:       append([]Event(nil), r.Events...),
		StartTime:    r.StartTime,
		Meta:         r.Meta,
	}
}

// ChannelIndex returns the index of the named channel, or -1 if absent.
func (r *Recording) ChannelIndex(name string) int {
	for i, ch := range r.ChannelNames {
		if ch == name {
			return i
		}
	}
	return -1
}

// GoodChannels returns the names of all channels not flagged bad, in
// recording order.
func (r *Recording) GoodChannels() []string {
	good := make([]string, 0, len(r.ChannelNames))
	for _, name := range r.ChannelNames {
		if !r.Bads[name] {
			good = append(good, name)
		}
	}
	return good
}

// PickIndices resolves a channel subset to indices in recording order.
// A nil subset selects every channel not flagged bad. Names in the subset
// that don't exist are ignored; an explicit subset may include bad channels.
func (r *Recording) PickIndices(subset []string) []int {
	if subset == nil {
		idx := make([]int, 0, len(r.ChannelNames))
		for i, name := range r.ChannelNames {
			if !r.Bads[name] {
				idx = append(idx, i)
			}
		}
		return idx
	}

	want := make(map[string]bool, len(subset))
	for _, name := range subset {
		want[name] = true
	}

	idx := make([]int, 0, len(subset))
	for i, name := range r.ChannelNames {
		if want[name] {
			idx = append(idx, i)
		}
	}
	return idx
}

// PickNames resolves a channel subset to names in recording order, with the
// same semantics as PickIndices.
func (r *Recording) PickNames(subset []string) []string {
	idx := r.PickIndices(subset)
	names := make([]string, len(idx))
	for i, ci := range idx {
		names[i] = r.ChannelNames[ci]
	}
	return names
}

// Segment returns a copy of the recording cropped to [start, end] seconds,
// bounds clamped into the recording. Events are re-based onto segment time
// and clipped; events entirely outside the segment are dropped.
func (r *Recording) Segment(start, end float64) *Recording {
	total := r.Duration()
	start = math.Max(0, math.Min(start, total))
	end = math.Max(start, math.Min(end, total))

	i0 := int(math.Round(start * r.SampleRate))
	i1 := int(math.Round(end * r.SampleRate))
	n := r.NumSamples()
	if i1 >= n {
		i1 = n - 1
	}
	if i0 > i1 {
		i0 = i1
	}

	data := make([][]float64, len(r.Data))
	for i, ch := range r.Data {
		data[i] = append([]float64(nil), ch[i0:i1+1]...)
	}

	seg := r.Copy()
	seg.Data = data

	segDur := float64(i1-i0+1) / r.SampleRate
	seg.Events = rebaseEvents(r.Events, start, segDur)
	return seg
}
