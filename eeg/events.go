package eeg

import "strings"

// BadSpanPrefix marks events describing rejected time spans rather than
// experimental conditions. Spectral estimation and epoching exclude the
// spans such events cover.
const BadSpanPrefix = "BAD"

// Event is a labeled time interval within a Recording. Onset and Duration
// are in seconds from the start of the recording.
type Event struct {
	Onset    float64 `json:"onset"`
	Duration float64 `json:"duration"`
	Label    string  `json:"label"`
}

// End returns the event's end time in seconds.
func (e Event) End() float64 {
	return e.Onset + e.Duration
}

// IsBadSpan reports whether the event marks a rejected span.
func (e Event) IsBadSpan() bool {
	return strings.HasPrefix(e.Label, BadSpanPrefix)
}

// Overlaps reports whether the event's span intersects [start, end).
func (e Event) Overlaps(start, end float64) bool {
	return e.Onset < end && e.End() > start
}

// ClipEvents clamps events into a recording of the given length: events
// with non-positive duration or onset at or beyond total are dropped, end
// times are clipped to total. Returns the surviving events.
func ClipEvents(events []Event, total float64) []Event {
	kept := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Duration <= 0 || ev.Onset >= total {
			continue
		}
		onset := ev.Onset
		if onset < 0 {
			onset = 0
		}
		end := ev.End()
		if end > total {
			end = total
		}
		if end-onset <= 0 {
			continue
		}
		kept = append(kept, Event{Onset: onset, Duration: end - onset, Label: ev.Label})
	}
	return kept
}

// rebaseEvents shifts events onto a segment starting at segStart and clips
// them to the segment duration.
func rebaseEvents(events []Event, segStart, segDur float64) []Event {
	shifted := make([]Event, 0, len(events))
	for _, ev := range events {
		shifted = append(shifted, Event{
			Onset:    ev.Onset - segStart,
			Duration: ev.Duration,
			Label:    ev.Label,
		})
	}
	return ClipEvents(shifted, segDur)
}

// EventLabels returns the distinct non-bad-span labels present, in first
// occurrence order.
func EventLabels(events []Event) []string {
	seen := make(map[string]bool)
	labels := make([]string, 0)
	for _, ev := range events {
		if ev.IsBadSpan() || seen[ev.Label] {
			continue
		}
		seen[ev.Label] = true
		labels = append(labels, ev.Label)
	}
	return labels
}
