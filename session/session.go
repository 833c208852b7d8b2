// Package session owns the lifecycle of raw and processed recordings for
// one analysis session. All downstream components read through
// CurrentData, giving a single consistent "what's being analyzed now"
// view. Single operator, no concurrent writers, no locking.
package session

import (
	"errors"

	"github.com/google/uuid"

	"github.com/eegviz/eegviz/config"
	"github.com/eegviz/eegviz/eeg"
	"github.com/eegviz/eegviz/logging"
	"github.com/eegviz/eegviz/preprocess"
)

// ErrNoData is returned by operations that need a loaded recording.
var ErrNoData = errors.New("no recording loaded in session")

// State enumerates the session lifecycle.
type State int

const (
	NoData State = iota
	RawLoaded
	Processed // raw loaded and a processed derivative exists
)

func (s State) String() string {
	switch s {
	case NoData:
		return "no-data"
	case RawLoaded:
		return "raw-loaded"
	case Processed:
		return "raw-loaded+processed"
	default:
		return "unknown"
	}
}

// Preferences are the operator's sticky UI/analysis defaults.
type Preferences struct {
	DefaultBand      string
	Colormap         string
	WindowSeconds    float64
	AutoApplyFilters bool
	ShowAdvanced     bool
}

// PreferencesFromConfig seeds preferences from loaded configuration.
func PreferencesFromConfig(cfg *config.Config) Preferences {
	return Preferences{
		DefaultBand:      cfg.Analysis.DefaultBand,
		Colormap:         cfg.Viz.Colormap,
		WindowSeconds:    cfg.Analysis.WindowSeconds,
		AutoApplyFilters: cfg.Filter.AutoApply,
	}
}

// Session holds the authoritative current dataset and its processing state.
type Session struct {
	ID uuid.UUID

	raw           *eeg.Recording
	processed     *eeg.Recording
	filterApplied bool
	prefs         Preferences
	logger        logging.Logger
}

// New creates an empty session.
func New(prefs Preferences) *Session {
	id := uuid.New()
	return &Session{
		ID:     id,
		prefs:  prefs,
		logger: logging.GetGlobalLogger().WithFields(logging.Fields{"session": id.String()}),
	}
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	switch {
	case s.raw == nil:
		return NoData
	case s.processed == nil:
		return RawLoaded
	default:
		return Processed
	}
}

// LoadRaw installs a new raw recording. Processed data and the
// filter-applied flag are always cleared: a derivative's validity is scoped
// to exactly one raw identity.
func (s *Session) LoadRaw(rec *eeg.Recording) {
	s.raw = rec
	s.processed = nil
	s.filterApplied = false
	s.logger.Info("raw recording loaded", logging.Fields{
		"channels":    rec.NumChannels(),
		"rate_hz":     rec.SampleRate,
		"duration_s":  rec.Duration(),
		"annotations": len(rec.Events),
	})
}

// ApplyFilters runs the filter pipeline on the raw recording and installs
// the result as the processed dataset. The raw recording is untouched; the
// processed one is always a fresh copy.
func (s *Session) ApplyFilters(params preprocess.PipelineParams) error {
	if s.raw == nil {
		return ErrNoData
	}

	proc, err := preprocess.ApplyPipeline(s.raw, params)
	if err != nil {
		return err
	}
	s.processed = proc
	s.filterApplied = true
	s.logger.Info("filter pipeline applied")
	return nil
}

// Clear drops all session data.
func (s *Session) Clear() {
	s.raw = nil
	s.processed = nil
	s.filterApplied = false
}

// CurrentData returns the processed recording when present, else the raw
// one, else nil. This is the single read path for every analysis component.
func (s *Session) CurrentData() *eeg.Recording {
	if s.processed != nil {
		return s.processed
	}
	return s.raw
}

// Raw returns the raw recording (nil when none is loaded).
func (s *Session) Raw() *eeg.Recording {
	return s.raw
}

// FilterApplied reports whether the current processed data came from the
// filter pipeline.
func (s *Session) FilterApplied() bool {
	return s.filterApplied
}

// AddMarkers clips the given events against the current recording and
// appends the survivors to both the raw and (if present) processed
// recordings, keeping the two views consistent. Returns the number of
// markers added. This is the marker-merge mutation choke point.
func (s *Session) AddMarkers(events []eeg.Event) (int, error) {
	if s.raw == nil {
		return 0, ErrNoData
	}

	kept := eeg.ClipEvents(events, s.raw.Duration())
	s.raw.Events = append(s.raw.Events, kept...)
	if s.processed != nil {
		s.processed.Events = append(s.processed.Events, eeg.ClipEvents(events, s.processed.Duration())...)
	}

	s.logger.Info("markers added", logging.Fields{"added": len(kept), "offered": len(events)})
	return len(kept), nil
}

// ReplaceMarkers swaps the whole event list for the given one (after
// clipping). Used when markers are re-imported wholesale.
func (s *Session) ReplaceMarkers(events []eeg.Event) (int, error) {
	if s.raw == nil {
		return 0, ErrNoData
	}

	s.raw.Events = nil
	if s.processed != nil {
		s.processed.Events = nil
	}
	return s.AddMarkers(events)
}

// Preferences returns the operator preference set.
func (s *Session) Preferences() Preferences {
	return s.prefs
}

// SetPreferences replaces the operator preference set.
func (s *Session) SetPreferences(prefs Preferences) {
	s.prefs = prefs
}

// Summary describes the current data state for display surfaces.
type Summary struct {
	State         State   `json:"state"`
	NumChannels   int     `json:"n_channels"`
	NumBad        int     `json:"n_bad_channels"`
	SampleRate    float64 `json:"sampling_rate"`
	DurationSec   float64 `json:"duration_sec"`
	Annotations   int     `json:"n_annotations"`
	FilterApplied bool    `json:"filter_applied"`
	DataKind      string  `json:"data_kind"` // "raw" or "processed"
}

// Summarize reports the current data state.
func (s *Session) Summarize() Summary {
	cur := s.CurrentData()
	if cur == nil {
		return Summary{State: NoData}
	}

	kind := "raw"
	if s.processed != nil {
		kind = "processed"
	}
	return Summary{
		State:         s.State(),
		NumChannels:   cur.NumChannels(),
		NumBad:        len(cur.Bads),
		SampleRate:    cur.SampleRate,
		DurationSec:   cur.Duration(),
		Annotations:   len(cur.Events),
		FilterApplied: s.filterApplied,
		DataKind:      kind,
	}
}
