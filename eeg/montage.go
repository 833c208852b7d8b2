package eeg

// Position is a 2D scalp location in head-centered coordinates
// (x toward the right ear, y toward the nasion, head radius ~1).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// standard1020 holds top-view projections of the standard 10-20 layout for
// the channels this tool encounters in practice (14-channel consumer
// headsets plus the common midline and central sites).
var standard1020 = map[string]Position{
	"FP1": {-0.294, 0.903},
	"FP2": {0.294, 0.903},
	"AF3": {-0.280, 0.740},
	"AF4": {0.280, 0.740},
	"F7":  {-0.769, 0.559},
	"F3":  {-0.400, 0.520},
	"FZ":  {0.000, 0.480},
	"F4":  {0.400, 0.520},
	"F8":  {0.769, 0.559},
	"FC5": {-0.650, 0.330},
	"FC6": {0.650, 0.330},
	"T7":  {-0.950, 0.000},
	"C3":  {-0.520, 0.000},
	"CZ":  {0.000, 0.000},
	"C4":  {0.520, 0.000},
	"T8":  {0.950, 0.000},
	"P7":  {-0.769, -0.559},
	"P3":  {-0.400, -0.520},
	"PZ":  {0.000, -0.480},
	"P4":  {0.400, -0.520},
	"P8":  {0.769, -0.559},
	"O1":  {-0.294, -0.903},
	"OZ":  {0.000, -0.950},
	"O2":  {0.294, -0.903},
}

// ChannelPosition returns the standard 10-20 position for a normalized
// channel name.
func ChannelPosition(name string) (Position, bool) {
	pos, ok := standard1020[name]
	return pos, ok
}

// MontagePositions returns positions for the given channel names, skipping
// channels without a standard location. The returned map is a fresh copy.
func MontagePositions(names []string) map[string]Position {
	out := make(map[string]Position)
	for _, name := range names {
		if pos, ok := standard1020[name]; ok {
			out[name] = pos
		}
	}
	return out
}
