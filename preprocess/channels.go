package preprocess

import (
	"fmt"
	"strings"

	"github.com/eegviz/eegviz/eeg"
)

// vendor prefixes and separators stripped during channel-name
// normalization.
var nameJunk = []string{"EEG ", "EEG.", "EEG_", "CHAN ", "CHAN.", " "}

// CleanChannelName uppercases a channel name and strips vendor prefixes so
// names line up with the standard 10-20 montage.
func CleanChannelName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	for _, junk := range nameJunk {
		n = strings.ReplaceAll(n, junk, "")
	}
	return n
}

// NormalizeChannelNames rewrites channel names in place. A normalization
// that would collide with an existing name leaves the original name
// untouched so the uniqueness invariant holds.
func NormalizeChannelNames(rec *eeg.Recording) {
	seen := make(map[string]bool, len(rec.ChannelNames))
	cleaned := make([]string, len(rec.ChannelNames))
	for i, name := range rec.ChannelNames {
		c := CleanChannelName(name)
		if c == "" || seen[c] {
			c = name
		}
		seen[c] = true
		cleaned[i] = c
	}

	newBads := make(map[string]bool, len(rec.Bads))
	for i, old := range rec.ChannelNames {
		if rec.Bads[old] {
			newBads[cleaned[i]] = true
		}
	}

	rec.ChannelNames = cleaned
	rec.Bads = newBads
}

// PickAndMark reduces the recording to the kept channels and flags the
// given bad set, mutating in place. This is the single entry point for
// channel-set mutation; every derive-style transform goes through the
// pipeline instead.
func PickAndMark(rec *eeg.Recording, kept, bads []string) error {
	if len(kept) == 0 {
		return fmt.Errorf("channel selection must keep at least one channel")
	}

	keep := make(map[string]bool, len(kept))
	for _, name := range kept {
		if rec.ChannelIndex(name) < 0 {
			return fmt.Errorf("unknown channel %q; available: %v", name, rec.ChannelNames)
		}
		keep[name] = true
	}

	var data [][]float64
	var names []string
	for i, name := range rec.ChannelNames {
		if keep[name] {
			data = append(data, rec.Data[i])
			names = append(names, name)
		}
	}
	rec.Data = data
	rec.ChannelNames = names

	rec.Bads = make(map[string]bool, len(bads))
	for _, name := range bads {
		if keep[name] {
			rec.Bads[name] = true
		}
	}
	return nil
}
