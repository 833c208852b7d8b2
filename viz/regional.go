package viz

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Scalp region groupings over the standard 10-20 layout.
var regions = map[string][]string{
	"Frontal":       {"AF3", "AF4", "F3", "F4", "F7", "F8"},
	"Frontocentral": {"FC5", "FC6"},
	"Temporal":      {"T7", "T8"},
	"Parietal":      {"P7", "P8"},
	"Occipital":     {"O1", "O2"},
}

// RegionMean is the mean of a per-channel metric over one scalp region.
type RegionMean struct {
	Region string  `json:"region"`
	Mean   float64 `json:"mean"`
}

// RegionMeans averages per-channel values into scalp regions. Channels not
// belonging to any region are ignored; regions with no present channel are
// omitted. Results are sorted by region name.
func RegionMeans(chNames []string, values []float64) []RegionMean {
	nameToIdx := make(map[string]int, len(chNames))
	for i, ch := range chNames {
		nameToIdx[ch] = i
	}

	var out []RegionMean
	for region, chs := range regions {
		var vals []float64
		for _, ch := range chs {
			if i, ok := nameToIdx[ch]; ok && i < len(values) {
				vals = append(vals, values[i])
			}
		}
		if len(vals) > 0 {
			out = append(out, RegionMean{Region: region, Mean: stat.Mean(vals, nil)})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}
