package viz

import "github.com/eegviz/eegviz/eeg"

// Renderer is the external rendering collaborator: it turns spatial
// snapshots into encoded images or animations. Implementations live
// outside this module (the library computes, the shell draws).
type Renderer interface {
	// RenderTopomap draws one spatial snapshot. positions maps channel
	// names to scalp locations; vmin/vmax fix the color scale.
	RenderTopomap(values []float64, channels []string,
		positions map[string]eeg.Position, vmin, vmax float64, title string) ([]byte, error)

	// RenderAnimation draws a frame sequence as an animation at the given
	// frame rate, using the sequence's shared color range.
	RenderAnimation(seq *FrameSequence, positions map[string]eeg.Position, fps int) ([]byte, error)
}
