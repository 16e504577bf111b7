package replay

import (
	"fmt"

	"github.com/vovakirdan/blockdrop/internal/engine"
)

// Frame is one entry of an expanded timeline: the actions dispatched on
// that frame, before its tick.
type Frame struct {
	Number  int
	Actions []engine.Action
}

// CompactInputs drops every tick from a raw log and re-encodes each
// remaining action's frame as the number of ticks since the previous
// retained action.
func CompactInputs(inputs []Input) []Input {
	out := make([]Input, 0, len(inputs)/4)
	ticks := 0
	for _, in := range inputs {
		if in.Type == engine.ActionTick {
			ticks++
			continue
		}
		out = append(out, Input{Type: in.Type, Frame: ticks, Payload: in.Payload})
		ticks = 0
	}
	return out
}

// Expand rebuilds the dense per-frame timeline of a compacted log. The
// result always holds frame 0 and runs up to the last encoded action,
// which may not lie past d.Frames. Any bad entry fails the whole expansion.
func Expand(d Data) ([]Frame, error) {
	type placed struct {
		frame  int
		action engine.Action
	}

	if d.Frames < 0 || d.Frames > MaxFrames {
		return nil, fmt.Errorf("replay: frame count %d outside 0..%d: %w", d.Frames, MaxFrames, ErrMalformedReplay)
	}

	abs := 0
	actions := make([]placed, 0, len(d.Inputs))
	for i, in := range d.Inputs {
		switch {
		case in.Type == engine.ActionTick:
			return nil, fmt.Errorf("replay: input %d: tick in compacted log: %w", i, ErrMalformedReplay)
		case in.Frame < 0:
			return nil, fmt.Errorf("replay: input %d: negative frame delta %d: %w", i, in.Frame, ErrMalformedReplay)
		case in.Frame > d.Frames-abs:
			return nil, fmt.Errorf("replay: input %d: frame delta %d runs past frame %d: %w", i, in.Frame, d.Frames, ErrMalformedReplay)
		}
		abs += in.Frame
		a, err := engine.NewAction(in.Type, abs)
		if err != nil {
			return nil, fmt.Errorf("replay: input %d: unknown action type %q: %w", i, in.Type, ErrMalformedReplay)
		}
		actions = append(actions, placed{frame: abs, action: a})
	}

	timeline := make([]Frame, abs+1)
	for f := range timeline {
		timeline[f].Number = f
	}
	for _, p := range actions {
		timeline[p.frame].Actions = append(timeline[p.frame].Actions, p.action)
	}
	return timeline, nil
}
