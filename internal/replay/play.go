package replay

import (
	"fmt"

	"github.com/vovakirdan/blockdrop/internal/engine"
)

// Play feeds a replay through the reducer from the initial state of its
// seed. observe, when non-nil, sees every intermediate state. Actions of a
// frame are applied before that frame's tick; ticks run until Frames.
func Play(d Data, observe func(engine.GameState)) (engine.GameState, error) {
	if d.Version != Version {
		return engine.GameState{}, fmt.Errorf("replay: version %d: %w", d.Version, ErrUnsupportedVersion)
	}
	timeline, err := Expand(d)
	if err != nil {
		return engine.GameState{}, err
	}

	s := engine.NewGameState(d.Seed, d.Rules)
	step := func(a engine.Action) {
		s = engine.Reduce(s, a)
		if observe != nil {
			observe(s)
		}
	}

	for f := 0; f <= d.Frames; f++ {
		if f < len(timeline) {
			for _, a := range timeline[f].Actions {
				step(a)
			}
		}
		if f < d.Frames {
			step(engine.Tick{At: f})
		}
	}
	return s, nil
}

// Verify replays d and checks the recomputed score against the claimed one.
// The final state is returned even on a mismatch.
func Verify(d Data) (engine.GameState, error) {
	s, err := Play(d, nil)
	if err != nil {
		return s, err
	}
	if s.Score != d.FinalScore {
		return s, fmt.Errorf("replay: claimed %d, recomputed %d: %w", d.FinalScore, s.Score, ErrScoreMismatch)
	}
	return s, nil
}
