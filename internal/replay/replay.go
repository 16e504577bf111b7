// Package replay records the action stream of a run, compacts it into a
// delta-encoded log and plays a log back through the engine so a claimed
// score can be checked independently.
package replay

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/vovakirdan/blockdrop/internal/engine"
)

// Version is the current replay format version.
const Version = 1

// MaxFrames is the longest run a replay may describe, about 19 hours at 60
// ticks per second. Expansion allocates one entry per frame.
const MaxFrames = 1 << 22

var (
	// ErrMalformedReplay is returned when a compacted log cannot be expanded.
	ErrMalformedReplay = errors.New("malformed replay")
	// ErrScoreMismatch is returned when playback does not reach the claimed score.
	ErrScoreMismatch = errors.New("score mismatch")
	// ErrUnsupportedVersion is returned for replays written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported replay version")
)

// Input is one entry of a replay log. In a raw log Frame is the number of
// ticks recorded before the action; in a compacted log it is the number of
// ticks since the previous retained action.
type Input struct {
	Type    engine.ActionType `json:"type"`
	Frame   int               `json:"frame"`
	Payload json.RawMessage   `json:"payload,omitempty"`
}

// Meta is the outcome metadata attached to a finalized replay.
type Meta struct {
	FinalScore int
	Duration   time.Duration
	PlayerName string
	RecordedAt time.Time
}

// Data is a finalized, compacted replay.
type Data struct {
	Version    int          `json:"version"`
	Seed       uint64       `json:"seed,string"`
	Rules      engine.Rules `json:"rules"`
	Inputs     []Input      `json:"inputs"`
	Frames     int          `json:"frames"` // total ticks in the run
	FinalScore int          `json:"final_score"`
	DurationMS int64        `json:"duration_ms"`
	PlayerName string       `json:"player_name,omitempty"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// NewData builds a replay from a compacted log.
func NewData(seed uint64, rules engine.Rules, compacted []Input, frames int, meta Meta) Data {
	if compacted == nil {
		compacted = []Input{}
	}
	return Data{
		Version:    Version,
		Seed:       seed,
		Rules:      rules.Normalize(),
		Inputs:     compacted,
		Frames:     frames,
		FinalScore: meta.FinalScore,
		DurationMS: meta.Duration.Milliseconds(),
		PlayerName: meta.PlayerName,
		RecordedAt: meta.RecordedAt,
	}
}

// Duration returns the recorded wall-clock duration.
func (d Data) Duration() time.Duration {
	return time.Duration(d.DurationMS) * time.Millisecond
}

// ActionCount returns the number of non-tick actions in the log.
func (d Data) ActionCount() int {
	return len(d.Inputs)
}
