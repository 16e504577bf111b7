package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// Status is the lifecycle phase of a game.
type Status string

const (
	StatusInitial         Status = "initial"
	StatusPlaying         Status = "playing"
	StatusPaused          Status = "paused"
	StatusCountdownPaused Status = "countdownPaused"
	StatusGameOver        Status = "gameOver"
)

// Rules holds the tuning a run is created with. It travels inside the state
// and the replay so a verifier reproduces the run with identical settings.
type Rules struct {
	DropInterval    int `json:"drop_interval"`     // frames between gravity steps
	MinDropInterval int `json:"min_drop_interval"` // floor for the speed-up
	ScorePerSpeedup int `json:"score_per_speedup"` // score needed per frame of speed-up, 0 disables
	SweepInterval   int `json:"sweep_interval"`    // frames per timeline column
	QueueSize       int `json:"queue_size"`        // look-ahead blocks
	PointsPerSquare int `json:"points_per_square"`
	ComboBonus      int `json:"combo_bonus"`      // extra points per square beyond the first in one sweep run
	ResumeCountdown int `json:"resume_countdown"` // frames in countdownPaused after RESUME, 0 resumes at once
}

// DefaultRules returns the standard tuning.
func DefaultRules() Rules {
	return Rules{
		DropInterval:    48,
		MinDropInterval: 6,
		ScorePerSpeedup: 20,
		SweepInterval:   15,
		QueueSize:       3,
		PointsPerSquare: 1,
		ComboBonus:      1,
		ResumeCountdown: 0,
	}
}

// Normalize replaces out-of-range values with usable ones.
func (r Rules) Normalize() Rules {
	d := DefaultRules()
	if r.DropInterval < 1 {
		r.DropInterval = d.DropInterval
	}
	if r.MinDropInterval < 1 {
		r.MinDropInterval = 1
	}
	if r.MinDropInterval > r.DropInterval {
		r.MinDropInterval = r.DropInterval
	}
	if r.ScorePerSpeedup < 0 {
		r.ScorePerSpeedup = 0
	}
	if r.SweepInterval < 1 {
		r.SweepInterval = d.SweepInterval
	}
	if r.QueueSize < 1 {
		r.QueueSize = d.QueueSize
	}
	if r.PointsPerSquare < 0 {
		r.PointsPerSquare = 0
	}
	if r.ComboBonus < 0 {
		r.ComboBonus = 0
	}
	if r.ResumeCountdown < 0 {
		r.ResumeCountdown = 0
	}
	return r
}

// dropIntervalFor returns the gravity interval for the given score.
func (r Rules) dropIntervalFor(score int) int {
	if r.ScorePerSpeedup <= 0 {
		return r.DropInterval
	}
	return max(r.MinDropInterval, r.DropInterval-score/r.ScorePerSpeedup)
}

// Stats are running counters shown to the player.
type Stats struct {
	BlocksLocked   int `json:"blocks_locked"`
	SquaresCleared int `json:"squares_cleared"`
	CellsCleared   int `json:"cells_cleared"`
}

// GameState is the complete simulation state. It is a value: Reduce never
// modifies a state it was given.
type GameState struct {
	Board          Board           `json:"board"`
	Current        Block           `json:"current"`
	Queue          []Block         `json:"queue"`
	Position       Position        `json:"position"`
	Status         Status          `json:"status"`
	Score          int             `json:"score"`
	Frame          int             `json:"frame"`
	DropTimer      int             `json:"drop_timer"`
	DropInterval   int             `json:"drop_interval"`
	Countdown      int             `json:"countdown"`
	Timeline       Timeline        `json:"timeline"`
	FallingColumns []FallingColumn `json:"falling_columns"`
	MarkedCells    []Coord         `json:"marked_cells"`
	Squares        []Square        `json:"squares"`
	Seed           uint64          `json:"seed"`
	RNG            RNG             `json:"rng"`
	Rules          Rules           `json:"rules"`
	Stats          Stats           `json:"stats"`
	Debug          bool            `json:"debug"`
}

// NewGameState creates the initial state for a run. The first block and the
// queue are drawn from the seeded RNG, so the whole piece sequence is a
// function of the seed.
func NewGameState(seed uint64, rules Rules) GameState {
	rules = rules.Normalize()
	s := GameState{
		Board:        NewBoard(),
		Position:     SpawnPosition,
		Status:       StatusInitial,
		DropInterval: rules.DropInterval,
		Timeline:     NewTimeline(rules.SweepInterval),
		Seed:         seed,
		RNG:          NewRNG(seed),
		Rules:        rules,
	}
	s.Current = NewBlock(&s.RNG)
	s.Queue = make([]Block, 0, rules.QueueSize)
	for range rules.QueueSize {
		s.Queue = append(s.Queue, NewBlock(&s.RNG))
	}
	return s
}

// Clone returns a deep copy of the state.
func (s GameState) Clone() GameState {
	s.Queue = slices.Clone(s.Queue)
	s.FallingColumns = cloneFalling(s.FallingColumns)
	s.MarkedCells = slices.Clone(s.MarkedCells)
	s.Squares = slices.Clone(s.Squares)
	return s
}

// RNGState returns the RNG checkpoint carried by the state.
func (s GameState) RNGState() uint64 {
	return s.RNG.State()
}

// Fingerprint returns a SHA-256 digest of the canonical JSON encoding.
// Two states with equal fingerprints are byte-identical.
func Fingerprint(s GameState) string {
	data, err := json.Marshal(s)
	if err != nil {
		// GameState holds only plain data; Marshal cannot fail.
		panic("engine: fingerprint: " + err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
