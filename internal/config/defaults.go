package config

import (
	_ "embed"

	"github.com/vovakirdan/blockdrop/internal/engine"
)

//go:embed defaults/rules.yaml
var defaultRulesYAML []byte

// DefaultConfig returns the default rules, matching engine.DefaultRules.
func DefaultConfig() Config {
	d := engine.DefaultRules()
	return Config{
		Gameplay: GameplayConfig{
			DropInterval:    d.DropInterval,
			QueueSize:       d.QueueSize,
			ResumeCountdown: d.ResumeCountdown,
		},
		Timeline: TimelineConfig{
			SweepInterval: d.SweepInterval,
		},
		Scoring: ScoringConfig{
			PointsPerSquare: d.PointsPerSquare,
			ComboBonus:      d.ComboBonus,
		},
		Difficulty: DifficultyConfig{
			Enabled:         true,
			ScorePerSpeedup: d.ScorePerSpeedup,
			MinDropInterval: d.MinDropInterval,
		},
	}
}

// DefaultYAML returns the embedded default rules file.
func DefaultYAML() []byte {
	return defaultRulesYAML
}
