// Package config provides YAML-based rules loading and difficulty presets
// for blockdrop.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/blockdrop/internal/engine"
)

// Config contains the tunable rules of a game.
type Config struct {
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Timeline   TimelineConfig   `yaml:"timeline"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// GameplayConfig defines block handling.
type GameplayConfig struct {
	DropInterval    int `yaml:"drop_interval"`    // Frames between gravity steps
	QueueSize       int `yaml:"queue_size"`       // Look-ahead blocks
	ResumeCountdown int `yaml:"resume_countdown"` // Frames before play resumes, 0 = immediate
}

// TimelineConfig defines the sweep.
type TimelineConfig struct {
	SweepInterval int `yaml:"sweep_interval"` // Frames per column
}

// ScoringConfig defines points awarded by the sweep.
type ScoringConfig struct {
	PointsPerSquare int `yaml:"points_per_square"`
	ComboBonus      int `yaml:"combo_bonus"` // Extra points per square after the first in one run
}

// DifficultyConfig defines how gravity speeds up with score.
type DifficultyConfig struct {
	Enabled         bool `yaml:"enabled"`
	ScorePerSpeedup int  `yaml:"score_per_speedup"` // Score needed to shave one frame off the drop interval
	MinDropInterval int  `yaml:"min_drop_interval"`
}

// Validate reports values the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Gameplay.DropInterval < 1 {
		errs = append(errs, fmt.Errorf("gameplay.drop_interval must be positive, got %d", c.Gameplay.DropInterval))
	}
	if c.Gameplay.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("gameplay.queue_size must be positive, got %d", c.Gameplay.QueueSize))
	}
	if c.Gameplay.ResumeCountdown < 0 {
		errs = append(errs, fmt.Errorf("gameplay.resume_countdown must not be negative, got %d", c.Gameplay.ResumeCountdown))
	}
	if c.Timeline.SweepInterval < 1 {
		errs = append(errs, fmt.Errorf("timeline.sweep_interval must be positive, got %d", c.Timeline.SweepInterval))
	}
	if c.Scoring.PointsPerSquare < 0 || c.Scoring.ComboBonus < 0 {
		errs = append(errs, errors.New("scoring values must not be negative"))
	}
	if c.Difficulty.Enabled && c.Difficulty.MinDropInterval > c.Gameplay.DropInterval {
		errs = append(errs, fmt.Errorf("difficulty.min_drop_interval %d exceeds gameplay.drop_interval %d",
			c.Difficulty.MinDropInterval, c.Gameplay.DropInterval))
	}
	return errors.Join(errs...)
}

// Rules converts the config into engine rules.
func (c Config) Rules() engine.Rules {
	r := engine.Rules{
		DropInterval:    c.Gameplay.DropInterval,
		MinDropInterval: c.Gameplay.DropInterval,
		SweepInterval:   c.Timeline.SweepInterval,
		QueueSize:       c.Gameplay.QueueSize,
		PointsPerSquare: c.Scoring.PointsPerSquare,
		ComboBonus:      c.Scoring.ComboBonus,
		ResumeCountdown: c.Gameplay.ResumeCountdown,
	}
	if c.Difficulty.Enabled {
		r.ScorePerSpeedup = c.Difficulty.ScorePerSpeedup
		r.MinDropInterval = c.Difficulty.MinDropInterval
	}
	return r.Normalize()
}
