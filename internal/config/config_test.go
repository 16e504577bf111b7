package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/blockdrop/internal/engine"
)

func TestEmbeddedDefaultsMatchEngine(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("parse(embedded) error: %v", err)
	}
	if got, want := cfg.Rules(), engine.DefaultRules(); got != want {
		t.Errorf("Rules() = %+v, expected %+v", got, want)
	}
	if got, want := DefaultConfig().Rules(), engine.DefaultRules(); got != want {
		t.Errorf("DefaultConfig().Rules() = %+v, expected %+v", got, want)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	body := "timeline:\n  sweep_interval: 7\nscoring:\n  points_per_square: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Timeline.SweepInterval != 7 {
		t.Errorf("SweepInterval = %d, expected 7", cfg.Timeline.SweepInterval)
	}
	if cfg.Scoring.PointsPerSquare != 3 {
		t.Errorf("PointsPerSquare = %d, expected 3", cfg.Scoring.PointsPerSquare)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Gameplay.DropInterval != engine.DefaultRules().DropInterval {
		t.Errorf("DropInterval = %d, expected default %d", cfg.Gameplay.DropInterval, engine.DefaultRules().DropInterval)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		body    string
		missing bool
		errPart string
	}{
		{name: "missing file", missing: true, errPart: "failed to read"},
		{name: "bad yaml", body: "gameplay: [", errPart: "failed to parse"},
		{name: "invalid values", body: "timeline:\n  sweep_interval: 0\n", errPart: "sweep_interval"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".yaml")
			if !tc.missing {
				if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("Load() error = %q, expected it to mention %q", err, tc.errPart)
			}
		})
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Rules() != engine.DefaultRules() {
		t.Errorf("Load(\"\") = %+v, expected defaults", cfg.Rules())
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "gameplay:\n  queue_size: 5\n"
	if err := os.WriteFile(filepath.Join(dir, "configs", FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gameplay.QueueSize != 5 {
		t.Errorf("QueueSize = %d, expected 5", cfg.Gameplay.QueueSize)
	}
}

func TestRulesDifficultyDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Difficulty.Enabled = false
	r := cfg.Rules()
	if r.ScorePerSpeedup != 0 {
		t.Errorf("ScorePerSpeedup = %d, expected 0 when difficulty is off", r.ScorePerSpeedup)
	}
	if r.MinDropInterval != r.DropInterval {
		t.Errorf("MinDropInterval = %d, expected %d", r.MinDropInterval, r.DropInterval)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset       DifficultyPreset
		enabled      bool
		dropInterval int
	}{
		{DifficultyEasy, true, 60},
		{DifficultyNormal, true, 48},
		{DifficultyHard, true, 30},
		{DifficultyFixed, false, 48},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Gameplay.DropInterval != tc.dropInterval {
				t.Errorf("DropInterval = %d, expected %d", cfg.Gameplay.DropInterval, tc.dropInterval)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v", p, err)
	}
	if p, err := ParsePreset("hard"); err != nil || p != DifficultyHard {
		t.Errorf("ParsePreset(hard) = %q, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset(nightmare) expected error")
	}
}
