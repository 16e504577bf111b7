package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockdrop/internal/core"
	"github.com/vovakirdan/blockdrop/internal/platform/tui"
	"github.com/vovakirdan/blockdrop/internal/storage"
)

var flagRecordDir string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing blockdrop.

Controls:
  Left/Right, A/D  - Move
  Up/X, Z          - Rotate clockwise / counter-clockwise
  Down/S           - Soft drop
  Space            - Hard drop
  P/Esc            - Pause / resume
  R                - Restart
  ?                - Toggle help
  Q/Ctrl+C         - Quit

When a game ends its replay is verified and stored together with the score.

Difficulty options:
  easy   - Slower gravity, gentle speed-up
  normal - Default rules
  hard   - Fast gravity, steep speed-up, slow timeline
  fixed  - No speed-up

Examples:
  blockdrop play
  blockdrop play --seed 1234
  blockdrop play --difficulty hard
  blockdrop play --record ./replays`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRecordDir, "record", "", "Also write finished replays as JSON into this directory")
}

// runtimeConfig builds the runtime config from flags and the terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = seedFromFlag()
	cfg.Player = flagName
	return cfg
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger := newLogger("blockdrop")

	rules, err := loadRules()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage - game still works
		store = nil
	}

	last, runErr := tui.Run(store, runtimeConfig(), tui.GameOptions{
		Rules:     rules,
		RecordDir: flagRecordDir,
		Logger:    logger,
	})

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		return fmt.Errorf("running game: %w", runErr)
	}

	if last != nil {
		fmt.Printf("Score %d in %d frames (seed %d)\n", last.FinalScore, last.Frames, last.Seed)
	}
	return nil
}
