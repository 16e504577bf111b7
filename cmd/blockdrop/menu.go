package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockdrop/internal/platform/tui"
	"github.com/vovakirdan/blockdrop/internal/storage"
)

// runMenu runs the interactive menu loop: menu -> game or scores -> menu.
func runMenu(_ *cobra.Command, _ []string) error {
	logger := newLogger("blockdrop")

	rules, err := loadRules()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	fixedSeed := cfg.Seed

	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = result.Config

		switch result.Choice {
		case tui.ChoicePlay:
			// Only the first game uses --seed; later ones get a fresh seed.
			cfg.Seed = fixedSeed
			fixedSeed = 0
			if _, err := tui.Run(store, cfg, tui.GameOptions{Rules: rules, Logger: logger}); err != nil {
				logger.Error("game failed", "error", err)
			}

		case tui.ChoiceScores:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				logger.Error("scoreboard failed", "error", err)
			}
			if !goBack {
				return nil
			}

		default:
			return nil
		}
	}
}
