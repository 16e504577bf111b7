// blockdrop is a deterministic falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockdrop                    - Start the interactive menu
//	blockdrop play               - Play a game directly
//	blockdrop replay <cmd>       - Verify, show, watch, export or import replays
//	blockdrop scores             - Show the verified high scores
//	blockdrop serve              - Start SSH server for remote play
//	blockdrop api                - Start the leaderboard HTTP service
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--seed <value>         - Set RNG seed; numbers are used verbatim, words are hashed
//	--db <path>            - Set database path (default: ~/.blockdrop/scores.db)
//	--config <path>        - Rules YAML file
//	--difficulty <preset>  - easy, normal, hard or fixed
//	--log-level <level>    - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockdrop/internal/config"
	"github.com/vovakirdan/blockdrop/internal/engine"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       string
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagName       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockdrop",
	Short: "Blockdrop - a deterministic block puzzle for your terminal",
	Long: `Blockdrop drops 2x2 blocks of two colors onto a 16x10 board.
Same-colored 2x2 squares are marked, and a timeline sweeping across the
board clears them for points. Every game is recorded as a replay that can
be verified by re-simulating it from its seed.

Available commands:
  play     - Play a game directly
  replay   - Verify, inspect, watch and archive replays
  scores   - View verified high scores
  serve    - Start SSH server for remote play
  api      - Start the leaderboard HTTP service

Examples:
  blockdrop
  blockdrop play --seed 42
  blockdrop replay verify run.json
  blockdrop serve --ssh :2222`,
	SilenceUsage: true,
	RunE:         runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagSeed, "seed", "", "RNG seed (empty = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockdrop/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagName, "name", os.Getenv("USER"), "Player name stored with scores")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

// newLogger returns a stderr logger at the --log-level level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("invalid log level, using info", "level", flagLogLevel)
	}
	return logger
}

// loadRules resolves the rules from --config and --difficulty.
func loadRules() (engine.Rules, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return engine.Rules{}, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return engine.Rules{}, err
		}
		config.ApplyPreset(&cfg, preset)
		if err := cfg.Validate(); err != nil {
			return engine.Rules{}, err
		}
	}
	return cfg.Rules(), nil
}

// seedFromFlag returns the --seed value, or 0 when unset.
func seedFromFlag() uint64 {
	if flagSeed == "" {
		return 0
	}
	return engine.SeedFromString(flagSeed)
}
