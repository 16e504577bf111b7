package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockdrop/internal/leaderboard"
	"github.com/vovakirdan/blockdrop/internal/storage"
)

var (
	flagAPIAddr   string
	flagMaxFrames int
	flagRelease   bool
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the leaderboard HTTP service",
	Long: `Start the leaderboard HTTP service.

Clients submit replays instead of scores. Each upload is played back
through the engine under the server's rules (--config, --difficulty);
only runs recorded with those rules whose claimed score is reproduced
are stored and ranked.

Endpoints:
  POST /api/replays      - Submit a replay (JSON)
  GET  /api/replays/:id  - Fetch a stored replay
  GET  /api/scores       - Verified top scores (?limit=N, max 100)
  GET  /healthz          - Liveness probe

Examples:
  blockdrop api
  blockdrop api --addr :9090 --release`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	defaults := leaderboard.DefaultConfig()
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", defaults.Address, "HTTP listen address (host:port)")
	apiCmd.Flags().IntVar(&flagMaxFrames, "max-frames", defaults.MaxFrames, "Reject replays longer than this many frames")
	apiCmd.Flags().BoolVar(&flagRelease, "release", false, "Run gin in release mode")
}

func runAPI(_ *cobra.Command, _ []string) error {
	logger := newLogger("leaderboard")

	rules, err := loadRules()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := leaderboard.DefaultConfig()
	cfg.Address = flagAPIAddr
	cfg.MaxFrames = flagMaxFrames
	cfg.Release = flagRelease
	cfg.Rules = rules

	return leaderboard.NewServer(cfg, store, logger).ListenAndServe()
}
