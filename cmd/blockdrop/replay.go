package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockdrop/internal/archive"
	"github.com/vovakirdan/blockdrop/internal/engine"
	"github.com/vovakirdan/blockdrop/internal/platform/tui"
	"github.com/vovakirdan/blockdrop/internal/replay"
	"github.com/vovakirdan/blockdrop/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Verify, inspect, watch and archive replays",
	Long: `Work with recorded replays.

A replay holds the seed, the rules and the compacted input log of one game.
Playing it back through the engine reproduces the game exactly, which is
how scores are verified.

Examples:
  blockdrop replay list
  blockdrop replay verify run.json
  blockdrop replay verify 12
  blockdrop replay show run.json
  blockdrop replay watch 12
  blockdrop replay export backup.parquet
  blockdrop replay import backup.parquet`,
}

var replayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored replays, best scores first",
	Args:  cobra.NoArgs,
	RunE:  runReplayList,
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify <file|id>",
	Short: "Re-simulate a replay and check its score",
	Long: `Re-simulate a replay and check its claimed score.

The argument is a replay file, or the ID of a replay stored in the database.
A stored replay that reproduces its score is marked verified, which puts it
on the verified leaderboard.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplayVerify,
}

var replayShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print replay metadata and its input timeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplayShow,
}

var replayWatchCmd = &cobra.Command{
	Use:   "watch <file|id>",
	Short: "Play a replay back in the terminal",
	Long: `Play a replay back in the terminal.

The argument is a replay file, or the ID of a replay stored in the database.

Controls:
  Space/P  - Pause
  N        - Step one frame
  +/-      - Change speed
  Q/Esc    - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runReplayWatch,
}

var replayExportCmd = &cobra.Command{
	Use:   "export <out.parquet>",
	Short: "Export every stored replay to a Parquet archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplayExport,
}

var replayImportCmd = &cobra.Command{
	Use:   "import <in.parquet>",
	Short: "Import replays from a Parquet archive, re-verifying each one",
	Long: `Import replays from a Parquet archive.

Every row is played back again; the archive's own verified flag is ignored.
Runs already in the database (same seed, player, recording time, score and
length) are skipped, so importing the same archive twice is harmless.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplayImport,
}

var flagListLimit int

func init() {
	replayListCmd.Flags().IntVar(&flagListLimit, "limit", 20, "Number of replays to list")

	replayCmd.AddCommand(replayListCmd)
	replayCmd.AddCommand(replayVerifyCmd)
	replayCmd.AddCommand(replayShowCmd)
	replayCmd.AddCommand(replayWatchCmd)
	replayCmd.AddCommand(replayExportCmd)
	replayCmd.AddCommand(replayImportCmd)
}

func runReplayList(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.ListReplays(flagListLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No replays stored yet.")
		return nil
	}

	fmt.Printf("  %-5s  %-16s  %-8s  %-8s  %-9s  %s\n", "ID", "Player", "Score", "Frames", "Verified", "Recorded")
	fmt.Printf("  %-5s  %-16s  %-8s  %-8s  %-9s  %s\n", "--", "------", "-----", "------", "--------", "--------")
	for _, e := range entries {
		player := e.Player
		if player == "" {
			player = "anonymous"
		}
		verified := "no"
		if e.Verified {
			verified = "yes"
		}
		recorded := "-"
		if !e.RecordedAt.IsZero() {
			recorded = e.RecordedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-5d  %-16s  %-8d  %-8d  %-9s  %s\n", e.ID, player, e.Score, e.Frames, verified, recorded)
	}
	return nil
}

func runReplayVerify(_ *cobra.Command, args []string) error {
	id, stored := storedReplayID(args[0])
	if !stored {
		d, err := replay.ReadFile(args[0])
		if err != nil {
			return err
		}
		return verifyAndReport(d)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := store.Replay(id)
	if err != nil {
		return err
	}
	if err := verifyAndReport(r.Data); err != nil {
		return err
	}
	if !r.Verified {
		if err := store.MarkVerified(id); err != nil {
			return err
		}
		fmt.Printf("replay #%d marked verified\n", id)
	}
	return nil
}

// verifyAndReport plays d back and prints the outcome.
func verifyAndReport(d replay.Data) error {
	state, err := replay.Verify(d)
	if errors.Is(err, replay.ErrScoreMismatch) {
		fmt.Printf("MISMATCH  claimed %d, recomputed %d\n", d.FinalScore, state.Score)
		return err
	}
	if err != nil {
		return err
	}

	fmt.Printf("OK  score %d  frames %d  status %s\n", state.Score, d.Frames, state.Status)
	fmt.Printf("fingerprint %s\n", engine.Fingerprint(state))
	return nil
}

func runReplayShow(_ *cobra.Command, args []string) error {
	d, err := replay.ReadFile(args[0])
	if err != nil {
		return err
	}
	timeline, err := replay.Expand(d)
	if err != nil {
		return err
	}

	player := d.PlayerName
	if player == "" {
		player = "-"
	}
	fmt.Printf("Replay v%d\n", d.Version)
	fmt.Printf("  Player    %s\n", player)
	fmt.Printf("  Seed      %d\n", d.Seed)
	fmt.Printf("  Score     %d\n", d.FinalScore)
	fmt.Printf("  Frames    %d\n", d.Frames)
	fmt.Printf("  Duration  %s\n", d.Duration())
	fmt.Printf("  Actions   %d\n", d.ActionCount())
	if !d.RecordedAt.IsZero() {
		fmt.Printf("  Recorded  %s\n", d.RecordedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("  Rules     drop %d (min %d, -1 per %d pts)  sweep %d  queue %d\n",
		d.Rules.DropInterval, d.Rules.MinDropInterval, d.Rules.ScorePerSpeedup,
		d.Rules.SweepInterval, d.Rules.QueueSize)
	fmt.Println()

	fmt.Printf("  %-7s  %s\n", "Frame", "Actions")
	fmt.Printf("  %-7s  %s\n", "-----", "-------")
	for _, f := range timeline {
		if len(f.Actions) == 0 {
			continue
		}
		names := make([]string, len(f.Actions))
		for i, a := range f.Actions {
			names[i] = string(a.Type())
		}
		fmt.Printf("  %-7d  %s\n", f.Number, strings.Join(names, " "))
	}
	return nil
}

// storedReplayID reports whether arg names a stored replay: a number that
// is not also an existing file.
func storedReplayID(arg string) (int64, bool) {
	if _, err := os.Stat(arg); err == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// loadReplayArg reads a replay from a file or from the database.
func loadReplayArg(arg string) (replay.Data, error) {
	id, stored := storedReplayID(arg)
	if !stored {
		return replay.ReadFile(arg)
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return replay.Data{}, err
	}
	defer store.Close()
	r, err := store.Replay(id)
	if err != nil {
		return replay.Data{}, err
	}
	return r.Data, nil
}

func runReplayWatch(_ *cobra.Command, args []string) error {
	d, err := loadReplayArg(args[0])
	if err != nil {
		return err
	}
	cfg := runtimeConfig()
	return tui.RunWatch(d, cfg)
}

func runReplayExport(_ *cobra.Command, args []string) error {
	logger := newLogger("replay")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	stored, err := store.AllReplays()
	if err != nil {
		return err
	}

	entries := make([]archive.Entry, len(stored))
	for i, r := range stored {
		entries[i] = archive.Entry{Data: r.Data, Verified: r.Verified}
	}
	if err := archive.WriteFile(args[0], entries); err != nil {
		return err
	}

	logger.Info("exported replays", "count", len(entries), "path", args[0])
	return nil
}

func runReplayImport(_ *cobra.Command, args []string) error {
	logger := newLogger("replay")

	entries, err := archive.ReadFile(args[0])
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var verified, rejected, skipped int
	for i, e := range entries {
		dup, err := store.HasReplay(e.Data)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if dup {
			skipped++
			logger.Debug("replay already stored", "row", i, "seed", e.Data.Seed)
			continue
		}

		// The archive's verified flag is not trusted; every run is replayed.
		_, verr := replay.Verify(e.Data)
		if verr != nil {
			rejected++
			logger.Warn("replay does not verify", "row", i, "seed", e.Data.Seed, "error", verr)
		} else {
			verified++
		}
		if _, err := store.SaveReplay(e.Data, verr == nil); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	logger.Info("imported replays",
		"count", len(entries),
		"verified", verified,
		"rejected", rejected,
		"skipped", skipped,
	)
	return nil
}
