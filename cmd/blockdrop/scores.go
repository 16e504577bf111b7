package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockdrop/internal/storage"
)

var (
	flagAllScores   bool
	flagClearScores bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top 10 verified high scores.

A score is verified when its replay was played back and reproduced it.

Examples:
  blockdrop scores
  blockdrop scores --all
  blockdrop scores --clear   # delete every score and replay`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagAllScores, "all", false, "Include unverified scores")
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete all scores and replays")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearScores(); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Println("Cleared all scores and replays.")
		return nil
	}

	scores, err := store.TopScores(10, !flagAllScores)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	if flagAllScores {
		fmt.Println("High Scores")
	} else {
		fmt.Println("High Scores - verified")
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'blockdrop play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %-6s  %s\n", "Rank", "Player", "Score", "Replay", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-6s  %s\n", "----", "------", "-----", "------", "----")

	for i, entry := range scores {
		player := entry.Player
		if player == "" {
			player = "anonymous"
		}
		replayRef := "-"
		if entry.ReplayID != 0 {
			replayRef = fmt.Sprintf("#%d", entry.ReplayID)
		}
		fmt.Printf("  %-4d  %-16s  %-8d  %-6s  %s\n",
			i+1, player, entry.Score, replayRef, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if high, err := store.HighScore(); err == nil {
		fmt.Printf("Best overall: %d\n", high)
	}
	return nil
}
