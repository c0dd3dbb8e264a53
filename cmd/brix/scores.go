package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brix-arcade/internal/games/brix"
	"github.com/vovakirdan/brix-arcade/internal/registry"
	"github.com/vovakirdan/brix-arcade/internal/storage"
)

var (
	flagScoresLimit int
	flagClearScores bool
	flagMatches     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display high scores for a game, or recent online matches.

Examples:
  brix scores
  brix scores --limit 20
  brix scores --matches
  brix scores --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Clear all scores for the game")
	scoresCmd.Flags().BoolVar(&flagMatches, "matches", false, "Show recent online matches instead")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := brix.GameID
	if len(args) > 0 {
		gameID = args[0]
	}

	if !flagMatches && !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	switch {
	case flagMatches:
		return printMatches(store)
	case flagClearScores:
		if err := store.ClearScores(gameID); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Printf("Scores cleared for %s.\n", gameID)
		return nil
	default:
		return printScores(store, gameID)
	}
}

func printScores(store *storage.Store, gameID string) error {
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("fetching scores: %w", err)
	}

	if len(scores) == 0 {
		fmt.Printf("No scores recorded for %s yet.\n", gameID)
		return nil
	}

	fmt.Printf("High Scores - %s\n\n", gameID)
	fmt.Printf("  %-4s  %-12s  %8s  %5s  %5s  %s\n", "Rank", "Player", "Score", "Combo", "Chain", "Date")
	fmt.Printf("  %-4s  %-12s  %8s  %5s  %5s  %s\n", "----", "------", "-----", "-----", "-----", "----")

	for i, s := range scores {
		player := s.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-12s  %8d  %5d  %5d  %s\n",
			i+1, player, s.Score, s.MaxCombo, s.MaxChain, s.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GameStats(gameID)
	if err != nil {
		return fmt.Errorf("fetching stats: %w", err)
	}
	fmt.Println()
	fmt.Printf("%d games | best %d | avg %.0f | combo %d | chain %d\n",
		stats.GamesCount, stats.HighScore, stats.AvgScore, stats.BestCombo, stats.BestChain)
	return nil
}

func printMatches(store *storage.Store) error {
	matches, err := store.RecentOnlineMatches(flagScoresLimit)
	if err != nil {
		return fmt.Errorf("fetching matches: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("No online matches played yet.")
		return nil
	}

	fmt.Printf("Recent Online Matches\n\n")
	fmt.Printf("  %-12s  %-12s  %-13s  %-12s  %-10s  %5s  %s\n", "Host", "Guest", "Score", "Winner", "Reason", "Time", "Date")
	fmt.Printf("  %-12s  %-12s  %-13s  %-12s  %-10s  %5s  %s\n", "----", "-----", "-----", "------", "------", "----", "----")

	for _, m := range matches {
		winner := "draw"
		if m.WinnerSession != "" {
			winner = sessionUser(m.WinnerSession)
		}
		fmt.Printf("  %-12s  %-12s  %-13s  %-12s  %-10s  %5s  %s\n",
			sessionUser(m.Player1Session), sessionUser(m.Player2Session),
			fmt.Sprintf("%d : %d", m.Score1, m.Score2),
			winner, m.EndReason,
			fmt.Sprintf("%d:%02d", m.Duration/60, m.Duration%60),
			m.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// sessionUser strips the random suffix from a session ID.
func sessionUser(id string) string {
	if i := strings.LastIndex(id, "-"); i > 0 {
		return id[:i]
	}
	return id
}
