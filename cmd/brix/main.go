// brix is a falling-block match-3 game for the terminal, playable locally
// or against other players over SSH.
//
// Usage:
//
//	brix list              - List available games
//	brix play              - Play a solo game
//	brix menu              - Start the interactive menu
//	brix serve             - Start the SSH server with online versus
//	brix scores            - Show high scores and online results
//	brix sim               - Run headless bot rounds
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 30)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.arcade/scores.db)
//	--config <path>      - Use a custom brix.yaml
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, insane, fixed
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brix-arcade/internal/config"
	"github.com/vovakirdan/brix-arcade/internal/games/brix"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brix",
	Short: "Brix - swap blocks, match three, chain for glory",
	Long: `Brix is a falling-block match-3 game for your terminal.

Swap horizontally adjacent blocks to line up three or more of a color.
Blocks that fall into new matches build chains. The stack keeps rising;
let it reach the top and the game is over.

Available commands:
  list     - Show all available games
  play     - Play a solo game directly
  menu     - Interactive menu
  serve    - Start SSH server for remote and online versus play
  scores   - View high scores and online results
  sim      - Simulate bot rounds without a terminal

Examples:
  brix play
  brix play --difficulty hard
  brix serve --ssh :2222 --metrics :9100
  brix scores --matches`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
			return fmt.Errorf("unknown difficulty %q (use easy, normal, hard, insane or fixed)", flagDifficulty)
		}
		brix.SetConfigPath(flagConfig)
		brix.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom brix.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, insane, fixed")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}

// playerName is the name local scores are saved under.
func playerName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
