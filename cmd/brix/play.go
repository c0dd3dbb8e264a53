package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/brix-arcade/internal/core"
	"github.com/vovakirdan/brix-arcade/internal/games/brix"
	"github.com/vovakirdan/brix-arcade/internal/platform/tui"
	"github.com/vovakirdan/brix-arcade/internal/registry"
	"github.com/vovakirdan/brix-arcade/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a solo game",
	Long: `Start playing a solo game. The game defaults to brix.

Controls:
  Arrows/WASD  - Move the cursor
  Space/X      - Swap the two blocks under the cursor
  Z/Tab        - Raise the stack by one row
  P            - Pause
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start slow, speeds up to the maximum
  normal - Start at 30% speed, speeds up to the maximum
  hard   - Start at 70% speed, speeds up to the maximum
  insane - Start at the maximum speed
  fixed  - No speed-up, stays at the configured scroll speed

Examples:
  brix play
  brix play --difficulty easy
  brix play --seed 42
  brix play --config ./my-brix.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

// runtimeConfig builds the runtime config for the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the score database. A broken database only costs the
// scores, so it is reported and play goes on.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := brix.GameID
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'brix list' to see available games", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig(), playerName()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
