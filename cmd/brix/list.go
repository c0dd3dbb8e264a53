package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brix-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows every registered game and whether it can be played online.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "ID", "Title", "Modes")
	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "--", "-----", "-----")

	for _, g := range games {
		modes := "solo"
		if g.Online {
			modes = "solo, online versus"
		}
		fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, g.ID, g.Title, modes)
	}

	fmt.Println()
	fmt.Println("Run 'brix play <id>' to play a game.")
}
