package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/brix-arcade/internal/games/brix"
	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

var (
	flagSimPlayers  int
	flagSimTicks    int64
	flagSimActivity float64
	flagSimRuns     int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless bot rounds",
	Long: `Run rounds with random bots and no terminal. Each run uses the
next seed, so the same flags always print the same digests.

Examples:
  brix sim --seed 42
  brix sim --players 2 --ticks 9000
  brix sim --runs 8 --activity 0.5`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimPlayers, "players", 1, "Number of fields")
	simCmd.Flags().Int64Var(&flagSimTicks, "ticks", 9000, "Stop after this many ticks")
	simCmd.Flags().Float64Var(&flagSimActivity, "activity", 0.2, "Chance per tick that a bot presses a button")
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Number of rounds, one seed each")
}

func runSim(_ *cobra.Command, _ []string) error {
	if flagSimPlayers < 1 {
		return fmt.Errorf("--players must be at least 1")
	}
	if flagSimRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	results := make([]brix.SimResult, flagSimRuns)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range results {
		g.Go(func() error {
			results[i] = brix.Simulate(brix.SimOptions{
				Players:  flagSimPlayers,
				Seed:     seed + int64(i),
				Ticks:    flagSimTicks,
				Activity: flagSimActivity,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, r := range results {
		printSim(seed+int64(i), r)
	}
	return nil
}

func printSim(seed int64, r brix.SimResult) {
	winner := "-"
	switch {
	case r.Over && r.Winner == core.NoOne:
		winner = "draw"
	case r.Winner != core.NoOne:
		winner = fmt.Sprintf("P%d", r.Winner+1)
	}

	fmt.Printf("seed %d: %d ticks, over=%v, winner %s, digest %016x\n", seed, r.Ticks, r.Over, winner, r.Digest)
	for i, t := range r.Tallies {
		fmt.Printf("  P%d  score %6d  combo %2d  chain %2d  raised %3d  sent %3d\n",
			i+1, t.Score, t.MaxCombo, t.MaxChain, t.Raised, t.Sent)
	}
}
