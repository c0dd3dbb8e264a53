package brix

import (
	"math/rand"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

// SimOptions configures a headless round played by random bots.
type SimOptions struct {
	Players int
	Seed    int64
	Ticks   int64 // stop after this many ticks even if nobody topped out
	// Activity is the chance per tick that a bot presses a button.
	Activity float64
}

// SimResult summarizes a simulated round.
type SimResult struct {
	Ticks   int64
	Over    bool
	Winner  int // core.NoOne for none or a draw
	Digest  uint64
	Tallies []core.Tally
}

// botButtons are the buttons bots press. Swaps are weighted up since they
// are what makes matches.
var botButtons = []core.Button{
	core.ButtonLeft, core.ButtonRight, core.ButtonUp, core.ButtonDown,
	core.ButtonSwap, core.ButtonSwap, core.ButtonSwap,
}

// Simulate plays a round with the loaded configuration. The same options
// always produce the same result.
func Simulate(opts SimOptions) SimResult {
	cfg, rules := loadConfig()
	players := max(opts.Players, 1)

	ropts := []core.RoundOption{core.WithScoring(cfg.Points())}
	if players > 1 {
		ropts = append(ropts, core.WithParallel(true))
		if cfg.Garbage.Attacks {
			ropts = append(ropts, core.WithAttacks())
		}
	}
	round := core.NewRound(core.GameMeta{Players: players, Seed: opts.Seed}, rules, ropts...)
	for _, f := range round.Fields() {
		f.Director.SetupStack(cfg.Pit.StartRows)
	}

	bot := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // reproducible bots, not security
	for round.Time() < opts.Ticks && !round.Over() {
		for p := range players {
			if bot.Float64() >= opts.Activity {
				continue
			}
			_ = round.Apply(core.GameInput{
				Time:   round.Time(),
				Player: p,
				Button: botButtons[bot.Intn(len(botButtons))],
			})
		}
		round.Update()
	}

	res := SimResult{
		Ticks:  round.Time(),
		Over:   round.Over(),
		Winner: round.Winner(),
		Digest: round.Digest(),
	}
	for _, f := range round.Fields() {
		res.Tallies = append(res.Tallies, f.Tally)
	}
	return res
}
