// Package brix plugs the Brix falling-block engine into the arcade: a solo
// game for the local and SSH front ends and a two-player versus game for
// online matches.
package brix

import (
	"fmt"

	"github.com/vovakirdan/brix-arcade/internal/config"
	platformcore "github.com/vovakirdan/brix-arcade/internal/core"
	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
	"github.com/vovakirdan/brix-arcade/internal/multiplayer"
	"github.com/vovakirdan/brix-arcade/internal/registry"
)

// GameID is the registry identifier of Brix.
const GameID = "brix"

// flashTicks is how long a combo or chain announcement stays on screen.
const flashTicks = 45

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names keep the
// config's own difficulty.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// loadConfig returns the config and engine rules to play with. A broken
// config falls back to the defaults.
func loadConfig() (config.BrixConfig, core.Rules) {
	cfg, err := config.LoadBrix(configPath)
	if err != nil {
		cfg = config.DefaultBrixConfig()
	}
	config.ApplyBrixPreset(&cfg, difficultyPreset)

	rules, err := cfg.Rules()
	if err != nil {
		cfg = config.DefaultBrixConfig()
		config.ApplyBrixPreset(&cfg, difficultyPreset)
		rules, _ = cfg.Rules()
	}
	cfg.Pit.StartRows = platformcore.Clamp(cfg.Pit.StartRows, 0, rules.Rows-1)
	return cfg, rules
}

// Game is the single-player Brix game.
type Game struct {
	cfg        config.BrixConfig
	rules      core.Rules
	runtime    platformcore.RuntimeConfig
	round      *core.Round
	difficulty *config.DifficultyManager
	paused     bool

	hub       *core.Hub
	observers []core.EventSink

	flash     string
	flashLeft int
}

// New creates a new Brix game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Brix"
}

// Observe adds a sink that hears every event of the field, across resets.
func (g *Game) Observe(s core.EventSink) {
	if s == nil {
		return
	}
	g.observers = append(g.observers, s)
	if g.hub != nil {
		g.hub.Add(s)
	}
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime platformcore.RuntimeConfig) {
	g.runtime = runtime
	g.cfg, g.rules = loadConfig()

	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.paused = false
	g.flash = ""
	g.flashLeft = 0

	g.hub = core.NewHub(core.SinkFunc(g.announce))
	for _, s := range g.observers {
		g.hub.Add(s)
	}

	g.round = core.NewRound(
		core.GameMeta{Players: 1, Seed: runtime.Seed},
		g.rules,
		core.WithScoring(g.cfg.Points()),
		core.WithSinks(func(int) core.EventSink { return g.hub }),
	)
	g.field().Director.SetupStack(g.cfg.Pit.StartRows)
}

func (g *Game) field() *core.Field {
	return g.round.Field(0)
}

// announce keeps the latest noteworthy combo or chain for the HUD.
func (g *Game) announce(e core.Event) {
	switch e := e.(type) {
	case core.MatchResolved:
		if e.Combo > 3 {
			g.flash = fmt.Sprintf("%d COMBO!", e.Combo)
			g.flashLeft = flashTicks
		}
	case core.ChainFinished:
		if e.Counter > 1 {
			g.flash = fmt.Sprintf("%dx CHAIN!", e.Counter)
			g.flashLeft = flashTicks
		}
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if g.round.Over() {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return platformcore.StepResult{State: g.State()}
	}

	t := g.round.Time()
	for _, gi := range gameInputs(in, 0, t) {
		_ = g.round.Apply(gi)
	}

	f := g.field()
	f.Pit.SetScrollSpeed(g.difficulty.ScrollSpeed(g.rules.ScrollSpeed, f.Tally.Score, int(t)))

	if g.flashLeft > 0 {
		g.flashLeft--
	}
	g.round.Update()

	return platformcore.StepResult{State: g.State()}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	v := ViewField(g.field(), g.round.Over())
	fw, fh := FieldSize(v.Cols, v.Rows())
	const hudW = 18
	totalW := fw + 2 + hudW

	if dst.Width() < totalW || dst.Height() < fh+1 {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small")
		return
	}

	x := (dst.Width() - totalW) / 2
	y := (dst.Height() - fh - 1) / 2
	DrawField(dst, x, y, v)

	hx := x + fw + 2
	dst.DrawTextColored(hx, y, g.Title(), platformcore.ColorCyan)
	state := g.State()
	dst.DrawText(hx, y+2, fmt.Sprintf("Level  %d", state.Level))
	next := drawStats(dst, hx, y+3, v)
	if g.flashLeft > 0 {
		dst.DrawTextColored(hx, next+1, g.flash, platformcore.ColorYellow)
	}

	dst.DrawTextCentered(y+fh, "arrows move  space swap  z raise  p pause")

	if g.paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if state.GameOver {
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", state.Score))
	}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	f := g.field()
	ticks := int(g.round.Time())
	return platformcore.GameState{
		Score:    f.Tally.Score,
		Level:    g.difficulty.SpeedLevel(f.Tally.Score, ticks),
		MaxCombo: f.Tally.MaxCombo,
		MaxChain: f.Tally.MaxChain,
		GameOver: g.round.Over(),
		Paused:   g.paused,
	}
}

// Register the game with the registry
func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
	registry.RegisterOnline(GameID, func() multiplayer.OnlineGame {
		return NewVersus()
	})
}
