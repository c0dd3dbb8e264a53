package brix

import (
	platformcore "github.com/vovakirdan/brix-arcade/internal/core"
	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
	"github.com/vovakirdan/brix-arcade/internal/multiplayer"
)

// maxInputLag bounds how many ticks into the past a late input may be
// placed. Older inputs land at the oldest allowed tick instead.
const maxInputLag = 15

// VersusGame is the two-player Brix match run by the server. Each player
// owns a field; with attacks on, combos and chains bury the opponent in
// garbage. Inputs are journaled so that one arriving a few ticks late is
// replayed at the tick the player saw.
type VersusGame struct {
	cfg     versusSettings
	round   *core.Round
	journal *core.Journal

	hubs      []*core.Hub
	observers []func(player int) core.EventSink
}

// versusSettings is the part of the loaded configuration a match keeps.
type versusSettings struct {
	rules   core.Rules
	scoring core.Scoring
	attacks bool
	rows    int
}

var _ multiplayer.OnlineGame = (*VersusGame)(nil)

// NewVersus creates a versus game. Call Reset before use.
func NewVersus() *VersusGame {
	return &VersusGame{}
}

// Observe adds a per-player sink factory. Sinks hear live ticks only,
// never the replays caused by late inputs. Both fields tick concurrently,
// so the sinks must be safe for concurrent use.
func (g *VersusGame) Observe(f func(player int) core.EventSink) {
	if f == nil {
		return
	}
	g.observers = append(g.observers, f)
	for i, h := range g.hubs {
		h.Add(f(i))
	}
}

// Reset starts a new match with both fields at the same seed.
func (g *VersusGame) Reset(runtime platformcore.RuntimeConfig) {
	cfg, rules := loadConfig()
	g.cfg = versusSettings{
		rules:   rules,
		scoring: cfg.Points(),
		attacks: cfg.Garbage.Attacks,
		rows:    cfg.Pit.StartRows,
	}

	g.hubs = make([]*core.Hub, 2)
	for i := range g.hubs {
		g.hubs[i] = core.NewHub()
		for _, f := range g.observers {
			g.hubs[i].Add(f(i))
		}
	}

	opts := []core.RoundOption{
		core.WithScoring(g.cfg.scoring),
		core.WithParallel(true),
		core.WithSinks(func(player int) core.EventSink { return g.hubs[player] }),
	}
	if g.cfg.attacks {
		opts = append(opts, core.WithAttacks())
	}
	g.round = core.NewRound(core.GameMeta{Players: 2, Seed: runtime.Seed}, g.cfg.rules, opts...)
	for _, f := range g.round.Fields() {
		f.Director.SetupStack(g.cfg.rows)
	}
	g.journal = core.NewJournal(g.round, core.DefaultCheckpointInterval)
}

// Input records a player's actions at the tick they were seen, clamped to
// the allowed lag window.
func (g *VersusGame) Input(player multiplayer.PlayerID, tick uint64, in platformcore.InputFrame) {
	idx := player.Index()
	if idx < 0 || idx >= len(g.round.Fields()) {
		return
	}
	now := g.round.Time()
	t := now
	if tick < uint64(now) {
		t = int64(tick) //nolint:gosec // below now
	}
	t = max(t, now-maxInputLag)
	for _, gi := range gameInputs(in, idx, t) {
		g.journal.Add(gi)
	}
}

// Step advances the match by one tick, replaying from a checkpoint first
// if a late input changed the past.
func (g *VersusGame) Step() platformcore.StepResult {
	g.round = g.journal.Sync(g.round, g.round.Time()+1)
	return platformcore.StepResult{State: platformcore.GameState{
		Score:    g.Score(multiplayer.Player1),
		GameOver: g.round.Over(),
	}}
}

// Snapshot returns an immutable copy of both fields.
func (g *VersusGame) Snapshot() multiplayer.GameSnapshot {
	fields := g.round.Fields()
	snap := VersusSnapshot{
		Tick:   g.round.Time(),
		Over:   g.round.Over(),
		Winner: g.Winner(),
		Fields: make([]FieldView, len(fields)),
	}
	for i, f := range fields {
		snap.Fields[i] = ViewField(f, snap.Over)
	}
	return snap
}

// IsGameOver reports whether a field topped out.
func (g *VersusGame) IsGameOver() bool {
	return g.round.Over()
}

// Winner returns the surviving player, NoPlayer while running or when both
// fields topped out on the same tick.
func (g *VersusGame) Winner() multiplayer.PlayerID {
	return platformcore.PlayerAt(g.round.Winner())
}

// Score returns one player's points.
func (g *VersusGame) Score(player multiplayer.PlayerID) int {
	idx := player.Index()
	if idx < 0 || idx >= len(g.round.Fields()) {
		return 0
	}
	return g.round.Field(idx).Tally.Score
}

// Round exposes the simulated round, for tests and replays.
func (g *VersusGame) Round() *core.Round {
	return g.round
}

// Journal exposes the recorded inputs.
func (g *VersusGame) Journal() *core.Journal {
	return g.journal
}
