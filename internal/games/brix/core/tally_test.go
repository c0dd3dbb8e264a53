package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

func TestTallyRecord(t *testing.T) {
	tests := []struct {
		name   string
		out    core.Outcome
		raised int
		want   core.Tally
	}{
		{
			name: "plain match",
			out:  core.Outcome{Match: true, Combo: 3},
			want: core.Tally{Score: 30, MaxCombo: 3},
		},
		{
			name: "combo bonus",
			out:  core.Outcome{Match: true, Combo: 5},
			want: core.Tally{Score: 50 + 40, MaxCombo: 5},
		},
		{
			name: "lone match finishing",
			out:  core.Outcome{ChainFinished: true},
			want: core.Tally{},
		},
		{
			name: "chain of three",
			out:  core.Outcome{ChainFinished: true, Chain: 3},
			want: core.Tally{Score: 300, MaxChain: 3},
		},
		{
			name:   "raise",
			raised: 2,
			want:   core.Tally{Score: 2, Raised: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got core.Tally
			got.Record(core.DefaultScoring(), tt.out, tt.raised)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTallyKeepsMaximums(t *testing.T) {
	var tally core.Tally
	s := core.DefaultScoring()
	tally.Record(s, core.Outcome{Match: true, Combo: 6}, 0)
	tally.Record(s, core.Outcome{Match: true, Combo: 3}, 0)
	tally.Record(s, core.Outcome{ChainFinished: true, Chain: 2}, 0)
	tally.Record(s, core.Outcome{ChainFinished: true, Chain: 1}, 0)

	assert.Equal(t, 6, tally.MaxCombo)
	assert.Equal(t, 2, tally.MaxChain)
	assert.Equal(t, 60+60+30+150+50, tally.Score)
}

func TestAttacksFor(t *testing.T) {
	tests := []struct {
		name string
		out  core.Outcome
		want []core.Attack
	}{
		{"three", core.Outcome{Match: true, Combo: 3}, nil},
		{"four", core.Outcome{Match: true, Combo: 4}, []core.Attack{{Cols: 3, Rows: 1}}},
		{"wide combo is capped", core.Outcome{Match: true, Combo: 9}, []core.Attack{{Cols: 6, Rows: 1}}},
		{"lone match", core.Outcome{ChainFinished: true}, nil},
		{"chain", core.Outcome{ChainFinished: true, Chain: 2}, []core.Attack{{Cols: 6, Rows: 2}}},
		{
			"both",
			core.Outcome{Match: true, Combo: 5, ChainFinished: true, Chain: 1},
			[]core.Attack{{Cols: 4, Rows: 1}, {Cols: 6, Rows: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.AttacksFor(tt.out, 6))
		})
	}
}

func TestRoundSendsComboGarbage(t *testing.T) {
	r := core.NewRound(core.GameMeta{Players: 2, Seed: 1}, core.DefaultRules(),
		core.WithAttacks(), core.WithoutIntro())
	attacker := r.Field(0)
	populate(attacker.Pit,
		[]core.Color{R, R, B, R, Y, O},
		[]core.Color{0, 0, R},
		[]core.Color{0, 0, R},
	)

	require.True(t, attacker.Director.Swap(core.RC(0, 2)))
	for i := 0; i < 6; i++ {
		r.Update()
	}

	assert.Equal(t, 5, attacker.Tally.MaxCombo)
	assert.Equal(t, 90, attacker.Tally.Score)
	assert.Equal(t, 4, attacker.Tally.Sent)

	var garbage []*core.Physical
	for _, o := range r.Field(1).Pit.All() {
		if o.IsGarbage() {
			garbage = append(garbage, o)
		}
	}
	require.Len(t, garbage, 1)
	assert.Equal(t, 4, garbage[0].Cols())
	assert.Equal(t, 1, garbage[0].Rows())
	assert.Equal(t, core.StateFall, garbage[0].State())
	require.NoError(t, r.Field(1).Pit.Validate())
}

func TestRoundWithoutAttacksKeepsFieldsApart(t *testing.T) {
	r := core.NewRound(core.GameMeta{Players: 2, Seed: 1}, core.DefaultRules(), core.WithoutIntro())
	populate(r.Field(0).Pit,
		[]core.Color{R, R, B, R, Y, O},
		[]core.Color{0, 0, R},
		[]core.Color{0, 0, R},
	)

	require.True(t, r.Field(0).Director.Swap(core.RC(0, 2)))
	for i := 0; i < 6; i++ {
		r.Update()
	}

	assert.Equal(t, 0, r.Field(0).Tally.Sent)
	for _, o := range r.Field(1).Pit.All() {
		assert.False(t, o.IsGarbage())
	}
}

func TestFieldScoresManualRaise(t *testing.T) {
	r := core.NewRound(core.GameMeta{Players: 1}, core.DefaultRules(), core.WithoutIntro())
	f := r.Field(0)

	f.Press(core.ButtonRaise)
	for i := 0; i < 20; i++ {
		r.Update()
	}

	assert.Equal(t, 1, f.Tally.Raised)
	assert.Equal(t, 1, f.Tally.Score)
}
