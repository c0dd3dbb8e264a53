package multiplayer

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brix-arcade/internal/core"
)

// stubGame ends as soon as Player2 swaps, or never.
type stubGame struct {
	steps  int
	winner PlayerID
	inputs []PlayerID
}

type stubSnapshot struct{ Steps int }

func (stubSnapshot) IsGameSnapshot() {}

func (g *stubGame) Reset(core.RuntimeConfig) {}

func (g *stubGame) Input(player PlayerID, _ uint64, in core.InputFrame) {
	g.inputs = append(g.inputs, player)
	if player == Player2 && in.Has(core.ActionSwap) {
		g.winner = Player2
	}
}

func (g *stubGame) Step() core.StepResult {
	g.steps++
	return core.StepResult{State: core.GameState{GameOver: g.IsGameOver()}}
}

func (g *stubGame) Snapshot() GameSnapshot { return stubSnapshot{Steps: g.steps} }
func (g *stubGame) IsGameOver() bool       { return g.winner != NoPlayer }
func (g *stubGame) Winner() PlayerID       { return g.winner }

func (g *stubGame) Score(p PlayerID) int {
	if p == g.winner {
		return 7
	}
	return 0
}

type savedResults struct {
	mu      sync.Mutex
	results []MatchResultData
}

func (s *savedResults) SaveMatchResult(r MatchResultData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *savedResults) all() []MatchResultData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MatchResultData(nil), s.results...)
}

// waitFor skips events until one of type T arrives.
func waitFor[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if want, ok := evt.(T); ok {
				return want
			}
		case <-timeout:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

type harness struct {
	coord  *Coordinator
	host   *ChannelSession
	joiner *ChannelSession
	saver  *savedResults
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := DefaultCoordinatorConfig()
	cfg.TickRate = 200
	factory := func(string, core.RuntimeConfig) (OnlineGame, error) { return &stubGame{}, nil }
	return newHarnessWith(t, cfg, factory)
}

func newHarnessWith(t *testing.T, cfg CoordinatorConfig, factory GameFactory) *harness {
	t.Helper()
	sessions := NewSessionRegistry()
	h := &harness{
		host:   NewChannelSession("host", 256),
		joiner: NewChannelSession("joiner", 256),
		saver:  &savedResults{},
	}
	sessions.Register(h.host)
	sessions.Register(h.joiner)

	h.coord = NewCoordinator(cfg, factory, sessions)
	h.coord.SetResultSaver(h.saver)
	h.coord.Start()
	t.Cleanup(h.coord.Stop)
	return h
}

// startMatch opens a lobby, joins it and returns the match ID.
func (h *harness) startMatch(t *testing.T) MatchID {
	t.Helper()
	h.coord.Send(CreateLobbyMsg{SessionID: h.host.ID(), GameID: "stub"})
	created := waitFor[LobbyCreatedEvent](t, h.host)
	require.Len(t, created.Code, JoinCodeLen)

	h.coord.Send(JoinLobbyMsg{SessionID: h.joiner.ID(), Code: created.Code})
	joined := waitFor[LobbyJoinedEvent](t, h.joiner)
	assert.Equal(t, Player2, joined.Side)

	hostStart := waitFor[MatchStartedEvent](t, h.host)
	joinStart := waitFor[MatchStartedEvent](t, h.joiner)
	assert.Equal(t, Player1, hostStart.Side)
	assert.Equal(t, Player2, joinStart.Side)
	assert.Equal(t, hostStart.MatchID, joinStart.MatchID)
	return hostStart.MatchID
}

func TestMatchCompletes(t *testing.T) {
	h := newHarness(t)
	id := h.startMatch(t)

	snap := waitFor[SnapshotEvent](t, h.host)
	assert.Equal(t, id, snap.MatchID)

	in := core.NewInputFrame()
	in.Set(core.ActionSwap)
	h.coord.Send(PlayerInputMsg{MatchID: id, Player: Player2, TickHint: snap.Tick, Input: in})

	end := waitFor[MatchEndedEvent](t, h.host)
	assert.Equal(t, MatchEndReasonCompleted, end.Reason)
	assert.Equal(t, Player2, end.Winner)
	assert.Equal(t, 0, end.Score1)
	assert.Equal(t, 7, end.Score2)

	require.Eventually(t, func() bool { return len(h.saver.all()) == 1 }, 2*time.Second, 10*time.Millisecond)
	saved := h.saver.all()[0]
	assert.Equal(t, string(id), saved.MatchID)
	assert.Equal(t, "joiner", saved.WinnerSession)
	assert.Equal(t, 0, h.coord.MatchCount())
}

func TestMatchEndsOnDisconnect(t *testing.T) {
	h := newHarness(t)
	h.startMatch(t)

	h.host.Close()
	end := waitFor[MatchEndedEvent](t, h.joiner)
	assert.Equal(t, MatchEndReasonDisconnect, end.Reason)
	assert.Equal(t, Player2, end.Winner)
}

func TestLobbyErrors(t *testing.T) {
	h := newHarness(t)

	h.coord.Send(JoinLobbyMsg{SessionID: h.joiner.ID(), Code: "NOPE00"})
	assert.Equal(t, "Lobby not found", waitFor[LobbyErrorEvent](t, h.joiner).Message)

	h.coord.Send(CreateLobbyMsg{SessionID: h.host.ID(), GameID: "stub"})
	created := waitFor[LobbyCreatedEvent](t, h.host)

	h.coord.Send(CreateLobbyMsg{SessionID: h.host.ID(), GameID: "stub"})
	assert.Equal(t, "Already in a lobby", waitFor[LobbyErrorEvent](t, h.host).Message)

	h.coord.Send(JoinLobbyMsg{SessionID: h.host.ID(), Code: created.Code})
	assert.Equal(t, "Already in a lobby", waitFor[LobbyErrorEvent](t, h.host).Message)

	h.coord.Send(CancelLobbyMsg{SessionID: h.host.ID(), Code: created.Code})
	require.Eventually(t, func() bool { return h.coord.LobbyCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestLobbyCodeIsCaseInsensitive(t *testing.T) {
	h := newHarness(t)

	h.coord.Send(CreateLobbyMsg{SessionID: h.host.ID(), GameID: "stub"})
	created := waitFor[LobbyCreatedEvent](t, h.host)

	lobby, ok := h.coord.GetLobby(created.Code)
	require.True(t, ok)
	assert.Equal(t, "stub", lobby.GameID)

	_, ok = h.coord.GetLobby(strings.ToLower(created.Code))
	assert.True(t, ok)
}

func TestLobbyExpires(t *testing.T) {
	cfg := DefaultCoordinatorConfig()
	cfg.LobbyTimeout = 20 * time.Millisecond
	cfg.CleanupPeriod = 10 * time.Millisecond
	h := newHarnessWith(t, cfg, nil)

	h.coord.Send(CreateLobbyMsg{SessionID: h.host.ID(), GameID: "stub"})
	created := waitFor[LobbyCreatedEvent](t, h.host)
	assert.False(t, created.ExpiresAt.IsZero())

	closed := waitFor[LobbyClosedEvent](t, h.host)
	assert.Equal(t, created.Code, closed.Code)
	assert.Equal(t, LobbyClosedExpired, closed.Reason)
	assert.Equal(t, 0, h.coord.LobbyCount())

	h.coord.Send(JoinLobbyMsg{SessionID: h.joiner.ID(), Code: created.Code})
	assert.Equal(t, "Lobby not found", waitFor[LobbyErrorEvent](t, h.joiner).Message)
}

func TestFailedGameClosesLobby(t *testing.T) {
	cfg := DefaultCoordinatorConfig()
	factory := func(string, core.RuntimeConfig) (OnlineGame, error) {
		return nil, errors.New("unknown game")
	}
	h := newHarnessWith(t, cfg, factory)

	h.coord.Send(CreateLobbyMsg{SessionID: h.host.ID(), GameID: "nope"})
	created := waitFor[LobbyCreatedEvent](t, h.host)
	h.coord.Send(JoinLobbyMsg{SessionID: h.joiner.ID(), Code: created.Code})

	for _, s := range []*ChannelSession{h.host, h.joiner} {
		closed := waitFor[LobbyClosedEvent](t, s)
		assert.Equal(t, LobbyClosedNoGame, closed.Reason)
	}
	assert.Equal(t, 0, h.coord.LobbyCount())
	assert.Equal(t, 0, h.coord.MatchCount())

	// the host is free to open another lobby
	h.coord.Send(CreateLobbyMsg{SessionID: h.host.ID(), GameID: "nope"})
	waitFor[LobbyCreatedEvent](t, h.host)
}

func TestPlayersInMatchCannotHost(t *testing.T) {
	h := newHarness(t)
	h.startMatch(t)

	h.coord.Send(CreateLobbyMsg{SessionID: h.joiner.ID(), GameID: "stub"})
	assert.Equal(t, "Already in a match", waitFor[LobbyErrorEvent](t, h.joiner).Message)
}

func TestLeaveLobbyWithdrawsHost(t *testing.T) {
	h := newHarness(t)

	h.coord.Send(CreateLobbyMsg{SessionID: h.host.ID(), GameID: "stub"})
	created := waitFor[LobbyCreatedEvent](t, h.host)

	// a stranger cannot close someone else's lobby
	h.coord.Send(LeaveLobbyMsg{SessionID: h.joiner.ID(), Code: created.Code})
	h.coord.Send(LeaveLobbyMsg{SessionID: h.host.ID(), Code: strings.ToLower(created.Code)})
	require.Eventually(t, func() bool { return h.coord.LobbyCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStopCancelsMatches(t *testing.T) {
	h := newHarness(t)
	id := h.startMatch(t)

	h.coord.Stop()
	for _, s := range []*ChannelSession{h.host, h.joiner} {
		end := waitFor[MatchEndedEvent](t, s)
		assert.Equal(t, id, end.MatchID)
		assert.Equal(t, MatchEndReasonCancelled, end.Reason)
		assert.Equal(t, NoPlayer, end.Winner)
	}
	assert.Equal(t, 0, h.coord.MatchCount())
	assert.Empty(t, h.saver.all())
}
