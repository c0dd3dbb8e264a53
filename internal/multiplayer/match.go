package multiplayer

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brix-arcade/internal/core"
)

// OnlineGame is the interface that games must implement to support online multiplayer.
// All methods are called from the match loop goroutine only.
type OnlineGame interface {
	// Reset initializes the game state.
	Reset(cfg core.RuntimeConfig)

	// Input queues one player's actions. tick is the match tick the player
	// had seen when acting; games may apply the input retroactively at that
	// tick instead of at the next one.
	Input(player PlayerID, tick uint64, in core.InputFrame)

	// Step advances the game by one tick.
	Step() core.StepResult

	// Snapshot returns the current game state for broadcasting.
	Snapshot() GameSnapshot

	// IsGameOver returns true if the game has ended.
	IsGameOver() bool

	// Winner returns the winning player, NoPlayer for none yet or a draw.
	Winner() PlayerID

	// Score returns one player's score.
	Score(player PlayerID) int
}

// MatchObserver receives match lifecycle and timing notifications. It is
// called from several goroutines.
type MatchObserver interface {
	MatchStarted(gameID string)
	MatchEnded(gameID string, result MatchResult)
	TickObserved(gameID string, elapsed time.Duration)
	LobbiesChanged(open int)
}

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Ticks   uint64
}

// OnlineMatch represents an active multiplayer game session.
type OnlineMatch struct {
	id     MatchID
	code   string
	gameID string
	game   OnlineGame

	player1Session SessionHandle
	player2Session SessionHandle

	inputChan chan playerInput

	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	disconnectChan chan SessionID

	logger   *log.Logger
	observer MatchObserver
}

type playerInput struct {
	player PlayerID
	tick   uint64
	input  core.InputFrame
}

// NewOnlineMatch creates a new online match.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	game OnlineGame,
	p1Session, p2Session SessionHandle,
	tickRate int,
) *OnlineMatch {
	return &OnlineMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		game:           game,
		player1Session: p1Session,
		player2Session: p2Session,
		inputChan:      make(chan playerInput, 256),
		tickRate:       max(tickRate, 1),
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
		logger:         log.New(io.Discard),
	}
}

// SetLogger replaces the match logger.
func (m *OnlineMatch) SetLogger(l *log.Logger) {
	if l != nil {
		m.logger = l.With("match", m.id)
	}
}

// SetObserver sets the optional observer.
func (m *OnlineMatch) SetObserver(o MatchObserver) {
	m.observer = o
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID returns the game identifier.
func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// SendInput queues player input for the next tick.
// Non-blocking; input is dropped when the queue is full.
func (m *OnlineMatch) SendInput(player PlayerID, tick uint64, input core.InputFrame) {
	select {
	case m.inputChan <- playerInput{player: player, tick: tick, input: input.Clone()}:
	default:
		m.logger.Warn("input dropped", "player", player)
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop.
// The callback is called when the match ends.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	go m.monitorSessions()
	m.logger.Debug("match loop started", "tick_rate", m.tickRate)

	for {
		select {
		case <-ticker.C:
			result, done := m.runTick()
			if done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			result := m.handleDisconnect(sessionID)
			if onComplete != nil {
				onComplete(result)
			}
			return

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	start := time.Now()
	m.game.Step()
	m.tick++
	if m.observer != nil {
		m.observer.TickObserved(m.gameID, time.Since(start))
	}

	evt := SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	}
	m.player1Session.Send(evt)
	m.player2Session.Send(evt)

	if !m.game.IsGameOver() {
		return MatchResult{}, false
	}
	return m.result(MatchEndReasonCompleted, m.game.Winner()), true
}

// drainInputs hands every queued input to the game in arrival order.
func (m *OnlineMatch) drainInputs() {
	for {
		select {
		case pi := <-m.inputChan:
			m.game.Input(pi.player, min(pi.tick, m.tick), pi.input)
		default:
			return
		}
	}
}

func (m *OnlineMatch) handleDisconnect(sessionID SessionID) MatchResult {
	winner := Player1
	if sessionID == m.player1Session.ID() {
		winner = Player2
	}
	m.logger.Info("player disconnected", "session", sessionID)
	return m.result(MatchEndReasonDisconnect, winner)
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  winner,
		Score1:  m.game.Score(Player1),
		Score2:  m.game.Score(Player2),
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) monitorSessions() {
	var gone SessionID
	select {
	case <-m.player1Session.Done():
		gone = m.player1Session.ID()
	case <-m.player2Session.Done():
		gone = m.player2Session.ID()
	case <-m.done:
		return
	}
	m.PlayerDisconnected(gone)
}

// Stop gracefully stops the match.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
