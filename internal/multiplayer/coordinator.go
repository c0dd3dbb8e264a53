package multiplayer

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brix-arcade/internal/core"
)

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // how long a lobby waits for a second player
	TickRate      int           // match ticks per second
	CleanupPeriod time.Duration // how often expired lobbies are swept
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      30,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates game instances for matches.
type GameFactory func(gameID string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver persists finished matches. The coordinator calls it off
// its own goroutine.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is a finished match as it is stored.
type MatchResultData struct {
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // empty on a draw
	EndReason      string
	DurationSecs   int
}

// Coordinator pairs sessions through lobbies and runs their matches.
// Session messages are handled one at a time on the coordinator goroutine;
// matches report back from their own goroutines, hence the lock.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver
	observer    MatchObserver
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies lobbyTable
	matches map[MatchID]*OnlineMatch
	playing map[SessionID]MatchID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a new coordinator. Call Start to run it.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:      cfg,
		gameFactory: factory,
		sessions:    sessions,
		lobbies:     newLobbyTable(),
		matches:     make(map[MatchID]*OnlineMatch),
		playing:     make(map[SessionID]MatchID),
		msgChan:     make(chan CoordinatorMessage, 256),
		done:        make(chan struct{}),
		logger:      log.New(io.Discard),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetObserver sets the optional observer notified about lobbies, matches
// and tick timing.
func (c *Coordinator) SetObserver(o MatchObserver) {
	c.observer = o
}

// SetLogger replaces the coordinator logger. Matches log through it too.
func (c *Coordinator) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts the coordinator down. Running matches end as cancelled.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		defer c.mu.Unlock()
		for id, m := range c.matches {
			m.Stop()
			evt := MatchEndedEvent{MatchID: id, Reason: MatchEndReasonCancelled, Winner: NoPlayer}
			m.player1Session.Send(evt)
			m.player2Session.Send(evt)
			delete(c.matches, id)
		}
		clear(c.playing)
	})
}

// Send queues a message for the coordinator goroutine.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.withdraw(m.SessionID, m.Code)
	case LeaveLobbyMsg:
		c.withdraw(m.SessionID, m.Code)
	case LeaveMatchMsg:
		c.leaveMatch(m.SessionID, m.MatchID)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

// refuse reports a failed lobby request to the session.
func refuse(s SessionHandle, err error) {
	var lerr LobbyError
	if !errors.As(err, &lerr) {
		lerr = LobbyError("Lobby request failed")
	}
	s.Send(LobbyErrorEvent{Message: string(lerr)})
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	host, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, busy := c.playing[msg.SessionID]; busy {
		c.mu.Unlock()
		refuse(host, ErrAlreadyInMatch)
		return
	}
	lobby, err := c.lobbies.open(host, msg.GameID, time.Now())
	if err != nil {
		c.mu.Unlock()
		refuse(host, err)
		return
	}
	c.lobbiesChanged()
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", lobby.Code, "game", lobby.GameID, "host", msg.SessionID)
	host.Send(LobbyCreatedEvent{
		Code:      lobby.Code,
		GameID:    lobby.GameID,
		ExpiresAt: lobby.CreatedAt.Add(c.config.LobbyTimeout),
	})
}

// handleJoinLobby pairs the joiner with a waiting host and starts their
// match right away, so a lobby never holds two players.
func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	joiner, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.playing[msg.SessionID]; busy {
		refuse(joiner, ErrAlreadyInMatch)
		return
	}
	lobby, err := c.lobbies.take(msg.Code, msg.SessionID)
	if err != nil {
		refuse(joiner, err)
		return
	}
	c.lobbiesChanged()

	game, err := c.gameFactory(lobby.GameID, core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: c.config.TickRate,
		Seed:     lobby.Seed,
	})
	if err != nil {
		c.logger.Error("cannot create game", "game", lobby.GameID, "error", err)
		closed := LobbyClosedEvent{Code: lobby.Code, Reason: LobbyClosedNoGame}
		lobby.Host.Send(closed)
		joiner.Send(closed)
		return
	}

	lobby.Host.Send(LobbyJoinedEvent{Code: lobby.Code, Side: Player1, OpponentID: joiner.ID()})
	joiner.Send(LobbyJoinedEvent{Code: lobby.Code, Side: Player2, OpponentID: lobby.Host.ID()})
	c.startMatch(lobby, joiner, game)
}

// startMatch runs game between the lobby host and joiner. Must be called
// with the lock held.
func (c *Coordinator) startMatch(lobby *Lobby, joiner SessionHandle, game OnlineGame) {
	id := NewMatchID()
	match := NewOnlineMatch(id, lobby.Code, lobby.GameID, game, lobby.Host, joiner, c.config.TickRate)
	match.SetLogger(c.logger)
	match.SetObserver(c.observer)

	c.matches[id] = match
	c.playing[lobby.Host.ID()] = id
	c.playing[joiner.ID()] = id

	if c.observer != nil {
		c.observer.MatchStarted(lobby.GameID)
	}
	c.logger.Info("match started", "match", id, "game", lobby.GameID,
		"seed", lobby.Seed, "host", lobby.Host.ID(), "joiner", joiner.ID())

	lobby.Host.Send(MatchStartedEvent{MatchID: id, Side: Player1, Code: lobby.Code})
	joiner.Send(MatchStartedEvent{MatchID: id, Side: Player2, Code: lobby.Code})

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(id, result)
	})
}

func (c *Coordinator) handleMatchEnded(id MatchID, result MatchResult) {
	c.mu.Lock()
	match, ok := c.matches[id]
	if ok {
		delete(c.matches, id)
		delete(c.playing, match.player1Session.ID())
		delete(c.playing, match.player2Session.ID())
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	c.logger.Info("match ended",
		"match", id,
		"reason", result.Reason,
		"winner", result.Winner,
		"score1", result.Score1,
		"score2", result.Score2,
		"ticks", result.Ticks,
	)
	if c.observer != nil {
		c.observer.MatchEnded(match.GameID(), result)
	}
	if c.resultSaver != nil {
		data := c.resultData(match, result)
		go func() {
			if err := c.resultSaver.SaveMatchResult(data); err != nil {
				c.logger.Warn("could not save match result", "match", id, "error", err)
			}
		}()
	}

	evt := MatchEndedEvent{
		MatchID: id,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
	}
	match.player1Session.Send(evt)
	match.player2Session.Send(evt)
}

// resultData converts a match outcome into its stored form.
func (c *Coordinator) resultData(match *OnlineMatch, result MatchResult) MatchResultData {
	seats := [...]SessionID{Player1: match.player1Session.ID(), Player2: match.player2Session.ID()}

	var winner string
	if result.Winner == Player1 || result.Winner == Player2 {
		winner = string(seats[result.Winner])
	}
	tickRate := uint64(max(1, c.config.TickRate)) //nolint:gosec // clamped positive

	return MatchResultData{
		MatchID:        string(result.MatchID),
		GameID:         match.GameID(),
		Player1Session: string(seats[Player1]),
		Player2Session: string(seats[Player2]),
		Score1:         result.Score1,
		Score2:         result.Score2,
		WinnerSession:  winner,
		EndReason:      result.Reason.String(),
		DurationSecs:   int(result.Ticks / tickRate), //nolint:gosec // match lengths fit an int
	}
}

// withdraw closes the lobby a host is waiting in. A code that is not the
// host's own lobby is ignored.
func (c *Coordinator) withdraw(host SessionID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, ok := c.lobbies.hostedBy(host)
	if !ok || lobby.Code != normalizeCode(code) {
		return
	}
	c.lobbies.remove(lobby)
	c.lobbiesChanged()
	c.logger.Debug("lobby withdrawn", "code", lobby.Code)
}

func (c *Coordinator) leaveMatch(session SessionID, id MatchID) {
	c.mu.RLock()
	match, ok := c.matches[id]
	c.mu.RUnlock()

	if ok {
		match.PlayerDisconnected(session)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, ok := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if ok {
		match.SendInput(msg.Player, msg.TickHint, msg.Input)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	if lobby, ok := c.lobbies.hostedBy(msg.SessionID); ok {
		c.lobbies.remove(lobby)
		c.lobbiesChanged()
	}
	id, playing := c.playing[msg.SessionID]
	c.mu.Unlock()

	if playing {
		c.leaveMatch(msg.SessionID, id)
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.expireLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) expireLobbies(now time.Time) {
	c.mu.Lock()
	gone := c.lobbies.expire(now, c.config.LobbyTimeout)
	if len(gone) > 0 {
		c.lobbiesChanged()
	}
	c.mu.Unlock()

	for _, l := range gone {
		l.Host.Send(LobbyClosedEvent{Code: l.Code, Reason: LobbyClosedExpired})
		c.logger.Debug("lobby expired", "code", l.Code)
	}
}

// lobbiesChanged reports the open lobby count. Must be called with the
// lock held.
func (c *Coordinator) lobbiesChanged() {
	if c.observer != nil {
		c.observer.LobbiesChanged(c.lobbies.len())
	}
}

// GetLobby returns an open lobby by code, in any letter case.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lobbies.get(code)
}

// GetMatch returns a running match by ID.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lobbies.len()
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
