package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brix-arcade/internal/core"
	"github.com/vovakirdan/brix-arcade/internal/multiplayer"
	"github.com/vovakirdan/brix-arcade/internal/registry"
	"github.com/vovakirdan/brix-arcade/internal/storage"
)

// SessionDeps are the shared services a remote session works with. Every
// field is optional; online play needs both Coordinator and Channel.
type SessionDeps struct {
	Store       *storage.Store
	Coordinator *multiplayer.Coordinator
	Channel     *multiplayer.ChannelSession
	OnGameStart func(registry.Game)
	Logger      *log.Logger
}

func (d SessionDeps) online() bool {
	return d.Coordinator != nil && d.Channel != nil
}

// sessionScreen is the part of the session currently shown.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
	screenLobby
	screenMatch
)

// SessionModel manages the full arcade session flow: menu, solo games,
// scores and online matches. It is the top-level model of SSH sessions.
type SessionModel struct {
	deps      SessionDeps
	config    core.RuntimeConfig
	username  string
	sessionID multiplayer.SessionID
	logger    *log.Logger

	screen     sessionScreen
	menu       MenuModel
	gameModel  *GameModel
	scoreboard ScoreboardModel
	lobby      OnlineLobbyModel
	match      OnlineMatchModel
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps SessionDeps, cfg core.RuntimeConfig, username string, sessionID multiplayer.SessionID) SessionModel {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return SessionModel{
		deps:      deps,
		config:    cfg,
		username:  username,
		sessionID: sessionID,
		logger:    logger.With("session", sessionID),
		menu:      NewMenuModel(cfg, deps.online()),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.deps.online() {
		return tea.Batch(m.menu.Init(), listen(m.deps.Channel))
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	// Coordinator events go to the online screens; the listener is
	// re-armed after every event.
	if evt, ok := msg.(sessionEventMsg); ok {
		next, cmd := m.routeEvent(evt)
		return next, tea.Batch(cmd, listen(m.deps.Channel))
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenLobby:
		return m.updateLobby(msg)
	case screenMatch:
		return m.updateMatch(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) routeEvent(evt sessionEventMsg) (SessionModel, tea.Cmd) {
	switch m.screen {
	case screenLobby:
		next, cmd := m.updateLobby(evt)
		return next.(SessionModel), cmd
	case screenMatch:
		next, cmd := m.updateMatch(evt)
		return next.(SessionModel), cmd
	default:
		// stale events from an abandoned lobby or match
		return m, nil
	}
}

// toMenu returns to a fresh menu.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.gameModel = nil
	m.menu = NewMenuModel(m.config, m.deps.online())
	return m, m.menu.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.screen = screenScores
		m.scoreboard = NewScoreboardModel(m.deps.Store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	if selected.Mode == multiplayer.MatchModeOnlinePvP {
		m.screen = screenLobby
		m.lobby = NewOnlineLobbyModel(selected.GameID, selected.Title, m.sessionID,
			m.deps.Coordinator, m.config.ScreenW, m.config.ScreenH)
		return m, m.lobby.Init()
	}

	game, err := registry.Create(selected.GameID)
	if err != nil {
		// Shouldn't happen since menu only shows registered games
		m.logger.Error("cannot create game", "game", selected.GameID, "error", err)
		return m.toMenu()
	}
	if m.deps.OnGameStart != nil {
		m.deps.OnGameStart(game)
	}

	match := multiplayer.NewMatch(multiplayer.NewMatchID(), selected.Mode, m.sessionID)
	m.logger.Info("solo game started", "match", match.ID(), "game", game.ID())

	gameModel := NewGameModel(game, m.deps.Store, m.config, match, m.username)
	m.gameModel = &gameModel
	m.screen = screenGame

	return m, m.gameModel.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.gameModel.BackToMenu() {
		return m.toMenu()
	}

	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.toMenu()
	}

	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.lobby.Update(msg)
	if lobby, ok := newModel.(OnlineLobbyModel); ok {
		m.lobby = lobby
	}

	switch {
	case m.lobby.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.lobby.BackToMenu():
		return m.toMenu()
	case m.lobby.State() == OnlineStateInMatch:
		m.logger.Info("joined match", "match", m.lobby.MatchID(), "side", m.lobby.Side())
		m.screen = screenMatch
		m.match = NewOnlineMatchModel(m.deps.Coordinator, m.sessionID, m.lobby.MatchID(),
			m.lobby.Side(), m.config.ScreenW, m.config.ScreenH)
		return m, m.match.Init()
	}

	return m, cmd
}

func (m SessionModel) updateMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.match.Update(msg)
	if match, ok := newModel.(OnlineMatchModel); ok {
		m.match = match
	}

	if m.match.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.match.BackToMenu() {
		return m.toMenu()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case screenScores:
		return m.scoreboard.View()
	case screenLobby:
		return m.lobby.View()
	case screenMatch:
		return m.match.View()
	}
	return m.menu.View()
}

// GameModel runs a solo game inside a session and can return to the menu.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	player     string
	config     core.RuntimeConfig
	match      *multiplayer.Match
	inputFrame core.MultiInputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	ticker     ticker
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a new game model. Scores are saved under player.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, match *multiplayer.Match, player string) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		player:     player,
		config:     cfg,
		match:      match,
		inputFrame: core.NewMultiInputFrame(),
		keyMapper:  NewKeyMapper(),
		ticker:     newTicker(cfg.TickRate, matchTag(match)),
	}
}

func matchTag(match *multiplayer.Match) string {
	if match == nil {
		return ""
	}
	return string(match.ID())
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return m.ticker.next()
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		if !m.ticker.owns(msg) {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToMultiFrame(msg, m.side(), &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// B or Esc leaves a finished or paused game
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
	}

	return m, nil
}

// side is the seat of the local player. Solo matches only have one.
func (m GameModel) side() core.PlayerID {
	return core.Player1
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	in := m.inputFrame.Player(m.side())
	m.inputFrame = core.NewMultiInputFrame()

	if in.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		return m, m.ticker.next()
	}

	result := m.game.Step(in)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		saveScore(m.store, m.game.ID(), m.player, m.gameState)
		m.scoreSaved = true
	}

	return m, m.ticker.next()
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Match returns the match record of this game.
func (m GameModel) Match() *multiplayer.Match {
	return m.match
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
