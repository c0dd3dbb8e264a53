package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/brix-arcade/internal/core"
	"github.com/vovakirdan/brix-arcade/internal/multiplayer"
)

const joinCodeLen = multiplayer.JoinCodeLen

// sessionEventMsg wraps an event from the coordinator for Bubble Tea.
type sessionEventMsg struct {
	event multiplayer.SessionEvent
}

// listen waits for the next coordinator event of session. It yields nil
// once the session is closed.
func listen(session *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-session.Events():
			return sessionEventMsg{event: evt}
		case <-session.Done():
			return nil
		}
	}
}

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateMatchStarting                    // Opponent found
	OnlineStateInMatch                          // Match has started
)

// OnlineLobbyModel handles hosting and joining a lobby. Coordinator events
// are fed to it by the owning model.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	gameID      string
	title       string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	lobbyCode     string
	joinCodeInput string
	lobbyError    string
	notice        string

	matchID    multiplayer.MatchID
	side       core.PlayerID
	opponentID multiplayer.SessionID

	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	gameID, title string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		gameID:      gameID,
		title:       title,
		sessionID:   sessionID,
		coordinator: coordinator,
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case sessionEventMsg:
		m.handleEvent(msg.event)
	}
	return m, nil
}

func (m *OnlineLobbyModel) handleEvent(evt multiplayer.SessionEvent) {
	switch evt := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = evt.Code
		m.notice = ""
		if !evt.ExpiresAt.IsZero() {
			m.notice = "Open until " + evt.ExpiresAt.Format("15:04")
		}
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.side = evt.Side
		m.opponentID = evt.OpponentID
		m.state = OnlineStateMatchStarting
	case multiplayer.LobbyErrorEvent:
		m.lobbyError = evt.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateMatchStarting:
			m.state = OnlineStateChooseMode
		}
	case multiplayer.LobbyClosedEvent:
		m.lobbyError = evt.Reason.String()
		m.lobbyCode = ""
		m.notice = ""
		if m.state == OnlineStateHostWaiting {
			m.state = OnlineStateChooseMode
		} else {
			m.state = OnlineStateJoinEnterCode
		}
	case multiplayer.MatchStartedEvent:
		m.matchID = evt.MatchID
		m.side = evt.Side
		m.state = OnlineStateInMatch
	}
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	}

	return m, nil
}

// leave withdraws from whatever lobby this session is in.
func (m *OnlineLobbyModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
	}
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.lobbyError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
		})
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.lobbyError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.backToMenu = true
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.backToMenu = true
	case "enter":
		if len(m.joinCodeInput) == joinCodeLen {
			m.state = OnlineStateJoinWaiting
			m.lobbyError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLen {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.state = OnlineStateJoinEnterCode
	}

	return m, nil
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	switch m.state {
	case OnlineStateChooseMode:
		lines = []string{
			"ONLINE " + strings.ToUpper(m.title), "",
			"Choose an option:", "",
			"[H] Host a game",
			"[J] Join a game", "",
			m.errorLine(),
			"Esc: Back  |  Q: Quit",
		}
	case OnlineStateHostWaiting:
		lines = []string{
			"HOSTING GAME", "",
			"Share this code with your opponent:", "",
			fmt.Sprintf("[ %s ]", m.lobbyCode), "",
			"Waiting for player to join...",
			m.notice, "",
			"Esc: Cancel  |  Q: Quit",
		}
	case OnlineStateJoinEnterCode:
		code := m.joinCodeInput
		if len(code) < joinCodeLen {
			code += "_" + strings.Repeat(" ", joinCodeLen-1-len(code))
		}
		lines = []string{
			"JOIN GAME", "",
			"Enter the game code:", "",
			fmt.Sprintf("[ %s ]", code), "",
			m.errorLine(),
			"Enter: Connect  |  Esc: Back",
		}
	case OnlineStateJoinWaiting:
		lines = []string{
			"CONNECTING", "",
			"Joining game: " + m.joinCodeInput, "",
			"Please wait...", "",
			"Esc: Cancel",
		}
	case OnlineStateMatchStarting, OnlineStateInMatch:
		side := "Player 1 (host)"
		if m.side == core.Player2 {
			side = "Player 2"
		}
		lines = []string{
			"MATCH STARTING", "",
			"Opponent: " + playerName(string(m.opponentID)),
			"You are: " + side, "",
			"Get ready!",
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m OnlineLobbyModel) errorLine() string {
	if m.lobbyError == "" {
		return ""
	}
	return "Error: " + m.lobbyError
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID if a match was started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which side (P1/P2) this session plays.
func (m OnlineLobbyModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// OnlineMatchModel shows a running online match and forwards the local
// player's keys to the coordinator.
type OnlineMatchModel struct {
	coordinator *multiplayer.Coordinator
	sessionID   multiplayer.SessionID
	matchID     multiplayer.MatchID
	side        core.PlayerID
	keyMapper   *KeyMapper
	screen      *core.Screen

	tick     uint64
	snapshot multiplayer.GameSnapshot
	ended    *multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineMatchModel creates the view of a started match.
func NewOnlineMatchModel(
	coordinator *multiplayer.Coordinator,
	sessionID multiplayer.SessionID,
	matchID multiplayer.MatchID,
	side core.PlayerID,
	width, height int,
) OnlineMatchModel {
	return OnlineMatchModel{
		coordinator: coordinator,
		sessionID:   sessionID,
		matchID:     matchID,
		side:        side,
		keyMapper:   NewKeyMapper(),
		screen:      core.NewScreen(width, height),
	}
}

// Init initializes the match model.
func (m OnlineMatchModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
	case sessionEventMsg:
		m.handleEvent(msg.event)
	}
	return m, nil
}

func (m *OnlineMatchModel) handleEvent(evt multiplayer.SessionEvent) {
	switch evt := evt.(type) {
	case multiplayer.SnapshotEvent:
		if evt.MatchID == m.matchID && evt.Tick >= m.tick {
			m.tick = evt.Tick
			m.snapshot = evt.Snapshot
		}
	case multiplayer.MatchEndedEvent:
		if evt.MatchID == m.matchID {
			m.ended = &evt
		}
	}
}

func (m OnlineMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	if m.ended != nil {
		if action == core.ActionConfirm || action == core.ActionBack {
			m.backToMenu = true
		}
		return m, nil
	}

	switch action {
	case core.ActionNone, core.ActionPause, core.ActionRestart, core.ActionConfirm:
		// no pausing or restarting a shared match
	case core.ActionBack:
		m.leave()
		m.backToMenu = true
	default:
		in := core.NewInputFrame()
		in.Set(action)
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID:  m.matchID,
			Player:   m.side,
			TickHint: m.tick,
			Input:    in,
		})
	}
	return m, nil
}

// leave forfeits a running match.
func (m *OnlineMatchModel) leave() {
	if m.ended == nil {
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
	}
}

// View renders the latest snapshot, or the result once the match is over.
func (m OnlineMatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	if v, ok := m.snapshot.(multiplayer.ViewableSnapshot); ok {
		v.Render(m.screen, m.side)
	} else {
		m.screen.DrawTextCentered(m.screen.Height()/2, "Waiting for the first frame...")
	}

	if m.ended != nil {
		m.drawResult()
	}
	return RenderScreen(m.screen)
}

// drawResult overlays the final score and why the match ended.
func (m OnlineMatchModel) drawResult() {
	e := m.ended
	mine, theirs := e.Score1, e.Score2
	if m.side == core.Player2 {
		mine, theirs = theirs, mine
	}

	verdict, color := "DRAW", core.ColorYellow
	switch e.Winner {
	case m.side:
		verdict, color = "YOU WIN", core.ColorGreen
	case core.NoPlayer:
	default:
		verdict, color = "YOU LOSE", core.ColorRed
	}

	lines := []string{
		verdict,
		e.Reason.String(),
		fmt.Sprintf("%d : %d", mine, theirs),
		"Enter/Esc: Menu  |  Q: Quit",
	}
	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	box := core.NewRect((m.screen.Width()-w-4)/2, (m.screen.Height()-len(lines)-2)/2, w+4, len(lines)+2)
	for y := box.Y + 1; y < box.Bottom(); y++ {
		m.screen.DrawText(box.X+1, y, strings.Repeat(" ", w+2))
	}
	m.screen.DrawBox(box, color)
	for i, l := range lines {
		c := core.ColorWhite
		if i == 0 {
			c = color
		}
		m.screen.DrawTextColored(box.X+2+(w-len(l))/2, box.Y+1+i, l, c)
	}
}

// Ended returns true once the coordinator has closed the match.
func (m OnlineMatchModel) Ended() bool {
	return m.ended != nil
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineMatchModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineMatchModel) IsQuitting() bool {
	return m.quitting
}
