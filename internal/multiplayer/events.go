package multiplayer

import (
	"time"

	"github.com/vovakirdan/brix-arcade/internal/core"
)

// SessionEvent represents an event sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent tells the host its lobby is open and until when.
type LobbyCreatedEvent struct {
	Code      string
	GameID    string
	ExpiresAt time.Time
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a refused lobby request.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyClosedEvent is sent when a lobby goes away without a match.
type LobbyClosedEvent struct {
	Code   string
	Reason LobbyCloseReason
}

func (LobbyClosedEvent) sessionEvent() {}

// LobbyCloseReason says why a lobby closed.
type LobbyCloseReason int

const (
	LobbyClosedExpired LobbyCloseReason = iota // nobody joined in time
	LobbyClosedNoGame                          // the match could not be created
)

var lobbyCloseText = [...]string{
	LobbyClosedExpired: "Lobby expired",
	LobbyClosedNoGame:  "Failed to create game",
}

func (r LobbyCloseReason) String() string {
	if r < 0 || int(r) >= len(lobbyCloseText) {
		return "Lobby closed"
	}
	return lobbyCloseText[r]
}

// LobbyJoinedEvent pairs two sessions. Both get one, each with its own side.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID
	OpponentID SessionID
}

func (LobbyJoinedEvent) sessionEvent() {}

// MatchStartedEvent follows LobbyJoinedEvent once the game is running.
type MatchStartedEvent struct {
	MatchID MatchID
	Side    PlayerID
	Code    string
}

func (MatchStartedEvent) sessionEvent() {}

// MatchEndedEvent is the last event of a match.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID // NoPlayer on a draw
	Score1  int
	Score2  int
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // a field topped out
	MatchEndReasonDisconnect                       // a player left or lost the connection
	MatchEndReasonCancelled                        // the server shut down
)

var matchEndText = [...]string{
	MatchEndReasonCompleted:  "Match completed",
	MatchEndReasonDisconnect: "Opponent disconnected",
	MatchEndReasonCancelled:  "Match cancelled",
}

func (r MatchEndReason) String() string {
	if r < 0 || int(r) >= len(matchEndText) {
		return "Unknown"
	}
	return matchEndText[r]
}

// SnapshotEvent carries a game state snapshot to sessions.
type SnapshotEvent struct {
	MatchID  MatchID
	Tick     uint64
	Snapshot GameSnapshot
}

func (SnapshotEvent) sessionEvent() {}

// GameSnapshot is the interface for game-specific snapshot data. Snapshots
// are shared between both sessions and must not be mutated after Snapshot
// returns them.
type GameSnapshot interface {
	IsGameSnapshot() // Marker method for type safety
}

// ViewableSnapshot is a snapshot that can draw itself as seen from one
// side of the match.
type ViewableSnapshot interface {
	GameSnapshot
	Render(dst *core.Screen, side PlayerID)
}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests creation of a new lobby.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining an existing lobby.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg withdraws a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg abandons a join attempt. A join either starts the match or
// fails at once, so only a host can still be in the lobby; for a host it
// acts like CancelLobbyMsg.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg requests leaving an active match.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg sends player input to a match. TickHint is the last match
// tick the client had seen when the input happened, so the game can place
// the input where the player meant it.
type PlayerInputMsg struct {
	MatchID  MatchID
	Player   PlayerID
	TickHint uint64
	Input    core.InputFrame
}

func (PlayerInputMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
