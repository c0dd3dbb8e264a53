// Package multiplayer runs two-player matches between sessions: lobbies with
// join codes, an authoritative fixed-rate match loop and the events that flow
// between the loop and each session.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/brix-arcade/internal/core"
)

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is the lobby host, Player2 the joiner.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	NoPlayer = core.NoPlayer
	Player1  = core.Player1
	Player2  = core.Player2
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies a game match.
type MatchID string

// NewMatchID returns a fresh random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// NewSessionID returns a session identifier for user. The random suffix
// keeps two connections of the same user apart.
func NewSessionID(user string) SessionID {
	return SessionID(user + "-" + uuid.NewString()[:8])
}

// MatchMode defines how a game match is configured.
type MatchMode int

const (
	// MatchModeSolo is a single-player endless game.
	MatchModeSolo MatchMode = iota

	// MatchModeOnlinePvP is a versus match between two sessions.
	MatchModeOnlinePvP
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Solo"
	case MatchModeOnlinePvP:
		return "Online PvP"
	default:
		return "Unknown"
	}
}

// Match records which sessions take part in a game.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs tracks which sessions are part of this match.
	// Solo: one session. OnlinePvP: two sessions.
	SessionIDs []SessionID
}

// NewMatch creates a new match with the given parameters.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode returns the match mode.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}
