package multiplayer

import (
	"crypto/rand"
	"strings"
	"time"
)

// joinCodeAlphabet has 32 symbols without the look-alikes 0/O and 1/I, so
// one random byte maps onto it without bias.
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// JoinCodeLen is the length of a lobby join code.
const JoinCodeLen = 6

// Lobby is a hosted match waiting for its second player. The match seed is
// drawn when the lobby opens.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	Seed      int64
	CreatedAt time.Time
}

// LobbyError is a lobby request the coordinator refused. Its text is shown
// to the player as is.
type LobbyError string

func (e LobbyError) Error() string { return string(e) }

const (
	ErrAlreadyInLobby LobbyError = "Already in a lobby"
	ErrAlreadyInMatch LobbyError = "Already in a match"
	ErrLobbyNotFound  LobbyError = "Lobby not found"
)

// lobbyTable indexes open lobbies by code and by host. It is guarded by the
// coordinator's lock.
type lobbyTable struct {
	byCode map[string]*Lobby
	byHost map[SessionID]*Lobby
}

func newLobbyTable() lobbyTable {
	return lobbyTable{
		byCode: make(map[string]*Lobby),
		byHost: make(map[SessionID]*Lobby),
	}
}

// open registers a lobby hosted by host under a fresh code.
func (t lobbyTable) open(host SessionHandle, gameID string, now time.Time) (*Lobby, error) {
	if _, ok := t.byHost[host.ID()]; ok {
		return nil, ErrAlreadyInLobby
	}

	code := newJoinCode()
	for t.byCode[code] != nil {
		code = newJoinCode()
	}
	l := &Lobby{
		Code:      code,
		GameID:    gameID,
		Host:      host,
		Seed:      now.UnixNano(),
		CreatedAt: now,
	}
	t.byCode[code] = l
	t.byHost[host.ID()] = l
	return l, nil
}

// take removes the lobby with the given code for joiner to play in. A
// host, its own lobby included, cannot join.
func (t lobbyTable) take(code string, joiner SessionID) (*Lobby, error) {
	if _, ok := t.byHost[joiner]; ok {
		return nil, ErrAlreadyInLobby
	}
	l, ok := t.byCode[normalizeCode(code)]
	if !ok {
		return nil, ErrLobbyNotFound
	}
	t.remove(l)
	return l, nil
}

// hostedBy returns the lobby host is waiting in, if any.
func (t lobbyTable) hostedBy(host SessionID) (*Lobby, bool) {
	l, ok := t.byHost[host]
	return l, ok
}

func (t lobbyTable) get(code string) (*Lobby, bool) {
	l, ok := t.byCode[normalizeCode(code)]
	return l, ok
}

func (t lobbyTable) remove(l *Lobby) {
	delete(t.byCode, l.Code)
	delete(t.byHost, l.Host.ID())
}

// expire removes and returns the lobbies older than ttl.
func (t lobbyTable) expire(now time.Time, ttl time.Duration) []*Lobby {
	var gone []*Lobby
	for _, l := range t.byCode {
		if now.Sub(l.CreatedAt) > ttl {
			gone = append(gone, l)
		}
	}
	for _, l := range gone {
		t.remove(l)
	}
	return gone
}

func (t lobbyTable) len() int { return len(t.byCode) }

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// newJoinCode returns a random code over joinCodeAlphabet.
func newJoinCode() string {
	b := make([]byte, JoinCodeLen)
	_, _ = rand.Read(b) // never fails, see crypto/rand.Read
	for i := range b {
		b[i] = joinCodeAlphabet[b[i]%byte(len(joinCodeAlphabet))]
	}
	return string(b)
}
