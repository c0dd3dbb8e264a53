package multiplayer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for range 200 {
		code := newJoinCode()
		require.Len(t, code, JoinCodeLen)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(joinCodeAlphabet, r), "unexpected symbol %q in %s", r, code)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestLobbyTable(t *testing.T) {
	table := newLobbyTable()
	host := NewChannelSession("host", 4)
	now := time.Unix(1000, 0)

	lobby, err := table.open(host, "brix", now)
	require.NoError(t, err)
	assert.Equal(t, now.UnixNano(), lobby.Seed)
	assert.Equal(t, 1, table.len())

	_, err = table.open(host, "brix", now)
	assert.ErrorIs(t, err, ErrAlreadyInLobby)

	t.Run("refused joins leave the lobby open", func(t *testing.T) {
		_, err := table.take("ZZZZZZ", "guest")
		assert.ErrorIs(t, err, ErrLobbyNotFound)

		_, err = table.take(lobby.Code, host.ID())
		assert.ErrorIs(t, err, ErrAlreadyInLobby)

		got, ok := table.get(strings.ToLower(lobby.Code))
		require.True(t, ok)
		assert.Same(t, lobby, got)
	})

	t.Run("join removes the lobby", func(t *testing.T) {
		got, err := table.take(" "+strings.ToLower(lobby.Code)+" ", "guest")
		require.NoError(t, err)
		assert.Same(t, lobby, got)
		assert.Equal(t, 0, table.len())
		_, hosting := table.hostedBy(host.ID())
		assert.False(t, hosting)

		_, err = table.take(lobby.Code, "latecomer")
		assert.ErrorIs(t, err, ErrLobbyNotFound)
	})
}

func TestLobbyExpiry(t *testing.T) {
	table := newLobbyTable()
	now := time.Unix(1000, 0)

	old, err := table.open(NewChannelSession("old", 4), "brix", now)
	require.NoError(t, err)
	fresh, err := table.open(NewChannelSession("fresh", 4), "brix", now.Add(time.Minute))
	require.NoError(t, err)

	gone := table.expire(now.Add(90*time.Second), time.Minute)
	require.Len(t, gone, 1)
	assert.Same(t, old, gone[0])

	_, ok := table.get(fresh.Code)
	assert.True(t, ok)
	_, ok = table.hostedBy("old")
	assert.False(t, ok)
}
