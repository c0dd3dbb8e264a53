// Package tui provides the Bubble Tea integration for the arcade platform.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/brix-arcade/internal/core"
)

// TickMsg drives one simulation step of the game tagged Tag.
type TickMsg struct {
	At  time.Time
	Tag string
}

// ticker schedules the ticks of one game. A tick chain outlives the game
// that started it by one message, so ticks tagged for another game are
// stale and get dropped.
type ticker struct {
	interval time.Duration
	tag      string
}

func newTicker(tickRate int, tag string) ticker {
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	return ticker{interval: time.Second / time.Duration(tickRate), tag: tag}
}

// next schedules the following tick.
func (t ticker) next() tea.Cmd {
	return tea.Tick(t.interval, func(at time.Time) tea.Msg {
		return TickMsg{At: at, Tag: t.tag}
	})
}

func (t ticker) owns(msg TickMsg) bool {
	return msg.Tag == t.tag
}
