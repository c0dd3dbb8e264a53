package core

// Action is a semantic input, abstracted from physical keys.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - cursor up, menu up
	ActionDown           // S, Down arrow - cursor down, menu down
	ActionLeft           // A, Left arrow - cursor left
	ActionRight          // D, Right arrow - cursor right
	ActionSwap           // Space, X - swap the two blocks under the cursor
	ActionRaise          // Z, Tab - raise the stack by one row
	ActionConfirm        // Enter
	ActionBack           // B, Escape
	ActionRestart        // R - restart after game over
	ActionQuit           // Q, Ctrl+C
	ActionPause          // P
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionSwap:
		return "Swap"
	case ActionRaise:
		return "Raise"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// PlayerID identifies a side of a match. NoPlayer marks "nobody", for
// example a match without a winner.
type PlayerID int

const (
	NoPlayer PlayerID = iota
	Player1
	Player2
)

// Index converts the player to a zero-based field index, -1 for NoPlayer.
func (p PlayerID) Index() int {
	return int(p) - 1
}

// PlayerAt converts a zero-based field index back to a PlayerID. Negative
// indexes yield NoPlayer.
func PlayerAt(index int) PlayerID {
	if index < 0 {
		return NoPlayer
	}
	return PlayerID(index + 1)
}

// InputFrame holds the actions one player triggered during a tick, in the
// order they arrived. Order matters: moving then swapping is not the same
// as swapping then moving.
type InputFrame struct {
	actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set appends an action.
func (f *InputFrame) Set(a Action) {
	if a != ActionNone {
		f.actions = append(f.actions, a)
	}
}

// Has reports whether the action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, x := range f.actions {
		if x == a {
			return true
		}
	}
	return false
}

// Actions returns the triggered actions in arrival order.
func (f InputFrame) Actions() []Action {
	return f.actions
}

// Empty reports whether nothing was triggered.
func (f InputFrame) Empty() bool {
	return len(f.actions) == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	f.actions = f.actions[:0]
}

// Clone returns an independent copy.
func (f InputFrame) Clone() InputFrame {
	return InputFrame{actions: append([]Action(nil), f.actions...)}
}

// Merge appends every action of other.
func (f *InputFrame) Merge(other InputFrame) {
	f.actions = append(f.actions, other.actions...)
}

// MultiInputFrame holds the input of every player for a single tick.
type MultiInputFrame struct {
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{ByPlayer: make(map[PlayerID]InputFrame)}
}

// Player returns one player's frame, empty if the player sent nothing.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	return m.ByPlayer[id]
}

// SetPlayer replaces one player's frame.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}
