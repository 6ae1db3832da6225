// Package engine produces human-like keystroke timing: it turns a text
// payload into an ordered stream of type/delete/pause actions with
// randomized delays, synthetic typos, and correction bursts.
package engine

// ActionKind identifies one kind of emitted keystroke action.
type ActionKind int

const (
	// ActionType types one character.
	ActionType ActionKind = iota
	// ActionDelete removes the most recently typed character.
	ActionDelete
	// ActionPause waits without touching the output.
	ActionPause
)

// String returns the wire name of the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionType:
		return "type"
	case ActionDelete:
		return "delete"
	case ActionPause:
		return "pause"
	default:
		return "unknown"
	}
}

// Action is one timed unit of engine output. Char is set only for ActionType.
// DelayMs is the wait before the action is performed.
type Action struct {
	Kind    ActionKind
	Char    rune
	DelayMs int
}

// State describes the lifecycle of a typing session.
type State int

const (
	// StateIdle is the state before the first action is pulled.
	StateIdle State = iota
	// StateRunning means actions are being produced.
	StateRunning
	// StatePaused means production is suspended at a character boundary.
	StatePaused
	// StateCompleted means the whole payload was emitted.
	StateCompleted
	// StateCanceled means the session was terminated early.
	StateCanceled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}
