package txstream

import "time"

// State is the connection state of a stream session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

// StateTransition is emitted every time the session changes state.
type StateTransition struct {
	From State
	To   State
	At   time.Time
	Err  error // cause of a transition to Disconnected, if any
}
