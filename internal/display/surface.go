package display

// State is the tri-state status shown by the widget.
type State int

const (
	StateActive State = iota + 1
	StateOffline
	StateError
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateOffline:
		return "OFFLINE"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Text returns the status element text for the state.
func (s State) Text() string {
	switch s {
	case StateActive:
		return "LIVE"
	case StateOffline:
		return "OFFLINE"
	case StateError:
		return "CONNECTION ERROR"
	default:
		return ""
	}
}

// Class returns the presentation class. Only ACTIVE uses "active".
func (s State) Class() string {
	if s == StateActive {
		return "active"
	}
	return "inactive"
}

// Surface is the display target of the refresh loop.
type Surface interface {
	SetStatus(state State)
	SetSlot(position int, username, points string)
	ClearSlot(position int)
}
