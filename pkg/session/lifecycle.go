package session

// State is the lifecycle state of a managed session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateActive        State = "active"
	StateWarning       State = "warning"
	StateExpired       State = "expired"
	StateRenewing      State = "renewing"
	StateOffline       State = "offline"
	StateCleared       State = "cleared"
)

// lifecycleTransitions maps each state to the states reachable from it.
// Cleared is additionally reachable from every state via explicit sign-out.
var lifecycleTransitions = map[State][]State{
	// A restored record may already be lapsed, so Expired is reachable
	// straight from the entry states.
	StateUninitialized: {StateActive, StateOffline, StateExpired},
	StateActive:        {StateActive, StateWarning, StateExpired, StateOffline},
	StateWarning:       {StateActive, StateWarning, StateExpired, StateOffline},
	StateExpired:       {StateRenewing},
	StateRenewing:      {StateActive, StateOffline},
	StateOffline:       {StateActive, StateWarning, StateExpired, StateOffline},
	StateCleared:       {StateActive, StateOffline, StateExpired},
}

// canTransition reports whether moving from one state to another is legal.
func canTransition(from, to State) bool {
	if to == StateCleared {
		return true
	}
	for _, next := range lifecycleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
