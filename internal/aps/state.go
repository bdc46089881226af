package aps

import "github.com/rs/zerolog/log"

// State is the lifecycle state of an outbound APS request.
type State uint8

const (
	StateIdle State = iota
	StateBusy
	StateWait
	StateConfirmed
	StateTimeout
	StateFailure
	StateFinish
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateWait:
		return "wait"
	case StateConfirmed:
		return "confirmed"
	case StateTimeout:
		return "timeout"
	case StateFailure:
		return "failure"
	case StateFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether s is one of the four terminal states.
func (s State) IsTerminal() bool {
	switch s {
	case StateConfirmed, StateTimeout, StateFailure, StateFinish:
		return true
	default:
		return false
	}
}

// fireAndForget is the deprecated state from the original implementation.
// It has no valid meaning here; any attempt to enter it is coerced to idle.
const fireAndForget State = 0xFF

var validTransitions = map[State]map[State]bool{
	StateIdle:    {StateBusy: true},
	StateBusy:    {StateWait: true, StateFailure: true},
	StateWait:    {StateConfirmed: true, StateTimeout: true, StateFailure: true},
}

// Transition moves the request to target, applying spec.md §4.7's state
// machine rules. An attempt to enter the deprecated fire-and-forget state is
// coerced to idle and logged rather than rejected. An otherwise-disallowed
// transition is rejected (the state is left unchanged) and reported via ok=false.
func (r *Request) Transition(target State) (ok bool) {
	if target == fireAndForget {
		log.Warn().Uint8("requestId", r.id).Msg("coercing deprecated FireAndForget APS state to idle")
		target = StateIdle
	}

	if r.state.IsTerminal() {
		return false
	}

	if target == r.state {
		return true
	}

	allowed := validTransitions[r.state]
	if allowed == nil || !allowed[target] {
		return false
	}

	r.state = target
	return true
}

// State returns the request's current lifecycle state.
func (r *Request) State() State { return r.state }
