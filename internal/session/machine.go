// Package session drives one learner's practice session: a small state
// machine over 5-word mini-sets, an immutable snapshot updated by pure
// reducers, and the Runner that orchestrates rating, selection, leveling,
// and lesson generation around them.
package session

// SetSize is the number of words in one mini-set.
const SetSize = 5

// State is a session lifecycle state.
type State string

const (
	StateIdle      State = "IDLE"
	StateInMiniSet State = "IN_MINISET"
	StateBreak     State = "BREAK"
	StateComplete  State = "COMPLETE"
)

// Action is a state machine input.
type Action string

const (
	ActionStart      Action = "START"
	ActionSubmitWord Action = "SUBMIT_WORD"
	ActionReachBreak Action = "REACH_BREAK"
	ActionContinue   Action = "CONTINUE"
	ActionFinish     Action = "FINISH"
)

// Machine is the session lifecycle value: the current state plus the index
// into the active mini-set. It is a value type; Apply returns a new one.
type Machine struct {
	State     State
	WordIndex int
}

// NewMachine returns an idle machine.
func NewMachine() Machine {
	return Machine{State: StateIdle}
}

// Apply runs one action. Actions that do not apply in the current state are
// no-ops: the machine is returned unchanged with transitioned=false, so
// callers can observe the rejection without the machine ever erroring.
func (m Machine) Apply(action Action) (next Machine, transitioned bool) {
	switch m.State {
	case StateIdle:
		if action == ActionStart {
			return Machine{State: StateInMiniSet, WordIndex: 0}, true
		}
	case StateInMiniSet:
		switch action {
		case ActionSubmitWord:
			m.WordIndex++
			if m.WordIndex >= SetSize {
				m.State = StateBreak
			}
			return m, true
		case ActionReachBreak:
			m.State = StateBreak
			return m, true
		}
	case StateBreak:
		switch action {
		case ActionContinue:
			return Machine{State: StateInMiniSet, WordIndex: 0}, true
		case ActionFinish:
			m.State = StateComplete
			return m, true
		}
	case StateComplete:
		// Terminal.
	}
	return m, false
}
