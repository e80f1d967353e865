package reconcile

import "fmt"

// State is the lifecycle position of one staged record.
type State string

const (
	StatePending   State = "pending"
	StateResolved  State = "resolved"
	StateDiffed    State = "diffed"
	StateCommitted State = "committed"
	StateRejected  State = "rejected"
)

// transitions lists the legal successors of each state. Committed and
// Rejected are terminal.
var transitions = map[State][]State{
	StatePending:  {StateResolved, StateRejected},
	StateResolved: {StateDiffed, StateRejected},
	StateDiffed:   {StateCommitted, StateRejected},
}

// RecordState tracks one record through Pending → Resolved → Diffed → Committed,
// or into Rejected.
type RecordState struct {
	current State
}

// NewRecordState returns a state machine positioned at Pending.
func NewRecordState() *RecordState {
	return &RecordState{current: StatePending}
}

// Current returns the present state.
func (s *RecordState) Current() State {
	return s.current
}

// Terminal reports whether no further transition is possible.
func (s *RecordState) Terminal() bool {
	return len(transitions[s.current]) == 0
}

// Advance moves to the next state or returns ErrIllegalTransition.
func (s *RecordState) Advance(to State) error {
	for _, next := range transitions[s.current] {
		if next == to {
			s.current = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.current, to)
}
