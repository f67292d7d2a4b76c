package core

// State is a core controller micro-state.
type State uint8

// Core controller states.
const (
	// StateClear zeroes the registers and shows 0.
	StateClear State = iota
	// StateFirstOperand accepts digits into A.
	StateFirstOperand
	// StateSecondEmpty has an operator bound and no digit of B typed yet.
	StateSecondEmpty
	// StateSecondTyped accepts digits into B.
	StateSecondTyped
	// StatePostEquals holds an evaluation result in A.
	StatePostEquals
	// StateError shows the error indicator until AC.
	StateError
	// StateALURequest asserts the ALU request.
	StateALURequest
	// StateALUWait waits for the ALU result.
	StateALUWait
	// StateDisplayRequest asserts the display request.
	StateDisplayRequest
	// StateDisplayRender waits for render complete.
	StateDisplayRender

	numStates
)

var stateNames = [...]string{
	StateClear:          "CLEAR",
	StateFirstOperand:   "FIRST_OPERAND",
	StateSecondEmpty:    "SECOND_EMPTY",
	StateSecondTyped:    "SECOND_TYPED",
	StatePostEquals:     "POST_EQUALS",
	StateError:          "ERROR",
	StateALURequest:     "ALU_REQUEST",
	StateALUWait:        "ALU_WAIT",
	StateDisplayRequest: "DISPLAY_REQUEST",
	StateDisplayRender:  "DISPLAY_RENDER",
}

func (s State) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// AcceptsButtons reports whether the core asserts button-ready in s.
func (s State) AcceptsButtons() bool {
	switch s {
	case StateFirstOperand, StateSecondEmpty, StateSecondTyped, StatePostEquals, StateError:
		return true
	}
	return false
}

// Phase groups micro-states by user-facing behaviour.
type Phase uint8

// Logical phases.
const (
	PhaseClear Phase = iota
	PhaseFirstOperand
	PhaseSecondOperand
	PhaseEquals
	PhasePostEquals
	PhaseError
)

var phaseNames = [...]string{
	PhaseClear:         "CLEAR",
	PhaseFirstOperand:  "FIRST_OPERAND",
	PhaseSecondOperand: "SECOND_OPERAND",
	PhaseEquals:        "EQUALS",
	PhasePostEquals:    "POST_EQUALS",
	PhaseError:         "ERROR",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "UNKNOWN"
}

// evalKind records why the ALU was called.
type evalKind uint8

const (
	// evalEquals loads the result and moves to POST_EQUALS.
	evalEquals evalKind = iota
	// evalChain loads the result and binds the next operator.
	evalChain
)
