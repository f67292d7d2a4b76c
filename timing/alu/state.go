package alu

// State is the ALU controller state.
type State uint8

// ALU controller states.
const (
	StateIdle State = iota
	StateAdd
	StateSub
	StateMulLoop
	StateDivFlipA
	StateDivFlipB
	StateDivLoop
	StateDivPost
	StateOutput
	StateOutputError
)

var stateNames = [...]string{
	StateIdle:        "IDLE",
	StateAdd:         "ADD1",
	StateSub:         "SUB1",
	StateMulLoop:     "MUL_LOOP",
	StateDivFlipA:    "DIV_FLIP_A",
	StateDivFlipB:    "DIV_FLIP_B",
	StateDivLoop:     "DIV_LOOP",
	StateDivPost:     "DIV_POST",
	StateOutput:      "OUTPUT",
	StateOutputError: "OUTPUT_ERROR",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// Busy reports whether s is a compute state.
func (s State) Busy() bool {
	return s >= StateAdd && s <= StateDivPost
}
