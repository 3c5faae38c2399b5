package ripple

// State is the scheduler's display mode.
type State int

const (
	// StateRunning cycles normally: step the active sequence, display the
	// previous one.
	StateRunning State = iota
	// StateAmbient shows a single static frame seeded from the ambient label.
	StateAmbient
	// StateCatchUp plays the previous sequence at an accelerated step size
	// until the shortened cycle ends.
	StateCatchUp
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAmbient:
		return "ambient"
	case StateCatchUp:
		return "catch-up"
	}
	return "unknown"
}

// event is what a single Render call observed.
type event int

const (
	evTick event = iota
	evRollover
	// evLate: at least two cycles elapsed since the last rollover, or the
	// scheduler has never run.
	evLate
	evReset
	evAmbientOn
	evAmbientOff
)

func (e event) String() string {
	switch e {
	case evTick:
		return "tick"
	case evRollover:
		return "rollover"
	case evLate:
		return "late"
	case evReset:
		return "reset"
	case evAmbientOn:
		return "ambient-on"
	case evAmbientOff:
		return "ambient-off"
	}
	return "unknown"
}

// transitions lists every legal (state, event) pair. Entering StateAmbient
// from another state is the freeze transition; leaving it always goes
// through a catch-up rollover.
var transitions = map[State]map[event]State{
	StateRunning: {
		evTick:      StateRunning,
		evRollover:  StateRunning,
		evLate:      StateCatchUp,
		evReset:     StateRunning,
		evAmbientOn: StateAmbient,
	},
	StateAmbient: {
		evAmbientOn:  StateAmbient,
		evAmbientOff: StateCatchUp,
	},
	StateCatchUp: {
		evTick:      StateCatchUp,
		evRollover:  StateRunning,
		evLate:      StateCatchUp,
		evReset:     StateRunning,
		evAmbientOn: StateAmbient,
	},
}

// nextState looks up the transition for ev in state from.
func nextState(from State, ev event) (State, bool) {
	to, ok := transitions[from][ev]
	return to, ok
}

// catchUpEvent reports whether ev forces a catch-up rollover. A reset is a
// plain rollover starting at the query time.
func catchUpEvent(ev event) bool {
	return ev == evLate || ev == evAmbientOff
}
