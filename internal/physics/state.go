package physics

import "fmt"

// SimState is the run/pause clock. The zero value is Stopped.
type SimState uint8

const (
	Stopped SimState = iota
	Running
)

func (s SimState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

func (s SimState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SimState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "running":
		*s = Running
	case "stopped":
		*s = Stopped
	default:
		return fmt.Errorf("unknown simulation state %q", b)
	}
	return nil
}

type RunRequest uint8

const (
	Pause RunRequest = iota
	Run
	Toggle
)

func (r RunRequest) String() string {
	switch r {
	case Pause:
		return "pause"
	case Run:
		return "run"
	case Toggle:
		return "toggle"
	}
	return fmt.Sprintf("RunRequest(%d)", uint8(r))
}

// next returns the state after applying r. Pausing while stopped and running
// while running leave the state unchanged.
func (s SimState) next(r RunRequest) SimState {
	switch r {
	case Pause:
		return Stopped
	case Run:
		return Running
	case Toggle:
		if s == Running {
			return Stopped
		}
		return Running
	}
	return s
}

// RequestRun queues a run-state change for the next tick.
func (w *PhysicsWorld) RequestRun(r RunRequest) {
	w.runRequests.Send(r)
}

// State returns the current run state.
func (w *PhysicsWorld) State() SimState { return w.state }

func (w *PhysicsWorld) applyRunRequests() {
	for _, r := range w.runRequests.Drain() {
		next := w.state.next(r)
		if next == w.state {
			continue
		}
		w.log.Info("simulation state changed", "from", w.state, "to", next, "request", r)
		w.state = next
		w.respond(Response{Kind: KindStateChanged, State: &StateChanged{State: next}})
	}
}
