package step

import "github.com/xDarkicex/hmsolve/core"

// State is a step's position in the lifecycle spec.md §3 mandates:
// Setup -> Ready -> Running -> (Suspended -> Running)* -> Done. Any other
// transition is a bug (§9: "the state-transition validator... this spec
// mandates the full path and requires runtime enforcement").
type State int

const (
	Setup State = iota
	Ready
	Running
	Suspended
	Done
)

func (s State) String() string {
	switch s {
	case Setup:
		return "setup"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// allowed[from] is the set of states from may transition to directly.
var allowed = map[State][]State{
	Setup:     {Ready},
	Ready:     {Running},
	Running:   {Suspended, Done},
	Suspended: {Running},
	Done:      {},
}

// assertTransition enforces the state path, returning an
// InvariantViolation SolverError (fatal, per spec.md §7) if from -> to is
// not a legal direct transition.
func assertTransition(op string, from, to State) error {
	for _, ok := range allowed[from] {
		if ok == to {
			return nil
		}
	}
	return core.NewInvariantViolation(op, from.String()+" -> "+to.String()+" is not a legal state transition")
}

// base is embedded by every concrete step and owns the state field plus
// the transition guard, so each step kind only has to call base.to(...)
// rather than re-implement the validator.
type base struct {
	state State
	kind  string
}

func newBase(kind string) base {
	return base{state: Setup, kind: kind}
}

func (b *base) State() State { return b.state }
func (b *base) Kind() string { return b.kind }

func (b *base) to(op string, next State) error {
	if err := assertTransition(op, b.state, next); err != nil {
		return err
	}
	b.state = next
	return nil
}
