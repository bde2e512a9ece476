package step

import (
	"github.com/xDarkicex/hmsolve/typeset"
)

// Status is the top-level disposition spec.md §6 names for Solve.
type Status int

const (
	Complete Status = iota
	Incomplete
	Failed
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Incomplete:
		return "incomplete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what Solve returns: the filtered solutions found and the
// overall status.
type Result struct {
	Solutions []typeset.Solution
	Status    Status
	Trace     []TraceEvent
}

// Solve is the driver entry point (spec.md §6): it constructs one initial
// SplitterStep bound to the top-level solution buffer and runs the work
// loop to completion or until a budget is exceeded.
func Solve(sys *typeset.ConstraintSystem, simplifier typeset.Simplifier, cfg Config) (Result, error) {
	dest := &[]typeset.Solution{}
	top := newSplitterStep(sys, simplifier, cfg, dest)
	d := NewDriver(sys, cfg, top)

	if err := d.Run(); err != nil {
		return Result{Status: Failed, Trace: d.Trace()}, err
	}

	if d.Incomplete() {
		return Result{Solutions: *dest, Status: Incomplete, Trace: d.Trace()}, nil
	}
	if len(*dest) == 0 {
		return Result{Status: Failed, Trace: d.Trace()}, nil
	}
	return Result{Solutions: *dest, Status: Complete, Trace: d.Trace()}, nil
}
