// Package step is the stack-based, resumable scheduler at the heart of the
// solver: SplitterStep, ComponentStep, TypeVariableStep, and
// DisjunctionStep, driven by a single LIFO work list (spec.md §4).
package step

import (
	"time"

	"github.com/xDarkicex/hmsolve/core"
	"github.com/xDarkicex/hmsolve/typeset"
)

// StatusKind is a step's disposition on completion.
type StatusKind int

const (
	// Unsolved means the step suspended with follow-ups; only Unsolved
	// results may carry follow-ups.
	Unsolved StatusKind = iota
	Solved
	Error
)

func (k StatusKind) String() string {
	switch k {
	case Unsolved:
		return "unsolved"
	case Solved:
		return "solved"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// StepResult is what take/resume hand back to the driver.
type StepResult struct {
	Kind      StatusKind
	Followups []Step
	Err       error
}

func unsolved(followups ...Step) StepResult {
	return StepResult{Kind: Unsolved, Followups: followups}
}

func solved() StepResult {
	return StepResult{Kind: Solved}
}

func failed(err error) StepResult {
	return StepResult{Kind: Error, Err: err}
}

// Step is the narrow capability every step kind implements: setup, take,
// resume, drop (spec.md §9 design note: "model as a tagged variant
// dispatched by the driver, or as a narrow capability"; this module uses
// the latter, with State()/Label()/Kind() added for the driver's
// bookkeeping, tracing, and structured logging).
type Step interface {
	State() State
	Label() string
	Kind() string
	setup() error
	take(prevFailed bool) StepResult
	resume(prevFailed bool) StepResult
	drop()
}

// TraceEvent is one entry in the optional replay buffer described in
// SPEC_FULL.md's Supplemented Features §1.
type TraceEvent struct {
	Step       string
	Event      string
	ScopeDepth int
}

// Driver holds the LIFO work list and runs it to completion or until a
// budget is exceeded (spec.md §4.1, §5).
type Driver struct {
	stack      []Step
	lastFailed bool
	cfg        Config
	sys        *typeset.ConstraintSystem
	steps      uint64
	trace      []TraceEvent
	incomplete bool
}

// NewDriver constructs a driver around sys with the given config and
// pushes initial as the sole starting step.
func NewDriver(sys *typeset.ConstraintSystem, cfg Config, initial Step) *Driver {
	d := &Driver{cfg: cfg, sys: sys}
	d.push([]Step{initial})
	return d
}

// push pushes steps onto the stack in emission order: index 0 ends on top
// and therefore runs first (spec.md §4.1: "pushed in order such that
// index 0 executes first (stack push in reverse)").
func (d *Driver) push(steps []Step) {
	for i := len(steps) - 1; i >= 0; i-- {
		d.stack = append(d.stack, steps[i])
	}
}

func (d *Driver) record(s Step, event string) {
	if d.cfg.Trace {
		d.trace = append(d.trace, TraceEvent{Step: s.Label(), Event: event, ScopeDepth: len(d.stack)})
	}
}

// logEvent carries the step machine's suspend/resume/contradiction events
// to Config.Log, keyed by the structured fields SPEC_FULL.md's Ambient
// Stack promises: step, kind, scopeDepth. Suspend and resume log at V(1);
// a contradiction additionally logs at V(0) via Error, since it is the
// one StepResult outcome worth surfacing without raising the verbosity.
func (d *Driver) logEvent(s Step, event string, err error) {
	depth := len(d.stack)
	if core.IsKind(err, core.Contradiction) {
		d.cfg.Log.V(0).Error(err, "contradiction", "step", s.Label(), "kind", s.Kind(), "scopeDepth", depth)
		return
	}
	if err != nil {
		d.cfg.Log.V(1).Info(event, "step", s.Label(), "kind", s.Kind(), "scopeDepth", depth, "err", err.Error())
		return
	}
	d.cfg.Log.V(1).Info(event, "step", s.Label(), "kind", s.Kind(), "scopeDepth", depth)
}

// Trace returns the recorded transition trace, if Config.Trace was set.
func (d *Driver) Trace() []TraceEvent {
	return d.trace
}

// Incomplete reports whether the last Run stopped early due to a budget.
func (d *Driver) Incomplete() bool {
	return d.incomplete
}

func (d *Driver) budgetExceeded() bool {
	if d.cfg.MaxSteps != 0 && d.steps >= d.cfg.MaxSteps {
		return true
	}
	if d.cfg.hasDeadline() && time.Now().After(d.cfg.Deadline) {
		return true
	}
	return false
}

// Run drains the work list, returning a fatal error only for an
// InvariantViolation (§7); Contradiction/Exhaustion surface as the
// top-level step's own Error disposition, not a returned error.
func (d *Driver) Run() error {
	for len(d.stack) > 0 {
		if d.budgetExceeded() {
			d.unwind()
			d.incomplete = true
			return nil
		}
		d.steps++
		top := d.stack[len(d.stack)-1]

		switch top.State() {
		case Setup:
			if err := top.setup(); err != nil {
				return err
			}
			d.record(top, "setup")
		case Ready:
			res := top.take(d.lastFailed)
			if err := d.handle(top, res); err != nil {
				return err
			}
		case Suspended:
			d.logEvent(top, "resume", nil)
			res := top.resume(d.lastFailed)
			if err := d.handle(top, res); err != nil {
				return err
			}
		default:
			return core.NewInvariantViolation("Driver.Run", "step "+top.Label()+" popped in state "+top.State().String())
		}
	}
	return nil
}

func (d *Driver) handle(s Step, res StepResult) error {
	if serr, ok := res.Err.(*core.SolverError); ok && serr.Kind == core.InvariantViolation {
		return serr
	}
	switch res.Kind {
	case Unsolved:
		d.record(s, "suspend")
		d.logEvent(s, "suspend", nil)
		d.push(res.Followups)
	case Solved, Error:
		d.stack = d.stack[:len(d.stack)-1]
		s.drop()
		d.lastFailed = res.Kind == Error
		d.record(s, "done:"+res.Kind.String())
		if res.Kind == Error {
			d.logEvent(s, "done:error", res.Err)
		}
	}
	return nil
}

// unwind drops every step remaining on the stack, LIFO, without running
// them further, restoring state when a budget is exceeded mid-solve
// (spec.md §5 Cancellation).
func (d *Driver) unwind() {
	for len(d.stack) > 0 {
		top := d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]
		top.drop()
		d.record(top, "unwound")
	}
}
