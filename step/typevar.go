package step

import (
	"fmt"

	"github.com/xDarkicex/hmsolve/typeset"
)

// bindingDelta scores a candidate by its provenance: direct bounds are
// free, supertype widening costs a little, and literal defaults cost more
// still, so any solution that needed a literal default ranks behind one
// that didn't (spec.md §8 S4).
func bindingDelta(source typeset.BindingSource) typeset.Score {
	switch source {
	case typeset.Supertype:
		return typeset.Score{Values: []int{0, 0, 1}}
	case typeset.LiteralDefault:
		return typeset.Score{Values: []int{0, 1}}
	default:
		return typeset.Score{}
	}
}

// TypeVariableStep attempts bindings for one type variable in priority
// order, collecting solutions from each attempt (spec.md §4.4).
type TypeVariableStep struct {
	base
	sys        *typeset.ConstraintSystem
	simplifier typeset.Simplifier
	cfg        Config

	tv   *typeset.TypeVariable
	dest *[]typeset.Solution

	anySolved    bool
	activeChoice *Scope
	preLen       int
}

func newTypeVariableStep(sys *typeset.ConstraintSystem, simp typeset.Simplifier, cfg Config, tv *typeset.TypeVariable, dest *[]typeset.Solution) *TypeVariableStep {
	return &TypeVariableStep{
		base:       newBase("TypeVariableStep"),
		sys:        sys,
		simplifier: simp,
		cfg:        cfg,
		tv:         tv,
		dest:       dest,
	}
}

func (t *TypeVariableStep) Label() string {
	return fmt.Sprintf("TypeVariableStep(%s)", t.tv)
}

func (t *TypeVariableStep) setup() error {
	return t.to("TypeVariableStep.setup", Ready)
}

func (t *TypeVariableStep) take(prevFailed bool) StepResult {
	return t.iterate(prevFailed, true)
}

func (t *TypeVariableStep) resume(prevFailed bool) StepResult {
	return t.iterate(prevFailed, false)
}

// iterate is the shared take/resume loop described in spec.md §4.4: take
// is the entry used to pull the very first candidate, resume re-enters
// after a follow-up SplitterStep has run for the previous candidate; both
// paths converge on the same bookkeeping. It loops internally past any
// candidate that fails to apply at all (a representative already bound to
// a conflicting type), since such a candidate never reaches the driver as
// a suspension in the first place.
func (t *TypeVariableStep) iterate(prevFailed bool, first bool) StepResult {
	if err := t.to("TypeVariableStep.iterate", Running); err != nil {
		return failed(err)
	}

	if t.activeChoice != nil {
		if !prevFailed {
			gained := len(*t.dest) > t.preLen
			t.anySolved = t.anySolved || gained
		}
		t.activeChoice.Close()
		t.activeChoice = nil
	}

	for {
		stop := false
		if !stop && t.tv.Bindings.Exhausted() {
			stop = true
		}

		// Ordering guarantee (spec.md §4.4): once a non-literal attempt has
		// produced at least one solution, no literal-default attempts are
		// tried. Literal defaults always sort last, so this only ever skips
		// a suffix of the producer.
		if !stop && t.cfg.LiteralDefaultEarlyExit && t.anySolved {
			if next, ok := t.tv.Bindings.Peek(); ok && next.Source == typeset.LiteralDefault {
				stop = true
			}
		}

		var b typeset.Binding
		var ok bool
		if !stop {
			b, ok = t.tv.Bindings.Next()
			if !ok {
				stop = true
			}
		}

		if stop {
			if terr := t.to("TypeVariableStep.iterate", Done); terr != nil {
				return failed(terr)
			}
			if t.anySolved {
				return solved()
			}
			return failed(exhaustionErr("TypeVariableStep.iterate", "no binding for "+t.tv.String()+" produced a solution"))
		}

		scope := OpenScope(t.sys, []int{t.tv.ID})
		preLen := len(*t.dest)

		if err := t.simplifier.ApplyBinding(t.sys, t.tv, b); err != nil {
			scope.Close()
			continue
		}
		t.sys.Score = t.sys.Score.Add(bindingDelta(b.Source))
		t.activeChoice = scope
		t.preLen = preLen

		splitter := newSplitterStep(t.sys, t.simplifier, t.cfg, t.dest)
		if terr := t.to("TypeVariableStep.iterate", Suspended); terr != nil {
			return failed(terr)
		}
		return unsolved(splitter)
	}
}

func (t *TypeVariableStep) drop() {
	t.activeChoice.Close()
}
