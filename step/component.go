package step

import (
	"fmt"

	"github.com/xDarkicex/hmsolve/cgraph"
	"github.com/xDarkicex/hmsolve/typeset"
)

// ComponentStep solves one independent connected component to completion
// (spec.md §4.3). For a single component (the only one, with no orphans)
// its scope is a no-op: the full system already is the component.
type ComponentStep struct {
	base
	sys        *typeset.ConstraintSystem
	simplifier typeset.Simplifier
	cfg        Config

	component cgraph.Component
	single    bool
	dest      *[]typeset.Solution

	scope *Scope
	child Step
}

func newComponentStep(sys *typeset.ConstraintSystem, simp typeset.Simplifier, cfg Config, c cgraph.Component, single bool, dest *[]typeset.Solution) *ComponentStep {
	return &ComponentStep{
		base:       newBase("ComponentStep"),
		sys:        sys,
		simplifier: simp,
		cfg:        cfg,
		component:  c,
		single:     single,
		dest:       dest,
	}
}

func (c *ComponentStep) Label() string {
	return fmt.Sprintf("ComponentStep#%d", c.component.ID)
}

func (c *ComponentStep) setup() error {
	if err := c.to("ComponentStep.setup", Ready); err != nil {
		return err
	}
	if !c.single {
		c.scope = OpenScope(c.sys, c.component.TypeVars)
		c.sys.Active = append([]*typeset.Constraint(nil), c.component.Constraints...)
	}
	return nil
}

func (c *ComponentStep) take(prevFailed bool) StepResult {
	if err := c.to("ComponentStep.take", Running); err != nil {
		return failed(err)
	}

	outcome, err := c.simplifier.SimplifyAll(c.sys, c.sys.Active)
	if outcome == typeset.OutcomeSolved && !c.allBound() {
		// Every constraint reduced, but some variable in this component
		// still has no binding (e.g. a free variable no constraint
		// mentions): not actually terminal, fall through to pick a work
		// unit for it.
		outcome = typeset.OutcomeUnsolved
	}
	switch outcome {
	case typeset.OutcomeSolved:
		*c.dest = append(*c.dest, typeset.NewSolution(c.sys))
		if terr := c.to("ComponentStep.take", Done); terr != nil {
			return failed(terr)
		}
		return solved()
	case typeset.OutcomeContradiction:
		if terr := c.to("ComponentStep.take", Done); terr != nil {
			return failed(terr)
		}
		msg := "component simplified to a contradiction"
		if err != nil {
			msg = err.Error()
		}
		return failed(contradictionErr("ComponentStep.take", msg))
	default: // OutcomeUnsolved
		unit := c.selectWorkUnit()
		if unit == nil {
			// Nothing left to branch on but not solved: every variable in
			// the component is bound yet the simplifier still reports
			// constraints pending (a deadlocked component). Treat as
			// exhaustion; the enclosing splitter surfaces the failure.
			if terr := c.to("ComponentStep.take", Done); terr != nil {
				return failed(terr)
			}
			return failed(exhaustionErr("ComponentStep.take", "no disjunction or type variable left to try"))
		}
		c.child = unit
		if terr := c.to("ComponentStep.take", Suspended); terr != nil {
			return failed(terr)
		}
		return unsolved(unit)
	}
}

func (c *ComponentStep) resume(prevFailed bool) StepResult {
	if err := c.to("ComponentStep.resume", Running); err != nil {
		return failed(err)
	}
	anySolved := !prevFailed
	if terr := c.to("ComponentStep.resume", Done); terr != nil {
		return failed(terr)
	}
	if anySolved {
		return solved()
	}
	return failed(exhaustionErr("ComponentStep.resume", "component's sole work unit produced no solution"))
}

func (c *ComponentStep) drop() {
	c.scope.Close()
}

// selectWorkUnit implements spec.md §4.3's precedence: the highest
// priority disjunction (fewest enabled alternatives, ties by declaration
// order/ID), else the best type variable to bind (fewest remaining
// candidates, ties by ID), per SPEC_FULL.md's filled-in ranking.
func (c *ComponentStep) selectWorkUnit() Step {
	var best *typeset.Constraint
	for _, con := range c.sys.Active {
		if con.Kind != typeset.DisjunctionKind {
			continue
		}
		if con.EnabledCount() == 0 {
			// Already contradictory; let the disjunction step report it.
			if best == nil || con.ID < best.ID {
				best = con
			}
			continue
		}
		if best == nil || betterDisjunction(con, best) {
			best = con
		}
	}
	if best != nil {
		return newDisjunctionStep(c.sys, c.simplifier, c.cfg, best, c.dest)
	}

	var bestVar *typeset.TypeVariable
	bestRemaining := -1
	for _, id := range c.component.TypeVars {
		tv := c.sys.Representative(id)
		if tv == nil || tv.Bound != nil || tv.Bindings == nil {
			continue
		}
		r := tv.Bindings.Remaining()
		if r == 0 {
			continue
		}
		if bestVar == nil || r < bestRemaining || (r == bestRemaining && tv.ID < bestVar.ID) {
			bestVar, bestRemaining = tv, r
		}
	}
	if bestVar == nil {
		return nil
	}
	return newTypeVariableStep(c.sys, c.simplifier, c.cfg, bestVar, c.dest)
}

// allBound reports whether every type variable belonging to this component
// has a committed binding.
func (c *ComponentStep) allBound() bool {
	for _, id := range c.component.TypeVars {
		tv := c.sys.Representative(id)
		if tv == nil || tv.Bound == nil {
			return false
		}
	}
	return true
}

func betterDisjunction(a, b *typeset.Constraint) bool {
	ac, bc := a.EnabledCount(), b.EnabledCount()
	if ac != bc {
		return ac < bc
	}
	return a.ID < b.ID
}
