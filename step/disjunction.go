package step

import (
	"fmt"

	"github.com/xDarkicex/hmsolve/typeset"
)

type solvedChoice struct {
	index int
	score typeset.Score
}

// DisjunctionStep attempts each choice of one disjunction in turn, pruning
// and short-circuiting per spec.md §4.5.
type DisjunctionStep struct {
	base
	sys        *typeset.ConstraintSystem
	simplifier typeset.Simplifier
	cfg        Config

	d          *typeset.Constraint
	dest       *[]typeset.Solution
	origIndex  int
	prunedIdxs []int

	cursor            int
	bestNonGeneric    *typeset.Score
	lastSolved        *solvedChoice
	activeChoice      *Scope
	activeChoiceIndex int
	preLen            int
}

func newDisjunctionStep(sys *typeset.ConstraintSystem, simp typeset.Simplifier, cfg Config, d *typeset.Constraint, dest *[]typeset.Solution) *DisjunctionStep {
	return &DisjunctionStep{
		base:       newBase("DisjunctionStep"),
		sys:        sys,
		simplifier: simp,
		cfg:        cfg,
		d:          d,
		dest:       dest,
	}
}

func (d *DisjunctionStep) Label() string {
	return fmt.Sprintf("DisjunctionStep#%d", d.d.ID)
}

func (d *DisjunctionStep) setup() error {
	if err := d.to("DisjunctionStep.setup", Ready); err != nil {
		return err
	}
	d.origIndex = d.sys.RemoveConstraint(d.d)
	if len(d.d.Disabled) < len(d.d.Alternatives) {
		grown := make([]bool, len(d.d.Alternatives))
		copy(grown, d.d.Disabled)
		d.d.Disabled = grown
	}
	d.pruneOverloadSet()
	return nil
}

// pruneOverloadSet disables every alternative whose declaration conflicts
// with a representative already bound by a previous overload resolution
// (spec.md §4.5), exploiting equality-class propagation across chained
// operator overload resolutions (§8 S3).
func (d *DisjunctionStep) pruneOverloadSet() {
	if len(d.d.Alternatives) == 0 {
		return
	}
	first := d.d.Alternatives[0]
	if first.Binds == nil {
		return
	}
	tv := d.sys.Representative(*first.Binds)
	if tv == nil || tv.Bound == nil {
		return
	}
	var matchedDecl string
	found := false
	for h := d.sys.Resolved; h != nil; h = h.Prev {
		if h.Var == tv.ID {
			matchedDecl = h.Decl
			found = true
			break
		}
	}
	if !found {
		return
	}
	for i, alt := range d.d.Alternatives {
		if alt.Decl != matchedDecl {
			d.d.Disabled[i] = true
			d.prunedIdxs = append(d.prunedIdxs, i)
		}
	}
}

func (d *DisjunctionStep) take(prevFailed bool) StepResult {
	return d.iterate(prevFailed)
}

func (d *DisjunctionStep) resume(prevFailed bool) StepResult {
	return d.iterate(prevFailed)
}

func (d *DisjunctionStep) iterate(prevFailed bool) StepResult {
	if err := d.to("DisjunctionStep.iterate", Running); err != nil {
		return failed(err)
	}

	if d.activeChoice != nil {
		if !prevFailed && len(*d.dest) > d.preLen {
			alt := d.d.Alternatives[d.activeChoiceIndex]
			sc := solvedChoice{index: d.activeChoiceIndex, score: d.sys.Score}
			d.lastSolved = &sc
			if !alt.Generic {
				if d.bestNonGeneric == nil || sc.score.Compare(*d.bestNonGeneric) < 0 {
					d.bestNonGeneric = &sc.score
				}
			}
		}
		d.activeChoice.Close()
		d.activeChoice = nil
	}

	for {
		if d.cfg.DisjunctionShortCircuit && d.shouldShortCircuitAt(d.cursor) {
			d.cursor = len(d.d.Alternatives)
			break
		}
		if d.cursor >= len(d.d.Alternatives) {
			break
		}
		idx := d.cursor
		d.cursor++
		if d.shouldSkipChoice(idx) {
			continue
		}

		alt := d.d.Alternatives[idx]
		scope := OpenScope(d.sys, d.d.FreeVars())
		preLen := len(*d.dest)
		if err := d.simplifier.ApplyChoice(d.sys, d.d, idx); err != nil {
			scope.Close()
			continue
		}
		if alt.Generic {
			d.sys.Score = d.sys.Score.Add(typeset.GenericPenalty)
		}
		d.activeChoice = scope
		d.activeChoiceIndex = idx
		d.preLen = preLen

		splitter := newSplitterStep(d.sys, d.simplifier, d.cfg, d.dest)
		if terr := d.to("DisjunctionStep.iterate", Suspended); terr != nil {
			return failed(terr)
		}
		return unsolved(splitter)
	}

	if terr := d.to("DisjunctionStep.iterate", Done); terr != nil {
		return failed(terr)
	}
	if d.lastSolved != nil {
		return solved()
	}
	return failed(exhaustionErr("DisjunctionStep.iterate", "every alternative of disjunction failed"))
}

// shouldSkipChoice implements spec.md §4.5 step 3: skip disabled
// alternatives (pruned or already excluded) and skip a generic
// alternative once a non-generic solution has already been found, since a
// generic choice is, by construction, never better than one already on
// the board.
func (d *DisjunctionStep) shouldSkipChoice(idx int) bool {
	if idx < len(d.d.Disabled) && d.d.Disabled[idx] {
		return true
	}
	if d.d.Alternatives[idx].Generic && d.bestNonGeneric != nil {
		return true
	}
	return false
}

// shouldShortCircuitAt implements the optional heuristic SPEC_FULL.md
// fills in for spec.md §9's under-specified "performance hack": once a
// non-generic solution's score already beats the best any remaining
// generic alternative could achieve (entry score plus the fixed generic
// penalty), there is no point trying the rest. It is guarded by
// Config.DisjunctionShortCircuit so correctness never depends on it, per
// spec.md §9.
func (d *DisjunctionStep) shouldShortCircuitAt(idx int) bool {
	if d.bestNonGeneric == nil || idx >= len(d.d.Alternatives) {
		return false
	}
	if !d.d.Alternatives[idx].Generic {
		return false
	}
	bestPossibleGeneric := d.sys.Score.Add(typeset.GenericPenalty)
	return d.bestNonGeneric.Compare(bestPossibleGeneric) <= 0
}

func (d *DisjunctionStep) drop() {
	d.activeChoice.Close()
	for _, i := range d.prunedIdxs {
		d.d.Disabled[i] = false
	}
	d.sys.InsertConstraintAt(d.d, d.origIndex)
}
