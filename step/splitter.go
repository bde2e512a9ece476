package step

import (
	"fmt"

	"github.com/xDarkicex/hmsolve/cgraph"
	"github.com/xDarkicex/hmsolve/typeset"
)

var splitterSeq int

// SplitterStep partitions the active constraint set into independent
// components and cross-merges their partial solutions (spec.md §4.2).
type SplitterStep struct {
	base
	sys        *typeset.ConstraintSystem
	simplifier typeset.Simplifier
	cfg        Config
	dest       *[]typeset.Solution

	id           int
	entryScore   typeset.Score
	components   []cgraph.Component
	orphans      []*typeset.Constraint
	perComponent []*[]typeset.Solution
	followups    []Step
}

func newSplitterStep(sys *typeset.ConstraintSystem, simp typeset.Simplifier, cfg Config, dest *[]typeset.Solution) *SplitterStep {
	splitterSeq++
	return &SplitterStep{
		base:       newBase("SplitterStep"),
		sys:        sys,
		simplifier: simp,
		cfg:        cfg,
		dest:       dest,
		id:         splitterSeq,
	}
}

func (s *SplitterStep) Label() string {
	return fmt.Sprintf("SplitterStep#%d", s.id)
}

func (s *SplitterStep) setup() error {
	return s.to("SplitterStep.setup", Ready)
}

func (s *SplitterStep) take(prevFailed bool) StepResult {
	if err := s.to("SplitterStep.take", Running); err != nil {
		return failed(err)
	}

	s.entryScore = s.sys.Score
	s.components, s.orphans = cgraph.Components(s.sys.Active)
	s.sys.SetOrphanedConstraints(s.orphans)

	if len(s.components) == 0 {
		// Zero active constraints (or orphans only): spec.md §8's
		// boundary case "Zero constraints -> one trivial solution",
		// generalized to "nothing left to branch on".
		if err := s.validateOrphans(); err != nil {
			if terr := s.to("SplitterStep.take", Done); terr != nil {
				return failed(terr)
			}
			return failed(err)
		}
		*s.dest = append(*s.dest, typeset.NewSolution(s.sys))
		if terr := s.to("SplitterStep.take", Done); terr != nil {
			return failed(terr)
		}
		return solved()
	}

	single := len(s.components) == 1 && len(s.orphans) == 0
	s.perComponent = make([]*[]typeset.Solution, len(s.components))
	s.followups = make([]Step, len(s.components))
	for i, c := range s.components {
		buf := &[]typeset.Solution{}
		s.perComponent[i] = buf
		s.followups[i] = newComponentStep(s.sys, s.simplifier, s.cfg, c, single, buf)
	}

	if terr := s.to("SplitterStep.take", Suspended); terr != nil {
		return failed(terr)
	}
	return unsolved(s.followups...)
}

func (s *SplitterStep) resume(prevFailed bool) StepResult {
	if err := s.to("SplitterStep.resume", Running); err != nil {
		return failed(err)
	}

	for _, buf := range s.perComponent {
		if len(*buf) == 0 {
			if terr := s.to("SplitterStep.resume", Done); terr != nil {
				return failed(terr)
			}
			return failed(exhaustionErr("SplitterStep.resume", "a component produced zero solutions"))
		}
	}

	if err := s.validateOrphans(); err != nil {
		if terr := s.to("SplitterStep.resume", Done); terr != nil {
			return failed(terr)
		}
		return failed(err)
	}

	merged := s.crossMerge()
	filtered := typeset.Filter(merged, s.cfg.RetainAllSolutions)
	*s.dest = append(*s.dest, filtered...)

	if terr := s.to("SplitterStep.resume", Done); terr != nil {
		return failed(terr)
	}
	if len(filtered) == 0 {
		return failed(exhaustionErr("SplitterStep.resume", "no merged tuple survived orphan validation"))
	}
	return solved()
}

// validateOrphans checks constraints with no free type variables directly
// against their ground types. Because such constraints by definition
// mention no type variable, their satisfiability cannot depend on which
// merged solution is being considered, so this check is performed once
// rather than once per tuple as spec.md §4.2's prose suggests per-tuple —
// an implementation simplification noted in DESIGN.md.
func (s *SplitterStep) validateOrphans() error {
	if len(s.orphans) == 0 {
		return nil
	}
	empty := typeset.NewConstraintSystem()
	outcome, err := s.simplifier.SimplifyAll(empty, s.orphans)
	if outcome == typeset.OutcomeContradiction {
		return contradictionErr("SplitterStep.validateOrphans", err.Error())
	}
	return nil
}

// crossMerge computes, for each tuple of one solution per component, the
// merged solution combining their bindings and summing score deltas
// against the splitter's entry score (spec.md §4.2 step 4).
func (s *SplitterStep) crossMerge() []typeset.Solution {
	counts := make([]int, len(s.perComponent))
	for i, buf := range s.perComponent {
		counts[i] = len(*buf)
	}
	total := 1
	for _, c := range counts {
		total *= c
	}
	out := make([]typeset.Solution, 0, total)
	idx := make([]int, len(counts))
	for {
		parts := make([]typeset.Solution, len(counts))
		for i, buf := range s.perComponent {
			parts[i] = (*buf)[idx[i]]
		}
		out = append(out, typeset.Merge(s.entryScore, parts...))

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < counts[pos] {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out
}

func (s *SplitterStep) drop() {}
