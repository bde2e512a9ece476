package typeset

import (
	"golang.org/x/exp/slices"

	"github.com/google/uuid"
)

// Solution is a fully determined, scored assignment produced by a terminal
// step (spec.md §3). ID is stamped so diagnostic tooling and the cross
// product merge in SplitterStep can refer to a specific solution without
// aliasing on its contents.
type Solution struct {
	ID       uuid.UUID
	Bindings map[int]Type
	Score    Score
}

// NewSolution snapshots the current bindings of sys's type variables (only
// the ones that are bound) together with sys's current score.
func NewSolution(sys *ConstraintSystem) Solution {
	bindings := make(map[int]Type, len(sys.TypeVars))
	for id, tv := range sys.TypeVars {
		if tv.Bound != nil {
			bindings[id] = *tv.Bound
		}
	}
	return Solution{ID: uuid.New(), Bindings: bindings, Score: sys.Score}
}

// Merge combines independently-solved solutions (one per component in a
// SplitterStep cross product) into a single solution over the union of
// their bindings, with scores summed relative to a shared entry score.
func Merge(entry Score, parts ...Solution) Solution {
	merged := map[int]Type{}
	delta := Score{}
	for _, p := range parts {
		for id, t := range p.Bindings {
			merged[id] = t
		}
		// p.Score already includes the entry score baseline; fold in only
		// the portion each component contributed beyond it.
		contribution := make([]int, len(p.Score.Values))
		for i, v := range p.Score.Values {
			base := 0
			if i < len(entry.Values) {
				base = entry.Values[i]
			}
			contribution[i] = v - base
		}
		delta = delta.Add(Score{Values: contribution})
	}
	return Solution{ID: uuid.New(), Bindings: merged, Score: entry.Add(delta)}
}

// Filter keeps only the minimum-score solutions, unless retainAll requests
// diagnostic mode (§4.6), in which case every solution survives unchanged.
// Filter is stable (equal-scored survivors keep their relative order) and
// monotone (it never grows the set) — the two properties §8 Invariant 6
// requires: Filter(Filter(s)) == Filter(s) and Filter(s) is a subset of s.
func Filter(solutions []Solution, retainAll bool) []Solution {
	if retainAll || len(solutions) == 0 {
		out := make([]Solution, len(solutions))
		copy(out, solutions)
		return out
	}
	best := solutions[0].Score
	for _, s := range solutions[1:] {
		if s.Score.Compare(best) < 0 {
			best = s.Score
		}
	}
	out := make([]Solution, 0, len(solutions))
	for _, s := range solutions {
		if s.Score.Compare(best) == 0 {
			out = append(out, s)
		}
	}
	return out
}

// SortedByScore returns a stable, ascending-by-score copy, used by tests
// and by the CLI to present ranked solutions deterministically.
func SortedByScore(solutions []Solution) []Solution {
	out := slices.Clone(solutions)
	slices.SortStableFunc(out, func(a, b Solution) int { return a.Score.Compare(b.Score) })
	return out
}
