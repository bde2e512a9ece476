package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/hmsolve/typeset"
)

// countingSimplifier wraps BasicSimplifier to count ApplyChoice calls per
// disjunction, so tests can assert on how many alternatives were actually
// attempted rather than just on the final solution set.
type countingSimplifier struct {
	*typeset.BasicSimplifier
	choices int
	byDisj  map[int]int
}

func (c *countingSimplifier) ApplyChoice(sys *typeset.ConstraintSystem, d *typeset.Constraint, idx int) error {
	c.choices++
	if c.byDisj == nil {
		c.byDisj = map[int]int{}
	}
	c.byDisj[d.ID]++
	return c.BasicSimplifier.ApplyChoice(sys, d, idx)
}

func intFloatAlts(binds int) []typeset.Alternative {
	b := binds
	return []typeset.Alternative{
		{Decl: "int+int->int", Binds: &b, Target: typeset.Int},
		{Decl: "float+float->float", Binds: &b, Target: typeset.Float},
	}
}

// S3 (spec.md §8): a chained operator where two disjunctions resolve the
// same type variable. Exploring both of the first disjunction's
// alternatives is still correct (each can yield its own solution), but for
// each branch pruneOverloadSet must disable the second disjunction's
// mismatched alternative so it is only ever attempted once per branch
// (total ApplyChoice calls against the second disjunction <= 2, not the
// naive 2x2 = 4 a fully independent exploration would try per spec.md §8).
func TestSolveS3ChainedOverloadPruningLimitsExploredChoices(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const tID = 0
	sys.AddTypeVariable(typeset.NewTypeVariable(tID, nil))

	d1 := &typeset.Constraint{Kind: typeset.DisjunctionKind, Alternatives: intFloatAlts(tID)}
	d2 := &typeset.Constraint{Kind: typeset.DisjunctionKind, Alternatives: intFloatAlts(tID)}
	sys.AddConstraint(d1)
	sys.AddConstraint(d2)

	simp := &countingSimplifier{BasicSimplifier: newSimplifier()}
	result, err := Solve(sys, simp, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Complete, result.Status)
	require.Len(t, result.Solutions, 2, "both int+int and float+float branches of the first disjunction solve")
	assert.LessOrEqual(t, simp.byDisj[d2.ID], 2, "pruneOverloadSet must stop the second disjunction from retrying its mismatched alternative in each branch")

	seen := map[string]bool{}
	for _, sol := range result.Solutions {
		seen[sol.Bindings[tID].Name] = true
	}
	assert.True(t, seen["Int"] && seen["Float"], "both consistent branches must survive")
}

// Without a prior resolution to prune against, pruneOverloadSet is a
// no-op: a single disjunction with a not-yet-bound Binds variable explores
// every enabled alternative normally.
func TestPruneOverloadSetIsNoopWithoutPriorResolution(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const tID = 0
	sys.AddTypeVariable(typeset.NewTypeVariable(tID, nil))
	d := &typeset.Constraint{Kind: typeset.DisjunctionKind, Alternatives: intFloatAlts(tID)}
	sys.AddConstraint(d)

	ds := newDisjunctionStep(sys, newSimplifier(), DefaultConfig(), d, &[]typeset.Solution{})
	require.NoError(t, ds.setup())
	assert.Empty(t, ds.prunedIdxs)
	assert.Equal(t, 2, d.EnabledCount())
}

// shouldShortCircuitAt (spec.md §4.5): once a non-generic alternative has
// solved, a remaining generic alternative whose best possible score
// (entry plus the fixed generic penalty) cannot beat it is skipped
// without ever being attempted.
func TestDisjunctionShortCircuitSkipsUnreachableGeneric(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const tID = 0
	sys.AddTypeVariable(typeset.NewTypeVariable(tID, nil))
	binds := tID
	d := &typeset.Constraint{
		Kind: typeset.DisjunctionKind,
		Alternatives: []typeset.Alternative{
			{Decl: "int+int->int", Binds: &binds, Target: typeset.Int},
			{Decl: "generic T+T->T", Binds: &binds, Target: typeset.Int, Generic: true},
		},
	}
	sys.AddConstraint(d)

	simp := &countingSimplifier{BasicSimplifier: newSimplifier()}
	result, err := Solve(sys, simp, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Complete, result.Status)
	assert.Equal(t, 1, simp.choices, "the generic alternative must be short-circuited, never attempted")
	require.Len(t, result.Solutions, 1)
	assert.Equal(t, 0, result.Solutions[0].Score.Compare(typeset.Score{}))
}
