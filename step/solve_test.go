package step

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/hmsolve/internal/obslog"
	"github.com/xDarkicex/hmsolve/typeset"
)

func newSimplifier() *typeset.BasicSimplifier {
	return typeset.NewBasicSimplifier(obslog.Discard())
}

// S1 (spec.md §8): T <: Int|Float, U <: Int, T == U. The only consistent
// binding is T=Int, U=Int; T=Float fails the equality and contributes no
// solution.
func TestSolveS1EqualityAcrossTwoVariables(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const tID, uID = 0, 1
	sys.AddTypeVariable(typeset.NewTypeVariable(tID, []typeset.Binding{
		{Type: typeset.Int, Source: typeset.Direct},
		{Type: typeset.Float, Source: typeset.Direct},
	}))
	sys.AddTypeVariable(typeset.NewTypeVariable(uID, []typeset.Binding{
		{Type: typeset.Int, Source: typeset.Direct},
	}))
	sys.AddConstraint(&typeset.Constraint{Kind: typeset.Equality, Left: tID, Right: uID})

	result, err := Solve(sys, newSimplifier(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Complete, result.Status)
	require.Len(t, result.Solutions, 1)
	assert.Equal(t, typeset.Int, result.Solutions[0].Bindings[tID])
	assert.Equal(t, typeset.Int, result.Solutions[0].Bindings[uID])
}

// S2 (spec.md §8): two unrelated variables each independently bound to
// Int|String, no cross-constraint. The splitter must produce two
// components and cross-merge 2x2 = 4 solutions, all equal score, all
// surviving the minimize filter.
//
// Each variable needs at least one constraint mentioning it for cgraph to
// place it in a component at all; an OverloadBinding constraint (satisfied
// once its variable is bound, per simplify.go) is the minimal such tie and
// does not itself constrain which candidate is chosen.
func TestSolveS2IndependentComponentsCrossMerge(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const aID, bID = 0, 1
	sys.AddTypeVariable(typeset.NewTypeVariable(aID, []typeset.Binding{
		{Type: typeset.Int, Source: typeset.Direct},
		{Type: typeset.String, Source: typeset.Direct},
	}))
	sys.AddTypeVariable(typeset.NewTypeVariable(bID, []typeset.Binding{
		{Type: typeset.Int, Source: typeset.Direct},
		{Type: typeset.String, Source: typeset.Direct},
	}))
	sys.AddConstraint(&typeset.Constraint{Kind: typeset.OverloadBinding, Var: aID})
	sys.AddConstraint(&typeset.Constraint{Kind: typeset.OverloadBinding, Var: bID})

	result, err := Solve(sys, newSimplifier(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Complete, result.Status)
	require.Len(t, result.Solutions, 4)

	seen := map[[2]string]bool{}
	for _, sol := range result.Solutions {
		key := [2]string{sol.Bindings[aID].Name, sol.Bindings[bID].Name}
		seen[key] = true
		assert.Equal(t, 0, sol.Score.Compare(typeset.Score{}), "every solution should be equal (zero) score")
	}
	assert.Len(t, seen, 4, "all four combinations of {Int,String}x{Int,String} must appear")
}

// S4 (spec.md §8): a literal-default candidate is only attempted once every
// earlier-priority candidate has failed, and is never attempted at all once
// an earlier one has already produced a solution.
func TestSolveS4LiteralDefaultSkippedAfterEarlierSuccess(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const tID, uID = 0, 1
	sys.AddTypeVariable(typeset.NewTypeVariable(tID, []typeset.Binding{
		{Type: typeset.Int, Source: typeset.Direct},
		{Type: typeset.String, Source: typeset.Direct},
		{Type: typeset.Int, Source: typeset.LiteralDefault},
	}))
	sys.AddTypeVariable(typeset.NewTypeVariable(uID, []typeset.Binding{
		{Type: typeset.Int, Source: typeset.Direct},
	}))
	sys.AddConstraint(&typeset.Constraint{Kind: typeset.Equality, Left: tID, Right: uID})

	result, err := Solve(sys, newSimplifier(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Complete, result.Status)
	require.Len(t, result.Solutions, 1, "the Direct Int candidate solves; String fails and the literal default is never tried")
	assert.Equal(t, typeset.Int, result.Solutions[0].Bindings[tID])
	assert.Equal(t, 0, result.Solutions[0].Score.Compare(typeset.Score{}), "a Direct-sourced solution must not carry the literal-default penalty")
}

// S4 continued: when every non-default candidate fails, the literal
// default is attempted and, if it applies, produces the sole solution at a
// penalized score.
func TestSolveS4LiteralDefaultUsedWhenEarlierCandidatesFail(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const tID, uID = 0, 1
	sys.AddTypeVariable(typeset.NewTypeVariable(tID, []typeset.Binding{
		{Type: typeset.String, Source: typeset.Direct},
		{Type: typeset.Int, Source: typeset.LiteralDefault},
	}))
	sys.AddTypeVariable(typeset.NewTypeVariable(uID, []typeset.Binding{
		{Type: typeset.Int, Source: typeset.Direct},
	}))
	sys.AddConstraint(&typeset.Constraint{Kind: typeset.Equality, Left: tID, Right: uID})

	result, err := Solve(sys, newSimplifier(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Complete, result.Status)
	require.Len(t, result.Solutions, 1)
	assert.Equal(t, typeset.Int, result.Solutions[0].Bindings[tID])
	assert.True(t, result.Solutions[0].Score.Compare(typeset.Score{}) > 0, "the literal-default solution must be penalized relative to a Direct one")
}

// S5 (spec.md §8): a MaxSteps budget of 1 stops the driver before any
// progress is made; Solve reports Incomplete rather than Complete or
// Failed, and the buffer is empty.
func TestSolveS5BudgetExceededYieldsIncomplete(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const tID = 0
	sys.AddTypeVariable(typeset.NewTypeVariable(tID, []typeset.Binding{
		{Type: typeset.Int, Source: typeset.Direct},
	}))
	sys.AddConstraint(&typeset.Constraint{Kind: typeset.OverloadBinding, Var: tID})

	cfg := DefaultConfig()
	cfg.MaxSteps = 1
	result, err := Solve(sys, newSimplifier(), cfg)
	require.NoError(t, err)
	assert.Equal(t, Incomplete, result.Status)
	assert.Empty(t, result.Solutions)
}

// A deadline already in the past behaves the same way: the driver
// checks the budget before its very first step.
func TestSolveDeadlineAlreadyPassedYieldsIncomplete(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const tID = 0
	sys.AddTypeVariable(typeset.NewTypeVariable(tID, []typeset.Binding{
		{Type: typeset.Int, Source: typeset.Direct},
	}))
	sys.AddConstraint(&typeset.Constraint{Kind: typeset.OverloadBinding, Var: tID})

	cfg := DefaultConfig()
	cfg.Deadline = time.Now().Add(-time.Hour)
	result, err := Solve(sys, newSimplifier(), cfg)
	require.NoError(t, err)
	assert.Equal(t, Incomplete, result.Status)
}

// S6 (spec.md §8): a disjunction none of whose alternatives can apply
// cascades Error up through DisjunctionStep -> ComponentStep -> SplitterStep,
// and Solve reports Failed with no error and no solutions.
func TestSolveS6ContradictoryDisjunctionCascadesToFailed(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	const rID = 0
	sys.AddTypeVariable(typeset.NewTypeVariable(rID, nil))

	binds := rID
	sys.AddConstraint(&typeset.Constraint{
		Kind: typeset.DisjunctionKind,
		Alternatives: []typeset.Alternative{
			{Decl: "int+int->int", Binds: &binds, Target: typeset.Int},
			{Decl: "float+float->float", Binds: &binds, Target: typeset.Float},
		},
	})
	// Force both alternatives to conflict with an existing binding so
	// neither can ever apply.
	bound := typeset.String
	sys.TypeVars[rID].Bound = &bound

	result, err := Solve(sys, newSimplifier(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Failed, result.Status)
	assert.Empty(t, result.Solutions)
}

// Boundary case (spec.md §8): zero constraints yields exactly one trivial
// solution (the empty binding set).
func TestSolveZeroConstraintsYieldsOneTrivialSolution(t *testing.T) {
	sys := typeset.NewConstraintSystem()
	result, err := Solve(sys, newSimplifier(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Complete, result.Status)
	require.Len(t, result.Solutions, 1)
	assert.Empty(t, result.Solutions[0].Bindings)
}

// Round-trip/idempotence (spec.md §8): solving the same system twice from
// scratch yields identical solution sets and scores.
func TestSolveIsDeterministicAcrossRuns(t *testing.T) {
	build := func() *typeset.ConstraintSystem {
		sys := typeset.NewConstraintSystem()
		const aID, bID, cID = 0, 1, 2
		sys.AddTypeVariable(typeset.NewTypeVariable(aID, []typeset.Binding{
			{Type: typeset.Int, Source: typeset.Direct},
			{Type: typeset.String, Source: typeset.Direct},
		}))
		sys.AddTypeVariable(typeset.NewTypeVariable(bID, []typeset.Binding{
			{Type: typeset.Int, Source: typeset.Direct},
			{Type: typeset.String, Source: typeset.Direct},
		}))
		sys.AddTypeVariable(typeset.NewTypeVariable(cID, []typeset.Binding{
			{Type: typeset.Int, Source: typeset.Direct},
		}))
		sys.AddConstraint(&typeset.Constraint{Kind: typeset.Equality, Left: aID, Right: cID})
		sys.AddConstraint(&typeset.Constraint{Kind: typeset.OverloadBinding, Var: bID})
		return sys
	}

	first, err := Solve(build(), newSimplifier(), DefaultConfig())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		next, err := Solve(build(), newSimplifier(), DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, first.Status, next.Status)
		require.Len(t, next.Solutions, len(first.Solutions))
		for j := range first.Solutions {
			assert.Equal(t, first.Solutions[j].Bindings, next.Solutions[j].Bindings)
			assert.Equal(t, 0, first.Solutions[j].Score.Compare(next.Solutions[j].Score))
		}
	}
}
