package typeset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestMergeCombinesBindingsAndDeltaScores(t *testing.T) {
	entry := Score{Values: []int{1}}
	a := Solution{Bindings: map[int]Type{1: Int}, Score: entry.Add(Score{Values: []int{0, 1}})}
	b := Solution{Bindings: map[int]Type{2: Float}, Score: entry.Add(Score{Values: []int{0, 2}})}

	merged := Merge(entry, a, b)

	assert.Equal(t, Int, merged.Bindings[1])
	assert.Equal(t, Float, merged.Bindings[2])
	assert.Equal(t, 0, merged.Score.Compare(entry.Add(Score{Values: []int{0, 3}})))

	want := Solution{Bindings: map[int]Type{1: Int, 2: Float}, Score: entry.Add(Score{Values: []int{0, 3}})}
	if diff := cmp.Diff(want, merged, cmpopts.IgnoreFields(Solution{}, "ID")); diff != "" {
		t.Errorf("merged solution mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterKeepsOnlyBestScore(t *testing.T) {
	solutions := []Solution{
		{Score: Score{Values: []int{2}}},
		{Score: Score{Values: []int{0}}},
		{Score: Score{Values: []int{0}}},
		{Score: Score{Values: []int{1}}},
	}

	filtered := Filter(solutions, false)
	assert.Len(t, filtered, 2)
	for _, s := range filtered {
		assert.Equal(t, 0, s.Score.Compare(Score{Values: []int{0}}))
	}

	// Filter is idempotent: filtering an already-filtered set changes nothing.
	assert.Equal(t, filtered, Filter(filtered, false))
}

func TestFilterRetainAllKeepsEverySolution(t *testing.T) {
	solutions := []Solution{
		{Score: Score{Values: []int{2}}},
		{Score: Score{Values: []int{0}}},
	}
	assert.Len(t, Filter(solutions, true), 2)
}

func TestFilterEmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, false))
	assert.Empty(t, Filter(nil, true))
}

func TestSortedByScoreIsStableAscending(t *testing.T) {
	a := Solution{Bindings: map[int]Type{0: Int}, Score: Score{Values: []int{1}}}
	b := Solution{Bindings: map[int]Type{1: Int}, Score: Score{Values: []int{0}}}
	c := Solution{Bindings: map[int]Type{2: Int}, Score: Score{Values: []int{0}}}

	sorted := SortedByScore([]Solution{a, b, c})
	assert.Equal(t, []Solution{b, c, a}, sorted, "equal scores keep relative input order")
}
