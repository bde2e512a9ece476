// Package cgraph is the reference implementation of the constraint-graph
// collaborator spec.md §6 names ("adjacency of type variables through
// constraints"). SplitterStep calls Components to partition the active
// constraint set before emitting one ComponentStep per partition.
package cgraph

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/xDarkicex/hmsolve/typeset"
)

// Component is a maximal set of constraints connected through shared free
// type variables (spec.md GLOSSARY), numbered by the smallest type
// variable ID it contains so SplitterStep can emit ComponentSteps in a
// stable order.
type Component struct {
	ID          int
	TypeVars    []int
	Constraints []*typeset.Constraint
}

// union-find over type variable IDs, local to one Components call.
type unionFind struct {
	parent map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: map[int]int{}}
}

func (u *unionFind) find(x int) int {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
	}
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// Components partitions active into connected components: two constraints
// share a component iff they share a free type variable. Constraints with
// no free type variables are returned separately as orphans, per spec.md
// §4.1 step 1.
//
// Both passes walk active directly, never a map, so that constraint order
// within a component is a deterministic function of input order: map
// iteration order is randomized in Go, and this function must not be, since
// spec.md requires identical inputs to yield identical solutions and trace.
func Components(active []*typeset.Constraint) (components []Component, orphans []*typeset.Constraint) {
	uf := newUnionFind()
	varsByConstraint := make([][]int, len(active))

	for i, c := range active {
		vars := c.FreeVars()
		varsByConstraint[i] = vars
		if len(vars) == 0 {
			orphans = append(orphans, c)
			continue
		}
		for j := 1; j < len(vars); j++ {
			uf.union(vars[0], vars[j])
		}
	}

	grouped := map[int][]*typeset.Constraint{}
	varsOf := map[int]map[int]bool{}
	var rootOrder []int
	seenRoot := map[int]bool{}
	for i, c := range active {
		vars := varsByConstraint[i]
		if len(vars) == 0 {
			continue
		}
		root := uf.find(vars[0])
		if !seenRoot[root] {
			seenRoot[root] = true
			rootOrder = append(rootOrder, root)
			varsOf[root] = map[int]bool{}
		}
		grouped[root] = append(grouped[root], c)
		for _, v := range vars {
			varsOf[root][v] = true
		}
	}

	roots := append([]int(nil), rootOrder...)
	sort.Ints(roots)

	components = make([]Component, 0, len(roots))
	for _, root := range roots {
		tvars := maps.Keys(varsOf[root])
		sort.Ints(tvars)
		cid := tvars[0]
		components = append(components, Component{
			ID:          cid,
			TypeVars:    tvars,
			Constraints: grouped[root],
		})
	}
	sort.Slice(components, func(i, j int) bool { return components[i].ID < components[j].ID })

	return components, orphans
}
