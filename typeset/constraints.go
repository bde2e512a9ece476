package typeset

// ConstraintKind discriminates the four constraint shapes spec.md §3 names.
type ConstraintKind int

const (
	Equality ConstraintKind = iota
	Conformance
	OverloadBinding
	DisjunctionKind
)

func (k ConstraintKind) String() string {
	switch k {
	case Equality:
		return "equality"
	case Conformance:
		return "conformance"
	case OverloadBinding:
		return "overload_binding"
	case DisjunctionKind:
		return "disjunction"
	default:
		return "unknown"
	}
}

// Alternative is one nested, individually enablable choice inside a
// disjunction constraint, e.g. one overload of `+`.
type Alternative struct {
	// Decl names the declaration this alternative binds to, used by
	// pruneOverloadSet to compare alternatives across chained disjunctions
	// resolving the same operator.
	Decl string
	// Generic marks an alternative as a generic (template) overload, which
	// DisjunctionStep penalizes but does not forbid.
	Generic bool
	// Binds, if non-nil, is the type variable this alternative resolves
	// when chosen (so OverloadBinding can be recorded).
	Binds *int
	// Target, if Binds is set, is the type the alternative binds Binds to.
	Target Type
	// Nested holds the alternative's own sub-constraints (e.g. operand
	// type equalities), added to the active set only while this
	// alternative is the one being attempted.
	Nested []*Constraint
}

// Constraint is a single typing relation. Exactly one of the kind-specific
// fields is meaningful, selected by Kind.
type Constraint struct {
	ID   int
	Kind ConstraintKind

	// Equality / Conformance
	Left  int // type variable ID; -1 if Right carries a ground type only
	Right int // type variable ID; -1 if RightType carries a ground type

	LeftType  *Type
	RightType *Type

	// OverloadBinding
	Var  int
	Decl string

	// DisjunctionKind
	Alternatives []Alternative
	// Disabled marks alternatives temporarily excluded by pruneOverloadSet.
	Disabled []bool
}

// FreeVars returns the type-variable IDs this constraint mentions, used by
// the constraint graph to compute connected components.
func (c *Constraint) FreeVars() []int {
	switch c.Kind {
	case Equality, Conformance:
		var out []int
		if c.Left >= 0 {
			out = append(out, c.Left)
		}
		if c.Right >= 0 {
			out = append(out, c.Right)
		}
		return out
	case OverloadBinding:
		return []int{c.Var}
	case DisjunctionKind:
		seen := map[int]bool{}
		var out []int
		for _, alt := range c.Alternatives {
			if alt.Binds != nil && !seen[*alt.Binds] {
				seen[*alt.Binds] = true
				out = append(out, *alt.Binds)
			}
			for _, n := range alt.Nested {
				for _, v := range n.FreeVars() {
					if !seen[v] {
						seen[v] = true
						out = append(out, v)
					}
				}
			}
		}
		return out
	default:
		return nil
	}
}

// EnabledCount returns the number of alternatives not currently disabled,
// used by ComponentStep's disjunction-ordering heuristic ("fewer
// alternatives first").
func (c *Constraint) EnabledCount() int {
	n := 0
	for i := range c.Alternatives {
		if i >= len(c.Disabled) || !c.Disabled[i] {
			n++
		}
	}
	return n
}
