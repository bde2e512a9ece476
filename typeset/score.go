package typeset

// Score is a totally ordered tuple; lower is preferred. Values are summed
// component-wise and compared lexicographically, matching spec.md §3's
// "totally ordered tuple" description and the monotonic-score invariant
// (§8 Invariant 5): every delta applied by a step must be >= the zero
// score, so accumulation along any root-to-leaf path never decreases.
type Score struct {
	Values []int
}

// Zero is the identity score: the entry score of the top-level solve.
func Zero() Score {
	return Score{}
}

// Add returns a new score with delta applied component-wise, padding the
// shorter of the two tuples with zeros.
func (s Score) Add(delta Score) Score {
	n := len(s.Values)
	if len(delta.Values) > n {
		n = len(delta.Values)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(s.Values) {
			a = s.Values[i]
		}
		if i < len(delta.Values) {
			b = delta.Values[i]
		}
		out[i] = a + b
	}
	return Score{Values: out}
}

// Compare returns -1, 0, or 1 as s is less than, equal to, or greater than
// o, comparing lexicographically and treating a missing trailing component
// as zero.
func (s Score) Compare(o Score) int {
	n := len(s.Values)
	if len(o.Values) > n {
		n = len(o.Values)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(s.Values) {
			a = s.Values[i]
		}
		if i < len(o.Values) {
			b = o.Values[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports s.Compare(o) < 0, for use with slices.SortFunc.
func (s Score) Less(o Score) bool {
	return s.Compare(o) < 0
}

// GenericPenalty is the fixed per-choice penalty charged against a generic
// disjunction alternative (spec.md §4.5's "generics are penalized but not
// forbidden"). It is the comparison baseline shouldShortCircuitAt uses: a
// non-generic solved score beats any generic alternative whose own delta
// could not overcome this penalty.
var GenericPenalty = Score{Values: []int{1}}
