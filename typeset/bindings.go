package typeset

// PotentialBindings is a lazy, ordered producer over candidate bindings for
// a single type variable, per spec.md §3: "Iteration is lazy and
// restartable only in the sense that the producer stores its own cursor;
// once exhausted it is done." Candidates are supplied already ordered
// (direct bounds, then supertypes, then literal defaults); this type only
// tracks the cursor.
type PotentialBindings struct {
	candidates []Binding
	cursor     int
}

func NewPotentialBindings(candidates []Binding) *PotentialBindings {
	return &PotentialBindings{candidates: candidates}
}

// Next returns the next candidate and advances the cursor, or ok=false once
// exhausted.
func (p *PotentialBindings) Next() (b Binding, ok bool) {
	if p == nil || p.cursor >= len(p.candidates) {
		return Binding{}, false
	}
	b = p.candidates[p.cursor]
	p.cursor++
	return b, true
}

// Peek returns the next candidate without advancing the cursor.
func (p *PotentialBindings) Peek() (b Binding, ok bool) {
	if p == nil || p.cursor >= len(p.candidates) {
		return Binding{}, false
	}
	return p.candidates[p.cursor], true
}

// Remaining reports how many candidates are left, used by the
// most-constrained-variable ranking (fewest candidates first).
func (p *PotentialBindings) Remaining() int {
	if p == nil {
		return 0
	}
	return len(p.candidates) - p.cursor
}

// Exhausted reports whether every candidate has been produced.
func (p *PotentialBindings) Exhausted() bool {
	return p.Remaining() == 0
}

// Cursor and SetCursor let a Scope snapshot and restore the producer's
// position across backtracking, so a type variable reconsidered in a
// different branch after a rewind sees the same candidates it would have
// seen had the earlier, abandoned attempt never run.
func (p *PotentialBindings) Cursor() int {
	if p == nil {
		return 0
	}
	return p.cursor
}

func (p *PotentialBindings) SetCursor(c int) {
	if p == nil {
		return
	}
	p.cursor = c
}
