package step

import (
	"github.com/google/uuid"

	"github.com/xDarkicex/hmsolve/typeset"
)

// tvSnapshot is the pre-mutation state of one type variable tracked by a
// Scope.
type tvSnapshot struct {
	bound  *typeset.Type
	rep    int
	cursor int
}

// Scope is a transactional record of mutations to the constraint system
// (spec.md §3/§5): on creation it snapshots the mutation-sensitive state a
// step is about to touch; on Close it restores exactly that state,
// regardless of what happened while the scope was live. Scopes nest
// strictly LIFO — each step that opens one owns it exclusively and closes
// it before its own Drop returns, so live scopes at any moment form a
// stack ordered by construction time (§8 Invariant 3).
type Scope struct {
	token uuid.UUID
	sys   *typeset.ConstraintSystem

	tvIDs     []int
	tvBefore  map[int]tvSnapshot
	active    []*typeset.Constraint
	orphaned  []*typeset.Constraint
	resolved  *typeset.OverloadChoice
	score     typeset.Score
	closed    bool
}

// OpenScope snapshots sys's active/orphaned constraint lists, score, and
// resolved-overload history, plus the Bound/Representative of every type
// variable named in trackVars. trackVars should name exactly the
// variables the caller is about to mutate (spec.md §3: "a subset of type
// variables"); every other field of sys is captured in full because, once
// an enclosing ComponentStep scope has already narrowed sys.Active to one
// component, a full copy of that narrowed list is cheap and exactly as
// precise as a hand-tracked diff would be.
func OpenScope(sys *typeset.ConstraintSystem, trackVars []int) *Scope {
	s := &Scope{
		token:    uuid.New(),
		sys:      sys,
		tvIDs:    append([]int(nil), trackVars...),
		tvBefore: make(map[int]tvSnapshot, len(trackVars)),
		active:   append([]*typeset.Constraint(nil), sys.Active...),
		orphaned: append([]*typeset.Constraint(nil), sys.Orphaned...),
		resolved: sys.Resolved,
		score:    sys.Score,
	}
	for _, id := range trackVars {
		tv, ok := sys.TypeVars[id]
		if !ok {
			continue
		}
		s.tvBefore[id] = tvSnapshot{bound: tv.Bound, rep: tv.Representative, cursor: tv.Bindings.Cursor()}
	}
	return s
}

// Token identifies this scope for tracing.
func (s *Scope) Token() uuid.UUID { return s.token }

// Close restores every snapshotted field. It is idempotent: closing an
// already-closed scope is a no-op, since a step's Drop may call Close
// defensively after an early return already closed it.
func (s *Scope) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.sys.Active = s.active
	s.sys.Orphaned = s.orphaned
	s.sys.Resolved = s.resolved
	s.sys.Score = s.score
	for _, id := range s.tvIDs {
		tv, ok := s.sys.TypeVars[id]
		if !ok {
			continue
		}
		snap := s.tvBefore[id]
		tv.Bound = snap.bound
		tv.Representative = snap.rep
		tv.Bindings.SetCursor(snap.cursor)
	}
}
