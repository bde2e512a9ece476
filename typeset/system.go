package typeset

// OverloadChoice is one entry in the resolved-overload history: a record
// that a disjunction chose a particular declaration for a particular type
// variable. The history is a singly linked list per spec.md §3 so
// DisjunctionStep's pruneOverloadSet can walk backward from the most
// recent resolution without the constraint system exposing a mutable slice
// that a nested scope would need to snapshot wholesale.
type OverloadChoice struct {
	Var  int
	Decl string
	Prev *OverloadChoice
}

// ConstraintSystem is the shared mutable context every step reads and
// mutates: the active constraint list, the set of type variables, the
// cumulative score, and the resolved-overload history (spec.md §3).
type ConstraintSystem struct {
	Active       []*Constraint
	Orphaned     []*Constraint
	TypeVars     map[int]*TypeVariable
	Score        Score
	Resolved     *OverloadChoice
	nextConstrID int
}

// NewConstraintSystem builds an empty system ready to receive constraints
// and type variables.
func NewConstraintSystem() *ConstraintSystem {
	return &ConstraintSystem{
		TypeVars: make(map[int]*TypeVariable),
	}
}

// AddTypeVariable registers tv with the system.
func (s *ConstraintSystem) AddTypeVariable(tv *TypeVariable) {
	s.TypeVars[tv.ID] = tv
}

// AddConstraint appends c to the active list, stamping a stable ID if one
// was not already assigned.
func (s *ConstraintSystem) AddConstraint(c *Constraint) {
	if c.ID == 0 {
		s.nextConstrID++
		c.ID = s.nextConstrID
	}
	s.Active = append(s.Active, c)
}

// RemoveConstraint removes c from the active list by identity, returning
// the index it was found at (or -1), so a caller can reinsert it at the
// same position later (DisjunctionStep's destructor relies on this).
func (s *ConstraintSystem) RemoveConstraint(c *Constraint) int {
	for i, a := range s.Active {
		if a == c {
			s.Active = append(s.Active[:i], s.Active[i+1:]...)
			return i
		}
	}
	return -1
}

// InsertConstraintAt reinserts c at position idx, clamped to the current
// length of the active list.
func (s *ConstraintSystem) InsertConstraintAt(c *Constraint, idx int) {
	if idx < 0 || idx > len(s.Active) {
		idx = len(s.Active)
	}
	s.Active = append(s.Active, nil)
	copy(s.Active[idx+1:], s.Active[idx:])
	s.Active[idx] = c
}

// SetOrphanedConstraints replaces the orphan set, per the constraint-graph
// collaborator interface in spec.md §6.
func (s *ConstraintSystem) SetOrphanedConstraints(cs []*Constraint) {
	s.Orphaned = cs
}

// Representative follows the union-find chain for id to its root variable.
func (s *ConstraintSystem) Representative(id int) *TypeVariable {
	tv, ok := s.TypeVars[id]
	if !ok {
		return nil
	}
	for tv.Representative != tv.ID {
		next, ok := s.TypeVars[tv.Representative]
		if !ok {
			break
		}
		tv = next
	}
	return tv
}

// PushOverload records a new resolved-overload history entry and returns
// the new head; callers restore Resolved to the prior head on scope
// rewind rather than mutating this node, keeping the history's earlier
// entries immutable.
func (s *ConstraintSystem) PushOverload(varID int, decl string) *OverloadChoice {
	entry := &OverloadChoice{Var: varID, Decl: decl, Prev: s.Resolved}
	s.Resolved = entry
	return entry
}
