package typeset

import (
	"fmt"

	"github.com/go-logr/logr"
)

// Outcome is the three-way result ComponentStep needs from simplifying a
// whole component in one pass (spec.md §4.3).
type Outcome int

const (
	OutcomeSolved Outcome = iota
	OutcomeContradiction
	OutcomeUnsolved
)

// Simplifier is the external collaborator spec.md §6 calls "the
// simplifier": simplify/applyBinding/applyChoice. spec.md treats its
// internals as out of scope; this interface is the seam the step machine
// programs against, and BasicSimplifier below is a small reference
// implementation sufficient to drive spec.md §8's end-to-end scenarios.
type Simplifier interface {
	// SimplifyAll reduces every constraint in active once and sets
	// sys.Active to the constraints still pending. BasicSimplifier binds no
	// type variable here, not even one an equality with a bound variable
	// would force; it never makes a binding choice among several candidates
	// either; that is TypeVariableStep's and DisjunctionStep's job.
	SimplifyAll(sys *ConstraintSystem, active []*Constraint) (Outcome, error)
	// ApplyBinding commits a candidate binding for tv, recording an
	// overload history entry when source indicates an overload
	// resolution. Returns an error (typically a *core.SolverError with
	// Kind Contradiction) if the binding is inconsistent with tv's
	// existing constraints.
	ApplyBinding(sys *ConstraintSystem, tv *TypeVariable, b Binding) error
	// ApplyChoice commits one disjunction alternative: binds its target,
	// records the overload resolution, and adds the alternative's nested
	// constraints to the active set. It does not disable the sibling
	// alternatives.
	ApplyChoice(sys *ConstraintSystem, d *Constraint, altIndex int) error
}

// BasicSimplifier implements Simplifier over the toy type lattice used by
// this module's tests and the toylang demo DSL: Int, Float, String, Bool,
// plus whatever generic type constructors callers register subtype edges
// for. It has no unification beyond direct/representative equality and a
// caller-supplied subtype table; it exists to exercise the step machine,
// not to check a real language.
type BasicSimplifier struct {
	log logr.Logger
	// Subtypes maps a type name to the set of type names it is a direct
	// subtype of (Int <: Float, say). Conformance constraints walk this
	// table; Equality constraints ignore it.
	Subtypes map[string][]string
}

func NewBasicSimplifier(log logr.Logger) *BasicSimplifier {
	return &BasicSimplifier{log: log, Subtypes: map[string][]string{}}
}

func (b *BasicSimplifier) isSubtype(sub, super Type) bool {
	if sub.Equal(super) {
		return true
	}
	for _, s := range b.Subtypes[sub.Name] {
		if b.isSubtype(Type{Name: s}, super) {
			return true
		}
	}
	return false
}

func (b *BasicSimplifier) resolvedType(sys *ConstraintSystem, side int, ground *Type) (*Type, bool) {
	if ground != nil {
		return ground, true
	}
	tv := sys.Representative(side)
	if tv == nil || tv.Bound == nil {
		return nil, false
	}
	return tv.Bound, true
}

func (b *BasicSimplifier) SimplifyAll(sys *ConstraintSystem, active []*Constraint) (Outcome, error) {
	remaining := make([]*Constraint, 0, len(active))
	for _, c := range active {
		done, err := b.simplifyOne(sys, c)
		if err != nil {
			return OutcomeContradiction, err
		}
		if !done {
			remaining = append(remaining, c)
		}
	}
	sys.Active = remaining
	if len(remaining) == 0 {
		return OutcomeSolved, nil
	}
	// Progress may or may not have been made (some constraints reduced);
	// either way the component isn't fully reduced yet. The caller
	// (ComponentStep) decides what work unit to try next; it also decides
	// whether "no constraints left" actually means "every variable is
	// bound", since that check spans variables this pass never touched.
	return OutcomeUnsolved, nil
}

// simplifyOne reduces a single constraint, returning done=true if it can
// be dropped from the active list (satisfied), or an error on
// contradiction.
func (b *BasicSimplifier) simplifyOne(sys *ConstraintSystem, c *Constraint) (bool, error) {
	switch c.Kind {
	case Equality:
		lt, lok := b.resolvedType(sys, c.Left, c.LeftType)
		rt, rok := b.resolvedType(sys, c.Right, c.RightType)
		if !lok || !rok {
			return false, nil
		}
		if !lt.Equal(*rt) {
			return false, fmt.Errorf("%s != %s", lt, rt)
		}
		return true, nil
	case Conformance:
		lt, lok := b.resolvedType(sys, c.Left, c.LeftType)
		rt, rok := b.resolvedType(sys, c.Right, c.RightType)
		if !lok || !rok {
			return false, nil
		}
		if !b.isSubtype(*lt, *rt) {
			return false, fmt.Errorf("%s does not conform to %s", lt, rt)
		}
		return true, nil
	case OverloadBinding:
		tv := sys.Representative(c.Var)
		return tv != nil && tv.Bound != nil, nil
	default:
		return false, nil
	}
}

func (b *BasicSimplifier) ApplyBinding(sys *ConstraintSystem, tv *TypeVariable, bind Binding) error {
	root := sys.Representative(tv.ID)
	if root == nil {
		root = tv
	}
	if root.Bound != nil {
		if !root.Bound.Equal(bind.Type) {
			return fmt.Errorf("variable %s already bound to %s, cannot bind to %s", root, root.Bound, bind.Type)
		}
		return nil
	}
	t := bind.Type
	root.Bound = &t
	b.log.V(1).Info("applied binding", "var", root.ID, "type", t.String(), "source", bind.Source.String())
	return nil
}

func (b *BasicSimplifier) ApplyChoice(sys *ConstraintSystem, d *Constraint, altIndex int) error {
	if altIndex < 0 || altIndex >= len(d.Alternatives) {
		return fmt.Errorf("choice index %d out of range", altIndex)
	}
	alt := d.Alternatives[altIndex]
	if alt.Binds != nil {
		tv := sys.Representative(*alt.Binds)
		if tv == nil {
			return fmt.Errorf("disjunction binds unknown variable %d", *alt.Binds)
		}
		source := Direct
		if err := b.ApplyBinding(sys, tv, Binding{Type: alt.Target, Source: source}); err != nil {
			return err
		}
		sys.PushOverload(*alt.Binds, alt.Decl)
	}
	for _, n := range alt.Nested {
		sys.AddConstraint(n)
	}
	return nil
}
