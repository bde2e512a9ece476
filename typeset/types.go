// Package typeset is the reference implementation of the step machine's
// external collaborators: the constraint system, its constraints, type
// variables, bindings, and scores. spec.md keeps these out of scope
// ("external collaborators, interfaces only"); this package supplies a
// small but real implementation so the step machine in package step is
// buildable and testable end to end.
package typeset

import "fmt"

// Type is a concrete (possibly generic) type. Name identifies a nominal
// type ("Int", "Float", "List"); Args carries type arguments for generics
// ("List" with one Arg is List<T>). A Type with no Args is a ground type.
type Type struct {
	Name string
	Args []Type
}

func (t Type) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	s := t.Name + "<"
	for i, a := range t.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ">"
}

// Equal reports structural equality of two types.
func (t Type) Equal(o Type) bool {
	if t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

var (
	Int    = Type{Name: "Int"}
	Float  = Type{Name: "Float"}
	String = Type{Name: "String"}
	Bool   = Type{Name: "Bool"}
)

// BindingSource is the provenance of a candidate binding, used by
// TypeVariableStep to order attempts and to apply the literal-default
// early-exit rule from spec.md §4.4.
type BindingSource int

const (
	// Direct is a subtype bound declared directly on the type variable.
	Direct BindingSource = iota
	// Supertype is a bound reached by widening past a direct bound.
	Supertype
	// LiteralDefault is a last-resort default (e.g. untyped int literals
	// default to Int). Tried only after every Direct/Supertype candidate
	// has failed, and never tried at all once an earlier candidate solved.
	LiteralDefault
)

func (s BindingSource) String() string {
	switch s {
	case Direct:
		return "direct"
	case Supertype:
		return "supertype"
	case LiteralDefault:
		return "literal_default"
	default:
		return "unknown"
	}
}

// Binding pairs a candidate Type with its provenance.
type Binding struct {
	Type   Type
	Source BindingSource
}

// TypeVariable is a unification variable. Representative implements
// union-find: Representative == ID means this variable is its own root.
// Bound is set once a binding has been committed by ApplyBinding.
type TypeVariable struct {
	ID             int
	Representative int
	Bound          *Type
	Bindings       *PotentialBindings
	LiteralDefault *Type
}

func NewTypeVariable(id int, candidates []Binding) *TypeVariable {
	return &TypeVariable{
		ID:             id,
		Representative: id,
		Bindings:       NewPotentialBindings(candidates),
	}
}

func (tv *TypeVariable) String() string {
	return fmt.Sprintf("T%d", tv.ID)
}

// IsRoot reports whether this variable is its own union-find representative.
func (tv *TypeVariable) IsRoot() bool {
	return tv.Representative == tv.ID
}
