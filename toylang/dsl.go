package toylang

import (
	"fmt"
	"io"

	"github.com/xDarkicex/hmsolve/typeset"
)

// Load reads a toylang program and compiles it into a constraint system
// ready to hand to step.Solve. This is the package's only entry point most
// callers need; ParseSource/Decl are exposed for callers that want the
// parsed declarations without compiling them.
func Load(r io.Reader) (*typeset.ConstraintSystem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("toylang: read: %w", err)
	}
	decls, err := ParseSource(string(data))
	if err != nil {
		return nil, fmt.Errorf("toylang: %w", err)
	}
	sys, err := compile(decls)
	if err != nil {
		return nil, fmt.Errorf("toylang: %w", err)
	}
	return sys, nil
}

// LoadString is Load for callers (tests, the CLI's -e flag) that already
// hold the source in memory.
func LoadString(src string) (*typeset.ConstraintSystem, error) {
	decls, err := ParseSource(src)
	if err != nil {
		return nil, fmt.Errorf("toylang: %w", err)
	}
	sys, err := compile(decls)
	if err != nil {
		return nil, fmt.Errorf("toylang: %w", err)
	}
	return sys, nil
}

func compile(decls []Decl) (*typeset.ConstraintSystem, error) {
	sys := typeset.NewConstraintSystem()
	ids := map[string]int{}
	boundTypes := map[string][]string{}
	nextID := 0

	for _, d := range decls {
		if d.Kind != DeclTypevar {
			continue
		}
		if _, exists := ids[d.Name]; exists {
			return nil, fmt.Errorf("type variable %q declared twice", d.Name)
		}
		ids[d.Name] = nextID
		nextID++
	}

	resolve := func(name string) (int, error) {
		id, ok := ids[name]
		if !ok {
			return 0, fmt.Errorf("reference to undeclared type variable %q", name)
		}
		return id, nil
	}

	for _, d := range decls {
		if d.Kind != DeclBound {
			continue
		}
		if _, err := resolve(d.Var); err != nil {
			return nil, err
		}
		boundTypes[d.Var] = append(boundTypes[d.Var], d.Types...)
	}

	for name, id := range ids {
		var candidates []typeset.Binding
		for _, tn := range boundTypes[name] {
			candidates = append(candidates, typeset.Binding{Type: namedType(tn), Source: typeset.Direct})
		}
		sys.AddTypeVariable(typeset.NewTypeVariable(id, candidates))
	}

	for _, d := range decls {
		switch d.Kind {
		case DeclTypevar:
			// Tie every declared variable into the constraint graph with an
			// OverloadBinding{Var: id}, satisfied the moment the variable is
			// bound and never itself constraining which candidate is chosen
			// (typeset/simplify.go's simplifyOne). Without this, a variable
			// declared only via `bound` and never named by an `equal` or
			// `disjunction` would have no constraint mentioning it, so
			// cgraph.Components would never place it in a component and its
			// candidates would never be tried. Emitted in declaration order
			// (not by ranging over the ids map) to keep constraint ordering,
			// and so solving, deterministic.
			sys.AddConstraint(&typeset.Constraint{Kind: typeset.OverloadBinding, Var: ids[d.Name]})
		case DeclBound:
			// already folded into boundTypes above
		case DeclEqual:
			l, err := resolve(d.Left)
			if err != nil {
				return nil, err
			}
			r, err := resolve(d.Right)
			if err != nil {
				return nil, err
			}
			sys.AddConstraint(&typeset.Constraint{Kind: typeset.Equality, Left: l, Right: r})
		case DeclDisjunction:
			resultVar, err := resolve(d.Result)
			if err != nil {
				return nil, err
			}
			if len(d.Alts) == 0 {
				return nil, fmt.Errorf("disjunction %s has no alternatives", d.Result)
			}
			alts := make([]typeset.Alternative, 0, len(d.Alts))
			for _, a := range d.Alts {
				binds := resultVar
				alts = append(alts, typeset.Alternative{
					Decl:    fmt.Sprintf("%s+%s->%s", a.Left, a.Right, a.Result),
					Generic: a.Generic,
					Binds:   &binds,
					Target:  namedType(a.Result),
				})
			}
			sys.AddConstraint(&typeset.Constraint{Kind: typeset.DisjunctionKind, Alternatives: alts})
		default:
			return nil, fmt.Errorf("unknown declaration kind %d", d.Kind)
		}
	}

	return sys, nil
}

// namedType maps a toylang type name to a typeset.Type, reusing the
// predefined ground types where the name matches one.
func namedType(name string) typeset.Type {
	switch name {
	case "Int":
		return typeset.Int
	case "Float":
		return typeset.Float
	case "String":
		return typeset.String
	case "Bool":
		return typeset.Bool
	default:
		return typeset.Type{Name: name}
	}
}
