package codegen

import (
	"fmt"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
)

// PossibleTypes returns the sorted names of the concrete object types def can
// represent at runtime.
func PossibleTypes(schema *ast.Schema, def *ast.Definition) ([]string, error) {
	switch def.Kind {
	case ast.Object:
		return []string{def.Name}, nil
	case ast.Interface, ast.Union:
		var names []string
		for _, t := range schema.GetPossibleTypes(def) {
			if t.Kind == ast.Object {
				names = append(names, t.Name)
			}
		}
		if len(names) == 0 {
			return nil, &CompileError{
				Kind:     EmptyPossibleTypes,
				Name:     def.Name,
				Message:  fmt.Sprintf("abstract type %q has no possible object types", def.Name),
				Position: def.Position,
			}
		}
		slices.Sort(names)
		return slices.Compact(names), nil
	default:
		return nil, &CompileError{
			Kind:     MalformedSelection,
			Name:     def.Name,
			Message:  fmt.Sprintf("type %q of kind %s cannot carry a selection set", def.Name, def.Kind),
			Position: def.Position,
		}
	}
}

// IsProperSuperType reports whether every possible type of parent is also a
// possible type of fragmentType, in which case a fragment on fragmentType
// always applies inside a selection on parent.
func IsProperSuperType(schema *ast.Schema, fragmentType, parent *ast.Definition) (bool, error) {
	fragmentTypes, err := PossibleTypes(schema, fragmentType)
	if err != nil {
		return false, err
	}
	parentTypes, err := PossibleTypes(schema, parent)
	if err != nil {
		return false, err
	}
	return isSuperset(fragmentTypes, parentTypes), nil
}

// isSuperset expects both slices sorted.
func isSuperset(super, sub []string) bool {
	for _, name := range sub {
		if _, found := slices.BinarySearch(super, name); !found {
			return false
		}
	}
	return true
}

func intersects(a, b []string) bool {
	for _, name := range a {
		if _, found := slices.BinarySearch(b, name); found {
			return true
		}
	}
	return false
}
