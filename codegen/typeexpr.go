package codegen

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// TypeExpr is a GraphQL type reference: a named type, possibly wrapped in
// List and NonNull. The set of implementations is closed.
type TypeExpr interface {
	String() string
	typeExpr()
}

type NamedType struct {
	Kind ast.DefinitionKind
	Name string
}

type ListType struct {
	Elem TypeExpr
}

// NonNullType never wraps another NonNullType. Build it with NewNonNull.
type NonNullType struct {
	Elem TypeExpr
}

func (*NamedType) typeExpr()   {}
func (*ListType) typeExpr()    {}
func (*NonNullType) typeExpr() {}

func (t *NamedType) String() string   { return t.Name }
func (t *ListType) String() string    { return "[" + t.Elem.String() + "]" }
func (t *NonNullType) String() string { return t.Elem.String() + "!" }

func NewNamed(kind ast.DefinitionKind, name string) TypeExpr {
	return &NamedType{Kind: kind, Name: name}
}

func NewList(elem TypeExpr) TypeExpr {
	return &ListType{Elem: elem}
}

// NewNonNull marks t as non-null. It is idempotent.
func NewNonNull(t TypeExpr) TypeExpr {
	if nn, ok := t.(*NonNullType); ok {
		return nn
	}
	return &NonNullType{Elem: t}
}

// ResolveType converts a parsed type reference into a TypeExpr, looking up the
// kind of the innermost named type in the schema.
func ResolveType(schema *ast.Schema, t *ast.Type) (TypeExpr, error) {
	if t == nil {
		return nil, &CompileError{Kind: MalformedSelection, Message: "missing type reference"}
	}

	var inner TypeExpr
	if t.Elem != nil {
		elem, err := ResolveType(schema, t.Elem)
		if err != nil {
			return nil, err
		}
		inner = NewList(elem)
	} else {
		def := schema.Types[t.NamedType]
		if def == nil {
			return nil, &CompileError{
				Kind:     MalformedSelection,
				Name:     t.NamedType,
				Message:  fmt.Sprintf("unknown type %q", t.NamedType),
				Position: t.Position,
			}
		}
		inner = NewNamed(def.Kind, def.Name)
	}

	if t.NonNull {
		return NewNonNull(inner), nil
	}
	return inner, nil
}

// IsOptional reports whether the outermost wrapper of t admits null.
func IsOptional(t TypeExpr) bool {
	_, ok := t.(*NonNullType)
	return !ok
}

// Nullable strips an outer NonNull, if any.
func Nullable(t TypeExpr) TypeExpr {
	if nn, ok := t.(*NonNullType); ok {
		return nn.Elem
	}
	return t
}

// NamedOf returns the innermost named type of t.
func NamedOf(t TypeExpr) *NamedType {
	switch t := t.(type) {
	case *NamedType:
		return t
	case *ListType:
		return NamedOf(t.Elem)
	case *NonNullType:
		return NamedOf(t.Elem)
	default:
		panic(fmt.Sprintf("unexpected type expression %T", t))
	}
}

// ListDepth counts the List wrappers of t.
func ListDepth(t TypeExpr) int {
	switch t := t.(type) {
	case *NamedType:
		return 0
	case *ListType:
		return 1 + ListDepth(t.Elem)
	case *NonNullType:
		return ListDepth(t.Elem)
	default:
		panic(fmt.Sprintf("unexpected type expression %T", t))
	}
}

// Nullability lists whether each nesting level admits null, outermost first.
// [Character]! yields [false true].
func Nullability(t TypeExpr) []bool {
	var levels []bool
	for {
		optional := true
		if nn, ok := t.(*NonNullType); ok {
			optional = false
			t = nn.Elem
		}
		levels = append(levels, optional)

		switch tt := t.(type) {
		case *ListType:
			t = tt.Elem
		case *NamedType:
			return levels
		default:
			panic(fmt.Sprintf("unexpected type expression %T", t))
		}
	}
}

func isCompositeKind(kind ast.DefinitionKind) bool {
	switch kind {
	case ast.Object, ast.Interface, ast.Union:
		return true
	default:
		return false
	}
}

func isAbstractKind(kind ast.DefinitionKind) bool {
	return kind == ast.Interface || kind == ast.Union
}
