// Package introspection reads a schema from the result of the standard
// introspection query (schema.json).
package introspection

import "github.com/vektah/gqlparser/v2/ast"

type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
	TypeKindList        TypeKind = "LIST"
	TypeKindNonNull     TypeKind = "NON_NULL"
)

var definitionKinds = map[TypeKind]ast.DefinitionKind{
	TypeKindScalar:      ast.Scalar,
	TypeKindObject:      ast.Object,
	TypeKindInterface:   ast.Interface,
	TypeKindUnion:       ast.Union,
	TypeKindEnum:        ast.Enum,
	TypeKindInputObject: ast.InputObject,
}

type FullTypes []*FullType

func (fs FullTypes) NameMap() map[string]*FullType {
	typeMap := make(map[string]*FullType)
	for _, typ := range fs {
		if typ.Name != nil {
			typeMap[*typ.Name] = typ
		}
	}

	return typeMap
}

type FullType struct {
	Kind           TypeKind      `json:"kind"`
	Name           *string       `json:"name"`
	Description    *string       `json:"description"`
	SpecifiedByURL *string       `json:"specifiedByURL,omitempty"`
	Fields         []*FieldValue `json:"fields"`
	InputFields    []*InputValue `json:"inputFields"`
	Interfaces     []*TypeRef    `json:"interfaces"`
	EnumValues     []*EnumValue  `json:"enumValues"`
	PossibleTypes  []*TypeRef    `json:"possibleTypes"`
}

type EnumValue struct {
	Description       *string `json:"description"`
	DeprecationReason *string `json:"deprecationReason"`
	Name              string  `json:"name"`
	IsDeprecated      bool    `json:"isDeprecated"`
}

type FieldValue struct {
	Type              TypeRef       `json:"type"`
	Description       *string       `json:"description"`
	DeprecationReason *string       `json:"deprecationReason"`
	Name              string        `json:"name"`
	Args              []*InputValue `json:"args"`
	IsDeprecated      bool          `json:"isDeprecated"`
}

type InputValue struct {
	Type         TypeRef `json:"type"`
	Description  *string `json:"description"`
	DefaultValue *string `json:"defaultValue"`
	Name         string  `json:"name"`
}

type TypeRef struct {
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
	Kind   TypeKind `json:"kind"`
}

// ASTType converts the reference into a gqlparser type. A NON_NULL or LIST
// without ofType yields nil.
func (t *TypeRef) ASTType() *ast.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TypeKindNonNull:
		inner := t.OfType.ASTType()
		if inner == nil {
			return nil
		}
		inner.NonNull = true
		return inner
	case TypeKindList:
		elem := t.OfType.ASTType()
		if elem == nil {
			return nil
		}
		return &ast.Type{Elem: elem}
	default:
		if t.Name == nil {
			return nil
		}
		return &ast.Type{NamedType: *t.Name}
	}
}

type OperationType struct {
	Name *string `json:"name"`
}

// Query is the result of the introspection query.
type Query struct {
	Schema struct {
		Description      *string          `json:"description,omitempty"`
		QueryType        OperationType    `json:"queryType"`
		MutationType     *OperationType   `json:"mutationType"`
		SubscriptionType *OperationType   `json:"subscriptionType"`
		Types            FullTypes        `json:"types"`
		Directives       []*DirectiveType `json:"directives"`
	} `json:"__schema"`
}

type DirectiveType struct {
	Name         string        `json:"name"`
	Description  *string       `json:"description"`
	Locations    []string      `json:"locations"`
	Args         []*InputValue `json:"args"`
	IsRepeatable bool          `json:"isRepeatable,omitempty"`
}
