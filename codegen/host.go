package codegen

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/99designs/gqlgen/codegen/templates"
	"github.com/iancoleman/strcase"
	"github.com/vektah/gqlparser/v2/ast"
)

// RetainPolicy says how a host object holds a property value.
type RetainPolicy string

const (
	RetainCopy      RetainPolicy = "copy"
	RetainReference RetainPolicy = "reference"
	RetainValue     RetainPolicy = "value"
)

// DefaultHost is used when Options.Host is empty.
const DefaultHost = "go"

// HostProfile is the data table describing how GraphQL types are spelled in
// one target language. Profiles are read-only and shared by all compiles.
type HostProfile struct {
	Name    string
	scalars map[string]string
	// customScalar spells custom scalars when they are not passed through.
	// Empty means the String spelling.
	customScalar string
	list         func(elem string) string
	optional     func(t string) string
	modelRef     func(path []string) string
	enumCase     func(enum, value string) string
}

var hostProfiles = map[string]*HostProfile{
	"go": {
		Name: "go",
		scalars: map[string]string{
			"String":  "string",
			"ID":      "string",
			"Int":     "int",
			"Float":   "float64",
			"Boolean": "bool",
		},
		customScalar: "CustomScalar",
		list:         func(elem string) string { return "[]" + elem },
		// nil スライスが null を表すのでリストはポインタにしない
		optional: func(t string) string {
			if strings.HasPrefix(t, "[]") {
				return t
			}
			return "*" + t
		},
		modelRef: func(path []string) string { return strings.Join(path, "_") },
		enumCase: func(enum, value string) string {
			return templates.ToGo(enum) + strcase.ToCamel(strings.ToLower(value))
		},
	},
	"swift": {
		Name: "swift",
		scalars: map[string]string{
			"String":  "String",
			"ID":      "GraphQLID",
			"Int":     "Int",
			"Float":   "Double",
			"Boolean": "Bool",
		},
		list:     func(elem string) string { return "[" + elem + "]" },
		optional: func(t string) string { return t + "?" },
		modelRef: func(path []string) string { return strings.Join(path, ".") },
		enumCase: func(_, value string) string {
			return strcase.ToLowerCamel(strings.ToLower(value))
		},
	},
	"objc": {
		Name: "objc",
		scalars: map[string]string{
			"String":  "NSString *",
			"ID":      "NSString *",
			"Int":     "NSNumber *",
			"Float":   "NSNumber *",
			"Boolean": "NSNumber *",
		},
		list:     func(elem string) string { return "NSArray<" + elem + "> *" },
		optional: func(t string) string { return t },
		modelRef: func(path []string) string { return strings.Join(path, "") + " *" },
		enumCase: func(enum, value string) string {
			return enum + strcase.ToCamel(strings.ToLower(value))
		},
	},
	"typescript": {
		Name: "typescript",
		scalars: map[string]string{
			"String":  "string",
			"ID":      "string",
			"Int":     "number",
			"Float":   "number",
			"Boolean": "boolean",
		},
		list:     func(elem string) string { return "Array<" + elem + ">" },
		optional: func(t string) string { return t + " | null" },
		modelRef: func(path []string) string { return strings.Join(path, "_") },
		enumCase: func(_, value string) string { return value },
	},
}

// LookupHost returns the profile registered under name. An empty name selects
// DefaultHost.
func LookupHost(name string) (*HostProfile, error) {
	if name == "" {
		name = DefaultHost
	}
	p, ok := hostProfiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown host %q, expected one of %s", name, strings.Join(HostNames(), ", "))
	}
	return p, nil
}

// HostNames lists the registered profiles in sorted order.
func HostNames() []string {
	return slices.Sorted(maps.Keys(hostProfiles))
}

// TypeName spells t in the host language. modelRef is the host name of the
// nested model for composite types and is ignored otherwise.
func (p *HostProfile) TypeName(t TypeExpr, modelRef string, passthroughCustomScalars bool) string {
	return p.typeName(t, modelRef, passthroughCustomScalars, true)
}

func (p *HostProfile) typeName(t TypeExpr, modelRef string, passthrough, optional bool) string {
	var s string
	switch t := t.(type) {
	case *NonNullType:
		return p.typeName(t.Elem, modelRef, passthrough, false)
	case *ListType:
		s = p.list(p.typeName(t.Elem, modelRef, passthrough, true))
	case *NamedType:
		s = p.namedTypeName(t, modelRef, passthrough)
	default:
		panic(fmt.Sprintf("unexpected type expression %T", t))
	}

	if optional {
		return p.optional(s)
	}
	return s
}

func (p *HostProfile) namedTypeName(t *NamedType, modelRef string, passthrough bool) string {
	switch t.Kind {
	case ast.Scalar:
		if s, ok := p.scalars[t.Name]; ok {
			return s
		}
		if passthrough {
			return t.Name
		}
		return p.CustomScalarName()
	case ast.Object, ast.Interface, ast.Union:
		return modelRef
	default:
		return t.Name
	}
}

// CustomScalarName is the host type of a custom scalar that is not passed
// through. It holds a JSON string as is and any other value as canonical JSON
// text.
func (p *HostProfile) CustomScalarName() string {
	if p.customScalar != "" {
		return p.customScalar
	}
	return p.scalars["String"]
}

// ModelName joins a namespace path into a host model name.
func (p *HostProfile) ModelName(path []string) string {
	return p.modelRef(path)
}

// EnumCaseName names one enum value in the host language.
func (p *HostProfile) EnumCaseName(enum, value string) string {
	return p.enumCase(enum, value)
}

// RetainPolicyOf classifies how a value of type t is held.
func RetainPolicyOf(t TypeExpr) RetainPolicy {
	switch t := Nullable(t).(type) {
	case *ListType:
		return RetainCopy
	case *NamedType:
		switch t.Kind {
		case ast.Scalar:
			switch t.Name {
			case "Int", "Float", "Boolean":
				return RetainReference
			default:
				return RetainCopy
			}
		case ast.Enum:
			return RetainValue
		default:
			return RetainReference
		}
	default:
		panic(fmt.Sprintf("unexpected type expression %T", t))
	}
}
