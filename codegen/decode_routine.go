package codegen

import (
	"github.com/vektah/gqlparser/v2/ast"
)

type DecodeAction string

const (
	// DecodeValue reads the value at Key.
	DecodeValue DecodeAction = "value"
	// DecodeFragments decodes the fragments container from the enclosing map.
	DecodeFragments DecodeAction = "fragments"
	// DecodeFragment and DecodeVariant decode a model from the enclosing map
	// when the discriminator passes Gate.
	DecodeFragment DecodeAction = "fragment"
	DecodeVariant  DecodeAction = "variant"
)

// Coercion is the conversion applied to a leaf value read from a response.
type Coercion string

const (
	CoerceString      Coercion = "string"
	CoerceID          Coercion = "id"
	CoerceInt         Coercion = "int"
	CoerceFloat       Coercion = "float"
	CoerceBoolean     Coercion = "boolean"
	CoerceEnum        Coercion = "enum"
	CoerceCustom      Coercion = "custom"
	CoercePassthrough Coercion = "passthrough"
	CoerceObject      Coercion = "object"
)

// DecodeRoutine reconstructs one CompiledModel from an untyped response map.
type DecodeRoutine struct {
	Model string
	// TypeName is the concrete type of models on an object type. Fragments
	// and variants decoded from the same map inherit it.
	TypeName      string
	Discriminator *DiscriminatorRule
	Steps         []*DecodeStep
}

// DiscriminatorRule reads the concrete type name. Default is used when the key
// is absent and is only set for models on a concrete type.
type DiscriminatorRule struct {
	Key      string
	Property string
	Default  string
}

type DecodeStep struct {
	Property    string
	Key         string
	Action      DecodeAction
	Type        TypeExpr
	Coercion    Coercion
	EnumValues  []string
	Conditional bool
	Gate        []string
	Routine     *DecodeRoutine
}

// compileDecodeRoutine pairs a routine with m. Nested models must already
// carry their own routines.
func (c *compiler) compileDecodeRoutine(m *CompiledModel) *DecodeRoutine {
	r := &DecodeRoutine{Model: m.QualifiedName}
	if !m.IsAbstract {
		r.TypeName = m.ParentType
	}

	for _, p := range m.Properties {
		switch p.Kind {
		case PropertyDiscriminator:
			rule := &DiscriminatorRule{Key: p.SourceResponseKey, Property: p.Name}
			if !m.IsAbstract {
				rule.Default = m.ParentType
			}
			r.Discriminator = rule
		case PropertyField:
			step := &DecodeStep{
				Property:    p.Name,
				Key:         p.SourceResponseKey,
				Action:      DecodeValue,
				Type:        p.Type,
				Conditional: p.IsConditional,
			}
			if p.Model != nil {
				step.Coercion = CoerceObject
				step.Routine = p.Model.Decoder
			} else {
				step.Coercion, step.EnumValues = c.coercion(NamedOf(p.Type))
			}
			r.Steps = append(r.Steps, step)
		case PropertyFragments:
			r.Steps = append(r.Steps, &DecodeStep{
				Property: p.Name,
				Action:   DecodeFragments,
				Type:     p.Type,
				Coercion: CoerceObject,
				Routine:  p.Model.Decoder,
			})
		case PropertyFragment:
			r.Steps = append(r.Steps, &DecodeStep{
				Property: p.Name,
				Action:   DecodeFragment,
				Type:     p.Type,
				Coercion: CoerceObject,
				Gate:     p.PossibleTypes,
				Routine:  p.Model.Decoder,
			})
		case PropertyInlineFragment:
			r.Steps = append(r.Steps, &DecodeStep{
				Property: p.Name,
				Action:   DecodeVariant,
				Type:     p.Type,
				Coercion: CoerceObject,
				Gate:     p.PossibleTypes,
				Routine:  p.Model.Decoder,
			})
		}
	}

	return r
}

func (c *compiler) coercion(t *NamedType) (Coercion, []string) {
	switch t.Kind {
	case ast.Enum:
		var values []string
		if def := c.schema.Types[t.Name]; def != nil {
			for _, v := range def.EnumValues {
				values = append(values, v.Name)
			}
		}
		return CoerceEnum, values
	case ast.Scalar:
		switch t.Name {
		case "String":
			return CoerceString, nil
		case "ID":
			return CoerceID, nil
		case "Int":
			return CoerceInt, nil
		case "Float":
			return CoerceFloat, nil
		case "Boolean":
			return CoerceBoolean, nil
		}
		if c.opts.PassthroughCustomScalars {
			return CoercePassthrough, nil
		}
		return CoerceCustom, nil
	default:
		return CoerceObject, nil
	}
}
