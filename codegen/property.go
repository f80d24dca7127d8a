package codegen

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// mergedField is every occurrence of one response name inside a selection
// set, with the sub-selections concatenated.
type mergedField struct {
	responseName string
	name         string
	definition   *ast.FieldDefinition
	selections   ast.SelectionSet
	conditional  bool
	position     *ast.Position
}

func (c *compiler) fieldDefinition(parent *ast.Definition, field *ast.Field) (*ast.FieldDefinition, error) {
	if def := parent.Fields.ForName(field.Name); def != nil {
		return def, nil
	}
	if field.Definition != nil {
		return field.Definition, nil
	}
	return nil, &CompileError{
		Kind:     MalformedSelection,
		Name:     field.Name,
		Message:  fmt.Sprintf("cannot query field %q on type %q", field.Name, parent.Name),
		Position: field.Position,
	}
}

// compileProperty turns a field into a property. For composite fields it also
// returns the definition of the nested model's parent type; modelNS is the
// namespace that model will be compiled under.
func (c *compiler) compileProperty(f *mergedField, propertyName string, modelNS Namespace) (*PropertyDescriptor, *ast.Definition, error) {
	typ, err := ResolveType(c.schema, f.definition.Type)
	if err != nil {
		return nil, nil, err
	}

	def := c.schema.Types[NamedOf(typ).Name]
	composite := isCompositeKind(def.Kind)
	switch {
	case composite && len(f.selections) == 0:
		return nil, nil, &CompileError{
			Kind:     MalformedSelection,
			Name:     f.responseName,
			Message:  fmt.Sprintf("field %q of type %q must have a selection of subfields", f.responseName, typ),
			Position: f.position,
		}
	case !composite && len(f.selections) > 0:
		return nil, nil, &CompileError{
			Kind:     MalformedSelection,
			Name:     f.responseName,
			Message:  fmt.Sprintf("field %q must not have a selection since type %q has no subfields", f.responseName, typ),
			Position: f.position,
		}
	}

	p := &PropertyDescriptor{
		Name:              propertyName,
		Kind:              PropertyField,
		Type:              typ,
		IsOptional:        f.conditional || IsOptional(typ),
		IsConditional:     f.conditional,
		IsComposite:       composite,
		Retain:            RetainPolicyOf(typ),
		SourceResponseKey: f.responseName,
		FieldName:         f.name,
		Description:       f.definition.Description,
		IsDeprecated:      f.definition.Directives.ForName("deprecated") != nil,
	}

	var modelRef string
	if composite {
		p.ModelName = modelNS.String()
		modelRef = c.profile.ModelName(modelNS.Path())
	}

	hostType := typ
	if f.conditional {
		hostType = Nullable(typ)
	}
	p.HostTypeName = c.profile.TypeName(hostType, modelRef, c.opts.PassthroughCustomScalars)

	if !composite {
		return p, nil, nil
	}
	return p, def, nil
}

// compileVariable turns an operation variable into a property.
func (c *compiler) compileVariable(v *ast.VariableDefinition) (*PropertyDescriptor, error) {
	typ, err := ResolveType(c.schema, v.Type)
	if err != nil {
		return nil, err
	}

	named := NamedOf(typ)
	if isCompositeKind(named.Kind) {
		return nil, &CompileError{
			Kind:     MalformedSelection,
			Name:     v.Variable,
			Message:  fmt.Sprintf("variable %q cannot be non-input type %q", v.Variable, typ),
			Position: v.Position,
		}
	}

	return &PropertyDescriptor{
		Name:              camel(v.Variable),
		Kind:              PropertyVariable,
		Type:              typ,
		HostTypeName:      c.profile.TypeName(typ, "", c.opts.PassthroughCustomScalars),
		IsOptional:        IsOptional(typ),
		Retain:            RetainPolicyOf(typ),
		SourceResponseKey: v.Variable,
	}, nil
}

// compileInputField turns one field of an input object into a property.
func (c *compiler) compileInputField(f *ast.FieldDefinition) (*PropertyDescriptor, error) {
	typ, err := ResolveType(c.schema, f.Type)
	if err != nil {
		return nil, err
	}

	return &PropertyDescriptor{
		Name:              camel(f.Name),
		Kind:              PropertyField,
		Type:              typ,
		HostTypeName:      c.profile.TypeName(typ, "", c.opts.PassthroughCustomScalars),
		IsOptional:        IsOptional(typ),
		Retain:            RetainPolicyOf(typ),
		SourceResponseKey: f.Name,
		FieldName:         f.Name,
		Description:       f.Description,
		IsDeprecated:      f.Directives.ForName("deprecated") != nil,
	}, nil
}
