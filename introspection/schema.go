package introspection

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// LoadSchema reads an introspection result from filename. Both the bare
// {"__schema": ...} object and the {"data": {"__schema": ...}} response
// envelope are accepted.
func LoadSchema(filename string) (*ast.Schema, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read introspection: %w", err)
	}

	q, err := ParseQuery(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return Schema(filename, q)
}

// ParseQuery decodes an introspection result.
func ParseQuery(content []byte) (Query, error) {
	var q Query
	if err := json.Unmarshal(content, &q); err != nil {
		return Query{}, fmt.Errorf("decode introspection: %w", err)
	}
	if len(q.Schema.Types) > 0 {
		return q, nil
	}

	var envelope struct {
		Data Query `json:"data"`
	}
	if err := json.Unmarshal(content, &envelope); err != nil {
		return Query{}, fmt.Errorf("decode introspection: %w", err)
	}
	if len(envelope.Data.Schema.Types) == 0 {
		return Query{}, fmt.Errorf("decode introspection: no __schema types found")
	}
	return envelope.Data, nil
}

// Schema validates the schema described by q.
func Schema(name string, q Query) (*ast.Schema, error) {
	doc, err := SchemaFromIntrospection(name, q)
	if err != nil {
		return nil, err
	}

	schema, err := validator.ValidateSchemaDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if schema.Query == nil {
		schema.Query = &ast.Definition{
			Kind: ast.Object,
			Name: "Query",
		}
		schema.Types["Query"] = schema.Query
	}

	return schema, nil
}

// SchemaFromIntrospection converts q into a schema document merged with the
// gqlparser prelude. Introspection types and the built-in scalars and
// directives come from the prelude.
func SchemaFromIntrospection(name string, q Query) (*ast.SchemaDocument, error) {
	prelude, err := parser.ParseSchema(validator.Prelude)
	if err != nil {
		return nil, fmt.Errorf("parse prelude: %w", err)
	}
	builtinTypes := map[string]bool{}
	for _, def := range prelude.Definitions {
		builtinTypes[def.Name] = true
	}
	builtinDirectives := map[string]bool{}
	for _, d := range prelude.Directives {
		builtinDirectives[d.Name] = true
	}

	pos := &ast.Position{Src: &ast.Source{Name: name}}
	c := converter{pos: pos}
	doc := &ast.SchemaDocument{}

	schemaDef := &ast.SchemaDefinition{Position: pos}
	addOperation := func(op ast.Operation, t *OperationType) {
		if t != nil && t.Name != nil {
			schemaDef.OperationTypes = append(schemaDef.OperationTypes, &ast.OperationTypeDefinition{
				Operation: op,
				Type:      *t.Name,
				Position:  pos,
			})
		}
	}
	addOperation(ast.Query, &q.Schema.QueryType)
	addOperation(ast.Mutation, q.Schema.MutationType)
	addOperation(ast.Subscription, q.Schema.SubscriptionType)
	if q.Schema.Description != nil {
		schemaDef.Description = *q.Schema.Description
	}
	doc.Schema = append(doc.Schema, schemaDef)

	for _, typ := range q.Schema.Types {
		if typ.Name == nil || strings.HasPrefix(*typ.Name, "__") || builtinTypes[*typ.Name] {
			continue
		}
		def, err := c.definition(typ)
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}

	for _, d := range q.Schema.Directives {
		if builtinDirectives[d.Name] {
			continue
		}
		def, err := c.directive(d)
		if err != nil {
			return nil, err
		}
		doc.Directives = append(doc.Directives, def)
	}

	doc.Merge(prelude)
	return doc, nil
}

type converter struct {
	pos *ast.Position
}

func (c converter) definition(typ *FullType) (*ast.Definition, error) {
	kind, ok := definitionKinds[typ.Kind]
	if !ok {
		return nil, fmt.Errorf("type %s: unexpected kind %q", *typ.Name, typ.Kind)
	}

	def := &ast.Definition{
		Kind:        kind,
		Name:        *typ.Name,
		Description: deref(typ.Description),
		Position:    c.pos,
	}

	for _, f := range typ.Fields {
		t := f.Type.ASTType()
		if t == nil {
			return nil, fmt.Errorf("field %s.%s: incomplete type reference", def.Name, f.Name)
		}
		args, err := c.arguments(f.Args)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", def.Name, f.Name, err)
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:        f.Name,
			Description: deref(f.Description),
			Arguments:   args,
			Type:        t,
			Directives:  c.deprecated(f.IsDeprecated, f.DeprecationReason),
			Position:    c.pos,
		})
	}

	for _, f := range typ.InputFields {
		t := f.Type.ASTType()
		if t == nil {
			return nil, fmt.Errorf("input field %s.%s: incomplete type reference", def.Name, f.Name)
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:         f.Name,
			Description:  deref(f.Description),
			DefaultValue: c.value(f.DefaultValue),
			Type:         t,
			Position:     c.pos,
		})
	}

	for _, i := range typ.Interfaces {
		if i.Name != nil {
			def.Interfaces = append(def.Interfaces, *i.Name)
		}
	}
	if kind == ast.Union {
		for _, p := range typ.PossibleTypes {
			if p.Name != nil {
				def.Types = append(def.Types, *p.Name)
			}
		}
	}

	for _, v := range typ.EnumValues {
		def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
			Name:        v.Name,
			Description: deref(v.Description),
			Directives:  c.deprecated(v.IsDeprecated, v.DeprecationReason),
			Position:    c.pos,
		})
	}

	return def, nil
}

func (c converter) directive(d *DirectiveType) (*ast.DirectiveDefinition, error) {
	args, err := c.arguments(d.Args)
	if err != nil {
		return nil, fmt.Errorf("directive @%s: %w", d.Name, err)
	}
	def := &ast.DirectiveDefinition{
		Name:         d.Name,
		Description:  deref(d.Description),
		Arguments:    args,
		IsRepeatable: d.IsRepeatable,
		Position:     c.pos,
	}
	for _, l := range d.Locations {
		def.Locations = append(def.Locations, ast.DirectiveLocation(l))
	}
	return def, nil
}

func (c converter) arguments(values []*InputValue) (ast.ArgumentDefinitionList, error) {
	var args ast.ArgumentDefinitionList
	for _, v := range values {
		t := v.Type.ASTType()
		if t == nil {
			return nil, fmt.Errorf("argument %s: incomplete type reference", v.Name)
		}
		args = append(args, &ast.ArgumentDefinition{
			Name:         v.Name,
			Description:  deref(v.Description),
			DefaultValue: c.value(v.DefaultValue),
			Type:         t,
			Position:     c.pos,
		})
	}
	return args, nil
}

func (c converter) deprecated(isDeprecated bool, reason *string) ast.DirectiveList {
	if !isDeprecated {
		return nil
	}
	d := &ast.Directive{Name: "deprecated", Position: c.pos, Location: ast.LocationFieldDefinition}
	if reason != nil {
		d.Arguments = ast.ArgumentList{{
			Name:     "reason",
			Value:    &ast.Value{Kind: ast.StringValue, Raw: *reason, Position: c.pos},
			Position: c.pos,
		}}
	}
	return ast.DirectiveList{d}
}

// value keeps a default value in its printed form. Only its presence matters
// to validation, so the kind is a best guess from the literal.
func (c converter) value(raw *string) *ast.Value {
	if raw == nil {
		return nil
	}
	v := &ast.Value{Raw: *raw, Position: c.pos}
	switch s := *raw; {
	case s == "null":
		v.Kind = ast.NullValue
	case s == "true" || s == "false":
		v.Kind = ast.BooleanValue
	case strings.HasPrefix(s, `"`):
		v.Kind = ast.StringValue
		if unquoted, err := strconv.Unquote(s); err == nil {
			v.Raw = unquoted
		}
	case strings.HasPrefix(s, "["):
		v.Kind = ast.ListValue
	case strings.HasPrefix(s, "{"):
		v.Kind = ast.ObjectValue
	default:
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			v.Kind = ast.IntValue
		} else if _, err := strconv.ParseFloat(s, 64); err == nil {
			v.Kind = ast.FloatValue
		} else {
			v.Kind = ast.EnumValue
		}
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
