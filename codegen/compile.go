package codegen

import (
	"context"
	"fmt"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/sync/errgroup"
)

// Options configures a compile.
type Options struct {
	// PassthroughCustomScalars keeps the GraphQL name of custom scalars as
	// the host type instead of the String representation.
	PassthroughCustomScalars bool
	// Host selects the HostProfile. Empty means DefaultHost.
	Host string
}

type OperationKind string

const (
	OperationQuery    OperationKind = "query"
	OperationMutation OperationKind = "mutation"
)

// CompiledUnit is everything compiled from one document.
type CompiledUnit struct {
	Host       string
	Operations []*Operation
	Fragments  []*Fragment
	// TypesUsed holds every enum and input object referenced anywhere,
	// sorted by name.
	TypesUsed []*TypeDecl
}

type Operation struct {
	Name                string
	Kind                OperationKind
	ClassName           string
	Variables           []*PropertyDescriptor
	Initializer         *Initializer
	Data                *CompiledModel
	FragmentsReferenced []string
	// Source is the operation alone; Document appends every referenced
	// fragment and is what a client sends.
	Source   string
	Document string
}

// Initializer is the constructor signature of an operation: one parameter
// per variable, optional ones defaulting to null.
type Initializer struct {
	Params []*InitializerParam
}

type InitializerParam struct {
	Label        string
	HostTypeName string
	IsOptional   bool
}

type Fragment struct {
	Name          string
	TypeCondition string
	PossibleTypes []string
	Model         *CompiledModel
	Source        string
}

type TypeDecl struct {
	Kind        ast.DefinitionKind
	Name        string
	Description string
	EnumCases   []*EnumCase
	Fields      []*PropertyDescriptor
}

type EnumCase struct {
	Name         string
	Value        string
	Description  string
	IsDeprecated bool
}

type compiler struct {
	schema    *ast.Schema
	fragments ast.FragmentDefinitionList
	profile   *HostProfile
	opts      Options
}

func newCompiler(schema *ast.Schema, doc *ast.QueryDocument, opts Options) (*compiler, error) {
	profile, err := LookupHost(opts.Host)
	if err != nil {
		return nil, err
	}
	return &compiler{
		schema:    schema,
		fragments: doc.Fragments,
		profile:   profile,
		opts:      opts,
	}, nil
}

// Compile compiles every operation and fragment of doc. doc must already be
// validated against schema.
func Compile(schema *ast.Schema, doc *ast.QueryDocument, opts Options) (*CompiledUnit, error) {
	c, err := newCompiler(schema, doc, opts)
	if err != nil {
		return nil, err
	}

	unit := &CompiledUnit{Host: c.profile.Name}
	for _, op := range doc.Operations {
		o, err := c.compileOperation(op)
		if err != nil {
			return nil, err
		}
		unit.Operations = append(unit.Operations, o)
	}
	for _, f := range doc.Fragments {
		frag, err := c.compileFragment(f)
		if err != nil {
			return nil, err
		}
		unit.Fragments = append(unit.Fragments, frag)
	}

	if unit.TypesUsed, err = c.typesUsed(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// CompileConcurrent is Compile with every operation and fragment compiled in
// its own goroutine, at most limit at a time (no limit when limit <= 0). The
// result is identical to Compile. ctx is checked before each unit starts.
func CompileConcurrent(ctx context.Context, schema *ast.Schema, doc *ast.QueryDocument, opts Options, limit int) (*CompiledUnit, error) {
	c, err := newCompiler(schema, doc, opts)
	if err != nil {
		return nil, err
	}

	unit := &CompiledUnit{
		Host:       c.profile.Name,
		Operations: make([]*Operation, len(doc.Operations)),
		Fragments:  make([]*Fragment, len(doc.Fragments)),
	}

	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, op := range doc.Operations {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := c.compileOperation(op)
			if err != nil {
				return err
			}
			unit.Operations[i] = o
			return nil
		})
	}
	for i, f := range doc.Fragments {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frag, err := c.compileFragment(f)
			if err != nil {
				return err
			}
			unit.Fragments[i] = frag
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if unit.TypesUsed, err = c.typesUsed(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// CompileOperation compiles a single operation of doc.
func CompileOperation(schema *ast.Schema, doc *ast.QueryDocument, op *ast.OperationDefinition, opts Options) (*Operation, error) {
	c, err := newCompiler(schema, doc, opts)
	if err != nil {
		return nil, err
	}
	return c.compileOperation(op)
}

// CompileFragment compiles a single named fragment of doc on its own type
// condition.
func CompileFragment(schema *ast.Schema, doc *ast.QueryDocument, fragment *ast.FragmentDefinition, opts Options) (*Fragment, error) {
	c, err := newCompiler(schema, doc, opts)
	if err != nil {
		return nil, err
	}
	return c.compileFragment(fragment)
}

func (c *compiler) compileOperation(op *ast.OperationDefinition) (*Operation, error) {
	var (
		kind   OperationKind
		suffix string
		root   *ast.Definition
	)
	switch op.Operation {
	case ast.Query:
		kind, suffix, root = OperationQuery, "Query", c.schema.Query
	case ast.Mutation:
		kind, suffix, root = OperationMutation, "Mutation", c.schema.Mutation
	default:
		return nil, &CompileError{
			Kind:     UnsupportedOperationKind,
			Name:     op.Name,
			Message:  fmt.Sprintf("unsupported operation type %q", op.Operation),
			Position: op.Position,
		}
	}
	if root == nil {
		return nil, &CompileError{
			Kind:     MalformedSelection,
			Name:     op.Name,
			Message:  fmt.Sprintf("schema does not define a %s root type", op.Operation),
			Position: op.Position,
		}
	}

	name := op.Name
	if name == "" {
		name = "Anonymous"
	}
	className := pascal(name) + suffix

	data, err := c.compileSelectionSet(root, op.SelectionSet, NewNamespace(className, "Data"), nil)
	if err != nil {
		return nil, err
	}

	variables, err := c.compileVariables(op.VariableDefinitions)
	if err != nil {
		return nil, err
	}

	initializer := &Initializer{}
	for _, v := range variables {
		initializer.Params = append(initializer.Params, &InitializerParam{
			Label:        v.Name,
			HostTypeName: v.HostTypeName,
			IsOptional:   v.IsOptional,
		})
	}

	source, err := c.operationSource(op, root)
	if err != nil {
		return nil, err
	}
	referenced := c.fragmentsReferenced(op.SelectionSet)
	fragments := make(ast.FragmentDefinitionList, 0, len(referenced))
	for _, name := range referenced {
		f, err := c.fragmentSource(c.fragments.ForName(name))
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}

	return &Operation{
		Name:                op.Name,
		Kind:                kind,
		ClassName:           className,
		Variables:           variables,
		Initializer:         initializer,
		Data:                data,
		FragmentsReferenced: referenced,
		Source:              printDocument(&ast.QueryDocument{Operations: ast.OperationList{source}}),
		Document:            printDocument(&ast.QueryDocument{Operations: ast.OperationList{source}, Fragments: fragments}),
	}, nil
}

func (c *compiler) compileVariables(defs ast.VariableDefinitionList) ([]*PropertyDescriptor, error) {
	keys := make([]string, 0, len(defs))
	for _, v := range defs {
		keys = append(keys, v.Variable)
	}
	names := allocateNames(nil, keys, camel, camel)

	variables := make([]*PropertyDescriptor, 0, len(defs))
	for _, v := range defs {
		p, err := c.compileVariable(v)
		if err != nil {
			return nil, err
		}
		p.Name = names[v.Variable]
		variables = append(variables, p)
	}
	return variables, nil
}

func (c *compiler) compileFragment(f *ast.FragmentDefinition) (*Fragment, error) {
	typeDef, possible, err := c.typeCondition(f.TypeCondition, f.Position)
	if err != nil {
		return nil, err
	}

	model, err := c.compileSelectionSet(typeDef, f.SelectionSet, NewNamespace(pascal(f.Name)), []string{f.Name})
	if err != nil {
		return nil, err
	}
	model.FragmentName = f.Name

	source, err := c.fragmentSource(f)
	if err != nil {
		return nil, err
	}

	return &Fragment{
		Name:          f.Name,
		TypeCondition: f.TypeCondition,
		PossibleTypes: possible,
		Model:         model,
		Source:        printDocument(&ast.QueryDocument{Fragments: ast.FragmentDefinitionList{source}}),
	}, nil
}

// fragmentsReferenced lists the fragments reachable from set, directly or
// through other fragments, in order of first reference.
func (c *compiler) fragmentsReferenced(set ast.SelectionSet) []string {
	var names []string
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, selection := range set {
			switch sel := selection.(type) {
			case *ast.Field:
				walk(sel.SelectionSet)
			case *ast.InlineFragment:
				walk(sel.SelectionSet)
			case *ast.FragmentSpread:
				if slices.Contains(names, sel.Name) {
					continue
				}
				names = append(names, sel.Name)
				if f := c.fragments.ForName(sel.Name); f != nil {
					walk(f.SelectionSet)
				}
			}
		}
	}
	walk(set)
	return names
}

func (c *compiler) typesUsed(unit *CompiledUnit) ([]*TypeDecl, error) {
	used := map[string]bool{}
	var visit func(name string) error
	visit = func(name string) error {
		def := c.schema.Types[name]
		if def == nil || used[name] {
			return nil
		}
		if def.Kind != ast.Enum && def.Kind != ast.InputObject {
			return nil
		}
		used[name] = true
		for _, f := range def.Fields {
			if err := visit(f.Type.Name()); err != nil {
				return err
			}
		}
		return nil
	}

	visitModel := func(m *CompiledModel) error {
		for _, p := range m.Properties {
			if p.IsComposite {
				continue
			}
			if err := visit(NamedOf(p.Type).Name); err != nil {
				return err
			}
		}
		return nil
	}

	for _, op := range unit.Operations {
		for _, v := range op.Variables {
			if err := visit(NamedOf(v.Type).Name); err != nil {
				return nil, err
			}
		}
		if err := op.Data.Walk(visitModel); err != nil {
			return nil, err
		}
	}
	for _, f := range unit.Fragments {
		if err := f.Model.Walk(visitModel); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}
	slices.Sort(names)

	decls := make([]*TypeDecl, 0, len(names))
	for _, name := range names {
		decl, err := c.typeDecl(c.schema.Types[name])
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func (c *compiler) typeDecl(def *ast.Definition) (*TypeDecl, error) {
	decl := &TypeDecl{
		Kind:        def.Kind,
		Name:        def.Name,
		Description: def.Description,
	}

	switch def.Kind {
	case ast.Enum:
		for _, v := range def.EnumValues {
			decl.EnumCases = append(decl.EnumCases, &EnumCase{
				Name:         c.profile.EnumCaseName(def.Name, v.Name),
				Value:        v.Name,
				Description:  v.Description,
				IsDeprecated: v.Directives.ForName("deprecated") != nil,
			})
		}
	case ast.InputObject:
		for _, f := range def.Fields {
			p, err := c.compileInputField(f)
			if err != nil {
				return nil, err
			}
			decl.Fields = append(decl.Fields, p)
		}
	}
	return decl, nil
}
