package codegen

import (
	"fmt"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
)

// collectedSelection is a selection set flattened into its three parts.
// Fields are merged by response name, spreads are deduplicated by fragment
// name and inline fragments are grouped by type condition. All three keep the
// order of first occurrence.
type collectedSelection struct {
	fields     []*mergedField
	byResponse map[string]*mergedField
	typename   bool
	spreads    []*ast.FragmentSpread
	inlines    []*inlineGroup
}

type inlineGroup struct {
	typeCondition string
	selections    ast.SelectionSet
	position      *ast.Position
}

var typenameFieldDefinition = &ast.FieldDefinition{
	Name: discriminatorKey,
	Type: ast.NonNullNamedType("String", nil),
}

func responseName(field *ast.Field) string {
	if field.Alias != "" {
		return field.Alias
	}
	return field.Name
}

func hasConditionalDirective(directives ast.DirectiveList) bool {
	return directives.ForName("include") != nil || directives.ForName("skip") != nil
}

func (c *compiler) collect(parent *ast.Definition, set ast.SelectionSet, conditional bool, into *collectedSelection) error {
	for _, selection := range set {
		switch sel := selection.(type) {
		case *ast.Field:
			name := responseName(sel)
			if sel.Name == discriminatorKey && name == discriminatorKey {
				into.typename = true
				continue
			}

			cond := conditional || hasConditionalDirective(sel.Directives)
			if existing, ok := into.byResponse[name]; ok {
				existing.selections = append(existing.selections, sel.SelectionSet...)
				existing.conditional = existing.conditional && cond
				continue
			}

			def := typenameFieldDefinition
			if sel.Name != discriminatorKey {
				var err error
				if def, err = c.fieldDefinition(parent, sel); err != nil {
					return err
				}
			}

			f := &mergedField{
				responseName: name,
				name:         sel.Name,
				definition:   def,
				selections:   slices.Clone(sel.SelectionSet),
				conditional:  cond,
				position:     sel.Position,
			}
			into.fields = append(into.fields, f)
			into.byResponse[name] = f
		case *ast.FragmentSpread:
			if !slices.ContainsFunc(into.spreads, func(s *ast.FragmentSpread) bool { return s.Name == sel.Name }) {
				into.spreads = append(into.spreads, sel)
			}
		case *ast.InlineFragment:
			cond := conditional || hasConditionalDirective(sel.Directives)
			if sel.TypeCondition == "" {
				if err := c.collect(parent, sel.SelectionSet, cond, into); err != nil {
					return err
				}
				continue
			}

			idx := slices.IndexFunc(into.inlines, func(g *inlineGroup) bool { return g.typeCondition == sel.TypeCondition })
			if idx >= 0 {
				into.inlines[idx].selections = append(into.inlines[idx].selections, sel.SelectionSet...)
				continue
			}
			into.inlines = append(into.inlines, &inlineGroup{
				typeCondition: sel.TypeCondition,
				selections:    slices.Clone(sel.SelectionSet),
				position:      sel.Position,
			})
		default:
			panic(fmt.Sprintf("unexpected selection %T", selection))
		}
	}
	return nil
}

// resolvedSpread is a fragment spread checked against its enclosing type.
type resolvedSpread struct {
	fragment      *ast.FragmentDefinition
	typeDef       *ast.Definition
	possibleTypes []string
	superType     bool
}

type resolvedInline struct {
	group         *inlineGroup
	typeDef       *ast.Definition
	possibleTypes []string
}

func (c *compiler) resolveSpread(spread *ast.FragmentSpread, parentPossible []string, visiting []string) (*resolvedSpread, error) {
	fragment := c.fragments.ForName(spread.Name)
	if fragment == nil {
		return nil, &CompileError{
			Kind:     UnresolvedFragment,
			Name:     spread.Name,
			Message:  fmt.Sprintf("cannot find fragment %q", spread.Name),
			Position: spread.Position,
		}
	}
	if slices.Contains(visiting, spread.Name) {
		return nil, &CompileError{
			Kind:     MalformedSelection,
			Name:     spread.Name,
			Message:  fmt.Sprintf("cannot spread fragment %q within itself", spread.Name),
			Position: spread.Position,
		}
	}

	typeDef, possible, err := c.typeCondition(fragment.TypeCondition, fragment.Position)
	if err != nil {
		return nil, err
	}
	if !intersects(possible, parentPossible) {
		return nil, &CompileError{
			Kind:     UnsatisfiableTypeCondition,
			Name:     spread.Name,
			Message:  fmt.Sprintf("fragment %q on %q can never apply to %v", spread.Name, fragment.TypeCondition, parentPossible),
			Position: spread.Position,
		}
	}

	return &resolvedSpread{
		fragment:      fragment,
		typeDef:       typeDef,
		possibleTypes: possible,
		superType:     isSuperset(possible, parentPossible),
	}, nil
}

func (c *compiler) resolveInline(group *inlineGroup, parentPossible []string) (*resolvedInline, error) {
	typeDef, possible, err := c.typeCondition(group.typeCondition, group.position)
	if err != nil {
		return nil, err
	}
	if !intersects(possible, parentPossible) {
		return nil, &CompileError{
			Kind:     UnsatisfiableTypeCondition,
			Name:     group.typeCondition,
			Message:  fmt.Sprintf("inline fragment on %q can never apply to %v", group.typeCondition, parentPossible),
			Position: group.position,
		}
	}
	return &resolvedInline{group: group, typeDef: typeDef, possibleTypes: possible}, nil
}

func (c *compiler) typeCondition(name string, pos *ast.Position) (*ast.Definition, []string, error) {
	def := c.schema.Types[name]
	if def == nil {
		return nil, nil, &CompileError{
			Kind:     MalformedSelection,
			Name:     name,
			Message:  fmt.Sprintf("unknown type %q", name),
			Position: pos,
		}
	}
	possible, err := PossibleTypes(c.schema, def)
	if err != nil {
		return nil, nil, err
	}
	return def, possible, nil
}

// compileSelectionSet compiles set, selected on parent, into a model named ns.
// visiting holds the fragments currently being expanded.
func (c *compiler) compileSelectionSet(parent *ast.Definition, set ast.SelectionSet, ns Namespace, visiting []string) (*CompiledModel, error) {
	possible, err := PossibleTypes(c.schema, parent)
	if err != nil {
		return nil, err
	}

	col := &collectedSelection{byResponse: map[string]*mergedField{}}
	if err := c.collect(parent, set, false, col); err != nil {
		return nil, err
	}

	spreads := make([]*resolvedSpread, 0, len(col.spreads))
	conditionalSpread := false
	for _, s := range col.spreads {
		rs, err := c.resolveSpread(s, possible, visiting)
		if err != nil {
			return nil, err
		}
		conditionalSpread = conditionalSpread || !rs.superType
		spreads = append(spreads, rs)
	}

	inlines := make([]*resolvedInline, 0, len(col.inlines))
	for _, g := range col.inlines {
		ri, err := c.resolveInline(g, possible)
		if err != nil {
			return nil, err
		}
		inlines = append(inlines, ri)
	}

	model := &CompiledModel{
		QualifiedName: ns.String(),
		Path:          ns.Path(),
		HostName:      c.profile.ModelName(ns.Path()),
		ParentType:    parent.Name,
		IsAbstract:    isAbstractKind(parent.Kind),
		PossibleTypes: possible,
	}
	hasDiscriminator := model.IsAbstract || len(inlines) > 0 || conditionalSpread || col.typename

	// Reserve the names of synthesized members before allocating field names.
	var reservedModels, reservedProps []string
	if hasDiscriminator {
		reservedProps = append(reservedProps, discriminatorKey)
	}
	if len(spreads) > 0 {
		reservedModels = append(reservedModels, fragmentsContainerName)
		reservedProps = append(reservedProps, camel(fragmentsContainerName))
	}
	for _, ri := range inlines {
		reservedModels = append(reservedModels, variantTypeName(ri.group.typeCondition))
		reservedProps = append(reservedProps, camel(variantTypeName(ri.group.typeCondition)))
	}

	var compositeKeys, allKeys []string
	for _, f := range col.fields {
		allKeys = append(allKeys, f.responseName)
		if def := c.schema.Types[f.definition.Type.Name()]; def != nil && isCompositeKind(def.Kind) {
			compositeKeys = append(compositeKeys, f.responseName)
		}
	}
	modelNames := allocateNames(reservedModels, compositeKeys, modelTypeName, pascal)
	propNames := allocateNames(reservedProps, allKeys, camel, camel)

	if hasDiscriminator {
		model.Properties = append(model.Properties, c.discriminatorProperty())
	}

	for _, f := range col.fields {
		var childNS Namespace
		if name, ok := modelNames[f.responseName]; ok {
			childNS = ns.Child(name)
		}

		p, def, err := c.compileProperty(f, propNames[f.responseName], childNS)
		if err != nil {
			return nil, err
		}
		if def != nil {
			child, err := c.compileSelectionSet(def, f.selections, childNS, visiting)
			if err != nil {
				return nil, err
			}
			p.Model = child
			model.NestedModels = append(model.NestedModels, child)
		}
		model.Properties = append(model.Properties, p)
	}

	if len(spreads) > 0 {
		container, err := c.compileFragmentsContainer(parent, possible, spreads, ns.Child(fragmentsContainerName), visiting)
		if err != nil {
			return nil, err
		}
		typ := NewNonNull(NewNamed(parent.Kind, parent.Name))
		model.FragmentsContainer = container
		model.Properties = append(model.Properties, &PropertyDescriptor{
			Name:         camel(fragmentsContainerName),
			Kind:         PropertyFragments,
			Type:         typ,
			HostTypeName: c.profile.TypeName(typ, container.HostName, c.opts.PassthroughCustomScalars),
			IsComposite:  true,
			Retain:       RetainReference,
			ModelName:    container.QualifiedName,
			Model:        container,
		})
	}

	for _, ri := range inlines {
		name := variantTypeName(ri.group.typeCondition)
		variant, err := c.compileSelectionSet(ri.typeDef, ri.group.selections, ns.Child(name), visiting)
		if err != nil {
			return nil, err
		}
		typ := NewNamed(ri.typeDef.Kind, ri.typeDef.Name)
		model.InlineVariants = append(model.InlineVariants, variant)
		model.Properties = append(model.Properties, &PropertyDescriptor{
			Name:          camel(name),
			Kind:          PropertyInlineFragment,
			Type:          typ,
			HostTypeName:  c.profile.TypeName(typ, variant.HostName, c.opts.PassthroughCustomScalars),
			IsOptional:    true,
			IsComposite:   true,
			Retain:        RetainReference,
			ModelName:     variant.QualifiedName,
			Model:         variant,
			PossibleTypes: ri.possibleTypes,
		})
	}

	model.Decoder = c.compileDecodeRoutine(model)
	return model, nil
}

// compileFragmentsContainer builds the Fragments model: one property per
// spread, each holding the fragment recompiled for this use site.
func (c *compiler) compileFragmentsContainer(parent *ast.Definition, possible []string, spreads []*resolvedSpread, ns Namespace, visiting []string) (*CompiledModel, error) {
	container := &CompiledModel{
		QualifiedName: ns.String(),
		Path:          ns.Path(),
		HostName:      c.profile.ModelName(ns.Path()),
		ParentType:    parent.Name,
		IsAbstract:    isAbstractKind(parent.Kind),
		PossibleTypes: possible,
	}

	fragmentNames := make([]string, 0, len(spreads))
	for _, rs := range spreads {
		fragmentNames = append(fragmentNames, rs.fragment.Name)
	}
	modelNames := allocateNames(nil, fragmentNames, pascal, pascal)
	propNames := allocateNames(nil, fragmentNames, camel, camel)

	for _, rs := range spreads {
		name := rs.fragment.Name
		fragmentModel, err := c.compileSelectionSet(rs.typeDef, rs.fragment.SelectionSet, ns.Child(modelNames[name]), append(slices.Clone(visiting), name))
		if err != nil {
			return nil, err
		}
		fragmentModel.FragmentName = name

		typ := NewNamed(rs.typeDef.Kind, rs.typeDef.Name)
		var gate []string
		if rs.superType {
			typ = NewNonNull(typ)
		} else {
			gate = rs.possibleTypes
		}

		container.NestedModels = append(container.NestedModels, fragmentModel)
		container.Properties = append(container.Properties, &PropertyDescriptor{
			Name:              propNames[name],
			Kind:              PropertyFragment,
			Type:              typ,
			HostTypeName:      c.profile.TypeName(typ, fragmentModel.HostName, c.opts.PassthroughCustomScalars),
			IsOptional:        !rs.superType,
			IsComposite:       true,
			Retain:            RetainReference,
			ModelName:         fragmentModel.QualifiedName,
			Model:             fragmentModel,
			PossibleTypes:     gate,
			IsProperSuperType: rs.superType,
		})
	}

	container.Decoder = c.compileDecodeRoutine(container)
	return container, nil
}

func (c *compiler) discriminatorProperty() *PropertyDescriptor {
	typ := NewNonNull(NewNamed(ast.Scalar, "String"))
	return &PropertyDescriptor{
		Name:              discriminatorKey,
		Kind:              PropertyDiscriminator,
		Type:              typ,
		HostTypeName:      c.profile.TypeName(typ, "", false),
		Retain:            RetainCopy,
		SourceResponseKey: discriminatorKey,
		FieldName:         discriminatorKey,
	}
}
