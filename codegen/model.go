package codegen

type PropertyKind string

const (
	PropertyField          PropertyKind = "field"
	PropertyDiscriminator  PropertyKind = "discriminator"
	PropertyFragments      PropertyKind = "fragments"
	PropertyFragment       PropertyKind = "fragment"
	PropertyInlineFragment PropertyKind = "inlineFragment"
	PropertyVariable       PropertyKind = "variable"
)

// PropertyDescriptor describes one member of a compiled model.
type PropertyDescriptor struct {
	Name         string
	Kind         PropertyKind
	Type         TypeExpr
	HostTypeName string
	IsOptional   bool
	// IsConditional is set for fields that may be absent from a response
	// even when their type is non-null (@include/@skip).
	IsConditional bool
	IsComposite   bool
	Retain        RetainPolicy
	// SourceResponseKey is the key read from the response map. It is empty
	// for properties decoded from the enclosing map (fragments, variants).
	SourceResponseKey string
	FieldName         string
	// ModelName and Model point at the nested model this property decodes
	// into. Leaves have neither.
	ModelName string
	Model     *CompiledModel
	// PossibleTypes gates decoding on the discriminator. Nil means the
	// property is decoded unconditionally.
	PossibleTypes     []string
	IsProperSuperType bool
	Description       string
	IsDeprecated      bool
}

// CompiledModel is one generated model declaration. It owns every model
// nested inside it.
type CompiledModel struct {
	QualifiedName string
	Path          []string
	HostName      string
	ParentType    string
	IsAbstract    bool
	PossibleTypes []string
	// FragmentName is set on models compiled from a named fragment.
	FragmentName       string
	Properties         []*PropertyDescriptor
	NestedModels       []*CompiledModel
	FragmentsContainer *CompiledModel
	InlineVariants     []*CompiledModel
	Decoder            *DecodeRoutine
}

// Property returns the property called name, or nil.
func (m *CompiledModel) Property(name string) *PropertyDescriptor {
	for _, p := range m.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Discriminator returns the __typename property, or nil.
func (m *CompiledModel) Discriminator() *PropertyDescriptor {
	for _, p := range m.Properties {
		if p.Kind == PropertyDiscriminator {
			return p
		}
	}
	return nil
}

// Children returns the owned models in declaration order: nested field
// models, then the fragments container, then the inline variants.
func (m *CompiledModel) Children() []*CompiledModel {
	children := make([]*CompiledModel, 0, len(m.NestedModels)+1+len(m.InlineVariants))
	children = append(children, m.NestedModels...)
	if m.FragmentsContainer != nil {
		children = append(children, m.FragmentsContainer)
	}
	return append(children, m.InlineVariants...)
}

// Walk visits m and every model it owns, depth first, parents before
// children. Fragment models owned by a container are visited as children of
// the container.
func (m *CompiledModel) Walk(fn func(*CompiledModel) error) error {
	if err := fn(m); err != nil {
		return err
	}
	for _, child := range m.Children() {
		if err := child.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}
