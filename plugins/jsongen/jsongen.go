// Package jsongen writes a compiled unit as JSON so that renderers for other
// hosts (swift, objc, typescript) can consume the models without linking Go.
package jsongen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/99designs/gqlgen/plugin"

	"github.com/gqlgo/gqlmodelgen/codegen"
	"github.com/gqlgo/gqlmodelgen/config"
)

var _ plugin.Plugin = &Plugin{}

type Plugin struct {
	cfg  *config.Config
	unit *codegen.CompiledUnit
}

func New(cfg *config.Config, unit *codegen.CompiledUnit) *Plugin {
	return &Plugin{cfg: cfg, unit: unit}
}

func (p *Plugin) Name() string {
	return "jsongen"
}

// Generate writes the unit to the configured filename.
func (p *Plugin) Generate() error {
	content, err := Marshal(p.unit)
	if err != nil {
		return err
	}

	filename := p.cfg.JSONGen.Filename
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// Marshal encodes unit as indented JSON with a trailing newline. Nil slices
// are written as [] and the output is stable for the same unit.
func Marshal(unit *codegen.CompiledUnit) ([]byte, error) {
	content, err := json.Marshal(newUnit(unit), json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return nil, fmt.Errorf("encode unit: %w", err)
	}
	return append(content, '\n'), nil
}

type unitJSON struct {
	Host       string           `json:"host"`
	Operations []*operationJSON `json:"operations"`
	Fragments  []*fragmentJSON  `json:"fragments"`
	TypesUsed  []*typeDeclJSON  `json:"typesUsed"`
}

type operationJSON struct {
	Name                string          `json:"operationName"`
	Kind                string          `json:"operationType"`
	ClassName           string          `json:"className"`
	Source              string          `json:"source"`
	Document            string          `json:"document"`
	FragmentsReferenced []string        `json:"fragmentsReferenced"`
	Variables           []*propertyJSON `json:"variables"`
	Initializer         []*paramJSON    `json:"initializer"`
	Data                *modelJSON      `json:"data"`
}

type paramJSON struct {
	Label      string `json:"label"`
	TypeName   string `json:"typeName"`
	IsOptional bool   `json:"isOptional"`
}

type fragmentJSON struct {
	Name          string     `json:"fragmentName"`
	TypeCondition string     `json:"typeCondition"`
	PossibleTypes []string   `json:"possibleTypes"`
	Source        string     `json:"source"`
	Model         *modelJSON `json:"model"`
}

type modelJSON struct {
	Name          string          `json:"name"`
	HostName      string          `json:"hostName"`
	ParentType    string          `json:"parentType"`
	IsAbstract    bool            `json:"isAbstract,omitzero"`
	PossibleTypes []string        `json:"possibleTypes"`
	FragmentName  string          `json:"fragmentName,omitzero"`
	Properties    []*propertyJSON `json:"properties"`
	Models        []*modelJSON    `json:"models,omitempty"`
	Decoder       *routineJSON    `json:"decoder,omitzero"`
}

type propertyJSON struct {
	Name              string   `json:"name"`
	Kind              string   `json:"kind"`
	Type              string   `json:"type,omitzero"`
	TypeName          string   `json:"typeName"`
	IsOptional        bool     `json:"isOptional"`
	IsConditional     bool     `json:"isConditional,omitzero"`
	IsComposite       bool     `json:"isComposite,omitzero"`
	Retain            string   `json:"retain,omitzero"`
	ResponseKey       string   `json:"responseKey,omitzero"`
	FieldName         string   `json:"fieldName,omitzero"`
	ModelName         string   `json:"modelName,omitzero"`
	PossibleTypes     []string `json:"possibleTypes,omitempty"`
	IsProperSuperType bool     `json:"isProperSuperType,omitzero"`
	Description       string   `json:"description,omitzero"`
	IsDeprecated      bool     `json:"isDeprecated,omitzero"`
}

type routineJSON struct {
	Model         string             `json:"model"`
	TypeName      string             `json:"typeName,omitzero"`
	Discriminator *discriminatorJSON `json:"discriminator,omitzero"`
	Steps         []*stepJSON        `json:"steps"`
}

type discriminatorJSON struct {
	Key      string `json:"key"`
	Property string `json:"property"`
	Default  string `json:"default,omitzero"`
}

type stepJSON struct {
	Property    string       `json:"property"`
	Key         string       `json:"key,omitzero"`
	Action      string       `json:"action"`
	Type        string       `json:"type,omitzero"`
	Coercion    string       `json:"coercion,omitzero"`
	EnumValues  []string     `json:"enumValues,omitempty"`
	Conditional bool         `json:"conditional,omitzero"`
	Gate        []string     `json:"gate,omitempty"`
	Routine     *routineJSON `json:"routine,omitzero"`
}

type typeDeclJSON struct {
	Kind        string          `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitzero"`
	Cases       []*enumCaseJSON `json:"cases,omitempty"`
	Fields      []*propertyJSON `json:"fields,omitempty"`
}

type enumCaseJSON struct {
	Name         string `json:"name"`
	Value        string `json:"value"`
	Description  string `json:"description,omitzero"`
	IsDeprecated bool   `json:"isDeprecated,omitzero"`
}

func newUnit(u *codegen.CompiledUnit) *unitJSON {
	out := &unitJSON{
		Host:       u.Host,
		Operations: make([]*operationJSON, 0, len(u.Operations)),
		Fragments:  make([]*fragmentJSON, 0, len(u.Fragments)),
		TypesUsed:  make([]*typeDeclJSON, 0, len(u.TypesUsed)),
	}
	for _, op := range u.Operations {
		o := &operationJSON{
			Name:                op.Name,
			Kind:                string(op.Kind),
			ClassName:           op.ClassName,
			Source:              op.Source,
			Document:            op.Document,
			FragmentsReferenced: op.FragmentsReferenced,
			Variables:           newProperties(op.Variables),
			Initializer:         []*paramJSON{},
			Data:                newModel(op.Data),
		}
		if op.Initializer != nil {
			for _, p := range op.Initializer.Params {
				o.Initializer = append(o.Initializer, &paramJSON{Label: p.Label, TypeName: p.HostTypeName, IsOptional: p.IsOptional})
			}
		}
		out.Operations = append(out.Operations, o)
	}
	for _, f := range u.Fragments {
		out.Fragments = append(out.Fragments, &fragmentJSON{
			Name:          f.Name,
			TypeCondition: f.TypeCondition,
			PossibleTypes: f.PossibleTypes,
			Source:        f.Source,
			Model:         newModel(f.Model),
		})
	}
	for _, t := range u.TypesUsed {
		decl := &typeDeclJSON{
			Kind:        string(t.Kind),
			Name:        t.Name,
			Description: t.Description,
			Fields:      newProperties(t.Fields),
		}
		for _, c := range t.EnumCases {
			decl.Cases = append(decl.Cases, &enumCaseJSON{Name: c.Name, Value: c.Value, Description: c.Description, IsDeprecated: c.IsDeprecated})
		}
		out.TypesUsed = append(out.TypesUsed, decl)
	}
	return out
}

func newModel(m *codegen.CompiledModel) *modelJSON {
	if m == nil {
		return nil
	}
	out := &modelJSON{
		Name:          m.QualifiedName,
		HostName:      m.HostName,
		ParentType:    m.ParentType,
		IsAbstract:    m.IsAbstract,
		PossibleTypes: m.PossibleTypes,
		FragmentName:  m.FragmentName,
		Properties:    newProperties(m.Properties),
		Decoder:       newRoutine(m.Decoder),
	}
	for _, child := range m.Children() {
		out.Models = append(out.Models, newModel(child))
	}
	return out
}

func newProperties(props []*codegen.PropertyDescriptor) []*propertyJSON {
	out := make([]*propertyJSON, 0, len(props))
	for _, p := range props {
		prop := &propertyJSON{
			Name:              p.Name,
			Kind:              string(p.Kind),
			TypeName:          p.HostTypeName,
			IsOptional:        p.IsOptional,
			IsConditional:     p.IsConditional,
			IsComposite:       p.IsComposite,
			Retain:            string(p.Retain),
			ResponseKey:       p.SourceResponseKey,
			FieldName:         p.FieldName,
			ModelName:         p.ModelName,
			PossibleTypes:     p.PossibleTypes,
			IsProperSuperType: p.IsProperSuperType,
			Description:       p.Description,
			IsDeprecated:      p.IsDeprecated,
		}
		if p.Type != nil {
			prop.Type = p.Type.String()
		}
		out = append(out, prop)
	}
	return out
}

func newRoutine(r *codegen.DecodeRoutine) *routineJSON {
	if r == nil {
		return nil
	}
	out := &routineJSON{
		Model:    r.Model,
		TypeName: r.TypeName,
		Steps:    make([]*stepJSON, 0, len(r.Steps)),
	}
	if d := r.Discriminator; d != nil {
		out.Discriminator = &discriminatorJSON{Key: d.Key, Property: d.Property, Default: d.Default}
	}
	for _, s := range r.Steps {
		step := &stepJSON{
			Property:    s.Property,
			Key:         s.Key,
			Action:      string(s.Action),
			Coercion:    string(s.Coercion),
			EnumValues:  s.EnumValues,
			Conditional: s.Conditional,
			Gate:        s.Gate,
			Routine:     newRoutine(s.Routine),
		}
		if s.Type != nil {
			step.Type = s.Type.String()
		}
		out.Steps = append(out.Steps, step)
	}
	return out
}
