package querygen

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

// CodeGenerator orchestrates all generators to produce complete type code
type CodeGenerator struct {
	formatter        *CodeFormatter
	unmarshalBuilder *UnmarshalBuilder
	analyzer         *FieldAnalyzer
}

// NewCodeGenerator creates a new CodeGenerator
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{
		formatter:        NewCodeFormatter(),
		unmarshalBuilder: NewUnmarshalBuilder(),
		analyzer:         NewFieldAnalyzer(),
	}
}

// Generate generates complete code for a model and every model nested in it
// (type definition, UnmarshalJSON, getters), parents first.
func (g *CodeGenerator) Generate(root *codegen.CompiledModel) (string, error) {
	var buf strings.Builder

	containers := map[*codegen.CompiledModel]bool{}
	_ = root.Walk(func(m *codegen.CompiledModel) error {
		if m.FragmentsContainer != nil {
			containers[m.FragmentsContainer] = true
		}
		return nil
	})

	err := root.Walk(func(m *codegen.CompiledModel) error {
		typeInfo, err := g.buildTypeInfo(m, containers[m])
		if err != nil {
			return fmt.Errorf("failed to analyze %s: %w", m.QualifiedName, err)
		}
		buf.WriteString(g.emit(*typeInfo))
		buf.WriteString("\n")
		return nil
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

// GenerateOperation generates the document constant, the variables type and its
// constructor, and the response models of an operation.
func (g *CodeGenerator) GenerateOperation(op *codegen.Operation) (string, error) {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("// %sDocument is the %s document with every fragment it references.\n", op.ClassName, op.Kind))
	buf.WriteString(fmt.Sprintf("const %sDocument = %q\n\n", op.ClassName, op.Document))

	variablesType := op.ClassName + "Variables"
	fields := g.analyzer.AnalyzeFields(&codegen.CompiledModel{Properties: op.Variables})
	buf.WriteString(g.formatter.FormatInputObject(variablesType, "", fields))
	buf.WriteString("\n")
	buf.WriteString(g.formatter.FormatConstructor(variablesType, fields, paramNames(op.Initializer)))
	buf.WriteString("\n")

	models, err := g.Generate(op.Data)
	if err != nil {
		return "", err
	}
	buf.WriteString(models)

	return buf.String(), nil
}

// GenerateTypeDecl generates an enum or an input object.
func (g *CodeGenerator) GenerateTypeDecl(decl *codegen.TypeDecl) string {
	if len(decl.EnumCases) > 0 {
		return g.formatter.FormatEnum(decl)
	}
	fields := g.analyzer.AnalyzeFields(&codegen.CompiledModel{Properties: decl.Fields})
	return g.formatter.FormatInputObject(decl.Name, decl.Description, fields)
}

// emit は型定義、UnmarshalJSON メソッド、getter メソッドを含む
// 型の完全なコードを生成する。
func (g *CodeGenerator) emit(typeInfo TypeInfo) string {
	decls := []string{g.formatter.FormatTypeDecl(typeInfo.TypeName, typeInfo.Fields)}

	if typeInfo.ShouldGenerateUnmarshal {
		statements := g.unmarshalBuilder.BuildUnmarshalMethod(typeInfo)
		decls = append(decls, g.formatter.FormatUnmarshalMethod(typeInfo.TypeName, statements))
	}

	for _, field := range typeInfo.Fields {
		decls = append(decls, g.formatter.FormatGetter(
			typeInfo.TypeName,
			field.Name,
			field.TypeName,
		))
	}
	return strings.Join(decls, "\n")
}

// buildTypeInfo はコンパイル済みモデルを解析し、コード生成に必要な情報を抽出する。
// Fragments コンテナは親の UnmarshalJSON が同じ JSON からデコードするため、
// UnmarshalJSON の生成をスキップする。
func (g *CodeGenerator) buildTypeInfo(m *codegen.CompiledModel, container bool) (*TypeInfo, error) {
	if m.HostName == "" {
		return nil, fmt.Errorf("model %s has no host name", m.QualifiedName)
	}

	return &TypeInfo{
		Model:                   m,
		TypeName:                m.HostName,
		Fields:                  g.analyzer.AnalyzeFields(m),
		ShouldGenerateUnmarshal: !container,
		TypenameExpr:            typenameExpr(m),
	}, nil
}

func typenameExpr(m *codegen.CompiledModel) string {
	if m.Discriminator() != nil {
		return "t.Typename"
	}
	if !m.IsAbstract && m.ParentType != "" {
		return fmt.Sprintf("%q", m.ParentType)
	}
	return ""
}

func paramNames(init *codegen.Initializer) []string {
	names := make([]string, 0, len(init.Params))
	for _, p := range init.Params {
		name := p.Label
		if token.IsKeyword(name) || name == "t" {
			name += "_"
		}
		names = append(names, name)
	}
	return names
}
