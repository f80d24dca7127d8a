package querygen

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

const header = "// Code generated by gqlmodelgen, DO NOT EDIT.\n\n"

// RenderTemplate は unit の Go ソースを filename に書き出す。
// unit は go ホストでコンパイルされている必要がある。
func RenderTemplate(filename, packageName string, unit *codegen.CompiledUnit, passthroughCustomScalars bool) error {
	src, err := Render(packageName, unit, passthroughCustomScalars)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(filename, []byte(src), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	return nil
}

// Render は unit の Go ソースを返す。import の整理は呼び出し側で行う。
func Render(packageName string, unit *codegen.CompiledUnit, passthroughCustomScalars bool) (string, error) {
	if unit.Host != codegen.DefaultHost {
		return "", fmt.Errorf("querygen renders the %q host, got %q", codegen.DefaultHost, unit.Host)
	}

	g := NewCodeGenerator()

	var body strings.Builder
	if scalars := customScalars(unit); len(scalars) > 0 {
		if passthroughCustomScalars {
			for _, name := range scalars {
				body.WriteString(fmt.Sprintf("// %s keeps the raw JSON of the custom scalar.\n", name))
				body.WriteString(fmt.Sprintf("type %s = jsontext.Value\n\n", name))
			}
		} else {
			profile, err := codegen.LookupHost(unit.Host)
			if err != nil {
				return "", err
			}
			body.WriteString(g.formatter.FormatCustomScalar(profile.CustomScalarName()))
			body.WriteString("\n")
		}
	}

	for _, decl := range unit.TypesUsed {
		body.WriteString(g.GenerateTypeDecl(decl))
		body.WriteString("\n")
	}

	for _, op := range unit.Operations {
		code, err := g.GenerateOperation(op)
		if err != nil {
			return "", fmt.Errorf("operation %s: %w", op.ClassName, err)
		}
		body.WriteString(code)
	}

	for _, f := range unit.Fragments {
		code, err := g.Generate(f.Model)
		if err != nil {
			return "", fmt.Errorf("fragment %s: %w", f.Name, err)
		}
		body.WriteString(code)
	}

	var buf strings.Builder
	buf.WriteString(header)
	buf.WriteString(fmt.Sprintf("package %s\n\n", packageName))
	buf.WriteString(importBlock(body.String()))
	buf.WriteString(strings.TrimRight(body.String(), "\n"))
	buf.WriteString("\n")

	return buf.String(), nil
}

// importBlock は src が参照するパッケージだけを import する。
// goimports に任せると json が encoding/json に解決されることがあるため、ここで決める。
func importBlock(src string) string {
	var std, third []string
	if strings.Contains(src, "errors.") {
		std = append(std, `"errors"`)
	}
	if strings.Contains(src, "json.") {
		third = append(third, `"github.com/go-json-experiment/json"`)
	}
	if strings.Contains(src, "jsontext.") {
		third = append(third, `"github.com/go-json-experiment/json/jsontext"`)
	}
	if len(std)+len(third) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("import (\n")
	for _, path := range std {
		buf.WriteString("\t" + path + "\n")
	}
	if len(std) > 0 && len(third) > 0 {
		buf.WriteString("\n")
	}
	for _, path := range third {
		buf.WriteString("\t" + path + "\n")
	}
	buf.WriteString(")\n\n")
	return buf.String()
}

// customScalars は unit が参照するカスタムスカラー名を名前順で返す。
func customScalars(unit *codegen.CompiledUnit) []string {
	var names []string
	add := func(t codegen.TypeExpr) {
		named := codegen.NamedOf(t)
		if named.Kind != ast.Scalar || isBuiltinScalar(named.Name) || slices.Contains(names, named.Name) {
			return
		}
		names = append(names, named.Name)
	}
	visit := func(m *codegen.CompiledModel) error {
		for _, p := range m.Properties {
			if !p.IsComposite {
				add(p.Type)
			}
		}
		return nil
	}

	for _, op := range unit.Operations {
		for _, v := range op.Variables {
			add(v.Type)
		}
		_ = op.Data.Walk(visit)
	}
	for _, f := range unit.Fragments {
		_ = f.Model.Walk(visit)
	}
	for _, decl := range unit.TypesUsed {
		for _, p := range decl.Fields {
			add(p.Type)
		}
	}

	slices.Sort(names)
	return names
}

func isBuiltinScalar(name string) bool {
	switch name {
	case "String", "ID", "Int", "Float", "Boolean":
		return true
	}
	return false
}
