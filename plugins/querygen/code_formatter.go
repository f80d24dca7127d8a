package querygen

import (
	"fmt"
	"strings"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

// CodeFormatter は生成されるコードをフォーマットする。
type CodeFormatter struct{}

// NewCodeFormatter は新しい CodeFormatter を作成する。
func NewCodeFormatter() *CodeFormatter {
	return &CodeFormatter{}
}

// FormatTypeDecl は型定義を文字列にフォーマットする。
//
// パラメータ:
//   - typeName: 型名（例: "HeroQuery_Data_Hero"）
//   - fields: フィールドの情報
//
// 戻り値: フォーマットされた型定義（例: "type HeroQuery_Data_Hero struct { ... }\n"）
func (f *CodeFormatter) FormatTypeDecl(typeName string, fields []FieldInfo) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("type %s struct {\n", typeName))
	for _, field := range fields {
		buf.WriteString(formatDescription("\t", field.Property.Description))
		if field.Property.IsDeprecated {
			buf.WriteString("\t// Deprecated: the field is deprecated in the schema.\n")
		}
		buf.WriteString(fmt.Sprintf("\t%s %s `json:%q`\n", field.Name, field.TypeName, field.JSONTag))
	}
	buf.WriteString("}\n")

	return buf.String()
}

// FormatUnmarshalMethod は UnmarshalJSON メソッドを文字列にフォーマットする。
//
// 生成される UnmarshalJSON メソッドは、GraphQL レスポンスの JSON データを
// 構造体にデシリアライズするために使用される。
//
// パラメータ:
//   - typeName: レシーバ型の名前（例: "HeroQuery_Data_Hero"）
//   - body: メソッド本体のステートメントリスト
//
// 戻り値: フォーマットされた UnmarshalJSON メソッド定義
func (f *CodeFormatter) FormatUnmarshalMethod(typeName string, body []Statement) string {
	var buf strings.Builder

	// Method signature
	buf.WriteString(fmt.Sprintf("func (t *%s) UnmarshalJSON(data []byte) error {\n", typeName))

	// Method body
	for _, stmt := range body {
		buf.WriteString("\t")
		buf.WriteString(stmt.String(1))
		buf.WriteString("\n")
	}

	// Closing
	buf.WriteString("}\n")

	return buf.String()
}

// FormatGetter は getter メソッドを文字列にフォーマットする。
//
// 生成される getter メソッドは nil セーフで、レシーバが nil の場合は
// ゼロ値で初期化された構造体を返す。
//
// パラメータ:
//   - typeName: レシーバ型の名前（例: "User"）
//   - fieldName: フィールド名（例: "Name"）
//   - fieldType: フィールドの型（例: "string"）
//
// 戻り値: フォーマットされた getter メソッド定義（例: "func (t *User) GetName() string { ... }"）
func (f *CodeFormatter) FormatGetter(typeName, fieldName, fieldType string) string {
	return fmt.Sprintf(`func (t *%s) Get%s() %s {
	if t == nil {
		t = &%s{}
	}
	return t.%s
}
`, typeName, fieldName, fieldType, typeName, fieldName)
}

// FormatEnum は enum を文字列型と定数の組にフォーマットする。
//
//	type Episode string
//
//	const (
//		EpisodeNewhope Episode = "NEWHOPE"
//	)
func (f *CodeFormatter) FormatEnum(decl *codegen.TypeDecl) string {
	var buf strings.Builder

	buf.WriteString(formatDescription("", decl.Description))
	buf.WriteString(fmt.Sprintf("type %s string\n\n", decl.Name))
	buf.WriteString("const (\n")
	for _, c := range decl.EnumCases {
		buf.WriteString(formatDescription("\t", c.Description))
		if c.IsDeprecated {
			buf.WriteString("\t// Deprecated: the value is deprecated in the schema.\n")
		}
		buf.WriteString(fmt.Sprintf("\t%s %s = %q\n", c.Name, decl.Name, c.Value))
	}
	buf.WriteString(")\n")

	return buf.String()
}

// FormatInputObject は input object を構造体にフォーマットする。
// 省略可能なフィールドには omitempty を付け、null を送らないようにする。
func (f *CodeFormatter) FormatInputObject(typeName, description string, fields []FieldInfo) string {
	var buf strings.Builder

	buf.WriteString(formatDescription("", description))
	buf.WriteString(fmt.Sprintf("type %s struct {\n", typeName))
	for _, field := range fields {
		buf.WriteString(formatDescription("\t", field.Property.Description))
		tag := field.JSONTag
		if field.Property.IsOptional {
			tag += ",omitempty"
		}
		buf.WriteString(fmt.Sprintf("\t%s %s `json:%q`\n", field.Name, field.TypeName, tag))
	}
	buf.WriteString("}\n")

	return buf.String()
}

// FormatConstructor は変数構造体のコンストラクタをフォーマットする。
//
//	func NewHeroQueryVariables(episode *Episode) *HeroQueryVariables {
//		return &HeroQueryVariables{
//			Episode: episode,
//		}
//	}
func (f *CodeFormatter) FormatConstructor(typeName string, fields []FieldInfo, params []string) string {
	var buf strings.Builder

	args := make([]string, 0, len(fields))
	for i, field := range fields {
		args = append(args, fmt.Sprintf("%s %s", params[i], field.TypeName))
	}

	buf.WriteString(fmt.Sprintf("func New%s(%s) *%s {\n", typeName, strings.Join(args, ", "), typeName))
	if len(fields) == 0 {
		buf.WriteString(fmt.Sprintf("\treturn &%s{}\n}\n", typeName))
		return buf.String()
	}
	buf.WriteString(fmt.Sprintf("\treturn &%s{\n", typeName))
	for i, field := range fields {
		buf.WriteString(fmt.Sprintf("\t\t%s: %s,\n", field.Name, params[i]))
	}
	buf.WriteString("\t}\n}\n")

	return buf.String()
}

func formatDescription(indent, description string) string {
	if description == "" {
		return ""
	}
	var buf strings.Builder
	for line := range strings.SplitSeq(strings.TrimSpace(description), "\n") {
		buf.WriteString(strings.TrimRight(indent+"// "+line, " "))
		buf.WriteString("\n")
	}
	return buf.String()
}

// FormatCustomScalar はパススルーしないカスタムスカラーの型をフォーマットする。
// JSON 文字列はそのまま、それ以外の値は正規化した JSON テキストとして保持する。
func (f *CodeFormatter) FormatCustomScalar(typeName string) string {
	return fmt.Sprintf(`// %[1]s holds a custom scalar. A JSON string is kept as is, any other
// value as its canonical JSON text.
type %[1]s string

func (s *%[1]s) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = %[1]s(str)
		return nil
	}
	v := jsontext.Value(data)
	if err := v.Canonicalize(); err != nil {
		return err
	}
	*s = %[1]s(v)
	return nil
}
`, typeName)
}
