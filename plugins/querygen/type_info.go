package querygen

import "github.com/gqlgo/gqlmodelgen/codegen"

// TypeInfo はコンパイル済みモデル 1 つ分の、コード生成に必要な情報を表す。
type TypeInfo struct {
	Model                   *codegen.CompiledModel
	TypeName                string
	Fields                  []FieldInfo
	ShouldGenerateUnmarshal bool
	// TypenameExpr はデコード中に具象型名を保持する Go の式。
	// 判別子も具象型も無い場合は空。
	TypenameExpr string
}

// FieldInfo は構造体フィールドの情報を表す
type FieldInfo struct {
	Name             string
	TypeName         string
	JSONTag          string
	Property         *codegen.PropertyDescriptor
	IsInlineFragment bool
	IsPointer        bool
	PointerElemType  string
	SubFields        []FieldInfo // Fragments コンテナの場合、コンテナのフィールドを含む
}

// InlineFragmentInfo は __typename でゲートされるフィールドを表す。
// inline fragment と条件付き fragment spread の両方に使う。
type InlineFragmentInfo struct {
	Field         FieldInfo
	FieldExpr     string
	ElemTypeStr   string
	PossibleTypes []string
}
