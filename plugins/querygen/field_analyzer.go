package querygen

import (
	"strconv"
	"strings"

	"github.com/99designs/gqlgen/codegen/templates"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

// FieldAnalyzer はコンパイル済みモデルのプロパティを解析し、FieldInfo構造体のリストを構築する。
// Go のフィールド名の決定、インラインフラグメントの検出、
// Fragments コンテナの再帰的解析などを行う。
type FieldAnalyzer struct {
	classifier *FieldClassifier
}

// NewFieldAnalyzer creates a new FieldAnalyzer
func NewFieldAnalyzer() *FieldAnalyzer {
	return &FieldAnalyzer{
		classifier: NewFieldClassifier(),
	}
}

// AnalyzeFields はモデル内の全プロパティを解析し、フィールド情報を抽出する。
//
// このメソッドは各プロパティを処理し:
//   - Go のフィールド名を決める（重複する場合は数字の接尾辞を付ける）
//   - フィールドマッピング用の JSON タグを決める
//   - inline fragments を検出（json:"-" を持つポインタフィールド）
//   - Fragments コンテナの SubFields を再帰的に解析
func (a *FieldAnalyzer) AnalyzeFields(m *codegen.CompiledModel) []FieldInfo {
	fields := make([]FieldInfo, 0, len(m.Properties))
	used := make(map[string]bool, len(m.Properties))

	for _, p := range m.Properties {
		info := a.analyzeField(p)
		info.Name = uniqueName(used, info.Name)
		fields = append(fields, info)
	}

	return fields
}

// analyzeField は単一プロパティを解析し、その FieldInfo を返す。
func (a *FieldAnalyzer) analyzeField(p *codegen.PropertyDescriptor) FieldInfo {
	info := FieldInfo{
		Name:     goFieldName(p),
		TypeName: p.HostTypeName,
		JSONTag:  a.classifier.jsonTag(p),
		Property: p,
	}

	if a.classifier.IsInlineFragment(p) {
		info.IsInlineFragment = true
	}

	if elem, ok := strings.CutPrefix(p.HostTypeName, "*"); ok {
		info.IsPointer = true
		info.PointerElemType = elem
	}

	// Fragments コンテナは親と同じ JSON からデコードされるため、
	// コンテナ自身のフィールドも親の UnmarshalJSON で扱う
	if p.Kind == codegen.PropertyFragments && p.Model != nil {
		info.SubFields = a.AnalyzeFields(p.Model)
	}

	return info
}

func goFieldName(p *codegen.PropertyDescriptor) string {
	if p.Kind == codegen.PropertyDiscriminator {
		return "Typename"
	}
	name := templates.ToGo(strings.TrimLeft(p.Name, "_"))
	if name == "" {
		return "Field"
	}
	return name
}

func uniqueName(used map[string]bool, name string) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	used[candidate] = true
	return candidate
}
