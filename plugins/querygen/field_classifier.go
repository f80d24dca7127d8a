package querygen

import (
	"github.com/gqlgo/gqlmodelgen/codegen"
)

// FieldClassifier はプロパティを分類する責務を持つ。
// GraphQLのインラインフラグメント、フラグメントスプレッド、通常フィールドを識別し、
// 適切なコード生成を可能にする。
type FieldClassifier struct{}

// NewFieldClassifier は新しい FieldClassifier を作成する。
func NewFieldClassifier() *FieldClassifier {
	return &FieldClassifier{}
}

// IsInlineFragment はプロパティが __typename でゲートされるかどうかをチェックする。
//
// "... on Type" で選択された variant と、親の型の真の上位型ではない fragment spread が該当する。
// どちらもポインタ型で、型条件が一致しない場合は nil になる。
//
// GraphQL の例:
//
//	query {
//	  hero {
//	    ... on Human { height }
//	    ...DroidDetails
//	  }
//	}
//
// 生成される Go 構造体:
//
//	type HeroQuery_Data_Hero struct {
//	    Typename  string                        `json:"__typename"`
//	    Fragments HeroQuery_Data_Hero_Fragments `json:"-"`
//	    AsHuman   *HeroQuery_Data_Hero_AsHuman  `json:"-"`  // inline fragment
//	}
func (c *FieldClassifier) IsInlineFragment(p *codegen.PropertyDescriptor) bool {
	switch p.Kind {
	case codegen.PropertyInlineFragment:
		return true
	case codegen.PropertyFragment:
		return !p.IsProperSuperType
	default:
		return false
	}
}

// IsFragmentSpread はフィールドが fragment spread の入れ物（Fragments コンテナ）
// かどうかをチェックする。
//
// コンテナは JSON のキーを持たず、親と同じ JSON オブジェクトから
// 各 fragment をデコードする。
func (c *FieldClassifier) IsFragmentSpread(field FieldInfo) bool {
	return field.Property != nil && field.Property.Kind == codegen.PropertyFragments
}

// IsRegularField はフィールドが JSON のキーから直接読まれるかどうかをチェックする。
func (c *FieldClassifier) IsRegularField(field FieldInfo) bool {
	return !field.IsInlineFragment && !c.IsFragmentSpread(field) && field.JSONTag != "-"
}

// jsonTag はプロパティの JSON フィールド名を返す。
//
//   - 通常フィールドと __typename -> レスポンスのキー
//   - 変数 -> 変数名
//   - fragments / fragment / inline fragment -> "-"
func (c *FieldClassifier) jsonTag(p *codegen.PropertyDescriptor) string {
	switch p.Kind {
	case codegen.PropertyField, codegen.PropertyDiscriminator, codegen.PropertyVariable:
		return p.SourceResponseKey
	default:
		return "-"
	}
}
