package querygen

import (
	"fmt"
)

// InlineFragmentDecoder は __typename でゲートされるフィールドをデコードするステートメントを生成する。
type InlineFragmentDecoder struct{}

// NewInlineFragmentDecoder は新しい InlineFragmentDecoder を作成する。
func NewInlineFragmentDecoder() *InlineFragmentDecoder {
	return &InlineFragmentDecoder{}
}

// DecodeInlineFragments は __typename を使って inline fragments をデコードするステートメントを作成する。
//
// Inline fragments は GraphQL における型条件付きフィールドで、オブジェクトの実際の型に基づいて
// 選択される。条件付きの fragment spread も同じ形でデコードする。
// __typename は通常フィールドとして先にデコードされている前提で、以下のようなコードを生成する:
//
//	switch t.Typename {
//	case "Human":
//	    t.AsHuman = &HeroQuery_Data_Hero_AsHuman{}
//	    if err := json.Unmarshal(data, t.AsHuman); err != nil {
//	        return err
//	    }
//	}
//	switch t.Typename {
//	case "Droid", "Human":
//	    t.AsCharacter = &SearchQuery_Data_Search_AsCharacter{}
//	    ...
//	}
//
// 複数の fragment が同じ型を含み得るため、switch は fragment ごとに分ける。
//
// パラメータ:
//   - typenameExpr: __typename を保持する式（例: "t.Typename"）
//   - fragments: デコードする inline fragment フィールド
//
// 戻り値:
//   - []Statement: inline fragments をデコードするステートメントのリスト（空の場合は nil）
func (d *InlineFragmentDecoder) DecodeInlineFragments(typenameExpr string, fragments []InlineFragmentInfo) []Statement {
	if len(fragments) == 0 || typenameExpr == "" {
		return nil
	}

	statements := make([]Statement, 0, len(fragments))
	for _, frag := range fragments {
		statements = append(statements, &SwitchStatement{
			Expr:  typenameExpr,
			Cases: []SwitchCase{d.createSwitchCase(typenameExpr, frag)},
		})
	}

	return statements
}

// createSwitchCase は inline fragment の switch case を構築する。
//
// case は:
//  1. 新しいインスタンスでポインタフィールドを初期化
//  2. 完全な JSON データをポインタにアンマーシャル
//  3. 子が __typename を読めなかった場合は親の値で埋める
//
// case の値は型条件の possible types。
func (d *InlineFragmentDecoder) createSwitchCase(typenameExpr string, frag InlineFragmentInfo) SwitchCase {
	body := []Statement{
		&Assignment{
			Target: frag.FieldExpr,
			Value:  fmt.Sprintf("&%s{}", frag.ElemTypeStr),
		},
		&ErrorCheckStatement{
			ErrorExpr: fmt.Sprintf("json.Unmarshal(data, %s)", frag.FieldExpr),
			Body:      returnErr,
		},
	}
	body = append(body, typenameFill(frag.FieldExpr, frag.Field.Property.Model, typenameExpr)...)

	return SwitchCase{
		Values: frag.PossibleTypes,
		Body:   body,
	}
}
