package querygen

import (
	"fmt"
	"strconv"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

// FieldDecoder は raw マップのキーから通常フィールドを読み出す文を生成する。
type FieldDecoder struct{}

func NewFieldDecoder() *FieldDecoder {
	return &FieldDecoder{}
}

// DecodeField はフィールド 1 つ分の文を返す。
//
// 省略可能なフィールドはキーがあればデコードするだけ:
//
//	if value, ok := raw["primaryFunction"]; ok {
//	    if err := json.Unmarshal(value, &t.PrimaryFunction); err != nil {
//	        return err
//	    }
//	}
//
// 非 null のフィールドは、キーが無いか null の場合にエラーにする:
//
//	if value, ok := raw["name"]; !ok || value.Kind() == 'n' {
//	    return errors.New("HeroQuery_Data_Hero: non-null field \"name\" is missing or null")
//	} else if err := json.Unmarshal(value, &t.Name); err != nil {
//	    return err
//	}
func (d *FieldDecoder) DecodeField(typeName, rawExpr string, field FieldInfo) Statement {
	lookup := fmt.Sprintf("value, ok := %s[%q]", rawExpr, field.JSONTag)
	decode := &ErrorCheckStatement{
		ErrorExpr: fmt.Sprintf("json.Unmarshal(value, &t.%s)", field.Name),
		Body:      returnErr,
	}

	if !isRequired(field.Property) {
		return &IfStatement{
			Condition: lookup + "; ok",
			Body:      []Statement{decode},
		}
	}

	msg := fmt.Sprintf("%s: non-null field %q is missing or null", typeName, field.JSONTag)
	return &IfStatement{
		Condition: lookup + "; !ok || value.Kind() == 'n'",
		Body: []Statement{
			&ReturnStatement{Value: "errors.New(" + strconv.Quote(msg) + ")"},
		},
		Else: decode,
	}
}

// DecodeFields は json:"-" のフィールド（Fragments コンテナ、fragment、inline fragment）を除いた
// 通常フィールドの文を、モデルのプロパティ順に返す。
func (d *FieldDecoder) DecodeFields(typeName, rawExpr string, fields []FieldInfo) []Statement {
	statements := make([]Statement, 0, len(fields))
	for _, field := range fields {
		if field.JSONTag == "" || field.JSONTag == "-" {
			continue
		}
		statements = append(statements, d.DecodeField(typeName, rawExpr, field))
	}
	return statements
}

// isRequired は、レスポンスに必ず非 null で現れるフィールドかを返す。
// 判別子は親の値で補われるので対象外。
func isRequired(p *codegen.PropertyDescriptor) bool {
	return p != nil && p.Kind == codegen.PropertyField && !p.IsOptional && !p.IsConditional
}
