package querygen

import (
	"fmt"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

// UnmarshalBuilder builds UnmarshalJSON method statements.
type UnmarshalBuilder struct {
	fieldDecoder  *FieldDecoder
	inlineDecoder *InlineFragmentDecoder
	classifier    *FieldClassifier
}

// NewUnmarshalBuilder creates a new UnmarshalBuilder.
func NewUnmarshalBuilder() *UnmarshalBuilder {
	return &UnmarshalBuilder{
		fieldDecoder:  NewFieldDecoder(),
		inlineDecoder: NewInlineFragmentDecoder(),
		classifier:    NewFieldClassifier(),
	}
}

// BuildUnmarshalMethod constructs the complete UnmarshalJSON method body.
func (b *UnmarshalBuilder) BuildUnmarshalMethod(typeInfo TypeInfo) []Statement {
	var statements []Statement

	// 1. Declare raw map variable.
	statements = append(statements, &VariableDecl{
		Name: "raw",
		Type: "map[string]jsontext.Value",
	})

	// 2. Unmarshal data into raw map.
	statements = append(statements, &ErrorCheckStatement{
		ErrorExpr: "json.Unmarshal(data, &raw)",
		Body:      returnErr,
	})

	// 3. Separate regular fields, fragment spreads, and inline fragments.
	regularFields, fragmentSpreads, inlineFragments := b.categorizeFields(typeInfo)

	// 4. Decode regular fields from raw map. Non-null fields must be present.
	statements = append(statements, b.fieldDecoder.DecodeFields(typeInfo.TypeName, "raw", regularFields)...)

	// 5. Models on an object type know their __typename even when it is absent.
	statements = append(statements, b.defaultTypename(typeInfo.Model)...)

	// 6. Decode fragment spreads from the same data.
	statements = append(statements, b.decodeFragmentSpreads(fragmentSpreads, typeInfo.TypenameExpr)...)

	// 7. Decode inline fragments (__typename based).
	statements = append(statements, b.inlineDecoder.DecodeInlineFragments(typeInfo.TypenameExpr, inlineFragments)...)

	// 8. Return nil on success.
	statements = append(statements, &ReturnStatement{Value: "nil"})

	return statements
}

func (b *UnmarshalBuilder) defaultTypename(m *codegen.CompiledModel) []Statement {
	if m.Discriminator() == nil || m.IsAbstract {
		return nil
	}
	return []Statement{
		&IfStatement{
			Condition: `t.Typename == ""`,
			Body: []Statement{
				&Assignment{Target: "t.Typename", Value: fmt.Sprintf("%q", m.ParentType)},
			},
		},
	}
}

// decodeFragmentSpreads generates statements to unmarshal the Fragments container.
// 親の型の真の上位型である fragment は常にデコードし、それ以外は __typename でゲートする。
func (b *UnmarshalBuilder) decodeFragmentSpreads(fragmentSpreads []FieldInfo, typenameExpr string) []Statement {
	var statements []Statement

	for _, container := range fragmentSpreads {
		containerExpr := fmt.Sprintf("t.%s", container.Name)

		var gated []InlineFragmentInfo
		for _, field := range container.SubFields {
			fieldExpr := fmt.Sprintf("%s.%s", containerExpr, field.Name)

			if field.IsInlineFragment {
				gated = append(gated, b.inlineFragmentInfo(field, containerExpr))
				continue
			}

			statements = append(statements, &ErrorCheckStatement{
				ErrorExpr: fmt.Sprintf("json.Unmarshal(data, &%s)", fieldExpr),
				Body:      returnErr,
			})
			statements = append(statements, typenameFill(fieldExpr, field.Property.Model, typenameExpr)...)
		}

		statements = append(statements, b.inlineDecoder.DecodeInlineFragments(typenameExpr, gated)...)
	}

	return statements
}

// categorizeFields separates regular fields, fragment spreads, and inline fragments.
func (b *UnmarshalBuilder) categorizeFields(typeInfo TypeInfo) ([]FieldInfo, []FieldInfo, []InlineFragmentInfo) {
	return b.categorizeFieldsWithPath(typeInfo.Fields, "t")
}

// categorizeFieldsWithPath separates a list of fields with a custom parent path.
func (b *UnmarshalBuilder) categorizeFieldsWithPath(fields []FieldInfo, parentPath string) ([]FieldInfo, []FieldInfo, []InlineFragmentInfo) {
	var regularFields []FieldInfo
	var fragmentSpreads []FieldInfo
	var inlineFragments []InlineFragmentInfo

	for _, field := range fields {
		switch {
		case field.IsInlineFragment:
			inlineFragments = append(inlineFragments, b.inlineFragmentInfo(field, parentPath))
		case b.classifier.IsFragmentSpread(field):
			fragmentSpreads = append(fragmentSpreads, field)
		case b.classifier.IsRegularField(field):
			regularFields = append(regularFields, field)
		}
	}

	return regularFields, fragmentSpreads, inlineFragments
}

func (b *UnmarshalBuilder) inlineFragmentInfo(field FieldInfo, parentPath string) InlineFragmentInfo {
	return InlineFragmentInfo{
		Field:         field,
		FieldExpr:     fmt.Sprintf("%s.%s", parentPath, field.Name),
		ElemTypeStr:   field.PointerElemType,
		PossibleTypes: field.Property.PossibleTypes,
	}
}

// typenameFill は、同じ JSON からデコードした子モデルが __typename を
// 読めなかった場合に親の値を引き継ぐステートメントを返す。
func typenameFill(fieldExpr string, child *codegen.CompiledModel, typenameExpr string) []Statement {
	if child == nil || child.Discriminator() == nil || !child.IsAbstract || typenameExpr == "" {
		return nil
	}
	return []Statement{
		&IfStatement{
			Condition: fmt.Sprintf(`%s.Typename == ""`, fieldExpr),
			Body: []Statement{
				&Assignment{Target: fieldExpr + ".Typename", Value: typenameExpr},
			},
		},
	}
}
