package codegen

import (
	"bytes"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

func printDocument(doc *ast.QueryDocument) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.String()
}

// operationSource はクライアントが送信するoperationを返す。
// 判別子を読むモデルに対応する選択セットには__typenameを追加する。元のASTは変更しない。
func (c *compiler) operationSource(op *ast.OperationDefinition, root *ast.Definition) (*ast.OperationDefinition, error) {
	set, err := c.withTypename(root, op.SelectionSet)
	if err != nil {
		return nil, err
	}
	out := *op
	out.SelectionSet = set
	return &out, nil
}

// fragmentSource はfragment定義を型条件の上で operationSource と同様に書き換える。
func (c *compiler) fragmentSource(f *ast.FragmentDefinition) (*ast.FragmentDefinition, error) {
	typeDef, _, err := c.typeCondition(f.TypeCondition, f.Position)
	if err != nil {
		return nil, err
	}
	set, err := c.withTypename(typeDef, f.SelectionSet)
	if err != nil {
		return nil, err
	}
	out := *f
	out.SelectionSet = set
	return &out, nil
}

// withTypename は set のコピーを返す。
// compileSelectionSet が判別子プロパティを作るのと同じ条件
// (抽象型、型条件付きinline fragment、条件付きfragment spread)で、
// 先頭に __typename を追加する。子の選択セットも再帰的に処理する。
func (c *compiler) withTypename(parent *ast.Definition, set ast.SelectionSet) (ast.SelectionSet, error) {
	out := make(ast.SelectionSet, 0, len(set)+1)
	for _, selection := range set {
		switch sel := selection.(type) {
		case *ast.Field:
			if len(sel.SelectionSet) == 0 {
				out = append(out, sel)
				continue
			}
			def, err := c.fieldDefinition(parent, sel)
			if err != nil {
				return nil, err
			}
			child := c.schema.Types[def.Type.Name()]
			if child == nil {
				out = append(out, sel)
				continue
			}
			field := *sel
			if field.SelectionSet, err = c.withTypename(child, sel.SelectionSet); err != nil {
				return nil, err
			}
			out = append(out, &field)
		case *ast.InlineFragment:
			typeDef := parent
			if sel.TypeCondition != "" {
				if typeDef = c.schema.Types[sel.TypeCondition]; typeDef == nil {
					out = append(out, sel)
					continue
				}
			}
			inline := *sel
			var err error
			if sel.TypeCondition == "" {
				// 条件の無いinline fragmentは外側のモデルに畳み込まれるので、
				// __typename は外側の選択セットに付ける。
				inline.SelectionSet, err = c.withoutOwnTypename(parent, sel.SelectionSet)
			} else {
				inline.SelectionSet, err = c.withTypename(typeDef, sel.SelectionSet)
			}
			if err != nil {
				return nil, err
			}
			out = append(out, &inline)
		default:
			out = append(out, selection)
		}
	}

	needs, err := c.needsTypename(parent, set)
	if err != nil {
		return nil, err
	}
	if needs && !selectsTypename(set) {
		out = slices.Insert(out, 0, ast.Selection(&ast.Field{Name: discriminatorKey, Alias: discriminatorKey}))
	}
	return out, nil
}

func (c *compiler) withoutOwnTypename(parent *ast.Definition, set ast.SelectionSet) (ast.SelectionSet, error) {
	out, err := c.withTypename(parent, set)
	if err != nil {
		return nil, err
	}
	if len(out) > len(set) {
		out = out[1:]
	}
	return out, nil
}

// needsTypename reports whether the model compiled from set on parent carries
// a discriminator.
func (c *compiler) needsTypename(parent *ast.Definition, set ast.SelectionSet) (bool, error) {
	if isAbstractKind(parent.Kind) {
		return true, nil
	}
	possible, err := PossibleTypes(c.schema, parent)
	if err != nil {
		return false, err
	}

	var walk func(set ast.SelectionSet) bool
	walk = func(set ast.SelectionSet) bool {
		for _, selection := range set {
			switch sel := selection.(type) {
			case *ast.InlineFragment:
				if sel.TypeCondition != "" {
					return true
				}
				if walk(sel.SelectionSet) {
					return true
				}
			case *ast.FragmentSpread:
				fragment := c.fragments.ForName(sel.Name)
				if fragment == nil {
					return true
				}
				def := c.schema.Types[fragment.TypeCondition]
				if def == nil {
					return true
				}
				fragmentPossible, err := PossibleTypes(c.schema, def)
				if err != nil || !isSuperset(fragmentPossible, possible) {
					return true
				}
			}
		}
		return false
	}
	return walk(set), nil
}

func selectsTypename(set ast.SelectionSet) bool {
	for _, selection := range set {
		if f, ok := selection.(*ast.Field); ok && f.Name == discriminatorKey && responseName(f) == discriminatorKey {
			return true
		}
	}
	return false
}
