package introspection

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestLoadSchema(t *testing.T) {
	t.Parallel()

	schema, err := LoadSchema("testdata/schema.json")
	require.NoError(t, err)

	require.NotNil(t, schema.Query)
	if diff := cmp.Diff("Query", schema.Query.Name); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}

	character := schema.Types["Character"]
	require.NotNil(t, character)
	if diff := cmp.Diff(ast.Interface, character.Kind); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
	if diff := cmp.Diff("A character in the films.", character.Description); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}

	var possible []string
	for _, def := range schema.GetPossibleTypes(character) {
		possible = append(possible, def.Name)
	}
	if diff := cmp.Diff([]string{"Droid", "Human"}, slices.Sorted(slices.Values(possible))); diff != "" {
		t.Errorf("possible types diff(-want +got): %s", diff)
	}

	search := schema.Query.Fields.ForName("search")
	require.NotNil(t, search)
	if diff := cmp.Diff("[SearchResult]!", search.Type.String()); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}

	mass := schema.Types["Human"].Fields.ForName("mass")
	require.NotNil(t, mass)
	deprecated := mass.Directives.ForName("deprecated")
	require.NotNil(t, deprecated)
	if diff := cmp.Diff("Use weight.", deprecated.Arguments.ForName("reason").Value.Raw); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}

	jedi := schema.Types["Episode"].EnumValues.ForName("JEDI")
	require.NotNil(t, jedi)
	require.NotNil(t, jedi.Directives.ForName("deprecated"))

	require.NotNil(t, schema.Types["DateTime"])
	require.True(t, schema.Types["String"].BuiltIn, "built-in scalars come from the prelude")
	require.NotNil(t, schema.Directives["cached"])
	require.NotNil(t, schema.Directives["skip"])
}

func TestParseQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "__schemaを直接含む",
			content: `{"__schema": {"queryType": {"name": "Query"}, "types": [{"kind": "OBJECT", "name": "Query"}]}}`,
		},
		{
			name:    "dataで包まれている",
			content: `{"data": {"__schema": {"queryType": {"name": "Query"}, "types": [{"kind": "OBJECT", "name": "Query"}]}}}`,
		},
		{
			name:    "typesが無い場合はエラー",
			content: `{"data": {}}`,
			wantErr: true,
		},
		{
			name:    "JSONでない場合はエラー",
			content: `type Query { a: Int }`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q, err := ParseQuery([]byte(tt.content))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff("Query", *q.Schema.QueryType.Name); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestTypeRef_ASTType(t *testing.T) {
	t.Parallel()

	name := func(s string) *string { return &s }

	tests := []struct {
		name string
		ref  *TypeRef
		want string
	}{
		{
			name: "名前付き型",
			ref:  &TypeRef{Kind: TypeKindScalar, Name: name("Int")},
			want: "Int",
		},
		{
			name: "非nullのリスト",
			ref: &TypeRef{Kind: TypeKindNonNull, OfType: &TypeRef{
				Kind: TypeKindList, OfType: &TypeRef{
					Kind: TypeKindNonNull, OfType: &TypeRef{Kind: TypeKindObject, Name: name("Human")},
				},
			}},
			want: "[Human!]!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, tt.ref.ASTType().String()); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}

	if (&TypeRef{Kind: TypeKindList}).ASTType() != nil {
		t.Error("LIST without ofType must yield nil")
	}
}

func TestSchema_IncompleteTypeRef(t *testing.T) {
	t.Parallel()

	q, err := ParseQuery([]byte(`{"__schema": {"queryType": {"name": "Query"}, "types": [
		{"kind": "OBJECT", "name": "Query", "fields": [{"name": "a", "args": [], "type": {"kind": "NON_NULL"}}]}
	]}}`))
	require.NoError(t, err)

	_, err = Schema("broken.json", q)
	require.ErrorContains(t, err, "Query.a")
}
