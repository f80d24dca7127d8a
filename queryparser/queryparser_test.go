package queryparser

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestFilenames(t *testing.T) {
	t.Parallel()

	type want struct {
		filenames []string
		err       bool
	}

	tests := []struct {
		name     string
		patterns []string
		want     want
	}{
		{
			name:     "単純なglob",
			patterns: []string{"testdata/queries/*.graphql"},
			want: want{
				filenames: []string{filepath.FromSlash("testdata/queries/hero.graphql")},
			},
		},
		{
			name:     "**は全てのサブディレクトリにマッチする",
			patterns: []string{"testdata/queries/**/*.graphql"},
			want: want{
				filenames: []string{
					filepath.FromSlash("testdata/queries/hero.graphql"),
					filepath.FromSlash("testdata/queries/nested/fragments.graphql"),
				},
			},
		},
		{
			name:     "重複は取り除かれる",
			patterns: []string{"testdata/queries/hero.graphql", "testdata/queries/*.graphql"},
			want: want{
				filenames: []string{filepath.FromSlash("testdata/queries/hero.graphql")},
			},
		},
		{
			name:     "存在しないディレクトリを**で辿るとエラー",
			patterns: []string{"not_walkable/**"},
			want: want{
				err: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Filenames(tt.patterns)
			if tt.want.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want.filenames, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestQueryDocument(t *testing.T) {
	t.Parallel()

	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: mustRead(t, "testdata/schema.graphql")})
	require.NoError(t, err)

	t.Run("ファイルをまたいだfragmentを解決できる", func(t *testing.T) {
		t.Parallel()

		sources, err := LoadQuerySources([]string{"testdata/queries/**/*.graphql"})
		require.NoError(t, err)

		doc, err := QueryDocument(schema, sources)
		require.NoError(t, err)
		if diff := cmp.Diff(1, len(doc.Operations)); diff != "" {
			t.Errorf("operations diff(-want +got): %s", diff)
		}
		require.NotNil(t, doc.Fragments.ForName("CharacterName"))
	})

	t.Run("スキーマに無いフィールドはエラー", func(t *testing.T) {
		t.Parallel()

		_, err := QueryDocument(schema, []*ast.Source{{Name: "bad.graphql", Input: `query Bad { hero { mass } }`}})
		require.ErrorContains(t, err, `Cannot query field "mass"`)
	})

	t.Run("構文エラーはファイル名を含む", func(t *testing.T) {
		t.Parallel()

		_, err := QueryDocument(schema, []*ast.Source{{Name: "broken.graphql", Input: `query {`}})
		require.ErrorContains(t, err, "broken.graphql")
	})

	t.Run("マッチするファイルが無い場合はエラー", func(t *testing.T) {
		t.Parallel()

		_, err := LoadQuerySources([]string{"testdata/none/*.graphql"})
		require.Error(t, err)
	})
}

func mustRead(t *testing.T, filename string) string {
	t.Helper()

	sources, err := LoadQuerySources([]string{filename})
	require.NoError(t, err)
	return sources[0].Input
}
