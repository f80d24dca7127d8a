package querygen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

const renderQuery = `query Hero($episode: Episode) {
  hero(episode: $episode) {
    name
    appearsIn
    friends { name }
    ...HumanDetails
    ... on Droid { primaryFunction }
  }
}

mutation CreateReview($review: ReviewInput!) {
  createReview(review: $review) { stars commentary }
}

fragment HumanDetails on Human { height birthday }`

func TestRender(t *testing.T) {
	t.Parallel()

	type want struct {
		contains []string
	}

	tests := []struct {
		name string
		opts codegen.Options
		want want
	}{
		{
			name: "オペレーション、enum、input、モデルを生成する",
			want: want{
				contains: []string{
					"// Code generated by gqlmodelgen, DO NOT EDIT.",
					"package gen",
					"// A film of the original trilogy.\ntype Episode string",
					"\tEpisodeNewhope Episode = \"NEWHOPE\"",
					"\t// Deprecated: the value is deprecated in the schema.\n\tEpisodeJedi Episode = \"JEDI\"",
					"type ReviewInput struct {\n\tStars int `json:\"stars\"`\n\tCommentary *string `json:\"commentary,omitempty\"`\n}",
					"const HeroQueryDocument = ",
					"type HeroQueryVariables struct {\n\tEpisode *Episode `json:\"episode,omitempty\"`\n}",
					"func NewHeroQueryVariables(episode *Episode) *HeroQueryVariables {",
					"func NewCreateReviewMutationVariables(review ReviewInput) *CreateReviewMutationVariables {",
					"type HeroQuery_Data struct {",
					"\tHero *HeroQuery_Data_Hero `json:\"hero\"`",
					"\tFragments HeroQuery_Data_Hero_Fragments `json:\"-\"`",
					"\tAsDroid *HeroQuery_Data_Hero_AsDroid `json:\"-\"`",
					"func (t *HeroQuery_Data_Hero) UnmarshalJSON(data []byte) error {",
					"func (t *HeroQuery_Data_Hero) GetAppearsIn() []*Episode {",
					"\t// Height in meters.\n\tHeight *float64 `json:\"height\"`",
					"\tBirthday *CustomScalar `json:\"birthday\"`",
					"type CustomScalar string",
					"func (s *CustomScalar) UnmarshalJSON(data []byte) error {",
					"type HumanDetails struct {",
					"}\n\nfunc (t *HumanDetails) UnmarshalJSON(data []byte) error {",
				},
			},
		},
		{
			name: "passthroughのカスタムスカラーはjsontext.Valueの別名になる",
			opts: codegen.Options{PassthroughCustomScalars: true},
			want: want{
				contains: []string{
					"type DateTime = jsontext.Value",
					"\tBirthday *DateTime `json:\"birthday\"`",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			unit := compileUnit(t, renderQuery, tt.opts)
			src, err := Render("gen", unit, tt.opts.PassthroughCustomScalars)
			require.NoError(t, err)

			if _, err := parser.ParseFile(token.NewFileSet(), "query.go", src, parser.AllErrors); err != nil {
				t.Fatalf("generated code does not parse: %v\n%s", err, src)
			}
			for _, want := range tt.want.contains {
				if !strings.Contains(src, want) {
					t.Errorf("generated code does not contain %q", want)
				}
			}
		})
	}
}

func TestRender_Imports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		want    []string
		notWant []string
	}{
		{
			name:    "必須フィールドが無ければerrorsはimportしない",
			query:   `query Droid { droid(id: "1") { primaryFunction } }`,
			want:    []string{"import (\n\t\"github.com/go-json-experiment/json\"\n\t\"github.com/go-json-experiment/json/jsontext\"\n)"},
			notWant: []string{"\"errors\"", "_ = errors.New", "_ = json.Unmarshal"},
		},
		{
			name:    "必須フィールドがあればerrorsをimportする",
			query:   `query Droid { droid(id: "1") { name } }`,
			want:    []string{"import (\n\t\"errors\"\n\n\t\"github.com/go-json-experiment/json\""},
			notWant: []string{"_ = errors.New"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := Render("gen", compileUnit(t, tt.query, codegen.Options{}), false)
			require.NoError(t, err)
			for _, want := range tt.want {
				if !strings.Contains(src, want) {
					t.Errorf("generated code does not contain %q:\n%s", want, src)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(src, notWant) {
					t.Errorf("generated code contains %q", notWant)
				}
			}
		})
	}
}

func TestRender_FragmentsContainerHasNoUnmarshal(t *testing.T) {
	t.Parallel()

	src, err := Render("gen", compileUnit(t, renderQuery, codegen.Options{}), false)
	require.NoError(t, err)

	if strings.Contains(src, "func (t *HeroQuery_Data_Hero_Fragments) UnmarshalJSON") {
		t.Error("Fragments container must be decoded by its parent")
	}
	if !strings.Contains(src, "func (t *HeroQuery_Data_Hero_Fragments_HumanDetails) UnmarshalJSON") {
		t.Error("fragment model has no UnmarshalJSON")
	}
}

func TestRender_RejectsOtherHosts(t *testing.T) {
	t.Parallel()

	unit := compileUnit(t, renderQuery, codegen.Options{Host: "swift"})
	if _, err := Render("gen", unit, false); err == nil {
		t.Error("expected error for a swift unit")
	}
}

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	filename := filepath.Join(t.TempDir(), "gen", "query.go")
	require.NoError(t, RenderTemplate(filename, "gen", compileUnit(t, renderQuery, codegen.Options{}), false))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	if !strings.HasPrefix(string(content), header) {
		t.Errorf("missing header: %.80s", content)
	}
}
