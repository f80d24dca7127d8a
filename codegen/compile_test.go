package codegen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func TestCompile_Variables(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `query Hero($episode: Episode, $first: Int!) {
  hero(episode: $episode) { friendsConnection(first: $first) { totalCount } }
}`)
	unit := mustCompile(t, schema, doc, Options{})
	op := unit.Operations[0]

	want := []*PropertyDescriptor{
		{
			Name:              "episode",
			Kind:              PropertyVariable,
			Type:              NewNamed(ast.Enum, "Episode"),
			HostTypeName:      "*Episode",
			IsOptional:        true,
			Retain:            RetainValue,
			SourceResponseKey: "episode",
		},
		{
			Name:              "first",
			Kind:              PropertyVariable,
			Type:              NewNonNull(NewNamed(ast.Scalar, "Int")),
			HostTypeName:      "int",
			Retain:            RetainReference,
			SourceResponseKey: "first",
		},
	}
	if diff := cmp.Diff(want, op.Variables); diff != "" {
		t.Errorf("variables diff(-want +got): %s", diff)
	}

	wantInit := &Initializer{Params: []*InitializerParam{
		{Label: "episode", HostTypeName: "*Episode", IsOptional: true},
		{Label: "first", HostTypeName: "int"},
	}}
	if diff := cmp.Diff(wantInit, op.Initializer); diff != "" {
		t.Errorf("initializer diff(-want +got): %s", diff)
	}
}

func TestCompile_TypesUsed(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `mutation CreateReview($ep: Episode, $review: ReviewInput!) {
  createReview(episode: $ep, review: $review) { stars episode }
}`)
	unit := mustCompile(t, schema, doc, Options{})

	op := unit.Operations[0]
	if diff := cmp.Diff("CreateReviewMutation", op.ClassName); diff != "" {
		t.Errorf("class name diff(-want +got): %s", diff)
	}
	if diff := cmp.Diff(OperationMutation, op.Kind); diff != "" {
		t.Errorf("kind diff(-want +got): %s", diff)
	}

	names := make([]string, 0, len(unit.TypesUsed))
	for _, decl := range unit.TypesUsed {
		names = append(names, decl.Name)
	}
	if diff := cmp.Diff([]string{"ColorInput", "Episode", "ReviewInput"}, names); diff != "" {
		t.Errorf("types used diff(-want +got): %s", diff)
	}

	episode := unit.TypesUsed[1]
	wantCases := []*EnumCase{
		{Name: "EpisodeNewhope", Value: "NEWHOPE"},
		{Name: "EpisodeEmpire", Value: "EMPIRE"},
		{Name: "EpisodeJedi", Value: "JEDI"},
	}
	if diff := cmp.Diff(wantCases, episode.EnumCases); diff != "" {
		t.Errorf("enum cases diff(-want +got): %s", diff)
	}

	review := unit.TypesUsed[2]
	wantFields := []*PropertyDescriptor{
		{
			Name:              "stars",
			Kind:              PropertyField,
			Type:              NewNonNull(NewNamed(ast.Scalar, "Int")),
			HostTypeName:      "int",
			Retain:            RetainReference,
			SourceResponseKey: "stars",
			FieldName:         "stars",
		},
		{
			Name:              "commentary",
			Kind:              PropertyField,
			Type:              NewNamed(ast.Scalar, "String"),
			HostTypeName:      "*string",
			IsOptional:        true,
			Retain:            RetainCopy,
			SourceResponseKey: "commentary",
			FieldName:         "commentary",
		},
		{
			Name:              "favoriteColor",
			Kind:              PropertyField,
			Type:              NewNamed(ast.InputObject, "ColorInput"),
			HostTypeName:      "*ColorInput",
			IsOptional:        true,
			Retain:            RetainReference,
			SourceResponseKey: "favoriteColor",
			FieldName:         "favoriteColor",
		},
	}
	if diff := cmp.Diff(wantFields, review.Fields); diff != "" {
		t.Errorf("input fields diff(-want +got): %s", diff)
	}
}

func TestCompile_FragmentsReferencedAndSource(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	// Unused fragments do not pass validation, so the document is only parsed.
	doc := parseQuery(t, `query Hero { hero { ...A } }
fragment A on Character { name ...B }
fragment B on Character { id }
fragment Unused on Droid { primaryFunction }`)
	unit := mustCompile(t, schema, doc, Options{})

	op := unit.Operations[0]
	if diff := cmp.Diff([]string{"A", "B"}, op.FragmentsReferenced); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
	if !strings.Contains(op.Source, "query Hero") || strings.Contains(op.Source, "fragment") {
		t.Errorf("unexpected source: %s", op.Source)
	}
	for _, want := range []string{"query Hero", "fragment A on Character", "fragment B on Character"} {
		if !strings.Contains(op.Document, want) {
			t.Errorf("document does not contain %q: %s", want, op.Document)
		}
	}
	if strings.Contains(op.Document, "Unused") {
		t.Errorf("document contains an unreferenced fragment: %s", op.Document)
	}

	names := make([]string, 0, len(unit.Fragments))
	for _, f := range unit.Fragments {
		names = append(names, f.Model.QualifiedName)
	}
	if diff := cmp.Diff([]string{"A", "B", "Unused"}, names); diff != "" {
		t.Errorf("fragment models diff(-want +got): %s", diff)
	}
	if diff := cmp.Diff([]string{"Droid", "Human"}, unit.Fragments[0].PossibleTypes); diff != "" {
		t.Errorf("possible types diff(-want +got): %s", diff)
	}
	if diff := cmp.Diff("A", unit.Fragments[0].Model.FragmentName); diff != "" {
		t.Errorf("fragment name diff(-want +got): %s", diff)
	}
}

func TestCompileConcurrent(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `query Hero($episode: Episode) { hero(episode: $episode) { ...A ... on Human { height } } }
query Droid { droid(id: "1") { name appearsIn } }
mutation Review($review: ReviewInput!) { createReview(review: $review) { stars } }
fragment A on Character { name friends { name } }`)

	want := mustCompile(t, schema, doc, Options{})

	for _, limit := range []int{0, 1, 3} {
		got, err := CompileConcurrent(context.Background(), schema, doc, Options{}, limit)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("limit %d diff(-want +got): %s", limit, diff)
		}
	}
}

func TestCompileConcurrent_Canceled(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `query Hero { hero { name } }`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompileConcurrent(ctx, schema, doc, Options{}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestCompileOperation_Anonymous(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `{ hero { name } }`)

	op, err := CompileOperation(schema, doc, doc.Operations[0], Options{})
	require.NoError(t, err)
	if diff := cmp.Diff("AnonymousQuery", op.ClassName); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
	if diff := cmp.Diff("AnonymousQuery.Data.Hero", op.Data.Property("hero").ModelName); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}

func TestCompile_UnknownHost(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `query Hero { hero { name } }`)

	if _, err := Compile(schema, doc, Options{Host: "kotlin"}); err == nil {
		t.Error("expected error for unknown host")
	}
}

func TestCompileError_GQLError(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	_, err := Compile(schema, parseQuery(t, "query Hero {\n  hero { ...Missing }\n}"), Options{})

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)

	got := compileErr.GQLError()
	if diff := cmp.Diff(map[string]any{"kind": "UnresolvedFragment", "name": "Missing"}, got.Extensions); diff != "" {
		t.Errorf("extensions diff(-want +got): %s", diff)
	}
	require.Len(t, got.Locations, 1)
	if diff := cmp.Diff(2, got.Locations[0].Line); diff != "" {
		t.Errorf("line diff(-want +got): %s", diff)
	}
	if !strings.Contains(err.Error(), "UnresolvedFragment") {
		t.Errorf("error message does not name the kind: %s", err)
	}
}

func TestCompile_PassthroughCustomScalars(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `query Human { human(id: "1") { birthday } }`)

	tests := []struct {
		name     string
		opts     Options
		hostType string
		coercion Coercion
	}{
		{name: "defaults to CustomScalar", opts: Options{}, hostType: "*CustomScalar", coercion: CoerceCustom},
		{name: "passthrough keeps the scalar name", opts: Options{PassthroughCustomScalars: true}, hostType: "*DateTime", coercion: CoercePassthrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			unit := mustCompile(t, schema, doc, tt.opts)
			human := unit.Operations[0].Data.Property("human").Model
			if diff := cmp.Diff(tt.hostType, human.Property("birthday").HostTypeName); diff != "" {
				t.Errorf("host type diff(-want +got): %s", diff)
			}
			if diff := cmp.Diff(tt.coercion, human.Decoder.Steps[0].Coercion); diff != "" {
				t.Errorf("coercion diff(-want +got): %s", diff)
			}
		})
	}
}

func TestCompile_DecodeRoutine(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `query Hero { hero { name appearsIn ... on Human { height } } }`)
	unit := mustCompile(t, schema, doc, Options{})

	hero := unit.Operations[0].Data.Property("hero").Model
	variant := hero.Property("asHuman").Model

	want := &DecodeRoutine{
		Model:         "HeroQuery.Data.Hero",
		Discriminator: &DiscriminatorRule{Key: "__typename", Property: "__typename"},
		Steps: []*DecodeStep{
			{
				Property: "name",
				Key:      "name",
				Action:   DecodeValue,
				Type:     NewNonNull(NewNamed(ast.Scalar, "String")),
				Coercion: CoerceString,
			},
			{
				Property:   "appearsIn",
				Key:        "appearsIn",
				Action:     DecodeValue,
				Type:       NewNonNull(NewList(NewNamed(ast.Enum, "Episode"))),
				Coercion:   CoerceEnum,
				EnumValues: []string{"NEWHOPE", "EMPIRE", "JEDI"},
			},
			{
				Property: "asHuman",
				Action:   DecodeVariant,
				Type:     NewNamed(ast.Object, "Human"),
				Coercion: CoerceObject,
				Gate:     []string{"Human"},
			},
		},
	}
	if diff := cmp.Diff(want, hero.Decoder, cmpopts.IgnoreFields(DecodeStep{}, "Routine")); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
	if hero.Decoder.Steps[2].Routine != variant.Decoder {
		t.Errorf("variant step is not paired with the variant model's routine")
	}
}

func TestCompile_DecodeRoutineTypeName(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `query Droid { droid(id: "1") { name ...CharacterName } }
fragment CharacterName on Character { name }`)
	unit := mustCompile(t, schema, doc, Options{})

	droid := unit.Operations[0].Data.Property("droid").Model
	if diff := cmp.Diff("Droid", droid.Decoder.TypeName); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
	if diff := cmp.Diff("", unit.Fragments[0].Model.Decoder.TypeName); diff != "" {
		t.Errorf("abstract fragment must not fix the type name, diff(-want +got): %s", diff)
	}
}

func TestCompile_DocumentSelectsTypename(t *testing.T) {
	t.Parallel()

	schema := loadSchema(t)
	doc := loadQuery(t, schema, `query Hero {
  hero { name ...HumanDetails }
  droid(id: "2001") { name friends { name } }
  human(id: "1000") { ...CharacterName ... on Human { height } }
  search(text: "a") { __typename }
}
fragment HumanDetails on Human { height }
fragment CharacterName on Character { name }`)
	unit := mustCompile(t, schema, doc, Options{})

	sent, err := parser.ParseQuery(&ast.Source{Name: "document.graphql", Input: unit.Operations[0].Document})
	require.NoError(t, err)

	selectsTypename := func(set ast.SelectionSet) bool {
		for _, s := range set {
			if f, ok := s.(*ast.Field); ok && f.Name == "__typename" && (f.Alias == "" || f.Alias == f.Name) {
				return true
			}
		}
		return false
	}
	field := func(set ast.SelectionSet, name string) *ast.Field {
		for _, s := range set {
			if f, ok := s.(*ast.Field); ok && f.Name == name {
				return f
			}
		}
		t.Fatalf("field %q is not selected", name)
		return nil
	}

	root := sent.Operations.ForName("Hero").SelectionSet
	tests := []struct {
		name string
		set  ast.SelectionSet
		want bool
	}{
		{name: "抽象型のhero", set: field(root, "hero").SelectionSet, want: true},
		{name: "具象型のdroid", set: field(root, "droid").SelectionSet, want: false},
		{name: "droidの下の抽象型friends", set: field(field(root, "droid").SelectionSet, "friends").SelectionSet, want: true},
		{name: "inline fragmentを持つ具象型のhuman", set: field(root, "human").SelectionSet, want: true},
		{name: "抽象型のfragment", set: sent.Fragments.ForName("CharacterName").SelectionSet, want: true},
		{name: "具象型のfragment", set: sent.Fragments.ForName("HumanDetails").SelectionSet, want: false},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, selectsTypename(tt.set)); diff != "" {
			t.Errorf("%s: diff(-want +got): %s", tt.name, diff)
		}
	}

	// 既に__typenameを選択している場合は重複させない
	search := field(root, "search").SelectionSet
	count := 0
	for _, s := range search {
		if f, ok := s.(*ast.Field); ok && f.Name == "__typename" {
			count++
		}
	}
	if diff := cmp.Diff(1, count); diff != "" {
		t.Errorf("search diff(-want +got): %s", diff)
	}

	if selectsTypename(doc.Operations[0].SelectionSet[0].(*ast.Field).SelectionSet) {
		t.Error("the input document was modified")
	}
	if !strings.Contains(unit.Fragments[1].Source, "__typename") {
		t.Errorf("fragment source does not select __typename: %s", unit.Fragments[1].Source)
	}
}
