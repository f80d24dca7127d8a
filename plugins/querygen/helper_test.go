package querygen

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

const testSchema = `
scalar DateTime

type Query {
  hero(episode: Episode): Character
  droid(id: ID!): Droid
  human(id: ID!): Human
  search(text: String): [SearchResult]
}

type Mutation {
  createReview(episode: Episode, review: ReviewInput!): Review
}

"""
A film of the original trilogy.
"""
enum Episode {
  NEWHOPE
  EMPIRE
  JEDI @deprecated(reason: "spoilers")
}

interface Character {
  id: ID!
  name: String!
  friends: [Character]
  appearsIn: [Episode]!
}

type Human implements Character {
  id: ID!
  name: String!
  friends: [Character]
  appearsIn: [Episode]!
  "Height in meters."
  height: Float
  birthday: DateTime
}

type Droid implements Character {
  id: ID!
  name: String!
  friends: [Character]
  appearsIn: [Episode]!
  primaryFunction: String
}

type Starship {
  id: ID!
  name: String!
}

type Review {
  stars: Int!
  commentary: String
}

input ReviewInput {
  stars: Int!
  commentary: String
}

union SearchResult = Human | Droid | Starship
`

func compileUnit(t *testing.T, query string, opts codegen.Options) *codegen.CompiledUnit {
	t.Helper()

	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: testSchema})
	require.NoError(t, err)
	doc, errs := gqlparser.LoadQuery(schema, query)
	require.Empty(t, errs)

	unit, err := codegen.Compile(schema, doc, opts)
	require.NoError(t, err)
	return unit
}

func dataField(t *testing.T, query, field string) *codegen.CompiledModel {
	t.Helper()

	p := compileUnit(t, query, codegen.Options{}).Operations[0].Data.Property(field)
	require.NotNil(t, p)
	return p.Model
}
