package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const starWarsSchema = `
schema {
  query: Query
  mutation: Mutation
  subscription: Subscription
}

scalar DateTime

type Query {
  hero(episode: Episode): Character
  droid(id: ID!): Droid
  human(id: ID!): Human
  search(text: String): [SearchResult]
  node(id: ID!): Node
}

type Mutation {
  createReview(episode: Episode, review: ReviewInput!): Review
}

type Subscription {
  reviewAdded(episode: Episode): Review
}

enum Episode {
  NEWHOPE
  EMPIRE
  JEDI
}

interface Node {
  id: ID!
}

interface Character {
  id: ID!
  name: String!
  friends: [Character]
  appearsIn: [Episode]!
  friendsConnection(first: Int): FriendsConnection!
}

type Human implements Character & Node {
  id: ID!
  name: String!
  homePlanet: String
  height: Float
  mass: Float
  friends: [Character]
  appearsIn: [Episode]!
  friendsConnection(first: Int): FriendsConnection!
  starships: [Starship]
  birthday: DateTime
}

type Droid implements Character & Node {
  id: ID!
  name: String!
  friends: [Character]
  appearsIn: [Episode]!
  friendsConnection(first: Int): FriendsConnection!
  primaryFunction: String
}

type FriendsConnection {
  totalCount: Int
  edges: [FriendsEdge]
  friends: [Character]
}

type FriendsEdge {
  cursor: ID!
  node: Character
}

type Starship {
  id: ID!
  name: String!
  length: Float
  coordinates: [[Float!]!]
}

type Review {
  episode: Episode
  stars: Int!
  commentary: String
}

input ReviewInput {
  stars: Int!
  commentary: String
  favoriteColor: ColorInput
}

input ColorInput {
  red: Int!
  green: Int!
  blue: Int!
}

union SearchResult = Human | Droid | Starship
`

func loadSchema(t *testing.T) *ast.Schema {
	t.Helper()

	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: starWarsSchema})
	require.NoError(t, err)
	return schema
}

// loadQuery validates the document against the star wars schema.
func loadQuery(t *testing.T, schema *ast.Schema, query string) *ast.QueryDocument {
	t.Helper()

	doc, errs := gqlparser.LoadQuery(schema, query)
	require.Empty(t, errs)
	return doc
}

// parseQuery parses without validating, for documents the validator would
// reject before the compiler sees them.
func parseQuery(t *testing.T, query string) *ast.QueryDocument {
	t.Helper()

	doc, err := parser.ParseQuery(&ast.Source{Name: "query.graphql", Input: query})
	require.NoError(t, err)
	return doc
}

func mustCompile(t *testing.T, schema *ast.Schema, doc *ast.QueryDocument, opts Options) *CompiledUnit {
	t.Helper()

	unit, err := Compile(schema, doc, opts)
	require.NoError(t, err)
	return unit
}

func propertyNames(m *CompiledModel) []string {
	names := make([]string, 0, len(m.Properties))
	for _, p := range m.Properties {
		names = append(names, p.Name)
	}
	return names
}
