// Package graphqljson decodes GraphQL response payloads, either into
// generated Go types or, driven by a compiled decode routine, into untyped
// Objects.
package graphqljson

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// UnmarshalData parses the GraphQL response payload contained in data and stores
// the result into v, which must be a non-nil pointer.
func UnmarshalData(data jsontext.Value, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode graphql data: decode json: cannot decode into non-pointer %T", v)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode graphql data: decode json: %w", err)
	}

	return nil
}

// Response is the envelope a GraphQL server answers with.
type Response struct {
	Data   jsontext.Value `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// UnmarshalResponse splits a response envelope, returning the data payload.
// Errors reported by the server are returned together with whatever data
// was delivered.
func UnmarshalResponse(body []byte) (jsontext.Value, error) {
	var res Response
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(res.Errors) > 0 {
		errs := make([]error, 0, len(res.Errors))
		for _, e := range res.Errors {
			errs = append(errs, e)
		}
		return res.Data, fmt.Errorf("graphql response has errors: %w", errors.Join(errs...))
	}
	return res.Data, nil
}
