package graphqljson

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/gqlgo/gqlmodelgen/codegen"
)

var (
	ErrNullValue            = errors.New("null value for non-null field")
	ErrMissingDiscriminator = errors.New("missing __typename")
	ErrUnexpectedValue      = errors.New("unexpected value")
)

// DecodeJSON decodes a JSON object with routine.
func DecodeJSON(routine *codegen.DecodeRoutine, data jsontext.Value) (*Object, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", routine.Model, err)
	}
	return Decode(routine, m)
}

// Decode reconstructs the model routine is paired with from data. data is
// only read.
func Decode(routine *codegen.DecodeRoutine, data map[string]any) (*Object, error) {
	return decodeObject(routine, data, "", routine.Model)
}

// decodeObject runs routine against data. inherited is the type name read by
// the enclosing model when data is the same map (fragments and variants).
func decodeObject(routine *codegen.DecodeRoutine, data map[string]any, inherited, path string) (*Object, error) {
	obj := newObject(routine.Model)
	typename := inherited
	if typename == "" {
		typename = routine.TypeName
	}

	if rule := routine.Discriminator; rule != nil {
		raw, ok := data[rule.Key]
		switch {
		case ok && raw != nil:
			s, isString := raw.(string)
			if !isString {
				return nil, fmt.Errorf("%s.%s: %w: %T", path, rule.Key, ErrUnexpectedValue, raw)
			}
			typename = s
		case typename != "":
		case rule.Default != "":
			typename = rule.Default
		case gated(routine):
			return nil, fmt.Errorf("%s: %w", path, ErrMissingDiscriminator)
		}
		if typename == "" {
			obj.set(rule.Property, nil)
		} else {
			obj.set(rule.Property, typename)
		}
	}
	obj.Typename = typename

	for _, step := range routine.Steps {
		stepPath := path + "." + step.Property

		switch step.Action {
		case codegen.DecodeValue:
			raw, present := data[step.Key]
			v, err := decodeValue(step, step.Type, raw, present, stepPath)
			if err != nil {
				return nil, err
			}
			obj.set(step.Property, v)
		case codegen.DecodeFragments:
			child, err := decodeObject(step.Routine, data, typename, stepPath)
			if err != nil {
				return nil, err
			}
			obj.set(step.Property, child)
		case codegen.DecodeFragment, codegen.DecodeVariant:
			if step.Gate != nil && !slices.Contains(step.Gate, typename) {
				obj.set(step.Property, nil)
				continue
			}
			child, err := decodeObject(step.Routine, data, typename, stepPath)
			if err != nil {
				return nil, err
			}
			obj.set(step.Property, child)
		default:
			return nil, fmt.Errorf("%s: unknown decode action %q", stepPath, step.Action)
		}
	}

	return obj, nil
}

// gated reports whether some fragment or variant of routine, including those
// inside its fragments container, is decoded only for certain type names.
func gated(routine *codegen.DecodeRoutine) bool {
	for _, step := range routine.Steps {
		switch step.Action {
		case codegen.DecodeFragment, codegen.DecodeVariant:
			if step.Gate != nil {
				return true
			}
		case codegen.DecodeFragments:
			if gated(step.Routine) {
				return true
			}
		}
	}
	return false
}

func decodeValue(step *codegen.DecodeStep, t codegen.TypeExpr, raw any, present bool, path string) (any, error) {
	if nn, ok := t.(*codegen.NonNullType); ok {
		if !present || raw == nil {
			if !present && step.Conditional {
				return nil, nil
			}
			return nil, fmt.Errorf("%s: %w", path, ErrNullValue)
		}
		return decodeValue(step, nn.Elem, raw, true, path)
	}
	if !present || raw == nil {
		return nil, nil
	}

	switch t := t.(type) {
	case *codegen.ListType:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: %w: expected list, got %T", path, ErrUnexpectedValue, raw)
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := decodeValue(step, t.Elem, item, true, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *codegen.NamedType:
		if step.Routine != nil {
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: %w: expected object, got %T", path, ErrUnexpectedValue, raw)
			}
			return decodeObject(step.Routine, m, "", path)
		}
		return coerce(step, raw, path)
	default:
		panic(fmt.Sprintf("unexpected type expression %T", t))
	}
}

func coerce(step *codegen.DecodeStep, raw any, path string) (any, error) {
	mismatch := func(want string) error {
		return fmt.Errorf("%s: %w: expected %s, got %T", path, ErrUnexpectedValue, want, raw)
	}

	switch step.Coercion {
	case codegen.CoerceString:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch("string")
		}
		return s, nil
	case codegen.CoerceID:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64:
			if v != math.Trunc(v) {
				return nil, mismatch("ID")
			}
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		default:
			return nil, mismatch("ID")
		}
	case codegen.CoerceInt:
		var n float64
		switch v := raw.(type) {
		case float64:
			n = v
		case int:
			n = float64(v)
		case int32:
			n = float64(v)
		case int64:
			n = float64(v)
		default:
			return nil, mismatch("Int")
		}
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%s: %w: %v is not a 32-bit integer", path, ErrUnexpectedValue, raw)
		}
		return int(n), nil
	case codegen.CoerceFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		default:
			return nil, mismatch("Float")
		}
	case codegen.CoerceBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, mismatch("Boolean")
		}
		return b, nil
	case codegen.CoerceEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch("enum value")
		}
		if len(step.EnumValues) > 0 && !slices.Contains(step.EnumValues, s) {
			return nil, fmt.Errorf("%s: %w: %q is not one of %v", path, ErrUnexpectedValue, s, step.EnumValues)
		}
		return s, nil
	case codegen.CoerceCustom:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		b, err := json.Marshal(raw, json.Deterministic(true))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		v := jsontext.Value(b)
		if err := v.Canonicalize(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return string(v), nil
	case codegen.CoercePassthrough:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s: unknown coercion %q", path, step.Coercion)
	}
}
