package graphqljson

import "slices"

// Object is a model reconstructed by a decode routine. Values are string,
// int, float64, bool, []any, *Object, whatever a passthrough scalar held, or
// nil for absent optional properties.
type Object struct {
	Model    string
	Typename string
	names    []string
	values   map[string]any
}

func newObject(model string) *Object {
	return &Object{Model: model, values: map[string]any{}}
}

func (o *Object) set(name string, v any) {
	if _, ok := o.values[name]; !ok {
		o.names = append(o.names, name)
	}
	o.values[name] = v
}

// Get returns the value of a property and whether the routine declared it.
func (o *Object) Get(name string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[name]
	return v, ok
}

func (o *Object) Value(name string) any {
	v, _ := o.Get(name)
	return v
}

// Object returns a nested object, or nil when the property is absent.
func (o *Object) Object(name string) *Object {
	child, _ := o.Value(name).(*Object)
	return child
}

func (o *Object) List(name string) []any {
	list, _ := o.Value(name).([]any)
	return list
}

// Names lists the properties in declaration order.
func (o *Object) Names() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.names)
}

// Map converts o into plain maps and slices, e.g. for re-encoding.
func (o *Object) Map() map[string]any {
	if o == nil {
		return nil
	}
	m := make(map[string]any, len(o.values))
	for name, v := range o.values {
		m[name] = plain(v)
	}
	return m
}

func plain(v any) any {
	switch v := v.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		return v.Map()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}
