package codegen

import (
	"slices"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// Namespace is the lexical path of a model inside the selection tree, e.g.
// HeroQuery.Data.Hero.Friend. It is a value; Child never modifies the
// receiver.
type Namespace struct {
	path []string
}

func NewNamespace(path ...string) Namespace {
	return Namespace{path: slices.Clone(path)}
}

func (n Namespace) Child(name string) Namespace {
	path := make([]string, len(n.path), len(n.path)+1)
	copy(path, n.path)
	return Namespace{path: append(path, name)}
}

func (n Namespace) Path() []string {
	return slices.Clone(n.path)
}

func (n Namespace) Name() string {
	if len(n.path) == 0 {
		return ""
	}
	return n.path[len(n.path)-1]
}

func (n Namespace) String() string {
	return strings.Join(n.path, ".")
}

const (
	fragmentsContainerName = "Fragments"
	discriminatorKey       = "__typename"
)

// pascal converts a response name or type name to PascalCase.
func pascal(s string) string {
	return strcase.ToCamel(s)
}

// camel converts a response name to a lowerCamel property name.
func camel(s string) string {
	return strcase.ToLowerCamel(strings.TrimLeft(s, "_"))
}

// modelTypeName derives the nested model name of a composite field: "edges"
// becomes "Edge".
func modelTypeName(responseName string) string {
	return pascal(inflection.Singular(responseName))
}

func variantTypeName(typeCondition string) string {
	return "As" + pascal(typeCondition)
}

// allocateNames gives every key a distinct name. derive is tried first; keys
// whose derived name is reserved or shared with another key fall back to
// exact, and then to exact plus the smallest free numeric suffix. Keys are
// visited in sorted order so the result does not depend on input order.
func allocateNames(reserved []string, keys []string, derive, exact func(string) string) map[string]string {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	taken := make(map[string]bool, len(reserved)+len(sorted))
	for _, r := range reserved {
		taken[r] = true
	}

	derivedCount := make(map[string]int, len(sorted))
	for _, k := range sorted {
		derivedCount[derive(k)]++
	}

	names := make(map[string]string, len(sorted))
	for _, k := range sorted {
		d := derive(k)
		if derivedCount[d] == 1 && !taken[d] {
			names[k] = d
			taken[d] = true
		}
	}

	var pending []string
	exactCount := make(map[string]int)
	for _, k := range sorted {
		if _, ok := names[k]; !ok {
			pending = append(pending, k)
			exactCount[exact(k)]++
		}
	}
	for _, k := range pending {
		e := exact(k)
		if exactCount[e] == 1 && !taken[e] {
			names[k] = e
			taken[e] = true
		}
	}
	for _, k := range pending {
		if _, ok := names[k]; ok {
			continue
		}
		e := exact(k)
		for i := 2; ; i++ {
			candidate := e + strconv.Itoa(i)
			if !taken[candidate] {
				names[k] = candidate
				taken[candidate] = true
				break
			}
		}
	}

	return names
}
