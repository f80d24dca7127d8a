// Package queryparser loads .graphql query files and validates them against a
// schema as one document.
package queryparser

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// Filenames expands glob patterns into a sorted list of files without
// duplicates. A "**" segment matches any number of directories: everything
// under the prefix whose name matches the remainder.
func Filenames(patterns []string) ([]string, error) {
	var filenames []string
	for _, pattern := range patterns {
		matches, err := expand(pattern)
		if err != nil {
			return nil, err
		}
		filenames = append(filenames, matches...)
	}
	slices.Sort(filenames)
	return slices.Compact(filenames), nil
}

func expand(pattern string) ([]string, error) {
	root, rest, recursive := strings.Cut(filepath.ToSlash(pattern), "**")
	if !recursive {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob %s: %w", pattern, err)
		}
		return matches, nil
	}

	root = filepath.FromSlash(root)
	rest = strings.TrimPrefix(rest, "/")
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := filepath.Match(rest, d.Name())
		if err != nil {
			return err
		}
		if rest == "" || ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk schema at root %s: %w", root, err)
	}
	return matches, nil
}

// LoadQuerySources reads every file matched by patterns.
func LoadQuerySources(patterns []string) ([]*ast.Source, error) {
	filenames, err := Filenames(patterns)
	if err != nil {
		return nil, err
	}
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no query files match %s", strings.Join(patterns, ", "))
	}

	sources := make([]*ast.Source, 0, len(filenames))
	for _, filename := range filenames {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to open query: %w", err)
		}
		sources = append(sources, &ast.Source{Name: filename, Input: string(content)})
	}
	return sources, nil
}

// QueryDocument parses sources into a single document and validates it
// against schema. Fragments may be spread across files.
func QueryDocument(schema *ast.Schema, sources []*ast.Source) (*ast.QueryDocument, error) {
	merged := &ast.QueryDocument{}
	for _, src := range sources {
		doc, err := parser.ParseQuery(src)
		if err != nil {
			return nil, fmt.Errorf("parse query %s: %w", src.Name, err)
		}
		merged.Operations = append(merged.Operations, doc.Operations...)
		merged.Fragments = append(merged.Fragments, doc.Fragments...)
	}

	if errs := validator.Validate(schema, merged); len(errs) > 0 {
		return nil, fmt.Errorf("validate query: %w", errs)
	}
	return merged, nil
}
