package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	gqlgenconfig "github.com/99designs/gqlgen/codegen/config"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlmodelgen/codegen"
	"github.com/gqlgo/gqlmodelgen/introspection"
	"github.com/gqlgo/gqlmodelgen/queryparser"
)

// Config represents the config file.
type Config struct {
	SchemaFilename           gqlgenconfig.StringList `yaml:"schema"`
	Query                    []string                `yaml:"query"`
	PassthroughCustomScalars bool                    `yaml:"passthrough_custom_scalars,omitempty"`
	// Concurrency limits the number of operations compiled at once. 0 means
	// no limit.
	Concurrency int                        `yaml:"concurrency,omitempty"`
	QueryGen    gqlgenconfig.PackageConfig `yaml:"querygen,omitempty"`
	JSONGen     *JSONGenConfig             `yaml:"jsongen,omitempty"`

	Schema        *ast.Schema        `yaml:"-"`
	QueryDocument *ast.QueryDocument `yaml:"-"`
}

// JSONGenConfig writes the compiled models as JSON for a non-Go host.
type JSONGenConfig struct {
	Filename string `yaml:"filename"`
	Host     string `yaml:"host,omitempty"`
}

// LoadConfig loads and parses the config file.
func LoadConfig(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var c Config

	yamlDecoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(configContent)))), yaml.DisallowUnknownField())
	if err := yamlDecoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	// validation
	if len(c.SchemaFilename) == 0 {
		return nil, errors.New("'schema' is not specified")
	}

	if len(c.Query) == 0 {
		return nil, errors.New("'query' is not specified")
	}

	if !c.QueryGen.IsDefined() && c.JSONGen == nil {
		return nil, errors.New("neither 'querygen' nor 'jsongen' specified")
	}

	if c.Concurrency < 0 {
		return nil, fmt.Errorf("'concurrency' must not be negative: %d", c.Concurrency)
	}

	if c.QueryGen.IsDefined() {
		if err := c.QueryGen.Check(); err != nil {
			return nil, fmt.Errorf("querygen: %w", err)
		}
	}

	if c.JSONGen != nil {
		if c.JSONGen.Filename == "" {
			return nil, errors.New("jsongen: filename is not specified")
		}
		if c.JSONGen.Host == "" {
			c.JSONGen.Host = codegen.DefaultHost
		}
		if _, err := codegen.LookupHost(c.JSONGen.Host); err != nil {
			return nil, fmt.Errorf("jsongen: %w", err)
		}
	}

	schemaFilename, err := queryparser.Filenames(c.SchemaFilename)
	if err != nil {
		return nil, err
	}
	if len(schemaFilename) == 0 {
		return nil, fmt.Errorf("no schema files match %s", strings.Join(c.SchemaFilename, ", "))
	}

	c.SchemaFilename = schemaFilename

	return &c, nil
}

// LoadSchema reads the schema files. A single .json file is read as an
// introspection result; anything else is SDL.
func (c *Config) LoadSchema() error {
	var schema *ast.Schema
	switch {
	case len(c.SchemaFilename) == 1 && filepath.Ext(c.SchemaFilename[0]) == ".json":
		s, err := introspection.LoadSchema(c.SchemaFilename[0])
		if err != nil {
			return fmt.Errorf("load introspection schema failed: %w", err)
		}
		schema = s
	default:
		sources := make([]*ast.Source, 0, len(c.SchemaFilename))
		for _, filename := range c.SchemaFilename {
			if filepath.Ext(filename) == ".json" {
				return fmt.Errorf("%s: an introspection schema cannot be combined with other schema files", filename)
			}
			content, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("unable to open schema: %w", err)
			}
			sources = append(sources, &ast.Source{Name: filename, Input: string(content)})
		}
		s, err := gqlparser.LoadSchema(sources...)
		if err != nil {
			return fmt.Errorf("load local schema failed: %w", err)
		}
		schema = s
	}

	// sort Implements to ensure a deterministic output
	for _, implements := range schema.Implements {
		slices.SortFunc(implements, func(a, b *ast.Definition) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	c.Schema = schema

	return nil
}

// LoadQuery parses and validates the query files against the loaded schema.
func (c *Config) LoadQuery() error {
	if c.Schema == nil {
		return errors.New("schema is not loaded")
	}

	querySources, err := queryparser.LoadQuerySources(c.Query)
	if err != nil {
		return fmt.Errorf("load query sources failed: %w", err)
	}

	queryDocument, err := queryparser.QueryDocument(c.Schema, querySources)
	if err != nil {
		return err
	}

	c.QueryDocument = queryDocument

	return nil
}

// FindConfigFile searches dir and then its parents for the first of names.
func FindConfigFile(dir string, names []string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("unable to resolve %s: %w", dir, err)
	}

	for {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("unable to find config file, looked for %s", strings.Join(names, ", "))
		}
		dir = parent
	}
}
