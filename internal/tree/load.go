package tree

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

//go:embed data/tree.json
var defaultTreeJSON []byte

// LoadError indicates the tree document is missing or malformed.
// It is fatal to the session: no partial tree is ever returned.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load decision tree %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// compiledSchema caches the compiled document schema.
var compiledSchema struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

func documentSchema() (*jsonschema.Schema, error) {
	compiledSchema.once.Do(func() {
		var parsed any
		if err := json.Unmarshal(schemaJSON, &parsed); err != nil {
			compiledSchema.err = fmt.Errorf("parse embedded schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://decision-tree.json"
		if err := c.AddResource(url, parsed); err != nil {
			compiledSchema.err = fmt.Errorf("add schema resource: %w", err)
			return
		}
		s, err := c.Compile(url)
		if err != nil {
			compiledSchema.err = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema.schema = s
	})
	return compiledSchema.schema, compiledSchema.err
}

// Parse validates raw JSON against the document schema, decodes it and
// runs structural validation. Any failure is a *LoadError.
func Parse(raw []byte, source string) (*Tree, error) {
	schema, err := documentSchema()
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("schema validation: %w", err)}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("decode document: %w", err)}
	}
	if err := Validate(doc); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	return New(doc), nil
}

// LoadFile loads and validates a tree document from disk.
func LoadFile(path string) (*Tree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return Parse(raw, path)
}

// Default returns the embedded decision-tree document.
func Default() (*Tree, error) {
	return Parse(defaultTreeJSON, "(embedded)")
}
