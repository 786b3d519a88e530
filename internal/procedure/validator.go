package procedure

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// InputValidator validates procedure inputs against their declared JSON
// schemas. Compiled schemas are cached so the hot path is a map lookup
// plus a validation walk.
type InputValidator struct {
	schemaCache *lru.Cache[string, *jsonschema.Schema]
}

// NewInputValidator creates a validator with an LRU cache for compiled
// schemas.
func NewInputValidator(cacheSize int) (*InputValidator, error) {
	cache, err := lru.New[string, *jsonschema.Schema](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create schema cache: %w", err)
	}
	return &InputValidator{schemaCache: cache}, nil
}

// Validate checks value against the schema. A nil error means the input
// is acceptable. Schema compilation failures are reported as errors
// too; a procedure with a broken schema must not accept anything.
func (v *InputValidator) Validate(schemaJSON string, value interface{}) error {
	if schemaJSON == "" {
		return nil
	}

	schema, found := v.schemaCache.Get(schemaJSON)
	if !found {
		compiled, err := compileSchema(schemaJSON)
		if err != nil {
			return fmt.Errorf("schema compilation failed: %w", err)
		}
		v.schemaCache.Add(schemaJSON, compiled)
		schema = compiled
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	return nil
}

// compileSchema compiles a JSON schema string into a schema object
func compileSchema(schemaJSON string) (*jsonschema.Schema, error) {
	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)

	schemaURL := "schema.json"
	if err := compiler.AddResource(schemaURL, parsed); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return schema, nil
}
