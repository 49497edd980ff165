package artifact

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/encryptabit/ams/internal/amserr"
)

// SchemaValidator compiles and caches JSON Schemas by resource name, the
// concrete mechanism behind SchemaMismatch detection (spec §4.14, §8).
// Grounded on the teacher's internal/providers/structured_output.go use of
// santhosh-tekuri/jsonschema/v5.
type SchemaValidator struct {
	compiled map[string]*jsonschema.Schema
}

// NewSchemaValidator compiles a set of named schema documents (raw JSON
// Schema text) up front.
func NewSchemaValidator(schemas map[string]string) (*SchemaValidator, error) {
	sv := &SchemaValidator{compiled: make(map[string]*jsonschema.Schema, len(schemas))}
	for name, raw := range schemas {
		c := jsonschema.NewCompiler()
		resourceURL := "mem://" + name + ".json"
		if err := c.AddResource(resourceURL, strings.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("artifact: add schema resource %s: %w", name, err)
		}
		schema, err := c.Compile(resourceURL)
		if err != nil {
			return nil, fmt.Errorf("artifact: compile schema %s: %w", name, err)
		}
		sv.compiled[name] = schema
	}
	return sv, nil
}

// Validate checks doc (already JSON-unmarshalled into any, e.g. via
// json.Unmarshal into map[string]any) against the named schema, returning a
// SchemaMismatch-kind *amserr.Error on violation.
func (sv *SchemaValidator) Validate(name string, doc any) error {
	schema, ok := sv.compiled[name]
	if !ok {
		return fmt.Errorf("artifact: unknown schema %q", name)
	}
	if err := schema.Validate(doc); err != nil {
		return amserr.New(amserr.SchemaMismatch, "schema validation failed for "+name, err)
	}
	return nil
}

// ValidateJSONBytes unmarshals raw JSON bytes generically and validates the
// result against the named schema.
func (sv *SchemaValidator) ValidateJSONBytes(name string, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return amserr.New(amserr.SchemaMismatch, "invalid JSON for "+name, err)
	}
	return sv.Validate(name, v)
}
