package persona

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const personaSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "persona": {
      "anyOf": [
        {"type": "string"},
        {"type": "object", "properties": {"role": {"type": "string"}}}
      ]
    },
    "job_to_be_done": {
      "anyOf": [
        {"type": "string"},
        {"type": "object", "properties": {"task": {"type": "string"}}}
      ]
    },
    "documents": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "filename": {"type": "string"},
          "title": {"type": "string"}
        }
      }
    },
    "challenge_info": {"type": "object"}
  }
}`

var (
	compileOnce   sync.Once
	personaSchema *jsonschema.Schema
	compileErr    error
)

// Schema returns the compiled JSON Schema for persona documents.
func Schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("persona_schema.json", strings.NewReader(personaSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile("persona_schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile persona schema: %w", err)
			return
		}
		personaSchema = schema
	})
	return personaSchema, compileErr
}

// Validate checks raw JSON against the persona schema.
func Validate(data []byte) error {
	schema, err := Schema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: not valid JSON: %v", ErrInvalid, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
