// Package schema validates the JSON documents the diagnosis pipeline
// consumes: symptom lists (CLI argument, request body, vocabulary file)
// and label mapping files.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Definition is a named JSON Schema document.
type Definition struct {
	Name   string
	Schema map[string]any
}

// SymptomList accepts a JSON array of strings.
var SymptomList = Definition{
	Name: "symptom-list",
	Schema: map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "array",
		"items":   map[string]any{"type": "string"},
	},
}

// LabelMapping accepts either a JSON array of label strings or an object
// keyed by decimal class indices.
var LabelMapping = Definition{
	Name: "label-mapping",
	Schema: map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"oneOf": []any{
			map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			map[string]any{
				"type": "object",
				"patternProperties": map[string]any{
					"^(0|[1-9][0-9]*)$": map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
		},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Validate parses raw as JSON and checks it against def.
func Validate(def Definition, raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compile(def)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", def.Name, err)
	}

	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema %q: %w", def.Name, err)
	}
	return nil
}

// DecodeSymptoms validates raw against SymptomList and decodes it.
func DecodeSymptoms(raw []byte) ([]string, error) {
	if err := Validate(SymptomList, raw); err != nil {
		return nil, err
	}
	var symptoms []string
	if err := json.Unmarshal(raw, &symptoms); err != nil {
		return nil, fmt.Errorf("decode symptom list: %w", err)
	}
	return symptoms, nil
}

func compile(def Definition) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(def.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a plain decoded value; round-trip through JSON so
	// nested Go maps and slices normalize to map[string]any / []any.
	defBytes, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", def.Name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(def.Name, compiled)
	return compiled, nil
}
