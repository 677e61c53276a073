// Package validator checks decoded documents, such as a vsgfix.yml run
// configuration, against a JSON Schema.
package validator

import (
	"errors"
	"fmt"
)

// Draft represents a JSON Schema draft version.
type Draft string

const (
	// Draft7 represents JSON Schema Draft 7.
	Draft7 Draft = "http://json-schema.org/draft-07/schema#"
	// Draft2020_12 represents JSON Schema Draft 2020-12.
	Draft2020_12 Draft = "https://json-schema.org/draft/2020-12/schema"
)

// A Document is a decoded JSON or YAML document: maps, slices and scalars as
// produced by json.Unmarshal or yaml.Unmarshal into an interface{}.
type Document interface{}

// Validator validates a Document against a compiled schema.
type Validator interface {
	Validate(doc Document) error
}

// Compiler compiles JSON Schemas into Validators. A schema must be added
// with AddSchema before it can be compiled.
type Compiler interface {
	// AddSchema registers a parsed schema under the given ID.
	AddSchema(id string, schema Document) error

	// Compile creates a Validator from the schema previously added with the given ID.
	Compile(id string) (Validator, error)

	// SupportedSchemaVersions returns the drafts the compiler understands.
	SupportedSchemaVersions() []Draft
}

// CheckDraft returns an error unless schema declares, through its $schema
// keyword, one of the supported drafts.
func CheckDraft(schema Document, supported []Draft) error {
	m, ok := schema.(map[string]any)
	if !ok {
		return errors.New("schema is not a JSON object")
	}
	declared, _ := m["$schema"].(string)
	for _, d := range supported {
		if Draft(declared) == d {
			return nil
		}
	}
	return fmt.Errorf("unsupported schema draft %q", declared)
}
