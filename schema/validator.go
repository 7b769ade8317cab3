// Package schema checks decoded configuration documents against a JSON
// Schema.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Violation is one failed keyword, located by JSON pointer.
type Violation struct {
	Pointer string
	Message string
}

func (v Violation) String() string {
	if v.Pointer == "" {
		return v.Message
	}
	return v.Pointer + ": " + v.Message
}

// ValidationError lists every violation found in one document.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, "- "+v.String())
	}
	return "schema validation failed:\n" + strings.Join(lines, "\n")
}

// Problems returns the violations as plain strings.
func (e *ValidationError) Problems() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.String())
	}
	return out
}

// Validator wraps a compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData registered under name.
func NewValidator(name string, schemaData []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schemaData)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks a decoded document. Values produced by the YAML and TOML
// decoders are round-tripped through encoding/json first so integers and
// nested maps take the shapes the schema library expects.
func (v *Validator) Validate(doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks raw JSON text.
func (v *Validator) ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var instance interface{}
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	err := v.schema.Validate(instance)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	var out ValidationError
	flatten(verr, &out.Violations)
	if len(out.Violations) == 0 {
		out.Violations = append(out.Violations, Violation{Message: verr.Message})
	}
	sort.SliceStable(out.Violations, func(i, j int) bool {
		return out.Violations[i].Pointer < out.Violations[j].Pointer
	})
	return &out
}

// flatten keeps only leaf causes; parents repeat their children.
func flatten(err *jsonschema.ValidationError, into *[]Violation) {
	if len(err.Causes) == 0 {
		*into = append(*into, Violation{Pointer: err.InstanceLocation, Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		flatten(cause, into)
	}
}
