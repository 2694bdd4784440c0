// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON Schema for job variables.
type Schema struct {
	schema *gojsonschema.Schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Compile parses a schema definition expressed as a Go map.
func Compile(definition map[string]interface{}) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(definition))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for package-level schemas; it panics on a bad definition.
func MustCompile(definition map[string]interface{}) *Schema {
	s, err := Compile(definition)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a JSON document, typically job.Variables. The error is
// non-nil only when the document is not JSON at all.
func (s *Schema) Validate(document string) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})

	return out, nil
}

func (r *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}
