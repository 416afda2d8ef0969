package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed learning_map_schema.json
var learningMapSchemaJSON string

var (
	// ErrNotJSON reports a document that does not parse as JSON.
	ErrNotJSON = errors.New("document is not valid JSON")
	// ErrShape reports a JSON document without a nodes array.
	ErrShape = errors.New("document does not match learning map schema")
)

var (
	compileOnce       sync.Once
	learningMapSchema *jsonschema.Schema
	compileErr        error
)

// LearningMapSchema returns the compiled JSON Schema for model output.
func LearningMapSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("learning_map_schema.json", strings.NewReader(learningMapSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		s, err := compiler.Compile("learning_map_schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile learning map schema: %w", err)
			return
		}
		learningMapSchema = s
	})
	return learningMapSchema, compileErr
}

// ValidateLearningMap checks that data is JSON holding an object with a
// nodes array. Failures wrap ErrNotJSON or ErrShape.
func ValidateLearningMap(data []byte) error {
	s, err := LearningMapSchema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after document", ErrNotJSON)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrShape, err)
	}
	return nil
}
