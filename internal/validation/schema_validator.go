// Package validation checks configuration documents against JSON schemas
// before they are decoded into typed structs.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaValidator validates documents against JSON schemas
type SchemaValidator interface {
	ValidateFile(dataPath, schemaPath string) error
	ValidateJSON(data []byte, schemaPath string) error
	ValidateYAML(data []byte, schemaPath string) error
}

type validator struct {
	mu       sync.Mutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a new schema validator
func NewSchemaValidator() SchemaValidator {
	return &validator{
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

// ValidateFile validates a JSON or YAML file, chosen by extension.
func (v *validator) ValidateFile(dataPath, schemaPath string) error {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read data file %s: %w", dataPath, err)
	}
	if IsYAML(dataPath) {
		return v.ValidateYAML(data, schemaPath)
	}
	return v.ValidateJSON(data, schemaPath)
}

// ValidateJSON validates JSON bytes.
func (v *validator) ValidateJSON(data []byte, schemaPath string) error {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}
	return v.validate(doc, schemaPath)
}

// ValidateYAML validates YAML bytes. The document is normalised through JSON
// so the schema sees the same types it would for a JSON file.
func (v *validator) ValidateYAML(data []byte, schemaPath string) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML data: %w", err)
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}
	return v.ValidateJSON(asJSON, schemaPath)
}

// IsYAML reports whether path has a YAML extension.
func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func (v *validator) validate(doc any, schemaPath string) error {
	schema, err := v.loadSchema(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaPath, err)
	}
	if err := schema.Validate(doc); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// loadSchema compiles a schema once and caches it by path.
func (v *validator) loadSchema(schemaPath string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.schemas[schemaPath]; ok {
		return schema, nil
	}

	resolved, err := resolveSchemaPath(schemaPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	defer f.Close()

	schemaDoc, err := jsonschema.UnmarshalJSON(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	if err := v.compiler.AddResource(schemaPath, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := v.compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	v.schemas[schemaPath] = schema
	return schema, nil
}

func formatValidationError(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("validation error: %w", err)
	}
	var lines []string
	collectErrors(verr, &lines)
	return fmt.Errorf("schema validation failed:\n%s", strings.Join(lines, "\n"))
}

func collectErrors(err *jsonschema.ValidationError, lines *[]string) {
	if len(err.Causes) == 0 {
		location := "/" + strings.Join(err.InstanceLocation, "/")
		keyword := "schema"
		if err.ErrorKind != nil {
			if path := err.ErrorKind.KeywordPath(); len(path) > 0 {
				keyword = strings.Join(path, ".")
			}
		}
		*lines = append(*lines, fmt.Sprintf("  - at %s: %s validation failed", location, keyword))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, lines)
	}
}

// resolveSchemaPath finds a relative schema path by walking up to the module root.
func resolveSchemaPath(schemaPath string) (string, error) {
	if filepath.IsAbs(schemaPath) {
		return schemaPath, nil
	}
	if _, err := os.Stat(schemaPath); err == nil {
		return schemaPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	for dir := cwd; ; {
		candidate := filepath.Join(dir, schemaPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("schema file not found: %s (searched from %s)", schemaPath, cwd)
}
