// Package metadata provides the pluggable metadata schema registry and the
// validating metadata store. Schemas are registered once at process start;
// the store validates and persists one record per document per schema
// namespace, atomically per record.
package metadata

import (
	"fmt"
	"time"

	"github.com/conneroisu/caxton/internal/errors"
)

// FieldKind declares the structural type of a schema field.
type FieldKind string

const (
	FieldText      FieldKind = "text"
	FieldNumber    FieldKind = "number"
	FieldDatetime  FieldKind = "datetime"
	FieldReference FieldKind = "reference"
)

// Valid reports whether the kind is one of the declared field kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldText, FieldNumber, FieldDatetime, FieldReference:
		return true
	default:
		return false
	}
}

// Validator is a pure predicate over a normalized field value and the
// field's configuration. It returns nil on acceptance or an error carrying
// a human-readable rejection reason. Validators must not have side effects.
type Validator func(value interface{}, config map[string]interface{}) error

// FieldDef declares a single schema field.
type FieldDef struct {
	// Name is the field identifier inside the record
	Name string `yaml:"name"`
	// Kind is the structural type of the field
	Kind FieldKind `yaml:"kind"`
	// Required rejects records that omit the field
	Required bool `yaml:"required"`
	// Config is passed to the custom validator
	Config map[string]interface{} `yaml:"config"`
	// Validator names a registered custom validator (optional)
	Validator string `yaml:"validator"`

	// validate is the resolved validator function
	validate Validator
}

// Schema is a named, versioned set of field definitions. Records are closed
// by default: fields not declared here are rejected.
type Schema struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	Fields  []FieldDef `yaml:"fields"`
	// AllowUnknown opens the schema to undeclared fields. Off by default.
	AllowUnknown bool `yaml:"allow_unknown"`
}

// Field returns the named field definition, if declared.
func (s *Schema) Field(name string) (FieldDef, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return FieldDef{}, false
}

// ValidateRecord checks a record against the schema and returns the
// normalized copy that the store persists. The raw input is never stored:
// numbers normalize to float64 and datetimes to RFC3339 UTC strings, so a
// later read returns the validated form. The first failure aborts with a
// field-level error and nothing is returned.
func (s *Schema) ValidateRecord(value map[string]interface{}) (map[string]interface{}, error) {
	if value == nil {
		return nil, errors.ErrSchemaValidation(s.Name, "", "record must not be nil")
	}

	normalized := make(map[string]interface{}, len(value))

	for name, raw := range value {
		field, declared := s.Field(name)
		if !declared {
			if s.AllowUnknown {
				normalized[name] = raw
				continue
			}

			return nil, errors.ErrSchemaValidation(s.Name, name, "field is not declared by the schema")
		}

		norm, err := normalizeValue(field.Kind, raw)
		if err != nil {
			return nil, errors.ErrSchemaValidation(s.Name, name, err.Error())
		}

		if field.validate != nil {
			if err := field.validate(norm, field.Config); err != nil {
				return nil, errors.ErrSchemaValidation(s.Name, name, err.Error())
			}
		}

		normalized[name] = norm
	}

	for _, field := range s.Fields {
		if field.Required {
			if _, ok := normalized[field.Name]; !ok {
				return nil, errors.ErrSchemaValidation(s.Name, field.Name, "required field is missing")
			}
		}
	}

	return normalized, nil
}

// normalizeValue checks raw against the field kind and returns the
// canonical representation.
func normalizeValue(kind FieldKind, raw interface{}) (interface{}, error) {
	switch kind {
	case FieldText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected text, got %T", raw)
		}

		return s, nil

	case FieldNumber:
		switch n := raw.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		default:
			return nil, fmt.Errorf("expected number, got %T", raw)
		}

	case FieldDatetime:
		switch ts := raw.(type) {
		case time.Time:
			return ts.UTC().Format(time.RFC3339), nil
		case string:
			parsed, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				return nil, fmt.Errorf("expected RFC3339 datetime: %v", err)
			}

			return parsed.UTC().Format(time.RFC3339), nil
		default:
			return nil, fmt.Errorf("expected datetime, got %T", raw)
		}

	case FieldReference:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected reference, got %T", raw)
		}
		if s == "" {
			return nil, fmt.Errorf("reference must not be empty")
		}

		return s, nil

	default:
		return nil, fmt.Errorf("unknown field kind %q", kind)
	}
}

// validateDefinition checks the schema declaration itself.
func (s *Schema) validateDefinition() error {
	if s.Name == "" {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"metadata schema requires a name")
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("schema %s declares an unnamed field", s.Name))
		}
		if seen[f.Name] {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("schema %s declares field %q twice", s.Name, f.Name))
		}
		seen[f.Name] = true

		if !f.Kind.Valid() {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("schema field %s.%s has unknown kind %q", s.Name, f.Name, f.Kind))
		}
	}

	return nil
}
