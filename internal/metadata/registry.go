package metadata

import (
	"fmt"
	"sort"
	"sync"

	"github.com/conneroisu/caxton/internal/errors"
)

// SchemaRegistry manages all registered metadata schemas. It resolves
// declared validator names against a validator registry at registration
// time so later writes never hit an unresolved validator.
type SchemaRegistry struct {
	schemas    map[string]*Schema
	validators *ValidatorRegistry
	mutex      sync.RWMutex
}

// NewSchemaRegistry creates a schema registry backed by the given
// validator registry.
func NewSchemaRegistry(validators *ValidatorRegistry) *SchemaRegistry {
	if validators == nil {
		validators = NewValidatorRegistry()
	}

	return &SchemaRegistry{
		schemas:    make(map[string]*Schema),
		validators: validators,
	}
}

// Validators returns the backing validator registry.
func (r *SchemaRegistry) Validators() *ValidatorRegistry {
	return r.validators
}

// Register validates and adds a schema. Re-registration under the same
// name fails with a duplicate-schema error.
func (r *SchemaRegistry) Register(s *Schema) error {
	if err := s.validateDefinition(); err != nil {
		return err
	}

	for i, field := range s.Fields {
		if field.Validator == "" {
			continue
		}

		v, ok := r.validators.Get(field.Validator)
		if !ok {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("schema field %s.%s names unknown validator %q",
					s.Name, field.Name, field.Validator))
		}
		s.Fields[i].validate = v
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.schemas[s.Name]; exists {
		return errors.ErrDuplicateSchema(s.Name)
	}

	r.schemas[s.Name] = s

	return nil
}

// Get retrieves a schema by name.
func (r *SchemaRegistry) Get(name string) (*Schema, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, exists := r.schemas[name]
	if !exists {
		return nil, errors.ErrUnknownSchema(name)
	}

	return s, nil
}

// GetAll returns all registered schemas sorted by name.
func (r *SchemaRegistry) GetAll() []*Schema {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Count returns the number of registered schemas
func (r *SchemaRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.schemas)
}
