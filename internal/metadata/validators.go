package metadata

import (
	"fmt"
	"strings"
	"sync"
)

// ValidatorRegistry holds named custom validators. Like the schema
// registry it is populated at process start and read-only afterwards.
type ValidatorRegistry struct {
	validators map[string]Validator
	mutex      sync.RWMutex
}

// NewValidatorRegistry creates a validator registry with the builtin
// validators pre-registered.
func NewValidatorRegistry() *ValidatorRegistry {
	r := &ValidatorRegistry{
		validators: make(map[string]Validator),
	}

	r.MustRegister("not-blank", validateNotBlank)
	r.MustRegister("max-length", validateMaxLength)
	r.MustRegister("range", validateRange)
	r.MustRegister("one-of", validateOneOf)
	r.MustRegister("prefix", validatePrefix)

	return r
}

// Register adds a named validator. Re-registration fails.
func (r *ValidatorRegistry) Register(name string, v Validator) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.validators[name]; exists {
		return fmt.Errorf("validator already registered: %s", name)
	}

	r.validators[name] = v

	return nil
}

// MustRegister registers a validator and panics on duplicates. Used for
// builtins during construction.
func (r *ValidatorRegistry) MustRegister(name string, v Validator) {
	if err := r.Register(name, v); err != nil {
		panic(err)
	}
}

// Get returns the named validator.
func (r *ValidatorRegistry) Get(name string) (Validator, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	v, ok := r.validators[name]

	return v, ok
}

// Builtin validators. All are pure: they inspect (value, config) and
// return a rejection reason, nothing else.

func validateNotBlank(value interface{}, _ map[string]interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("not-blank applies to text values, got %T", value)
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("must not be blank")
	}

	return nil
}

func validateMaxLength(value interface{}, config map[string]interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("max-length applies to text values, got %T", value)
	}

	max, ok := configInt(config, "max")
	if !ok {
		return fmt.Errorf("max-length requires a numeric 'max' config")
	}

	if len(s) > max {
		return fmt.Errorf("must be at most %d characters, got %d", max, len(s))
	}

	return nil
}

func validateRange(value interface{}, config map[string]interface{}) error {
	n, ok := value.(float64)
	if !ok {
		return fmt.Errorf("range applies to number values, got %T", value)
	}

	if min, ok := configFloat(config, "min"); ok && n < min {
		return fmt.Errorf("must be at least %g, got %g", min, n)
	}
	if max, ok := configFloat(config, "max"); ok && n > max {
		return fmt.Errorf("must be at most %g, got %g", max, n)
	}

	return nil
}

func validateOneOf(value interface{}, config map[string]interface{}) error {
	allowed, ok := config["values"].([]interface{})
	if !ok {
		return fmt.Errorf("one-of requires a 'values' list config")
	}

	for _, candidate := range allowed {
		if candidate == value {
			return nil
		}
	}

	return fmt.Errorf("%v is not one of the allowed values", value)
}

func validatePrefix(value interface{}, config map[string]interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("prefix applies to text and reference values, got %T", value)
	}

	prefix, ok := config["prefix"].(string)
	if !ok {
		return fmt.Errorf("prefix requires a 'prefix' config")
	}

	if !strings.HasPrefix(s, prefix) {
		return fmt.Errorf("must start with %q", prefix)
	}

	return nil
}

func configInt(config map[string]interface{}, key string) (int, bool) {
	switch v := config[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func configFloat(config map[string]interface{}, key string) (float64, bool) {
	switch v := config[key].(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
