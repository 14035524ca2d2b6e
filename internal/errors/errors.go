package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	// ErrorTypeStructural covers unknown types, directives, layouts and
	// schema fields. These are caller or configuration bugs and are never
	// retried.
	ErrorTypeStructural ErrorType = "structural"
	// ErrorTypeValidation covers content or metadata that fails a declared
	// or custom rule. Surfaced with field-level context.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeExternal covers failures reported by external collaborators,
	// such as the asset-processing service.
	ErrorTypeExternal ErrorType = "external"
	// ErrorTypeConflict covers lost races on a state transition or a
	// metadata write. The caller re-reads and retries.
	ErrorTypeConflict ErrorType = "conflict"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeInternal ErrorType = "internal"
)

// CaxtonError is a structured error type with context.
type CaxtonError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Document    string
	Field       string
	Recoverable bool
}

// Error implements the error interface.
func (e *CaxtonError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Document != "" {
		parts = append(parts, "document:"+e.Document)
	}

	if e.Field != "" {
		parts = append(parts, "field:"+e.Field)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *CaxtonError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *CaxtonError) Is(target error) bool {
	var t *CaxtonError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *CaxtonError) WithContext(key string, value interface{}) *CaxtonError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithDocument adds document context.
func (e *CaxtonError) WithDocument(documentID string) *CaxtonError {
	e.Document = documentID

	return e
}

// WithField adds field or directive context.
func (e *CaxtonError) WithField(field string) *CaxtonError {
	e.Field = field

	return e
}

// Error creation functions

// NewStructuralError creates a structural error.
func NewStructuralError(code, message string) *CaxtonError {
	return &CaxtonError{
		Type:        ErrorTypeStructural,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *CaxtonError {
	return &CaxtonError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewExternalError creates an external collaborator error.
func NewExternalError(code, message string, cause error) *CaxtonError {
	return &CaxtonError{
		Type:        ErrorTypeExternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewConflictError creates a concurrency conflict error.
func NewConflictError(code, message string) *CaxtonError {
	return &CaxtonError{
		Type:        ErrorTypeConflict,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *CaxtonError {
	return &CaxtonError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *CaxtonError {
	return &CaxtonError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Error classification utilities

// IsStructural checks if an error is a structural error.
func IsStructural(err error) bool {
	var ce *CaxtonError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTypeStructural
	}

	return false
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	var ce *CaxtonError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTypeValidation
	}

	return false
}

// IsExternal checks if an error originated from an external collaborator.
func IsExternal(err error) bool {
	var ce *CaxtonError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTypeExternal
	}

	return false
}

// IsConflict checks if an error is a lost concurrency race.
func IsConflict(err error) bool {
	var ce *CaxtonError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTypeConflict
	}

	return false
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ce *CaxtonError
	if errors.As(err, &ce) {
		return ce.Recoverable
	}

	return false
}

// Common error codes.
const (
	ErrCodeDuplicateDesign      = "ERR_DUPLICATE_DESIGN"
	ErrCodeUnknownDesign        = "ERR_UNKNOWN_DESIGN"
	ErrCodeUnknownLayout        = "ERR_UNKNOWN_LAYOUT"
	ErrCodeUnknownComponentType = "ERR_UNKNOWN_COMPONENT_TYPE"
	ErrCodeUnknownDirective     = "ERR_UNKNOWN_DIRECTIVE"
	ErrCodeContentKindMismatch  = "ERR_CONTENT_KIND_MISMATCH"
	ErrCodeDuplicateSchema      = "ERR_DUPLICATE_SCHEMA"
	ErrCodeUnknownSchema        = "ERR_UNKNOWN_SCHEMA"
	ErrCodeSchemaValidation     = "ERR_SCHEMA_VALIDATION"
	ErrCodeRecordNotFound       = "ERR_RECORD_NOT_FOUND"
	ErrCodeImportFailed         = "ERR_IMPORT_FAILED"
	ErrCodeAssetJobFailed       = "ERR_ASSET_JOB_FAILED"
	ErrCodeStaleRevision        = "ERR_STALE_REVISION"
	ErrCodeConfigInvalid        = "ERR_CONFIG_INVALID"
	ErrCodeInternalError        = "ERR_INTERNAL"
)

// Helper functions for common errors

// ErrDuplicateDesign reports a design registered twice under one
// name+version.
func ErrDuplicateDesign(name, version string) *CaxtonError {
	return NewStructuralError(
		ErrCodeDuplicateDesign,
		fmt.Sprintf("design already registered: %s@%s", name, version),
	)
}

// ErrUnknownDesign reports a lookup for a design that was never registered.
func ErrUnknownDesign(name, version string) *CaxtonError {
	return NewStructuralError(
		ErrCodeUnknownDesign,
		fmt.Sprintf("unknown design: %s@%s", name, version),
	)
}

// ErrUnknownLayout reports a layout not declared by the bound design.
func ErrUnknownLayout(design, layout string) *CaxtonError {
	return NewStructuralError(
		ErrCodeUnknownLayout,
		fmt.Sprintf("design %s does not declare layout %q", design, layout),
	)
}

// ErrUnknownComponentType reports a component type not declared by the
// bound design.
func ErrUnknownComponentType(design, typeName string) *CaxtonError {
	return NewStructuralError(
		ErrCodeUnknownComponentType,
		fmt.Sprintf("design %s does not declare component type %q", design, typeName),
	)
}

// ErrUnknownDirective reports a directive not declared for a component type.
func ErrUnknownDirective(typeName, directive string) *CaxtonError {
	return NewStructuralError(
		ErrCodeUnknownDirective,
		fmt.Sprintf("component type %s does not declare directive %q", typeName, directive),
	).WithField(directive)
}

// ErrContentKindMismatch reports content whose kind does not match the
// directive's declared kind.
func ErrContentKindMismatch(directive, want, got string) *CaxtonError {
	return NewValidationError(
		ErrCodeContentKindMismatch,
		fmt.Sprintf("directive %q accepts %s content, got %s", directive, want, got),
	).WithField(directive)
}

// ErrDuplicateSchema reports a metadata schema registered twice.
func ErrDuplicateSchema(name string) *CaxtonError {
	return NewStructuralError(
		ErrCodeDuplicateSchema,
		"metadata schema already registered: "+name,
	)
}

// ErrUnknownSchema reports a metadata schema that was never registered.
func ErrUnknownSchema(name string) *CaxtonError {
	return NewStructuralError(
		ErrCodeUnknownSchema,
		"unknown metadata schema: "+name,
	)
}

// ErrSchemaValidation reports a metadata value rejected by a field's
// structural check or custom validator.
func ErrSchemaValidation(schema, field, reason string) *CaxtonError {
	return NewValidationError(
		ErrCodeSchemaValidation,
		fmt.Sprintf("schema %s rejected field %q: %s", schema, field, reason),
	).WithField(field).WithContext("schema", schema).WithContext("reason", reason)
}

// ErrRecordNotFound reports a missing metadata record.
func ErrRecordNotFound(documentID, schema string) *CaxtonError {
	return NewValidationError(
		ErrCodeRecordNotFound,
		fmt.Sprintf("no %s record for document %s", schema, documentID),
	).WithDocument(documentID)
}

// ErrImportFailed reports an aborted transformation. Partial documents are
// never surfaced alongside this error.
func ErrImportFailed(article string, cause error) *CaxtonError {
	return NewExternalError(
		ErrCodeImportFailed,
		"import failed for article "+article,
		cause,
	)
}

// ErrAssetJobFailed reports a single asset-processing job failure.
func ErrAssetJobFailed(sourceURL string, cause error) *CaxtonError {
	return NewExternalError(
		ErrCodeAssetJobFailed,
		"asset job failed for "+sourceURL,
		cause,
	)
}

// ErrStaleRevision reports a compare-and-swap write that lost its race.
func ErrStaleRevision(documentID, schema string, expected, actual int64) *CaxtonError {
	return NewConflictError(
		ErrCodeStaleRevision,
		fmt.Sprintf("stale %s record for document %s: expected revision %d, found %d",
			schema, documentID, expected, actual),
	).WithDocument(documentID)
}
