package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaxtonError_Error(t *testing.T) {
	err := NewValidationError(ErrCodeSchemaValidation, "value out of range").
		WithDocument("doc-1").
		WithField("urgency")

	msg := err.Error()
	assert.Contains(t, msg, "[ERR_SCHEMA_VALIDATION]")
	assert.Contains(t, msg, "document:doc-1")
	assert.Contains(t, msg, "field:urgency")
	assert.Contains(t, msg, "value out of range")
}

func TestCaxtonError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExternalError(ErrCodeAssetJobFailed, "asset job failed", cause)

	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCaxtonError_Is(t *testing.T) {
	a := ErrUnknownLayout("magazine", "hero")
	b := ErrUnknownLayout("magazine", "other")
	c := ErrDuplicateDesign("magazine", "1.0.0")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"structural", ErrUnknownComponentType("d", "t"), IsStructural, true},
		{"validation", ErrContentKindMismatch("title", "text", "media-reference"), IsValidation, true},
		{"external", ErrImportFailed("a-1", fmt.Errorf("boom")), IsExternal, true},
		{"conflict", ErrStaleRevision("doc-1", "tasks", 1, 2), IsConflict, true},
		{"plain error is nothing", fmt.Errorf("plain"), IsStructural, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(ErrStaleRevision("doc", "tasks", 0, 1)))
	assert.True(t, IsRecoverable(ErrSchemaValidation("tasks", "state", "bad")))
	assert.False(t, IsRecoverable(ErrUnknownDirective("paragraph", "missing")))
	assert.False(t, IsRecoverable(stderrors.New("plain")))
}

func TestErrSchemaValidation_Context(t *testing.T) {
	err := ErrSchemaValidation("provider", "urgency", "must be between 1 and 9")

	assert.Equal(t, "urgency", err.Field)
	assert.Equal(t, "provider", err.Context["schema"])
	assert.Equal(t, "must be between 1 and 9", err.Context["reason"])
}

func TestWithContext_InitializesMap(t *testing.T) {
	err := NewInternalError(ErrCodeInternalError, "oops", nil)
	err.WithContext("k", "v")

	assert.Equal(t, "v", err.Context["k"])
}
