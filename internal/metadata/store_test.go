package metadata

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/caxton/internal/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	registry := NewSchemaRegistry(nil)
	require.NoError(t, registry.Register(providerSchema()))
	return NewStore(registry)
}

func TestStore_SetGet(t *testing.T) {
	store := newTestStore(t)

	written, err := store.Set("doc-1", "provider", map[string]interface{}{
		"id":      "urn:newsml:ap:1",
		"urgency": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), written.Revision)

	read, err := store.Get("doc-1", "provider")
	require.NoError(t, err)
	assert.Equal(t, written.Value, read.Value)
	// Stored value is the validated form, not the raw input.
	assert.Equal(t, float64(3), read.Value["urgency"])
}

func TestStore_SetIdempotentValue(t *testing.T) {
	store := newTestStore(t)

	value := map[string]interface{}{"id": "urn:newsml:ap:1"}
	first, err := store.Set("doc-1", "provider", value)
	require.NoError(t, err)
	second, err := store.Set("doc-1", "provider", value)
	require.NoError(t, err)

	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, first.Revision+1, second.Revision)
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("doc-404", "provider")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestStore_UnknownSchema(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Set("doc-1", "nope", map[string]interface{}{})
	assert.True(t, errors.IsStructural(err))

	_, err = store.Get("doc-1", "nope")
	assert.True(t, errors.IsStructural(err))
}

func TestStore_FailedSetWritesNothing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Set("doc-1", "provider", map[string]interface{}{
		"id": "urn:newsml:ap:1",
	})
	require.NoError(t, err)

	// Invalid replacement must not clobber the previous record.
	_, err = store.Set("doc-1", "provider", map[string]interface{}{
		"id":         "urn:newsml:ap:2",
		"undeclared": true,
	})
	require.Error(t, err)

	read, err := store.Get("doc-1", "provider")
	require.NoError(t, err)
	assert.Equal(t, "urn:newsml:ap:1", read.Value["id"])
	assert.Equal(t, int64(1), read.Revision)
}

func TestStore_ReturnedRecordIsIsolated(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Set("doc-1", "provider", map[string]interface{}{"id": "a"})
	require.NoError(t, err)

	read, err := store.Get("doc-1", "provider")
	require.NoError(t, err)
	read.Value["id"] = "mutated"

	again, err := store.Get("doc-1", "provider")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Value["id"])
}

func TestStore_SetIfRevision(t *testing.T) {
	store := newTestStore(t)

	// Expected 0 means "record must not exist yet".
	first, err := store.SetIfRevision("doc-1", "provider", 0, map[string]interface{}{"id": "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Revision)

	_, err = store.SetIfRevision("doc-1", "provider", 0, map[string]interface{}{"id": "b"})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	second, err := store.SetIfRevision("doc-1", "provider", first.Revision, map[string]interface{}{"id": "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Revision)
}

func TestStore_ConcurrentCASOneWinner(t *testing.T) {
	store := newTestStore(t)

	base, err := store.Set("doc-1", "provider", map[string]interface{}{"id": "base"})
	require.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	results := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = store.SetIfRevision("doc-1", "provider", base.Revision,
				map[string]interface{}{"id": "contender"})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.True(t, errors.IsConflict(err))
		}
	}
	assert.Equal(t, 1, winners)

	read, err := store.Get("doc-1", "provider")
	require.NoError(t, err)
	assert.Equal(t, base.Revision+1, read.Revision)
}

func TestStore_ConcurrentSetsSerialize(t *testing.T) {
	store := newTestStore(t)

	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Set("doc-1", "provider", map[string]interface{}{"id": "x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	read, err := store.Get("doc-1", "provider")
	require.NoError(t, err)
	assert.Equal(t, int64(writers), read.Revision)
}
