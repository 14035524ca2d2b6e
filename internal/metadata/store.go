package metadata

import (
	"sync"

	"github.com/conneroisu/caxton/internal/errors"
)

// Record is a stored metadata record plus the revision callers use for
// compare-and-swap writes.
type Record struct {
	Value    map[string]interface{}
	Revision int64
}

// Store validates and persists one metadata record per document per schema
// namespace. Writes to the same (documentID, schemaName) pair are
// serialized: validate+persist runs as one critical section per record, so
// a later-starting concurrent write cannot slip between another write's
// validation and persist.
type Store struct {
	registry *SchemaRegistry
	mutex    sync.Mutex
	records  map[recordKey]*recordEntry
}

type recordKey struct {
	documentID string
	schema     string
}

type recordEntry struct {
	mutex    sync.Mutex
	value    map[string]interface{}
	revision int64
}

// NewStore creates a metadata store backed by the schema registry.
func NewStore(registry *SchemaRegistry) *Store {
	return &Store{
		registry: registry,
		records:  make(map[recordKey]*recordEntry),
	}
}

// Registry returns the backing schema registry.
func (s *Store) Registry() *SchemaRegistry {
	return s.registry
}

// Set validates value against the named schema and atomically replaces the
// document's record for that namespace. On validation failure nothing is
// written. Returns the stored record with its new revision.
func (s *Store) Set(documentID, schemaName string, value map[string]interface{}) (Record, error) {
	return s.write(documentID, schemaName, value, -1)
}

// SetIfRevision is the compare-and-swap form of Set: the write only
// applies when the record's current revision equals expected (0 for a
// record that does not exist yet). A lost race surfaces as a conflict
// error so the caller can re-read and retry.
func (s *Store) SetIfRevision(documentID, schemaName string, expected int64, value map[string]interface{}) (Record, error) {
	return s.write(documentID, schemaName, value, expected)
}

// write validates and persists under the record's lock. expected < 0
// disables the revision check.
func (s *Store) write(documentID, schemaName string, value map[string]interface{}, expected int64) (Record, error) {
	schema, err := s.registry.Get(schemaName)
	if err != nil {
		return Record{}, err
	}

	entry := s.entry(documentID, schemaName)

	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	if expected >= 0 && entry.revision != expected {
		return Record{}, errors.ErrStaleRevision(documentID, schemaName, expected, entry.revision)
	}

	normalized, err := schema.ValidateRecord(value)
	if err != nil {
		return Record{}, err
	}

	entry.value = normalized
	entry.revision++

	return Record{Value: copyRecord(normalized), Revision: entry.revision}, nil
}

// Get returns the last valid record for the document and schema namespace.
func (s *Store) Get(documentID, schemaName string) (Record, error) {
	if _, err := s.registry.Get(schemaName); err != nil {
		return Record{}, err
	}

	s.mutex.Lock()
	entry, exists := s.records[recordKey{documentID, schemaName}]
	s.mutex.Unlock()

	if !exists {
		return Record{}, errors.ErrRecordNotFound(documentID, schemaName)
	}

	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	if entry.value == nil {
		return Record{}, errors.ErrRecordNotFound(documentID, schemaName)
	}

	return Record{Value: copyRecord(entry.value), Revision: entry.revision}, nil
}

// entry returns the record entry for the key, creating it when absent.
func (s *Store) entry(documentID, schemaName string) *recordEntry {
	key := recordKey{documentID, schemaName}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, exists := s.records[key]
	if !exists {
		entry = &recordEntry{}
		s.records[key] = entry
	}

	return entry
}

// copyRecord shields stored state from caller mutation. Values inside the
// record are normalized scalars, so a shallow copy of the top level plus
// nested maps/slices is enough.
func copyRecord(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}

	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyRecord(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}

		return out
	default:
		return v
	}
}
