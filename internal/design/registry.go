package design

import (
	"sort"
	"sync"

	"github.com/conneroisu/caxton/internal/errors"
)

// Registry manages all registered designs. Designs are registered once at
// process start and treated as immutable afterwards; the mutex exists for
// safety during start-up, reads after init are contention-free in practice.
type Registry struct {
	designs map[string]*Design
	mutex   sync.RWMutex
}

// NewRegistry creates a new design registry
func NewRegistry() *Registry {
	return &Registry{
		designs: make(map[string]*Design),
	}
}

// Register validates and adds a design to the registry. Registering the
// same name+version twice fails with a duplicate-design error.
func (r *Registry) Register(d *Design) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.designs[d.ID()]; exists {
		return errors.ErrDuplicateDesign(d.Name, d.Version)
	}

	r.designs[d.ID()] = d

	return nil
}

// Get retrieves a design by name and version.
func (r *Registry) Get(name, version string) (*Design, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	d, exists := r.designs[name+"@"+version]
	if !exists {
		return nil, errors.ErrUnknownDesign(name, version)
	}

	return d, nil
}

// GetAll returns all registered designs sorted by ID.
func (r *Registry) GetAll() []*Design {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*Design, 0, len(r.designs))
	for _, d := range r.designs {
		result = append(result, d)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})

	return result
}

// Count returns the number of registered designs
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.designs)
}
