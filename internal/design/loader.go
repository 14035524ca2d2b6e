package design

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile parses a single YAML design definition file.
func LoadFile(path string) (*Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read design file %s: %w", path, err)
	}

	var d Design
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse design file %s: %w", path, err)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid design in %s: %w", path, err)
	}

	return &d, nil
}

// LoadDir loads every .yml/.yaml design definition under dir into the
// registry. Registration order follows filepath.WalkDir order so repeated
// runs see the same duplicate first.
func LoadDir(registry *Registry, dir string) (int, error) {
	loaded := 0

	err := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yml" && ext != ".yaml" {
			return nil
		}

		d, err := LoadFile(path)
		if err != nil {
			return err
		}

		if err := registry.Register(d); err != nil {
			return err
		}
		loaded++

		return nil
	})
	if err != nil {
		return loaded, err
	}

	return loaded, nil
}
