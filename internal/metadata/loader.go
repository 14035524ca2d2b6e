package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile parses a single YAML schema definition file.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}

	if err := s.validateDefinition(); err != nil {
		return nil, fmt.Errorf("invalid schema in %s: %w", path, err)
	}

	return &s, nil
}

// LoadDir loads every .yml/.yaml schema definition under dir into the
// registry.
func LoadDir(registry *SchemaRegistry, dir string) (int, error) {
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

		s, err := LoadFile(path)
		if err != nil {
			return err
		}

		if err := registry.Register(s); err != nil {
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
