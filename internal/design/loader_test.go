package design

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const magazineYAML = `
name: magazine
version: 1.0.0
layouts:
  - name: regular
component_types:
  - name: head
    label: Header
    directives:
      - name: title
        kind: text
        required: true
  - name: paragraph
    label: Paragraph
    directives:
      - name: text
        kind: rich-text
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magazine.yml")
	require.NoError(t, os.WriteFile(path, []byte(magazineYAML), 0644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "magazine@1.0.0", d.ID())

	ct, ok := d.ComponentType("head")
	require.True(t, ok)
	dir, ok := ct.Directive("title")
	require.True(t, ok)
	assert.Equal(t, KindText, dir.Kind)
	assert.True(t, dir.Required)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_InvalidDesign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nversion: '1'\n"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "magazine.yml"), []byte(magazineYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	registry := NewRegistry()
	loaded, err := LoadDir(registry, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1, registry.Count())
}

func TestLoadDir_DuplicateFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(magazineYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(magazineYAML), 0644))

	registry := NewRegistry()
	_, err := LoadDir(registry, dir)
	assert.Error(t, err)
}
