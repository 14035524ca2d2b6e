package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/caxton/internal/errors"
)

func magazineDesign() *Design {
	return &Design{
		Name:    "magazine",
		Version: "1.0.0",
		Layouts: []Layout{
			{Name: "regular"},
			{Name: "fullscreen", Description: "hero image above the fold"},
		},
		ComponentTypes: []ComponentTypeDef{
			{
				Name:  "head",
				Label: "Header",
				Directives: []DirectiveDef{
					{Name: "title", Kind: KindText, Required: true},
					{Name: "lead", Kind: KindRichText},
				},
			},
			{
				Name:  "paragraph",
				Label: "Paragraph",
				Directives: []DirectiveDef{
					{Name: "text", Kind: KindRichText, Required: true},
				},
			},
			{
				Name:  "image",
				Label: "Image",
				Directives: []DirectiveDef{
					{Name: "image", Kind: KindMediaReference, Required: true},
					{Name: "caption", Kind: KindText},
				},
			},
		},
	}
}

func TestDesign_Lookups(t *testing.T) {
	d := magazineDesign()

	assert.Equal(t, "magazine@1.0.0", d.ID())
	assert.True(t, d.HasLayout("regular"))
	assert.False(t, d.HasLayout("broadsheet"))

	ct, ok := d.ComponentType("head")
	require.True(t, ok)
	assert.Equal(t, "Header", ct.Label)

	dir, ok := ct.Directive("title")
	require.True(t, ok)
	assert.Equal(t, KindText, dir.Kind)
	assert.True(t, dir.Required)

	_, ok = ct.Directive("missing")
	assert.False(t, ok)

	_, ok = d.ComponentType("missing")
	assert.False(t, ok)
}

func TestDesign_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Design)
	}{
		{"missing name", func(d *Design) { d.Name = "" }},
		{"missing version", func(d *Design) { d.Version = "" }},
		{"no layouts", func(d *Design) { d.Layouts = nil }},
		{"no component types", func(d *Design) { d.ComponentTypes = nil }},
		{"duplicate layout", func(d *Design) {
			d.Layouts = append(d.Layouts, Layout{Name: "regular"})
		}},
		{"duplicate component type", func(d *Design) {
			d.ComponentTypes = append(d.ComponentTypes, ComponentTypeDef{Name: "head"})
		}},
		{"duplicate directive", func(d *Design) {
			d.ComponentTypes[0].Directives = append(
				d.ComponentTypes[0].Directives,
				DirectiveDef{Name: "title", Kind: KindText},
			)
		}},
		{"unknown content kind", func(d *Design) {
			d.ComponentTypes[0].Directives[0].Kind = "video"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := magazineDesign()
			tt.mutate(d)
			assert.Error(t, d.Validate())
		})
	}

	assert.NoError(t, magazineDesign().Validate())
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(magazineDesign()))
	assert.Equal(t, 1, registry.Count())

	// Same name+version is a duplicate.
	err := registry.Register(magazineDesign())
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))

	// A new version of the same design is fine.
	v2 := magazineDesign()
	v2.Version = "2.0.0"
	require.NoError(t, registry.Register(v2))
	assert.Equal(t, 2, registry.Count())
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(magazineDesign()))

	d, err := registry.Get("magazine", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "magazine", d.Name)

	_, err = registry.Get("magazine", "9.9.9")
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))
}

func TestRegistry_GetAll_Sorted(t *testing.T) {
	registry := NewRegistry()

	b := magazineDesign()
	b.Name = "tabloid"
	require.NoError(t, registry.Register(b))
	require.NoError(t, registry.Register(magazineDesign()))

	all := registry.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "magazine@1.0.0", all[0].ID())
	assert.Equal(t, "tabloid@1.0.0", all[1].ID())
}
