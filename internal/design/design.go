// Package design holds the immutable per-design declarations of allowed
// component types, their directive slots, and named layouts. A registered
// Design is never mutated; documents bind to exactly one Design at
// construction time.
package design

import (
	"fmt"

	"github.com/conneroisu/caxton/internal/errors"
)

// ContentKind declares which kind of value a directive slot accepts.
type ContentKind string

const (
	KindText           ContentKind = "text"
	KindRichText       ContentKind = "rich-text"
	KindMediaReference ContentKind = "media-reference"
	KindStructured     ContentKind = "structured-value"
)

// Valid reports whether the kind is one of the declared content kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindText, KindRichText, KindMediaReference, KindStructured:
		return true
	default:
		return false
	}
}

// DirectiveDef declares a named, typed content slot within a component type.
type DirectiveDef struct {
	// Name is the directive identifier (e.g., "title", "image")
	Name string `yaml:"name"`
	// Kind is the content kind the slot accepts
	Kind ContentKind `yaml:"kind"`
	// Required marks directives that must carry content before publish
	Required bool `yaml:"required"`
}

// ComponentTypeDef declares a component type and its fixed set of
// directive slots.
type ComponentTypeDef struct {
	// Name is the component type identifier (e.g., "head", "paragraph")
	Name string `yaml:"name"`
	// Label is the human-readable name shown by the editor collaborator
	Label string `yaml:"label"`
	// Directives is the fixed set of content slots for this type
	Directives []DirectiveDef `yaml:"directives"`
}

// Directive returns the named directive declaration, if declared.
func (ct ComponentTypeDef) Directive(name string) (DirectiveDef, bool) {
	for _, d := range ct.Directives {
		if d.Name == name {
			return d, true
		}
	}

	return DirectiveDef{}, false
}

// Layout names an arrangement a design supports for its documents.
type Layout struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Design is the immutable identity (name, version) plus the ordered set of
// component types and layouts a document may use.
type Design struct {
	Name           string             `yaml:"name"`
	Version        string             `yaml:"version"`
	Layouts        []Layout           `yaml:"layouts"`
	ComponentTypes []ComponentTypeDef `yaml:"component_types"`
}

// ID returns the registry key for the design.
func (d *Design) ID() string {
	return d.Name + "@" + d.Version
}

// ComponentType returns the named component type declaration, if declared.
func (d *Design) ComponentType(name string) (ComponentTypeDef, bool) {
	for _, ct := range d.ComponentTypes {
		if ct.Name == name {
			return ct, true
		}
	}

	return ComponentTypeDef{}, false
}

// HasLayout reports whether the design declares the named layout.
func (d *Design) HasLayout(name string) bool {
	for _, l := range d.Layouts {
		if l.Name == name {
			return true
		}
	}

	return false
}

// Validate checks the design declaration for structural soundness: required
// identity fields, at least one layout and component type, unique names,
// and known content kinds.
func (d *Design) Validate() error {
	if d.Name == "" || d.Version == "" {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"design requires both name and version")
	}

	if len(d.Layouts) == 0 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("design %s declares no layouts", d.ID()))
	}

	if len(d.ComponentTypes) == 0 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("design %s declares no component types", d.ID()))
	}

	seenLayouts := make(map[string]bool, len(d.Layouts))
	for _, l := range d.Layouts {
		if l.Name == "" {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("design %s declares an unnamed layout", d.ID()))
		}
		if seenLayouts[l.Name] {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("design %s declares layout %q twice", d.ID(), l.Name))
		}
		seenLayouts[l.Name] = true
	}

	seenTypes := make(map[string]bool, len(d.ComponentTypes))
	for _, ct := range d.ComponentTypes {
		if ct.Name == "" {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("design %s declares an unnamed component type", d.ID()))
		}
		if seenTypes[ct.Name] {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("design %s declares component type %q twice", d.ID(), ct.Name))
		}
		seenTypes[ct.Name] = true

		seenDirectives := make(map[string]bool, len(ct.Directives))
		for _, dir := range ct.Directives {
			if dir.Name == "" {
				return errors.NewConfigError(errors.ErrCodeConfigInvalid,
					fmt.Sprintf("component type %q declares an unnamed directive", ct.Name))
			}
			if seenDirectives[dir.Name] {
				return errors.NewConfigError(errors.ErrCodeConfigInvalid,
					fmt.Sprintf("component type %q declares directive %q twice", ct.Name, dir.Name))
			}
			seenDirectives[dir.Name] = true

			if !dir.Kind.Valid() {
				return errors.NewConfigError(errors.ErrCodeConfigInvalid,
					fmt.Sprintf("directive %s.%s has unknown content kind %q",
						ct.Name, dir.Name, dir.Kind))
			}
		}
	}

	return nil
}
