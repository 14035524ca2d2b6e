package importer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/conneroisu/caxton/internal/errors"
)

// Transformation is a named mapping from article structure to the
// component types and directives of a design. Transformations are plain
// values registered once at start-up, the same plugin shape as metadata
// schemas.
type Transformation struct {
	Name string `yaml:"name"`

	// Component type receiving the article title
	HeadComponent string `yaml:"head_component"`
	// Directive on HeadComponent holding the title text
	TitleDirective string `yaml:"title_directive"`

	// Component type receiving one text block each
	ParagraphComponent string `yaml:"paragraph_component"`
	// Directive on ParagraphComponent holding the block rich text
	TextDirective string `yaml:"text_directive"`

	// Component type receiving one processed asset each
	ImageComponent string `yaml:"image_component"`
	// Directive on ImageComponent holding the media reference
	ImageDirective string `yaml:"image_directive"`
	// Optional directive on ImageComponent for the asset caption
	CaptionDirective string `yaml:"caption_directive"`
}

// Validate checks the transformation declaration.
func (t *Transformation) Validate() error {
	if t.Name == "" {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"transformation requires a name")
	}

	required := map[string]string{
		"head_component":      t.HeadComponent,
		"title_directive":     t.TitleDirective,
		"paragraph_component": t.ParagraphComponent,
		"text_directive":      t.TextDirective,
		"image_component":     t.ImageComponent,
		"image_directive":     t.ImageDirective,
	}
	for key, value := range required {
		if value == "" {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("transformation %s is missing %s", t.Name, key))
		}
	}

	return nil
}

// TransformationRegistry manages the named transformations available to
// import targets.
type TransformationRegistry struct {
	transformations map[string]*Transformation
	mutex           sync.RWMutex
}

// NewTransformationRegistry creates an empty transformation registry
func NewTransformationRegistry() *TransformationRegistry {
	return &TransformationRegistry{
		transformations: make(map[string]*Transformation),
	}
}

// Register validates and adds a transformation. Re-registration fails.
func (r *TransformationRegistry) Register(t *Transformation) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.transformations[t.Name]; exists {
		return errors.NewStructuralError(errors.ErrCodeConfigInvalid,
			"transformation already registered: "+t.Name)
	}

	r.transformations[t.Name] = t

	return nil
}

// Get retrieves a transformation by name.
func (r *TransformationRegistry) Get(name string) (*Transformation, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	t, exists := r.transformations[name]
	if !exists {
		return nil, errors.NewStructuralError(errors.ErrCodeConfigInvalid,
			"unknown transformation: "+name)
	}

	return t, nil
}

// GetAll returns all registered transformations sorted by name.
func (r *TransformationRegistry) GetAll() []*Transformation {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*Transformation, 0, len(r.transformations))
	for _, t := range r.transformations {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
