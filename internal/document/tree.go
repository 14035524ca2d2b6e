package document

import (
	"github.com/conneroisu/caxton/internal/design"
	"github.com/conneroisu/caxton/internal/errors"
)

// Tree is an ordered tree of components bound to exactly one design. The
// binding is fixed at construction; representing the same content under a
// different design means building a new tree.
//
// Components live in an arena owned by the tree and reference each other by
// index, so ownership stays with the tree and there are no back-pointers to
// form cycles. A tree is not safe for concurrent mutation; the import
// pipeline builds each tree privately and publishes it only once complete.
type Tree struct {
	design *design.Design
	layout string
	nodes  []*Component
	root   []int
}

// Component is an instance of a declared component type. It owns a mapping
// from directive name to content and an ordered child sequence.
type Component struct {
	id       int
	tree     *Tree
	typeDef  design.ComponentTypeDef
	content  map[string]Content
	children []int
}

// NewTree returns an empty tree bound to the design and layout. It fails
// when the design does not declare the layout.
func NewTree(d *design.Design, layout string) (*Tree, error) {
	if !d.HasLayout(layout) {
		return nil, errors.ErrUnknownLayout(d.ID(), layout)
	}

	return &Tree{
		design: d,
		layout: layout,
	}, nil
}

// Design returns the bound design.
func (t *Tree) Design() *design.Design {
	return t.design
}

// Layout returns the bound layout name.
func (t *Tree) Layout() string {
	return t.layout
}

// CreateComponent allocates a new, detached component of the named type in
// the tree's arena. It fails when the bound design does not declare the
// type. The component is not part of the document order until appended or
// inserted.
func (t *Tree) CreateComponent(typeName string) (*Component, error) {
	typeDef, ok := t.design.ComponentType(typeName)
	if !ok {
		return nil, errors.ErrUnknownComponentType(t.design.ID(), typeName)
	}

	c := &Component{
		id:      len(t.nodes),
		tree:    t,
		typeDef: typeDef,
		content: make(map[string]Content),
	}
	t.nodes = append(t.nodes, c)

	return c, nil
}

// Append adds the component to the end of the root sequence.
func (t *Tree) Append(c *Component) error {
	return t.insertRoot(len(t.root), c)
}

// InsertAt inserts the component into the root sequence at index. Index
// len(roots) is equivalent to Append.
func (t *Tree) InsertAt(index int, c *Component) error {
	return t.insertRoot(index, c)
}

func (t *Tree) insertRoot(index int, c *Component) error {
	if err := t.checkAttachable(c); err != nil {
		return err
	}
	if index < 0 || index > len(t.root) {
		return errors.NewInternalError(errors.ErrCodeInternalError,
			"insert index out of range", nil).
			WithContext("index", index).
			WithContext("len", len(t.root))
	}

	t.root = append(t.root, 0)
	copy(t.root[index+1:], t.root[index:])
	t.root[index] = c.id

	return nil
}

// checkAttachable rejects components from another tree's arena and double
// attachment, which would corrupt the ordered sequence.
func (t *Tree) checkAttachable(c *Component) error {
	if c == nil || c.tree != t {
		return errors.NewStructuralError(errors.ErrCodeInternalError,
			"component does not belong to this tree")
	}
	for _, id := range t.root {
		if id == c.id {
			return errors.NewStructuralError(errors.ErrCodeInternalError,
				"component already attached")
		}
	}
	for _, node := range t.nodes {
		for _, id := range node.children {
			if id == c.id {
				return errors.NewStructuralError(errors.ErrCodeInternalError,
					"component already attached")
			}
		}
	}

	return nil
}

// Components returns the root sequence in document order.
func (t *Tree) Components() []*Component {
	result := make([]*Component, len(t.root))
	for i, id := range t.root {
		result[i] = t.nodes[id]
	}

	return result
}

// Len returns the number of components in the root sequence.
func (t *Tree) Len() int {
	return len(t.root)
}

// Walk visits every attached component depth-first in document order.
func (t *Tree) Walk(visit func(c *Component)) {
	var walk func(ids []int)
	walk = func(ids []int) {
		for _, id := range ids {
			c := t.nodes[id]
			visit(c)
			walk(c.children)
		}
	}
	walk(t.root)
}

// Component methods

// Type returns the component's type name.
func (c *Component) Type() string {
	return c.typeDef.Name
}

// SetContent stores a value in the named directive slot. It fails when the
// directive is not declared for the component's type or when the value's
// kind does not match the declared kind. A failed set leaves the slot
// untouched.
func (c *Component) SetContent(directive string, value Content) error {
	def, ok := c.typeDef.Directive(directive)
	if !ok {
		return errors.ErrUnknownDirective(c.typeDef.Name, directive)
	}

	if value.Kind != def.Kind {
		return errors.ErrContentKindMismatch(directive, string(def.Kind), string(value.Kind))
	}

	c.content[directive] = value

	return nil
}

// Content returns the value stored in the named directive slot.
func (c *Component) Content(directive string) (Content, bool) {
	value, ok := c.content[directive]

	return value, ok
}

// AppendChild adds child to the end of the component's child sequence.
func (c *Component) AppendChild(child *Component) error {
	return c.insertChild(len(c.children), child)
}

// InsertChildAt inserts child into the component's child sequence at index.
func (c *Component) InsertChildAt(index int, child *Component) error {
	return c.insertChild(index, child)
}

func (c *Component) insertChild(index int, child *Component) error {
	if err := c.tree.checkAttachable(child); err != nil {
		return err
	}
	if child.id == c.id {
		return errors.NewStructuralError(errors.ErrCodeInternalError,
			"component cannot be its own child")
	}
	if index < 0 || index > len(c.children) {
		return errors.NewInternalError(errors.ErrCodeInternalError,
			"insert index out of range", nil).
			WithContext("index", index).
			WithContext("len", len(c.children))
	}

	c.children = append(c.children, 0)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = child.id

	return nil
}

// Children returns the component's child sequence in order.
func (c *Component) Children() []*Component {
	result := make([]*Component, len(c.children))
	for i, id := range c.children {
		result[i] = c.tree.nodes[id]
	}

	return result
}
