package document

import (
	"time"

	"github.com/google/uuid"
)

// Livingdoc is the aggregate of a bound design, a component tree, and a
// channel reference. Metadata records live in the metadata store keyed by
// the document ID; the design reference is immutable after creation, and
// every document in one channel shares one design.
type Livingdoc struct {
	ID        uuid.UUID
	Channel   string
	Title     string
	Slug      string
	Tree      *Tree
	CreatedAt time.Time
}

// NewLivingdoc creates a document around a completed tree.
func NewLivingdoc(channel, title, slug string, tree *Tree) *Livingdoc {
	return &Livingdoc{
		ID:        uuid.New(),
		Channel:   channel,
		Title:     title,
		Slug:      slug,
		Tree:      tree,
		CreatedAt: time.Now().UTC(),
	}
}

// DesignID returns the identity of the design the document is bound to.
func (d *Livingdoc) DesignID() string {
	return d.Tree.Design().ID()
}
