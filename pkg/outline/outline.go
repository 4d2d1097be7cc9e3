// Package outline maps concept trees to destination-agnostic outlines.
//
// An outline is an ordered tree of labeled items. [Emit] converts a
// [cmap.ConceptNode] tree into an [Item] tree, and [Document] bundles one or
// more outlines with the header metadata that output formats such as OPML
// expect. Level and parent information from the concept tree are
// construction aids only and are not carried over.
package outline

import (
	"time"

	"github.com/matzehuels/cmaptree/pkg/cmap"
)

// TypeConcept is the type tag carried by every emitted item.
const TypeConcept = "concept"

// Item is one labeled outline entry with ordered children.
type Item struct {
	Text     string `json:"text"`
	Type     string `json:"type"`
	Children []Item `json:"children,omitempty"`
}

// Count returns the number of items in the subtree rooted at it.
func (it Item) Count() int {
	n := 1
	for _, c := range it.Children {
		n += c.Count()
	}
	return n
}

// Tree is the outline produced for one requested root.
type Tree struct {
	Label  string `json:"label"`   // Display label used for titles and file names
	RootID string `json:"root_id"` // Concept id the tree is rooted at
	Root   Item   `json:"root"`
}

// Head carries document-level metadata.
type Head struct {
	Title        string    `json:"title"`
	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`
	OwnerName    string    `json:"owner_name,omitempty"`
}

// Document wraps outline trees with their header.
type Document struct {
	Head  Head   `json:"head"`
	Trees []Tree `json:"trees"`
}

// Emit converts a concept tree to an outline item tree. Children keep the
// order of [cmap.ConceptNode.Children]. The root is always emitted, even
// when it has no children. A nil root yields the zero Item.
func Emit(root *cmap.ConceptNode) Item {
	if root == nil {
		return Item{}
	}
	it := Item{Text: root.Label, Type: TypeConcept}
	if len(root.Children) > 0 {
		it.Children = make([]Item, len(root.Children))
		for i, c := range root.Children {
			it.Children[i] = Emit(c)
		}
	}
	return it
}

// NewTree emits root and tags the result with the root's label and id.
func NewTree(root *cmap.ConceptNode) Tree {
	if root == nil {
		return Tree{}
	}
	return Tree{Label: root.Label, RootID: root.ID, Root: Emit(root)}
}

// NewHead builds a header from concept map metadata. Missing timestamps
// default to now; a missing modification time defaults to the creation time.
func NewHead(meta cmap.Meta, now time.Time) Head {
	h := Head{
		Title:        meta.Title,
		DateCreated:  meta.Created,
		DateModified: meta.Modified,
	}
	if h.DateCreated.IsZero() {
		h.DateCreated = now
	}
	if h.DateModified.IsZero() {
		h.DateModified = h.DateCreated
	}
	return h
}

// ForTree returns a copy of h titled for a single tree. An empty document
// title takes the tree label; otherwise the label is appended when the
// document holds several trees.
func (h Head) ForTree(t Tree, multi bool) Head {
	switch {
	case h.Title == "":
		h.Title = t.Label
	case multi && t.Label != "":
		h.Title = h.Title + " - " + t.Label
	}
	return h
}
