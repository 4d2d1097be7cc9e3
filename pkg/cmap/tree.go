package cmap

import "errors"

// ErrRootNotFound is returned by [Builder.Build] when the root id does not
// name a known concept.
var ErrRootNotFound = errors.New("root concept not found")

// ConceptNode is one occurrence of a concept in a built tree.
//
// Nodes are plain values owned by their parent. ParentID is an id lookup
// only; there is no back-pointer, so trees never contain reference cycles.
// The same concept id may appear at several positions of one tree when the
// source map reaches it along several paths.
type ConceptNode struct {
	ID       string
	Label    string
	Level    int    // 0 for the root, parent's Level + 1 otherwise
	ParentID string // empty for the root
	Children []*ConceptNode
}

// Walk calls fn for n and every descendant in depth-first pre-order.
// Returning false from fn skips that node's children.
func (n *ConceptNode) Walk(fn func(*ConceptNode) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *ConceptNode) Count() int {
	count := 0
	n.Walk(func(*ConceptNode) bool {
		count++
		return true
	})
	return count
}

// Depth returns the greatest Level below n, relative to n.
// A leaf has depth 0.
func (n *ConceptNode) Depth() int {
	if n == nil {
		return 0
	}
	deepest := n.Level
	n.Walk(func(c *ConceptNode) bool {
		if c.Level > deepest {
			deepest = c.Level
		}
		return true
	})
	return deepest - n.Level
}

// BuildStats describes one materialized tree.
type BuildStats struct {
	Nodes     int  // node occurrences in the tree
	Depth     int  // deepest level reached
	Truncated bool // a depth or node limit stopped expansion
}

// BuildOption configures a [Builder].
type BuildOption func(*Builder)

// WithMaxDepth stops expansion below the given level. Nodes at that level
// are emitted without children. Zero or negative means unlimited.
func WithMaxDepth(depth int) BuildOption {
	return func(b *Builder) { b.maxDepth = depth }
}

// WithMaxNodes caps the number of node occurrences per tree. Zero or
// negative means unlimited. Densely cross-linked maps can produce trees far
// larger than the map itself, since shared concepts are repeated per path.
func WithMaxNodes(n int) BuildOption {
	return func(b *Builder) { b.maxNodes = n }
}

// Builder materializes trees from an [Index].
//
// Construction performs the attachment pass: for each concept in input
// order, each outgoing connection to a known linking phrase, and each
// outgoing connection of that phrase to a known concept, the target is
// recorded as the source's next child. This is one hop of attachment per
// concept, never a recursive descent, so it terminates on any input.
// Connections with unknown endpoints are skipped.
//
// A Builder is immutable after construction and safe for concurrent use.
type Builder struct {
	idx      *Index
	children map[string][]string // concept id -> child concept ids, discovery order
	maxDepth int
	maxNodes int
}

// NewBuilder runs the attachment pass over idx.
func NewBuilder(idx *Index, opts ...BuildOption) *Builder {
	b := &Builder{
		idx:      idx,
		children: make(map[string][]string, idx.Len()),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, id := range idx.ConceptIDs() {
		for _, toPhrase := range idx.Outgoing(id) {
			if !idx.IsPhrase(toPhrase.ToID) {
				continue
			}
			for _, toConcept := range idx.Outgoing(toPhrase.ToID) {
				if !idx.IsConcept(toConcept.ToID) {
					continue
				}
				b.children[id] = append(b.children[id], toConcept.ToID)
			}
		}
	}
	return b
}

// Children returns the child concept ids discovered for id during the
// attachment pass, in discovery order. The returned slice is a read-only view.
func (b *Builder) Children(id string) []string { return b.children[id] }

// Build returns a new tree rooted at rootID.
// It returns [ErrRootNotFound] if rootID is not a known concept.
func (b *Builder) Build(rootID string) (*ConceptNode, error) {
	root, _, err := b.BuildWithStats(rootID)
	return root, err
}

// BuildWithStats is like [Builder.Build] and also reports tree statistics.
func (b *Builder) BuildWithStats(rootID string) (*ConceptNode, BuildStats, error) {
	if !b.idx.IsConcept(rootID) {
		return nil, BuildStats{}, ErrRootNotFound
	}

	w := &walker{b: b, onPath: make(map[string]bool)}
	root := w.node(rootID, "", 0)
	w.expand(root)
	return root, w.stats, nil
}

// walker holds per-build state. onPath tracks the concept ids between the
// root and the node being expanded.
type walker struct {
	b      *Builder
	onPath map[string]bool
	stats  BuildStats
}

func (w *walker) node(id, parentID string, level int) *ConceptNode {
	c, _ := w.b.idx.Concept(id)
	w.stats.Nodes++
	if level > w.stats.Depth {
		w.stats.Depth = level
	}
	return &ConceptNode{ID: id, Label: c.Label, Level: level, ParentID: parentID}
}

func (w *walker) expand(n *ConceptNode) {
	ids := w.b.children[n.ID]
	if len(ids) == 0 {
		return
	}
	if w.b.maxDepth > 0 && n.Level >= w.b.maxDepth {
		w.stats.Truncated = true
		return
	}

	w.onPath[n.ID] = true
	defer delete(w.onPath, n.ID)

	for _, id := range ids {
		if w.b.maxNodes > 0 && w.stats.Nodes >= w.b.maxNodes {
			w.stats.Truncated = true
			return
		}
		child := w.node(id, n.ID, n.Level+1)
		n.Children = append(n.Children, child)
		if !w.onPath[id] {
			w.expand(child)
		}
	}
}

// BuildTree is a one-shot helper that runs the attachment pass over idx and
// returns the tree rooted at rootID.
func BuildTree(idx *Index, rootID string) (*ConceptNode, error) {
	return NewBuilder(idx).Build(rootID)
}
