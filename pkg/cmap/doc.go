// Package cmap reduces concept maps to strict parent-child trees.
//
// # Overview
//
// A concept map is a graph of labeled concepts joined by linking phrases.
// Concepts never connect to each other directly: every relationship is two
// hops, Concept -> LinkingPhrase -> Concept. The graph may contain cycles,
// concepts with several parents, and disconnected components. This package
// turns that structure into rooted trees suitable for outline formats.
//
// # Pipeline
//
// The reduction happens in three stages that share no mutable state:
//
//  1. [NewIndex] builds read-only lookups from the flat record lists of a [Map].
//  2. [SelectRoot] picks a root concept, honoring an optional requested id.
//  3. [Builder] walks the two-hop pattern once per concept and materializes
//     a fresh [ConceptNode] tree for any root.
//
// A minimal conversion:
//
//	idx := cmap.NewIndex(m)
//	sel, err := cmap.SelectRoot(m, "")
//	if err != nil {
//	    return err
//	}
//	root, err := cmap.NewBuilder(idx).Build(sel.ID)
//
// # Root Selection
//
// A root candidate is a concept that is never the target of any connection.
// When several candidates exist, the first one whose label mentions "root",
// "main" or "center" wins, then the first candidate in input order. When no
// candidate exists (every concept is a target), the first concept is used.
// [Selection.Candidates] always carries the full candidate list so callers
// can offer an explicit choice instead of relying on the heuristic.
//
// # Shared Concepts and Cycles
//
// A concept reachable along several paths appears once per path, each time
// as an independent node value. A child that already appears on the path
// from the root to its parent is emitted as a leaf and not expanded, so
// cyclic maps always produce finite trees.
//
// # Concurrency
//
// [Index] and [Builder] are immutable after construction and safe for
// concurrent use. Every call to [Builder.Build] returns a new tree owned by
// the caller.
package cmap
