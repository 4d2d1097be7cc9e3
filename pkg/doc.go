// Package pkg provides the core libraries for cmaptree.
//
// # Overview
//
// cmaptree reduces concept maps to outlines. A concept map is a graph of
// concepts joined through linking phrases; an outline is a tree. Every
// concept reachable from a chosen root becomes an outline item nested under
// the concept that links to it. A concept reachable along several paths
// appears once per path, and a link back to an ancestor ends the branch.
//
// # Architecture
//
// The typical data flow:
//
//	CXL / JSON file
//	       ↓
//	  [io] package (import into cmap.Map)
//	       ↓
//	  [cmap] package (index, root selection, tree building)
//	       ↓
//	  [outline] package (outline items and document header)
//	       ↓
//	  [io] / [render/nodelink] (OPML, JSON, DOT, SVG, PNG)
//
// [pipeline] ties these together, caching results and running
// all-concepts conversions in parallel.
//
// # Quick Start
//
//	m, err := io.Import("plants.cxl")
//	if err != nil {
//	    return err
//	}
//	root, err := cmap.BuildTree(cmap.NewIndex(m), "1JNPYKZ6P-1QWHT9K-3F")
//	if err != nil {
//	    return err
//	}
//	tree := outline.NewTree(root)
//	head := outline.NewHead(m.Meta, time.Now())
//	err = io.ExportOPML("plants.opml", head, tree)
//
// # Main Packages
//
// [cmap] - Concept map records, the lookup [cmap.Index], root selection
// and the cycle-safe tree builder.
//
// [outline] - Outline items, trees and document headers.
//
// [io] - CmapTools CXL and JSON import, OPML and JSON export.
//
// [pipeline] - Conversion orchestration: options, caching, parallel
// all-concepts builds and rendering to every output format.
//
// [render/nodelink] - DOT graphs of outline trees, rendered to SVG or PNG
// with Graphviz.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches for converted outlines.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hooks for logging and metrics.
//
// [buildinfo] - Version information set at build time.
package pkg
