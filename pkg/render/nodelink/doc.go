// Package nodelink renders outline trees as node-link diagrams.
//
// # Overview
//
// An outline is hard to judge as indented text once it grows past a few
// dozen items. This package draws the same tree with Graphviz: every outline
// item becomes a rounded box and every parent-child relation an arrow,
// laid out top to bottom. It is a preview aid; the outline formats in
// [io] remain the primary output.
//
// # Usage
//
// Convert a tree to DOT format, then render it:
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels also show the depth of each item
//
// # DOT Format
//
// A concept that appears along several paths is drawn once per occurrence,
// exactly like the outline, so the diagram is always a tree. DOT node ids
// are synthetic ("n0", "n1", ...) in depth-first order; labels carry the
// concept text.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process. No external binaries are required.
//
// [io]: github.com/matzehuels/cmaptree/pkg/io
package nodelink
