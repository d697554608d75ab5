// Package pkg provides the core libraries for Panemux layout resolution.
//
// # Overview
//
// Panemux compiles KDL workspace layout definitions (tabs, tiled and
// floating panes, templates, swap layouts) into fully resolved pane
// trees. The pkg directory is organized into five main areas:
//
//  1. [kdl] - Minimal KDL document parser (nodes, properties, spans)
//  2. [layout] - Domain types (pane trees, runs, constraints) and the
//     resolver under layout/parser
//  3. [render] - Terminal box drawing and Graphviz diagram export
//  4. [io] - JSON import and export of resolved layouts
//  5. [errors], [observability] - positioned errors and hook registry
//
// # Architecture
//
// The typical data flow through Panemux:
//
//	KDL source
//	     ↓
//	[kdl] package (parse into a node tree)
//	     ↓
//	[layout/parser] package (templates, defaults, cwd composition)
//	     ↓
//	[layout] package (resolved Layout value)
//	     ↓
//	[render] / [io] output (boxes, SVG/PNG/DOT, JSON)
//
// # Quick Start
//
//	l, err := parser.Parse(src, "")
//	if err != nil {
//	    // positioned error, see the errors package
//	}
//	_ = pkgio.WriteJSON(l, os.Stdout)
//
// Every stage is a plain function over values; nothing here spawns the
// commands a layout describes.
package pkg
