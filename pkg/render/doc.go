// Package render turns resolved layouts into visual output.
//
// # Overview
//
// Two surfaces are provided:
//
//   - Terminal previews: [Boxes] draws a tab's tiled pane tree as nested
//     lipgloss-bordered boxes, splitting the available width and height the
//     way the multiplexer would.
//   - Graph exports: [ToDOT] converts the split tree to Graphviz DOT, and
//     [SVG] / [PNG] rasterize that DOT with Graphviz.
//
// All functions consume the resolved model only: no command is spawned and
// no referenced path is touched.
package render
