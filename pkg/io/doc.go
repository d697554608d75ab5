// Package io provides JSON import and export for resolved layouts.
//
// # Overview
//
// The format serializes a fully resolved [layout.Layout]: tabs with their
// tiled trees and floating panes, the new-tab template, swap layout
// groups, and run actions. It is designed for:
//
//   - Inspection of what the resolver produced for a given document
//   - Integration with external tools that consume workspace definitions
//   - Round-trip preservation: export and re-import identically
//
// # JSON Format
//
//	{
//	  "tabs": [
//	    {"name": "work", "tiled": {...}, "floating": [...]}
//	  ],
//	  "template": {"children": [...]},
//	  "focused_tab_index": 0
//	}
//
// A tiled pane object carries "name", "borderless", "focus", "size"
// (textual PercentOrFixed form, e.g. "50%" or "3"), "direction", "run",
// "stacked" and "children". Floating panes use "x"/"y"/"width"/"height"
// instead of "size". Run actions are tagged objects:
//
//	{"type": "command", "command": "htop", "args": ["-d", "1"]}
//	{"type": "edit", "path": "notes.md"}
//	{"type": "cwd", "path": "/src"}
//	{"type": "plugin", "location": "zellij:tab-bar"}
//
// # Import and Export
//
// Use [ExportJSON] / [WriteJSON] to serialize and [ImportJSON] /
// [ReadJSON] to read back. Both directions validate the tagged run
// objects and the textual geometry values; errors are wrapped with
// context about the offending pane.
package io
