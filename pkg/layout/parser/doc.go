// Package parser resolves a layout document into a [layout.Layout].
//
// Resolution happens in passes over the children of the single required
// top-level "layout" node:
//
//  1. Pane templates are collected into a dependency graph, sorted so
//     that a template is materialized only after the templates it
//     references, then resolved into the registry.
//  2. Tab templates and the optional default_tab_template are resolved
//     in declaration order against the pane-template registry.
//  3. Swap layout groups (tiled and floating) are built into
//     constraint-ordered alternates.
//  4. The remaining children are classified as panes, tabs,
//     floating_panes blocks, or template invocations and assembled into
//     the final layout shape.
//
// All state lives on a [Parser] constructed per call to [Parse]; nothing
// is shared between invocations. Every failure is an *errors.Error
// carrying the byte offset and length of the offending node, and
// resolution stops at the first one.
package parser
