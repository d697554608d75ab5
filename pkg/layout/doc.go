// Package layout defines the fully resolved workspace layout model
// produced by the resolver and consumed by a pane-spawning runtime.
//
// # Overview
//
// A workspace is a set of tabs. Each tab has a tiled split tree
// ([TiledPaneLayout]) and a flat list of [FloatingPaneLayout] values
// positioned by explicit geometry. Layouts may also carry alternate
// "swap" layouts, constraint-ordered sets of full layouts a runtime can
// cycle through as the pane count changes.
//
// # The Split Tree
//
// [TiledPaneLayout] is a recursive tree: a node either is a leaf pane
// (optionally carrying a [Run] action) or splits its rectangle among its
// children along [SplitDirection]. Templates add one wrinkle: a tree can
// record an ExternalChildrenIndex, the position where a consuming node's
// own panes are spliced in. [TiledPaneLayout.InsertChildrenLayout]
// performs that splice; resolved trees handed to a runtime never retain
// the marker.
//
// # Run Actions
//
// [Run] is a closed union over the executable intent of a pane: a bare
// working directory ([RunCwd]), a command ([RunCommand]), a file to edit
// ([RunEditFile]), or a plugin ([RunPlugin]). [MergeRun] implements the
// template/consumer composition rules: the consumer's action wins, except
// that a bare working directory grafts onto a concrete template action
// instead of replacing it.
//
// # Geometry
//
// [PercentOrFixed] is a tagged value: a percentage of available space or
// a fixed cell count. Its textual form is a quoted "N%" string for
// percent or a bare integer for fixed, mirroring the layout language.
//
// # Concurrency
//
// Values in this package are plain data with no internal
// synchronization. A resolved Layout is effectively immutable once the
// resolver returns it and can be shared across goroutines for reading.
package layout
