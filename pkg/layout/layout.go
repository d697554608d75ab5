package layout

// TiledPaneLayout is a node in the recursive split tree. A node with
// children is a split container; a leaf is an actual pane.
type TiledPaneLayout struct {
	Name       string
	Borderless bool
	Focus      *bool
	SplitSize  *PercentOrFixed
	Run        Run

	ChildrenSplitDirection SplitDirection
	Children               []TiledPaneLayout

	// ExternalChildrenIndex marks where a consumer's own children are
	// spliced in when this node is used as a template. Nil means no
	// children marker.
	ExternalChildrenIndex *int
	// ChildrenAreStacked is set when the children marker carried
	// stacked=true.
	ChildrenAreStacked bool
}

// FloatingPaneLayout is a single floating pane with optional geometry.
// Unset coordinates fall back to runtime defaults.
type FloatingPaneLayout struct {
	Name   string
	Focus  *bool
	Run    Run
	X      *PercentOrFixed
	Y      *PercentOrFixed
	Width  *PercentOrFixed
	Height *PercentOrFixed
}

// Tab pairs a tab's metadata with its resolved tiled tree and floating
// panes.
type Tab struct {
	Name     string
	Tiled    TiledPaneLayout
	Floating []FloatingPaneLayout
}

// Layout is a fully resolved workspace layout.
type Layout struct {
	Tabs []Tab
	// Template is the tab template applied to tabs declared without
	// one, and the shape of the implicit tab when no tabs exist.
	Template         *TiledPaneLayout
	FloatingTemplate []FloatingPaneLayout
	FocusedTabIndex  *int

	SwapTiledLayouts    []SwapTiledLayout
	SwapFloatingLayouts []SwapFloatingLayout
}

// AddCwd pushes a working-directory prefix through the whole subtree.
func (t *TiledPaneLayout) AddCwd(prefix string) {
	if prefix == "" {
		return
	}
	t.Run = AddCwd(t.Run, prefix)
	for i := range t.Children {
		t.Children[i].AddCwd(prefix)
	}
}

// AddCwd pushes a working-directory prefix onto the floating pane.
func (f *FloatingPaneLayout) AddCwd(prefix string) {
	if prefix == "" {
		return
	}
	f.Run = AddCwd(f.Run, prefix)
}

// ChildrenBlockCount counts children markers in the subtree, including
// implicit markers on childless non-leaf usage. Used to reject
// templates with more than one insertion point.
func (t *TiledPaneLayout) ChildrenBlockCount() int {
	n := 0
	if t.ExternalChildrenIndex != nil {
		n++
	}
	for i := range t.Children {
		n += t.Children[i].ChildrenBlockCount()
	}
	return n
}

// InsertChildrenLayout splices the given children at the subtree's
// children marker, clearing the marker. It reports whether a marker was
// found. When the marker carried stacked=true the spliced children are
// wrapped in a stacked container.
func (t *TiledPaneLayout) InsertChildrenLayout(children []TiledPaneLayout) bool {
	if t.ExternalChildrenIndex != nil {
		idx := *t.ExternalChildrenIndex
		if idx > len(t.Children) {
			idx = len(t.Children)
		}
		if t.ChildrenAreStacked {
			stack := TiledPaneLayout{Children: children}
			stack.ChildrenAreStacked = true
			children = []TiledPaneLayout{stack}
		}
		merged := make([]TiledPaneLayout, 0, len(t.Children)+len(children))
		merged = append(merged, t.Children[:idx]...)
		merged = append(merged, children...)
		merged = append(merged, t.Children[idx:]...)
		t.Children = merged
		t.ExternalChildrenIndex = nil
		return true
	}
	for i := range t.Children {
		if t.Children[i].InsertChildrenLayout(children) {
			return true
		}
	}
	return false
}

// DeepCopy returns an independent copy of the subtree. Pointer fields
// are re-allocated so mutations of the copy never reach the original.
func (t TiledPaneLayout) DeepCopy() TiledPaneLayout {
	out := t
	if t.Focus != nil {
		v := *t.Focus
		out.Focus = &v
	}
	if t.SplitSize != nil {
		v := *t.SplitSize
		out.SplitSize = &v
	}
	if t.ExternalChildrenIndex != nil {
		v := *t.ExternalChildrenIndex
		out.ExternalChildrenIndex = &v
	}
	if t.Children != nil {
		out.Children = make([]TiledPaneLayout, len(t.Children))
		for i := range t.Children {
			out.Children[i] = t.Children[i].DeepCopy()
		}
	}
	switch r := t.Run.(type) {
	case RunCommand:
		if r.Args != nil {
			r.Args = append([]string(nil), r.Args...)
		}
		out.Run = r
	case RunEditFile:
		if r.Line != nil {
			v := *r.Line
			r.Line = &v
		}
		out.Run = r
	}
	return out
}

// DeepCopy returns an independent copy of the floating pane.
func (f FloatingPaneLayout) DeepCopy() FloatingPaneLayout {
	out := f
	copyPF := func(p *PercentOrFixed) *PercentOrFixed {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	if f.Focus != nil {
		v := *f.Focus
		out.Focus = &v
	}
	out.X = copyPF(f.X)
	out.Y = copyPF(f.Y)
	out.Width = copyPF(f.Width)
	out.Height = copyPF(f.Height)
	switch r := f.Run.(type) {
	case RunCommand:
		if r.Args != nil {
			r.Args = append([]string(nil), r.Args...)
		}
		out.Run = r
	case RunEditFile:
		if r.Line != nil {
			v := *r.Line
			r.Line = &v
		}
		out.Run = r
	}
	return out
}
