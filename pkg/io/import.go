package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/panemux/pkg/layout"
)

var kindFromString = map[string]layout.ConstraintKind{
	"any":       layout.NoConstraint,
	"min_panes": layout.MinPanes,
	"max_panes": layout.MaxPanes,
}

// ReadJSON decodes a JSON layout from r.
//
// ReadJSON returns an error if the JSON is malformed, a run object
// carries an unknown type tag, a geometry string does not parse, or a
// swap constraint names an unknown kind. Errors are wrapped with context
// describing which pane caused the problem.
//
// The returned layout is independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*layout.Layout, error) {
	var data wireLayout
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := &layout.Layout{FocusedTabIndex: data.FocusedTabIndex}
	for i, t := range data.Tabs {
		tiled, err := fromWireTiled(t.Tiled)
		if err != nil {
			return nil, fmt.Errorf("tab %d: %w", i, err)
		}
		floating, err := fromWireFloatingList(t.Floating)
		if err != nil {
			return nil, fmt.Errorf("tab %d: %w", i, err)
		}
		out.Tabs = append(out.Tabs, layout.Tab{Name: t.Name, Tiled: tiled, Floating: floating})
	}
	if data.Template != nil {
		tmpl, err := fromWireTiled(*data.Template)
		if err != nil {
			return nil, fmt.Errorf("template: %w", err)
		}
		out.Template = &tmpl
	}
	var err error
	if out.FloatingTemplate, err = fromWireFloatingList(data.FloatingTemplate); err != nil {
		return nil, fmt.Errorf("floating template: %w", err)
	}
	for _, s := range data.SwapTiled {
		swap, err := fromWireSwapTiled(s)
		if err != nil {
			return nil, fmt.Errorf("swap_tiled_layout %q: %w", s.Name, err)
		}
		out.SwapTiledLayouts = append(out.SwapTiledLayouts, swap)
	}
	for _, s := range data.SwapFloating {
		swap, err := fromWireSwapFloating(s)
		if err != nil {
			return nil, fmt.Errorf("swap_floating_layout %q: %w", s.Name, err)
		}
		out.SwapFloatingLayouts = append(out.SwapFloatingLayouts, swap)
	}
	return out, nil
}

// ImportJSON reads a JSON file at path and returns the decoded layout.
// It returns the same validation errors as [ReadJSON], wrapped with the
// file path for context.
func ImportJSON(path string) (*layout.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func fromWireTiled(w wireTiled) (layout.TiledPaneLayout, error) {
	var zero layout.TiledPaneLayout
	run, err := fromWireRun(w.Run)
	if err != nil {
		return zero, err
	}
	out := layout.TiledPaneLayout{
		Name:                  w.Name,
		Borderless:            w.Borderless,
		Focus:                 w.Focus,
		Run:                   run,
		ChildrenAreStacked:    w.Stacked,
		ExternalChildrenIndex: w.ChildrenIndex,
	}
	if w.Size != "" {
		size, err := layout.ParsePercentOrFixed(w.Size)
		if err != nil {
			return zero, fmt.Errorf("size %q: %w", w.Size, err)
		}
		out.SplitSize = &size
	}
	if w.Direction != "" {
		dir, err := layout.ParseSplitDirection(w.Direction)
		if err != nil {
			return zero, err
		}
		out.ChildrenSplitDirection = dir
	}
	for i, c := range w.Children {
		child, err := fromWireTiled(c)
		if err != nil {
			return zero, fmt.Errorf("child %d: %w", i, err)
		}
		out.Children = append(out.Children, child)
	}
	return out, nil
}

func fromWireFloating(w wireFloating) (layout.FloatingPaneLayout, error) {
	var zero layout.FloatingPaneLayout
	run, err := fromWireRun(w.Run)
	if err != nil {
		return zero, err
	}
	out := layout.FloatingPaneLayout{Name: w.Name, Focus: w.Focus, Run: run}
	parse := func(dst **layout.PercentOrFixed, name, raw string) error {
		if raw == "" {
			return nil
		}
		v, err := layout.ParsePercentOrFixed(raw)
		if err != nil {
			return fmt.Errorf("%s %q: %w", name, raw, err)
		}
		*dst = &v
		return nil
	}
	if err := parse(&out.X, "x", w.X); err != nil {
		return zero, err
	}
	if err := parse(&out.Y, "y", w.Y); err != nil {
		return zero, err
	}
	if err := parse(&out.Width, "width", w.Width); err != nil {
		return zero, err
	}
	if err := parse(&out.Height, "height", w.Height); err != nil {
		return zero, err
	}
	return out, nil
}

func fromWireFloatingList(panes []wireFloating) ([]layout.FloatingPaneLayout, error) {
	var out []layout.FloatingPaneLayout
	for i, w := range panes {
		f, err := fromWireFloating(w)
		if err != nil {
			return nil, fmt.Errorf("floating pane %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func fromWireRun(w *wireRun) (layout.Run, error) {
	if w == nil {
		return nil, nil
	}
	switch w.Type {
	case "command":
		return layout.RunCommand{
			Command:     w.Command,
			Args:        w.Args,
			Cwd:         w.Cwd,
			HoldOnClose: w.HoldOnClose,
			HoldOnStart: w.HoldOnStart,
		}, nil
	case "edit":
		return layout.RunEditFile{Path: w.Path, Line: w.Line}, nil
	case "cwd":
		return layout.RunCwd{Path: w.Path}, nil
	case "plugin":
		loc, err := layout.ParsePluginLocation(w.Location)
		if err != nil {
			return nil, fmt.Errorf("plugin location %q: %w", w.Location, err)
		}
		return layout.RunPlugin{Location: loc, AllowExecHostCmd: w.AllowExecHostCmd}, nil
	}
	return nil, fmt.Errorf("unknown run type %q", w.Type)
}

func fromWireConstraint(w wireConstraint) (layout.LayoutConstraint, error) {
	kind, ok := kindFromString[w.Kind]
	if !ok {
		return layout.LayoutConstraint{}, fmt.Errorf("unknown constraint kind %q", w.Kind)
	}
	return layout.LayoutConstraint{Kind: kind, Panes: w.Panes}, nil
}

func fromWireSwapTiled(w wireSwapTiled) (layout.SwapTiledLayout, error) {
	out := layout.SwapTiledLayout{Name: w.Name}
	for _, entry := range w.Layouts {
		c, err := fromWireConstraint(entry.Constraint)
		if err != nil {
			return out, err
		}
		l, err := fromWireTiled(entry.Layout)
		if err != nil {
			return out, fmt.Errorf("constraint %s: %w", c, err)
		}
		out.Layouts.Set(c, l)
	}
	return out, nil
}

func fromWireSwapFloating(w wireSwapFloating) (layout.SwapFloatingLayout, error) {
	out := layout.SwapFloatingLayout{Name: w.Name}
	for _, entry := range w.Layouts {
		c, err := fromWireConstraint(entry.Constraint)
		if err != nil {
			return out, err
		}
		panes, err := fromWireFloatingList(entry.Panes)
		if err != nil {
			return out, fmt.Errorf("constraint %s: %w", c, err)
		}
		out.Layouts.Set(c, panes)
	}
	return out, nil
}
