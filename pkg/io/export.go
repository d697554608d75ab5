package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/panemux/pkg/layout"
)

var kindToString = map[layout.ConstraintKind]string{
	layout.NoConstraint: "any",
	layout.MinPanes:     "min_panes",
	layout.MaxPanes:     "max_panes",
}

type wireLayout struct {
	Tabs             []wireTab          `json:"tabs,omitempty"`
	Template         *wireTiled         `json:"template,omitempty"`
	FloatingTemplate []wireFloating     `json:"floating_template,omitempty"`
	FocusedTabIndex  *int               `json:"focused_tab_index,omitempty"`
	SwapTiled        []wireSwapTiled    `json:"swap_tiled_layouts,omitempty"`
	SwapFloating     []wireSwapFloating `json:"swap_floating_layouts,omitempty"`
}

type wireTab struct {
	Name     string         `json:"name,omitempty"`
	Tiled    wireTiled      `json:"tiled"`
	Floating []wireFloating `json:"floating,omitempty"`
}

type wireTiled struct {
	Name          string      `json:"name,omitempty"`
	Borderless    bool        `json:"borderless,omitempty"`
	Focus         *bool       `json:"focus,omitempty"`
	Size          string      `json:"size,omitempty"`
	Direction     string      `json:"direction,omitempty"`
	Run           *wireRun    `json:"run,omitempty"`
	Stacked       bool        `json:"stacked,omitempty"`
	ChildrenIndex *int        `json:"children_index,omitempty"`
	Children      []wireTiled `json:"children,omitempty"`
}

type wireFloating struct {
	Name   string   `json:"name,omitempty"`
	Focus  *bool    `json:"focus,omitempty"`
	Run    *wireRun `json:"run,omitempty"`
	X      string   `json:"x,omitempty"`
	Y      string   `json:"y,omitempty"`
	Width  string   `json:"width,omitempty"`
	Height string   `json:"height,omitempty"`
}

type wireRun struct {
	Type             string   `json:"type"`
	Command          string   `json:"command,omitempty"`
	Args             []string `json:"args,omitempty"`
	Cwd              string   `json:"cwd,omitempty"`
	HoldOnClose      bool     `json:"hold_on_close"`
	HoldOnStart      bool     `json:"hold_on_start,omitempty"`
	Path             string   `json:"path,omitempty"`
	Line             *int     `json:"line,omitempty"`
	Location         string   `json:"location,omitempty"`
	AllowExecHostCmd bool     `json:"allow_exec_host_cmd,omitempty"`
}

type wireConstraint struct {
	Kind  string `json:"kind"`
	Panes int    `json:"panes,omitempty"`
}

type wireSwapTiled struct {
	Name    string `json:"name,omitempty"`
	Layouts []struct {
		Constraint wireConstraint `json:"constraint"`
		Layout     wireTiled      `json:"layout"`
	} `json:"layouts"`
}

type wireSwapFloating struct {
	Name    string `json:"name,omitempty"`
	Layouts []struct {
		Constraint wireConstraint `json:"constraint"`
		Panes      []wireFloating `json:"panes"`
	} `json:"layouts"`
}

// WriteJSON encodes a resolved layout as JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(l *layout.Layout, w io.Writer) error {
	out := wireLayout{FocusedTabIndex: l.FocusedTabIndex}
	for i := range l.Tabs {
		t := &l.Tabs[i]
		out.Tabs = append(out.Tabs, wireTab{
			Name:     t.Name,
			Tiled:    toWireTiled(t.Tiled),
			Floating: toWireFloatingList(t.Floating),
		})
	}
	if l.Template != nil {
		tmpl := toWireTiled(*l.Template)
		out.Template = &tmpl
	}
	out.FloatingTemplate = toWireFloatingList(l.FloatingTemplate)
	for i := range l.SwapTiledLayouts {
		out.SwapTiled = append(out.SwapTiled, toWireSwapTiled(&l.SwapTiledLayouts[i]))
	}
	for i := range l.SwapFloatingLayouts {
		out.SwapFloating = append(out.SwapFloating, toWireSwapFloating(&l.SwapFloatingLayouts[i]))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a resolved layout to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(l *layout.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, f)
}

func toWireTiled(t layout.TiledPaneLayout) wireTiled {
	out := wireTiled{
		Name:          t.Name,
		Borderless:    t.Borderless,
		Focus:         t.Focus,
		Run:           toWireRun(t.Run),
		Stacked:       t.ChildrenAreStacked,
		ChildrenIndex: t.ExternalChildrenIndex,
	}
	if t.SplitSize != nil {
		out.Size = t.SplitSize.String()
	}
	if t.ChildrenSplitDirection != layout.SplitHorizontal {
		out.Direction = t.ChildrenSplitDirection.String()
	}
	for i := range t.Children {
		out.Children = append(out.Children, toWireTiled(t.Children[i]))
	}
	return out
}

func toWireFloating(f layout.FloatingPaneLayout) wireFloating {
	out := wireFloating{
		Name:  f.Name,
		Focus: f.Focus,
		Run:   toWireRun(f.Run),
	}
	set := func(dst *string, v *layout.PercentOrFixed) {
		if v != nil {
			*dst = v.String()
		}
	}
	set(&out.X, f.X)
	set(&out.Y, f.Y)
	set(&out.Width, f.Width)
	set(&out.Height, f.Height)
	return out
}

func toWireFloatingList(panes []layout.FloatingPaneLayout) []wireFloating {
	var out []wireFloating
	for i := range panes {
		out = append(out, toWireFloating(panes[i]))
	}
	return out
}

func toWireRun(r layout.Run) *wireRun {
	switch run := r.(type) {
	case layout.RunCommand:
		return &wireRun{
			Type:        "command",
			Command:     run.Command,
			Args:        run.Args,
			Cwd:         run.Cwd,
			HoldOnClose: run.HoldOnClose,
			HoldOnStart: run.HoldOnStart,
		}
	case layout.RunEditFile:
		return &wireRun{Type: "edit", Path: run.Path, Line: run.Line}
	case layout.RunCwd:
		return &wireRun{Type: "cwd", Path: run.Path}
	case layout.RunPlugin:
		return &wireRun{
			Type:             "plugin",
			Location:         run.Location.String(),
			AllowExecHostCmd: run.AllowExecHostCmd,
		}
	}
	return nil
}

func toWireConstraint(c layout.LayoutConstraint) wireConstraint {
	return wireConstraint{Kind: kindToString[c.Kind], Panes: c.Panes}
}

func toWireSwapTiled(s *layout.SwapTiledLayout) wireSwapTiled {
	out := wireSwapTiled{Name: s.Name}
	s.Layouts.Each(func(c layout.LayoutConstraint, l layout.TiledPaneLayout) {
		out.Layouts = append(out.Layouts, struct {
			Constraint wireConstraint `json:"constraint"`
			Layout     wireTiled      `json:"layout"`
		}{toWireConstraint(c), toWireTiled(l)})
	})
	return out
}

func toWireSwapFloating(s *layout.SwapFloatingLayout) wireSwapFloating {
	out := wireSwapFloating{Name: s.Name}
	s.Layouts.Each(func(c layout.LayoutConstraint, panes []layout.FloatingPaneLayout) {
		out.Layouts = append(out.Layouts, struct {
			Constraint wireConstraint `json:"constraint"`
			Panes      []wireFloating `json:"panes"`
		}{toWireConstraint(c), toWireFloatingList(panes)})
	})
	return out
}
