package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/panemux/pkg/layout"
)

func sampleLayout() *layout.Layout {
	focus := true
	idx := 0
	markerIdx := 1
	size := layout.Percent(30)
	x := layout.Fixed(10)
	line := 42

	swapTiled := layout.SwapTiledLayout{Name: "stacks"}
	swapTiled.Layouts.Set(
		layout.LayoutConstraint{Kind: layout.MaxPanes, Panes: 3},
		layout.TiledPaneLayout{Children: []layout.TiledPaneLayout{{}, {}}},
	)
	swapTiled.Layouts.Set(
		layout.LayoutConstraint{Kind: layout.NoConstraint},
		layout.TiledPaneLayout{Children: []layout.TiledPaneLayout{{}}},
	)

	swapFloating := layout.SwapFloatingLayout{}
	swapFloating.Layouts.Set(
		layout.LayoutConstraint{Kind: layout.MinPanes, Panes: 2},
		[]layout.FloatingPaneLayout{{Name: "scratch", X: &x}},
	)

	return &layout.Layout{
		Tabs: []layout.Tab{
			{
				Name: "work",
				Tiled: layout.TiledPaneLayout{
					ChildrenSplitDirection: layout.SplitVertical,
					Children: []layout.TiledPaneLayout{
						{
							Name:      "editor",
							Focus:     &focus,
							SplitSize: &size,
							Run:       layout.RunEditFile{Path: "notes.md", Line: &line},
						},
						{
							Run: layout.RunCommand{
								Command:     "tail",
								Args:        []string{"-f", "app.log"},
								Cwd:         "/var/log",
								HoldOnClose: true,
							},
						},
					},
				},
				Floating: []layout.FloatingPaneLayout{
					{
						Name: "popup",
						X:    &x,
						Run: layout.RunPlugin{
							Location: layout.PluginLocation{Scheme: "zellij", Name: "tab-bar"},
						},
					},
				},
			},
		},
		Template: &layout.TiledPaneLayout{
			Borderless:            true,
			ExternalChildrenIndex: &markerIdx,
			Children:              []layout.TiledPaneLayout{{Run: layout.RunCwd{Path: "/src"}}},
			ChildrenAreStacked:    true,
		},
		FocusedTabIndex:     &idx,
		SwapTiledLayouts:    []layout.SwapTiledLayout{swapTiled},
		SwapFloatingLayouts: []layout.SwapFloatingLayout{swapFloating},
	}
}

func TestRoundTrip(t *testing.T) {
	in := sampleLayout()

	var buf bytes.Buffer
	if err := WriteJSON(in, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	out, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleLayout(), &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	got := buf.String()
	for _, want := range []string{
		`"name": "work"`,
		`"type": "command"`,
		`"type": "edit"`,
		`"type": "plugin"`,
		`"location": "zellij:tab-bar"`,
		`"size": "30%"`,
		`"direction": "vertical"`,
		`"kind": "max_panes"`,
		`"focused_tab_index": 0`,
		`"stacked": true`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	in := sampleLayout()
	if err := ExportJSON(in, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	out, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Error("file round trip mismatch")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "malformed", src: `{`, want: "decode"},
		{
			name: "unknown run type",
			src:  `{"template": {"run": {"type": "spawn"}}}`,
			want: `unknown run type "spawn"`,
		},
		{
			name: "bad size",
			src:  `{"template": {"size": "huge"}}`,
			want: `size "huge"`,
		},
		{
			name: "bad constraint",
			src:  `{"swap_tiled_layouts": [{"layouts": [{"constraint": {"kind": "exactly"}, "layout": {}}]}]}`,
			want: `unknown constraint kind "exactly"`,
		},
		{
			name: "bad plugin location",
			src:  `{"template": {"run": {"type": "plugin", "location": "tab-bar"}}}`,
			want: "plugin location",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}
