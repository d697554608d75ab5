package render

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/panemux/pkg/layout"
)

func size(p layout.PercentOrFixed) *layout.PercentOrFixed { return &p }

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		children []layout.TiledPaneLayout
		want     []int
	}{
		{
			name:     "even split",
			total:    80,
			children: []layout.TiledPaneLayout{{}, {}},
			want:     []int{40, 40},
		},
		{
			name:  "percent takes share",
			total: 100,
			children: []layout.TiledPaneLayout{
				{SplitSize: size(layout.Percent(30))},
				{},
			},
			want: []int{30, 70},
		},
		{
			name:  "fixed is literal",
			total: 50,
			children: []layout.TiledPaneLayout{
				{SplitSize: size(layout.Fixed(10))},
				{},
				{},
			},
			want: []int{10, 20, 20},
		},
		{
			name:  "minimum enforced",
			total: 4,
			children: []layout.TiledPaneLayout{
				{SplitSize: size(layout.Fixed(1))},
				{},
			},
			want: []int{3, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := allocate(tt.total, tt.children)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("allocate(%d) = %v, want %v", tt.total, got, tt.want)
			}
		})
	}
}

func TestRunLabel(t *testing.T) {
	line := 12
	tests := []struct {
		name string
		run  layout.Run
		want string
	}{
		{name: "nil", run: nil, want: ""},
		{name: "command", run: layout.RunCommand{Command: "htop"}, want: "htop"},
		{
			name: "command with args",
			run:  layout.RunCommand{Command: "tail", Args: []string{"-f", "app.log"}},
			want: "tail -f app.log",
		},
		{name: "edit", run: layout.RunEditFile{Path: "notes.md", Line: &line}, want: "edit notes.md"},
		{name: "cwd", run: layout.RunCwd{Path: "/src"}, want: "/src"},
		{
			name: "plugin",
			run:  layout.RunPlugin{Location: layout.PluginLocation{Scheme: "zellij", Name: "tab-bar"}},
			want: "zellij:tab-bar",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunLabel(tt.run); got != tt.want {
				t.Errorf("RunLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBoxesShowsPaneNames(t *testing.T) {
	root := &layout.TiledPaneLayout{
		ChildrenSplitDirection: layout.SplitVertical,
		Children: []layout.TiledPaneLayout{
			{Name: "editor"},
			{Run: layout.RunCommand{Command: "htop"}},
		},
	}
	out := Boxes(root, BoxOptions{Width: 60, Height: 10})
	for _, want := range []string{"editor", "htop"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}
}

func TestFloatingBoxesShowGeometry(t *testing.T) {
	panes := []layout.FloatingPaneLayout{
		{Name: "popup", X: size(layout.Fixed(5)), Width: size(layout.Percent(50))},
	}
	out := FloatingBoxes(panes, BoxOptions{Width: 40})
	for _, want := range []string{"popup", "x=5", "w=50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("floating preview missing %q:\n%s", want, out)
		}
	}
}

func TestToDOT(t *testing.T) {
	focus := true
	idx := 0
	l := &layout.Layout{
		Tabs: []layout.Tab{
			{
				Name: "work",
				Tiled: layout.TiledPaneLayout{
					ChildrenSplitDirection: layout.SplitVertical,
					Children: []layout.TiledPaneLayout{
						{Name: "editor", Focus: &focus},
						{Run: layout.RunCommand{Command: "htop"}},
					},
				},
				Floating: []layout.FloatingPaneLayout{{Name: "scratch"}},
			},
		},
		FocusedTabIndex: &idx,
	}
	dot := ToDOT(l, DOTOptions{})

	for _, want := range []string{
		"digraph layout {",
		`label="work"`,
		`label="vertical split"`,
		`label="editor"`,
		`label="htop"`,
		`label="scratch"`,
		"fillcolor=lightblue",
		"->",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, "->"); got != 4 {
		t.Errorf("edge count = %d, want 4", got)
	}
}

func TestToDOTTemplateOnly(t *testing.T) {
	l := &layout.Layout{
		Template: &layout.TiledPaneLayout{
			Children: []layout.TiledPaneLayout{{}, {}},
		},
	}
	dot := ToDOT(l, DOTOptions{})
	if !strings.Contains(dot, `label="horizontal split"`) {
		t.Errorf("DOT missing root split label:\n%s", dot)
	}
	if got := strings.Count(dot, "->"); got != 2 {
		t.Errorf("edge count = %d, want 2", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">ok</svg>`)
	out := normalizeViewBox(in)
	if !strings.Contains(string(out), `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(string(out), `width="100" height="50"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}
}
