package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/panemux/pkg/errors"
	"github.com/matzehuels/panemux/pkg/layout"
)

func mustParse(t *testing.T, src string) *layout.Layout {
	t.Helper()
	out, err := Parse(src, "")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	return out
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	out, err := Parse(src, "")
	if err == nil {
		t.Fatalf("Parse() expected error, got layout %+v", out)
	}
	return err
}

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err.Error(), want)
	}
}

func TestParseStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "no layout", src: `pane`, want: "No layout found"},
		{name: "two layouts", src: "layout { pane }\nlayout { pane }", want: "Only one layout node per file allowed"},
		{name: "tabs then pane", src: `layout { tab; pane }`, want: "Cannot have both tabs and panes in the same node"},
		{name: "pane then tab", src: `layout { pane; tab }`, want: "Cannot have both tabs and panes in the same node"},
		{name: "tabs then floating", src: `layout { tab; floating_panes { pane } }`, want: "Cannot have both tabs and panes in the same node"},
		{name: "unknown node", src: `layout { sidebar }`, want: "Unknown layout node: 'sidebar'"},
		{
			name: "two focused tabs",
			src:  `layout { tab focus=true; tab focus=true }`,
			want: "Only one tab can be focused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrContains(t, parseErr(t, tt.src), tt.want)
		})
	}
}

func TestParseEmptyLayout(t *testing.T) {
	out := mustParse(t, `layout`)
	if len(out.Tabs) != 0 {
		t.Errorf("tabs = %d, want 0", len(out.Tabs))
	}
	if out.Template == nil || len(out.Template.Children) != 0 {
		t.Errorf("template = %+v, want empty default pane", out.Template)
	}
}

func TestParsePanesBecomeSyntheticTab(t *testing.T) {
	out := mustParse(t, `layout { pane; pane; pane }`)
	if len(out.Tabs) != 0 {
		t.Fatalf("explicit panes should live on the template, got %d tabs", len(out.Tabs))
	}
	if got := len(out.Template.Children); got != 3 {
		t.Errorf("template children = %d, want 3", got)
	}
}

func TestParseTabs(t *testing.T) {
	out := mustParse(t, `layout {
    tab name="editor" {
        pane
        pane
    }
    tab name="logs" focus=true
}`)
	if len(out.Tabs) != 2 {
		t.Fatalf("tabs = %d, want 2", len(out.Tabs))
	}
	if out.Tabs[0].Name != "editor" || out.Tabs[1].Name != "logs" {
		t.Errorf("tab names = %q, %q", out.Tabs[0].Name, out.Tabs[1].Name)
	}
	if got := len(out.Tabs[0].Tiled.Children); got != 2 {
		t.Errorf("editor tab children = %d, want 2", got)
	}
	if out.FocusedTabIndex == nil || *out.FocusedTabIndex != 1 {
		t.Errorf("focused tab index = %v, want 1", out.FocusedTabIndex)
	}
}

func TestParsePaneAttributes(t *testing.T) {
	out := mustParse(t, `layout {
    pane size="30%" borderless=true name="side"
    pane size=5 focus=true split_direction="vertical" {
        pane
        pane
    }
}`)
	side := out.Template.Children[0]
	if side.SplitSize == nil || *side.SplitSize != layout.Percent(30) {
		t.Errorf("side split size = %v", side.SplitSize)
	}
	if !side.Borderless || side.Name != "side" {
		t.Errorf("side = %+v", side)
	}
	main := out.Template.Children[1]
	if main.SplitSize == nil || *main.SplitSize != layout.Fixed(5) {
		t.Errorf("main split size = %v", main.SplitSize)
	}
	if main.Focus == nil || !*main.Focus {
		t.Errorf("main focus = %v", main.Focus)
	}
	if main.ChildrenSplitDirection != layout.SplitVertical {
		t.Errorf("main direction = %v", main.ChildrenSplitDirection)
	}
	if len(main.Children) != 2 {
		t.Errorf("main children = %d", len(main.Children))
	}
}

func TestParseValueErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "size zero", src: `layout { pane size=0 }`, want: "size should be greater than 0"},
		{name: "size junk string", src: `layout { pane size="huge" }`, want: "size should be a fixed number (eg. 1) or a quoted percent (eg. \"50%\")"},
		{name: "size bool", src: `layout { pane size=true }`, want: "size should be a fixed number"},
		{name: "bare size child", src: `layout { pane { size } }`, want: "size cannot be bare"},
		{name: "bad direction", src: `layout { pane split_direction="diagonal" }`, want: "split_direction should be either \"horizontal\" or \"vertical\" found: diagonal"},
		{name: "unknown pane property", src: `layout { pane frame=true }`, want: "Unknown pane property: frame"},
		{name: "percent over 100", src: `layout { pane size="150%" }`, want: "size should be a fixed number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrContains(t, parseErr(t, tt.src), tt.want)
		})
	}
}

func TestErrorsCarryPositions(t *testing.T) {
	src := `layout {
    pane
    pane size=0
}`
	err := parseErr(t, src)
	off, length, ok := errors.Position(err)
	if !ok {
		t.Fatalf("error has no position: %v", err)
	}
	if off <= 0 || length <= 0 || off+length > len(src) {
		t.Errorf("position out of range: offset=%d len=%d", off, length)
	}
	if !strings.Contains(src[off:off+length], "size=0") {
		t.Errorf("position %d+%d points at %q", off, length, src[off:off+length])
	}
}

func TestParseRunActions(t *testing.T) {
	out := mustParse(t, `layout {
    pane command="htop" close_on_exit=true {
        args "-d" "1"
    }
    pane edit="notes.md" cwd="/docs"
    pane cwd="/workspace"
    pane {
        plugin location="zellij:tab-bar"
    }
}`)
	cmd, ok := out.Template.Children[0].Run.(layout.RunCommand)
	if !ok {
		t.Fatalf("first pane run = %#v", out.Template.Children[0].Run)
	}
	want := layout.RunCommand{Command: "htop", Args: []string{"-d", "1"}, HoldOnClose: false}
	if !reflect.DeepEqual(cmd, want) {
		t.Errorf("command = %#v, want %#v", cmd, want)
	}
	edit, ok := out.Template.Children[1].Run.(layout.RunEditFile)
	if !ok || edit.Path != "/docs/notes.md" {
		t.Errorf("edit run = %#v", out.Template.Children[1].Run)
	}
	cwd, ok := out.Template.Children[2].Run.(layout.RunCwd)
	if !ok || cwd.Path != "/workspace" {
		t.Errorf("cwd run = %#v", out.Template.Children[2].Run)
	}
	plugin, ok := out.Template.Children[3].Run.(layout.RunPlugin)
	if !ok || plugin.Location.Name != "tab-bar" {
		t.Errorf("plugin run = %#v", out.Template.Children[3].Run)
	}
}

func TestParseRunDefaults(t *testing.T) {
	out := mustParse(t, `layout { pane command="watch" }`)
	cmd := out.Template.Children[0].Run.(layout.RunCommand)
	if !cmd.HoldOnClose {
		t.Error("hold_on_close should default true")
	}
	if cmd.HoldOnStart {
		t.Error("hold_on_start should default false")
	}
}

func TestParseRunErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "command and edit",
			src:  `layout { pane command="vim" edit="a.txt" }`,
			want: "cannot have both a command and an edit instruction for the same pane",
		},
		{
			name: "plugin and command",
			src:  `layout { pane command="htop" { plugin location="zellij:tab-bar" } }`,
			want: "Cannot have both a command/edit and a plugin block for a single pane",
		},
		{
			name: "plugin without location",
			src:  `layout { pane { plugin } }`,
			want: "Plugins must have a location",
		},
		{
			name: "plugin bad url",
			src:  `layout { pane { plugin location="tab-bar" } }`,
			want: "Failed to parse url",
		},
		{
			name: "args without command",
			src:  `layout { pane { args "-h" } }`,
			want: "args can only be set if a command was specified",
		},
		{
			name: "empty args",
			src:  `layout { pane command="ls" { args } }`,
			want: "args cannot be empty and should contain one or more command arguments (eg. args \"-h\" \"-v\")",
		},
		{
			name: "close_on_exit without command",
			src:  `layout { pane close_on_exit=true }`,
			want: "close_on_exit can only be set if a command was specified",
		},
		{
			name: "start_suspended without command",
			src:  `layout { pane start_suspended=true }`,
			want: "start_suspended can only be set if a command was specified",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrContains(t, parseErr(t, tt.src), tt.want)
		})
	}
}

func TestParseMixedChildrenAndProperties(t *testing.T) {
	err := parseErr(t, `layout { pane command="htop" { pane } }`)
	assertErrContains(t, err, "Cannot have both properties (command/edit/plugin) and nested children")
}

func TestPaneTemplateSplice(t *testing.T) {
	out := mustParse(t, `layout {
    pane_template name="body" {
        pane size=1
        children
        pane size=2
    }
    body {
        pane
        pane
    }
}`)
	resolved := out.Template.Children[0]
	if len(resolved.Children) != 3 {
		t.Fatalf("resolved children = %d, want 3 (top, splice, bottom)", len(resolved.Children))
	}
	if resolved.ExternalChildrenIndex != nil {
		t.Error("marker leaked into resolved tree")
	}
	splice := resolved.Children[1]
	if len(splice.Children) != 2 {
		t.Errorf("splice wrapper holds %d panes, want 2", len(splice.Children))
	}
	if resolved.Children[0].SplitSize == nil || *resolved.Children[0].SplitSize != layout.Fixed(1) {
		t.Errorf("top pane out of place: %+v", resolved.Children[0])
	}
	if resolved.Children[2].SplitSize == nil || *resolved.Children[2].SplitSize != layout.Fixed(2) {
		t.Errorf("bottom pane out of place: %+v", resolved.Children[2])
	}
}

func TestPaneTemplateEmptyConsumerGetsDefaultPane(t *testing.T) {
	out := mustParse(t, `layout {
    pane_template name="body" {
        pane size=1
        children
    }
    body
}`)
	resolved := out.Template.Children[0]
	if len(resolved.Children) != 2 {
		t.Fatalf("resolved children = %d, want 2", len(resolved.Children))
	}
	filler := resolved.Children[1]
	if len(filler.Children) != 0 || filler.Run != nil {
		t.Errorf("marker should be filled with a default pane, got %+v", filler)
	}
}

func TestPaneTemplateChildrenErrors(t *testing.T) {
	t.Run("no marker", func(t *testing.T) {
		err := parseErr(t, `layout {
    pane_template name="body" {
        pane
    }
    body {
        pane
    }
}`)
		assertErrContains(t, err, "This template has 0 children blocks, only 1 is allowed when used to insert child panes")
	})
	t.Run("two markers", func(t *testing.T) {
		err := parseErr(t, `layout {
    pane_template name="body" {
        pane { children }
        pane { children }
    }
    body {
        pane
    }
}`)
		assertErrContains(t, err, "This template has 2 children blocks, only 1 is allowed when used to insert child panes")
	})
}

func TestPaneTemplateOverrides(t *testing.T) {
	out := mustParse(t, `layout {
    pane_template name="tool" command="tail" size="20%"
    tool name="log" size="40%" focus=true {
        args "-f" "app.log"
    }
}`)
	resolved := out.Template.Children[0]
	if resolved.Name != "log" {
		t.Errorf("name = %q", resolved.Name)
	}
	if resolved.SplitSize == nil || *resolved.SplitSize != layout.Percent(40) {
		t.Errorf("split size = %v", resolved.SplitSize)
	}
	if resolved.Focus == nil || !*resolved.Focus {
		t.Errorf("focus = %v", resolved.Focus)
	}
	cmd, ok := resolved.Run.(layout.RunCommand)
	if !ok {
		t.Fatalf("run = %#v", resolved.Run)
	}
	if cmd.Command != "tail" || !reflect.DeepEqual(cmd.Args, []string{"-f", "app.log"}) {
		t.Errorf("command = %#v", cmd)
	}
}

func TestPaneTemplateCwdGraft(t *testing.T) {
	out := mustParse(t, `layout {
    pane_template name="tool" command="make"
    tool cwd="/build"
}`)
	cmd := out.Template.Children[0].Run.(layout.RunCommand)
	if cmd.Command != "make" || cmd.Cwd != "/build" {
		t.Errorf("consumer cwd should graft onto template command: %#v", cmd)
	}
}

func TestBareArgsWithoutAnyCommand(t *testing.T) {
	err := parseErr(t, `layout {
    pane_template name="empty"
    empty {
        args "-h"
    }
}`)
	assertErrContains(t, err, "args can only be specified if a command was specified either in the pane_template or in the pane")
}

func TestNestedPaneTemplatesResolveInDependencyOrder(t *testing.T) {
	// "outer" is declared before "inner" but consumes it, so inner must
	// be materialized first.
	out := mustParse(t, `layout {
    pane_template name="outer" {
        inner
        pane
    }
    pane_template name="inner" command="htop"
    outer
}`)
	resolved := out.Template.Children[0]
	if len(resolved.Children) != 2 {
		t.Fatalf("outer children = %d, want 2", len(resolved.Children))
	}
	cmd, ok := resolved.Children[0].Run.(layout.RunCommand)
	if !ok || cmd.Command != "htop" {
		t.Errorf("nested template not resolved: %#v", resolved.Children[0].Run)
	}
}

func TestCircularTemplateDependency(t *testing.T) {
	err := parseErr(t, `layout {
    pane_template name="a" { b }
    pane_template name="b" { a }
    pane
}`)
	assertErrContains(t, err, "Circular dependency detected between pane templates.")
}

func TestTemplateNameErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "missing name", src: `layout { pane_template { pane } }`, want: "Pane templates must have a name"},
		{name: "reserved word", src: `layout { pane_template name="pane" }`, want: "Node name 'pane' is a reserved word."},
		{name: "starts with number", src: `layout { pane_template name="1col" }`, want: "Template names cannot start with numbers"},
		{name: "parentheses", src: `layout { pane_template name="a(b)" }`, want: "Template names cannot contain parantheses"},
		{name: "whitespace", src: `layout { pane_template name="two cols" }`, want: "Node names (two cols) cannot contain whitespace."},
		{
			name: "duplicate pane template",
			src:  `layout { pane_template name="x"; pane_template name="x" }`,
			want: "Duplicate definition of the \"x\" pane_template",
		},
		{
			name: "duplicate tab template",
			src:  `layout { tab_template name="x" { children }; tab_template name="x" { children } }`,
			want: "Duplicate definition of the \"x\" tab_template",
		},
		{
			name: "cross registry collision",
			src:  `layout { pane_template name="x"; tab_template name="x" { children } }`,
			want: "There is already a pane_template with the name \"x\" - can't have a tab_template with the same name",
		},
		{name: "tab template missing name", src: `layout { tab_template { children } }`, want: "Tab templates must have a name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrContains(t, parseErr(t, tt.src), tt.want)
		})
	}
}

func TestTabTemplate(t *testing.T) {
	out := mustParse(t, `layout {
    tab_template name="with_status" {
        pane size=1 borderless=true
        children
    }
    with_status name="main" {
        pane
        pane
    }
}`)
	if len(out.Tabs) != 1 {
		t.Fatalf("tabs = %d, want 1", len(out.Tabs))
	}
	tab := out.Tabs[0]
	if tab.Name != "main" {
		t.Errorf("tab name = %q", tab.Name)
	}
	if len(tab.Tiled.Children) != 2 {
		t.Fatalf("tab children = %d, want 2 (status bar + splice)", len(tab.Tiled.Children))
	}
	if !tab.Tiled.Children[0].Borderless {
		t.Errorf("status bar pane lost its attributes: %+v", tab.Tiled.Children[0])
	}
	if got := len(tab.Tiled.Children[1].Children); got != 2 {
		t.Errorf("spliced panes = %d, want 2", got)
	}
}

func TestTabTemplateChildrenMustBeBare(t *testing.T) {
	err := parseErr(t, `layout {
    tab_template name="t" {
        children stacked=true
    }
}`)
	assertErrContains(t, err, "The `children` node must be bare.")
}

func TestTabPropertyPlacementErrors(t *testing.T) {
	t.Run("in tab braces", func(t *testing.T) {
		err := parseErr(t, `layout { tab { cwd "/x" } }`)
		assertErrContains(t, err, "Tab property 'cwd' must be placed on the tab title line and not in the child braces")
	})
	t.Run("in tab_template braces", func(t *testing.T) {
		err := parseErr(t, `layout { tab_template name="t" { max_panes 3 } }`)
		assertErrContains(t, err, "Tab property 'max_panes' must be placed on the tab_template title line and not in the child braces")
	})
	t.Run("invalid tab property", func(t *testing.T) {
		err := parseErr(t, `layout { tab { sidebar } }`)
		assertErrContains(t, err, "Invalid tab property: sidebar")
	})
	t.Run("invalid header property", func(t *testing.T) {
		err := parseErr(t, `layout { tab frame=true }`)
		assertErrContains(t, err, "Invalid tab property 'frame'")
	})
}

func TestDefaultTabTemplate(t *testing.T) {
	src := `layout {
    default_tab_template {
        pane size=1
        children
    }
    tab name="one" {
        pane
        pane
    }
    tab name="two"
}`
	out := mustParse(t, src)
	if len(out.Tabs) != 2 {
		t.Fatalf("tabs = %d, want 2", len(out.Tabs))
	}
	one := out.Tabs[0].Tiled
	if len(one.Children) != 2 {
		t.Fatalf("tab one children = %d, want 2 (bar + splice)", len(one.Children))
	}
	if got := len(one.Children[1].Children); got != 2 {
		t.Errorf("tab one spliced panes = %d, want 2", got)
	}
	two := out.Tabs[1].Tiled
	if len(two.Children) != 2 {
		t.Fatalf("tab two children = %d, want 2 (bar + default)", len(two.Children))
	}
	if out.Template == nil || len(out.Template.Children) != 2 {
		t.Errorf("layout template should come from the default tab template: %+v", out.Template)
	}
	if out.Template.ExternalChildrenIndex != nil {
		t.Error("marker leaked into layout template")
	}
}

func TestFloatingPanes(t *testing.T) {
	out := mustParse(t, `layout {
    floating_panes {
        pane x=0 y="10%" width=80 height="20%" name="popup"
    }
}`)
	if len(out.FloatingTemplate) != 1 {
		t.Fatalf("floating panes = %d, want 1", len(out.FloatingTemplate))
	}
	fp := out.FloatingTemplate[0]
	if fp.Name != "popup" {
		t.Errorf("name = %q", fp.Name)
	}
	if fp.X == nil || *fp.X != layout.Fixed(0) {
		t.Errorf("x = %v", fp.X)
	}
	if fp.Y == nil || *fp.Y != layout.Percent(10) {
		t.Errorf("y = %v", fp.Y)
	}
	if fp.Width == nil || *fp.Width != layout.Fixed(80) {
		t.Errorf("width = %v", fp.Width)
	}
	if fp.Height == nil || *fp.Height != layout.Percent(20) {
		t.Errorf("height = %v", fp.Height)
	}
}

func TestFloatingPaneErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "zero width", src: `layout { floating_panes { pane width=0 } }`, want: "width should be greater than 0"},
		{name: "zero height percent", src: `layout { floating_panes { pane height="0%" } }`, want: "height should be greater than 0"},
		{name: "tiled property", src: `layout { floating_panes { pane size=1 } }`, want: "Unknown floating pane property: size"},
		{name: "non pane child", src: `layout { floating_panes { tab } }`, want: "floating_panes can only contain pane nodes, found: tab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrContains(t, parseErr(t, tt.src), tt.want)
		})
	}
}

func TestTemplateShapeClassification(t *testing.T) {
	t.Run("floating template on tiled pane", func(t *testing.T) {
		err := parseErr(t, `layout {
    pane_template name="popup" x=10 y=10
    popup
}`)
		assertErrContains(t, err, "pane_template popup, is a floating pane template (derived from its properties) and cannot be applied to a tiled pane")
	})
	t.Run("tiled template on floating pane", func(t *testing.T) {
		err := parseErr(t, `layout {
    pane_template name="col" split_direction="vertical"
    floating_panes { col }
}`)
		assertErrContains(t, err, "pane_template col, is a non-floating pane template (derived from its properties) and cannot be applied to a floating pane")
	})
	t.Run("mixed shape definition", func(t *testing.T) {
		err := parseErr(t, `layout {
    pane_template name="both" borderless=true x=10
}`)
		assertErrContains(t, err, "A pane_template cannot have both pane (borderless) and floating pane (x) properties")
	})
	t.Run("neutral template works both ways", func(t *testing.T) {
		out := mustParse(t, `layout {
    pane_template name="shell" command="fish"
    shell
    floating_panes {
        shell x=5
    }
}`)
		cmd, ok := out.Template.Children[0].Run.(layout.RunCommand)
		if !ok || cmd.Command != "fish" {
			t.Errorf("tiled use = %#v", out.Template.Children[0].Run)
		}
		if len(out.FloatingTemplate) != 1 {
			t.Fatalf("floating panes = %d", len(out.FloatingTemplate))
		}
		fcmd, ok := out.FloatingTemplate[0].Run.(layout.RunCommand)
		if !ok || fcmd.Command != "fish" {
			t.Errorf("floating use = %#v", out.FloatingTemplate[0].Run)
		}
		if out.FloatingTemplate[0].X == nil || *out.FloatingTemplate[0].X != layout.Fixed(5) {
			t.Errorf("floating x = %v", out.FloatingTemplate[0].X)
		}
	})
}

func TestSwapTiledLayouts(t *testing.T) {
	out := mustParse(t, `layout {
    pane
    swap_tiled_layout name="stacks" {
        tab max_panes=3 {
            pane
            pane
        }
        tab min_panes=2 {
            pane
        }
        tab {
            pane
        }
    }
}`)
	if len(out.SwapTiledLayouts) != 1 {
		t.Fatalf("swap groups = %d, want 1", len(out.SwapTiledLayouts))
	}
	swap := out.SwapTiledLayouts[0]
	if swap.Name != "stacks" {
		t.Errorf("swap name = %q", swap.Name)
	}
	if swap.Layouts.Len() != 3 {
		t.Fatalf("alternates = %d, want 3", swap.Layouts.Len())
	}
	var kinds []layout.ConstraintKind
	swap.Layouts.Each(func(c layout.LayoutConstraint, _ layout.TiledPaneLayout) {
		kinds = append(kinds, c.Kind)
	})
	want := []layout.ConstraintKind{layout.NoConstraint, layout.MinPanes, layout.MaxPanes}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("constraint order = %v, want %v", kinds, want)
	}
}

func TestSwapTiledAlternateWithoutBlock(t *testing.T) {
	out := mustParse(t, `layout {
    pane
    swap_tiled_layout {
        tab max_panes=1
        tab {
            pane
            pane
        }
    }
}`)
	if len(out.SwapTiledLayouts) != 1 {
		t.Fatalf("swap groups = %d, want 1", len(out.SwapTiledLayouts))
	}
	swap := out.SwapTiledLayouts[0]
	if swap.Layouts.Len() != 2 {
		t.Fatalf("alternates = %d, want 2", swap.Layouts.Len())
	}
	_, bare := swap.Layouts.At(1)
	if len(bare.Children) != 0 {
		t.Errorf("block-less alternate children = %d, want 0", len(bare.Children))
	}
	_, full := swap.Layouts.At(0)
	if len(full.Children) != 2 {
		t.Errorf("block alternate children = %d, want 2", len(full.Children))
	}
}

func TestSwapConstraintErrors(t *testing.T) {
	t.Run("both constraints", func(t *testing.T) {
		err := parseErr(t, `layout {
    pane
    swap_tiled_layout {
        tab min_panes=2 max_panes=4 { pane }
    }
}`)
		assertErrContains(t, err, "cannot have more than one constraint (eg. max_panes + min_panes)")
	})
	t.Run("quoted min_panes", func(t *testing.T) {
		err := parseErr(t, `layout {
    pane
    swap_tiled_layout {
        tab min_panes="2" { pane }
    }
}`)
		assertErrContains(t, err, "min_panes should be a fixed number (eg. 1) and not a quoted string (\"2\")")
	})
	t.Run("quoted max_panes", func(t *testing.T) {
		err := parseErr(t, `layout {
    pane
    swap_tiled_layout {
        tab max_panes="3" { pane }
    }
}`)
		assertErrContains(t, err, "max_panes should be a fixed number (eg. 1) and not a quoted string (\"3\")")
	})
}

func TestSwapTiledKeepsChildrenMarker(t *testing.T) {
	out := mustParse(t, `layout {
    pane
    swap_tiled_layout {
        tab {
            pane split_direction="vertical" {
                children
            }
        }
    }
}`)
	_, alt := out.SwapTiledLayouts[0].Layouts.At(0)
	if alt.ChildrenBlockCount() != 1 {
		t.Errorf("swap alternate should keep its splice point, count = %d", alt.ChildrenBlockCount())
	}
}

func TestSwapFloatingLayouts(t *testing.T) {
	out := mustParse(t, `layout {
    pane
    swap_floating_layout {
        floating_panes max_panes=2 {
            pane x=1 y=1
        }
        floating_panes {
            pane x=2 y=2
            pane x=3 y=3
        }
    }
}`)
	if len(out.SwapFloatingLayouts) != 1 {
		t.Fatalf("swap floating groups = %d, want 1", len(out.SwapFloatingLayouts))
	}
	swap := out.SwapFloatingLayouts[0]
	if swap.Layouts.Len() != 2 {
		t.Fatalf("alternates = %d, want 2", swap.Layouts.Len())
	}
	c, first := swap.Layouts.At(0)
	if c.Kind != layout.NoConstraint || len(first) != 2 {
		t.Errorf("first alternate = %v with %d panes", c, len(first))
	}
	c, second := swap.Layouts.At(1)
	if c.Kind != layout.MaxPanes || c.Panes != 2 || len(second) != 1 {
		t.Errorf("second alternate = %v with %d panes", c, len(second))
	}
}

func TestCwdPropagation(t *testing.T) {
	t.Run("layout cwd node", func(t *testing.T) {
		out := mustParse(t, `layout {
    cwd "/home/user"
    tab cwd="proj" {
        pane
    }
}`)
		run := out.Tabs[0].Tiled.Children[0].Run
		cwd, ok := run.(layout.RunCwd)
		if !ok || cwd.Path != "/home/user/proj" {
			t.Errorf("pane cwd = %#v, want /home/user/proj", run)
		}
	})
	t.Run("external cwd wins over layout cwd", func(t *testing.T) {
		out, err := Parse(`layout {
    cwd "/ignored"
    pane
}`, "/external")
		if err != nil {
			t.Fatal(err)
		}
		cwd, ok := out.Template.Children[0].Run.(layout.RunCwd)
		if !ok || cwd.Path != "/external" {
			t.Errorf("pane cwd = %#v, want /external", out.Template.Children[0].Run)
		}
	})
	t.Run("absolute pane cwd wins", func(t *testing.T) {
		out := mustParse(t, `layout {
    cwd "/base"
    pane cwd="/abs"
}`)
		cwd := out.Template.Children[0].Run.(layout.RunCwd)
		if cwd.Path != "/abs" {
			t.Errorf("pane cwd = %q, want /abs", cwd.Path)
		}
	})
	t.Run("command cwd is prefixed", func(t *testing.T) {
		out := mustParse(t, `layout {
    cwd "/base"
    pane command="make" cwd="build"
}`)
		cmd := out.Template.Children[0].Run.(layout.RunCommand)
		if cmd.Cwd != "/base/build" {
			t.Errorf("command cwd = %q, want /base/build", cmd.Cwd)
		}
	})
}

func TestStackedChildrenMarker(t *testing.T) {
	out := mustParse(t, `layout {
    pane_template name="stacked_body" {
        pane size=1
        children stacked=true
    }
    stacked_body {
        pane
        pane
    }
}`)
	resolved := out.Template.Children[0]
	if len(resolved.Children) != 2 {
		t.Fatalf("resolved children = %d, want 2", len(resolved.Children))
	}
	stack := resolved.Children[1]
	if !stack.ChildrenAreStacked {
		t.Errorf("spliced children should be wrapped in a stacked container: %+v", stack)
	}
}

func TestReservedWordChildrenAreIgnoredAtTopLevel(t *testing.T) {
	// template and swap declarations are consumed by earlier passes and
	// must not trip the unknown-node check
	out := mustParse(t, `layout {
    pane_template name="x" command="htop"
    tab_template name="y" { children }
    swap_tiled_layout { tab { pane } }
    pane
}`)
	if got := len(out.Template.Children); got != 1 {
		t.Errorf("template children = %d, want 1", got)
	}
}
