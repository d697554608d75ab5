package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/panemux/pkg/layout"
)

const (
	defaultPreviewWidth  = 80
	defaultPreviewHeight = 24
	minPaneCells         = 3
)

var (
	colorDim    = lipgloss.Color("240")
	colorCyan   = lipgloss.Color("36")
	colorYellow = lipgloss.Color("220")

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Align(lipgloss.Center, lipgloss.Center)

	focusedPaneStyle = paneStyle.
				BorderForeground(colorCyan).
				Bold(true)

	floatingStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorYellow).
			Align(lipgloss.Center, lipgloss.Center)
)

// BoxOptions configures terminal previews. Zero values fall back to an
// 80x24 canvas.
type BoxOptions struct {
	Width  int
	Height int
}

// Boxes draws a tiled pane tree as nested bordered boxes, splitting the
// canvas along each container's split direction.
func Boxes(t *layout.TiledPaneLayout, opts BoxOptions) string {
	if opts.Width <= 0 {
		opts.Width = defaultPreviewWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultPreviewHeight
	}
	return renderTiled(*t, opts.Width, opts.Height)
}

// FloatingBoxes draws floating panes as a vertical list of double-bordered
// boxes annotated with their geometry.
func FloatingBoxes(panes []layout.FloatingPaneLayout, opts BoxOptions) string {
	if opts.Width <= 0 {
		opts.Width = defaultPreviewWidth
	}
	var parts []string
	for i := range panes {
		label := FloatingLabel(&panes[i])
		parts = append(parts, floatingStyle.Width(opts.Width-2).Render(label))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderTiled(t layout.TiledPaneLayout, width, height int) string {
	if len(t.Children) == 0 {
		return paneBox(t, width, height)
	}
	parts := make([]string, len(t.Children))
	if t.ChildrenSplitDirection == layout.SplitVertical {
		for i, w := range allocate(width, t.Children) {
			parts[i] = renderTiled(t.Children[i], w, height)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	for i, h := range allocate(height, t.Children) {
		parts[i] = renderTiled(t.Children[i], width, h)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// allocate distributes total cells among siblings: fixed sizes are taken
// literally, percentages are taken off the total, and whatever remains is
// shared evenly by the unsized panes.
func allocate(total int, children []layout.TiledPaneLayout) []int {
	sizes := make([]int, len(children))
	remaining := total
	unsized := 0
	for i := range children {
		size := children[i].SplitSize
		switch {
		case size == nil:
			unsized++
		case size.Percent:
			sizes[i] = total * size.Value / 100
			remaining -= sizes[i]
		default:
			sizes[i] = size.Value
			remaining -= sizes[i]
		}
	}
	if unsized > 0 {
		share := remaining / unsized
		for i := range children {
			if children[i].SplitSize == nil {
				sizes[i] = share
			}
		}
	}
	for i := range sizes {
		if sizes[i] < minPaneCells {
			sizes[i] = minPaneCells
		}
	}
	return sizes
}

func paneBox(t layout.TiledPaneLayout, width, height int) string {
	style := paneStyle
	if t.Focus != nil && *t.Focus {
		style = focusedPaneStyle
	}
	w, h := width-2, height-2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return style.Width(w).Height(h).Render(Label(&t))
}

// Label picks a display string for a tiled pane: its name, its run
// action, or a plain placeholder.
func Label(t *layout.TiledPaneLayout) string {
	if t.Name != "" {
		return t.Name
	}
	if s := RunLabel(t.Run); s != "" {
		return s
	}
	if t.ChildrenAreStacked {
		return "stack"
	}
	return "pane"
}

// FloatingLabel is the floating counterpart of [Label], with the pane's
// geometry appended when any of it is set.
func FloatingLabel(f *layout.FloatingPaneLayout) string {
	label := f.Name
	if label == "" {
		label = RunLabel(f.Run)
	}
	if label == "" {
		label = "pane"
	}
	if geom := geometryLabel(f); geom != "" {
		label += " " + geom
	}
	return label
}

func geometryLabel(f *layout.FloatingPaneLayout) string {
	var parts []string
	add := func(name string, v *layout.PercentOrFixed) {
		if v != nil {
			parts = append(parts, name+"="+v.String())
		}
	}
	add("x", f.X)
	add("y", f.Y)
	add("w", f.Width)
	add("h", f.Height)
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// RunLabel summarizes a run action in one line.
func RunLabel(r layout.Run) string {
	switch run := r.(type) {
	case layout.RunCommand:
		if len(run.Args) == 0 {
			return run.Command
		}
		return run.Command + " " + strings.Join(run.Args, " ")
	case layout.RunEditFile:
		return "edit " + run.Path
	case layout.RunCwd:
		return run.Path
	case layout.RunPlugin:
		return run.Location.String()
	}
	return ""
}
