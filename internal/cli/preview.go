package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panemux/pkg/layout"
	"github.com/matzehuels/panemux/pkg/render"
)

// newPreviewCmd creates the preview command, an interactive viewer that
// pages through a layout's tabs.
func newPreviewCmd() *cobra.Command {
	var cwd string

	cmd := &cobra.Command{
		Use:   "preview <layout.kdl>",
		Short: "Interactively preview a layout's tabs",
		Long: `Interactively preview a layout's tabs.

Use the left/right arrows (or h/l) to switch tabs, s to step through
swap layout alternates, f to toggle the floating pane overlay, and q
to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runPreview(c.Context(), cwd, args[0])
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", "", "global working directory")

	return cmd
}

func runPreview(ctx context.Context, cwd, path string) error {
	l, err := loadLayout(ctx, cwd, path)
	if err != nil {
		return err
	}

	m := newPreviewModel(l, path)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// PreviewModel - Interactive tab pager
// =============================================================================

var previewDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// previewTab is a single page of the preview.
type previewTab struct {
	name     string
	tiled    *layout.TiledPaneLayout
	floating []layout.FloatingPaneLayout
	focused  bool
}

// previewSwap is a single swap alternate, flattened out of its group.
type previewSwap struct {
	label string
	tiled *layout.TiledPaneLayout
}

// previewModel is the bubbletea model paging through resolved tabs.
type previewModel struct {
	path         string
	tabs         []previewTab
	swaps        []previewSwap
	cursor       int
	swapCursor   int // -1 shows the tab itself
	width        int
	height       int
	showFloating bool
}

// newPreviewModel builds the page list from a resolved layout. A layout
// without explicit tabs still gets one page for the implicit tab.
func newPreviewModel(l *layout.Layout, path string) previewModel {
	m := previewModel{path: path, showFloating: true, swapCursor: -1}

	for gi := range l.SwapTiledLayouts {
		group := &l.SwapTiledLayouts[gi]
		name := group.Name
		if name == "" {
			name = fmt.Sprintf("swap #%d", gi+1)
		}
		group.Layouts.Each(func(c layout.LayoutConstraint, t layout.TiledPaneLayout) {
			alt := t
			m.swaps = append(m.swaps, previewSwap{
				label: fmt.Sprintf("%s (%s)", name, c),
				tiled: &alt,
			})
		})
	}

	if len(l.Tabs) == 0 {
		tiled := l.Template
		if tiled == nil {
			tiled = &layout.TiledPaneLayout{}
		}
		m.tabs = []previewTab{{name: "Tab #1", tiled: tiled, floating: l.FloatingTemplate, focused: true}}
		return m
	}

	for i := range l.Tabs {
		tab := &l.Tabs[i]
		name := tab.Name
		if name == "" {
			name = fmt.Sprintf("Tab #%d", i+1)
		}
		m.tabs = append(m.tabs, previewTab{
			name:     name,
			tiled:    &tab.Tiled,
			floating: tab.Floating,
			focused:  l.FocusedTabIndex != nil && *l.FocusedTabIndex == i,
		})
	}
	if l.FocusedTabIndex != nil {
		m.cursor = *l.FocusedTabIndex
	}
	return m
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(m.tabs)-1 {
				m.cursor++
			}
		case "f":
			m.showFloating = !m.showFloating
		case "s":
			if m.swapCursor < len(m.swaps)-1 {
				m.swapCursor++
			} else {
				m.swapCursor = -1
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.path))
	b.WriteString("\n")
	help := "←/→ switch tab  f floating  q quit"
	if len(m.swaps) > 0 {
		help = "←/→ switch tab  s swap layouts  f floating  q quit"
	}
	b.WriteString(previewDimStyle.Render(help))
	b.WriteString("\n\n")

	// Tab bar.
	var bar []string
	for i, tab := range m.tabs {
		label := tab.name
		if tab.focused {
			label += "*"
		}
		if i == m.cursor {
			bar = append(bar, StyleTitle.Render("["+label+"]"))
		} else {
			bar = append(bar, previewDimStyle.Render(" "+label+" "))
		}
	}
	b.WriteString(strings.Join(bar, " "))
	b.WriteString("\n\n")

	opts := render.BoxOptions{}
	if m.width > 2 {
		opts.Width = m.width - 2
	}
	if m.height > 10 {
		opts.Height = m.height - 8
	}

	if m.swapCursor >= 0 {
		swap := m.swaps[m.swapCursor]
		b.WriteString(StyleWarning.Render("swap: " + swap.label))
		b.WriteString("\n")
		b.WriteString(render.Boxes(swap.tiled, opts))
		b.WriteString("\n")
		return b.String()
	}

	tab := m.tabs[m.cursor]
	b.WriteString(render.Boxes(tab.tiled, opts))
	if m.showFloating && len(tab.floating) > 0 {
		b.WriteString("\n")
		b.WriteString(previewDimStyle.Render("floating:"))
		b.WriteString("\n")
		b.WriteString(render.FloatingBoxes(tab.floating, opts))
	}
	b.WriteString("\n")

	return b.String()
}
