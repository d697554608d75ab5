package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panemux/pkg/render"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	cwd    string
	tab    int // 1-based tab to draw, 0 means focused (or first)
	width  int
	height int
}

// newInspectCmd creates the inspect command, which draws a resolved
// layout as bordered boxes in the terminal.
func newInspectCmd() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect <layout.kdl>",
		Short: "Draw a resolved layout as boxes in the terminal",
		Long: `Draw a resolved layout as boxes in the terminal.

One tab is drawn at a time. Without --tab, the focused tab is drawn,
or the first one when no focus is set. Floating panes of the tab are
listed below the tiled tree.

Examples:
  panemux inspect dev.kdl
  panemux inspect dev.kdl --tab 2 --width 120 --height 40`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInspect(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.cwd, "cwd", "", "global working directory")
	cmd.Flags().IntVar(&opts.tab, "tab", 0, "tab number to draw (1-based, default: focused)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "drawing width in cells")
	cmd.Flags().IntVar(&opts.height, "height", 0, "drawing height in cells")

	return cmd
}

func runInspect(ctx context.Context, opts *inspectOpts, path string) error {
	l, err := loadLayout(ctx, opts.cwd, path)
	if err != nil {
		return err
	}

	boxOpts := render.BoxOptions{Width: opts.width, Height: opts.height}

	if len(l.Tabs) == 0 {
		if l.Template != nil {
			fmt.Println(render.Boxes(l.Template, boxOpts))
		}
		if len(l.FloatingTemplate) > 0 {
			fmt.Println(render.FloatingBoxes(l.FloatingTemplate, boxOpts))
		}
		return nil
	}

	idx := opts.tab - 1
	if opts.tab == 0 {
		idx = 0
		if l.FocusedTabIndex != nil {
			idx = *l.FocusedTabIndex
		}
	}
	if idx < 0 || idx >= len(l.Tabs) {
		return fmt.Errorf("tab %d out of range (layout has %d)", opts.tab, len(l.Tabs))
	}

	tab := &l.Tabs[idx]
	name := tab.Name
	if name == "" {
		name = fmt.Sprintf("Tab #%d", idx+1)
	}
	fmt.Println(StyleTitle.Render(name))
	fmt.Println(render.Boxes(&tab.Tiled, boxOpts))
	if len(tab.Floating) > 0 {
		fmt.Println(StyleDim.Render("floating:"))
		fmt.Println(render.FloatingBoxes(tab.Floating, boxOpts))
	}
	return nil
}
