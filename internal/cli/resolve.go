package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/panemux/pkg/io"
	"github.com/matzehuels/panemux/pkg/layout"
	"github.com/matzehuels/panemux/pkg/layout/parser"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	cwd    string // global working directory prefix
	format string // json or summary
	output string // output file path (stdout if empty)
}

// newResolveCmd creates the resolve command. It parses a KDL layout
// file, resolves templates and defaults, and emits the result as JSON
// or a human-readable summary.
func newResolveCmd() *cobra.Command {
	opts := resolveOpts{format: "json"}

	cmd := &cobra.Command{
		Use:   "resolve <layout.kdl>",
		Short: "Resolve a KDL layout file into its final form",
		Long: `Resolve a KDL layout file into its final form.

Templates are expanded, defaults applied and working directories
composed. The resolved layout is written as JSON, or as a short
summary with --format summary.

Examples:
  panemux resolve dev.kdl
  panemux resolve dev.kdl --cwd ~/projects/api -o dev.json
  panemux resolve dev.kdl --format summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runResolve(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.cwd, "cwd", "", "global working directory (overrides config default_cwd)")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: json or summary")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runResolve loads and resolves the layout file, then writes it in the
// requested format.
func runResolve(ctx context.Context, opts *resolveOpts, path string) error {
	logger := loggerFromContext(ctx)
	l, err := loadLayout(ctx, opts.cwd, path)
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		out, err := openOutput(opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := pkgio.WriteJSON(l, out); err != nil {
			return err
		}
		if opts.output != "" {
			logger.Infof("Wrote layout to %s", opts.output)
		}
	case "summary":
		printSummary(l, path)
	default:
		return fmt.Errorf("unknown format: %s (available: json, summary)", opts.format)
	}
	return nil
}

// loadLayout reads and resolves a KDL layout file. The global cwd falls
// back to the config's default_cwd when the flag is empty.
func loadLayout(ctx context.Context, cwd, path string) (*layout.Layout, error) {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)
	if cwd == "" {
		cwd = cfg.DefaultCwd
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	prog := newProgress(logger)
	l, err := parser.Parse(string(src), cwd)
	if err != nil {
		return nil, describeLayoutError(path, string(src), err)
	}
	prog.done(fmt.Sprintf("Resolved %s into %d tab(s)", filepath.Base(path), tabCount(l)))
	return l, nil
}

// tabCount reports how many tabs the resolved layout opens. A layout
// without explicit tabs still opens one.
func tabCount(l *layout.Layout) int {
	if len(l.Tabs) == 0 {
		return 1
	}
	return len(l.Tabs)
}

// printSummary prints a compact human-readable description of the
// resolved layout.
func printSummary(l *layout.Layout, path string) {
	fmt.Println(StyleTitle.Render(filepath.Base(path)))

	if len(l.Tabs) == 0 {
		printKeyValue("tabs", "1 (implicit)")
		if l.Template != nil {
			printKeyValue("panes", fmt.Sprintf("%d", countPanes(l.Template)))
		}
	} else {
		printKeyValue("tabs", fmt.Sprintf("%d", len(l.Tabs)))
		for i := range l.Tabs {
			tab := &l.Tabs[i]
			name := tab.Name
			if name == "" {
				name = fmt.Sprintf("Tab #%d", i+1)
			}
			marker := " "
			if l.FocusedTabIndex != nil && *l.FocusedTabIndex == i {
				marker = "*"
			}
			line := fmt.Sprintf("%s %s: %d pane(s)", marker, name, countPanes(&tab.Tiled))
			if n := len(tab.Floating); n > 0 {
				line += fmt.Sprintf(", %d floating", n)
			}
			printDetail("%s", line)
		}
	}
	if n := len(l.SwapTiledLayouts); n > 0 {
		printKeyValue("swap tiled", fmt.Sprintf("%d", n))
	}
	if n := len(l.SwapFloatingLayouts); n > 0 {
		printKeyValue("swap floating", fmt.Sprintf("%d", n))
	}
}

// countPanes counts the leaf panes of a tiled tree.
func countPanes(t *layout.TiledPaneLayout) int {
	if len(t.Children) == 0 {
		return 1
	}
	n := 0
	for i := range t.Children {
		n += countPanes(&t.Children[i])
	}
	return n
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
