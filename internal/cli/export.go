package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panemux/pkg/render"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	cwd      string
	format   string // svg, png or dot
	output   string
	showRuns bool
}

// newExportCmd creates the export command, which renders a layout's
// structure as a Graphviz diagram.
func newExportCmd() *cobra.Command {
	opts := exportOpts{format: "svg", showRuns: true}

	cmd := &cobra.Command{
		Use:   "export <layout.kdl>",
		Short: "Export a layout as an SVG, PNG or DOT diagram",
		Long: `Export a layout's structure as a diagram.

Tabs, split containers, panes and floating panes become graph nodes;
the diagram is rendered with Graphviz.

Examples:
  panemux export dev.kdl -o dev.svg
  panemux export dev.kdl --format png -o dev.png
  panemux export dev.kdl --format dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runExport(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.cwd, "cwd", "", "global working directory")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: svg, png or dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.showRuns, "show-runs", opts.showRuns, "include commands in pane labels")

	return cmd
}

func runExport(ctx context.Context, opts *exportOpts, path string) error {
	logger := loggerFromContext(ctx)
	l, err := loadLayout(ctx, opts.cwd, path)
	if err != nil {
		return err
	}

	dot := render.ToDOT(l, render.DOTOptions{ShowRuns: opts.showRuns})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.SVG(ctx, dot)
	case "png":
		data, err = render.PNG(ctx, dot)
	default:
		return fmt.Errorf("unknown format: %s (available: svg, png, dot)", opts.format)
	}
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Exported %s", opts.format)
		printFile(opts.output)
		logger.Debugf("Wrote %d bytes", len(data))
	}
	return nil
}
