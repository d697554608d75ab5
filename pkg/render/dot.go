package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/panemux/pkg/layout"
	"github.com/matzehuels/panemux/pkg/observability"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// ShowRuns includes run actions in container labels, not just leaves.
	ShowRuns bool
}

// ToDOT converts a resolved layout to Graphviz DOT. Each tab becomes a
// subtree under a tab node; with no tabs, the layout template is the root.
// The resulting string can be rasterized with [SVG] or [PNG].
func ToDOT(l *layout.Layout, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := &dotWriter{buf: &buf, opts: opts}
	if len(l.Tabs) == 0 {
		w.walkTiled(l.Template, "")
		w.walkFloating(l.FloatingTemplate, "")
	} else {
		for i := range l.Tabs {
			tab := &l.Tabs[i]
			name := tab.Name
			if name == "" {
				name = fmt.Sprintf("tab %d", i+1)
			}
			attrs := "fillcolor=lightgrey"
			if l.FocusedTabIndex != nil && *l.FocusedTabIndex == i {
				attrs = "fillcolor=lightblue"
			}
			id := w.node(name, attrs)
			w.walkTiled(&tab.Tiled, id)
			w.walkFloating(tab.Floating, id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts DOTOptions
	seq  int
}

func (w *dotWriter) node(label, extraAttrs string) string {
	w.seq++
	id := fmt.Sprintf("n%d", w.seq)
	if extraAttrs != "" {
		fmt.Fprintf(w.buf, "  %s [label=%q, %s];\n", id, label, extraAttrs)
	} else {
		fmt.Fprintf(w.buf, "  %s [label=%q];\n", id, label)
	}
	return id
}

func (w *dotWriter) edge(from, to string) {
	if from == "" {
		return
	}
	fmt.Fprintf(w.buf, "  %s -> %s;\n", from, to)
}

func (w *dotWriter) walkTiled(t *layout.TiledPaneLayout, parent string) {
	label := Label(t)
	var attrs string
	if len(t.Children) > 0 {
		label = t.ChildrenSplitDirection.String() + " split"
		if w.opts.ShowRuns {
			if s := RunLabel(t.Run); s != "" {
				label += "\n" + s
			}
		}
		if t.ChildrenAreStacked {
			attrs = "style=\"rounded,filled,dashed\""
		}
	}
	if t.SplitSize != nil {
		label += "\n" + t.SplitSize.String()
	}
	if t.Focus != nil && *t.Focus {
		attrs = "fillcolor=lightblue"
	}
	id := w.node(label, attrs)
	w.edge(parent, id)
	for i := range t.Children {
		w.walkTiled(&t.Children[i], id)
	}
}

func (w *dotWriter) walkFloating(panes []layout.FloatingPaneLayout, parent string) {
	for i := range panes {
		id := w.node(FloatingLabel(&panes[i]), "style=\"rounded,filled,dashed\", fillcolor=lightyellow")
		w.edge(parent, id)
	}
}

// SVG rasterizes a DOT graph with Graphviz and normalizes its viewBox so
// the output scales cleanly in browsers.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// PNG rasterizes a DOT graph to PNG with Graphviz.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) (out []byte, err error) {
	start := time.Now()
	observability.Render().OnRenderStart(ctx, string(format))
	defer func() {
		observability.Render().OnRenderComplete(ctx, string(format), len(out), time.Since(start), err)
	}()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
