package parser

import (
	"github.com/matzehuels/panemux/pkg/errors"
	"github.com/matzehuels/panemux/pkg/kdl"
	"github.com/matzehuels/panemux/pkg/layout"
)

// paneShape classifies a pane template's resolved form: committed to
// tiled, committed to floating, or still neutral.
type paneShape struct {
	kind     shapeKind
	tiled    layout.TiledPaneLayout
	floating layout.FloatingPaneLayout
}

type shapeKind int

const (
	shapeTiled shapeKind = iota
	shapeFloating
	shapeEither
)

// clone deep-copies the shape so template application never mutates the
// registry entry.
func (s paneShape) clone() paneShape {
	out := s
	out.tiled = s.tiled.DeepCopy()
	out.floating = s.floating.DeepCopy()
	return out
}

// populateExternalChildrenIndex finds the consumer's own children marker
// among its nested nodes, returning its index and stacked flag.
func (p *Parser) populateExternalChildrenIndex(n *kdl.Node) (*int, bool, error) {
	for i, child := range n.Children {
		if child.Name != "children" {
			continue
		}
		stacked, err := childrenMarkerFlags(child)
		if err != nil {
			return nil, false, err
		}
		idx := i
		return &idx, stacked, nil
	}
	return nil, false, nil
}

// insertChildrenToPaneTemplate splices the consumer's nested panes into
// the template's children marker, when the consumer has any.
func (p *Parser) insertChildrenToPaneTemplate(n *kdl.Node, tmpl *layout.TiledPaneLayout, tmplNode *kdl.Node) error {
	dir, err := p.parseSplitDirection(n)
	if err != nil {
		return err
	}
	childrenIndex, stacked, parts, err := p.parseChildPaneNodesForPane(n.Children)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}
	splice := layout.TiledPaneLayout{
		ChildrenSplitDirection: dir,
		Children:               parts,
		ExternalChildrenIndex:  childrenIndex,
		ChildrenAreStacked:     stacked,
	}
	if err := p.assertOneChildrenBlock(tmpl, tmplNode); err != nil {
		return err
	}
	return p.insertLayoutChildrenOrError(tmpl, splice, tmplNode)
}

// assertOneChildrenBlock requires exactly one children marker in the
// template before a consumer's panes can be spliced in.
func (p *Parser) assertOneChildrenBlock(tmpl *layout.TiledPaneLayout, tmplNode *kdl.Node) error {
	count := tmpl.ChildrenBlockCount()
	if count != 1 {
		return nodeErr(errors.ErrCodeTemplateChildren, tmplNode,
			"This template has %d children blocks, only 1 is allowed when used to insert child panes", count)
	}
	return nil
}

// insertLayoutChildrenOrError splices one subtree at the template's
// children marker, failing when no marker exists.
func (p *Parser) insertLayoutChildrenOrError(tmpl *layout.TiledPaneLayout, splice layout.TiledPaneLayout, tmplNode *kdl.Node) error {
	if !tmpl.InsertChildrenLayout([]layout.TiledPaneLayout{splice}) {
		return nodeErr(errors.ErrCodeTemplateChildren, tmplNode, "This template does not have children")
	}
	return nil
}

// templateNameOf reads the name off a template's defining node, for
// error messages.
func templateNameOf(tmplNode *kdl.Node) string {
	name, _ := stringField(tmplNode, "name")
	return name
}

// parsePaneNodeWithTemplate resolves a tiled consumer node against a
// pane template. markChildrenIndex keeps the consumer's own children
// marker alive in the output, for templates consumed inside other
// templates or swap alternates.
func (p *Parser) parsePaneNodeWithTemplate(n *kdl.Node, shape paneShape, markChildrenIndex bool, tmplNode *kdl.Node) (layout.TiledPaneLayout, error) {
	var zero layout.TiledPaneLayout
	if shape.kind == shapeFloating {
		return zero, nodeErr(errors.ErrCodeTemplateShape, n,
			"pane_template %s, is a floating pane template (derived from its properties) and cannot be applied to a tiled pane",
			templateNameOf(tmplNode))
	}
	tmpl := shape.tiled.DeepCopy()

	var borderless, focus *bool
	if v, ok, err := boolFieldStrict(n, "borderless"); err != nil {
		return zero, err
	} else if ok {
		borderless = &v
	}
	if v, ok, err := boolFieldStrict(n, "focus"); err != nil {
		return zero, err
	} else if ok {
		focus = &v
	}
	name, hasName, err := stringFieldStrict(n, "name")
	if err != nil {
		return zero, err
	}
	args, err := p.parseArgs(n)
	if err != nil {
		return zero, err
	}
	var closeOnExit, startSuspended *bool
	if v, ok, err := boolFieldStrict(n, "close_on_exit"); err != nil {
		return zero, err
	} else if ok {
		closeOnExit = &v
	}
	if v, ok, err := boolFieldStrict(n, "start_suspended"); err != nil {
		return zero, err
	} else if ok {
		startSuspended = &v
	}
	splitSize, err := p.parseSplitSize(n)
	if err != nil {
		return zero, err
	}
	run, err := p.parseRunBlock(n, true)
	if err != nil {
		return zero, err
	}
	var childrenIndex *int
	childrenStacked := false
	if markChildrenIndex {
		childrenIndex, childrenStacked, err = p.populateExternalChildrenIndex(n)
		if err != nil {
			return zero, err
		}
	}
	if err := p.assertNoBareRunAttrsWithTemplate(run, tmpl.Run, args, closeOnExit, startSuspended, n); err != nil {
		return zero, err
	}
	if err := p.insertChildrenToPaneTemplate(n, &tmpl, tmplNode); err != nil {
		return zero, err
	}
	tmpl.Run = layout.MergeRun(tmpl.Run, run)
	tmpl.Run = graftRunAttrs(tmpl.Run, args, closeOnExit, startSuspended)
	if borderless != nil {
		tmpl.Borderless = *borderless
	}
	if focus != nil {
		tmpl.Focus = focus
	}
	if hasName {
		tmpl.Name = name
	}
	if splitSize != nil {
		tmpl.SplitSize = splitSize
	}
	// a marker the consumer did not fill becomes a default pane
	if tmpl.ExternalChildrenIndex != nil {
		idx := *tmpl.ExternalChildrenIndex
		tmpl.Children = append(tmpl.Children[:idx],
			append([]layout.TiledPaneLayout{{}}, tmpl.Children[idx:]...)...)
	}
	tmpl.ExternalChildrenIndex = childrenIndex
	tmpl.ChildrenAreStacked = childrenStacked
	return tmpl, nil
}

// parseFloatingPaneNodeWithTemplate resolves a floating consumer node
// against a pane template.
func (p *Parser) parseFloatingPaneNodeWithTemplate(n *kdl.Node, shape paneShape, tmplNode *kdl.Node) (layout.FloatingPaneLayout, error) {
	var zero layout.FloatingPaneLayout
	if shape.kind == shapeTiled {
		return zero, nodeErr(errors.ErrCodeTemplateShape, n,
			"pane_template %s, is a non-floating pane template (derived from its properties) and cannot be applied to a floating pane",
			templateNameOf(tmplNode))
	}
	var tmpl layout.FloatingPaneLayout
	if shape.kind == shapeFloating {
		tmpl = shape.floating.DeepCopy()
	} else {
		// neutral template: carry over the shared fields
		either := shape.tiled
		tmpl = layout.FloatingPaneLayout{Name: either.Name, Run: either.Run}
		if either.Focus != nil {
			v := *either.Focus
			tmpl.Focus = &v
		}
	}

	var focus *bool
	if v, ok, err := boolFieldStrict(n, "focus"); err != nil {
		return zero, err
	} else if ok {
		focus = &v
	}
	name, hasName, err := stringFieldStrict(n, "name")
	if err != nil {
		return zero, err
	}
	args, err := p.parseArgs(n)
	if err != nil {
		return zero, err
	}
	var closeOnExit, startSuspended *bool
	if v, ok, err := boolFieldStrict(n, "close_on_exit"); err != nil {
		return zero, err
	} else if ok {
		closeOnExit = &v
	}
	if v, ok, err := boolFieldStrict(n, "start_suspended"); err != nil {
		return zero, err
	} else if ok {
		startSuspended = &v
	}
	run, err := p.parseRunBlock(n, true)
	if err != nil {
		return zero, err
	}
	if err := p.assertNoBareRunAttrsWithTemplate(run, tmpl.Run, args, closeOnExit, startSuspended, n); err != nil {
		return zero, err
	}
	tmpl.Run = layout.MergeRun(tmpl.Run, run)
	tmpl.Run = graftRunAttrs(tmpl.Run, args, closeOnExit, startSuspended)
	if focus != nil {
		tmpl.Focus = focus
	}
	if hasName {
		tmpl.Name = name
	}
	if v, err := p.parsePercentOrFixed(n, "height", false); err != nil {
		return zero, err
	} else if v != nil {
		tmpl.Height = v
	}
	if v, err := p.parsePercentOrFixed(n, "width", false); err != nil {
		return zero, err
	} else if v != nil {
		tmpl.Width = v
	}
	if v, err := p.parsePercentOrFixed(n, "x", true); err != nil {
		return zero, err
	} else if v != nil {
		tmpl.X = v
	}
	if v, err := p.parsePercentOrFixed(n, "y", true); err != nil {
		return zero, err
	} else if v != nil {
		tmpl.Y = v
	}
	return tmpl, nil
}
