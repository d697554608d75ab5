package parser

import (
	"strings"

	"github.com/matzehuels/panemux/pkg/errors"
	"github.com/matzehuels/panemux/pkg/kdl"
	"github.com/matzehuels/panemux/pkg/layout"
)

// parsePaneNode resolves a standalone (non-template) tiled pane node,
// recursing into its children.
func (p *Parser) parsePaneNode(n *kdl.Node) (layout.TiledPaneLayout, error) {
	var pane layout.TiledPaneLayout
	if err := p.assertValidPaneProperties(n); err != nil {
		return pane, err
	}
	borderless, _, err := boolFieldStrict(n, "borderless")
	if err != nil {
		return pane, err
	}
	var focus *bool
	if v, ok, err := boolFieldStrict(n, "focus"); err != nil {
		return pane, err
	} else if ok {
		focus = &v
	}
	name, _, err := stringFieldStrict(n, "name")
	if err != nil {
		return pane, err
	}
	splitSize, err := p.parseSplitSize(n)
	if err != nil {
		return pane, err
	}
	run, err := p.parseRunBlock(n, false)
	if err != nil {
		return pane, err
	}
	dir, err := p.parseSplitDirection(n)
	if err != nil {
		return pane, err
	}
	childrenIndex, stacked, children, err := p.parseChildPaneNodesForPane(n.Children)
	if err != nil {
		return pane, err
	}
	if err := p.assertNoMixedChildrenAndProperties(n); err != nil {
		return pane, err
	}
	return layout.TiledPaneLayout{
		Borderless:             borderless,
		Focus:                  focus,
		Name:                   name,
		SplitSize:              splitSize,
		Run:                    run,
		ChildrenSplitDirection: dir,
		Children:               children,
		ExternalChildrenIndex:  childrenIndex,
		ChildrenAreStacked:     stacked,
	}, nil
}

// parseFloatingPaneNode resolves a standalone floating pane node.
func (p *Parser) parseFloatingPaneNode(n *kdl.Node) (layout.FloatingPaneLayout, error) {
	var pane layout.FloatingPaneLayout
	if err := p.assertValidFloatingPaneProperties(n); err != nil {
		return pane, err
	}
	height, err := p.parsePercentOrFixed(n, "height", false)
	if err != nil {
		return pane, err
	}
	width, err := p.parsePercentOrFixed(n, "width", false)
	if err != nil {
		return pane, err
	}
	x, err := p.parsePercentOrFixed(n, "x", true)
	if err != nil {
		return pane, err
	}
	y, err := p.parsePercentOrFixed(n, "y", true)
	if err != nil {
		return pane, err
	}
	run, err := p.parseRunBlock(n, false)
	if err != nil {
		return pane, err
	}
	var focus *bool
	if v, ok, err := boolFieldStrict(n, "focus"); err != nil {
		return pane, err
	} else if ok {
		focus = &v
	}
	name, _, err := stringFieldStrict(n, "name")
	if err != nil {
		return pane, err
	}
	if err := p.assertNoMixedChildrenAndProperties(n); err != nil {
		return pane, err
	}
	return layout.FloatingPaneLayout{
		Name:   name,
		Focus:  focus,
		Run:    run,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}, nil
}

// childrenMarkerFlags reads the stacked flag off a children marker node.
func childrenMarkerFlags(marker *kdl.Node) (bool, error) {
	stacked, _, err := boolFieldStrict(marker, "stacked")
	return stacked, err
}

// parseChildPaneNodesForPane walks a pane's nested nodes: further panes,
// template invocations, and at most one children marker whose position
// is recorded for later splicing.
func (p *Parser) parseChildPaneNodesForPane(children []*kdl.Node) (*int, bool, []layout.TiledPaneLayout, error) {
	var (
		childrenIndex *int
		stacked       bool
		nodes         []layout.TiledPaneLayout
	)
	for i, child := range children {
		switch {
		case child.Name == "pane":
			pane, err := p.parsePaneNode(child)
			if err != nil {
				return nil, false, nil, err
			}
			nodes = append(nodes, pane)
		case child.Name == "children":
			s, err := childrenMarkerFlags(child)
			if err != nil {
				return nil, false, nil, err
			}
			idx := i
			childrenIndex = &idx
			stacked = s
		default:
			if pt, ok := p.paneTemplates[child.Name]; ok {
				pane, err := p.parsePaneNodeWithTemplate(child, pt.shape, false, pt.node)
				if err != nil {
					return nil, false, nil, err
				}
				nodes = append(nodes, pane)
			} else if !isValidPaneProperty(child.Name) {
				return nil, false, nil, nodeErr(errors.ErrCodeInvalidProperty, child,
					"Unknown pane property: %s", child.Name)
			}
		}
	}
	return childrenIndex, stacked, nodes, nil
}

// parseChildPaneNodesForTab walks a tab's nested nodes. Floating panes
// are collected into floating; an empty tab gets one default pane.
func (p *Parser) parseChildPaneNodesForTab(children []*kdl.Node, markChildrenIndex bool, floating *[]layout.FloatingPaneLayout) ([]layout.TiledPaneLayout, error) {
	var nodes []layout.TiledPaneLayout
	for _, child := range children {
		switch {
		case child.Name == "pane":
			pane, err := p.parsePaneNode(child)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, pane)
		case child.Name == "floating_panes":
			if err := p.populateFloatingPaneChildren(child, floating); err != nil {
				return nil, err
			}
		default:
			if pt, ok := p.paneTemplates[child.Name]; ok {
				pane, err := p.parsePaneNodeWithTemplate(child, pt.shape, markChildrenIndex, pt.node)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, pane)
			} else if isValidTabProperty(child.Name) {
				return nil, nodeErr(errors.ErrCodeInvalidProperty, child,
					"Tab property '%s' must be placed on the tab title line and not in the child braces", child.Name)
			} else {
				return nil, nodeErr(errors.ErrCodeInvalidProperty, child,
					"Invalid tab property: %s", child.Name)
			}
		}
	}
	if len(nodes) == 0 {
		nodes = append(nodes, layout.TiledPaneLayout{})
	}
	return nodes, nil
}

// populateFloatingPaneChildren walks a floating_panes block, which may
// only contain pane nodes and pane-template invocations.
func (p *Parser) populateFloatingPaneChildren(block *kdl.Node, floating *[]layout.FloatingPaneLayout) error {
	for _, child := range block.Children {
		if child.Name == "pane" {
			pane, err := p.parseFloatingPaneNode(child)
			if err != nil {
				return err
			}
			pane.AddCwd(p.globalCwd)
			*floating = append(*floating, pane)
			continue
		}
		if pt, ok := p.paneTemplates[child.Name]; ok {
			pane, err := p.parseFloatingPaneNodeWithTemplate(child, pt.shape, pt.node)
			if err != nil {
				return err
			}
			*floating = append(*floating, pane)
			continue
		}
		return nodeErr(errors.ErrCodeInvalidProperty, child,
			"floating_panes can only contain pane nodes, found: %s", child.Name)
	}
	return nil
}

// parseTabNode resolves a structural (non-template) tab node.
func (p *Parser) parseTabNode(n *kdl.Node) (parsedTab, error) {
	var tab parsedTab
	if err := p.assertValidTabProperties(n); err != nil {
		return tab, err
	}
	tab.name, _ = stringField(n, "name")
	tabCwd, _ := stringField(n, "cwd")
	tab.focused, _ = boolField(n, "focus")
	dir, err := p.parseSplitDirection(n)
	if err != nil {
		return tab, err
	}
	var children []layout.TiledPaneLayout
	if n.HasBlock {
		children, err = p.parseChildPaneNodesForTab(n.Children, false, &tab.floating)
		if err != nil {
			return tab, err
		}
	}
	tab.tiled = layout.TiledPaneLayout{
		ChildrenSplitDirection: dir,
		Children:               children,
	}
	tab.tiled.AddCwd(p.cwdPrefix(tabCwd))
	return tab, nil
}

// parseTabNodeWithTemplate resolves a tab node against a tab template:
// the node's own panes are spliced into the template's children marker.
// markChildrenIndex preserves the marker for downstream splicing instead
// of filling it, used by swap layout alternates.
func (p *Parser) parseTabNodeWithTemplate(n *kdl.Node, tmpl layout.TiledPaneLayout, tmplFloating []layout.FloatingPaneLayout, markChildrenIndex bool, tmplNode *kdl.Node) (parsedTab, error) {
	var tab parsedTab
	if err := p.assertValidTabProperties(n); err != nil {
		return tab, err
	}
	tab.name, _ = stringField(n, "name")
	tabCwd, _ := stringField(n, "cwd")
	tab.focused, _ = boolField(n, "focus")
	dir, err := p.parseSplitDirection(n)
	if err != nil {
		return tab, err
	}
	if n.HasBlock {
		tab.floating = tmplFloating
		children, err := p.parseChildPaneNodesForTab(n.Children, markChildrenIndex, &tab.floating)
		if err != nil {
			return tab, err
		}
		if err := p.assertOneChildrenBlock(&tmpl, tmplNode); err != nil {
			return tab, err
		}
		splice := layout.TiledPaneLayout{
			ChildrenSplitDirection: dir,
			Children:               children,
		}
		if err := p.insertLayoutChildrenOrError(&tmpl, splice, tmplNode); err != nil {
			return tab, err
		}
	} else {
		tab.floating = tmplFloating
		if tmpl.ExternalChildrenIndex != nil {
			idx := *tmpl.ExternalChildrenIndex
			tmpl.Children = append(tmpl.Children[:idx],
				append([]layout.TiledPaneLayout{{}}, tmpl.Children[idx:]...)...)
		}
	}
	tmpl.AddCwd(p.cwdPrefix(tabCwd))
	tmpl.ExternalChildrenIndex = nil
	tab.tiled = tmpl
	return tab, nil
}

// hasChildNodes reports whether the node nests panes, children markers,
// or pane-template invocations.
func (p *Parser) hasChildNodes(n *kdl.Node) bool {
	for _, child := range n.Children {
		if child.Name == "pane" || child.Name == "children" {
			return true
		}
		if _, ok := p.paneTemplates[child.Name]; ok {
			return true
		}
	}
	return false
}

// hasChildPanesTabsOrTemplates additionally counts tab nodes, used by
// the leaf-property checks.
func (p *Parser) hasChildPanesTabsOrTemplates(n *kdl.Node) bool {
	for _, child := range n.Children {
		if child.Name == "pane" || child.Name == "children" || child.Name == "tab" {
			return true
		}
		if _, ok := p.paneTemplates[child.Name]; ok {
			return true
		}
	}
	return false
}

// assertNoMixedChildrenAndProperties rejects leaf-only properties on a
// node that nests structural children.
func (p *Parser) assertNoMixedChildrenAndProperties(n *kdl.Node) error {
	_, hasBorderless, err := boolFieldStrict(n, "borderless")
	if err != nil {
		return err
	}
	_, hasCwd, err := stringFieldStrict(n, "cwd")
	if err != nil {
		return err
	}
	run, err := p.parseRunBlock(n, false)
	if err != nil {
		return err
	}
	hasNonCwdRun := false
	if run != nil {
		_, isCwd := run.(layout.RunCwd)
		hasNonCwdRun = !isCwd
	}
	if !p.hasChildPanesTabsOrTemplates(n) || (!hasBorderless && !hasNonCwdRun && !hasCwd) {
		return nil
	}
	var offending []string
	if hasBorderless {
		offending = append(offending, "borderless")
	}
	if hasNonCwdRun {
		offending = append(offending, "command/edit/plugin")
	}
	if hasCwd {
		offending = append(offending, "cwd")
	}
	return nodeErr(errors.ErrCodeStructure, n,
		"Cannot have both properties (%s) and nested children", strings.Join(offending, ", "))
}
