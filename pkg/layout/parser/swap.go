package parser

import (
	"github.com/matzehuels/panemux/pkg/errors"
	"github.com/matzehuels/panemux/pkg/kdl"
	"github.com/matzehuels/panemux/pkg/layout"
)

// parseConstraint reads the min_panes/max_panes gate off one swap
// alternate. At most one may be present, and only as a bare integer.
func (p *Parser) parseConstraint(n *kdl.Node) (layout.LayoutConstraint, error) {
	var zero layout.LayoutConstraint
	if quoted, ok := stringField(n, "max_panes"); ok {
		return zero, fieldErr(errors.ErrCodeInvalidValue, n, "max_panes",
			"max_panes should be a fixed number (eg. 1) and not a quoted string (\"%s\")", quoted)
	}
	if quoted, ok := stringField(n, "min_panes"); ok {
		return zero, fieldErr(errors.ErrCodeInvalidValue, n, "min_panes",
			"min_panes should be a fixed number (eg. 1) and not a quoted string (\"%s\")", quoted)
	}
	maxPanes, hasMax := intField(n, "max_panes")
	minPanes, hasMin := intField(n, "min_panes")
	switch {
	case hasMin && hasMax:
		return zero, nodeErr(errors.ErrCodeInvalidValue, n,
			"cannot have more than one constraint (eg. max_panes + min_panes)'")
	case hasMin:
		return layout.LayoutConstraint{Kind: layout.MinPanes, Panes: minPanes}, nil
	case hasMax:
		return layout.LayoutConstraint{Kind: layout.MaxPanes, Panes: maxPanes}, nil
	}
	return layout.LayoutConstraint{Kind: layout.NoConstraint}, nil
}

// populateSwapTiledLayouts collects every swap_tiled_layout group into a
// constraint-ordered set of tiled alternates. Unrecognized alternate
// names are skipped silently, matching the permissive treatment of
// reserved words elsewhere.
func (p *Parser) populateSwapTiledLayouts(children []*kdl.Node, out *[]layout.SwapTiledLayout) error {
	for _, child := range children {
		if child.Name != "swap_tiled_layout" || !child.HasBlock {
			continue
		}
		name, _ := stringField(child, "name")
		swap := layout.SwapTiledLayout{Name: name}
		for _, alternate := range child.Children {
			if alternate.Name == "tab" {
				constraint, err := p.parseConstraint(alternate)
				if err != nil {
					return err
				}
				resolved, err := p.populateOneSwapTiledLayout(alternate)
				if err != nil {
					return err
				}
				swap.Layouts.Set(constraint, resolved)
			} else if tt, ok := p.tabTemplates[alternate.Name]; ok {
				constraint, err := p.parseConstraint(alternate)
				if err != nil {
					return err
				}
				tab, err := p.parseTabNodeWithTemplate(alternate, tt.tiled.DeepCopy(), nil, true, tt.node)
				if err != nil {
					return err
				}
				swap.Layouts.Set(constraint, tab.tiled)
			}
		}
		*out = append(*out, swap)
	}
	return nil
}

// populateOneSwapTiledLayout resolves a bare tab alternate. Children
// markers inside it stay live so the runtime can splice the current
// panes in. An alternate without a child block keeps empty children;
// it never gets the implicit default pane.
func (p *Parser) populateOneSwapTiledLayout(n *kdl.Node) (layout.TiledPaneLayout, error) {
	var zero layout.TiledPaneLayout
	if err := p.assertValidTabProperties(n); err != nil {
		return zero, err
	}
	dir, err := p.parseSplitDirection(n)
	if err != nil {
		return zero, err
	}
	var children []layout.TiledPaneLayout
	if n.HasBlock {
		var floating []layout.FloatingPaneLayout
		children, err = p.parseChildPaneNodesForTab(n.Children, true, &floating)
		if err != nil {
			return zero, err
		}
	}
	return layout.TiledPaneLayout{
		ChildrenSplitDirection: dir,
		Children:               children,
	}, nil
}

// populateSwapFloatingLayouts collects every swap_floating_layout group
// into a constraint-ordered set of floating alternates.
func (p *Parser) populateSwapFloatingLayouts(children []*kdl.Node, out *[]layout.SwapFloatingLayout) error {
	for _, child := range children {
		if child.Name != "swap_floating_layout" || !child.HasBlock {
			continue
		}
		name, _ := stringField(child, "name")
		swap := layout.SwapFloatingLayout{Name: name}
		for _, alternate := range child.Children {
			if alternate.Name == "floating_panes" {
				constraint, err := p.parseConstraint(alternate)
				if err != nil {
					return err
				}
				resolved, err := p.populateOneSwapFloatingLayout(alternate)
				if err != nil {
					return err
				}
				swap.Layouts.Set(constraint, resolved)
			} else if tt, ok := p.tabTemplates[alternate.Name]; ok {
				constraint, err := p.parseConstraint(alternate)
				if err != nil {
					return err
				}
				tab, err := p.parseTabNodeWithTemplate(alternate, tt.tiled.DeepCopy(),
					copyFloating(tt.floating), false, tt.node)
				if err != nil {
					return err
				}
				swap.Layouts.Set(constraint, tab.floating)
			}
		}
		*out = append(*out, swap)
	}
	return nil
}

func (p *Parser) populateOneSwapFloatingLayout(n *kdl.Node) ([]layout.FloatingPaneLayout, error) {
	if err := p.assertValidTabProperties(n); err != nil {
		return nil, err
	}
	var floating []layout.FloatingPaneLayout
	if err := p.populateFloatingPaneChildren(n, &floating); err != nil {
		return nil, err
	}
	return floating, nil
}
