package parser

import (
	"strings"

	"github.com/matzehuels/panemux/pkg/errors"
	"github.com/matzehuels/panemux/pkg/kdl"
	"github.com/matzehuels/panemux/pkg/layout"
	"github.com/matzehuels/panemux/pkg/observability"
)

// paneTemplateDependencyTree maps each pane-template name to the set of
// other pane-template names referenced anywhere in its subtree.
func (p *Parser) paneTemplateDependencyTree(children []*kdl.Node) (map[string]map[string]struct{}, error) {
	tree := make(map[string]map[string]struct{})
	for _, child := range children {
		if child.Name != "pane_template" {
			continue
		}
		name, ok := stringField(child, "name")
		if !ok {
			return nil, nodeErr(errors.ErrCodeInvalidName, child, "Pane templates must have a name")
		}
		if _, dup := tree[name]; dup {
			return nil, nodeErr(errors.ErrCodeTemplateDuplicate, child,
				"Duplicate definition of the \"%s\" pane_template", name)
		}
		deps := make(map[string]struct{})
		collectPaneTemplateDependencies(child, deps)
		tree[name] = deps
	}
	// only names that are themselves templates count as dependencies
	for _, deps := range tree {
		for dep := range deps {
			if _, isTemplate := tree[dep]; !isTemplate {
				delete(deps, dep)
			}
		}
	}
	return tree, nil
}

func collectPaneTemplateDependencies(n *kdl.Node, deps map[string]struct{}) {
	for _, child := range n.Children {
		if child.Name == "pane" {
			collectPaneTemplateDependencies(child, deps)
		} else if !isReservedWord(child.Name) {
			deps[child.Name] = struct{}{}
			collectPaneTemplateDependencies(child, deps)
		}
	}
}

// populatePaneTemplates materializes all pane templates in dependency
// order, so that a template's references are already registered when it
// is resolved.
func (p *Parser) populatePaneTemplates(children []*kdl.Node, doc *kdl.Document) error {
	tree, err := p.paneTemplateDependencyTree(children)
	if err != nil {
		return err
	}
	var order []string
	for len(tree) > 0 {
		var ready []string
		for name, deps := range tree {
			if len(deps) == 0 {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			return errors.New(errors.ErrCodeTemplateCycle,
				"Circular dependency detected between pane templates.").
				At(doc.Span.Offset, doc.Span.Len)
		}
		for _, name := range ready {
			delete(tree, name)
			for _, deps := range tree {
				delete(deps, name)
			}
			order = append(order, name)
		}
	}
	for _, name := range order {
		if err := p.parsePaneTemplateByName(name, children); err != nil {
			return err
		}
		observability.Resolver().OnTemplateRegistered("pane", name)
	}
	return nil
}

func (p *Parser) parsePaneTemplateByName(name string, children []*kdl.Node) error {
	for _, child := range children {
		if child.Name != "pane_template" {
			continue
		}
		if childName, ok := stringField(child, "name"); ok && childName == name {
			if err := p.parsePaneTemplateNode(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// parsePaneTemplateNode classifies one pane_template definition as
// tiled, floating, or neutral, and registers its resolved shape.
func (p *Parser) parsePaneTemplateNode(n *kdl.Node) error {
	name, ok := stringField(n, "name")
	if !ok {
		return nodeErr(errors.ErrCodeInvalidName, n, "Pane templates must have a name")
	}
	if err := p.assertLegalNodeName(name, n); err != nil {
		return err
	}
	if err := p.assertLegalTemplateName(name, n); err != nil {
		return err
	}
	var focus *bool
	if v, ok, err := boolFieldStrict(n, "focus"); err != nil {
		return err
	} else if ok {
		focus = &v
	}
	run, err := p.parseRunBlock(n, false)
	if err != nil {
		return err
	}
	evidence, err := p.templateShapeEvidence(n)
	if err != nil {
		return err
	}
	switch {
	case evidence.neutral():
		if err := p.assertValidNeutralPaneProperties(n); err != nil {
			return err
		}
		p.paneTemplates[name] = paneTemplate{
			shape: paneShape{kind: shapeEither, tiled: layout.TiledPaneLayout{Focus: focus, Run: run}},
			node:  n,
		}
	case evidence.floating:
		if err := p.assertValidFloatingPaneProperties(n); err != nil {
			return err
		}
		height, err := p.parsePercentOrFixed(n, "height", false)
		if err != nil {
			return err
		}
		width, err := p.parsePercentOrFixed(n, "width", false)
		if err != nil {
			return err
		}
		x, err := p.parsePercentOrFixed(n, "x", true)
		if err != nil {
			return err
		}
		y, err := p.parsePercentOrFixed(n, "y", true)
		if err != nil {
			return err
		}
		p.paneTemplates[name] = paneTemplate{
			shape: paneShape{kind: shapeFloating, floating: layout.FloatingPaneLayout{
				Focus:  focus,
				Run:    run,
				X:      x,
				Y:      y,
				Width:  width,
				Height: height,
			}},
			node: n,
		}
	default:
		if err := p.assertValidPaneProperties(n); err != nil {
			return err
		}
		borderless, _, err := boolFieldStrict(n, "borderless")
		if err != nil {
			return err
		}
		splitSize, err := p.parseSplitSize(n)
		if err != nil {
			return err
		}
		dir, err := p.parseSplitDirection(n)
		if err != nil {
			return err
		}
		childrenIndex, stacked, parts, err := p.parseChildPaneNodesForPane(n.Children)
		if err != nil {
			return err
		}
		if err := p.assertNoMixedChildrenAndProperties(n); err != nil {
			return err
		}
		p.paneTemplates[name] = paneTemplate{
			shape: paneShape{kind: shapeTiled, tiled: layout.TiledPaneLayout{
				Borderless:             borderless,
				Focus:                  focus,
				SplitSize:              splitSize,
				Run:                    run,
				ChildrenSplitDirection: dir,
				Children:               parts,
				ExternalChildrenIndex:  childrenIndex,
				ChildrenAreStacked:     stacked,
			}},
			node: n,
		}
	}
	return nil
}

// shapeEvidence summarizes which side's distinguishing properties a
// template definition exhibits.
type shapeEvidence struct {
	tiledProps    []string
	floatingProps []string
	floating      bool
}

func (e shapeEvidence) neutral() bool {
	return len(e.tiledProps) == 0 && len(e.floatingProps) == 0
}

// templateShapeEvidence inspects a pane_template for tiled-only versus
// floating-only properties, rejecting definitions that mix both.
func (p *Parser) templateShapeEvidence(n *kdl.Node) (shapeEvidence, error) {
	var e shapeEvidence
	if _, ok, err := boolFieldStrict(n, "borderless"); err != nil {
		return e, err
	} else if ok {
		e.tiledProps = append(e.tiledProps, "borderless")
	}
	if size, err := p.parseSplitSize(n); err != nil {
		return e, err
	} else if size != nil {
		e.tiledProps = append(e.tiledProps, "split_size")
	}
	if _, ok, err := stringFieldStrict(n, "split_direction"); err != nil {
		return e, err
	} else if ok {
		e.tiledProps = append(e.tiledProps, "split_direction")
	}
	if p.hasChildNodes(n) {
		e.tiledProps = append(e.tiledProps, "child nodes")
	}
	for _, geom := range []struct {
		name      string
		canBeZero bool
	}{{"height", false}, {"width", false}, {"x", true}, {"y", true}} {
		v, err := p.parsePercentOrFixed(n, geom.name, geom.canBeZero)
		if err != nil {
			return e, err
		}
		if v != nil {
			e.floatingProps = append(e.floatingProps, geom.name)
		}
	}
	if len(e.tiledProps) > 0 && len(e.floatingProps) > 0 {
		return e, nodeErr(errors.ErrCodeTemplateShape, n,
			"A pane_template cannot have both pane (%s) and floating pane (%s) properties",
			strings.Join(e.tiledProps, ", "), strings.Join(e.floatingProps, ", "))
	}
	e.floating = len(e.floatingProps) > 0
	return e, nil
}

// populateTabTemplates registers tab templates and the default tab
// template in declaration order.
func (p *Parser) populateTabTemplates(children []*kdl.Node) error {
	for _, child := range children {
		switch child.Name {
		case "tab_template":
			if err := p.populateOneTabTemplate(child); err != nil {
				return err
			}
		case "default_tab_template":
			tiled, floating, err := p.parseTabTemplateNode(child)
			if err != nil {
				return err
			}
			p.defaultTabTemplate = &tabTemplate{tiled: tiled, floating: floating, node: child}
		}
	}
	return nil
}

func (p *Parser) populateOneTabTemplate(n *kdl.Node) error {
	name, ok, err := stringFieldStrict(n, "name")
	if err != nil {
		return err
	}
	if !ok {
		return nodeErr(errors.ErrCodeInvalidName, n, "Tab templates must have a name")
	}
	if err := p.assertLegalNodeName(name, n); err != nil {
		return err
	}
	if err := p.assertLegalTemplateName(name, n); err != nil {
		return err
	}
	if _, dup := p.tabTemplates[name]; dup {
		return nodeErr(errors.ErrCodeTemplateDuplicate, n,
			"Duplicate definition of the \"%s\" tab_template", name)
	}
	if _, collides := p.paneTemplates[name]; collides {
		return nodeErr(errors.ErrCodeTemplateDuplicate, n,
			"There is already a pane_template with the name \"%s\" - can't have a tab_template with the same name", name)
	}
	tiled, floating, err := p.parseTabTemplateNode(n)
	if err != nil {
		return err
	}
	p.tabTemplates[name] = tabTemplate{tiled: tiled, floating: floating, node: n}
	observability.Resolver().OnTemplateRegistered("tab", name)
	return nil
}

// parseTabTemplateNode resolves a tab template body. Its children
// marker must be bare; floating_panes blocks before the marker shift
// its recorded index.
func (p *Parser) parseTabTemplateNode(n *kdl.Node) (layout.TiledPaneLayout, []layout.FloatingPaneLayout, error) {
	var zero layout.TiledPaneLayout
	if err := p.assertValidTabProperties(n); err != nil {
		return zero, nil, err
	}
	dir, err := p.parseSplitDirection(n)
	if err != nil {
		return zero, nil, err
	}
	var (
		tiledChildren []layout.TiledPaneLayout
		floating      []layout.FloatingPaneLayout
		childrenIndex *int
		indexOffset   int
	)
	for i, child := range n.Children {
		switch {
		case child.Name == "pane":
			pane, err := p.parsePaneNode(child)
			if err != nil {
				return zero, nil, err
			}
			tiledChildren = append(tiledChildren, pane)
		case child.Name == "children":
			if child.HasBlock && len(child.Children) > 0 || len(child.Entries) > 0 {
				return zero, nil, nodeErr(errors.ErrCodeTemplateChildren, child,
					"The `children` node must be bare. All properties should be places on the node consuming this template.")
			}
			idx := i - indexOffset
			if idx < 0 {
				idx = 0
			}
			childrenIndex = &idx
		case child.Name == "floating_panes":
			indexOffset++
			if err := p.populateFloatingPaneChildren(child, &floating); err != nil {
				return zero, nil, err
			}
		default:
			if pt, ok := p.paneTemplates[child.Name]; ok {
				pane, err := p.parsePaneNodeWithTemplate(child, pt.shape, false, pt.node)
				if err != nil {
					return zero, nil, err
				}
				tiledChildren = append(tiledChildren, pane)
			} else if isValidTabProperty(child.Name) {
				return zero, nil, nodeErr(errors.ErrCodeInvalidProperty, child,
					"Tab property '%s' must be placed on the tab_template title line and not in the child braces", child.Name)
			} else {
				return zero, nil, nodeErr(errors.ErrCodeInvalidProperty, child,
					"Invalid tab_template property: %s", child.Name)
			}
		}
	}
	return layout.TiledPaneLayout{
		ChildrenSplitDirection: dir,
		Children:               tiledChildren,
		ExternalChildrenIndex:  childrenIndex,
	}, floating, nil
}

// defaultTemplate returns an independent copy of the default tab
// template's tiled skeleton with its children marker filled by a
// default pane, or nil when none is registered.
func (p *Parser) defaultTemplate() *layout.TiledPaneLayout {
	if p.defaultTabTemplate == nil {
		return nil
	}
	tmpl := p.defaultTabTemplate.tiled.DeepCopy()
	if tmpl.ExternalChildrenIndex != nil {
		idx := *tmpl.ExternalChildrenIndex
		tmpl.Children = append(tmpl.Children[:idx],
			append([]layout.TiledPaneLayout{{}}, tmpl.Children[idx:]...)...)
	}
	tmpl.ExternalChildrenIndex = nil
	return &tmpl
}
