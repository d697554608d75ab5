package parser

import (
	"strings"
	"time"
	"unicode"

	"github.com/matzehuels/panemux/pkg/errors"
	"github.com/matzehuels/panemux/pkg/kdl"
	"github.com/matzehuels/panemux/pkg/layout"
	"github.com/matzehuels/panemux/pkg/observability"
)

// reservedWords are node names with built-in meaning. They can never be
// used as template names.
var reservedWords = map[string]struct{}{
	"pane":                 {},
	"layout":               {},
	"pane_template":        {},
	"tab_template":         {},
	"default_tab_template": {},
	"command":              {},
	"edit":                 {},
	"plugin":               {},
	"children":             {},
	"tab":                  {},
	"args":                 {},
	"close_on_exit":        {},
	"start_suspended":      {},
	"borderless":           {},
	"focus":                {},
	"name":                 {},
	"size":                 {},
	"cwd":                  {},
	"split_direction":      {},
	"swap_tiled_layout":    {},
	"swap_floating_layout": {},
}

func isReservedWord(word string) bool {
	_, ok := reservedWords[word]
	return ok
}

func isValidPaneProperty(name string) bool {
	switch name {
	case "borderless", "focus", "name", "size", "plugin", "command", "edit",
		"cwd", "args", "close_on_exit", "start_suspended", "split_direction",
		"pane", "children":
		return true
	}
	return false
}

func isValidFloatingPaneProperty(name string) bool {
	switch name {
	case "borderless", "focus", "name", "plugin", "command", "edit",
		"cwd", "args", "close_on_exit", "start_suspended",
		"x", "y", "width", "height":
		return true
	}
	return false
}

func isValidTabProperty(name string) bool {
	switch name {
	case "focus", "name", "split_direction", "cwd", "floating_panes",
		"children", "max_panes", "min_panes":
		return true
	}
	return false
}

// paneTemplate is a registered pane template together with its defining
// node, which later consumers need for children-splice handling and
// error positions.
type paneTemplate struct {
	shape paneShape
	node  *kdl.Node
}

// tabTemplate is a registered tab template: the tiled skeleton, its
// floating panes, and the defining node.
type tabTemplate struct {
	tiled    layout.TiledPaneLayout
	floating []layout.FloatingPaneLayout
	node     *kdl.Node
}

// Parser resolves one layout document. All registries are scoped to a
// single Parse call; construct a fresh Parser per document.
type Parser struct {
	src       string
	globalCwd string

	paneTemplates      map[string]paneTemplate
	tabTemplates       map[string]tabTemplate
	defaultTabTemplate *tabTemplate
}

// New constructs a parser for one document. globalCwd, when non-empty,
// overrides the layout's own top-level cwd and prefixes every resolved
// pane's working directory.
func New(src string, globalCwd string) *Parser {
	return &Parser{
		src:           src,
		globalCwd:     globalCwd,
		paneTemplates: make(map[string]paneTemplate),
		tabTemplates:  make(map[string]tabTemplate),
	}
}

// Parse is a convenience wrapper: construct a parser and resolve.
func Parse(src string, globalCwd string) (*layout.Layout, error) {
	return New(src, globalCwd).Parse()
}

// Parse resolves the document into a complete layout, or fails with the
// first positioned error encountered.
func (p *Parser) Parse() (out *layout.Layout, err error) {
	start := time.Now()
	defer func() {
		tabs := 0
		if out != nil {
			tabs = len(out.Tabs)
		}
		observability.Resolver().OnResolveComplete(tabs, time.Since(start), err)
	}()

	doc, err := kdl.Parse(p.src)
	if err != nil {
		return nil, err
	}
	var layoutNode *kdl.Node
	layoutCount := 0
	for _, n := range doc.Nodes {
		if n.Name == "layout" {
			if layoutNode == nil {
				layoutNode = n
			}
			layoutCount++
		}
	}
	if layoutNode == nil {
		return nil, errors.New(errors.ErrCodeStructure, "No layout found").
			At(doc.Span.Offset, doc.Span.Len)
	}
	if layoutCount > 1 {
		return nil, errors.New(errors.ErrCodeStructure, "Only one layout node per file allowed").
			At(doc.Span.Offset, doc.Span.Len)
	}
	observability.Resolver().OnResolveStart(len(layoutNode.Children))

	var (
		tabs          []parsedTab
		panes         []layout.TiledPaneLayout
		floatingPanes []layout.FloatingPaneLayout
		swapTiled     []layout.SwapTiledLayout
		swapFloating  []layout.SwapFloatingLayout
	)
	if layoutNode.HasBlock {
		if err := p.populateGlobalCwd(layoutNode); err != nil {
			return nil, err
		}
		if err := p.populatePaneTemplates(layoutNode.Children, doc); err != nil {
			return nil, err
		}
		if err := p.populateTabTemplates(layoutNode.Children); err != nil {
			return nil, err
		}
		if err := p.populateSwapTiledLayouts(layoutNode.Children, &swapTiled); err != nil {
			return nil, err
		}
		if err := p.populateSwapFloatingLayouts(layoutNode.Children, &swapFloating); err != nil {
			return nil, err
		}
		for _, child := range layoutNode.Children {
			if err := p.populateLayoutChild(child, &tabs, &panes, &floatingPanes); err != nil {
				return nil, err
			}
		}
	}

	switch {
	case len(tabs) > 0:
		return p.layoutWithTabs(doc, tabs, swapTiled, swapFloating)
	case len(panes) > 0:
		return p.layoutWithOneTab(panes, floatingPanes, swapTiled, swapFloating), nil
	}
	return p.layoutWithOnePane(floatingPanes, swapTiled, swapFloating), nil
}

// parsedTab is a tab mid-assembly, before focus bookkeeping.
type parsedTab struct {
	focused  bool
	name     string
	tiled    layout.TiledPaneLayout
	floating []layout.FloatingPaneLayout
}

// populateGlobalCwd reads the layout node's own cwd, unless one was
// supplied externally.
func (p *Parser) populateGlobalCwd(layoutNode *kdl.Node) error {
	if p.globalCwd != "" {
		return nil
	}
	cwd, ok, err := stringFieldStrict(layoutNode, "cwd")
	if err != nil {
		return err
	}
	if ok {
		p.globalCwd = cwd
	}
	return nil
}

// populateLayoutChild classifies one top-level child of the layout node
// and routes it to the appropriate collection.
func (p *Parser) populateLayoutChild(child *kdl.Node, tabs *[]parsedTab, panes *[]layout.TiledPaneLayout, floatingPanes *[]layout.FloatingPaneLayout) error {
	name := child.Name
	if (name == "pane" || name == "floating_panes") && len(*tabs) > 0 {
		return nodeErr(errors.ErrCodeStructure, child, "Cannot have both tabs and panes in the same node")
	}
	switch {
	case name == "pane":
		pane, err := p.parsePaneNode(child)
		if err != nil {
			return err
		}
		pane.AddCwd(p.globalCwd)
		*panes = append(*panes, pane)
	case name == "floating_panes":
		return p.populateFloatingPaneChildren(child, floatingPanes)
	case name == "tab":
		if len(*panes) > 0 || len(*floatingPanes) > 0 {
			return nodeErr(errors.ErrCodeStructure, child, "Cannot have both tabs and panes in the same node")
		}
		var tab parsedTab
		var err error
		if p.defaultTabTemplate != nil {
			tab, err = p.parseTabNodeWithTemplate(child, p.defaultTabTemplate.tiled.DeepCopy(),
				copyFloating(p.defaultTabTemplate.floating), false, p.defaultTabTemplate.node)
		} else {
			tab, err = p.parseTabNode(child)
		}
		if err != nil {
			return err
		}
		*tabs = append(*tabs, tab)
	default:
		if tt, ok := p.tabTemplates[name]; ok {
			if len(*panes) > 0 {
				return nodeErr(errors.ErrCodeStructure, child, "Cannot have both tabs and panes in the same node")
			}
			tab, err := p.parseTabNodeWithTemplate(child, tt.tiled.DeepCopy(), copyFloating(tt.floating), false, tt.node)
			if err != nil {
				return err
			}
			*tabs = append(*tabs, tab)
			return nil
		}
		if pt, ok := p.paneTemplates[name]; ok {
			if len(*tabs) > 0 {
				return nodeErr(errors.ErrCodeStructure, child, "Cannot have both tabs and panes in the same node")
			}
			pane, err := p.parsePaneNodeWithTemplate(child, pt.shape, false, pt.node)
			if err != nil {
				return err
			}
			pane.AddCwd(p.cwdPrefix(""))
			*panes = append(*panes, pane)
			return nil
		}
		if !isReservedWord(name) {
			return nodeErr(errors.ErrCodeStructure, child, "Unknown layout node: '%s'", name)
		}
	}
	return nil
}

func (p *Parser) layoutWithTabs(doc *kdl.Document, tabs []parsedTab, swapTiled []layout.SwapTiledLayout, swapFloating []layout.SwapFloatingLayout) (*layout.Layout, error) {
	var focusedTabIndex *int
	for i := range tabs {
		if !tabs[i].focused {
			continue
		}
		if focusedTabIndex != nil {
			return nil, errors.New(errors.ErrCodeStructure, "Only one tab can be focused").
				At(doc.Span.Offset, doc.Span.Len)
		}
		idx := i
		focusedTabIndex = &idx
	}
	template := p.defaultTemplate()
	if template == nil {
		template = &layout.TiledPaneLayout{}
	}
	out := &layout.Layout{
		Template:            template,
		FocusedTabIndex:     focusedTabIndex,
		SwapTiledLayouts:    swapTiled,
		SwapFloatingLayouts: swapFloating,
	}
	for _, t := range tabs {
		out.Tabs = append(out.Tabs, layout.Tab{Name: t.name, Tiled: t.tiled, Floating: t.floating})
	}
	return out, nil
}

func (p *Parser) layoutWithOneTab(panes []layout.TiledPaneLayout, floatingPanes []layout.FloatingPaneLayout, swapTiled []layout.SwapTiledLayout, swapFloating []layout.SwapFloatingLayout) *layout.Layout {
	mainTab := layout.TiledPaneLayout{Children: panes}
	template := p.defaultTemplate()
	var tabs []layout.Tab
	if template != nil {
		// the explicit panes become the first tab and the default
		// template stays the ad-hoc tab shape
		tabs = []layout.Tab{{Tiled: mainTab.DeepCopy(), Floating: copyFloating(floatingPanes)}}
	} else {
		t := mainTab
		template = &t
	}
	return &layout.Layout{
		Tabs:                tabs,
		Template:            template,
		FloatingTemplate:    floatingPanes,
		SwapTiledLayouts:    swapTiled,
		SwapFloatingLayouts: swapFloating,
	}
}

func (p *Parser) layoutWithOnePane(floatingPanes []layout.FloatingPaneLayout, swapTiled []layout.SwapTiledLayout, swapFloating []layout.SwapFloatingLayout) *layout.Layout {
	template := p.defaultTemplate()
	if template == nil {
		template = &layout.TiledPaneLayout{}
	}
	return &layout.Layout{
		Template:            template,
		FloatingTemplate:    floatingPanes,
		SwapTiledLayouts:    swapTiled,
		SwapFloatingLayouts: swapFloating,
	}
}

// assertLegalNodeName rejects names that clash with built-in node names
// or contain whitespace.
func (p *Parser) assertLegalNodeName(name string, n *kdl.Node) error {
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return nodeErr(errors.ErrCodeInvalidName, n, "Node names (%s) cannot contain whitespace.", name)
	}
	if isReservedWord(name) {
		return nodeErr(errors.ErrCodeInvalidName, n, "Node name '%s' is a reserved word.", name)
	}
	return nil
}

// assertLegalTemplateName applies the extra restrictions on template
// names beyond legal node names.
func (p *Parser) assertLegalTemplateName(name string, n *kdl.Node) error {
	if name == "" {
		return nodeErr(errors.ErrCodeInvalidName, n, "Template names cannot be empty")
	}
	if strings.ContainsAny(name, "()") {
		return nodeErr(errors.ErrCodeInvalidName, n, "Template names cannot contain parantheses")
	}
	if r := []rune(name)[0]; unicode.IsDigit(r) {
		return nodeErr(errors.ErrCodeInvalidName, n, "Template names cannot start with numbers")
	}
	return nil
}

func copyFloating(src []layout.FloatingPaneLayout) []layout.FloatingPaneLayout {
	if src == nil {
		return nil
	}
	out := make([]layout.FloatingPaneLayout, len(src))
	for i := range src {
		out[i] = src[i].DeepCopy()
	}
	return out
}
