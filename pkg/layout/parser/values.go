package parser

import (
	"github.com/matzehuels/panemux/pkg/errors"
	"github.com/matzehuels/panemux/pkg/kdl"
	"github.com/matzehuels/panemux/pkg/layout"
)

// nodeErr builds a positioned error pointing at the whole node.
func nodeErr(code errors.Code, n *kdl.Node, format string, args ...any) *errors.Error {
	return errors.New(code, format, args...).At(n.Span.Offset, n.Span.Len)
}

// fieldErr builds a positioned error pointing at whatever carries the
// named field on the node, falling back to the node itself.
func fieldErr(code errors.Code, n *kdl.Node, name string, format string, args ...any) *errors.Error {
	if span, ok := n.FieldSpan(name); ok {
		return errors.New(code, format, args...).At(span.Offset, span.Len)
	}
	return nodeErr(code, n, format, args...)
}

// stringField reads a string-typed field without reporting type
// mismatches. Use stringFieldStrict where a wrong type should fail.
func stringField(n *kdl.Node, name string) (string, bool) {
	return n.GetString(name)
}

func intField(n *kdl.Node, name string) (int, bool) {
	return n.GetInt(name)
}

func boolField(n *kdl.Node, name string) (bool, bool) {
	return n.GetBool(name)
}

// stringFieldStrict reads a string-typed field, failing when the field
// carries a value of a different type.
func stringFieldStrict(n *kdl.Node, name string) (string, bool, error) {
	v := n.Field(name)
	if v == nil {
		return "", false, nil
	}
	if v.Kind != kdl.ValueString {
		return "", false, errors.New(errors.ErrCodeInvalidValue, "%s must be a string", name).
			At(v.Span.Offset, v.Span.Len)
	}
	return v.Str, true, nil
}

// boolFieldStrict reads a bool-typed field, failing when the field
// carries a value of a different type.
func boolFieldStrict(n *kdl.Node, name string) (bool, bool, error) {
	v := n.Field(name)
	if v == nil {
		return false, false, nil
	}
	if v.Kind != kdl.ValueBool {
		return false, false, errors.New(errors.ErrCodeInvalidValue, "%s must be true or false", name).
			At(v.Span.Offset, v.Span.Len)
	}
	return v.Bool, true, nil
}

// parseSplitSize reads the "size" field of a pane node. A quoted string
// is parsed as "N%" or a fixed count; a bare integer is a fixed count.
func (p *Parser) parseSplitSize(n *kdl.Node) (*layout.PercentOrFixed, error) {
	v := n.Field("size")
	if v == nil {
		if c := n.Child("size"); c != nil {
			return nil, nodeErr(errors.ErrCodeInvalidValue, c,
				"size cannot be bare, it should have a value (eg. 'size 1', or 'size \"50%%\"')")
		}
		return nil, nil
	}
	switch v.Kind {
	case kdl.ValueString:
		size, err := layout.ParsePercentOrFixed(v.Str)
		if err != nil {
			return nil, fieldErr(errors.ErrCodeInvalidValue, n, "size",
				"size should be a fixed number (eg. 1) or a quoted percent (eg. \"50%%\")")
		}
		return &size, nil
	case kdl.ValueInt:
		if v.Int <= 0 {
			return nil, fieldErr(errors.ErrCodeInvalidValue, n, "size", "size should be greater than 0")
		}
		size := layout.Fixed(v.Int)
		return &size, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidValue,
		"size should be a fixed number (eg. 1) or a quoted percent (eg. \"50%%\")").
		At(v.Span.Offset, v.Span.Len)
}

// parsePercentOrFixed reads a named geometry field (x, y, width,
// height). canBeZero distinguishes coordinates from dimensions.
func (p *Parser) parsePercentOrFixed(n *kdl.Node, name string, canBeZero bool) (*layout.PercentOrFixed, error) {
	v := n.Field(name)
	if v == nil {
		if c := n.Child(name); c != nil {
			return nil, nodeErr(errors.ErrCodeInvalidValue, c,
				"%s cannot be bare, it should have a value (eg. '%s 1', or '%s \"50%%\"')", name, name, name)
		}
		return nil, nil
	}
	switch v.Kind {
	case kdl.ValueString:
		size, err := layout.ParsePercentOrFixed(v.Str)
		if err != nil {
			return nil, fieldErr(errors.ErrCodeInvalidValue, n, name,
				"%s should be a fixed number (eg. 1) or a quoted percent (eg. \"50%%\")", name)
		}
		if !canBeZero && size.IsZero() {
			return nil, fieldErr(errors.ErrCodeInvalidValue, n, name, "%s should be greater than 0", name)
		}
		return &size, nil
	case kdl.ValueInt:
		if v.Int == 0 && !canBeZero {
			return nil, fieldErr(errors.ErrCodeInvalidValue, n, name, "%s should be greater than 0", name)
		}
		if v.Int < 0 {
			return nil, fieldErr(errors.ErrCodeInvalidValue, n, name,
				"%s should be a fixed number (eg. 1) or a quoted percent (eg. \"50%%\")", name)
		}
		size := layout.Fixed(v.Int)
		return &size, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidValue,
		"%s should be a fixed number (eg. 1) or a quoted percent (eg. \"50%%\")", name).
		At(v.Span.Offset, v.Span.Len)
}

// parseSplitDirection reads the "split_direction" field, defaulting to
// horizontal when absent.
func (p *Parser) parseSplitDirection(n *kdl.Node) (layout.SplitDirection, error) {
	raw, ok, err := stringFieldStrict(n, "split_direction")
	if err != nil {
		return layout.SplitHorizontal, err
	}
	if !ok {
		return layout.SplitHorizontal, nil
	}
	dir, err := layout.ParseSplitDirection(raw)
	if err != nil {
		return layout.SplitHorizontal, fieldErr(errors.ErrCodeInvalidValue, n, "split_direction",
			"split_direction should be either \"horizontal\" or \"vertical\" found: %s", raw)
	}
	return dir, nil
}

// parseArgs reads the "args" child node: one or more positional string
// arguments. Returns nil when no args child exists.
func (p *Parser) parseArgs(n *kdl.Node) ([]string, error) {
	c := n.Child("args")
	if c == nil {
		return nil, nil
	}
	if len(c.Entries) == 0 {
		return nil, nodeErr(errors.ErrCodeInvalidValue, c,
			"args cannot be empty and should contain one or more command arguments (eg. args \"-h\" \"-v\")")
	}
	args, ok := c.Strings()
	if !ok {
		return nil, nodeErr(errors.ErrCodeInvalidValue, c, "args must be strings")
	}
	return args, nil
}

// parseCwd reads the "cwd" field as a string path.
func (p *Parser) parseCwd(n *kdl.Node) (string, bool, error) {
	return stringFieldStrict(n, "cwd")
}

// cwdPrefix combines the global working directory with a tab-level one.
func (p *Parser) cwdPrefix(tabCwd string) string {
	return layout.JoinPath(p.globalCwd, tabCwd)
}

// assertValidPaneProperties rejects header entries that are not pane
// properties.
func (p *Parser) assertValidPaneProperties(n *kdl.Node) error {
	return assertValidEntries(n, isValidPaneProperty, "Unknown pane property")
}

func (p *Parser) assertValidFloatingPaneProperties(n *kdl.Node) error {
	return assertValidEntries(n, isValidFloatingPaneProperty, "Unknown floating pane property")
}

// assertValidNeutralPaneProperties is used for templates that have not
// yet committed to a tiled or floating shape: a property must be legal
// in both worlds.
func (p *Parser) assertValidNeutralPaneProperties(n *kdl.Node) error {
	both := func(name string) bool {
		return isValidPaneProperty(name) && isValidFloatingPaneProperty(name)
	}
	return assertValidEntries(n, both, "Unknown pane property")
}

func assertValidEntries(n *kdl.Node, valid func(string) bool, label string) error {
	for _, e := range n.Entries {
		name := e.Name
		if name == "" {
			if e.Val.Kind != kdl.ValueString {
				return errors.New(errors.ErrCodeInvalidProperty, "%s", label).
					At(e.Span.Offset, e.Span.Len)
			}
			name = e.Val.Str
		}
		if !valid(name) {
			return errors.New(errors.ErrCodeInvalidProperty, "%s: %s", label, name).
				At(e.Span.Offset, e.Span.Len)
		}
	}
	return nil
}

// assertValidTabProperties rejects header properties that are not tab
// properties. Positional arguments are not checked here.
func (p *Parser) assertValidTabProperties(n *kdl.Node) error {
	for _, name := range n.PropertyNames() {
		if !isValidTabProperty(name) {
			return nodeErr(errors.ErrCodeInvalidProperty, n, "Invalid tab property '%s'", name)
		}
	}
	return nil
}
