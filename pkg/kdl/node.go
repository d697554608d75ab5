package kdl

// Span locates a syntactic element in the source text by byte offset and
// length.
type Span struct {
	Offset int
	Len    int
}

// ValueKind distinguishes the scalar forms a value can take.
type ValueKind int

const (
	// ValueString is a quoted string.
	ValueString ValueKind = iota
	// ValueInt is an integer literal.
	ValueInt
	// ValueBool is a true/false literal.
	ValueBool
	// ValueNull is the null literal.
	ValueNull
)

// Value is a scalar attached to a node, either positionally or as the
// right-hand side of a key=value property.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int
	Bool bool
	Span Span
}

// Entry is one argument or property on a node's header line. Positional
// arguments have an empty Name.
type Entry struct {
	Name string
	Val  Value
	Span Span
}

// IsProperty reports whether the entry is a named key=value property
// rather than a positional argument.
func (e Entry) IsProperty() bool { return e.Name != "" }

// Node is one named node in the document tree. Entries and Children
// preserve declaration order. Span covers the whole node including its
// child block, which is what error diagnostics point at.
type Node struct {
	Name     string
	NameSpan Span
	Entries  []Entry
	Children []*Node
	HasBlock bool
	Span     Span
}

// Document is a parsed source file: an ordered sequence of top-level
// nodes plus the span of the whole text.
type Document struct {
	Nodes []*Node
	Span  Span
}

// Child returns the first child node with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Field returns the value attached to name: either a name=value property
// on the node's header, or the first positional argument of a same-named
// child node. Returns nil when neither form is present. A same-named bare
// child (no arguments) yields nil; use [Node.Child] to detect it.
func (n *Node) Field(name string) *Value {
	for i := range n.Entries {
		if n.Entries[i].Name == name {
			return &n.Entries[i].Val
		}
	}
	if c := n.Child(name); c != nil {
		for i := range c.Entries {
			if !c.Entries[i].IsProperty() {
				return &c.Entries[i].Val
			}
		}
	}
	return nil
}

// FieldSpan returns the span of whatever carries name on this node (the
// property entry or the same-named child), regardless of whether a usable
// value is attached. The second return reports presence.
func (n *Node) FieldSpan(name string) (Span, bool) {
	for _, e := range n.Entries {
		if e.Name == name {
			return e.Span, true
		}
	}
	if c := n.Child(name); c != nil {
		return c.Span, true
	}
	return Span{}, false
}

// GetString returns the string value of a field, if present and
// string-typed.
func (n *Node) GetString(name string) (string, bool) {
	if v := n.Field(name); v != nil && v.Kind == ValueString {
		return v.Str, true
	}
	return "", false
}

// GetInt returns the integer value of a field, if present and int-typed.
func (n *Node) GetInt(name string) (int, bool) {
	if v := n.Field(name); v != nil && v.Kind == ValueInt {
		return v.Int, true
	}
	return 0, false
}

// GetBool returns the boolean value of a field, if present and
// bool-typed.
func (n *Node) GetBool(name string) (bool, bool) {
	if v := n.Field(name); v != nil && v.Kind == ValueBool {
		return v.Bool, true
	}
	return false, false
}

// Strings returns the node's positional string arguments in order. The
// second return is false if any positional argument is not a string.
func (n *Node) Strings() ([]string, bool) {
	var out []string
	for _, e := range n.Entries {
		if e.IsProperty() {
			continue
		}
		if e.Val.Kind != ValueString {
			return nil, false
		}
		out = append(out, e.Val.Str)
	}
	return out, true
}

// PropertyNames returns the names of all key=value properties on the
// node's header, in declaration order.
func (n *Node) PropertyNames() []string {
	var names []string
	for _, e := range n.Entries {
		if e.IsProperty() {
			names = append(names, e.Name)
		}
	}
	return names
}
