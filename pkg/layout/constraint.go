package layout

import "fmt"

// ConstraintKind identifies the form of a swap-layout constraint.
type ConstraintKind int

const (
	// NoConstraint matches any pane count.
	NoConstraint ConstraintKind = iota
	// MinPanes matches when the pane count exceeds Panes.
	MinPanes
	// MaxPanes matches when the pane count is below Panes.
	MaxPanes
)

// LayoutConstraint gates a swap layout on the live pane count.
// Constraints order NoConstraint < MinPanes < MaxPanes, with ties broken
// by the pane count, so that a sorted set is tried most-general first.
type LayoutConstraint struct {
	Kind  ConstraintKind
	Panes int
}

func (c LayoutConstraint) String() string {
	switch c.Kind {
	case MinPanes:
		return fmt.Sprintf("min_panes=%d", c.Panes)
	case MaxPanes:
		return fmt.Sprintf("max_panes=%d", c.Panes)
	}
	return "no_constraint"
}

// Less reports whether c orders before other.
func (c LayoutConstraint) Less(other LayoutConstraint) bool {
	if c.Kind != other.Kind {
		return c.Kind < other.Kind
	}
	return c.Panes < other.Panes
}

// SwapTiledLayout is an ordered set of alternative tiled layouts keyed
// by constraint, with an optional name.
type SwapTiledLayout struct {
	Name    string
	Layouts ConstraintMap[TiledPaneLayout]
}

// SwapFloatingLayout is an ordered set of alternative floating layouts
// keyed by constraint, with an optional name.
type SwapFloatingLayout struct {
	Name    string
	Layouts ConstraintMap[[]FloatingPaneLayout]
}

// ConstraintMap is an association from constraints to layouts kept in
// constraint order. Setting an existing constraint replaces its layout
// in place.
type ConstraintMap[T any] struct {
	entries []constraintEntry[T]
}

type constraintEntry[T any] struct {
	Constraint LayoutConstraint
	Layout     T
}

// Set inserts or replaces the layout under the given constraint while
// keeping entries sorted.
func (m *ConstraintMap[T]) Set(c LayoutConstraint, layout T) {
	for i := range m.entries {
		if m.entries[i].Constraint == c {
			m.entries[i].Layout = layout
			return
		}
		if c.Less(m.entries[i].Constraint) {
			m.entries = append(m.entries, constraintEntry[T]{})
			copy(m.entries[i+1:], m.entries[i:])
			m.entries[i] = constraintEntry[T]{Constraint: c, Layout: layout}
			return
		}
	}
	m.entries = append(m.entries, constraintEntry[T]{Constraint: c, Layout: layout})
}

// Len returns the number of entries.
func (m *ConstraintMap[T]) Len() int { return len(m.entries) }

// At returns the i-th constraint and layout in order.
func (m *ConstraintMap[T]) At(i int) (LayoutConstraint, T) {
	e := m.entries[i]
	return e.Constraint, e.Layout
}

// Each calls fn for every entry in constraint order.
func (m *ConstraintMap[T]) Each(fn func(LayoutConstraint, T)) {
	for _, e := range m.entries {
		fn(e.Constraint, e.Layout)
	}
}
