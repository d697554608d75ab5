package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SplitDirection is the axis along which a pane splits its rectangle
// among its children.
type SplitDirection int

const (
	// SplitHorizontal stacks children top to bottom. This is the default.
	SplitHorizontal SplitDirection = iota
	// SplitVertical arranges children left to right.
	SplitVertical
)

// ParseSplitDirection parses the textual form used by the layout
// language. Only the exact strings "horizontal" and "vertical" are
// accepted.
func ParseSplitDirection(s string) (SplitDirection, error) {
	switch s {
	case "horizontal":
		return SplitHorizontal, nil
	case "vertical":
		return SplitVertical, nil
	}
	return SplitHorizontal, fmt.Errorf("invalid split direction: %q", s)
}

// String returns the textual form of the direction.
func (d SplitDirection) String() string {
	if d == SplitVertical {
		return "vertical"
	}
	return "horizontal"
}

// PercentOrFixed is a geometry value: either a percentage of the
// available space (0-100) or a fixed cell count. It backs split sizes
// as well as floating pane coordinates and dimensions.
type PercentOrFixed struct {
	Percent bool
	Value   int
}

// Percent constructs a percentage value.
func Percent(n int) PercentOrFixed { return PercentOrFixed{Percent: true, Value: n} }

// Fixed constructs a fixed cell count.
func Fixed(n int) PercentOrFixed { return PercentOrFixed{Value: n} }

// IsZero reports whether the value is zero in either representation.
func (p PercentOrFixed) IsZero() bool { return p.Value == 0 }

// String renders the value in its textual layout-language form.
func (p PercentOrFixed) String() string {
	if p.Percent {
		return fmt.Sprintf("%d%%", p.Value)
	}
	return strconv.Itoa(p.Value)
}

// ParsePercentOrFixed parses the quoted textual form: "N%" with N in
// 0-100 for a percentage, or a bare non-negative integer for a fixed
// count. Range and zero policy beyond 0-100 are the caller's concern.
func ParsePercentOrFixed(s string) (PercentOrFixed, error) {
	if rest, ok := strings.CutSuffix(s, "%"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return PercentOrFixed{}, fmt.Errorf("invalid percent value: %q", s)
		}
		if n < 0 || n > 100 {
			return PercentOrFixed{}, errors.New("percent value must be between 0 and 100")
		}
		return Percent(n), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return PercentOrFixed{}, fmt.Errorf("invalid fixed value: %q", s)
	}
	if n < 0 {
		return PercentOrFixed{}, fmt.Errorf("fixed value must not be negative: %q", s)
	}
	return Fixed(n), nil
}
