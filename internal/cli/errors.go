package cli

import (
	"fmt"
	"strings"

	pkgerrors "github.com/matzehuels/panemux/pkg/errors"
)

// describeLayoutError turns a positioned layout error into a message
// with a line/column reference and a caret snippet of the offending
// source, so the user can find the problem without counting bytes.
func describeLayoutError(path, src string, err error) error {
	off, length, ok := pkgerrors.Position(err)
	if !ok {
		return fmt.Errorf("%s: %w", path, err)
	}
	line, col := lineCol(src, off)
	snippet := sourceLine(src, off)
	caret := strings.Repeat(" ", col-1) + strings.Repeat("^", max(length, 1))
	return fmt.Errorf("%s:%d:%d: %w\n  %s\n  %s", path, line, col, err, snippet, caret)
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(src string, off int) (line, col int) {
	if off > len(src) {
		off = len(src)
	}
	line, col = 1, 1
	for _, r := range src[:off] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// sourceLine returns the full source line containing the offset, with
// tabs expanded so the caret lines up.
func sourceLine(src string, off int) string {
	if off > len(src) {
		off = len(src)
	}
	start := strings.LastIndexByte(src[:off], '\n') + 1
	end := strings.IndexByte(src[off:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += off
	}
	return strings.ReplaceAll(src[start:end], "\t", " ")
}
