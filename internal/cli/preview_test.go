package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/panemux/pkg/layout"
	"github.com/matzehuels/panemux/pkg/layout/parser"
)

func resolveForTest(t *testing.T, src string) *layout.Layout {
	t.Helper()
	l, err := parser.Parse(src, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return l
}

func TestNewPreviewModel(t *testing.T) {
	t.Run("implicit tab", func(t *testing.T) {
		l := resolveForTest(t, "layout { pane; pane }")
		m := newPreviewModel(l, "min.kdl")
		if len(m.tabs) != 1 {
			t.Fatalf("tabs = %d, want 1", len(m.tabs))
		}
		if m.tabs[0].name != "Tab #1" {
			t.Errorf("name = %q", m.tabs[0].name)
		}
	})

	t.Run("focused tab selected", func(t *testing.T) {
		l := resolveForTest(t, `layout {
    tab name="one" { pane; }
    tab name="two" focus=true { pane; }
}`)
		m := newPreviewModel(l, "dev.kdl")
		if len(m.tabs) != 2 {
			t.Fatalf("tabs = %d, want 2", len(m.tabs))
		}
		if m.cursor != 1 {
			t.Errorf("cursor = %d, want 1", m.cursor)
		}
		if !m.tabs[1].focused {
			t.Error("second tab should be marked focused")
		}
	})

	t.Run("swap alternates flattened in order", func(t *testing.T) {
		l := resolveForTest(t, `layout {
    pane
    swap_tiled_layout name="alt" {
        tab max_panes=3 { pane; pane; }
        tab { pane; }
    }
}`)
		m := newPreviewModel(l, "dev.kdl")
		if len(m.swaps) != 2 {
			t.Fatalf("swaps = %d, want 2", len(m.swaps))
		}
		if m.swaps[0].label != "alt (no_constraint)" {
			t.Errorf("swaps[0] = %q", m.swaps[0].label)
		}
		if m.swaps[1].label != "alt (max_panes=3)" {
			t.Errorf("swaps[1] = %q", m.swaps[1].label)
		}
	})
}

func TestPreviewModelKeys(t *testing.T) {
	l := resolveForTest(t, `layout {
    tab name="one" { pane; }
    tab name="two" { pane; }
    swap_tiled_layout {
        tab { pane; pane; }
    }
}`)
	m := newPreviewModel(l, "dev.kdl")

	press := func(m previewModel, key string) previewModel {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		return next.(previewModel)
	}

	m = press(m, "l")
	if m.cursor != 1 {
		t.Errorf("cursor after l = %d, want 1", m.cursor)
	}
	m = press(m, "l")
	if m.cursor != 1 {
		t.Errorf("cursor should clamp at last tab, got %d", m.cursor)
	}
	m = press(m, "h")
	if m.cursor != 0 {
		t.Errorf("cursor after h = %d, want 0", m.cursor)
	}

	m = press(m, "s")
	if m.swapCursor != 0 {
		t.Errorf("swapCursor after s = %d, want 0", m.swapCursor)
	}
	m = press(m, "s")
	if m.swapCursor != -1 {
		t.Errorf("swapCursor should wrap back to -1, got %d", m.swapCursor)
	}
}
