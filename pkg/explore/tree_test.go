package explore

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// testRows builds a small tree by hand: a file holding a module with a
// nested namespace, a sibling binding, and an empty trailing module.
func testRows() []*sectionRow {
	return []*sectionRow{
		{kind: "file", name: "nested.src", depth: 0, parent: -1, children: 2, container: true},
		{kind: "module", name: "Outer", depth: 1, parent: 0, children: 2, container: true},
		{kind: "namespace", name: "Inner", depth: 2, parent: 1, children: 1, container: true},
		{kind: "let", name: "deep", depth: 3, parent: 2},
		{kind: "let", name: "top", depth: 2, parent: 1},
		{kind: "module", name: "Empty", depth: 1, parent: 0, children: 0, container: true},
	}
}

func assertVisible(t *testing.T, tp treePane, want []int) {
	t.Helper()
	if len(tp.visible) != len(want) {
		t.Fatalf("expected visible rows %v, got %v", want, tp.visible)
	}
	for i := range want {
		if tp.visible[i] != want[i] {
			t.Fatalf("expected visible rows %v, got %v", want, tp.visible)
		}
	}
}

func TestTreeAllRowsVisibleInitially(t *testing.T) {
	tp := newTreePane(testRows())

	assertVisible(t, tp, []int{0, 1, 2, 3, 4, 5})
	if tp.selectedIndex() != 0 {
		t.Errorf("expected cursor on the root, got %d", tp.selectedIndex())
	}
}

func TestTreeCollapseHidesDescendants(t *testing.T) {
	tp := newTreePane(testRows())

	tp.moveTo(1)
	tp.collapseCurrent()

	assertVisible(t, tp, []int{0, 1, 5})
	if tp.selectedIndex() != 1 {
		t.Errorf("expected cursor to stay on the folded row, got %d", tp.selectedIndex())
	}

	// A second collapse on an already folded row jumps to the parent.
	tp.collapseCurrent()
	if tp.selectedIndex() != 0 {
		t.Errorf("expected cursor on the parent, got %d", tp.selectedIndex())
	}
}

func TestTreeCollapseOnLeafJumpsToParent(t *testing.T) {
	tp := newTreePane(testRows())

	tp.moveTo(3)
	tp.collapseCurrent()

	if tp.selectedIndex() != 2 {
		t.Errorf("expected cursor on the enclosing namespace, got %d", tp.selectedIndex())
	}
	assertVisible(t, tp, []int{0, 1, 2, 3, 4, 5})
}

func TestTreeExpandStepsToFirstChild(t *testing.T) {
	tp := newTreePane(testRows())

	tp.moveTo(1)
	tp.expandCurrent()
	if tp.selectedIndex() != 2 {
		t.Errorf("expected cursor on the first child, got %d", tp.selectedIndex())
	}

	// Leaves and empty containers ignore expand.
	tp.moveTo(3)
	tp.expandCurrent()
	if tp.selectedIndex() != 3 {
		t.Errorf("expected cursor to stay on the leaf, got %d", tp.selectedIndex())
	}
	tp.moveTo(5)
	tp.expandCurrent()
	if tp.selectedIndex() != 5 {
		t.Errorf("expected cursor to stay on the empty module, got %d", tp.selectedIndex())
	}
}

func TestTreeExpandUnfolds(t *testing.T) {
	tp := newTreePane(testRows())

	tp.moveTo(2)
	tp.toggleCurrent()
	assertVisible(t, tp, []int{0, 1, 2, 4, 5})

	tp.expandCurrent()
	assertVisible(t, tp, []int{0, 1, 2, 3, 4, 5})
	if tp.selectedIndex() != 2 {
		t.Errorf("expected cursor to stay put after unfolding, got %d", tp.selectedIndex())
	}
}

func TestTreeCollapseAllKeepsTopLevel(t *testing.T) {
	tp := newTreePane(testRows())
	tp.focused = true

	tp, _ = tp.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("C")})
	assertVisible(t, tp, []int{0, 1, 5})

	tp, _ = tp.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("E")})
	assertVisible(t, tp, []int{0, 1, 2, 3, 4, 5})
}

func TestTreeCursorNavigation(t *testing.T) {
	tp := newTreePane(testRows())
	tp.focused = true

	tp, _ = tp.Update(tea.KeyMsg{Type: tea.KeyDown})
	tp, _ = tp.Update(tea.KeyMsg{Type: tea.KeyDown})
	if tp.selectedIndex() != 2 {
		t.Errorf("expected cursor at row 2, got %d", tp.selectedIndex())
	}

	tp, _ = tp.Update(tea.KeyMsg{Type: tea.KeyUp})
	if tp.selectedIndex() != 1 {
		t.Errorf("expected cursor at row 1, got %d", tp.selectedIndex())
	}

	tp, _ = tp.Update(tea.KeyMsg{Type: tea.KeyEnd})
	if tp.selectedIndex() != 5 {
		t.Errorf("expected cursor at the last row, got %d", tp.selectedIndex())
	}

	tp, _ = tp.Update(tea.KeyMsg{Type: tea.KeyHome})
	if tp.selectedIndex() != 0 {
		t.Errorf("expected cursor back at the root, got %d", tp.selectedIndex())
	}
}

func TestTreeUnfocusedIgnoresKeys(t *testing.T) {
	tp := newTreePane(testRows())

	tp, _ = tp.Update(tea.KeyMsg{Type: tea.KeyDown})
	if tp.selectedIndex() != 0 {
		t.Errorf("expected unfocused pane to ignore keys, got cursor %d", tp.selectedIndex())
	}
}

func TestTreeScrollFollowsCursor(t *testing.T) {
	tp := newTreePane(testRows())
	tp.setSize(60, 8) // two visible rows

	tp.moveTo(5)
	if tp.offset != 4 {
		t.Errorf("expected offset 4 after moving to the bottom, got %d", tp.offset)
	}

	tp.moveTo(0)
	if tp.offset != 0 {
		t.Errorf("expected offset 0 after moving to the top, got %d", tp.offset)
	}
}

func TestTreeViewRenders(t *testing.T) {
	tp := newTreePane(testRows())
	tp.focused = true
	tp.setSize(80, 24)

	out := tp.View()
	if out == "" {
		t.Fatal("expected rendered output")
	}
	for _, want := range []string{"Outline (6/6)", "Outer", "Inner", "Section", "Kind"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
