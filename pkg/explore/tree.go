package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// treePane is the navigable outline tree.
type treePane struct {
	rows      []*sectionRow
	collapsed map[int]bool
	visible   []int // row indices whose ancestors are all expanded
	cursor    int   // index into visible
	offset    int
	width     int
	height    int
	focused   bool

	// Column widths
	colName  int
	colKind  int
	colLines int
	colChars int
}

func newTreePane(rows []*sectionRow) treePane {
	tp := treePane{
		rows:      rows,
		collapsed: make(map[int]bool),
	}
	tp.rebuild()
	return tp
}

// rebuild recomputes the visible list after expand state changes.
func (tp *treePane) rebuild() {
	tp.visible = tp.visible[:0]
	for i, r := range tp.rows {
		if tp.rowVisible(r) {
			tp.visible = append(tp.visible, i)
		}
	}
	if tp.cursor >= len(tp.visible) {
		tp.cursor = max(0, len(tp.visible)-1)
	}
	tp.ensureVisible()
}

func (tp *treePane) rowVisible(r *sectionRow) bool {
	for p := r.parent; p >= 0; p = tp.rows[p].parent {
		if tp.collapsed[p] {
			return false
		}
	}
	return true
}

// selectedIndex returns the row index under the cursor, or -1.
func (tp treePane) selectedIndex() int {
	if tp.cursor < 0 || tp.cursor >= len(tp.visible) {
		return -1
	}
	return tp.visible[tp.cursor]
}

func (tp treePane) selectedRow() *sectionRow {
	idx := tp.selectedIndex()
	if idx < 0 {
		return nil
	}
	return tp.rows[idx]
}

func (tp treePane) Update(msg tea.Msg) (treePane, tea.Cmd) {
	if !tp.focused {
		return tp, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if tp.cursor > 0 {
				tp.cursor--
				tp.ensureVisible()
			}
		case keyMatches(msg, defaultKeys.Down):
			if tp.cursor < len(tp.visible)-1 {
				tp.cursor++
				tp.ensureVisible()
			}
		case keyMatches(msg, defaultKeys.Home):
			tp.cursor = 0
			tp.offset = 0
		case keyMatches(msg, defaultKeys.End):
			tp.cursor = max(0, len(tp.visible)-1)
			tp.ensureVisible()
		case keyMatches(msg, defaultKeys.PageDown):
			tp.cursor = min(tp.cursor+tp.visibleRows(), len(tp.visible)-1)
			tp.ensureVisible()
		case keyMatches(msg, defaultKeys.PageUp):
			tp.cursor = max(tp.cursor-tp.visibleRows(), 0)
			tp.ensureVisible()
		case keyMatches(msg, defaultKeys.Left):
			tp.collapseCurrent()
		case keyMatches(msg, defaultKeys.Right):
			tp.expandCurrent()
		case keyMatches(msg, defaultKeys.ToggleExpand):
			tp.toggleCurrent()
		case keyMatches(msg, defaultKeys.ExpandAll):
			tp.collapsed = make(map[int]bool)
			tp.rebuild()
		case keyMatches(msg, defaultKeys.CollapseAll):
			for i, r := range tp.rows {
				if r.container && r.children > 0 && r.parent >= 0 {
					tp.collapsed[i] = true
				}
			}
			tp.rebuild()
		}
	}

	return tp, nil
}

// collapseCurrent folds the selected container, or jumps to the parent
// when the selection is a leaf or already folded.
func (tp *treePane) collapseCurrent() {
	idx := tp.selectedIndex()
	if idx < 0 {
		return
	}
	r := tp.rows[idx]
	if r.container && r.children > 0 && !tp.collapsed[idx] {
		tp.collapsed[idx] = true
		tp.rebuild()
		return
	}
	if r.parent >= 0 {
		tp.moveTo(r.parent)
	}
}

// expandCurrent unfolds the selected container, or steps onto its first
// child when it is already unfolded.
func (tp *treePane) expandCurrent() {
	idx := tp.selectedIndex()
	if idx < 0 {
		return
	}
	r := tp.rows[idx]
	if !r.container || r.children == 0 {
		return
	}
	if tp.collapsed[idx] {
		delete(tp.collapsed, idx)
		tp.rebuild()
		return
	}
	tp.moveTo(idx + 1)
}

func (tp *treePane) toggleCurrent() {
	idx := tp.selectedIndex()
	if idx < 0 {
		return
	}
	r := tp.rows[idx]
	if !r.container || r.children == 0 {
		return
	}
	if tp.collapsed[idx] {
		delete(tp.collapsed, idx)
	} else {
		tp.collapsed[idx] = true
	}
	tp.rebuild()
}

// moveTo places the cursor on the given row index if it is visible.
func (tp *treePane) moveTo(idx int) {
	for vi, ri := range tp.visible {
		if ri == idx {
			tp.cursor = vi
			tp.ensureVisible()
			return
		}
	}
}

func (tp treePane) View() string {
	if tp.width <= 0 || tp.height <= 0 {
		return ""
	}

	contentWidth := tp.width - 4 // borders
	tp.colKind = 10
	tp.colLines = 14
	tp.colChars = 14
	tp.colName = contentWidth - tp.colKind - tp.colLines - tp.colChars - 4 // separators
	if tp.colName < 12 {
		tp.colName = 12
	}

	var b strings.Builder

	header := fmt.Sprintf(" %-*s %-*s %-*s %-*s",
		tp.colName, "Section",
		tp.colKind, "Kind",
		tp.colLines, "Lines",
		tp.colChars, "Chars",
	)
	b.WriteString(headerRowStyle.Width(contentWidth).Render(truncateString(header, contentWidth)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", contentWidth))
	b.WriteString("\n")

	visibleEnd := min(tp.offset+tp.visibleRows(), len(tp.visible))
	for i := tp.offset; i < visibleEnd; i++ {
		idx := tp.visible[i]
		r := tp.rows[idx]
		isCurrent := i == tp.cursor

		marker := "  "
		if r.container && r.children > 0 {
			if tp.collapsed[idx] {
				marker = "▸ "
			} else {
				marker = "▾ "
			}
		}
		label := strings.Repeat("  ", r.depth) + marker + r.name

		linesStr := fmt.Sprintf("%s..%s", r.span.Start, r.span.End)
		charsStr := ""
		if !r.chars.IsEmpty() {
			charsStr = fmt.Sprintf("%d..%d", r.chars.Start, r.chars.End)
		}

		line := fmt.Sprintf(" %-*s %-*s %-*s %-*s",
			tp.colName, truncateString(label, tp.colName),
			tp.colKind, renderKind(r.kind),
			tp.colLines, linesStr,
			tp.colChars, charsStr,
		)

		if isCurrent && tp.focused {
			line = selectedRowStyle.Width(contentWidth).Render(stripAnsi(line))
		}

		b.WriteString(padRight(line, contentWidth))
		if i < visibleEnd-1 {
			b.WriteString("\n")
		}
	}

	// Fill empty rows
	for i := visibleEnd - tp.offset; i < tp.visibleRows(); i++ {
		b.WriteString(strings.Repeat(" ", contentWidth))
		if i < tp.visibleRows()-1 {
			b.WriteString("\n")
		}
	}

	title := titleStyle.Render(fmt.Sprintf(" Outline (%d/%d) ", len(tp.visible), len(tp.rows)))

	borderStyle := inactiveBorderStyle
	if tp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(tp.width - 2).
		Height(tp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func (tp treePane) visibleRows() int {
	return max(1, tp.height-6) // title + border + header + separator
}

func (tp *treePane) ensureVisible() {
	if tp.cursor < tp.offset {
		tp.offset = tp.cursor
	}
	if tp.cursor >= tp.offset+tp.visibleRows() {
		tp.offset = tp.cursor - tp.visibleRows() + 1
	}
}

func (tp *treePane) setSize(w, h int) {
	tp.width = w
	tp.height = h
}
