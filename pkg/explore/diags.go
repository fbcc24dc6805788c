package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calque-dev/calque/pkg/types"
)

// diagsPane lists the front-end diagnostics for the file.
type diagsPane struct {
	diags   []types.ParseError
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

func newDiagsPane(diags []types.ParseError) diagsPane {
	return diagsPane{diags: diags}
}

// selectedDiag returns the diagnostic under the cursor, or nil.
func (pp diagsPane) selectedDiag() *types.ParseError {
	if pp.cursor < 0 || pp.cursor >= len(pp.diags) {
		return nil
	}
	return &pp.diags[pp.cursor]
}

func (pp diagsPane) Update(msg tea.Msg) (diagsPane, tea.Cmd) {
	if !pp.focused {
		return pp, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if pp.cursor > 0 {
				pp.cursor--
				pp.ensureVisible()
			}
		case keyMatches(msg, defaultKeys.Down):
			if pp.cursor < len(pp.diags)-1 {
				pp.cursor++
				pp.ensureVisible()
			}
		case keyMatches(msg, defaultKeys.Home):
			pp.cursor = 0
			pp.offset = 0
		case keyMatches(msg, defaultKeys.End):
			pp.cursor = max(0, len(pp.diags)-1)
			pp.ensureVisible()
		case keyMatches(msg, defaultKeys.PageDown):
			pp.cursor = min(pp.cursor+pp.visibleRows(), len(pp.diags)-1)
			pp.ensureVisible()
		case keyMatches(msg, defaultKeys.PageUp):
			pp.cursor = max(pp.cursor-pp.visibleRows(), 0)
			pp.ensureVisible()
		}
	}

	return pp, nil
}

func (pp diagsPane) View() string {
	if pp.width <= 0 || pp.height <= 0 {
		return ""
	}

	contentWidth := pp.width - 4

	var b strings.Builder

	if len(pp.diags) == 0 {
		b.WriteString("  No parsing errors")
	} else {
		visibleEnd := min(pp.offset+pp.visibleRows(), len(pp.diags))
		for i := pp.offset; i < visibleEnd; i++ {
			d := pp.diags[i]
			isCurrent := i == pp.cursor

			line := fmt.Sprintf(" %s %s",
				diagPosStyle.Render(d.Pos.String()),
				diagMsgStyle.Render(truncateString(d.Message, contentWidth-10)))

			if isCurrent && pp.focused {
				line = selectedRowStyle.Width(contentWidth).Render(stripAnsi(line))
			}

			b.WriteString(padRight(line, contentWidth))
			if i < visibleEnd-1 {
				b.WriteString("\n")
			}
		}
	}

	title := titleStyle.Render(fmt.Sprintf(" Diagnostics (%d) ", len(pp.diags)))

	borderStyle := inactiveBorderStyle
	if pp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(pp.width - 2).
		Height(pp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func (pp diagsPane) visibleRows() int {
	return max(1, pp.height-4)
}

func (pp *diagsPane) ensureVisible() {
	if pp.cursor < pp.offset {
		pp.offset = pp.cursor
	}
	if pp.cursor >= pp.offset+pp.visibleRows() {
		pp.offset = pp.cursor - pp.visibleRows() + 1
	}
}

func (pp *diagsPane) setSize(w, h int) {
	pp.width = w
	pp.height = h
}

// Helper functions

func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, width int) string {
	visLen := lipgloss.Width(s)
	if visLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visLen)
}

// stripAnsi removes ANSI escape sequences for re-styling.
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
