package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calque-dev/calque/pkg/types"
)

// detailsPane shows the fields and source excerpt of the selected
// section.
type detailsPane struct {
	data    *exploreData
	row     *sectionRow
	width   int
	height  int
	offset  int // scroll offset for content
	focused bool
}

func newDetailsPane(data *exploreData) detailsPane {
	return detailsPane{data: data}
}

func (dp *detailsPane) setRow(r *sectionRow) {
	dp.row = r
	dp.offset = 0
}

func (dp detailsPane) Update(msg tea.Msg) (detailsPane, tea.Cmd) {
	if !dp.focused {
		return dp, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if dp.offset > 0 {
				dp.offset--
			}
		case keyMatches(msg, defaultKeys.Down):
			dp.offset++
		case keyMatches(msg, defaultKeys.Home):
			dp.offset = 0
		case keyMatches(msg, defaultKeys.PageDown):
			dp.offset += dp.visibleRows()
		case keyMatches(msg, defaultKeys.PageUp):
			dp.offset = max(0, dp.offset-dp.visibleRows())
		}
	}

	return dp, nil
}

func (dp detailsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}

	contentWidth := dp.width - 4

	lines := dp.contentLines(contentWidth)

	// Apply scroll offset
	if dp.offset >= len(lines) {
		dp.offset = max(0, len(lines)-1)
	}
	end := min(dp.offset+dp.visibleRows(), len(lines))
	visible := lines[dp.offset:end]

	title := titleStyle.Render(" Details ")

	borderStyle := inactiveBorderStyle
	if dp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(dp.width - 2).
		Height(dp.height - 3).
		Render(strings.Join(visible, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

// contentLines renders the detail fields for the selected row.
func (dp detailsPane) contentLines(maxWidth int) []string {
	var lines []string

	if dp.row == nil {
		return []string{"  No section selected"}
	}
	r := dp.row

	field := func(label, value string) string {
		return fmt.Sprintf("  %s %s",
			fieldLabelStyle.Render(label),
			fieldValueStyle.Render(value))
	}

	lines = append(lines, fmt.Sprintf("  %s %s",
		fieldLabelStyle.Render("Kind:"), renderKind(r.kind)))
	lines = append(lines, field("Name:", r.name))
	lines = append(lines, field("Lines:", fmt.Sprintf("%s to %s", r.span.Start, r.span.End)))
	lines = append(lines, field("Chars:", formatCharSpan(r.chars)))

	if r.container {
		lines = append(lines, field("Header:", formatCharSpan(r.header)))
		lines = append(lines, field("Footer:", formatCharSpan(r.footer)))
		lines = append(lines, field("Children:", fmt.Sprintf("%d", r.children)))
	}

	// Source excerpt
	src := dp.data.slice(r)
	if src != "" {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("  %s", fieldLabelStyle.Render("Source:")))
		excerptWidth := maxWidth - 6
		for i, line := range strings.Split(strings.TrimRight(src, "\n"), "\n") {
			style := sourceLineStyle
			if i == 0 && r.container {
				style = sourceContextStyle
			}
			lines = append(lines, "    "+style.Render(truncateString(line, excerptWidth)))
		}
	}

	return lines
}

// formatCharSpan renders an inclusive byte range, or "none" for the
// empty sentinel.
func formatCharSpan(c types.CharSpan) string {
	if c.IsEmpty() {
		return "none"
	}
	return fmt.Sprintf("%d..%d (%d bytes)", c.Start, c.End, c.Len())
}

func (dp detailsPane) visibleRows() int {
	return max(1, dp.height-4)
}

func (dp *detailsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}
