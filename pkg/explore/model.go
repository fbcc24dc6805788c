// Package explore is the interactive outline browser: a Bubble Tea TUI
// over one outlined source file, with a collapsible section tree, a
// details pane, and the front-end diagnostics.
package explore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneDiags focusedPane = iota
	paneTree
	paneDetails
)

// overlay tracks which modal overlay is active.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlaySource
)

// pagerFinishedMsg is sent when an external pager process exits.
type pagerFinishedMsg struct{ err error }

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	data    *exploreData
	diags   diagsPane
	tree    treePane
	details detailsPane

	focus         focusedPane
	activeOverlay overlay
	showDiags     bool

	// Help state
	helpContent string
	helpOffset  int

	// Source viewer state
	sourceContent string
	sourceOffset  int

	width  int
	height int
}

// New creates a new Model by outlining the file at the given path.
func New(path string) (Model, error) {
	data, err := loadData(path)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		data:      data,
		diags:     newDiagsPane(data.diags),
		tree:      newTreePane(data.rows),
		details:   newDetailsPane(data),
		focus:     paneTree,
		showDiags: len(data.diags) > 0,
	}

	// Set initial focus
	m.tree.focused = true

	// Select the root row
	if r := m.tree.selectedRow(); r != nil {
		m.details.setRow(r)
	}

	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("calque explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pagerFinishedMsg:
		// Pager exited, TUI resumes automatically
		return m, nil

	case tea.MouseMsg:
		if m.activeOverlay != overlayNone {
			return m, nil
		}
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.handleMouseClick(msg.X, msg.Y)
		return m, nil

	case tea.KeyMsg:
		// Handle overlays first
		if m.activeOverlay != overlayNone {
			return m.updateOverlay(msg)
		}

		// Global keys (work regardless of focus)
		switch {
		case keyMatches(msg, defaultKeys.ForceQuit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.activeOverlay = overlayHelp
			m.helpOffset = 0
			m.helpContent = renderHelp()
			return m, nil
		case keyMatches(msg, defaultKeys.ToggleDiags):
			m.showDiags = !m.showDiags
			return m, nil
		case keyMatches(msg, defaultKeys.FocusDiags):
			m.setFocus(paneDiags)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusTree):
			m.setFocus(paneTree)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusDetails):
			m.setFocus(paneDetails)
			return m, nil
		case keyMatches(msg, defaultKeys.OpenSource):
			cmd := m.openSource()
			return m, cmd
		}

		// Delegate to focused pane
		switch m.focus {
		case paneDiags:
			var cmd tea.Cmd
			m.diags, cmd = m.diags.Update(msg)
			return m, cmd
		case paneTree:
			prevIdx := m.tree.selectedIndex()
			var cmd tea.Cmd
			m.tree, cmd = m.tree.Update(msg)
			if m.tree.selectedIndex() != prevIdx {
				m.details.setRow(m.tree.selectedRow())
			}
			return m, cmd
		case paneDetails:
			var cmd tea.Cmd
			m.details, cmd = m.details.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.activeOverlay {
	case overlayHelp:
		switch {
		case keyMatches(msg, defaultKeys.Quit),
			keyMatches(msg, defaultKeys.ForceQuit),
			keyMatches(msg, defaultKeys.ToggleHelp):
			m.activeOverlay = overlayNone
		case keyMatches(msg, defaultKeys.Down):
			m.helpOffset++
		case keyMatches(msg, defaultKeys.Up):
			if m.helpOffset > 0 {
				m.helpOffset--
			}
		case keyMatches(msg, defaultKeys.PageDown):
			m.helpOffset += m.height / 2
		case keyMatches(msg, defaultKeys.PageUp):
			m.helpOffset = max(0, m.helpOffset-m.height/2)
		}
	case overlaySource:
		switch {
		case keyMatches(msg, defaultKeys.Quit),
			keyMatches(msg, defaultKeys.ForceQuit),
			keyMatches(msg, defaultKeys.OpenSource):
			m.activeOverlay = overlayNone
		case keyMatches(msg, defaultKeys.Down):
			m.sourceOffset++
		case keyMatches(msg, defaultKeys.Up):
			if m.sourceOffset > 0 {
				m.sourceOffset--
			}
		case keyMatches(msg, defaultKeys.PageDown):
			m.sourceOffset += m.height / 2
		case keyMatches(msg, defaultKeys.PageUp):
			m.sourceOffset = max(0, m.sourceOffset-m.height/2)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Render overlays
	if m.activeOverlay != overlayNone {
		return m.renderOverlay()
	}

	// Status bar (bottom)
	statusBar := m.renderStatusBar()

	// Main layout
	contentHeight := m.height - 2 // status bar + padding

	var mainContent string
	if m.showDiags {
		diagsWidth := min(m.width*30/100, 50)
		dataWidth := m.width - diagsWidth

		treeHeight := contentHeight * 60 / 100
		detailsHeight := contentHeight - treeHeight

		m.diags.setSize(diagsWidth, contentHeight)
		m.tree.setSize(dataWidth, treeHeight)
		m.details.setSize(dataWidth, detailsHeight)

		diagsView := m.diags.View()
		treeView := m.tree.View()
		detailsView := m.details.View()

		dataColumn := lipgloss.JoinVertical(lipgloss.Left, treeView, detailsView)
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, diagsView, dataColumn)
	} else {
		dataWidth := m.width
		treeHeight := contentHeight * 60 / 100
		detailsHeight := contentHeight - treeHeight

		m.tree.setSize(dataWidth, treeHeight)
		m.details.setSize(dataWidth, detailsHeight)

		treeView := m.tree.View()
		detailsView := m.details.View()
		mainContent = lipgloss.JoinVertical(lipgloss.Left, treeView, detailsView)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m *Model) renderStatusBar() string {
	left := statusBarStyle.Render(fmt.Sprintf(" %s | %d sections | %d diagnostics",
		m.data.path, len(m.data.rows), len(m.data.diags)))

	right := fmt.Sprintf("%s:%s  %s:%s  %s:%s  %s:%s  %s:%s  %s:%s  %s:%s",
		helpKeyStyle.Render("j/k"), helpDescStyle.Render("nav"),
		helpKeyStyle.Render("h/l"), helpDescStyle.Render("fold"),
		helpKeyStyle.Render("t/d"), helpDescStyle.Render("focus"),
		helpKeyStyle.Render("E/C"), helpDescStyle.Render("all"),
		helpKeyStyle.Render("o"), helpDescStyle.Render("source"),
		helpKeyStyle.Render("F7"), helpDescStyle.Render("diags"),
		helpKeyStyle.Render("?"), helpDescStyle.Render("help"),
	)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderOverlay() string {
	overlayWidth := m.width * 80 / 100
	overlayHeight := m.height * 80 / 100

	var content string
	var title string

	switch m.activeOverlay {
	case overlayHelp:
		title = " Help (q to close) "
		content = m.renderHelpContent(overlayWidth-6, overlayHeight-4)
	case overlaySource:
		title = " Source (q to close) "
		content = m.renderSourceContent(overlayWidth-6, overlayHeight-4)
	}

	box := modalStyle.
		Width(overlayWidth - 4).
		Height(overlayHeight - 2).
		Render(content)

	titleRendered := titleStyle.Render(title)

	overlayView := lipgloss.JoinVertical(lipgloss.Left, titleRendered, box)

	// Center on screen
	hPad := (m.width - lipgloss.Width(overlayView)) / 2
	vPad := (m.height - lipgloss.Height(overlayView)) / 2

	return strings.Repeat("\n", max(0, vPad)) +
		lipgloss.NewStyle().PaddingLeft(max(0, hPad)).Render(overlayView)
}

func (m *Model) renderHelpContent(width, height int) string {
	lines := strings.Split(m.helpContent, "\n")
	if m.helpOffset >= len(lines) {
		m.helpOffset = max(0, len(lines)-1)
	}
	end := min(m.helpOffset+height, len(lines))
	visible := lines[m.helpOffset:end]
	return strings.Join(visible, "\n")
}

func (m *Model) renderSourceContent(width, height int) string {
	if m.sourceContent == "" {
		return "  No source available"
	}
	lines := strings.Split(m.sourceContent, "\n")
	if m.sourceOffset >= len(lines) {
		m.sourceOffset = max(0, len(lines)-1)
	}
	end := min(m.sourceOffset+height, len(lines))
	visible := lines[m.sourceOffset:end]
	return strings.Join(visible, "\n")
}

func (m *Model) setFocus(p focusedPane) {
	m.diags.focused = p == paneDiags
	m.tree.focused = p == paneTree
	m.details.focused = p == paneDetails
	m.focus = p
}

func (m *Model) handleMouseClick(x, y int) {
	contentHeight := m.height - 2
	treeHeight := contentHeight * 60 / 100

	diagsWidth := 0
	if m.showDiags {
		diagsWidth = min(m.width*30/100, 50)
	}

	switch {
	case x < diagsWidth && y < contentHeight:
		m.setFocus(paneDiags)
		row := y - 2 // title + border top
		if row >= 0 {
			idx := row + m.diags.offset
			if idx >= 0 && idx < len(m.diags.diags) {
				m.diags.cursor = idx
			}
		}
	case y < treeHeight:
		m.setFocus(paneTree)
		row := y - 4 // title + border top + header + separator
		if row >= 0 {
			idx := row + m.tree.offset
			if idx >= 0 && idx < len(m.tree.visible) {
				m.tree.cursor = idx
				m.details.setRow(m.tree.selectedRow())
			}
		}
	default:
		m.setFocus(paneDetails)
	}
}

// openSource shows the selected section's text: in the external pager
// when the outlined file still exists on disk, in an overlay otherwise.
func (m *Model) openSource() tea.Cmd {
	r := m.tree.selectedRow()
	if r == nil {
		return nil
	}

	if _, err := os.Stat(m.data.path); err == nil {
		return m.openInPager(m.data.path, r.span.Start.Line)
	}

	m.sourceContent = m.data.slice(r)
	m.sourceOffset = 0
	m.activeOverlay = overlaySource
	return nil
}

func (m *Model) openInPager(filePath string, line int) tea.Cmd {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	var args []string
	if line > 0 && pager == "less" {
		args = append(args, fmt.Sprintf("+%d", line))
	}
	args = append(args, filePath)

	c := exec.Command(pager, args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return pagerFinishedMsg{err: err}
	})
}

// renderHelp generates help text.
func renderHelp() string {
	return `Calque Explore - Interactive Outline Browser

NAVIGATION
  j/k or Up/Down    Move cursor up/down
  h/l or Left/Right Collapse/expand the selected section
  Ctrl+f/Ctrl+b     Page down/up
  g/G               Jump to top/bottom

FOCUS
  F1                Focus diagnostics pane
  t                 Focus outline tree
  d                 Focus details pane
  F7                Toggle diagnostics pane visibility

TREE
  x or Space        Toggle expansion of the selected section
  E                 Expand all sections
  C                 Collapse all sections

VIEWS
  o                 Open source (pager at the section's first line)
  ?                 Toggle this help screen

QUIT
  q                 Quit
  Ctrl+c            Force quit
`
}
