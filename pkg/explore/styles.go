package explore

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorPrimary   = lipgloss.Color("#2F6FED") // blue
	colorModule    = lipgloss.Color("#11C3DB") // cyan
	colorNamespace = lipgloss.Color("#D4AF37") // gold
	colorLet       = lipgloss.Color("10")      // green
	colorError     = lipgloss.Color("9")       // red
	colorMuted     = lipgloss.Color("8")       // gray
	colorAccent    = lipgloss.Color("#11C3DB") // cyan
	colorHighlight = lipgloss.Color("15")      // white
)

// Pane border styles
var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted)
)

// Title style for pane headers
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Background(colorPrimary).
	Padding(0, 1)

// Table row styles
var (
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("17")).
				Foreground(colorHighlight)

	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)
)

// Section kind styles
var (
	moduleStyle = lipgloss.NewStyle().
			Foreground(colorModule).
			Bold(true)

	namespaceStyle = lipgloss.NewStyle().
			Foreground(colorNamespace).
			Bold(true)

	letStyle = lipgloss.NewStyle().
			Foreground(colorLet)

	fragmentStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Source excerpt styles
var (
	sourceLineStyle    = lipgloss.NewStyle().Foreground(colorHighlight)
	sourceContextStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Diagnostic styles
var (
	diagPosStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	diagMsgStyle = lipgloss.NewStyle().Foreground(colorHighlight)
)

// Status bar
var statusBarStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

// Help styles
var (
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Detail field styles
var (
	fieldLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	fieldValueStyle = lipgloss.NewStyle().Foreground(colorHighlight)
)

// Modal overlay style
var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// renderKind returns a styled badge for a section kind.
func renderKind(kind string) string {
	switch kind {
	case "module":
		return moduleStyle.Render(kind)
	case "namespace":
		return namespaceStyle.Render(kind)
	case "let":
		return letStyle.Render(kind)
	default:
		return fragmentStyle.Render(kind)
	}
}
