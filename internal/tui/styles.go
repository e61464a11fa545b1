package tui

import "github.com/charmbracelet/lipgloss"

// Colors used in the terminal page.
var (
	colorPrimary   = lipgloss.Color("69")  // Blue
	colorAccent    = lipgloss.Color("135") // Purple
	colorMuted     = lipgloss.Color("245") // Gray
	colorSurface   = lipgloss.Color("236")
	colorHighlight = lipgloss.Color("255")
)

var (
	navItem = lipgloss.NewStyle().
		Foreground(colorMuted)

	navActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHighlight).
			Background(colorPrimary)

	navHover = navItem.
			Underline(true).
			Foreground(colorHighlight)

	roleLine = lipgloss.NewStyle().
			Foreground(colorAccent).
			Italic(true).
			Padding(0, 1)

	heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		MarginBottom(1)

	cardTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHighlight)

	muted = lipgloss.NewStyle().
		Foreground(colorMuted)

	barFill = lipgloss.NewStyle().
		Foreground(colorAccent)

	barEmpty = lipgloss.NewStyle().
			Foreground(colorSurface)

	statusBar = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Background(colorSurface).
			Padding(0, 1)

	topHint = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent).
		Background(colorSurface)

	cursorMark = lipgloss.NewStyle().
			Foreground(colorAccent)

	splashName = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent)
)
