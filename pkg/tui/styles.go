package tui

import "github.com/charmbracelet/lipgloss"

const (
	selectedBackground = lipgloss.Color("#1e90ff")
	selectedForeground = lipgloss.Color("#ffffff")
	mutedColor         = lipgloss.Color("#888888")
	errorColor         = lipgloss.Color("#d9534f")
	linkColor          = lipgloss.Color("#1e90ff")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)

	selectedButtonStyle = buttonStyle.
				Background(selectedBackground).
				Foreground(selectedForeground).
				BorderForeground(selectedBackground).
				Bold(true)

	statusStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1).
			MarginBottom(1)

	cardTitleStyle = lipgloss.NewStyle().Bold(true)
	imageStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	linkStyle      = lipgloss.NewStyle().Foreground(linkColor).Underline(true)
	helpStyle      = lipgloss.NewStyle().Foreground(mutedColor)
)
