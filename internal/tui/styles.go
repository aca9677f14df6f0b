package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette.
const (
	colorBase   = "#1e1e2e"
	colorText   = "#cdd6f4"
	colorBlue   = "#89b4fa"
	colorGreen  = "#a6e3a1"
	colorRed    = "#f38ba8"
	colorYellow = "#f9e2af"
	colorDim    = "#6c7086"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorBase)).
			Background(lipgloss.Color(colorBlue)).
			Padding(0, 1)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBlue)).
			Padding(0, 1)

	outputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorDim)).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorBlue))

	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorText))
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorBase)).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
)
