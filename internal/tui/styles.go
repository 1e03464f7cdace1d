package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorGreen   lipgloss.Color = "#a6e3a1"
	colorRed     lipgloss.Color = "#f38ba8"
	colorBlue    lipgloss.Color = "#89b4fa"
	colorSubtext lipgloss.Color = "#a6adc8"
	colorOverlay lipgloss.Color = "#6c7086"
	colorSurface lipgloss.Color = "#313244"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	labelStyle       = lipgloss.NewStyle().Foreground(colorSubtext)
	onStyle          = lipgloss.NewStyle().Foreground(colorGreen)
	offStyle         = lipgloss.NewStyle().Foreground(colorOverlay)
	passwordStyle    = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle    = passwordStyle.Background(colorSurface).Bold(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(colorRed).Italic(true)
	copiedStyle      = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(colorRed)
	helpStyle        = lipgloss.NewStyle().Foreground(colorOverlay)
	boxStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
