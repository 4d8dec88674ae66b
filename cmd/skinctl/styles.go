package main

import "github.com/charmbracelet/lipgloss"

var (
	successColor = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	subtleColor  = lipgloss.Color("#666666")

	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	subtleStyle  = lipgloss.NewStyle().Foreground(subtleColor)
)

// confidentAt is the confidence, in percent, at or above which a prediction
// is shown as a strong match.
const confidentAt = 70.0

func confidenceStyle(pct float64) lipgloss.Style {
	if pct >= confidentAt {
		return successStyle
	}
	return warningStyle
}
