package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// applyTheme recolors the shared styles from the persisted theme.
func applyTheme(t models.Theme) {
	titleStyle = titleStyle.Foreground(lipgloss.Color(t.Accent))
	labelStyle = labelStyle.Foreground(lipgloss.Color(t.Accent))
	valueStyle = valueStyle.Foreground(lipgloss.Color(t.Neutral))
}
