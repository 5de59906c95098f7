package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/clubdash/internal/models"
)

var (
	// Base colors
	primaryColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")

	// Panel styles
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	// Text styles
	titleStyle       = lipgloss.NewStyle().Bold(true)
	subtleStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle        = lipgloss.NewStyle().Foreground(mutedColor)
	timestampStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectedRowStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	statusStyle      = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle       = lipgloss.NewStyle().Foreground(errorColor)
	confirmStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(errorColor).
				Padding(1, 2)

	relationStyles = map[models.Relationship]lipgloss.Style{
		models.RelationAddable: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		models.RelationPending: lipgloss.NewStyle().Foreground(warningColor),
		models.RelationFriend:  lipgloss.NewStyle().Foreground(successColor),
	}
)

// formatRelation renders a relationship with color
func formatRelation(r models.Relationship) string {
	style, ok := relationStyles[r]
	if !ok {
		return string(r)
	}
	return style.Render(string(r))
}
