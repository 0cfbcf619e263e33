package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/pkg/domain"
)

var (
	// Base palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa"))

	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3b82f6")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	// Budget status colors
	statusColors = map[string]lipgloss.Color{
		domain.BudgetDraft:    lipgloss.Color("#d4a844"),
		domain.BudgetApproved: lipgloss.Color("#34d474"),
		domain.BudgetRejected: lipgloss.Color("#e06060"),
	}

	// Toast severity colors, matching the web client's green/red/blue/yellow
	toastColors = map[notify.Severity]lipgloss.Color{
		notify.Success: lipgloss.Color("#34d474"),
		notify.Error:   lipgloss.Color("#e06060"),
		notify.Info:    lipgloss.Color("#60a5fa"),
		notify.Warning: lipgloss.Color("#d4a844"),
	}

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))
)

// StatusStyle returns a bold style colored for the given budget status.
func StatusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// ToastStyle returns the style for a toast of the given severity.
func ToastStyle(sev notify.Severity) lipgloss.Style {
	if c, ok := toastColors[sev]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// activeBadge renders the franchise active flag.
func activeBadge(active bool) string {
	if active {
		return activeStyle.Render("active")
	}
	return inactiveStyle.Render("inactive")
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label) + "  "
}
