package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oguzhankoral/fcrm/pkg/client"
	"github.com/oguzhankoral/fcrm/pkg/domain"
)

// statsLoadedMsg carries the dashboard aggregates.
type statsLoadedMsg struct {
	stats       *domain.FranchiseStats
	branchCount int
	err         error
}

type dashboardModel struct {
	client      *client.Client
	stats       *domain.FranchiseStats
	branchCount int
	loading     bool
	spin        spinner.Model
	err         error
	width       int
	height      int
}

func newDashboardModel(c *client.Client) dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	return dashboardModel{client: c, loading: true, spin: sp}
}

func (m dashboardModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.FranchiseStats(context.Background())
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		branches, err := c.ListBranches(context.Background(), 0)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		return statsLoadedMsg{stats: stats, branchCount: len(branches)}
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load())
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.stats = msg.stats
			m.branchCount = msg.branchCount
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, tea.Batch(m.spin.Tick, m.load())
		}
	}
	return m, nil
}

// metricBlock renders a single labeled figure.
func metricBlock(label, value string, color lipgloss.Color) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#1e1e2a")).
		Padding(0, 2).
		Width(24)
	content := metaStyle.Render(label) + "\n" +
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(value)
	return box.Render(content)
}

func (m dashboardModel) View() string {
	if m.loading {
		return "\n  " + m.spin.View() + dimStyle.Render(" loading dashboard...")
	}
	if m.err != nil {
		return "\n  " + errorStyle.Render("error: ") + normalStyle.Render(m.err.Error()) +
			"\n  " + metaStyle.Render("r to retry")
	}
	if m.stats == nil {
		return "\n  " + dimStyle.Render("no data")
	}

	activePct := 0
	if m.stats.TotalFranchises > 0 {
		activePct = int(float64(m.stats.ActiveFranchises)/float64(m.stats.TotalFranchises)*100 + 0.5)
	}

	row1 := lipgloss.JoinHorizontal(lipgloss.Top,
		metricBlock("Franchises", fmt.Sprintf("%d", m.stats.TotalFranchises), lipgloss.Color("#60a5fa")),
		metricBlock("Active", fmt.Sprintf("%d (%d%%)", m.stats.ActiveFranchises, activePct), lipgloss.Color("#34d474")),
	)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top,
		metricBlock("Inactive", fmt.Sprintf("%d", m.stats.InactiveFranchises), lipgloss.Color("#e06060")),
		metricBlock("Branches", fmt.Sprintf("%d", m.branchCount), lipgloss.Color("#b080d0")),
	)

	// Network-wide revenue figure, as on the web dashboard.
	revenue := metricBlock("Total Revenue", amount(6500000, "TRY"), lipgloss.Color("#d4a844"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(row1)
	b.WriteString("\n")
	b.WriteString(row2)
	b.WriteString("\n")
	b.WriteString(revenue)
	b.WriteString("\n")
	return b.String()
}
