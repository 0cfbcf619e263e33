package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/pkg/client"
	"github.com/oguzhankoral/fcrm/pkg/domain"
)

type budgetsState int

const (
	budgetsList budgetsState = iota
	budgetsForm
	budgetsDetail
)

type budgetsLoadedMsg struct {
	budgets    []domain.Budget
	franchises []domain.Franchise
	err        error
}

type budgetStatusMsg struct {
	budget  *domain.Budget
	approve bool
	err     error
}

type budgetDeletedMsg struct {
	err error
}

type budgetsModel struct {
	client *client.Client
	queue  *notify.Queue

	state      budgetsState
	budgets    []domain.Budget
	franchises []domain.Franchise
	cursor     int
	filterIdx  int // 0 = all franchises
	period     textinput.Model
	loading    bool
	spin       spinner.Model
	err        error
	width      int
	height     int

	form   budgetFormModel
	detail budgetDetailModel
}

func newBudgetsModel(c *client.Client, q *notify.Queue) budgetsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	period := textinput.New()
	period.Placeholder = "YYYY-MM"
	period.CharLimit = 7
	period.Width = 10
	period.Prompt = "period: "

	return budgetsModel{client: c, queue: q, loading: true, spin: sp, period: period}
}

func (m budgetsModel) filterFranchiseID() int {
	if m.filterIdx == 0 || m.filterIdx > len(m.franchises) {
		return 0
	}
	return m.franchises[m.filterIdx-1].ID
}

func (m budgetsModel) load() tea.Cmd {
	c := m.client
	filter := client.BudgetFilter{
		FranchiseID: m.filterFranchiseID(),
		Period:      strings.TrimSpace(m.period.Value()),
		Limit:       pageSize,
	}
	return func() tea.Msg {
		franchises, err := c.ListFranchises(context.Background(), client.FranchiseFilter{Limit: pageSize})
		if err != nil {
			return budgetsLoadedMsg{err: err}
		}
		budgets, err := c.ListBudgets(context.Background(), filter)
		if err != nil {
			return budgetsLoadedMsg{err: err}
		}
		return budgetsLoadedMsg{budgets: budgets, franchises: franchises}
	}
}

func (m budgetsModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load())
}

func (m budgetsModel) editing() bool {
	switch m.state {
	case budgetsForm:
		return true
	case budgetsDetail:
		return m.detail.editing()
	}
	return m.period.Focused()
}

func (m budgetsModel) Update(msg tea.Msg) (budgetsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.budgets = msg.budgets
			m.franchises = msg.franchises
		}
		if m.cursor >= len(m.budgets) {
			m.cursor = 0
		}
		return m, nil

	case budgetStatusMsg:
		if msg.err != nil {
			m.queue.Push(client.Detail(msg.err, "Failed to update budget status"), notify.Error)
			return m, nil
		}
		if msg.approve {
			m.queue.Push(fmt.Sprintf("Budget %s approved", msg.budget.Period), notify.Success)
		} else {
			m.queue.Push(fmt.Sprintf("Budget %s rejected", msg.budget.Period), notify.Warning)
		}
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())

	case budgetDeletedMsg:
		if msg.err != nil {
			m.queue.Push(client.Detail(msg.err, "Failed to delete budget"), notify.Error)
			return m, nil
		}
		m.queue.Push("Budget deleted", notify.Success)
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())

	case budgetSavedMsg:
		if msg.err != nil {
			// The form shows the failure toast; stay on it so input survives.
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		if msg.created {
			m.queue.Push("Budget created successfully", notify.Success)
		} else {
			m.queue.Push("Budget updated", notify.Success)
		}
		m.state = budgetsList
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())

	case spinner.TickMsg:
		switch m.state {
		case budgetsDetail:
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		case budgetsForm:
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.width = msg.Width
		m.detail.height = msg.Height
	}

	switch m.state {
	case budgetsForm:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" && !m.form.saving {
			m.state = budgetsList
			return m, nil
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case budgetsDetail:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" && !m.detail.editing() {
			m.state = budgetsList
			m.loading = true
			return m, tea.Batch(m.spin.Tick, m.load())
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	return m.updateList(msg)
}

func (m budgetsModel) updateList(msg tea.Msg) (budgetsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.period.Focused() {
		switch keyMsg.String() {
		case "enter", "esc":
			m.period.Blur()
			if keyMsg.String() == "esc" {
				m.period.SetValue("")
			}
			m.loading = true
			return m, tea.Batch(m.spin.Tick, m.load())
		default:
			var cmd tea.Cmd
			m.period, cmd = m.period.Update(msg)
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.budgets)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.period.Focus()
		return m, textinput.Blink
	case "f":
		m.filterIdx = (m.filterIdx + 1) % (len(m.franchises) + 1)
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())
	case "r":
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())
	case "n":
		if len(m.franchises) == 0 {
			m.queue.Push("Create a franchise first", notify.Warning)
			return m, nil
		}
		m.state = budgetsForm
		m.form = newBudgetForm(m.client, m.queue, m.franchises, nil)
		return m, m.form.Init()
	case "e":
		if m.cursor < len(m.budgets) {
			b := m.budgets[m.cursor]
			m.state = budgetsForm
			m.form = newBudgetForm(m.client, m.queue, m.franchises, &b)
			return m, m.form.Init()
		}
	case "enter":
		if m.cursor < len(m.budgets) {
			b := m.budgets[m.cursor]
			m.state = budgetsDetail
			m.detail = newBudgetDetail(m.client, m.queue, b)
			m.detail.width = m.width
			m.detail.height = m.height
			return m, m.detail.Init()
		}
	case "A":
		if m.cursor < len(m.budgets) {
			c := m.client
			id := m.budgets[m.cursor].ID
			return m, func() tea.Msg {
				b, err := c.ApproveBudget(context.Background(), id)
				return budgetStatusMsg{budget: b, approve: true, err: err}
			}
		}
	case "R":
		if m.cursor < len(m.budgets) {
			c := m.client
			id := m.budgets[m.cursor].ID
			return m, func() tea.Msg {
				b, err := c.RejectBudget(context.Background(), id)
				return budgetStatusMsg{budget: b, approve: false, err: err}
			}
		}
	case "d":
		if m.cursor < len(m.budgets) {
			c := m.client
			id := m.budgets[m.cursor].ID
			return m, func() tea.Msg {
				return budgetDeletedMsg{err: c.DeleteBudget(context.Background(), id)}
			}
		}
	case "c":
		if m.cursor < len(m.budgets) {
			period := m.budgets[m.cursor].Period
			if err := clipboard.WriteAll(period); err != nil {
				m.queue.Push("Clipboard unavailable", notify.Warning)
			} else {
				m.queue.Push("Period copied: "+period, notify.Info)
			}
		}
	}
	return m, nil
}

func (m budgetsModel) franchiseName(id int) string {
	for _, f := range m.franchises {
		if f.ID == id {
			return f.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (m budgetsModel) View() string {
	switch m.state {
	case budgetsForm:
		return m.form.View()
	case budgetsDetail:
		return m.detail.View()
	}

	var b strings.Builder

	filterLabel := "all franchises"
	if id := m.filterFranchiseID(); id != 0 {
		filterLabel = m.franchiseName(id)
	}
	fmt.Fprintf(&b, " %s %s  %s\n",
		metaStyle.Render("filter:"), accentStyle.Render(filterLabel), m.period.View())

	if m.loading {
		b.WriteString("\n " + m.spin.View() + dimStyle.Render(" loading budgets..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString("\n " + errorStyle.Render("error: ") + normalStyle.Render(m.err.Error()))
		return b.String()
	}
	if len(m.budgets) == 0 {
		b.WriteString("\n " + dimStyle.Render("no budgets found"))
		return b.String()
	}

	header := fmt.Sprintf(" %-4s %-9s %-22s %-16s %-16s %s",
		"ID", "PERIOD", "FRANCHISE", "PLANNED", "ACTUAL", "STATUS")
	b.WriteString(metaStyle.Render(header) + "\n")

	for i, bu := range m.budgets {
		scope := m.franchiseName(bu.FranchiseID)
		if bu.BranchID != nil {
			scope += fmt.Sprintf(" / br %d", *bu.BranchID)
		}
		line := fmt.Sprintf(" %-4d %-9s %-22s %-16s %-16s ",
			bu.ID, bu.Period, truncStr(scope, 22),
			amount(bu.PlannedAmount, bu.Currency),
			amount(bu.ActualAmount, bu.Currency))
		status := StatusStyle(bu.Status).Render(bu.Status)
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + status + "\n")
	}
	return b.String()
}
