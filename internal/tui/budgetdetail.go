package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/pkg/client"
	"github.com/oguzhankoral/fcrm/pkg/domain"
)

type budgetDetailLoadedMsg struct {
	summary  *domain.BudgetSummary
	expenses []domain.Expense
	err      error
}

type expenseSavedMsg struct {
	err error
}

type expenseDeletedMsg struct {
	err error
}

// budgetDetailModel shows one budget's summary figures plus the
// expenses booked against it, and hosts the quick expense form.
type budgetDetailModel struct {
	client *client.Client
	queue  *notify.Queue

	budget   domain.Budget
	summary  *domain.BudgetSummary
	expenses []domain.Expense
	cursor   int
	loading  bool
	spin     spinner.Model
	err      error
	width    int
	height   int

	form      *huh.Form
	fDate     string
	fCategory string
	fAmount   string
	fNote     string
	saving    bool
}

func newBudgetDetail(c *client.Client, q *notify.Queue, b domain.Budget) budgetDetailModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	return budgetDetailModel{client: c, queue: q, budget: b, loading: true, spin: sp}
}

func (m budgetDetailModel) load() tea.Cmd {
	c := m.client
	id := m.budget.ID
	return func() tea.Msg {
		summary, err := c.BudgetSummary(context.Background(), id)
		if err != nil {
			return budgetDetailLoadedMsg{err: err}
		}
		expenses, err := c.ListExpenses(context.Background(), client.ExpenseFilter{BudgetID: id, Limit: pageSize})
		if err != nil {
			return budgetDetailLoadedMsg{err: err}
		}
		return budgetDetailLoadedMsg{summary: summary, expenses: expenses}
	}
}

func (m budgetDetailModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load())
}

func (m budgetDetailModel) editing() bool {
	return m.form != nil
}

func validExpenseDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("format: YYYY-MM-DD")
	}
	return nil
}

func (m *budgetDetailModel) buildForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Date").
			Placeholder("YYYY-MM-DD").
			CharLimit(10).
			Value(&m.fDate).
			Validate(validExpenseDate),
		huh.NewInput().
			Title("Category").
			CharLimit(maxInputLen).
			Value(&m.fCategory).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("Category is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Amount").
			Placeholder("0.00").
			CharLimit(20).
			Value(&m.fAmount).
			Validate(parseAmountField),
		huh.NewInput().
			Title("Note (optional)").
			CharLimit(maxInputLen).
			Value(&m.fNote),
	).Title("New Expense")).WithTheme(formTheme())
}

func (m budgetDetailModel) Update(msg tea.Msg) (budgetDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetDetailLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.summary = msg.summary
			m.expenses = msg.expenses
		}
		if m.cursor >= len(m.expenses) {
			m.cursor = 0
		}
		return m, nil

	case expenseSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.queue.Push(client.Detail(msg.err, "Failed to record expense"), notify.Error)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		m.queue.Push("Expense recorded", notify.Success)
		m.form = nil
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())

	case expenseDeletedMsg:
		if msg.err != nil {
			m.queue.Push(client.Detail(msg.err, "Failed to delete expense"), notify.Error)
			return m, nil
		}
		m.queue.Push("Expense deleted", notify.Success)
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.expenses)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())
	case "n":
		m.fDate = time.Now().Format("2006-01-02")
		m.fCategory = ""
		m.fAmount = ""
		m.fNote = ""
		m.form = m.buildForm()
		return m, m.form.Init()
	case "d":
		if m.cursor < len(m.expenses) {
			c := m.client
			id := m.expenses[m.cursor].ID
			return m, func() tea.Msg {
				return expenseDeletedMsg{err: c.DeleteExpense(context.Background(), id)}
			}
		}
	}
	return m, nil
}

func (m budgetDetailModel) updateForm(msg tea.Msg) (budgetDetailModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" && !m.saving {
		m.form = nil
		return m, nil
	}
	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	amountVal, err := strconv.ParseFloat(strings.TrimSpace(m.fAmount), 64)
	if err != nil {
		m.queue.Push("Amount must be a number", notify.Warning)
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	m.saving = true
	c := m.client
	budgetID := m.budget.ID
	req := client.CreateExpenseRequest{
		FranchiseID: m.budget.FranchiseID,
		BranchID:    m.budget.BranchID,
		BudgetID:    &budgetID,
		Date:        strings.TrimSpace(m.fDate),
		Category:    strings.TrimSpace(m.fCategory),
		Amount:      amountVal,
		Note:        strings.TrimSpace(m.fNote),
	}
	return m, func() tea.Msg {
		_, err := c.CreateExpense(context.Background(), req)
		return expenseSavedMsg{err: err}
	}
}

func (m budgetDetailModel) View() string {
	if m.form != nil {
		view := "\n" + m.form.View()
		if m.saving {
			view += "\n  " + dimStyle.Render("saving...")
		}
		return view
	}

	var b strings.Builder

	title := fmt.Sprintf(" Budget %s", m.budget.Period)
	if m.budget.BranchID != nil {
		title += fmt.Sprintf("  (branch %d)", *m.budget.BranchID)
	}
	b.WriteString(accentStyle.Render(title) + "  " +
		StatusStyle(m.budget.Status).Render(m.budget.Status) + "\n\n")

	if m.loading {
		b.WriteString(" " + m.spin.View() + dimStyle.Render(" loading summary..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render("error: ") + normalStyle.Render(m.err.Error()))
		return b.String()
	}

	if s := m.summary; s != nil {
		cur := s.Currency
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("planned: "), amount(s.Planned, cur))
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("approved:"), amount(s.Approved, cur))
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("actual:  "), amount(s.Actual, cur))
		variance := amount(s.Variance, cur)
		if s.Variance < 0 {
			variance = errorStyle.Render(variance)
		}
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("variance:"), variance)
		burn := "n/a"
		if s.BurnRate != nil {
			burn = fmt.Sprintf("%.1f%%", *s.BurnRate*100)
		}
		fmt.Fprintf(&b, " %s %s\n\n", metaStyle.Render("burn:    "), burn)
	}

	b.WriteString(metaStyle.Render(fmt.Sprintf(" %-11s %-18s %-16s %s", "DATE", "CATEGORY", "AMOUNT", "NOTE")) + "\n")
	if len(m.expenses) == 0 {
		b.WriteString(" " + dimStyle.Render("no expenses recorded"))
		return b.String()
	}
	for i, e := range m.expenses {
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		line := fmt.Sprintf(" %-11s %-18s %-16s %s",
			e.Date, truncStr(e.Category, 18), amount(e.Amount, m.budget.Currency), truncStr(note, 30))
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
