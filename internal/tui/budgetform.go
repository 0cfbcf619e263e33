package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/pkg/client"
	"github.com/oguzhankoral/fcrm/pkg/domain"
)

type budgetFormStep int

const (
	budgetStepFranchise budgetFormStep = iota
	budgetStepLoading
	budgetStepDetails
)

type budgetFormBranchesMsg struct {
	branches []domain.Branch
	err      error
}

type budgetSavedMsg struct {
	created bool
	err     error
}

// budgetFormModel is a two-step wizard: pick the franchise, then fill
// in the budget once that franchise's branches are known. Editing an
// existing budget skips straight to the second step since the
// franchise cannot change.
type budgetFormModel struct {
	client *client.Client
	queue  *notify.Queue

	step       budgetFormStep
	editing    *domain.Budget
	franchises []domain.Franchise
	branches   []domain.Branch
	spin       spinner.Model
	saving     bool

	form        *huh.Form
	franchiseID int
	branchID    int // 0 = franchise-level
	fPeriod     string
	fCurrency   string
	fPlanned    string
}

func newBudgetForm(c *client.Client, q *notify.Queue, franchises []domain.Franchise, edit *domain.Budget) budgetFormModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	m := budgetFormModel{
		client:     c,
		queue:      q,
		franchises: franchises,
		editing:    edit,
		spin:       sp,
		fCurrency:  "TRY",
	}

	if edit != nil {
		m.step = budgetStepLoading
		m.franchiseID = edit.FranchiseID
		if edit.BranchID != nil {
			m.branchID = *edit.BranchID
		}
		m.fPeriod = edit.Period
		m.fCurrency = edit.Currency
		m.fPlanned = strconv.FormatFloat(edit.PlannedAmount, 'f', -1, 64)
		return m
	}

	m.step = budgetStepFranchise
	if len(franchises) > 0 {
		m.franchiseID = franchises[0].ID
	}
	m.form = m.buildFranchiseForm()
	return m
}

func (m budgetFormModel) Init() tea.Cmd {
	if m.step == budgetStepLoading {
		return tea.Batch(m.spin.Tick, m.loadBranches())
	}
	return m.form.Init()
}

func (m budgetFormModel) loadBranches() tea.Cmd {
	c := m.client
	franchiseID := m.franchiseID
	return func() tea.Msg {
		branches, err := c.ListBranches(context.Background(), franchiseID)
		return budgetFormBranchesMsg{branches: branches, err: err}
	}
}

func (m *budgetFormModel) buildFranchiseForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Franchise").
			Options(franchiseOptions(m.franchises)...).
			Value(&m.franchiseID),
	).Title("New Budget")).WithTheme(formTheme())
}

func (m *budgetFormModel) buildDetailsForm() *huh.Form {
	title := "New Budget"
	if m.editing != nil {
		title = "Edit Budget " + m.editing.Period
	}

	fields := []huh.Field{
		huh.NewSelect[int]().
			Title("Branch").
			Options(branchOptions(m.branches)...).
			Value(&m.branchID),
	}
	if m.editing == nil {
		fields = append(fields,
			huh.NewInput().
				Title("Period").
				Placeholder("YYYY-MM").
				CharLimit(7).
				Value(&m.fPeriod).
				Validate(domain.ValidatePeriod))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Currency").
			CharLimit(3).
			Value(&m.fCurrency).
			Validate(domain.ValidateCurrency),
		huh.NewInput().
			Title("Planned Amount").
			Placeholder("0.00").
			CharLimit(20).
			Value(&m.fPlanned).
			Validate(parseAmountField))

	return huh.NewForm(huh.NewGroup(fields...).Title(title)).WithTheme(formTheme())
}

func (m budgetFormModel) Update(msg tea.Msg) (budgetFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetFormBranchesMsg:
		if msg.err != nil {
			m.queue.Push(client.Detail(msg.err, "Failed to load branches"), notify.Error)
			// Fall through with an empty branch list; the budget can
			// still be filed at franchise level.
		}
		m.branches = msg.branches
		m.step = budgetStepDetails
		m.form = m.buildDetailsForm()
		return m, m.form.Init()

	case budgetSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.queue.Push(client.Detail(msg.err, "Failed to save budget"), notify.Error)
			// Rebuild so the completed form becomes editable again;
			// field values live on the model and survive the rebuild.
			m.form = m.buildDetailsForm()
			return m, m.form.Init()
		}
		return m, nil

	case spinner.TickMsg:
		if m.step != budgetStepLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.step == budgetStepLoading || m.saving || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.step == budgetStepFranchise {
		m.step = budgetStepLoading
		return m, tea.Batch(m.spin.Tick, m.loadBranches())
	}
	return m.submit()
}

func (m budgetFormModel) submit() (budgetFormModel, tea.Cmd) {
	planned, err := strconv.ParseFloat(strings.TrimSpace(m.fPlanned), 64)
	if err != nil {
		m.queue.Push("Planned amount must be a number", notify.Warning)
		m.form = m.buildDetailsForm()
		return m, m.form.Init()
	}

	m.saving = true
	c := m.client
	var branchID *int
	if m.branchID != 0 {
		id := m.branchID
		branchID = &id
	}
	currency := strings.ToUpper(strings.TrimSpace(m.fCurrency))

	if m.editing != nil {
		id := m.editing.ID
		req := client.UpdateBudgetRequest{
			BranchID:      branchID,
			Currency:      &currency,
			PlannedAmount: &planned,
		}
		return m, func() tea.Msg {
			_, err := c.UpdateBudget(context.Background(), id, req)
			return budgetSavedMsg{created: false, err: err}
		}
	}

	req := client.CreateBudgetRequest{
		FranchiseID:   m.franchiseID,
		BranchID:      branchID,
		Period:        strings.TrimSpace(m.fPeriod),
		Currency:      currency,
		PlannedAmount: planned,
	}
	return m, func() tea.Msg {
		_, err := c.CreateBudget(context.Background(), req)
		return budgetSavedMsg{created: true, err: err}
	}
}

func (m budgetFormModel) View() string {
	if m.step == budgetStepLoading {
		return "\n " + m.spin.View() + dimStyle.Render(" loading branches...")
	}
	view := "\n" + m.form.View()
	if m.saving {
		view += "\n  " + dimStyle.Render("saving...")
	}
	return view
}
