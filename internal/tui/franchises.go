package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/pkg/client"
	"github.com/oguzhankoral/fcrm/pkg/domain"
)

type franchisesState int

const (
	franchisesList franchisesState = iota
	franchisesForm
)

type franchisesLoadedMsg struct {
	franchises []domain.Franchise
	err        error
}

type franchiseSavedMsg struct {
	created bool
	err     error
}

type franchiseDeletedMsg struct {
	err error
}

type franchisesModel struct {
	client *client.Client
	queue  *notify.Queue

	state      franchisesState
	franchises []domain.Franchise
	cursor     int
	loading    bool
	spin       spinner.Model
	err        error
	width      int
	height     int

	search       textinput.Model
	searching    bool
	activeFilter *bool // nil = all

	// Form state. editID == 0 means create.
	form       *huh.Form
	editID     int
	fName      string
	fTaxNumber string
	fActive    bool
	saving     bool
}

func newFranchisesModel(c *client.Client, q *notify.Queue) franchisesModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	ti := textinput.New()
	ti.Placeholder = "search by name"
	ti.CharLimit = 64
	ti.Width = 30

	return franchisesModel{client: c, queue: q, loading: true, spin: sp, search: ti}
}

func (m franchisesModel) load() tea.Cmd {
	c := m.client
	filter := client.FranchiseFilter{
		Search:   strings.TrimSpace(m.search.Value()),
		IsActive: m.activeFilter,
		Limit:    pageSize,
	}
	return func() tea.Msg {
		franchises, err := c.ListFranchises(context.Background(), filter)
		return franchisesLoadedMsg{franchises: franchises, err: err}
	}
}

func (m franchisesModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load())
}

func (m franchisesModel) editing() bool {
	return m.searching || m.state == franchisesForm
}

func (m franchisesModel) Update(msg tea.Msg) (franchisesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case franchisesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.franchises = msg.franchises
		}
		if m.cursor >= len(m.franchises) {
			m.cursor = 0
		}
		return m, nil

	case franchiseSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.queue.Push(client.Detail(msg.err, "Failed to save franchise"), notify.Error)
			// Rebuild so the completed form becomes editable again;
			// field values live on the model and survive the rebuild.
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		if msg.created {
			m.queue.Push("Franchise created successfully", notify.Success)
		} else {
			m.queue.Push("Franchise updated successfully", notify.Success)
		}
		m.state = franchisesList
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())

	case franchiseDeletedMsg:
		if msg.err != nil {
			// The list stays as it was; nothing was removed optimistically.
			m.queue.Push(client.Detail(msg.err, "Failed to delete franchise"), notify.Error)
			return m, nil
		}
		m.queue.Push("Franchise deleted", notify.Success)
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())

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
	}

	if m.state == franchisesForm {
		return m.updateForm(msg)
	}
	return m.updateList(msg)
}

func (m franchisesModel) updateList(msg tea.Msg) (franchisesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searching {
		switch keyMsg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
			m.loading = true
			return m, tea.Batch(m.spin.Tick, m.load())
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.franchises)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "a":
		// Cycle all -> active -> inactive -> all.
		switch {
		case m.activeFilter == nil:
			v := true
			m.activeFilter = &v
		case *m.activeFilter:
			v := false
			m.activeFilter = &v
		default:
			m.activeFilter = nil
		}
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())
	case "r":
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())
	case "n":
		return m.openForm(nil)
	case "enter", "e":
		if f := m.selected(); f != nil {
			return m.openForm(f)
		}
	case "c":
		if f := m.selected(); f != nil {
			if err := clipboard.WriteAll(f.TaxNumber); err == nil {
				m.queue.Push("Tax number copied", notify.Info)
			}
		}
	case "d":
		if f := m.selected(); f != nil {
			c := m.client
			id := f.ID
			return m, func() tea.Msg {
				return franchiseDeletedMsg{err: c.DeleteFranchise(context.Background(), id)}
			}
		}
	}
	return m, nil
}

func (m franchisesModel) selected() *domain.Franchise {
	if m.cursor < 0 || m.cursor >= len(m.franchises) {
		return nil
	}
	return &m.franchises[m.cursor]
}

// openForm enters the form state, prefilled from f when editing.
func (m franchisesModel) openForm(f *domain.Franchise) (franchisesModel, tea.Cmd) {
	m.state = franchisesForm
	if f != nil {
		m.editID = f.ID
		m.fName = f.Name
		m.fTaxNumber = f.TaxNumber
		m.fActive = f.IsActive
	} else {
		m.editID = 0
		m.fName = ""
		m.fTaxNumber = ""
		m.fActive = true
	}
	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m *franchisesModel) buildForm() *huh.Form {
	title := "New Franchise"
	if m.editID != 0 {
		title = "Edit Franchise"
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			CharLimit(maxInputLen).
			Value(&m.fName).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("Name is required")
				}
				return nil
			}),
	}
	if m.editID == 0 {
		// Tax number is immutable once registered.
		fields = append(fields, huh.NewInput().
			Title("Tax Number").
			CharLimit(50).
			Value(&m.fTaxNumber).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("Tax number is required")
				}
				return nil
			}))
	}
	fields = append(fields, huh.NewConfirm().
		Title("Active").
		Affirmative("Yes").
		Negative("No").
		Value(&m.fActive))

	return huh.NewForm(huh.NewGroup(fields...).Title(title)).WithTheme(formTheme())
}

func (m franchisesModel) updateForm(msg tea.Msg) (franchisesModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = franchisesList
		return m, nil
	}
	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.submitForm()
	}
	return m, cmd
}

func (m franchisesModel) submitForm() (franchisesModel, tea.Cmd) {
	m.saving = true
	c := m.client
	if m.editID == 0 {
		req := client.CreateFranchiseRequest{
			Name:      strings.TrimSpace(m.fName),
			TaxNumber: strings.TrimSpace(m.fTaxNumber),
			IsActive:  m.fActive,
		}
		return m, func() tea.Msg {
			_, err := c.CreateFranchise(context.Background(), req)
			return franchiseSavedMsg{created: true, err: err}
		}
	}

	id := m.editID
	name := strings.TrimSpace(m.fName)
	active := m.fActive
	req := client.UpdateFranchiseRequest{Name: &name, IsActive: &active}
	return m, func() tea.Msg {
		_, err := c.UpdateFranchise(context.Background(), id, req)
		return franchiseSavedMsg{err: err}
	}
}

func (m franchisesModel) View() string {
	if m.state == franchisesForm {
		view := "\n" + m.form.View()
		if m.saving {
			view += "\n  " + dimStyle.Render("saving...")
		}
		return view
	}

	var b strings.Builder

	// Filter line
	filterLabel := "all"
	if m.activeFilter != nil {
		if *m.activeFilter {
			filterLabel = "active"
		} else {
			filterLabel = "inactive"
		}
	}
	fmt.Fprintf(&b, " %s %s  %s %s\n",
		metaStyle.Render("filter:"), accentStyle.Render(filterLabel),
		metaStyle.Render("search:"), m.search.View())

	if m.loading {
		b.WriteString("\n " + m.spin.View() + dimStyle.Render(" loading franchises..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString("\n " + errorStyle.Render("error: ") + normalStyle.Render(m.err.Error()))
		return b.String()
	}
	if len(m.franchises) == 0 {
		b.WriteString("\n " + dimStyle.Render("no franchises found"))
		return b.String()
	}

	header := fmt.Sprintf(" %-4s %-30s %-14s %s", "ID", "NAME", "TAX NUMBER", "STATUS")
	b.WriteString(metaStyle.Render(header) + "\n")

	for i, f := range m.franchises {
		line := fmt.Sprintf(" %-4d %-30s %-14s %s",
			f.ID, truncStr(f.Name, 30), f.TaxNumber, activeBadge(f.IsActive))
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
