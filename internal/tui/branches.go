package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/pkg/client"
	"github.com/oguzhankoral/fcrm/pkg/domain"
)

type branchesState int

const (
	branchesList branchesState = iota
	branchesForm
)

type branchesLoadedMsg struct {
	branches   []domain.Branch
	franchises []domain.Franchise
	err        error
}

type branchSavedMsg struct {
	err error
}

type branchDeletedMsg struct {
	err error
}

type branchesModel struct {
	client *client.Client
	queue  *notify.Queue

	state      branchesState
	branches   []domain.Branch
	franchises []domain.Franchise
	cursor     int
	filterIdx  int // 0 = all, otherwise franchises[filterIdx-1]
	loading    bool
	spin       spinner.Model
	err        error
	width      int
	height     int

	form         *huh.Form
	fFranchiseID int
	fName        string
	fCity        string
	saving       bool
}

func newBranchesModel(c *client.Client, q *notify.Queue) branchesModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	return branchesModel{client: c, queue: q, loading: true, spin: sp}
}

func (m branchesModel) filterFranchiseID() int {
	if m.filterIdx == 0 || m.filterIdx > len(m.franchises) {
		return 0
	}
	return m.franchises[m.filterIdx-1].ID
}

func (m branchesModel) load() tea.Cmd {
	c := m.client
	franchiseID := m.filterFranchiseID()
	return func() tea.Msg {
		franchises, err := c.ListFranchises(context.Background(), client.FranchiseFilter{Limit: pageSize})
		if err != nil {
			return branchesLoadedMsg{err: err}
		}
		branches, err := c.ListBranches(context.Background(), franchiseID)
		if err != nil {
			return branchesLoadedMsg{err: err}
		}
		return branchesLoadedMsg{branches: branches, franchises: franchises}
	}
}

func (m branchesModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load())
}

func (m branchesModel) editing() bool {
	return m.state == branchesForm
}

func (m branchesModel) Update(msg tea.Msg) (branchesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case branchesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.branches = msg.branches
			m.franchises = msg.franchises
		}
		if m.cursor >= len(m.branches) {
			m.cursor = 0
		}
		return m, nil

	case branchSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.queue.Push(client.Detail(msg.err, "Failed to create branch"), notify.Error)
			// Rebuild so the completed form becomes editable again;
			// field values live on the model and survive the rebuild.
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		m.queue.Push("Branch created successfully", notify.Success)
		m.state = branchesList
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.load())

	case branchDeletedMsg:
		if msg.err != nil {
			m.queue.Push(client.Detail(msg.err, "Failed to delete branch"), notify.Error)
			return m, nil
		}
		m.queue.Push("Branch deleted", notify.Success)
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

	if m.state == branchesForm {
		return m.updateForm(msg)
	}
	return m.updateList(msg)
}

func (m branchesModel) updateList(msg tea.Msg) (branchesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.branches)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "f":
		// Cycle the franchise filter: all -> each franchise -> all.
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
		return m.openForm()
	case "d":
		if m.cursor < len(m.branches) {
			c := m.client
			id := m.branches[m.cursor].ID
			return m, func() tea.Msg {
				return branchDeletedMsg{err: c.DeleteBranch(context.Background(), id)}
			}
		}
	}
	return m, nil
}

func (m branchesModel) openForm() (branchesModel, tea.Cmd) {
	m.state = branchesForm
	m.fName = ""
	m.fCity = ""
	m.fFranchiseID = m.franchises[0].ID
	if id := m.filterFranchiseID(); id != 0 {
		m.fFranchiseID = id
	}
	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m *branchesModel) buildForm() *huh.Form {
	required := func(label string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", label)
			}
			return nil
		}
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Franchise").
			Options(franchiseOptions(m.franchises)...).
			Value(&m.fFranchiseID),
		huh.NewInput().
			Title("Name").
			CharLimit(maxInputLen).
			Value(&m.fName).
			Validate(required("Name")),
		huh.NewInput().
			Title("City").
			CharLimit(maxInputLen).
			Value(&m.fCity).
			Validate(required("City")),
	).Title("New Branch")).WithTheme(formTheme())
}

func (m branchesModel) updateForm(msg tea.Msg) (branchesModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = branchesList
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
		m.saving = true
		c := m.client
		req := client.CreateBranchRequest{
			Name:        strings.TrimSpace(m.fName),
			City:        strings.TrimSpace(m.fCity),
			FranchiseID: m.fFranchiseID,
		}
		return m, func() tea.Msg {
			_, err := c.CreateBranch(context.Background(), req)
			return branchSavedMsg{err: err}
		}
	}
	return m, cmd
}

// franchiseName resolves an id against the loaded franchises.
func (m branchesModel) franchiseName(id int) string {
	for _, f := range m.franchises {
		if f.ID == id {
			return f.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (m branchesModel) View() string {
	if m.state == branchesForm {
		view := "\n" + m.form.View()
		if m.saving {
			view += "\n  " + dimStyle.Render("saving...")
		}
		return view
	}

	var b strings.Builder

	filterLabel := "all franchises"
	if id := m.filterFranchiseID(); id != 0 {
		filterLabel = m.franchiseName(id)
	}
	fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("filter:"), accentStyle.Render(filterLabel))

	if m.loading {
		b.WriteString("\n " + m.spin.View() + dimStyle.Render(" loading branches..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString("\n " + errorStyle.Render("error: ") + normalStyle.Render(m.err.Error()))
		return b.String()
	}
	if len(m.branches) == 0 {
		b.WriteString("\n " + dimStyle.Render("no branches found"))
		return b.String()
	}

	header := fmt.Sprintf(" %-4s %-26s %-18s %s", "ID", "NAME", "CITY", "FRANCHISE")
	b.WriteString(metaStyle.Render(header) + "\n")

	for i, br := range m.branches {
		line := fmt.Sprintf(" %-4d %-26s %-18s %s",
			br.ID, truncStr(br.Name, 26), truncStr(br.City, 18), m.franchiseName(br.FranchiseID))
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
