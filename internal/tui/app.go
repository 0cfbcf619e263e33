package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/internal/session"
	"github.com/oguzhankoral/fcrm/pkg/client"
)

type view int

const (
	viewDashboard view = iota
	viewFranchises
	viewBranches
	viewBudgets
)

var viewTitles = map[view]string{
	viewDashboard:  "dashboard",
	viewFranchises: "franchises",
	viewBranches:   "branches",
	viewBudgets:    "budgets",
}

// App is the root model. It shows the login screen until the session
// is authenticated, then routes between the admin screens.
type App struct {
	session *session.Session
	client  *client.Client
	queue   *notify.Queue

	authed bool
	auth   authModel
	view   view

	dashboard  dashboardModel
	franchises franchisesModel
	branches   branchesModel
	budgets    budgetsModel

	width  int
	height int
}

// NewApp builds the root model. The session should already have had
// Restore attempted; an authenticated session skips the login screen.
func NewApp(s *session.Session, q *notify.Queue) App {
	c := s.Client()
	return App{
		session:    s,
		client:     c,
		queue:      q,
		authed:     s.Authenticated(),
		auth:       newAuthModel(s, q),
		dashboard:  newDashboardModel(c),
		franchises: newFranchisesModel(c, q),
		branches:   newBranchesModel(c, q),
		budgets:    newBudgetsModel(c, q),
	}
}

func (a App) Init() tea.Cmd {
	if a.authed {
		return a.dashboard.Init()
	}
	return a.auth.Init()
}

// editing reports whether the active screen is capturing text input,
// in which case single-letter global keys must not fire.
func (a App) editing() bool {
	if !a.authed {
		return true
	}
	switch a.view {
	case viewFranchises:
		return a.franchises.editing()
	case viewBranches:
		return a.branches.editing()
	case viewBudgets:
		return a.budgets.editing()
	}
	return false
}

func (a App) switchView(v view) (App, tea.Cmd) {
	a.view = v
	switch v {
	case viewDashboard:
		return a, a.dashboard.Init()
	case viewFranchises:
		return a, a.franchises.Init()
	case viewBranches:
		return a, a.branches.Init()
	case viewBudgets:
		return a, a.budgets.Init()
	}
	return a, nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Screens get the height left after header, toasts and help.
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-6, 5)}
		a.dashboard, _ = a.dashboard.Update(inner)
		a.franchises, _ = a.franchises.Update(inner)
		a.branches, _ = a.branches.Update(inner)
		a.budgets, _ = a.budgets.Update(inner)
		return a, nil

	case ToastExpiredMsg:
		// Redraw only; the queue already removed the toast.
		return a, nil

	case authResultMsg:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		if msg.err == nil {
			a.authed = true
			a.view = viewDashboard
			return a, tea.Batch(cmd, a.dashboard.Init())
		}
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.authed {
			if msg.String() == "esc" {
				return a, tea.Quit
			}
			var cmd tea.Cmd
			a.auth, cmd = a.auth.Update(msg)
			return a, cmd
		}
		if !a.editing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				return a.switchView(viewDashboard)
			case "2":
				return a.switchView(viewFranchises)
			case "3":
				return a.switchView(viewBranches)
			case "4":
				return a.switchView(viewBudgets)
			case "L":
				return a.logout()
			case "x":
				a.dismissNewestToast()
				return a, nil
			}
		}
	}

	return a.routeToScreen(msg)
}

func (a App) routeToScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !a.authed {
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.view {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewFranchises:
		a.franchises, cmd = a.franchises.Update(msg)
	case viewBranches:
		a.branches, cmd = a.branches.Update(msg)
	case viewBudgets:
		a.budgets, cmd = a.budgets.Update(msg)
	}
	return a, cmd
}

func (a App) logout() (tea.Model, tea.Cmd) {
	username := a.session.Username()
	a.session.Logout()
	a.queue.Push("Goodbye, "+username+"!", notify.Info)
	a.authed = false
	a.auth = newAuthModel(a.session, a.queue)
	return a, a.auth.Init()
}

func (a App) dismissNewestToast() {
	items := a.queue.List()
	if len(items) == 0 {
		return
	}
	a.queue.Dismiss(items[len(items)-1].ID)
}

func (a App) header() string {
	logo := logoStyle.Render(" fcrm ")
	if !a.authed {
		return logo + metaStyle.Render("  franchise admin") + "\n"
	}

	var tabs []string
	for v := viewDashboard; v <= viewBudgets; v++ {
		title := viewTitles[v]
		if v == a.view {
			tabs = append(tabs, selectedStyle.Render(title))
		} else {
			tabs = append(tabs, dimStyle.Render(title))
		}
	}
	user := metaStyle.Render(a.session.Username())
	line := logo + "  " + strings.Join(tabs, dimStyle.Render(" · "))
	pad := a.width - lipgloss.Width(line) - lipgloss.Width(user) - 1
	if pad > 0 {
		line += strings.Repeat(" ", pad)
	} else {
		line += " "
	}
	return line + user + "\n"
}

func (a App) helpBar() string {
	if !a.authed {
		return helpEntry("tab", "next field") + helpEntry("enter", "submit") +
			helpEntry("ctrl+t", "login/signup") + helpEntry("esc", "quit")
	}
	if a.editing() {
		return helpEntry("esc", "cancel")
	}

	entries := helpEntry("1-4", "screens")
	switch a.view {
	case viewFranchises:
		entries += helpEntry("n", "new") + helpEntry("e", "edit") +
			helpEntry("d", "delete") + helpEntry("/", "search") +
			helpEntry("a", "active filter") + helpEntry("c", "copy tax no")
	case viewBranches:
		entries += helpEntry("n", "new") + helpEntry("d", "delete") + helpEntry("f", "franchise filter")
	case viewBudgets:
		switch a.budgets.state {
		case budgetsDetail:
			entries += helpEntry("n", "expense") + helpEntry("d", "delete") + helpEntry("esc", "back")
		default:
			entries += helpEntry("n", "new") + helpEntry("enter", "detail") +
				helpEntry("A", "approve") + helpEntry("R", "reject") +
				helpEntry("/", "period") + helpEntry("f", "franchise filter")
		}
	}
	entries += helpEntry("x", "dismiss toast") + helpEntry("L", "logout") + helpEntry("q", "quit")
	return entries
}

func (a App) View() string {
	var b strings.Builder
	b.WriteString(a.header())

	if toasts := renderToasts(a.queue, a.width); toasts != "" {
		b.WriteString(toasts)
	}

	var body string
	if !a.authed {
		body = a.auth.View()
	} else {
		switch a.view {
		case viewDashboard:
			body = a.dashboard.View()
		case viewFranchises:
			body = a.franchises.View()
		case viewBranches:
			body = a.branches.View()
		case viewBudgets:
			body = a.budgets.View()
		}
	}
	if a.height > 0 {
		body = truncateToHeight(body, max(a.height-6, 5))
	}
	b.WriteString(body)

	b.WriteString("\n\n" + a.helpBar())
	return b.String()
}
