package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/internal/session"
	"github.com/oguzhankoral/fcrm/pkg/client"
)

type authMode int

const (
	authLogin authMode = iota
	authSignup
)

type loginField int

const (
	fieldUsername loginField = iota
	fieldEmail
	fieldFullName
	fieldPassword
	fieldConfirm
	numAuthFields
)

// authResultMsg carries the outcome of a login or signup attempt.
type authResultMsg struct {
	username string
	signup   bool
	err      error
}

type authModel struct {
	session    *session.Session
	queue      *notify.Queue
	mode       authMode
	fields     [numAuthFields]string
	focus      loginField
	submitting bool
}

func newAuthModel(s *session.Session, q *notify.Queue) authModel {
	return authModel{session: s, queue: q}
}

// visibleFields lists the fields shown for the current mode, in order.
func (m authModel) visibleFields() []loginField {
	if m.mode == authSignup {
		return []loginField{fieldUsername, fieldEmail, fieldFullName, fieldPassword, fieldConfirm}
	}
	return []loginField{fieldUsername, fieldPassword}
}

func (m authModel) Init() tea.Cmd {
	return nil
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			fallback := "Invalid credentials. Try admin/secret"
			if msg.signup {
				fallback = "Signup failed"
			}
			m.queue.Push(client.Detail(msg.err, fallback), notify.Error)
			return m, nil
		}
		if msg.signup {
			m.queue.Push("Account created successfully!", notify.Success)
		} else {
			m.queue.Push(fmt.Sprintf("Welcome back, %s!", msg.username), notify.Success)
		}
		// The app watches authResultMsg too and switches views.
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authModel) updateKeys(msg tea.KeyMsg) (authModel, tea.Cmd) {
	fields := m.visibleFields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}

	switch msg.String() {
	case "tab", "down":
		m.focus = fields[(idx+1)%len(fields)]
	case "shift+tab", "up":
		m.focus = fields[(idx-1+len(fields))%len(fields)]
	case "enter":
		if idx == len(fields)-1 {
			return m.submit()
		}
		m.focus = fields[idx+1]
	case "ctrl+s":
		return m.submit()
	case "ctrl+t":
		// Toggle between login and signup, clearing the form.
		if m.mode == authLogin {
			m.mode = authSignup
		} else {
			m.mode = authLogin
		}
		m.fields = [numAuthFields]string{}
		m.focus = fieldUsername
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m authModel) submit() (authModel, tea.Cmd) {
	username := strings.TrimSpace(m.fields[fieldUsername])
	password := m.fields[fieldPassword]

	if m.mode == authLogin {
		if username == "" || password == "" {
			m.queue.Push("Please enter both username and password", notify.Warning)
			return m, nil
		}
		m.submitting = true
		s := m.session
		return m, func() tea.Msg {
			err := s.Login(context.Background(), username, password)
			return authResultMsg{username: username, err: err}
		}
	}

	if username == "" || password == "" {
		m.queue.Push("Username and password are required", notify.Warning)
		return m, nil
	}
	if password != m.fields[fieldConfirm] {
		m.queue.Push("Passwords do not match", notify.Error)
		return m, nil
	}

	m.submitting = true
	s := m.session
	email := strings.TrimSpace(m.fields[fieldEmail])
	fullName := strings.TrimSpace(m.fields[fieldFullName])
	return m, func() tea.Msg {
		err := s.Signup(context.Background(), username, password, email, fullName)
		return authResultMsg{username: username, signup: true, err: err}
	}
}

var authLabels = map[loginField]string{
	fieldUsername: "username",
	fieldEmail:    "email (optional)",
	fieldFullName: "full name (optional)",
	fieldPassword: "password",
	fieldConfirm:  "confirm password",
}

func (m authModel) View() string {
	var b strings.Builder

	title := "Sign in"
	hint := "ctrl+t to create an account"
	if m.mode == authSignup {
		title = "Create account"
		hint = "ctrl+t to sign in instead"
	}
	fmt.Fprintf(&b, "\n  %s  %s\n\n", selectedStyle.Render(title), metaStyle.Render(hint))

	for _, f := range m.visibleFields() {
		cursor := " "
		style := metaStyle
		if f == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[f]
		if f == fieldPassword || f == fieldConfirm {
			value = strings.Repeat("*", len(value))
		}
		if f == m.focus {
			value += "█"
		}
		fmt.Fprintf(&b, "  %s %s: %s\n", cursor, style.Render(authLabels[f]), value)
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString("  " + dimStyle.Render("authenticating..."))
	}
	return b.String()
}
