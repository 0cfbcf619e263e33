package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/internal/session"
	"github.com/oguzhankoral/fcrm/pkg/client"
)

func newTestApp(t *testing.T) (App, *notify.Queue) {
	t.Helper()
	q := notify.New(notify.WithTTL(time.Hour))
	s := session.New(client.New("http://127.0.0.1:0", ""), session.NewFileStore(t.TempDir()))
	a := NewApp(s, q)
	a.width = 100
	a.height = 30
	return a, q
}

func authedApp(t *testing.T) (App, *notify.Queue) {
	t.Helper()
	a, q := newTestApp(t)
	model, _ := a.Update(authResultMsg{username: "admin"})
	a = model.(App)
	return a, q
}

func TestAppStartsOnLogin(t *testing.T) {
	a, _ := newTestApp(t)
	view := a.View()
	if !strings.Contains(view, "username") {
		t.Errorf("expected login screen, got:\n%s", view)
	}
	if strings.Contains(view, "dashboard") {
		t.Errorf("tabs must be hidden before login, got:\n%s", view)
	}
}

func TestAppAuthSuccessSwitchesToDashboard(t *testing.T) {
	a, q := authedApp(t)
	if !a.authed {
		t.Fatal("expected authed after successful login result")
	}
	if a.view != viewDashboard {
		t.Errorf("expected dashboard view, got %v", a.view)
	}
	if got := lastToast(t, q).Message; got != "Welcome back, admin!" {
		t.Errorf("unexpected toast: %q", got)
	}
}

func TestAppAuthFailureStaysOnLogin(t *testing.T) {
	a, _ := newTestApp(t)
	model, _ := a.Update(authResultMsg{username: "admin", err: errors.New("401")})
	a = model.(App)
	if a.authed {
		t.Error("failed login must not authenticate")
	}
}

func TestAppTabSwitching(t *testing.T) {
	a, _ := authedApp(t)

	model, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	a = model.(App)
	if a.view != viewFranchises {
		t.Errorf("expected franchises view after 2, got %v", a.view)
	}
	if cmd == nil {
		t.Error("expected screen init command on switch")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	a = model.(App)
	if a.view != viewBudgets {
		t.Errorf("expected budgets view after 4, got %v", a.view)
	}
}

func TestAppLogoutReturnsToLogin(t *testing.T) {
	a, q := authedApp(t)

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	a = model.(App)
	if a.authed {
		t.Error("expected unauthenticated after logout")
	}
	if a.session.Authenticated() {
		t.Error("session still authenticated after logout")
	}
	if got := lastToast(t, q).Message; got != "Goodbye, admin!" {
		t.Errorf("unexpected toast: %q", got)
	}
	if !strings.Contains(a.View(), "username") {
		t.Errorf("expected login screen after logout, got:\n%s", a.View())
	}
}

func TestAppDismissNewestToast(t *testing.T) {
	a, q := authedApp(t)
	q.Push("older", notify.Info)
	q.Push("newer", notify.Info)

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	a = model.(App)

	var msgs []string
	for _, n := range q.List() {
		msgs = append(msgs, n.Message)
	}
	for _, m := range msgs {
		if m == "newer" {
			t.Errorf("expected newest toast dismissed, still have %v", msgs)
		}
	}
	if len(msgs) == 0 {
		t.Error("older toasts must survive")
	}
}

func TestAppHeaderShowsUsername(t *testing.T) {
	a, _ := authedApp(t)
	if !strings.Contains(a.View(), "admin") {
		t.Errorf("expected username in header, got:\n%s", a.View())
	}
}

func TestAppToastExpiredRedrawOnly(t *testing.T) {
	a, _ := authedApp(t)
	model, cmd := a.Update(ToastExpiredMsg{ID: "whatever"})
	if cmd != nil {
		t.Error("toast expiry must not trigger commands")
	}
	_ = model
}

func TestAppGlobalKeysDisabledWhileEditing(t *testing.T) {
	a, _ := authedApp(t)
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	a = model.(App)

	// Focus the franchise search; 'q' must now type, not quit.
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	a = model.(App)
	model, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	a = model.(App)
	if cmd != nil {
		// textinput returns a blink command sometimes; only tea.Quit is wrong.
		if msg := cmd(); msg == tea.Quit() {
			t.Error("q must not quit while a text input is focused")
		}
	}
	if got := a.franchises.search.Value(); got != "q" {
		t.Errorf("expected 'q' typed into search, got %q", got)
	}
}
