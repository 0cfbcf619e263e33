package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/oguzhankoral/fcrm/pkg/domain"
)

func newTestDashboard() dashboardModel {
	m := newDashboardModel(nil)
	m.width = 100
	m.height = 30
	return m
}

func TestDashboardRendersMetrics(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(statsLoadedMsg{
		stats: &domain.FranchiseStats{
			TotalFranchises:    10,
			ActiveFranchises:   8,
			InactiveFranchises: 2,
		},
		branchCount: 17,
	})

	view := m.View()
	for _, want := range []string{"Franchises", "8 (80%)", "Branches", "17", "Total Revenue"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in dashboard, got:\n%s", want, view)
		}
	}
}

func TestDashboardZeroFranchises(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(statsLoadedMsg{stats: &domain.FranchiseStats{}})

	// No division by zero: active percent renders as 0%.
	if !strings.Contains(m.View(), "0 (0%)") {
		t.Errorf("expected 0%% active share, got:\n%s", m.View())
	}
}

func TestDashboardErrorState(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(statsLoadedMsg{err: errors.New("connection refused")})

	view := m.View()
	if !strings.Contains(view, "connection refused") {
		t.Errorf("expected error text, got:\n%s", view)
	}
	if !strings.Contains(view, "r to retry") {
		t.Errorf("expected retry hint, got:\n%s", view)
	}
}
