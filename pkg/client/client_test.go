package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oguzhankoral/fcrm/pkg/domain"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			http.NotFound(w, r)
			return
		}
		// Credentials travel as query parameters, not a body.
		if r.URL.Query().Get("username") != "admin" || r.URL.Query().Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.Token{AccessToken: "tok-123", TokenType: "bearer"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	tok, err := c.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if tok.AccessToken != "tok-123" {
		t.Errorf("AccessToken = %q, want %q", tok.AccessToken, "tok-123")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Login(context.Background(), "admin", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsStatus(err, 401) {
		t.Errorf("IsStatus(err, 401) = false, err = %v", err)
	}
	if got := Detail(err, "fallback"); got != "Invalid credentials" {
		t.Errorf("Detail() = %q, want backend message", got)
	}
}

func TestDetail_FallbackWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Login(context.Background(), "a", "b")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := Detail(err, "Invalid credentials. Try admin/secret"); got != "Invalid credentials. Try admin/secret" {
		t.Errorf("Detail() = %q, want fallback", got)
	}
}

func TestSignup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/signup" {
			http.NotFound(w, r)
			return
		}
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Username == "taken" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Username already exists"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.Token{AccessToken: "tok-new"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	tok, err := c.Signup(context.Background(), SignupRequest{Username: "fresh", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Signup() error: %v", err)
	}
	if tok.AccessToken != "tok-new" {
		t.Errorf("AccessToken = %q, want %q", tok.AccessToken, "tok-new")
	}

	_, err = c.Signup(context.Background(), SignupRequest{Username: "taken", Password: "hunter22"})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if got := Detail(err, ""); got != "Username already exists" {
		t.Errorf("Detail() = %q, want conflict message", got)
	}
}

func TestVerify_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"valid": true}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-abc")
	if err := c.Verify(context.Background()); err != nil {
		t.Fatalf("Verify() error: %v", err)
	}

	c.SetToken("")
	if err := c.Verify(context.Background()); err == nil {
		t.Fatal("expected error once token is cleared")
	}
}

func TestListFranchises(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/franchises" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("search"); got != "burger" {
			t.Errorf("search = %q, want %q", got, "burger")
		}
		if got := r.URL.Query().Get("is_active"); got != "true" {
			t.Errorf("is_active = %q, want %q", got, "true")
		}
		json.NewEncoder(w).Encode([]domain.Franchise{ //nolint:errcheck
			{ID: 1, Name: "Burger Palace", TaxNumber: "1234567890", IsActive: true},
		})
	}))
	defer srv.Close()

	active := true
	c := New(srv.URL, "tok")
	franchises, err := c.ListFranchises(context.Background(), FranchiseFilter{Search: "burger", IsActive: &active, Limit: 50})
	if err != nil {
		t.Fatalf("ListFranchises() error: %v", err)
	}
	if len(franchises) != 1 {
		t.Fatalf("got %d franchises, want 1", len(franchises))
	}
	if franchises[0].Name != "Burger Palace" {
		t.Errorf("Name = %q, want %q", franchises[0].Name, "Burger Palace")
	}
}

func TestCreateFranchise_DuplicateTaxNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Tax number already registered"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.CreateFranchise(context.Background(), CreateFranchiseRequest{Name: "Dup", TaxNumber: "1", IsActive: true})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Tax number already registered") {
		t.Errorf("error = %v, want duplicate message", err)
	}
}

func TestDeleteFranchise_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Franchise not found"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	err := c.DeleteFranchise(context.Background(), 999)
	if !IsStatus(err, 404) {
		t.Errorf("IsStatus(err, 404) = false, err = %v", err)
	}
}

func TestListBudgets_Filters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("franchise_id") != "7" || q.Get("period") != "2025-12" {
			t.Errorf("unexpected query: %v", q)
		}
		json.NewEncoder(w).Encode([]domain.Budget{ //nolint:errcheck
			{ID: 3, FranchiseID: 7, Period: "2025-12", Currency: "TRY", PlannedAmount: 100000, Status: domain.BudgetDraft},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	budgets, err := c.ListBudgets(context.Background(), BudgetFilter{FranchiseID: 7, Period: "2025-12", Limit: 50})
	if err != nil {
		t.Fatalf("ListBudgets() error: %v", err)
	}
	if len(budgets) != 1 || budgets[0].Status != domain.BudgetDraft {
		t.Errorf("budgets = %+v", budgets)
	}
}

func TestApproveBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/budgets/3/approve" {
			http.NotFound(w, r)
			return
		}
		approved := 100000.0
		json.NewEncoder(w).Encode(domain.Budget{ //nolint:errcheck
			ID: 3, Status: domain.BudgetApproved, PlannedAmount: 100000, ApprovedAmount: &approved,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	b, err := c.ApproveBudget(context.Background(), 3)
	if err != nil {
		t.Fatalf("ApproveBudget() error: %v", err)
	}
	if b.Status != domain.BudgetApproved {
		t.Errorf("Status = %q, want %q", b.Status, domain.BudgetApproved)
	}
	if b.ApprovedAmount == nil || *b.ApprovedAmount != 100000 {
		t.Errorf("ApprovedAmount = %v, want planned amount", b.ApprovedAmount)
	}
}

func TestBudgetSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/budgets/5/summary" {
			http.NotFound(w, r)
			return
		}
		burn := 0.4
		json.NewEncoder(w).Encode(domain.BudgetSummary{ //nolint:errcheck
			Planned: 1000, Actual: 400, Variance: -600, BurnRate: &burn, Currency: "TRY", Period: "2025-11",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	s, err := c.BudgetSummary(context.Background(), 5)
	if err != nil {
		t.Fatalf("BudgetSummary() error: %v", err)
	}
	if s.BurnRate == nil || *s.BurnRate != 0.4 {
		t.Errorf("BurnRate = %v, want 0.4", s.BurnRate)
	}
}

func TestCreateExpense(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/expenses" {
			http.NotFound(w, r)
			return
		}
		var req CreateExpenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(domain.Expense{ //nolint:errcheck
			ID: 11, FranchiseID: req.FranchiseID, BudgetID: req.BudgetID, Date: req.Date,
			Category: req.Category, Amount: req.Amount,
		})
	}))
	defer srv.Close()

	budgetID := 3
	c := New(srv.URL, "tok")
	e, err := c.CreateExpense(context.Background(), CreateExpenseRequest{
		FranchiseID: 7, BudgetID: &budgetID, Date: "2025-12-05", Category: "rent", Amount: 2500,
	})
	if err != nil {
		t.Fatalf("CreateExpense() error: %v", err)
	}
	if e.ID != 11 || e.BudgetID == nil || *e.BudgetID != 3 {
		t.Errorf("expense = %+v", e)
	}
}

func TestStructuredDetailEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		// FastAPI validation errors carry a list under detail.
		w.Write([]byte(`{"detail":[{"loc":["body","period"],"msg":"string does not match regex"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.CreateBudget(context.Background(), CreateBudgetRequest{FranchiseID: 1, Period: "x", Currency: "TRY"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 422") {
		t.Errorf("error = %v, want status in message", err)
	}
}

func TestBudgetRollup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/budgets/rollup" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("franchise_id") != "7" || q.Get("period") != "2025-12" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if q.Get("branch_id") != "2" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		burn := 0.5
		json.NewEncoder(w).Encode(domain.Rollup{ //nolint:errcheck
			Planned: 10000, Approved: 9000, Actual: 4500, Variance: 4500, BurnRate: &burn,
		})
	}))
	defer srv.Close()

	branchID := 2
	c := New(srv.URL, "tok")
	r, err := c.BudgetRollup(context.Background(), 7, "2025-12", &branchID)
	if err != nil {
		t.Fatalf("BudgetRollup() error: %v", err)
	}
	if r.Planned != 10000 || r.BurnRate == nil || *r.BurnRate != 0.5 {
		t.Errorf("rollup = %+v", r)
	}
}

func TestFranchiseBranches_Pagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/franchises/7/branches" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("skip") != "10" || q.Get("limit") != "5" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode([]domain.Branch{ //nolint:errcheck
			{ID: 11, Name: "Moda", City: "Istanbul", FranchiseID: 7},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	branches, err := c.FranchiseBranches(context.Background(), 7, 10, 5)
	if err != nil {
		t.Fatalf("FranchiseBranches() error: %v", err)
	}
	if len(branches) != 1 || branches[0].Name != "Moda" {
		t.Errorf("branches = %+v", branches)
	}
}

func TestGetBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/budgets/42" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.Budget{ //nolint:errcheck
			ID: 42, FranchiseID: 7, Period: "2025-11", Currency: "TRY",
			PlannedAmount: 5000, Status: domain.BudgetDraft,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	b, err := c.GetBudget(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetBudget() error: %v", err)
	}
	if b.Period != "2025-11" || b.Status != domain.BudgetDraft {
		t.Errorf("budget = %+v", b)
	}
}
