package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oguzhankoral/fcrm/pkg/domain"
)

// Client is the Franchise CRM API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken installs tok as the bearer credential attached to every
// subsequent request. An empty string clears it. Only the session
// manager writes this slot.
func (c *Client) SetToken(tok string) {
	c.token = tok
}

// --- Auth methods ---

// SignupRequest is the payload for creating a new account.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// Login exchanges credentials for a bearer token. The backend takes
// them as query parameters on an empty POST.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	params := url.Values{}
	params.Set("username", username)
	params.Set("password", password)

	var tok domain.Token
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login?"+params.Encode(), nil, &tok); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &tok, nil
}

// Signup creates an account and returns its bearer token.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*domain.Token, error) {
	var tok domain.Token
	if err := c.post(ctx, "/auth/signup", req, &tok); err != nil {
		return nil, fmt.Errorf("client.Signup: %w", err)
	}
	return &tok, nil
}

// Verify checks whether the installed token is still accepted.
func (c *Client) Verify(ctx context.Context) error {
	if err := c.get(ctx, "/auth/verify", nil); err != nil {
		return fmt.Errorf("client.Verify: %w", err)
	}
	return nil
}

// --- Franchise methods ---

// CreateFranchiseRequest is the payload for registering a franchise.
type CreateFranchiseRequest struct {
	Name      string `json:"name"`
	TaxNumber string `json:"tax_number"`
	IsActive  bool   `json:"is_active"`
}

// UpdateFranchiseRequest carries partial franchise updates. Nil fields
// are left untouched by the backend.
type UpdateFranchiseRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// FranchiseFilter narrows ListFranchises results.
type FranchiseFilter struct {
	Search   string
	IsActive *bool
	Skip     int
	Limit    int
}

// ListFranchises fetches franchises with optional search and active filter.
func (c *Client) ListFranchises(ctx context.Context, f FranchiseFilter) ([]domain.Franchise, error) {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.IsActive != nil {
		params.Set("is_active", strconv.FormatBool(*f.IsActive))
	}
	params.Set("skip", strconv.Itoa(f.Skip))
	params.Set("limit", strconv.Itoa(f.Limit))

	var franchises []domain.Franchise
	if err := c.get(ctx, "/franchises?"+params.Encode(), &franchises); err != nil {
		return nil, fmt.Errorf("client.ListFranchises: %w", err)
	}
	return franchises, nil
}

// FranchiseStats returns total/active/inactive franchise counts.
func (c *Client) FranchiseStats(ctx context.Context) (*domain.FranchiseStats, error) {
	var stats domain.FranchiseStats
	if err := c.get(ctx, "/franchises/stats", &stats); err != nil {
		return nil, fmt.Errorf("client.FranchiseStats: %w", err)
	}
	return &stats, nil
}

// GetFranchise fetches a single franchise by ID.
func (c *Client) GetFranchise(ctx context.Context, id int) (*domain.Franchise, error) {
	var f domain.Franchise
	if err := c.get(ctx, "/franchises/"+strconv.Itoa(id), &f); err != nil {
		return nil, fmt.Errorf("client.GetFranchise: %w", err)
	}
	return &f, nil
}

// CreateFranchise registers a new franchise.
func (c *Client) CreateFranchise(ctx context.Context, req CreateFranchiseRequest) (*domain.Franchise, error) {
	var created domain.Franchise
	if err := c.post(ctx, "/franchises", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateFranchise: %w", err)
	}
	return &created, nil
}

// UpdateFranchise applies a partial update to a franchise.
func (c *Client) UpdateFranchise(ctx context.Context, id int, req UpdateFranchiseRequest) (*domain.Franchise, error) {
	var updated domain.Franchise
	if err := c.doRequest(ctx, http.MethodPut, "/franchises/"+strconv.Itoa(id), req, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateFranchise: %w", err)
	}
	return &updated, nil
}

// DeleteFranchise removes a franchise by ID.
func (c *Client) DeleteFranchise(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/franchises/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteFranchise: %w", err)
	}
	return nil
}

// FranchiseBranches lists the branches under a franchise via the alias path.
func (c *Client) FranchiseBranches(ctx context.Context, id, skip, limit int) ([]domain.Branch, error) {
	params := url.Values{}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("limit", strconv.Itoa(limit))

	var branches []domain.Branch
	if err := c.get(ctx, "/franchises/"+strconv.Itoa(id)+"/branches?"+params.Encode(), &branches); err != nil {
		return nil, fmt.Errorf("client.FranchiseBranches: %w", err)
	}
	return branches, nil
}

// --- Branch methods ---

// CreateBranchRequest is the payload for opening a branch.
type CreateBranchRequest struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	FranchiseID int    `json:"franchise_id"`
}

// ListBranches fetches branches, optionally scoped to one franchise.
func (c *Client) ListBranches(ctx context.Context, franchiseID int) ([]domain.Branch, error) {
	path := "/branches"
	if franchiseID > 0 {
		params := url.Values{}
		params.Set("franchise_id", strconv.Itoa(franchiseID))
		path += "?" + params.Encode()
	}

	var branches []domain.Branch
	if err := c.get(ctx, path, &branches); err != nil {
		return nil, fmt.Errorf("client.ListBranches: %w", err)
	}
	return branches, nil
}

// GetBranch fetches a single branch by ID.
func (c *Client) GetBranch(ctx context.Context, id int) (*domain.Branch, error) {
	var b domain.Branch
	if err := c.get(ctx, "/branches/"+strconv.Itoa(id), &b); err != nil {
		return nil, fmt.Errorf("client.GetBranch: %w", err)
	}
	return &b, nil
}

// CreateBranch opens a new branch under a franchise.
func (c *Client) CreateBranch(ctx context.Context, req CreateBranchRequest) (*domain.Branch, error) {
	var created domain.Branch
	if err := c.post(ctx, "/branches", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateBranch: %w", err)
	}
	return &created, nil
}

// DeleteBranch removes a branch by ID.
func (c *Client) DeleteBranch(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/branches/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteBranch: %w", err)
	}
	return nil
}

// --- Budget methods ---

// CreateBudgetRequest is the payload for opening a budget period.
type CreateBudgetRequest struct {
	FranchiseID   int     `json:"franchise_id"`
	BranchID      *int    `json:"branch_id,omitempty"`
	Period        string  `json:"period"`
	Currency      string  `json:"currency"`
	PlannedAmount float64 `json:"planned_amount"`
}

// UpdateBudgetRequest carries partial budget updates.
type UpdateBudgetRequest struct {
	BranchID       *int     `json:"branch_id,omitempty"`
	Currency       *string  `json:"currency,omitempty"`
	PlannedAmount  *float64 `json:"planned_amount,omitempty"`
	ApprovedAmount *float64 `json:"approved_amount,omitempty"`
	ActualAmount   *float64 `json:"actual_amount,omitempty"`
	Status         *string  `json:"status,omitempty"`
}

// BudgetFilter narrows ListBudgets results.
type BudgetFilter struct {
	FranchiseID int
	BranchID    int
	Period      string
	Skip        int
	Limit       int
}

// ListBudgets fetches budgets with optional franchise/branch/period filters.
func (c *Client) ListBudgets(ctx context.Context, f BudgetFilter) ([]domain.Budget, error) {
	params := url.Values{}
	if f.FranchiseID > 0 {
		params.Set("franchise_id", strconv.Itoa(f.FranchiseID))
	}
	if f.BranchID > 0 {
		params.Set("branch_id", strconv.Itoa(f.BranchID))
	}
	if f.Period != "" {
		params.Set("period", f.Period)
	}
	params.Set("skip", strconv.Itoa(f.Skip))
	params.Set("limit", strconv.Itoa(f.Limit))

	var budgets []domain.Budget
	if err := c.get(ctx, "/budgets?"+params.Encode(), &budgets); err != nil {
		return nil, fmt.Errorf("client.ListBudgets: %w", err)
	}
	return budgets, nil
}

// GetBudget fetches a single budget by ID.
func (c *Client) GetBudget(ctx context.Context, id int) (*domain.Budget, error) {
	var b domain.Budget
	if err := c.get(ctx, "/budgets/"+strconv.Itoa(id), &b); err != nil {
		return nil, fmt.Errorf("client.GetBudget: %w", err)
	}
	return &b, nil
}

// BudgetSummary returns the computed planned/actual/variance view for a budget.
func (c *Client) BudgetSummary(ctx context.Context, id int) (*domain.BudgetSummary, error) {
	var s domain.BudgetSummary
	if err := c.get(ctx, "/budgets/"+strconv.Itoa(id)+"/summary", &s); err != nil {
		return nil, fmt.Errorf("client.BudgetSummary: %w", err)
	}
	return &s, nil
}

// CreateBudget opens a new budget period.
func (c *Client) CreateBudget(ctx context.Context, req CreateBudgetRequest) (*domain.Budget, error) {
	var created domain.Budget
	if err := c.post(ctx, "/budgets", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateBudget: %w", err)
	}
	return &created, nil
}

// UpdateBudget applies a partial update to a budget.
func (c *Client) UpdateBudget(ctx context.Context, id int, req UpdateBudgetRequest) (*domain.Budget, error) {
	var updated domain.Budget
	if err := c.doRequest(ctx, http.MethodPut, "/budgets/"+strconv.Itoa(id), req, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateBudget: %w", err)
	}
	return &updated, nil
}

// DeleteBudget removes a budget by ID.
func (c *Client) DeleteBudget(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/budgets/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteBudget: %w", err)
	}
	return nil
}

// ApproveBudget marks a budget approved; the backend defaults the
// approved amount to the planned amount on first approval.
func (c *Client) ApproveBudget(ctx context.Context, id int) (*domain.Budget, error) {
	var b domain.Budget
	if err := c.doRequest(ctx, http.MethodPost, "/budgets/"+strconv.Itoa(id)+"/approve", nil, &b); err != nil {
		return nil, fmt.Errorf("client.ApproveBudget: %w", err)
	}
	return &b, nil
}

// RejectBudget marks a budget rejected.
func (c *Client) RejectBudget(ctx context.Context, id int) (*domain.Budget, error) {
	var b domain.Budget
	if err := c.doRequest(ctx, http.MethodPost, "/budgets/"+strconv.Itoa(id)+"/reject", nil, &b); err != nil {
		return nil, fmt.Errorf("client.RejectBudget: %w", err)
	}
	return &b, nil
}

// BudgetRollup aggregates budget amounts for a franchise and period,
// optionally narrowed to one branch.
func (c *Client) BudgetRollup(ctx context.Context, franchiseID int, period string, branchID *int) (*domain.Rollup, error) {
	params := url.Values{}
	params.Set("franchise_id", strconv.Itoa(franchiseID))
	params.Set("period", period)
	if branchID != nil {
		params.Set("branch_id", strconv.Itoa(*branchID))
	}

	var r domain.Rollup
	if err := c.get(ctx, "/budgets/rollup?"+params.Encode(), &r); err != nil {
		return nil, fmt.Errorf("client.BudgetRollup: %w", err)
	}
	return &r, nil
}

// --- Expense methods ---

// CreateExpenseRequest is the payload for recording an expense.
type CreateExpenseRequest struct {
	FranchiseID int     `json:"franchise_id"`
	BranchID    *int    `json:"branch_id,omitempty"`
	BudgetID    *int    `json:"budget_id,omitempty"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Note        string  `json:"note,omitempty"`
}

// ExpenseFilter narrows ListExpenses results.
type ExpenseFilter struct {
	FranchiseID int
	BranchID    int
	BudgetID    int
	Skip        int
	Limit       int
}

// ListExpenses fetches expenses, newest first.
func (c *Client) ListExpenses(ctx context.Context, f ExpenseFilter) ([]domain.Expense, error) {
	params := url.Values{}
	if f.FranchiseID > 0 {
		params.Set("franchise_id", strconv.Itoa(f.FranchiseID))
	}
	if f.BranchID > 0 {
		params.Set("branch_id", strconv.Itoa(f.BranchID))
	}
	if f.BudgetID > 0 {
		params.Set("budget_id", strconv.Itoa(f.BudgetID))
	}
	params.Set("skip", strconv.Itoa(f.Skip))
	params.Set("limit", strconv.Itoa(f.Limit))

	var expenses []domain.Expense
	if err := c.get(ctx, "/expenses?"+params.Encode(), &expenses); err != nil {
		return nil, fmt.Errorf("client.ListExpenses: %w", err)
	}
	return expenses, nil
}

// GetExpense fetches a single expense by ID.
func (c *Client) GetExpense(ctx context.Context, id int) (*domain.Expense, error) {
	var e domain.Expense
	if err := c.get(ctx, "/expenses/"+strconv.Itoa(id), &e); err != nil {
		return nil, fmt.Errorf("client.GetExpense: %w", err)
	}
	return &e, nil
}

// CreateExpense records a new expense; the backend adds linked amounts
// to the budget's actuals.
func (c *Client) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*domain.Expense, error) {
	var created domain.Expense
	if err := c.post(ctx, "/expenses", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateExpense: %w", err)
	}
	return &created, nil
}

// DeleteExpense removes an expense by ID.
func (c *Client) DeleteExpense(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/expenses/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteExpense: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		// FastAPI wraps errors as {"detail": ...} where detail is usually a
		// string but may be a structured validation list.
		var apiErr struct {
			Detail json.RawMessage `json:"detail"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && len(apiErr.Detail) > 0 {
			var msg string
			if json.Unmarshal(apiErr.Detail, &msg) == nil && msg != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
			}
			return &HTTPError{StatusCode: resp.StatusCode, Message: string(apiErr.Detail)}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}
