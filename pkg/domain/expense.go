package domain

// Expense is a recorded spend, optionally linked to a budget. Dates are
// bare YYYY-MM-DD strings on the wire, so they stay strings here.
type Expense struct {
	ID          int     `json:"id"`
	FranchiseID int     `json:"franchise_id"`
	BranchID    *int    `json:"branch_id"`
	BudgetID    *int    `json:"budget_id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Note        *string `json:"note"`
}
