package domain

import (
	"errors"
	"regexp"
)

// Budget statuses as reported by the backend.
const (
	BudgetDraft    = "draft"
	BudgetApproved = "approved"
	BudgetRejected = "rejected"
)

// Budget is a planned spending envelope for a franchise (or one of its
// branches) in a single month.
type Budget struct {
	ID             int      `json:"id"`
	FranchiseID    int      `json:"franchise_id"`
	BranchID       *int     `json:"branch_id"`
	Period         string   `json:"period"`
	Currency       string   `json:"currency"`
	PlannedAmount  float64  `json:"planned_amount"`
	ApprovedAmount *float64 `json:"approved_amount"`
	ActualAmount   float64  `json:"actual_amount"`
	Status         string   `json:"status"`
}

// BudgetSummary is the computed view from the budget summary endpoint.
type BudgetSummary struct {
	Planned  float64  `json:"planned"`
	Approved float64  `json:"approved"`
	Actual   float64  `json:"actual"`
	Variance float64  `json:"variance"`
	BurnRate *float64 `json:"burn_rate"`
	Currency string   `json:"currency"`
	Status   string   `json:"status"`
	Period   string   `json:"period"`
}

// Rollup aggregates budget amounts across a franchise and period.
type Rollup struct {
	Planned  float64  `json:"planned"`
	Approved float64  `json:"approved"`
	Actual   float64  `json:"actual"`
	Variance float64  `json:"variance"`
	BurnRate *float64 `json:"burn_rate"`
}

// periodRe accepts YYYY-MM with a real month. The backend's looser
// \d{4}-\d{2} pattern would let "2025-13" through; we reject it here
// before any request is issued.
var periodRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

var (
	ErrPeriodFormat     = errors.New("format: YYYY-MM")
	ErrCurrencyLength   = errors.New("must be exactly 3 characters")
	ErrAmountNegative   = errors.New("must be non-negative")
	ErrAmountNotANumber = errors.New("must be a number")
)

// ValidPeriod reports whether s is a well-formed YYYY-MM period.
func ValidPeriod(s string) bool {
	return periodRe.MatchString(s)
}

// ValidatePeriod returns a field error unless s is a YYYY-MM period.
func ValidatePeriod(s string) error {
	if !ValidPeriod(s) {
		return ErrPeriodFormat
	}
	return nil
}

// ValidateCurrency returns a field error unless s is a 3-letter code.
func ValidateCurrency(s string) error {
	if len(s) != 3 {
		return ErrCurrencyLength
	}
	return nil
}

// ValidateAmount returns a field error unless v is non-negative.
func ValidateAmount(v float64) error {
	if v < 0 {
		return ErrAmountNegative
	}
	return nil
}
