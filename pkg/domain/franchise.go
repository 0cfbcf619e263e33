package domain

import "time"

// Franchise is a franchise organization registered in the CRM.
type Franchise struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	TaxNumber string    `json:"tax_number"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// FranchiseStats is the aggregate returned by the franchise stats endpoint.
type FranchiseStats struct {
	TotalFranchises    int `json:"total_franchises"`
	ActiveFranchises   int `json:"active_franchises"`
	InactiveFranchises int `json:"inactive_franchises"`
}
