package domain

// Branch is a physical location belonging to a franchise.
type Branch struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	FranchiseID int    `json:"franchise_id"`
}
