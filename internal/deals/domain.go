package deals

import "time"

// Deal statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusClosed   = "closed"
)

// Deal is a funding deal listed by an SME. The JSON field names line up
// with the sensitive-field catalog so outbound payloads mask correctly.
type Deal struct {
	ID               string    `json:"id"`
	Reference        string    `json:"reference"`
	SmeID            string    `json:"userId"`
	Title            string    `json:"title"`
	Sector           string    `json:"sector"`
	FundingRequired  float64   `json:"fundingRequired"`
	EquityPercentage float64   `json:"equityPercentage"`
	ContactEmail     string    `json:"contactEmail"`
	ContactPhone     string    `json:"contactPhone"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
