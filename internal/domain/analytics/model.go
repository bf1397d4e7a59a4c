// Package analytics computes aggregate statistics over claims and users.
package analytics

// ClaimStats summarizes the claims created within the reporting window.
type ClaimStats struct {
	PeriodDays            int            `json:"period_days"`
	TotalClaims           int            `json:"total_claims"`
	ClaimsByStatus        map[string]int `json:"claims_by_status"`
	TotalClaimAmount      float64        `json:"total_claim_amount"`
	ApprovedAmount        float64        `json:"approved_amount"`
	AverageProcessingDays float64        `json:"average_processing_days"`
	// RejectionRate is rejected claims over total claims, 0 when there are
	// no claims.
	RejectionRate float64 `json:"rejection_rate"`
}

// UserStats summarizes the user population.
type UserStats struct {
	TotalUsers                int            `json:"total_users"`
	ActiveUsers               int            `json:"active_users"`
	UsersByRole               map[string]int `json:"users_by_role"`
	NewRegistrationsThisMonth int            `json:"new_registrations_this_month"`
}
