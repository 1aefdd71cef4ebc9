package dto

import "time"

type ApplyRequest struct {
	CoverMessage   *string `json:"cover_message"`
	ProposedBudget float64 `json:"proposed_budget" validate:"gte=0"`
	ProposedDays   int     `json:"proposed_days" validate:"gte=1"`
}

type ApplicationResponse struct {
	ID             string    `json:"id"`
	JobID          string    `json:"job_id"`
	FreelancerID   string    `json:"freelancer_id"`
	FreelancerName string    `json:"freelancer_name,omitempty"`
	CoverMessage   *string   `json:"cover_message,omitempty"`
	ProposedBudget float64   `json:"proposed_budget"`
	ProposedDays   int       `json:"proposed_days"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ApplyResult distinguishes a fresh application from the informational
// duplicate-apply no-op.
type ApplyResult struct {
	Application    *ApplicationResponse `json:"application"`
	AlreadyApplied bool                 `json:"already_applied"`
}
