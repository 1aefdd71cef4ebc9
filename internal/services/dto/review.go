package dto

import "time"

// ReviewTarget selects the direction of a review on a completed job.
const (
	ReviewTargetFreelancer = "freelancer"
	ReviewTargetEmployer   = "employer"
)

type CreateReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

type ReviewResponse struct {
	ID           string    `json:"id"`
	JobID        string    `json:"job_id"`
	ReviewerID   string    `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	RevieweeID   string    `json:"reviewee_id"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReviewResult distinguishes a saved review from the informational
// duplicate-review no-op.
type ReviewResult struct {
	Review          *ReviewResponse `json:"review"`
	AlreadyReviewed bool            `json:"already_reviewed"`
}

type RatingResponse struct {
	UserID      string  `json:"user_id"`
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
}
