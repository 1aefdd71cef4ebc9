package dto

import "time"

type CreateJobRequest struct {
	CategoryID   string     `json:"category_id" validate:"required"`
	Title        string     `json:"title" validate:"required,max=255"`
	Description  string     `json:"description" validate:"required"`
	BudgetMin    float64    `json:"budget_min" validate:"gte=0"`
	BudgetMax    float64    `json:"budget_max" validate:"gte=0"`
	LocationCity *string    `json:"location_city"`
	DeadlineDate *time.Time `json:"deadline_date"`
}

type UpdateJobRequest struct {
	CategoryID   *string    `json:"category_id"`
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	BudgetMin    *float64   `json:"budget_min"`
	BudgetMax    *float64   `json:"budget_max"`
	LocationCity *string    `json:"location_city"`
	DeadlineDate *time.Time `json:"deadline_date"`
}

type JobResponse struct {
	ID                    string            `json:"id"`
	EmployerID            string            `json:"employer_id"`
	Category              *CategoryResponse `json:"category,omitempty"`
	Title                 string            `json:"title"`
	Description           string            `json:"description"`
	BudgetMin             float64           `json:"budget_min"`
	BudgetMax             float64           `json:"budget_max"`
	LocationCity          *string           `json:"location_city,omitempty"`
	DeadlineDate          *time.Time        `json:"deadline_date,omitempty"`
	Status                string            `json:"status"`
	SelectedApplicationID *string           `json:"selected_application_id,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
}

type JobListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
}
